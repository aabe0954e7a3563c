package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hupe1980/shadowfmt/internal/config"
	"github.com/hupe1980/shadowfmt/internal/logging"
	"github.com/hupe1980/shadowfmt/internal/maputil"
	"github.com/hupe1980/shadowfmt/internal/output"
	"github.com/hupe1980/shadowfmt/internal/rewrite"
	"github.com/hupe1980/shadowfmt/internal/shadowpath"
)

type rewriteOptions struct {
	// Rewrite for a build-once host instead of a watching one.
	buildOnce bool

	// Print a unified diff instead of the rewritten document.
	diff bool

	// Write the result here instead of stdout.
	output string

	// Replace the input file.
	inPlace bool

	// Output format: yaml or json. Default: the input file's format.
	format string
}

func newRewriteCommand() *cobra.Command {
	opts := &rewriteOptions{}

	cmd := &cobra.Command{
		Use:   "rewrite <host-config>",
		Short: "Point a build tool configuration at the shadow tree",
		Long: `Rewrite loads a JSON or YAML build tool configuration and adapts it
to the shadow tree:

  entry           every path below the source directory is moved into
                  the shadow directory
  resolve.alias   same as entry
  watchOptions    ignored becomes [<source>, "**/node_modules"]

Paths must be written the way --source is, e.g. "src/app.js" for the
default source "src". With --build-once paths are left alone and only
watchOptions.ignored is set.

Use --diff to preview the change as a unified diff.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.buildOnce, "build-once", false, "rewrite for a build-once host")
	f.BoolVar(&opts.diff, "diff", false, "print a unified diff instead of the rewritten configuration")
	f.StringVarP(&opts.output, "output", "o", "", "output file path (default: stdout)")
	f.BoolVarP(&opts.inPlace, "in-place", "i", false, "replace the input file")
	f.StringVar(&opts.format, "format", "", "output format: yaml, json (default: input format)")

	return cmd
}

func runRewrite(cmd *cobra.Command, path string, opts *rewriteOptions) error {
	if opts.inPlace && opts.output != "" {
		return &ExitError{Code: 2, Err: errors.New("--in-place and --output are mutually exclusive")}
	}

	outFormat := opts.format
	if outFormat == "" {
		outFormat = rewrite.DetectFormat(path)
	}

	if outFormat != rewrite.FormatYAML && outFormat != rewrite.FormatJSON {
		return &ExitError{Code: 2, Err: fmt.Errorf("invalid format %q: must be one of yaml, json", outFormat)}
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("reading host configuration: %w", err)}
	}

	hostCfg, err := rewrite.Load(data)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	baseline := maputil.CloneMap(hostCfg)

	cfg := config.FromContext(cmd.Context())
	translator := shadowpath.NewTranslator(cfg.Source, cfg.Cache, shadowpath.StaticMode(!opts.buildOnce))

	rewritten := rewrite.New(translator, logging.FromContext(cmd.Context())).Rewrite(hostCfg)

	out, err := rewrite.Marshal(rewritten, outFormat)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	if opts.diff {
		before, err := rewrite.Marshal(baseline, outFormat)
		if err != nil {
			return &ExitError{Code: 1, Err: err}
		}

		diffOpts := rewrite.DefaultDiffOptions()
		diffOpts.OldLabel = path
		diffOpts.NewLabel = path + " (rewritten)"

		result, err := rewrite.ComputeDiff(string(before), string(out), diffOpts)
		if err != nil {
			return &ExitError{Code: 1, Err: err}
		}

		rewrite.WriteDiff(cmd.OutOrStdout(), result, !cfg.NoColor)

		return nil
	}

	var w output.Writer

	switch {
	case opts.inPlace:
		w = output.NewFileWriter(path, output.WithLogger(logging.FromContext(cmd.Context())))
	case opts.output != "":
		w = output.NewFileWriter(opts.output, output.WithLogger(logging.FromContext(cmd.Context())))
	default:
		w = output.NewStdoutWriter(cmd.OutOrStdout())
	}

	if err := w.Write(out); err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	return nil
}
