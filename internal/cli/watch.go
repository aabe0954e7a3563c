package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/shadowfmt/internal/version"
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Format the source tree and mirror changes into the shadow tree",
		Long: `Watch purges the shadow directory, formats every include file and
every file below the source directory, and mirrors the formatted source
files into the shadow directory. It then follows changes until interrupted.

Each change is formatted in place and mirrored once; the notification
caused by writing the formatted file back is absorbed. Deleted files are
removed from the shadow directory.

On exit (Ctrl-C, SIGTERM, or a fatal error) the shadow directory is purged.

Use --coalesce=debounce to synchronize a file only after its
notifications have been quiet for --debounce.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := newPlugin(cmd.Context(), true, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			opts := p.Options()
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: watching %s, mirroring into %s\n",
				version.GetInfo().Short(), opts.Source, opts.Cache)

			return runPlugin(cmd.Context(), p)
		},
	}

	registerWatchFlags(cmd)
	registerExitFlags(cmd)

	return cmd
}
