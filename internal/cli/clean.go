package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/hupe1980/shadowfmt/internal/config"
	"github.com/hupe1980/shadowfmt/internal/lifecycle"
	"github.com/hupe1980/shadowfmt/internal/shadowpath"
)

func newCleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the shadow directory",
		Long: `Clean removes the shadow directory left behind by an interrupted run.
It refuses to run while another shadowfmt process holds the shadow
directory, and it never removes a shadow directory that contains the
source directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())

			source, err := filepath.Abs(cfg.Source)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			cache, err := filepath.Abs(cfg.Cache)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			fsys := afero.NewOsFs()

			if err := shadowpath.Assert(fsys, source, cache); err != nil {
				var cfgErr *shadowpath.ConfigurationError
				if !errors.As(err, &cfgErr) || !cfgErr.SourceMissing() {
					return &ExitError{Code: 2, Err: err}
				}
			}

			lock, err := lifecycle.Acquire(cache)
			if err != nil {
				return &ExitError{Code: 1, Err: err}
			}

			defer func() { _ = lock.Release() }()

			if err := lifecycle.Purge(fsys, cache); err != nil {
				return &ExitError{Code: 1, Err: err}
			}

			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "removed %s\n", cache)

			return nil
		},
	}

	return cmd
}
