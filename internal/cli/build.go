package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Format the source tree in place once",
		Long: `Build formats every include file and every file below the source
directory in place and exits. Nothing is mirrored into the shadow
directory; a build-once host reads the source directory directly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := newPlugin(cmd.Context(), false, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if err := runPlugin(cmd.Context(), p); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "formatted %s\n", p.Options().Source)

			return nil
		},
	}

	registerExitFlags(cmd)

	return cmd
}
