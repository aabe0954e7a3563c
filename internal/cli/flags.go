package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hupe1980/shadowfmt/internal/config"
)

// registerShadowFlags adds the shadow tree layout flags. They are persistent
// so that every subcommand resolves the same source and cache.
func registerShadowFlags(f *pflag.FlagSet) {
	f.String("source", config.DefaultSource, "directory of editable source files")
	f.String("cache", config.DefaultCache, "shadow directory the build tool reads from")
	f.StringSlice("includes", config.DefaultIncludes, "extra files formatted on start")
	f.StringSlice("exclude", nil, "gitignore-style patterns of source files to leave alone")
}

// registerWatchFlags adds the flags that tune how notifications are
// coalesced while watching.
func registerWatchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("coalesce", config.CoalesceToggle, "duplicate notification handling: toggle, debounce")
	f.Duration("debounce", config.DefaultDebounce, "quiet period of the debounce strategy")
	f.Duration("batch-window", config.DefaultBatchWindow, "quiet period that closes a batch of notifications")
}

// registerExitFlags adds the flags of the exit cleanup.
func registerExitFlags(cmd *cobra.Command) {
	cmd.Flags().String("exit-log-level", config.DefaultExitLogLevel, "log level of the exit cleanup: debug, info, warn, error")
}
