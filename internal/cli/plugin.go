package cli

import (
	"context"
	"io"

	"github.com/hupe1980/shadowfmt/internal/config"
	"github.com/hupe1980/shadowfmt/internal/logging"
	"github.com/hupe1980/shadowfmt/pkg/shadowfmt"
)

// newPlugin builds and registers a Plugin from the configuration carried
// in ctx. Relative paths resolve against the working directory.
func newPlugin(ctx context.Context, watching bool, out io.Writer) (*shadowfmt.Plugin, error) {
	cfg := config.FromContext(ctx)

	fmtCfg, err := config.LoadFormatter(config.ConfigFileFromContext(ctx))
	if err != nil {
		return nil, &ExitError{Code: 2, Err: err}
	}

	p := shadowfmt.New(
		shadowfmt.WithWatch(watching),
		shadowfmt.WithFormatterConfig(fmtCfg),
		shadowfmt.WithLogger(logging.FromContext(ctx)),
		shadowfmt.WithOutput(out),
		shadowfmt.WithCoalesce(cfg.Coalesce),
		shadowfmt.WithDebounce(cfg.Debounce),
		shadowfmt.WithBatchWindow(cfg.BatchWindow),
		shadowfmt.WithExitLogLevel(cfg.ExitLogLevel),
	)

	err = p.Register(shadowfmt.Options{
		Source:   cfg.Source,
		Cache:    cfg.Cache,
		Includes: cfg.Includes,
		Exclude:  cfg.Exclude,
	})
	if err != nil {
		return nil, &ExitError{Code: 2, Err: err}
	}

	return p, nil
}

// runPlugin runs p and maps configuration errors to exit code 2.
func runPlugin(ctx context.Context, p *shadowfmt.Plugin) error {
	if err := p.Run(ctx); err != nil {
		if isConfigurationError(err) {
			return &ExitError{Code: 2, Err: err}
		}

		return &ExitError{Code: 1, Err: err}
	}

	return nil
}
