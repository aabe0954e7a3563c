package lifecycle

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/afero"

	"github.com/hupe1980/shadowfmt/internal/logging"
)

// GuardOptions configures a Guard.
type GuardOptions struct {
	// LogLevel is the minimum level of the guard's own log lines.
	// Default: error.
	LogLevel string

	// Logger receives the guard's log lines. Default: slog.Default().
	Logger *slog.Logger

	// Signals end the guarded context. Default: SIGINT, SIGTERM.
	Signals []os.Signal
}

// Guard runs a cleanup function exactly once when the process is done with
// the guarded resource. Callers defer Release right after creating the guard,
// so the cleanup runs on normal return and while a panic unwinds; signals
// end the context from Context, which makes the caller return.
type Guard struct {
	cleanup func() error
	logger  *slog.Logger
	signals []os.Signal
	once    sync.Once
	err     error
}

// NewGuard creates a Guard around cleanup.
func NewGuard(cleanup func() error, opts GuardOptions) *Guard {
	if opts.LogLevel == "" {
		opts.LogLevel = "error"
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if len(opts.Signals) == 0 {
		opts.Signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	return &Guard{
		cleanup: cleanup,
		logger:  logging.WithMinLevel(opts.Logger, logging.ParseLevel(opts.LogLevel)),
		signals: opts.Signals,
	}
}

// Context returns a child of parent that is cancelled when one of the
// guard's signals arrives. Call stop to release signal handling.
func (g *Guard) Context(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, g.signals...)
}

// Release runs the cleanup once and returns its error. Later calls return
// the same error without running it again.
func (g *Guard) Release() error {
	g.once.Do(func() {
		g.logger.Info("running exit cleanup")

		if g.err = g.cleanup(); g.err != nil {
			g.logger.Error("exit cleanup failed", slog.String("error", g.err.Error()))
			return
		}

		g.logger.Debug("exit cleanup finished")
	})

	return g.err
}

// Clean purges cache now and returns a Guard that purges it again on
// release. A failing initial purge is returned and no guard is created.
func Clean(fsys afero.Fs, cache string, opts GuardOptions) (*Guard, error) {
	purge := func() error { return Purge(fsys, cache) }

	if err := purge(); err != nil {
		return nil, err
	}

	return NewGuard(purge, opts), nil
}
