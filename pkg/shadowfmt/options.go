package shadowfmt

import (
	"io"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"github.com/hupe1980/shadowfmt/internal/format"
	"github.com/hupe1980/shadowfmt/internal/logging"
	"github.com/hupe1980/shadowfmt/internal/shadowpath"
	"github.com/hupe1980/shadowfmt/internal/watch"
)

// Options are the user-facing plugin options. They are fixed by Register.
type Options struct {
	// Source is the directory of editable source files. Default: "src".
	Source string

	// Cache is the shadow directory the host build reads from in watch
	// mode. Default: ".prettier".
	Cache string

	// Includes are extra files formatted on activation. A nil slice selects
	// the default ["package.json"]; an empty slice disables includes.
	Includes []string

	// Exclude holds gitignore-style patterns, relative to Source, for files
	// that are never formatted.
	Exclude []string

	// Root resolves relative Source, Cache and Includes. Default: the
	// working directory.
	Root string
}

// Option configures a Plugin's collaborators.
// Use the With* functions to create Options.
type Option func(*settings)

type settings struct {
	fs           afero.Fs
	mode         shadowpath.Mode
	formatter    format.Formatter
	builder      format.OptionBuilder
	overrides    []format.Override
	base         format.Options
	logger       *slog.Logger
	out          io.Writer
	coalesce     string
	debounce     time.Duration
	batchWindow  time.Duration
	exitLogLevel string
	lock         bool
}

func defaultSettings() settings {
	return settings{
		fs:           afero.NewOsFs(),
		mode:         shadowpath.BuildOnce,
		formatter:    format.NewEngine(),
		base:         format.DefaultOptions(),
		logger:       logging.Discard(),
		out:          io.Discard,
		coalesce:     watch.StrategyToggle,
		debounce:     watch.DefaultDebounce,
		batchWindow:  watch.DefaultBatchWindow,
		exitLogLevel: "error",
		lock:         true,
	}
}

// --- Host ---

// WithMode sets the host's mode oracle. Default: build-once.
func WithMode(m shadowpath.Mode) Option { return func(s *settings) { s.mode = m } }

// WithWatch is shorthand for WithMode with a fixed value.
func WithWatch(watching bool) Option {
	return func(s *settings) { s.mode = shadowpath.StaticMode(watching) }
}

// WithFs replaces the filesystem used for formatting, mirroring and purging.
// The watch event source always observes the real filesystem.
func WithFs(fsys afero.Fs) Option { return func(s *settings) { s.fs = fsys } }

// WithoutLock skips the cross-process shadow tree lock.
func WithoutLock() Option { return func(s *settings) { s.lock = false } }

// --- Formatting ---

// WithFormatter replaces the built-in formatting engine.
func WithFormatter(f format.Formatter) Option { return func(s *settings) { s.formatter = f } }

// WithOptionBuilder replaces the per-file option builder. It takes
// precedence over overrides from WithFormatterConfig.
func WithOptionBuilder(b format.OptionBuilder) Option { return func(s *settings) { s.builder = b } }

// WithBaseOptions sets the options every file's resolution starts from.
func WithBaseOptions(o format.Options) Option { return func(s *settings) { s.base = o } }

// WithFormatterConfig applies a parsed formatter config section: its
// formatter, its overrides and its defaults.
func WithFormatterConfig(c *format.Config) Option {
	return func(s *settings) {
		if c == nil {
			return
		}

		s.formatter = c.NewFormatter()
		s.base = c.BaseOptions()
		s.overrides = c.Overrides
	}
}

// --- Watching ---

// WithCoalesce selects "toggle" (default) or "debounce".
func WithCoalesce(strategy string) Option { return func(s *settings) { s.coalesce = strategy } }

// WithDebounce sets the quiet period of the debounce strategy.
func WithDebounce(d time.Duration) Option { return func(s *settings) { s.debounce = d } }

// WithBatchWindow sets the quiet period that closes a notification batch.
func WithBatchWindow(d time.Duration) Option { return func(s *settings) { s.batchWindow = d } }

// --- Output ---

// WithLogger sets the structured logger. Default: discard.
func WithLogger(l *slog.Logger) Option { return func(s *settings) { s.logger = l } }

// WithOutput sets the writer for per-event status lines. Default: discard.
func WithOutput(w io.Writer) Option { return func(s *settings) { s.out = w } }

// WithExitLogLevel sets the verbosity threshold of the exit cleanup.
// Default: "error".
func WithExitLogLevel(level string) Option { return func(s *settings) { s.exitLogLevel = level } }
