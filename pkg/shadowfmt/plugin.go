package shadowfmt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/hupe1980/shadowfmt/internal/format"
	"github.com/hupe1980/shadowfmt/internal/lifecycle"
	"github.com/hupe1980/shadowfmt/internal/rewrite"
	"github.com/hupe1980/shadowfmt/internal/shadowpath"
	"github.com/hupe1980/shadowfmt/internal/syncer"
	"github.com/hupe1980/shadowfmt/internal/watch"
)

// Lifecycle errors.
var (
	ErrNotRegistered     = errors.New("plugin is not registered")
	ErrAlreadyRegistered = errors.New("plugin is already registered")
	ErrAlreadyStarted    = errors.New("plugin is already started")
)

// Plugin ties the shadow tree components to a host build tool.
type Plugin struct {
	settings settings

	opts       Options
	translator *shadowpath.Translator
	exclude    *shadowpath.Excluder
	builder    format.OptionBuilder

	mu       sync.Mutex
	started  bool
	watching bool
	lock     *lifecycle.Lock
	guard    *lifecycle.Guard
	sigCtx   context.Context
	stop     context.CancelFunc
	source   *watch.Source
	cancel   context.CancelFunc
	done     chan error
}

// New creates an unregistered Plugin.
func New(opts ...Option) *Plugin {
	s := defaultSettings()

	for _, opt := range opts {
		opt(&s)
	}

	done := make(chan error)
	close(done)

	return &Plugin{settings: s, done: done}
}

// Register fixes the plugin options. Defaults are applied and relative
// paths are resolved against Options.Root.
func (p *Plugin) Register(opts Options) error {
	if p.translator != nil {
		return ErrAlreadyRegistered
	}

	resolved, err := resolve(opts)
	if err != nil {
		return err
	}

	builder := p.settings.builder
	if builder == nil {
		b, err := format.NewBuilder(p.settings.overrides)
		if err != nil {
			return fmt.Errorf("compiling formatter overrides: %w", err)
		}

		builder = b
	}

	p.opts = resolved
	p.builder = builder
	p.exclude = shadowpath.NewExcluder(resolved.Source, resolved.Exclude)
	p.translator = shadowpath.NewTranslator(resolved.Source, resolved.Cache, p.settings.mode)

	return nil
}

// Options returns the registered options with defaults applied.
func (p *Plugin) Options() Options {
	return p.opts
}

func resolve(opts Options) (Options, error) {
	if opts.Root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Options{}, fmt.Errorf("resolving working directory: %w", err)
		}

		opts.Root = wd
	}

	if opts.Source == "" {
		opts.Source = "src"
	}

	if opts.Cache == "" {
		opts.Cache = ".prettier"
	}

	if opts.Includes == nil {
		opts.Includes = append([]string(nil), syncer.DefaultIncludes...)
	}

	abs := func(path string) string {
		if filepath.IsAbs(path) {
			return filepath.Clean(path)
		}

		return filepath.Join(opts.Root, path)
	}

	opts.Root = filepath.Clean(opts.Root)
	opts.Source = abs(opts.Source)
	opts.Cache = abs(opts.Cache)

	includes := make([]string, len(opts.Includes))
	for i, inc := range opts.Includes {
		includes[i] = abs(inc)
	}

	opts.Includes = includes

	return opts, nil
}

// HostConfig rewrites the host configuration in place so that entry points
// and aliases resolve into the shadow tree in watch mode, and the host
// watcher ignores the source tree.
func (p *Plugin) HostConfig(cfg map[string]any) (map[string]any, error) {
	if p.translator == nil {
		return nil, ErrNotRegistered
	}

	return rewrite.New(p.translator, p.settings.logger).Rewrite(cfg), nil
}

// Start activates the plugin: it validates the layout, locks and purges the
// shadow tree, formats every include and source file, and in watch mode
// starts following changes in the background. SIGINT and SIGTERM are
// handled from the moment the shadow tree is purged; a signal during
// population makes Start fail. When Start fails it purges the shadow tree
// and releases the lock itself. On success the caller must call Close.
func (p *Plugin) Start(ctx context.Context) (err error) {
	if p.translator == nil {
		return ErrNotRegistered
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrAlreadyStarted
	}

	s := p.settings
	logger := s.logger

	if err := shadowpath.Assert(s.fs, p.opts.Source, p.opts.Cache); err != nil {
		return err
	}

	if s.lock {
		lock, err := lifecycle.Acquire(p.opts.Cache)
		if err != nil {
			return err
		}

		p.lock = lock
	}

	guard, err := lifecycle.Clean(s.fs, p.opts.Cache, lifecycle.GuardOptions{
		LogLevel: s.exitLogLevel,
		Logger:   logger,
	})
	if err != nil {
		_ = p.releaseLock()
		return err
	}

	sigCtx, stop := guard.Context(ctx)

	p.guard = guard
	p.sigCtx = sigCtx
	p.stop = stop
	p.started = true
	p.done = make(chan error, 1)

	defer func() {
		if err != nil {
			close(p.done)
			err = errors.Join(err, p.teardown())
		}
	}()

	populator := syncer.NewPopulator(s.fs, p.opts.Root, p.opts.Source, p.opts.Includes, p.exclude, logger)

	paths, err := populator.Initial()
	if err != nil {
		return err
	}

	pipeline := syncer.New(s.fs, p.translator, p.builder, s.formatter,
		syncer.WithBaseOptions(s.base),
		syncer.WithLogger(logger),
	)

	if err := pipeline.Sync(sigCtx, paths); err != nil {
		return err
	}

	p.watching = p.translator.Watching()
	if !p.watching {
		close(p.done)
		return nil
	}

	src, err := watch.NewSource(p.opts.Source, watch.SourceOptions{
		Exclude:     p.exclude,
		BatchWindow: s.batchWindow,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	purge := func(path string) error { return lifecycle.Purge(s.fs, path) }

	loop := &watch.Loop{
		Dispatcher: watch.NewDispatcher(p.translator, pipeline, purge, logger),
		Settler:    watch.NewSettler(s.fs, p.translator, pipeline, purge, logger),
		Strategy:   s.coalesce,
		Debounce:   s.debounce,
		Logger:     logger,
		Out:        s.out,
	}

	loopCtx, cancel := context.WithCancel(sigCtx)
	p.source = src
	p.cancel = cancel

	go func() {
		p.done <- loop.Run(loopCtx, src)
		close(p.done)
	}()

	logger.Info("watching for changes", slog.String("source", p.opts.Source))

	return nil
}

// Done is closed when the watch loop has stopped. In build-once mode, and
// when Start failed or was never called, it is already closed.
func (p *Plugin) Done() <-chan error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.done
}

// Close stops watching, purges the shadow tree and releases the lock. It
// is safe to call more than once.
func (p *Plugin) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error

	if p.cancel != nil {
		p.cancel()

		if err, ok := <-p.done; ok && err != nil {
			errs = append(errs, err)
		}

		p.cancel = nil
	}

	if p.source != nil {
		if err := p.source.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing watcher: %w", err))
		}

		p.source = nil
	}

	if err := p.teardown(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// teardown purges the shadow tree, stops signal handling and releases the
// lock. The plugin can be started again afterwards.
func (p *Plugin) teardown() error {
	var errs []error

	if p.guard != nil {
		if err := p.guard.Release(); err != nil {
			errs = append(errs, err)
		}

		p.guard = nil
	}

	if p.stop != nil {
		p.stop()
		p.stop = nil
	}

	if err := p.releaseLock(); err != nil {
		errs = append(errs, err)
	}

	p.started = false

	return errors.Join(errs...)
}

func (p *Plugin) releaseLock() error {
	if p.lock == nil {
		return nil
	}

	err := p.lock.Release()
	p.lock = nil

	return err
}

// Run starts the plugin and, in watch mode, blocks until ctx is cancelled,
// SIGINT or SIGTERM arrives, or the watch loop fails. The shadow tree is
// purged before Run returns, also when a panic unwinds through it. A signal
// that interrupts the initial population is not reported as an error.
func (p *Plugin) Run(ctx context.Context) (err error) {
	defer func() {
		if cerr := p.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if err := p.Start(ctx); err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			return nil
		}

		return err
	}

	if !p.watching {
		return nil
	}

	select {
	case <-p.sigCtx.Done():
		return nil
	case err := <-p.done:
		return err
	}
}
