package syncer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/hupe1980/shadowfmt/internal/format"
	"github.com/hupe1980/shadowfmt/internal/shadowpath"
)

// Pipeline synchronizes single files from the source tree into the shadow
// tree.
type Pipeline struct {
	fs         afero.Fs
	translator *shadowpath.Translator
	builder    format.OptionBuilder
	formatter  format.Formatter
	base       format.Options
	writer     *AtomicWriter
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBaseOptions sets the options every file's resolution starts from.
func WithBaseOptions(opts format.Options) Option {
	return func(p *Pipeline) {
		p.base = opts
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline.
func New(fsys afero.Fs, translator *shadowpath.Translator, builder format.OptionBuilder, formatter format.Formatter, opts ...Option) *Pipeline {
	p := &Pipeline{
		fs:         fsys,
		translator: translator,
		builder:    builder,
		formatter:  formatter,
		base:       format.DefaultOptions(),
		writer:     NewAtomicWriter(fsys),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run formats filePath in place and mirrors it to destination. An empty
// destination is derived by translating filePath. When the destination is
// filePath itself (build-once mode) nothing is mirrored.
//
// The source file is always rewritten, even when formatting changed nothing.
// A rejected file surfaces as a *format.FormatError and nothing is written.
// A failure after the write-back surfaces as a *MirrorError.
func (p *Pipeline) Run(filePath, destination string) error {
	content, err := afero.ReadFile(p.fs, filePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filePath, err)
	}

	info, err := p.fs.Stat(filePath)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", filePath, err)
	}

	opts, err := p.builder.Build(filePath, p.base)
	if err != nil {
		return err
	}

	formatted, err := p.formatter.Format(content, opts)
	if err != nil {
		return err
	}

	perm := info.Mode().Perm()

	if err := p.writer.WriteFile(filePath, formatted, perm); err != nil {
		return err
	}

	if destination == "" {
		destination = p.translator.Translate(filePath)
	}

	if destination == filePath {
		p.logger.Debug("formatted", slog.String("path", filePath))
		return nil
	}

	if err := p.writer.WriteFile(destination, formatted, perm); err != nil {
		return &MirrorError{Path: filePath, Destination: destination, Err: err}
	}

	p.logger.Debug("formatted and mirrored",
		slog.String("path", filePath),
		slog.String("destination", destination),
	)

	return nil
}

// Sync runs the pipeline over paths in order, translating every destination
// under the mode observed when Sync starts. It stops at the first failure.
func (p *Pipeline) Sync(ctx context.Context, paths []string) error {
	pinned := p.translator.Pinned()

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := p.Run(path, pinned.Translate(path)); err != nil {
			return err
		}
	}

	p.logger.Info("shadow tree populated",
		slog.Int("files", len(paths)),
		slog.Bool("watching", pinned.Watching()),
	)

	return nil
}
