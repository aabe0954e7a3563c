package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hupe1980/shadowfmt/internal/shadowpath"
)

// DefaultBatchWindow is the quiet period that closes a batch.
const DefaultBatchWindow = 50 * time.Millisecond

// Source turns fsnotify notifications below a root directory into batches
// of FileEvents. Within a batch each path appears once, at the position of
// its first notification.
type Source struct {
	watcher *fsnotify.Watcher
	root    string
	exclude *shadowpath.Excluder
	window  time.Duration
	logger  *slog.Logger
}

// SourceOptions configures a Source.
type SourceOptions struct {
	// Exclude drops matching paths.
	Exclude *shadowpath.Excluder

	// BatchWindow is the quiet period that closes a batch.
	// Default: DefaultBatchWindow.
	BatchWindow time.Duration

	// Logger is used for structured logging. Default: slog.Default().
	Logger *slog.Logger
}

// NewSource starts watching root recursively. Hidden directories are not
// watched.
func NewSource(root string, opts SourceOptions) (*Source, error) {
	if opts.BatchWindow <= 0 {
		opts.BatchWindow = DefaultBatchWindow
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	s := &Source{
		watcher: watcher,
		root:    filepath.Clean(root),
		exclude: opts.Exclude,
		window:  opts.BatchWindow,
		logger:  opts.Logger,
	}

	if _, err := s.addRecursive(s.root); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watching source directory: %w", err)
	}

	return s, nil
}

// Close stops the underlying watcher.
func (s *Source) Close() error {
	return s.watcher.Close()
}

// Subscribe delivers batches and watcher errors to handler until ctx is
// cancelled or the watcher is closed. Handler calls happen on the calling
// goroutine, one at a time.
func (s *Source) Subscribe(ctx context.Context, handler Handler) error {
	batches, errs := s.Batches(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case batch, ok := <-batches:
			if !ok {
				return nil
			}

			handler(nil, batch)
		case err := <-errs:
			handler(err, nil)
		}
	}
}

// Batches starts collecting and returns the batch and error channels. The
// batch channel is closed when ctx is cancelled or the watcher closes.
func (s *Source) Batches(ctx context.Context) (<-chan []FileEvent, <-chan error) {
	batches := make(chan []FileEvent)
	errs := make(chan error)

	go s.collect(ctx, batches, errs)

	return batches, errs
}

// collect groups notifications into batches separated by a quiet window.
func (s *Source) collect(ctx context.Context, batches chan<- []FileEvent, errs chan<- error) {
	defer close(batches)

	var (
		pending []FileEvent
		index   = make(map[string]int)
		timer   *time.Timer
		flush   <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			for _, ev := range s.convert(event) {
				pending = merge(pending, index, ev)
			}

			if len(pending) == 0 {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(s.window)
			} else {
				timer.Reset(s.window)
			}

			flush = timer.C

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}

			select {
			case errs <- err:
			case <-ctx.Done():
				return
			}

		case <-flush:
			flush = nil
			batch := s.resolve(pending)
			pending = nil
			index = make(map[string]int)

			if len(batch) == 0 {
				continue
			}

			select {
			case batches <- batch:
			case <-ctx.Done():
				return
			}
		}
	}
}

// merge adds ev to the batch, folding it into an earlier event for the same
// path. A creation stays a creation when the file is then written to.
func merge(batch []FileEvent, index map[string]int, ev FileEvent) []FileEvent {
	i, ok := index[ev.Path]
	if !ok {
		index[ev.Path] = len(batch)
		return append(batch, ev)
	}

	if batch[i].Type == Created && ev.Type == Updated {
		return batch
	}

	batch[i].Type = ev.Type

	return batch
}

// resolve marks created or updated paths that vanished before the batch
// closed as errors, and drops paths that turned into directories.
func (s *Source) resolve(batch []FileEvent) []FileEvent {
	out := batch[:0]

	for _, ev := range batch {
		if ev.Type == Created || ev.Type == Updated {
			info, err := os.Lstat(ev.Path)

			switch {
			case err != nil:
				ev.Type = Error
			case info.IsDir():
				continue
			}
		}

		out = append(out, ev)
	}

	return out
}

// convert maps one fsnotify event to FileEvents. A created directory is
// watched and its files are reported as created.
func (s *Source) convert(event fsnotify.Event) []FileEvent {
	if !isRelevant(event) || s.exclude.Excluded(event.Name) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return []FileEvent{{Type: Deleted, Path: event.Name}}

	case event.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil || !info.IsDir() {
			return []FileEvent{{Type: Created, Path: event.Name}}
		}

		files, err := s.addRecursive(event.Name)
		if err != nil {
			s.logger.Warn("watching new directory failed",
				slog.String("path", event.Name),
				slog.String("error", err.Error()),
			)
		}

		events := make([]FileEvent, 0, len(files))
		for _, f := range files {
			events = append(events, FileEvent{Type: Created, Path: f})
		}

		return events

	default:
		return []FileEvent{{Type: Updated, Path: event.Name}}
	}
}

// addRecursive walks root, adds all directories to the watcher and returns
// the regular files it found.
func (s *Source) addRecursive(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path != root && (strings.HasPrefix(d.Name(), ".") || s.exclude.Excluded(path)) {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			return s.watcher.Add(path)
		}

		if d.Type().IsRegular() {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}

// isRelevant filters out metadata-only events, hidden files and editor
// temporaries, including the pipeline's own temporary files.
func isRelevant(event fsnotify.Event) bool {
	if event.Op == 0 {
		return false
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Base(event.Name)

	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp") || strings.HasPrefix(name, "#") {
		return false
	}

	return true
}
