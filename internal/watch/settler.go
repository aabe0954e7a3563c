package watch

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/hupe1980/shadowfmt/internal/shadowpath"
)

// Settler is the time-based alternative to the Dispatcher's toggle: paths
// reach it through a Debouncer once their notifications went quiet, and
// each is synchronized once. The notification caused by rewriting a source
// file is recognized by content digest and ignored.
type Settler struct {
	fs         afero.Fs
	translator *shadowpath.Translator
	syncer     Syncer
	purge      PurgeFunc
	written    map[string][sha256.Size]byte
	logger     *slog.Logger
}

// NewSettler creates a Settler. Like the Dispatcher it must only be used
// from one goroutine.
func NewSettler(fsys afero.Fs, translator *shadowpath.Translator, syncer Syncer, purge PurgeFunc, logger *slog.Logger) *Settler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Settler{
		fs:         fsys,
		translator: translator,
		syncer:     syncer,
		purge:      purge,
		written:    make(map[string][sha256.Size]byte),
		logger:     logger,
	}
}

// Settle synchronizes path unless its content is what the last
// synchronization wrote. A path that disappeared has its shadow copy purged.
func (s *Settler) Settle(path string) Outcome {
	destination := s.translator.Translate(path)
	o := Outcome{Event: FileEvent{Type: Updated, Path: path}, Destination: destination}

	content, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return s.Remove(FileEvent{Type: Deleted, Path: path})
	}

	if err != nil {
		o.Action = ActionFailed
		o.Err = fmt.Errorf("reading %s: %w", path, err)

		return o
	}

	if sum, ok := s.written[path]; ok && sum == sha256.Sum256(content) {
		o.Action = ActionCoalesced
		return o
	}

	if err := s.syncer.Run(path, destination); err != nil {
		delete(s.written, path)

		if sourceRewritten(err) {
			s.remember(path)
		}

		o.Action = ActionFailed
		o.Err = err

		return o
	}

	s.remember(path)

	o.Action = ActionSynced

	return o
}

// remember records the digest of what the last synchronization wrote back.
func (s *Settler) remember(path string) {
	if formatted, err := afero.ReadFile(s.fs, path); err == nil {
		s.written[path] = sha256.Sum256(formatted)
	}
}

// Remove purges the shadow copy for a deleted or unresolvable path.
func (s *Settler) Remove(ev FileEvent) Outcome {
	delete(s.written, ev.Path)

	return removeShadow(s.purge, Outcome{Event: ev, Destination: s.translator.Translate(ev.Path)})
}
