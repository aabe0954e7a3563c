package watch

import (
	"errors"
	"log/slog"

	"github.com/hupe1980/shadowfmt/internal/shadowpath"
)

// Syncer formats a source file and mirrors it to destination. Errors that
// occur after the source file was rewritten should implement
// SourceRewritten() bool so that the write-back echo is still absorbed.
type Syncer interface {
	Run(filePath, destination string) error
}

// PurgeFunc removes a path from the shadow tree.
type PurgeFunc func(path string) error

// Action is what the dispatcher did for one event.
type Action string

const (
	// ActionSynced means the file was formatted and mirrored.
	ActionSynced Action = "synced"
	// ActionCoalesced means the event cancelled a pending marker.
	ActionCoalesced Action = "coalesced"
	// ActionPurged means the shadow copy was removed.
	ActionPurged Action = "purged"
	// ActionSkipped means there was no shadow copy to act on.
	ActionSkipped Action = "skipped"
	// ActionFailed means synchronization or purging failed.
	ActionFailed Action = "failed"
)

// Outcome reports the handling of one event.
type Outcome struct {
	Event       FileEvent
	Destination string
	Action      Action
	Err         error
}

// Dispatcher drives incremental re-synchronization. It owns the pending
// queue and must only be used from one goroutine.
//
// The queue toggles: the first event for a path marks it pending and
// synchronizes it; the next event for the same path only clears the mark.
// Rewriting a source file in place produces one notification of its own,
// which the second half of the toggle absorbs. Two genuine edits arriving
// back to back therefore result in a single synchronization.
type Dispatcher struct {
	translator *shadowpath.Translator
	syncer     Syncer
	purge      PurgeFunc
	pending    map[string]struct{}
	logger     *slog.Logger
}

// NewDispatcher creates a Dispatcher with an empty pending queue.
func NewDispatcher(translator *shadowpath.Translator, syncer Syncer, purge PurgeFunc, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		translator: translator,
		syncer:     syncer,
		purge:      purge,
		pending:    make(map[string]struct{}),
		logger:     logger,
	}
}

// Dispatch handles a batch strictly in order. A failing event does not stop
// the batch; all failures are joined into the returned error.
func (d *Dispatcher) Dispatch(events []FileEvent) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(events))

	var errs []error

	for _, ev := range events {
		o := d.handle(ev)
		if o.Err != nil {
			errs = append(errs, o.Err)
		}

		outcomes = append(outcomes, o)
	}

	return outcomes, errors.Join(errs...)
}

func (d *Dispatcher) handle(ev FileEvent) Outcome {
	destination := d.translator.Translate(ev.Path)
	o := Outcome{Event: ev, Destination: destination}

	// Deleted paths purge instead of taking a turn in the toggle queue: the
	// pipeline cannot read a removed file, so no echo would follow.
	if ev.Type == Error || ev.Type == Deleted {
		return removeShadow(d.purge, o)
	}

	if _, ok := d.pending[ev.Path]; ok {
		delete(d.pending, ev.Path)
		o.Action = ActionCoalesced

		d.logger.Debug("coalesced notification", slog.String("path", ev.Path))

		return o
	}

	d.pending[ev.Path] = struct{}{}

	if err := d.syncer.Run(ev.Path, destination); err != nil {
		// Without a write-back no echo will arrive to clear the mark.
		if !sourceRewritten(err) {
			delete(d.pending, ev.Path)
		}

		o.Action = ActionFailed
		o.Err = err

		return o
	}

	o.Action = ActionSynced

	return o
}

// rewrittenError is implemented by errors raised after the source file was
// already written back.
type rewrittenError interface {
	error
	SourceRewritten() bool
}

// sourceRewritten reports whether err left a rewritten source file behind.
func sourceRewritten(err error) bool {
	var re rewrittenError
	return errors.As(err, &re) && re.SourceRewritten()
}

// removeShadow purges the shadow copy for a deleted or unresolvable path.
func removeShadow(purge PurgeFunc, o Outcome) Outcome {
	// Without a shadow tree the destination is the source file itself.
	if o.Destination == o.Event.Path {
		o.Action = ActionSkipped
		return o
	}

	if err := purge(o.Destination); err != nil {
		o.Action = ActionFailed
		o.Err = err

		return o
	}

	o.Action = ActionPurged

	return o
}

// Pending reports whether path is marked pending.
func (d *Dispatcher) Pending(path string) bool {
	_, ok := d.pending[path]
	return ok
}

// PendingLen returns the number of pending paths.
func (d *Dispatcher) PendingLen() int {
	return len(d.pending)
}
