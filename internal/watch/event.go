package watch

// EventType classifies a FileEvent.
type EventType int

const (
	// Created reports a new file.
	Created EventType = iota
	// Updated reports a modified file.
	Updated
	// Deleted reports a removed or renamed-away file or directory.
	Deleted
	// Error reports a path the watcher could not resolve; its shadow copy
	// is treated as stale.
	Error
)

// String returns a human-readable representation of the event type.
func (t EventType) String() string {
	switch t {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Deleted:
		return "deleted"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// FileEvent is a single change notification for an absolute path in the
// source tree.
type FileEvent struct {
	Type EventType
	Path string
}

// Handler receives either a watcher error or a batch of events. Batches are
// delivered in arrival order and events within a batch are ordered.
type Handler func(err error, events []FileEvent)
