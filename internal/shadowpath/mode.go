package shadowpath

// Mode reports whether the host build tool is currently watching. It is
// queried live on every translation that is not pinned.
type Mode interface {
	Watching() bool
}

// ModeFunc adapts a plain function to the Mode interface.
type ModeFunc func() bool

// Watching calls f.
func (f ModeFunc) Watching() bool { return f() }

// StaticMode is a Mode whose value never changes.
type StaticMode bool

// Watching returns the static value.
func (m StaticMode) Watching() bool { return bool(m) }

const (
	// BuildOnce is the one-shot build mode: files are formatted in place and
	// nothing is mirrored.
	BuildOnce = StaticMode(false)

	// Watch is the incremental mode: formatted files are mirrored into the
	// shadow tree.
	Watch = StaticMode(true)
)
