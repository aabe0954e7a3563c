package shadowpath

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hupe1980/shadowfmt/internal/maputil"
)

// Translator converts absolute paths in the source namespace into their
// counterparts in the shadow namespace.
type Translator struct {
	source string
	cache  string
	mode   Mode
}

// NewTranslator creates a Translator for the given roots. Both roots are
// cleaned. Paths are compared textually, so translated paths must be in the
// same form as the roots (both absolute, or both relative to the same
// directory). A nil mode means build-once.
func NewTranslator(source, cache string, mode Mode) *Translator {
	if mode == nil {
		mode = BuildOnce
	}

	return &Translator{
		source: filepath.Clean(source),
		cache:  filepath.Clean(cache),
		mode:   mode,
	}
}

// Source returns the source root.
func (t *Translator) Source() string { return t.source }

// Cache returns the cache root.
func (t *Translator) Cache() string { return t.cache }

// Watching queries the underlying mode.
func (t *Translator) Watching() bool { return t.mode.Watching() }

// Pinned returns a Translator that keeps answering with the mode observed
// now. A synchronization run works on a pinned translator so that every
// path it touches is translated under the same mode.
func (t *Translator) Pinned() *Translator {
	return &Translator{
		source: t.source,
		cache:  t.cache,
		mode:   StaticMode(t.mode.Watching()),
	}
}

// Translate returns the destination for path. In build-once mode it is the
// path itself. In watch mode the leading source root is replaced by the
// cache root. Paths outside the source root are returned unchanged.
func (t *Translator) Translate(path string) string {
	if !t.mode.Watching() {
		return path
	}

	rest, ok := t.relative(path)
	if !ok {
		return path
	}

	return t.cache + rest
}

// Contains reports whether path is the source root or lies below it.
func (t *Translator) Contains(path string) bool {
	_, ok := t.relative(path)
	return ok
}

// relative returns the part of path after the source root, including the
// leading separator.
func (t *Translator) relative(path string) (string, bool) {
	if path == t.source {
		return "", true
	}

	prefix := t.source
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}

	if !strings.HasPrefix(path, prefix) {
		return "", false
	}

	return path[len(t.source):], true
}

// Map rewrites every string leaf of v through Translate, in place, and
// returns the rewritten value. Maps and slices keep their shape; non-string
// leaves are left alone.
func (t *Translator) Map(v any) any {
	return maputil.MapStrings(v, t.Translate)
}
