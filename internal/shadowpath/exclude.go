package shadowpath

import (
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// Excluder matches paths below a root against gitignore-style patterns.
// A nil Excluder matches nothing.
type Excluder struct {
	root    string
	matcher *ignore.GitIgnore
}

// NewExcluder compiles patterns relative to root. It returns nil when there
// are no patterns.
func NewExcluder(root string, patterns []string) *Excluder {
	if len(patterns) == 0 {
		return nil
	}

	return &Excluder{
		root:    filepath.Clean(root),
		matcher: ignore.CompileIgnoreLines(patterns...),
	}
}

// Excluded reports whether path matches one of the patterns. Paths outside
// the root are never excluded.
func (e *Excluder) Excluded(path string) bool {
	if e == nil {
		return false
	}

	rel, err := filepath.Rel(e.root, path)
	if err != nil || rel == "." || !filepath.IsLocal(rel) {
		return false
	}

	return e.matcher.MatchesPath(filepath.ToSlash(rel))
}
