package shadowpath

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Assert checks the directory layout before anything is mutated. It fails
// when the source directory is missing, when the cache is the source or
// lies inside it, or when the source lies inside the cache. A purge of one
// tree must never reach into the other.
func Assert(fsys afero.Fs, source, cache string) error {
	source = filepath.Clean(source)
	cache = filepath.Clean(cache)

	info, err := fsys.Stat(source)
	if err != nil {
		return &ConfigurationError{Source: source, Cache: cache, Reason: "source directory does not exist", Err: err}
	}

	if !info.IsDir() {
		return &ConfigurationError{Source: source, Cache: cache, Reason: "source is not a directory"}
	}

	switch {
	case source == cache:
		return &ConfigurationError{Source: source, Cache: cache, Reason: "cache and source are the same directory"}
	case isDescendant(cache, source):
		return &ConfigurationError{Source: source, Cache: cache, Reason: "cache is inside source"}
	case isDescendant(source, cache):
		return &ConfigurationError{Source: source, Cache: cache, Reason: "source is inside cache"}
	}

	return nil
}

// isDescendant reports whether path lies strictly below dir.
func isDescendant(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}

	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)) && !filepath.IsAbs(rel)
}
