package syncer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// AtomicWriter replaces files by writing a hidden temporary file next to the
// target and renaming it over the target. Readers observe either the old or
// the new content, and a watcher sees a single event for the target.
type AtomicWriter struct {
	fs      afero.Fs
	dirPerm os.FileMode
}

// NewAtomicWriter creates a writer on fsys.
func NewAtomicWriter(fsys afero.Fs) *AtomicWriter {
	return &AtomicWriter{fs: fsys, dirPerm: 0o755}
}

// WriteFile creates parent directories as needed and atomically replaces
// path with data.
func (w *AtomicWriter) WriteFile(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := w.fs.MkdirAll(dir, w.dirPerm); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(w.fs, dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", path, err)
	}

	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = w.fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}

	if err := w.fs.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", tmpName, err)
	}

	if err := w.fs.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	return nil
}
