package lifecycle

import (
	"fmt"

	"github.com/spf13/afero"
)

// Purge removes path recursively. A missing path is not an error.
func Purge(fsys afero.Fs, path string) error {
	if err := fsys.RemoveAll(path); err != nil {
		return fmt.Errorf("purging %s: %w", path, err)
	}

	return nil
}
