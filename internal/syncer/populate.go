package syncer

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/hupe1980/shadowfmt/internal/shadowpath"
)

// DefaultIncludes is the include list used when none is configured: the
// project manifest at the project root.
var DefaultIncludes = []string{"package.json"}

// Populator enumerates the files that make up a fresh shadow tree.
type Populator struct {
	fs       afero.Fs
	root     string
	source   string
	includes []string
	exclude  *shadowpath.Excluder
	logger   *slog.Logger
}

// NewPopulator creates a Populator. Relative includes resolve against root.
func NewPopulator(fsys afero.Fs, root, source string, includes []string, exclude *shadowpath.Excluder, logger *slog.Logger) *Populator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Populator{
		fs:       fsys,
		root:     root,
		source:   source,
		includes: includes,
		exclude:  exclude,
		logger:   logger,
	}
}

// Initial returns the include files followed by every regular file below
// the source root, in lexical walk order. Include files that do not exist
// are skipped with a warning.
func (p *Populator) Initial() ([]string, error) {
	var paths []string

	for _, inc := range p.includes {
		abs := inc
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(p.root, inc)
		}

		info, err := p.fs.Stat(abs)
		if errors.Is(err, os.ErrNotExist) {
			p.logger.Warn("include file not found, skipping", slog.String("path", abs))
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("inspecting include %s: %w", abs, err)
		}

		if info.IsDir() {
			return nil, fmt.Errorf("include %s is a directory", abs)
		}

		paths = append(paths, abs)
	}

	files, err := p.Enumerate(p.source)
	if err != nil {
		return nil, err
	}

	return append(paths, files...), nil
}

// Enumerate lists every regular file below dir that is not excluded.
func (p *Populator) Enumerate(dir string) ([]string, error) {
	var files []string

	err := afero.Walk(p.fs, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if p.exclude.Excluded(path) {
			if info.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if info.Mode().IsRegular() {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerating %s: %w", dir, err)
	}

	return files, nil
}
