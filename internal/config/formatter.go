package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hupe1980/shadowfmt/internal/format"
)

// LoadFormatter reads the formatter section from the config file at path.
// An empty path or a missing file yields an empty formatter config, which
// selects the built-in engine with default options.
func LoadFormatter(path string) (*format.Config, error) {
	if path == "" {
		return &format.Config{}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &format.Config{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading formatter config: %w", err)
	}

	return format.ParseConfig(data)
}
