package shadowpath

import (
	"errors"
	"fmt"
	"io/fs"
)

// ConfigurationError reports a directory layout that would make purging the
// shadow tree unsafe, or a missing source tree.
type ConfigurationError struct {
	Source string
	Cache  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("invalid configuration (source=%s, cache=%s): %s", e.Source, e.Cache, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// SourceMissing reports whether the error is caused by a source directory
// that does not exist.
func (e *ConfigurationError) SourceMissing() bool {
	return errors.Is(e.Err, fs.ErrNotExist)
}
