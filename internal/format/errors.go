package format

import "fmt"

// FormatError is returned when a formatter rejects a file's content.
type FormatError struct {
	Path   string
	Parser string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Parser != "" {
		return fmt.Sprintf("formatting %s (%s): %v", e.Path, e.Parser, e.Err)
	}

	return fmt.Sprintf("formatting %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
