package syncer

import "fmt"

// MirrorError reports a failure to copy an already formatted file into the
// shadow tree. The source file has been rewritten when it is returned.
type MirrorError struct {
	Path        string
	Destination string
	Err         error
}

func (e *MirrorError) Error() string {
	return fmt.Sprintf("mirroring %s to %s: %v", e.Path, e.Destination, e.Err)
}

func (e *MirrorError) Unwrap() error { return e.Err }

// SourceRewritten always reports true: the write-back precedes the mirror.
func (e *MirrorError) SourceRewritten() bool { return true }
