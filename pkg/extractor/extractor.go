package extractor

import (
	"errors"
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/mdsohelmia/fontsync/pkg/logger"
)

var (
	ErrCorruptArchive = errors.New("corrupt archive")
	ErrIllegalPath    = errors.New("illegal path")
)

// Error wraps a failure to read an archive.
type Error struct {
	Archive string
	Err     error
}

func (e *Error) Error() string { return fmt.Sprintf("extract %s: %v", e.Archive, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrCorruptArchive }

type Extractor interface {
	// Extract unpacks src into dest and returns the written files.
	Extract(src string, dest string) ([]string, error)
}

const ZipExt = ".zip"

// ForExt returns the extractor for an archive extension, or nil.
func ForExt(ext string, fs billy.Filesystem, log *logger.Logger) Extractor {
	switch ext {
	case ZipExt:
		return New(fs, log)
	default:
		return nil
	}
}
