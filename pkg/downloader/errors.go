package downloader

import (
	"errors"
	"fmt"
)

var (
	ErrDownloadFailed    = errors.New("download failed")
	ErrInsufficientSpace = errors.New("insufficient disk space")
)

// Error describes a failed download. StatusCode is 0 when no response arrived.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrDownloadFailed }
