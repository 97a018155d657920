package downloader

import (
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/mdsohelmia/fontsync/pkg/logger"
)

type Config struct {
	// Filesystem receives downloaded files. Required.
	Filesystem     billy.Filesystem
	CopyBufferSize int
	RetryWaitMin   time.Duration // Minimum time to wait
	RetryWaitMax   time.Duration // Maximum time to wait
	RetryMax       int           // Maximum number of retries, 0 fails on the first error
	Timeout        time.Duration // Per request, 0 means none
	Progress       Sink
	Hook           Hook
	// SpaceCheck, when set, is asked before writing a body of known size.
	SpaceCheck SpaceFunc
	Log        *logger.Logger
}
