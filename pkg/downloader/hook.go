package downloader

import (
	"net/http"
)

// Hook is called after every chunk written with the running byte count.
// A non-nil return aborts the download. On a read error the hook is called
// once more with that error, and its result is joined into the returned one.
type Hook func(resp *http.Response, written int64, err error) error
