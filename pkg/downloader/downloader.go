package downloader

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/mdsohelmia/fontsync/pkg/logger"
)

// Downloader streams HTTP bodies into a filesystem, one chunk at a time.
type Downloader struct {
	client         *http.Client
	fs             billy.Filesystem
	copyBufferSize int
	progress       Sink
	spaceCheck     SpaceFunc
	Hook           Hook
	log            *logger.Logger
}

// NewDownloader creates a new Downloader from config.
// Zero values fall back to a 1 KiB buffer, no progress output and no retries.
func NewDownloader(config *Config) *Downloader {
	if config.CopyBufferSize == 0 {
		config.CopyBufferSize = 1024
	}
	if config.RetryWaitMax == 0 {
		config.RetryWaitMax = 10 * time.Second
	}
	if config.RetryWaitMin == 0 {
		config.RetryWaitMin = 1 * time.Second
	}
	if config.Progress == nil {
		config.Progress = NopSink{}
	}
	if config.Log == nil {
		config.Log = logger.Nop()
	}

	retryablehttpClient := retryablehttp.NewClient()
	retryablehttpClient.RetryMax = config.RetryMax
	retryablehttpClient.RetryWaitMax = config.RetryWaitMax
	retryablehttpClient.RetryWaitMin = config.RetryWaitMin
	// hand back the last response so the status code reaches the caller
	retryablehttpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if config.Log.IsDebug() {
		retryablehttpClient.Logger = retryLogger{log: config.Log}
	} else {
		retryablehttpClient.Logger = nil
	}
	client := retryablehttpClient.StandardClient()
	client.Timeout = config.Timeout

	return &Downloader{
		client:         client,
		fs:             config.Filesystem,
		copyBufferSize: config.CopyBufferSize,
		progress:       config.Progress,
		spaceCheck:     config.SpaceCheck,
		Hook:           config.Hook,
		log:            config.Log,
	}
}

// Fetch downloads url into dest, truncating any existing file, and returns
// the number of bytes written. Failures are *Error values.
// A cancelled ctx leaves the partial file in place.
func (d *Downloader) Fetch(ctx context.Context, url string, dest string) (int64, error) {
	request, err := d.makeRequest(ctx, http.MethodGet, url)
	if err != nil {
		return 0, &Error{URL: url, Err: err}
	}

	resp, err := d.do(request)
	if err != nil {
		return 0, &Error{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &Error{URL: url, StatusCode: resp.StatusCode}
	}

	// -1 when the server sends no Content-Length
	size := resp.ContentLength
	if size >= 0 && d.spaceCheck != nil {
		if err := d.spaceCheck(size); err != nil {
			return 0, &Error{URL: url, Err: err}
		}
	}

	f, err := d.fs.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return 0, &Error{URL: url, Err: err}
	}
	defer f.Close()

	d.log.Debug().Str("url", url).Int64("size", size).Msg("Streaming")
	bar := d.progress.Track(filepath.Base(dest), size)

	written, err := d.copy(f, resp, bar)
	if err != nil {
		return written, &Error{URL: url, Err: err}
	}
	if err := f.Close(); err != nil {
		return written, &Error{URL: url, Err: err}
	}
	bar.Finish()
	return written, nil
}

func (d *Downloader) copy(w io.Writer, resp *http.Response, bar Reporter) (int64, error) {
	buffer := make([]byte, d.copyBufferSize)
	var written int64
	for {
		n, err := resp.Body.Read(buffer)
		if n > 0 {
			if _, werr := w.Write(buffer[:n]); werr != nil {
				return written, werr
			}
			written += int64(n)
			bar.Add(n)
			if d.Hook != nil {
				if herr := d.Hook(resp, written, nil); herr != nil {
					return written, herr
				}
			}
		}
		if errors.Is(err, io.EOF) {
			return written, nil
		}
		if err != nil {
			if d.Hook != nil {
				if herr := d.Hook(resp, written, err); herr != nil {
					err = errors.Join(err, herr)
				}
			}
			return written, err
		}
	}
}

func (d *Downloader) makeRequest(ctx context.Context, method string, url string) (*http.Request, error) {
	if url == "" {
		return nil, errors.New("url is empty")
	}
	return http.NewRequestWithContext(ctx, method, url, nil)
}

func (d *Downloader) do(req *http.Request) (*http.Response, error) {
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (d *Downloader) SetHook(hook Hook) {
	d.Hook = hook
}

// retryLogger routes retryablehttp's leveled logging into our logger.
type retryLogger struct {
	log *logger.Logger
}

func (l retryLogger) Error(msg string, kv ...interface{}) { l.log.Error().Fields(kv).Msg(msg) }
func (l retryLogger) Warn(msg string, kv ...interface{})  { l.log.Warn().Fields(kv).Msg(msg) }
func (l retryLogger) Info(msg string, kv ...interface{})  { l.log.Debug().Fields(kv).Msg(msg) }
func (l retryLogger) Debug(msg string, kv ...interface{}) { l.log.Debug().Fields(kv).Msg(msg) }
