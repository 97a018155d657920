package fontsync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/gofrs/uuid"
	"github.com/mdsohelmia/fontsync/pkg/config"
	"github.com/mdsohelmia/fontsync/pkg/extractor"
	"github.com/mdsohelmia/fontsync/pkg/logger"
)

const TTFExt = ".ttf"

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrInvalidFontName     = errors.New("invalid font name")
)

type Fetcher interface {
	Fetch(ctx context.Context, url string, dest string) (int64, error)
}

type Options struct {
	// Filesystem is rooted at the base directory.
	Filesystem billy.Filesystem
	Fetcher    Fetcher
	// Proxy is prepended to every URL, empty when disabled.
	Proxy string
	// ContinueOnError records failures and moves on instead of stopping.
	ContinueOnError bool
	// Extractors maps an extension to its extractor, extractor.ForExt when nil.
	Extractors func(ext string) extractor.Extractor
	Log        *logger.Logger
}

// Report summarizes a run.
type Report struct {
	Downloaded int
	Extracted  int
	Skipped    []Task
	Failed     []Task
}

// Syncer downloads every font of a manifest into per-font directories.
type Syncer struct {
	fs              billy.Filesystem
	fetcher         Fetcher
	proxy           string
	continueOnError bool
	extractors      func(ext string) extractor.Extractor
	log             *logger.Logger
}

func New(opts Options) *Syncer {
	s := &Syncer{
		fs:              opts.Filesystem,
		fetcher:         opts.Fetcher,
		proxy:           opts.Proxy,
		continueOnError: opts.ContinueOnError,
		extractors:      opts.Extractors,
		log:             opts.Log,
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.extractors == nil {
		s.extractors = func(ext string) extractor.Extractor {
			return extractor.ForExt(ext, s.fs, s.log)
		}
	}
	return s
}

// Run processes fonts and their URLs strictly in manifest order, one at a time.
// The first failure stops the run unless ContinueOnError is set, in which
// case all failures are joined into the returned error.
// Unsupported file types are skipped with a warning and never fail the run.
func (s *Syncer) Run(ctx context.Context, manifest config.Manifest) (Report, error) {
	var (
		report Report
		errs   []error
	)
	for _, font := range manifest {
		log := s.log.Extend(s.log.With().Str("font", font.Name))
		if err := s.ensureDir(font.Name); err != nil {
			if !s.continueOnError {
				return report, err
			}
			log.Error().Err(err).Msg("Skipping font")
			errs = append(errs, err)
			continue
		}
		for _, raw := range font.URLs {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			task := NewTask(font.Name, raw, s.proxy)
			err := s.process(ctx, log, task, &report)
			switch {
			case err == nil:
			case errors.Is(err, ErrUnsupportedFileType):
				log.Warn().Str("url", task.URL).Msg(err.Error())
				report.Skipped = append(report.Skipped, task)
			case s.continueOnError && ctx.Err() == nil:
				log.Error().Err(err).Msg("Download failed")
				report.Failed = append(report.Failed, task)
				errs = append(errs, err)
			default:
				report.Failed = append(report.Failed, task)
				return report, err
			}
		}
	}
	return report, errors.Join(errs...)
}

func (s *Syncer) ensureDir(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidFontName, name)
	}
	return s.fs.MkdirAll(name, os.ModePerm)
}

func (s *Syncer) process(ctx context.Context, log *logger.Logger, t Task, report *Report) error {
	if t.Ext == TTFExt {
		s.announce(log, t, t.Dest)
		if _, err := s.fetcher.Fetch(ctx, t.URL, t.Dest); err != nil {
			return err
		}
		report.Downloaded++
		return nil
	}

	var ex extractor.Extractor
	if t.Ext != "" {
		ex = s.extractors(t.Ext)
	}
	if ex == nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedFileType, t.Ext)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	tmp := t.Dest + "." + id.String() + ".part"
	s.announce(log, t, tmp)
	if _, err := s.fetcher.Fetch(ctx, t.URL, tmp); err != nil {
		return err
	}
	report.Downloaded++

	log.Info().Str("archive", t.Name).Msg("Extracting")
	files, err := ex.Extract(tmp, t.Font)
	if err != nil {
		_ = s.fs.Remove(tmp)
		return err
	}
	report.Extracted += len(files)

	log.Info().Str("path", s.path(tmp)).Msg("Remove")
	if err := s.fs.Remove(tmp); err != nil {
		return fmt.Errorf("removing %s: %w", tmp, err)
	}
	return nil
}

func (s *Syncer) announce(log *logger.Logger, t Task, dest string) {
	log.Info().
		Str("file", t.Name).
		Str("from", t.URL).
		Str("to", s.path(dest)).
		Msg("Download")
}

func (s *Syncer) path(rel string) string {
	return filepath.Join(s.fs.Root(), rel)
}
