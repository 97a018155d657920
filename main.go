package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/k0kubun/pp"
	"github.com/mdsohelmia/fontsync/pkg/config"
	"github.com/mdsohelmia/fontsync/pkg/downloader"
	"github.com/mdsohelmia/fontsync/pkg/fontsync"
	"github.com/mdsohelmia/fontsync/pkg/lock"
	"github.com/mdsohelmia/fontsync/pkg/logger"
	flag "github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	flags := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	flags.SetOutput(stderr)
	useProxy := flags.Bool("proxy", false, "Use proxy to download.")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	settings, err := config.LoadSettings()
	if err != nil {
		logger.NewConsole(false, false, stdout).Error().Err(err).Msg("Invalid settings")
		return 1
	}
	log := logger.NewConsole(settings.Debug, settings.NoColor, stdout)
	if settings.Debug {
		pp.ColoringEnabled = !settings.NoColor
		log.Debug().Msg("Settings " + pp.Sprint(settings))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !*useProxy {
		log.Warn().Msg("If you encounter any network issues, try using the --proxy parameter.")
	}

	manifest, path, err := config.LoadManifest(settings.Manifest)
	if err != nil {
		log.Error().Err(err).Msg("Cannot load font manifest")
		return 1
	}
	log.Debug().Str("path", path).Strs("fonts", manifest.Names()).Msg("Manifest loaded")

	baseDir := settings.BaseDir
	if baseDir == "" {
		if baseDir, err = os.Getwd(); err != nil {
			log.Error().Err(err).Msg("Cannot resolve base directory")
			return 1
		}
	}
	if err := os.MkdirAll(baseDir, os.ModePerm); err != nil {
		log.Error().Err(err).Msg("Cannot create base directory")
		return 1
	}

	runLock := lock.New(baseDir)
	if err := runLock.TryLock(); err != nil {
		log.Error().Err(err).Msg("Cannot lock base directory")
		return 1
	}
	defer runLock.Unlock()

	fs := osfs.New(baseDir)
	fetcher := downloader.NewDownloader(&downloader.Config{
		Filesystem:     fs,
		CopyBufferSize: settings.ChunkSize,
		RetryMax:       settings.RetryMax,
		RetryWaitMin:   settings.RetryWaitMin,
		RetryWaitMax:   settings.RetryWaitMax,
		Timeout:        settings.Timeout,
		Progress:       downloader.DetectSink(settings.Progress, stderr),
		SpaceCheck:     downloader.DiskSpace(baseDir),
		Log:            log,
	})
	if settings.Debug {
		fetcher.SetHook(interruptHook(log))
	}
	syncer := fontsync.New(fontsync.Options{
		Filesystem:      fs,
		Fetcher:         fetcher,
		Proxy:           settings.Proxy(*useProxy),
		ContinueOnError: settings.ContinueOnError,
		Log:             log,
	})

	report, err := syncer.Run(ctx, manifest)
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		log.Warn().Msg("Cancelled by user.")
		return 0
	}
	if err != nil {
		log.Error().Err(err).Msg("Sync failed")
		return 1
	}
	log.Info().
		Int("downloaded", report.Downloaded).
		Int("extracted", report.Extracted).
		Int("skipped", len(report.Skipped)).
		Msg("Done")
	return 0
}

// interruptHook logs how far a transfer got before its body failed.
func interruptHook(log *logger.Logger) downloader.Hook {
	return func(resp *http.Response, written int64, err error) error {
		if err != nil {
			log.Debug().Err(err).Str("url", resp.Request.URL.String()).Int64("written", written).Msg("Transfer interrupted")
		}
		return nil
	}
}
