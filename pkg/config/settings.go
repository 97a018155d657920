package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kkyr/fig"
	"github.com/stoewer/go-strcase"
)

const (
	AppName      = "font-sync"
	SettingsFile = AppName + ".yaml"
)

// EnvPrefix prefixes every environment override, e.g. FONT_SYNC_RETRY_MAX.
var EnvPrefix = strcase.UpperSnakeCase(AppName)

// Progress modes.
const (
	ProgressAuto  = "auto"
	ProgressBar   = "bar"
	ProgressPrint = "print"
	ProgressNone  = "none"
)

type Settings struct {
	Manifest        string        `fig:"manifest" default:"fonts.json"`
	BaseDir         string        `fig:"base_dir"`
	ProxyBase       string        `fig:"proxy_base" default:"https://mirror.ghproxy.com/"`
	ChunkSize       int           `fig:"chunk_size" default:"1024"`
	RetryMax        int           `fig:"retry_max"`
	RetryWaitMin    time.Duration `fig:"retry_wait_min" default:"1s"`
	RetryWaitMax    time.Duration `fig:"retry_wait_max" default:"10s"`
	Timeout         time.Duration `fig:"timeout"`
	Progress        string        `fig:"progress" default:"auto"`
	ContinueOnError bool          `fig:"continue_on_error"`
	Debug           bool          `fig:"debug"`
	NoColor         bool          `fig:"no_color"`
}

// LoadSettings reads font-sync.yaml from the first of dirs that has it
// (the working directory and its parent by default) and applies
// FONT_SYNC_* environment overrides. The file is optional.
func LoadSettings(dirs ...string) (Settings, error) {
	if len(dirs) == 0 {
		dirs = []string{".", ".."}
	}
	var s Settings
	err := fig.Load(&s, fig.File(SettingsFile), fig.Dirs(dirs...), fig.UseEnv(EnvPrefix))
	if errors.Is(err, fig.ErrFileNotFound) {
		s = Settings{}
		err = fig.Load(&s, fig.IgnoreFile(), fig.UseEnv(EnvPrefix))
	}
	if err != nil {
		return Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	return s, s.validate()
}

func (s Settings) validate() error {
	switch s.Progress {
	case ProgressAuto, ProgressBar, ProgressPrint, ProgressNone:
	default:
		return fmt.Errorf("unknown progress mode %q", s.Progress)
	}
	if s.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", s.ChunkSize)
	}
	if s.RetryMax < 0 {
		return fmt.Errorf("retry_max must not be negative, got %d", s.RetryMax)
	}
	return nil
}

// Proxy returns the prefix for download URLs: ProxyBase when enabled, empty otherwise.
func (s Settings) Proxy(enabled bool) string {
	if !enabled {
		return ""
	}
	return s.ProxyBase
}
