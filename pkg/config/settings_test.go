package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, DefaultManifest, s.Manifest)
	require.Equal(t, "https://mirror.ghproxy.com/", s.ProxyBase)
	require.Equal(t, 1024, s.ChunkSize)
	require.Equal(t, 0, s.RetryMax)
	require.Equal(t, time.Second, s.RetryWaitMin)
	require.Equal(t, ProgressAuto, s.Progress)
	require.False(t, s.ContinueOnError)
}

func TestLoadSettingsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, SettingsFile), "chunk_size: 4096\nprogress: print\nretry_max: 2\n")
	t.Setenv(EnvPrefix+"_RETRY_MAX", "5")

	s, err := LoadSettings(dir)
	require.NoError(t, err)
	require.Equal(t, 4096, s.ChunkSize)
	require.Equal(t, ProgressPrint, s.Progress)
	require.Equal(t, 5, s.RetryMax)
}

func TestLoadSettingsInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, SettingsFile), "progress: fancy\n")

	_, err := LoadSettings(dir)
	require.Error(t, err)
}

func TestEnvPrefix(t *testing.T) {
	require.Equal(t, "FONT_SYNC", EnvPrefix)
}

func TestProxy(t *testing.T) {
	s := Settings{ProxyBase: "https://mirror/"}
	require.Empty(t, s.Proxy(false))
	require.Equal(t, "https://mirror/", s.Proxy(true))
}
