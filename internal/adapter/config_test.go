package adapter

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(NewViper(t.TempDir()))
	require.NoError(t, err)

	def := DefaultConfig()
	if diff := cmp.Diff(def, cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, cfg.IsConfigured())
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `server:
  url: http://plex.local:32400
  token: abc
client:
  identifier: fixed-id
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := LoadConfig(NewViper(dir))
	require.NoError(t, err)
	assert.Equal(t, "http://plex.local:32400", cfg.Server.URL)
	assert.Equal(t, "abc", cfg.Server.Token)
	assert.Equal(t, "fixed-id", cfg.Client.Identifier)
	assert.Equal(t, "Chrome", cfg.Client.Platform)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.IsConfigured())
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("PLEXVIDEO_SERVER_TOKEN", "from-env")
	t.Setenv("PLEXVIDEO_CLIENT_PLATFORM", "Safari")

	cfg, err := LoadConfig(NewViper(t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Server.Token)
	assert.Equal(t, "Safari", cfg.Client.Platform)
}

func TestLoadConfigInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0644))

	_, err := LoadConfig(NewViper(dir))
	assert.Error(t, err)
}

func TestEnsureIdentifier(t *testing.T) {
	cfg := DefaultConfig()
	require.True(t, cfg.EnsureIdentifier())
	_, err := uuid.Parse(cfg.Client.Identifier)
	assert.NoError(t, err)

	id := cfg.Client.Identifier
	assert.False(t, cfg.EnsureIdentifier())
	assert.Equal(t, id, cfg.Client.Identifier)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	v := NewViper(dir)
	cfg, err := LoadConfig(v)
	require.NoError(t, err)

	cfg.Server.URL = "http://plex.local:32400"
	cfg.EnsureIdentifier()
	require.NoError(t, SaveToken(v, cfg, "new-token", dir))

	reloaded, err := LoadConfig(NewViper(dir))
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, reloaded, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "new-token", reloaded.Server.Token)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), tt.in)
	}
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "WARN")
	logger.Info("hidden")
	logger.Warn("shown", "ratingKey", "1")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"ratingKey":"1"`)
}

func TestSetupLoggerCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "plexvideo.log")
	logger, err := SetupLogger(&LoggingConfig{File: path, Level: "INFO", MaxSizeMB: 1})
	require.NoError(t, err)
	logger.Info("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestLoadConfigPlayer(t *testing.T) {
	dir := t.TempDir()
	yaml := `player:
  command: mpv
  args: ["--fs", "--no-terminal"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := LoadConfig(NewViper(dir))
	require.NoError(t, err)
	assert.Equal(t, PlayerConfig{Command: "mpv", Args: []string{"--fs", "--no-terminal"}}, cfg.Player)
}
