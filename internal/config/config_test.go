package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/omochice/toy-line-chat/internal/config"
)

func TestDefault_Valid(t *testing.T) {
	assert.NoError(t, config.Default().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"empty host", func(c *config.Config) { c.Host = "" }, "host is empty"},
		{"port zero", func(c *config.Config) { c.Port = 0 }, "port 0 out of range"},
		{"port too big", func(c *config.Config) { c.Port = 70000 }, "port 70000 out of range"},
		{"transport", func(c *config.Config) { c.Transport = "udp" }, `unknown transport "udp"`},
		{"timeout", func(c *config.Config) { c.ConnectTimeout = 0 }, "connect_timeout must be positive"},
		{"buffer", func(c *config.Config) { c.EventBuffer = 0 }, "event_buffer must be at least 1"},
		{"detect timeout", func(c *config.Config) { c.DetectTimeout = -time.Second }, "detect_timeout must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUpdateFrom(t *testing.T) {
	cfg := config.Default()
	cfg.UpdateFrom(config.Config{Host: "chat.example.org", Transport: config.TransportWebSocket, Username: "alice", DetectTimeout: time.Minute})

	assert.Equal(t, "chat.example.org", cfg.Host)
	assert.Equal(t, config.TransportWebSocket, cfg.Transport)
	assert.Equal(t, "alice", cfg.Username)
	assert.Equal(t, time.Minute, cfg.DetectTimeout)
	assert.Equal(t, config.Default().Port, cfg.Port, "zero values do not override")
	assert.Equal(t, config.Default().ConnectTimeout, cfg.ConnectTimeout)
}

func TestLoad_WritesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "linechat.yaml")
	logger := zerolog.Nop()

	cfg, resolved, err := config.Load(&logger, path)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)
	assert.Equal(t, config.Default(), cfg)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var written config.Config
	require.NoError(t, yaml.Unmarshal(data, &written))
	assert.Equal(t, config.Default(), written)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linechat.yaml")
	content := "host: chat.example.org\nport: 2000\ntransport: ws\nconnect_timeout: 2s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("LINECHAT_PORT", "2100")
	t.Setenv("LINECHAT_USERNAME", "bob")
	t.Setenv("LINECHAT_DETECT_TIMEOUT", "45s")

	cfg, _, err := config.Load(nil, path)
	require.NoError(t, err)

	assert.Equal(t, "chat.example.org", cfg.Host)
	assert.Equal(t, 2100, cfg.Port)
	assert.Equal(t, config.TransportWebSocket, cfg.Transport)
	assert.Equal(t, 2*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, "bob", cfg.Username)
	assert.Equal(t, config.Default().WSPath, cfg.WSPath)
	assert.Equal(t, 45*time.Second, cfg.DetectTimeout)
}

func TestLoad_DefaultPathFromEnv(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "conf")
	t.Setenv("LINECHAT_CONFIG_DEFAULT_PATH", dir)

	_, resolved, err := config.Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "linechat.yaml"), resolved)
	assert.FileExists(t, resolved)
}

func TestLoad_NoFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("LINECHAT_CONFIG_DEFAULT_PATH", "")

	cfg, resolved, err := config.Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, "linechat.yaml", filepath.Base(resolved))
	assert.NoFileExists(t, resolved)
}

func TestLoad_ReadsWorkingDirFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("LINECHAT_CONFIG_DEFAULT_PATH", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "linechat.yaml"), []byte("username: carol\n"), 0o600))

	cfg, _, err := config.Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "carol", cfg.Username)
}

func TestLoad_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linechat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: [unclosed\n"), 0o600))

	_, _, err := config.Load(nil, path)
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
