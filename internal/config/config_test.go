package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-tangra/go-tangra-sysreport/internal/collector"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sysreport.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, collector.DefaultRolePath, cfg.Role.Path)
	assert.Equal(t, "Role", cfg.Role.Name)
	assert.Equal(t, "Cumulative Update", cfg.Updates.TitleFilter)
	assert.Equal(t, 60*time.Second, cfg.Updates.Timeout)
	assert.Equal(t, "rounded", cfg.SizeFormat)
	assert.Equal(t, 200, cfg.QR.Size)
	assert.Equal(t, DefaultIOSURL, cfg.QR.IOSURL)
	assert.Equal(t, "google_play_badge.png", cfg.Assets.AndroidBadge)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.Log.EventLog)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
role:
  path: SOFTWARE\Acme\Build
  name: Tier
updates:
  timeout: 5s
size_format: decimal
qr:
  size: 256
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, `SOFTWARE\Acme\Build`, cfg.Role.Path)
	assert.Equal(t, "Tier", cfg.Role.Name)
	assert.Equal(t, 5*time.Second, cfg.Updates.Timeout)
	assert.Equal(t, 256, cfg.QR.Size)
	assert.Equal(t, "json", cfg.Log.Format)

	opts := cfg.CollectorOptions()
	assert.Equal(t, collector.SizeDecimal, opts.SizeFormat)
	assert.Equal(t, "Tier", opts.RoleName)
	assert.Equal(t, 5*time.Second, opts.UpdateTimeout)
}

func TestLoadEnvOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SYSREPORT_SIZE_FORMAT", "decimal")
	t.Setenv("SYSREPORT_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "decimal", cfg.SizeFormat)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Updates:    UpdatesConfig{Timeout: time.Second},
			SizeFormat: "rounded",
			QR:         QRConfig{Size: 200},
			Log:        LogConfig{Level: "info", Format: "console"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"size format", func(c *Config) { c.SizeFormat = "truncated" }},
		{"timeout", func(c *Config) { c.Updates.Timeout = 0 }},
		{"qr size", func(c *Config) { c.QR.Size = -1 }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

// chdirTemp switches into a fresh temp dir for the test and restores the
// previous working directory on cleanup (equivalent of Go 1.24's t.Chdir).
func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
