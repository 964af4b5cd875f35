package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/go-tangra/go-tangra-sysreport/internal/collector"
)

const (
	DefaultAndroidURL = "https://play.google.com/store/apps/details?id=com.walmart.squiggly"
	DefaultIOSURL     = "https://apps.apple.com/us/app/me-walmart/id1459898418"
)

// Config holds the sysreport configuration.
type Config struct {
	Role       RoleConfig    `mapstructure:"role"`
	Updates    UpdatesConfig `mapstructure:"updates"`
	SizeFormat string        `mapstructure:"size_format"`
	QR         QRConfig      `mapstructure:"qr"`
	Assets     AssetsConfig  `mapstructure:"assets"`
	Log        LogConfig     `mapstructure:"log"`
}

// RoleConfig locates the role tag under HKEY_LOCAL_MACHINE.
type RoleConfig struct {
	Path string `mapstructure:"path"`
	Name string `mapstructure:"name"`
}

// UpdatesConfig controls the update history lookup.
type UpdatesConfig struct {
	TitleFilter string        `mapstructure:"title_filter"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// QRConfig holds the app-store links encoded as QR codes.
type QRConfig struct {
	AndroidURL string `mapstructure:"android_url"`
	IOSURL     string `mapstructure:"ios_url"`
	Size       int    `mapstructure:"size"`
}

// AssetsConfig lists the static images the presentation layer expects.
type AssetsConfig struct {
	AndroidBadge string `mapstructure:"android_badge"`
	IOSBadge     string `mapstructure:"ios_badge"`
	Icon         string `mapstructure:"icon"`
}

// LogConfig selects the log level, encoding and optional Event Log sink.
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	EventLog bool   `mapstructure:"event_log"`
}

// Load reads configuration from file and environment.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("sysreport")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if pd := os.Getenv("ProgramData"); pd != "" {
			v.AddConfigPath(filepath.Join(pd, "sysreport"))
		}
	}

	v.SetDefault("role.path", collector.DefaultRolePath)
	v.SetDefault("role.name", collector.DefaultRoleName)
	v.SetDefault("updates.title_filter", collector.DefaultUpdateTitleFilter)
	v.SetDefault("updates.timeout", collector.DefaultUpdateTimeout.String())
	v.SetDefault("size_format", string(collector.SizeRounded))
	v.SetDefault("qr.android_url", DefaultAndroidURL)
	v.SetDefault("qr.ios_url", DefaultIOSURL)
	v.SetDefault("qr.size", 200)
	v.SetDefault("assets.android_badge", "google_play_badge.png")
	v.SetDefault("assets.ios_badge", "app_store_badge.png")
	v.SetDefault("assets.icon", "icon.ico")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.event_log", false)

	v.SetEnvPrefix("SYSREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the collector and logger cannot use.
func (c *Config) Validate() error {
	if _, err := collector.ParseSizeFormat(c.SizeFormat); err != nil {
		return fmt.Errorf("size_format: %w", err)
	}
	if c.Updates.Timeout <= 0 {
		return fmt.Errorf("updates.timeout must be positive, got %s", c.Updates.Timeout)
	}
	if c.QR.Size <= 0 {
		return fmt.Errorf("qr.size must be positive, got %d", c.QR.Size)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// CollectorOptions maps the configuration onto collector options.
func (c *Config) CollectorOptions() collector.Options {
	f, _ := collector.ParseSizeFormat(c.SizeFormat)
	return collector.Options{
		RolePath:          c.Role.Path,
		RoleName:          c.Role.Name,
		UpdateTitleFilter: c.Updates.TitleFilter,
		UpdateTimeout:     c.Updates.Timeout,
		SizeFormat:        f,
	}
}
