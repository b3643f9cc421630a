// Package config manages application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ytlikes/internal/retry"
)

// Config holds all application configuration for the likes archiver.
type Config struct {
	// InputDir holds likes files, include files, download archives and the profile registry.
	InputDir string `mapstructure:"input_dir"`
	// OutputDir holds one sub-directory of downloaded assets per profile.
	OutputDir string `mapstructure:"output_dir"`
	// SecretsDir holds OAuth client secrets and cached credentials per profile.
	SecretsDir string `mapstructure:"secrets_dir"`

	// YtdlpPath is the path to the yt-dlp executable (default: "yt-dlp")
	YtdlpPath string `mapstructure:"ytdlp_path"`
	// YtdlpExtraFlags are appended to the built-in yt-dlp flags.
	YtdlpExtraFlags []string `mapstructure:"ytdlp_extra_flags"`

	// PageDelay is the pause after each fetched playlist page.
	PageDelay time.Duration `mapstructure:"page_delay"`
	// RatingInterval is the minimum spacing between two rating calls (0 = unlimited).
	RatingInterval time.Duration `mapstructure:"rating_interval"`
	// RequestsPerSecond caps outgoing API requests per host (0 = unlimited).
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	// QuotaReserve is the estimated quota below which a warning is logged.
	QuotaReserve int `mapstructure:"quota_reserve"`

	// CallbackPort is the local port receiving the OAuth redirect.
	CallbackPort int `mapstructure:"callback_port"`

	// MaxRetries is the maximum number of retries for transient API failures
	MaxRetries int `mapstructure:"max_retries"`
	// InitialBackoff is the initial backoff duration for retries
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	// MaxBackoff is the maximum backoff duration for retries
	MaxBackoff time.Duration `mapstructure:"max_backoff"`
	// BackoffMultiplier is the multiplier for exponential backoff (must be > 1)
	BackoffMultiplier float64 `mapstructure:"backoff_multiplier"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		InputDir:          "input",
		OutputDir:         "output",
		SecretsDir:        "secrets",
		YtdlpPath:         "yt-dlp",
		YtdlpExtraFlags:   []string{},
		PageDelay:         300 * time.Millisecond,
		RatingInterval:    200 * time.Millisecond,
		RequestsPerSecond: 5,
		QuotaReserve:      500,
		CallbackPort:      6006,
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: flags > env vars > config file > defaults. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigName("ytlikes")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "ytlikes"))
	}

	v.SetEnvPrefix("YTLIKES")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("input_dir", d.InputDir)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("secrets_dir", d.SecretsDir)
	v.SetDefault("ytdlp_path", d.YtdlpPath)
	v.SetDefault("ytdlp_extra_flags", d.YtdlpExtraFlags)
	v.SetDefault("page_delay", d.PageDelay)
	v.SetDefault("rating_interval", d.RatingInterval)
	v.SetDefault("requests_per_second", d.RequestsPerSecond)
	v.SetDefault("quota_reserve", d.QuotaReserve)
	v.SetDefault("callback_port", d.CallbackPort)
	v.SetDefault("max_retries", d.MaxRetries)
	v.SetDefault("initial_backoff", d.InitialBackoff)
	v.SetDefault("max_backoff", d.MaxBackoff)
	v.SetDefault("backoff_multiplier", d.BackoffMultiplier)
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"input-dir":   "input_dir",
	"output-dir":  "output_dir",
	"secrets-dir": "secrets_dir",
	"ytdlp-path":  "ytdlp_path",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks that configuration values are valid and consistent.
// It returns an error if any configuration value is invalid.
func (c *Config) Validate() error {
	if c.InputDir == "" || c.OutputDir == "" || c.SecretsDir == "" {
		return fmt.Errorf("input_dir, output_dir and secrets_dir must be set")
	}
	if c.YtdlpPath == "" {
		return fmt.Errorf("ytdlp_path must be set")
	}
	if c.PageDelay < 0 {
		return fmt.Errorf("page_delay must be non-negative")
	}
	if c.RatingInterval < 0 {
		return fmt.Errorf("rating_interval must be non-negative")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must be non-negative")
	}
	if c.CallbackPort <= 0 || c.CallbackPort > 65535 {
		return fmt.Errorf("callback_port must be between 1 and 65535")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff <= 0 {
		return fmt.Errorf("max_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if c.BackoffMultiplier <= 1 {
		return fmt.Errorf("backoff_multiplier must be > 1")
	}
	return nil
}

// RetryConfig returns the retry settings for transient API failures.
func (c *Config) RetryConfig() retry.Config {
	cfg := retry.DefaultConfig()
	cfg.MaxRetries = c.MaxRetries
	cfg.InitialBackoff = c.InitialBackoff
	cfg.MaxBackoff = c.MaxBackoff
	cfg.Multiplier = c.BackoffMultiplier
	return cfg
}
