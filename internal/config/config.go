package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vadimtrunov/showtime/internal/core"
	"github.com/vadimtrunov/showtime/internal/metadata/tmdb"
)

// DefaultPath is the config file used when --config is not given.
const DefaultPath = "configs/showtime.yaml"

const (
	defaultTimeout   = 30 * time.Second
	defaultRateLimit = 20
	defaultBurst     = 10
	defaultLogLevel  = "info"
)

// Config represents the main application configuration
type Config struct {
	// Metadata provider
	TMDb TMDbConfig `yaml:"tmdb"`

	// Outbound HTTP
	HTTP HTTPConfig `yaml:"http"`

	// Frontends
	Telegram *TelegramConfig `yaml:"telegram,omitempty"`

	// Metrics and health endpoint
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`

	// Application settings
	App AppConfig `yaml:"app"`
}

// TMDbConfig holds TMDb API configuration
type TMDbConfig struct {
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url,omitempty"`
	ImageBaseURL string `yaml:"image_base_url,omitempty"`
	Language     string `yaml:"language,omitempty"`
}

// HTTPConfig holds outbound HTTP settings
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout,omitempty"`
	RateLimit *float64      `yaml:"rate_limit,omitempty"` // requests per second; unset uses the default, 0 disables
	Burst     int           `yaml:"burst,omitempty"`
}

// Limit returns the configured requests per second. Zero means unlimited.
func (h HTTPConfig) Limit() float64 {
	if h.RateLimit == nil {
		return 0
	}
	return *h.RateLimit
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken       string  `yaml:"bot_token"`
	AllowedUserIDs []int64 `yaml:"allowed_user_ids,omitempty"`
}

// MetricsConfig holds the side HTTP server configuration
type MetricsConfig struct {
	Listen string `yaml:"listen"` // host:port
}

// AppConfig holds application-level settings
type AppConfig struct {
	LogLevel string `yaml:"log_level"` // "debug", "info", "warn", "error"
}

// Load loads configuration from a YAML file with environment variable overrides
func Load(path string) (*Config, error) {
	if err := validateConfigPath(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func validateConfigPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file not found: %s", path)
		}
		return fmt.Errorf("failed to access config file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}
	return nil
}

// applyEnvOverrides overrides config values with SHOWTIME_* environment variables
func (c *Config) applyEnvOverrides() error {
	// TMDb
	setString(&c.TMDb.APIKey, "SHOWTIME_TMDB_API_KEY")
	setString(&c.TMDb.BaseURL, "SHOWTIME_TMDB_BASE_URL")
	setString(&c.TMDb.ImageBaseURL, "SHOWTIME_TMDB_IMAGE_BASE_URL")
	setString(&c.TMDb.Language, "SHOWTIME_TMDB_LANGUAGE")

	// HTTP
	if v := os.Getenv("SHOWTIME_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SHOWTIME_HTTP_TIMEOUT: %w", err)
		}
		c.HTTP.Timeout = d
	}
	if v := os.Getenv("SHOWTIME_HTTP_RATE_LIMIT"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SHOWTIME_HTTP_RATE_LIMIT: %w", err)
		}
		c.HTTP.RateLimit = &r
	}

	// Telegram
	if v := os.Getenv("SHOWTIME_TELEGRAM_BOT_TOKEN"); v != "" {
		if c.Telegram == nil {
			c.Telegram = &TelegramConfig{}
		}
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("SHOWTIME_TELEGRAM_ALLOWED_USER_IDS"); v != "" && c.Telegram != nil {
		ids, err := parseIDs(v)
		if err != nil {
			return fmt.Errorf("SHOWTIME_TELEGRAM_ALLOWED_USER_IDS: %w", err)
		}
		c.Telegram.AllowedUserIDs = ids
	}

	// Metrics
	if v := os.Getenv("SHOWTIME_METRICS_LISTEN"); v != "" {
		if c.Metrics == nil {
			c.Metrics = &MetricsConfig{}
		}
		c.Metrics.Listen = v
	}

	// App
	setString(&c.App.LogLevel, "SHOWTIME_LOG_LEVEL")
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func parseIDs(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// setDefaults fills zero values with defaults
func (c *Config) setDefaults() {
	if c.TMDb.BaseURL == "" {
		c.TMDb.BaseURL = tmdb.DefaultBaseURL
	}
	if c.TMDb.ImageBaseURL == "" {
		c.TMDb.ImageBaseURL = tmdb.DefaultImageBaseURL
	}
	if c.TMDb.Language == "" {
		c.TMDb.Language = core.DefaultLanguage
	}
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = defaultTimeout
	}
	if c.HTTP.RateLimit == nil {
		rl := float64(defaultRateLimit)
		c.HTTP.RateLimit = &rl
	}
	if c.HTTP.Burst == 0 {
		c.HTTP.Burst = defaultBurst
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = defaultLogLevel
	}
}

// Validate applies defaults and validates the configuration
func (c *Config) Validate() error {
	c.setDefaults()

	if c.TMDb.APIKey == "" {
		return fmt.Errorf("tmdb.api_key is required")
	}
	if err := validateURL(c.TMDb.BaseURL, "tmdb.base_url"); err != nil {
		return err
	}
	if err := validateURL(c.TMDb.ImageBaseURL, "tmdb.image_base_url"); err != nil {
		return err
	}

	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	if c.HTTP.Limit() < 0 {
		return fmt.Errorf("http.rate_limit must not be negative")
	}
	if c.HTTP.Burst < 0 {
		return fmt.Errorf("http.burst must not be negative")
	}

	if c.Telegram != nil && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}

	if c.Metrics != nil {
		if _, _, err := net.SplitHostPort(c.Metrics.Listen); err != nil {
			return fmt.Errorf("metrics.listen must be host:port: %w", err)
		}
	}

	switch strings.ToLower(c.App.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("app.log_level must be one of debug, info, warn, error; got %q", c.App.LogLevel)
	}

	return nil
}

func validateURL(raw, field string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%s must use http or https", field)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing host", field)
	}
	return nil
}
