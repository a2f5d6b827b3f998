package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validateCase struct {
	name    string
	modify  func(*Config)
	wantErr string
}

// validConfig returns a minimal Config that passes Validate().
func validConfig() Config {
	return Config{
		TMDb: TMDbConfig{APIKey: "tmdb-key"},
		App:  AppConfig{LogLevel: "info"},
	}
}

func ptr[T any](v T) *T { return &v }

func TestValidate_CoreFields(t *testing.T) {
	t.Parallel()

	tests := []validateCase{
		{"valid_minimal", nil, ""},
		{"missing_tmdb_key", func(c *Config) { c.TMDb.APIKey = "" }, "tmdb.api_key is required"},
		{"base_url_bad_scheme", func(c *Config) { c.TMDb.BaseURL = "ftp://api.example.com" }, "tmdb.base_url must use http or https"},
		{"image_url_no_host", func(c *Config) { c.TMDb.ImageBaseURL = "https://" }, "tmdb.image_base_url is missing host"},
		{"custom_urls", func(c *Config) {
			c.TMDb.BaseURL = "http://localhost:8080"
			c.TMDb.ImageBaseURL = "http://localhost:8080/images/"
		}, ""},
		{"negative_timeout", func(c *Config) { c.HTTP.Timeout = -time.Second }, "http.timeout must be positive"},
		{"negative_rate", func(c *Config) { c.HTTP.RateLimit = ptr(-1.0) }, "http.rate_limit must not be negative"},
		{"zero_rate_accepted", func(c *Config) { c.HTTP.RateLimit = ptr(0.0) }, ""},
		{"negative_burst", func(c *Config) { c.HTTP.Burst = -1 }, "http.burst must not be negative"},
		{"invalid_log_level", func(c *Config) { c.App.LogLevel = "trace" }, "app.log_level must be one of"},
		{"warning_accepted", func(c *Config) { c.App.LogLevel = "warning" }, ""},
	}

	runValidateTests(t, tests)
}

func TestValidate_OptionalServices(t *testing.T) {
	t.Parallel()

	tests := []validateCase{
		{"telegram_missing_token", func(c *Config) {
			c.Telegram = &TelegramConfig{}
		}, "telegram.bot_token is required"},
		{"telegram_valid", func(c *Config) {
			c.Telegram = &TelegramConfig{BotToken: "123:ABC", AllowedUserIDs: []int64{1}}
		}, ""},
		{"metrics_valid", func(c *Config) {
			c.Metrics = &MetricsConfig{Listen: "127.0.0.1:9090"}
		}, ""},
		{"metrics_port_only", func(c *Config) {
			c.Metrics = &MetricsConfig{Listen: ":9090"}
		}, ""},
		{"metrics_missing_port", func(c *Config) {
			c.Metrics = &MetricsConfig{Listen: "localhost"}
		}, "metrics.listen must be host:port"},
	}

	runValidateTests(t, tests)
}

func runValidateTests(t *testing.T, tests []validateCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			if tt.modify != nil {
				tt.modify(&cfg)
			}
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"valid_http", "http://localhost:8080", ""},
		{"valid_https", "https://api.themoviedb.org", ""},
		{"valid_with_path", "https://image.tmdb.org/t/p/w500/", ""},
		{"ftp_scheme", "ftp://localhost", "must use http or https"},
		{"no_scheme", "localhost:8080", "must use http or https"},
		{"empty_string", "", "must use http or https"},
		{"missing_host", "http://", "missing host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateURL(tt.url, "test.url")
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSetDefaults(t *testing.T) {
	t.Parallel()

	t.Run("zero_values_filled", func(t *testing.T) {
		t.Parallel()
		cfg := Config{}
		cfg.setDefaults()
		assert.Equal(t, "https://api.themoviedb.org", cfg.TMDb.BaseURL)
		assert.Equal(t, "https://image.tmdb.org/t/p/w500/", cfg.TMDb.ImageBaseURL)
		assert.Equal(t, "en-US", cfg.TMDb.Language)
		assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
		assert.InDelta(t, 20, cfg.HTTP.Limit(), 0)
		assert.Equal(t, 10, cfg.HTTP.Burst)
		assert.Equal(t, "info", cfg.App.LogLevel)
	})

	t.Run("values_preserved", func(t *testing.T) {
		t.Parallel()
		cfg := Config{
			TMDb: TMDbConfig{Language: "de-DE"},
			HTTP: HTTPConfig{Timeout: 5 * time.Second, RateLimit: ptr(2.0), Burst: 1},
			App:  AppConfig{LogLevel: "debug"},
		}
		cfg.setDefaults()
		assert.Equal(t, "de-DE", cfg.TMDb.Language)
		assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
		assert.InDelta(t, 2, cfg.HTTP.Limit(), 0)
		assert.Equal(t, 1, cfg.HTTP.Burst)
		assert.Equal(t, "debug", cfg.App.LogLevel)
	})

	t.Run("explicit_zero_rate_kept", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.HTTP.RateLimit = ptr(0.0)
		require.NoError(t, cfg.Validate())
		require.NotNil(t, cfg.HTTP.RateLimit)
		assert.Zero(t, cfg.HTTP.Limit(), "an explicit 0 disables limiting")
	})
}

func TestLoad_ValidMinimal(t *testing.T) {
	t.Parallel()
	path := writeTempYAML(t, minimalYAML)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "yaml-key", cfg.TMDb.APIKey)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.InDelta(t, 20, cfg.HTTP.Limit(), 0)
	assert.Nil(t, cfg.Telegram)
	assert.Nil(t, cfg.Metrics)
}

func TestLoad_AllSections(t *testing.T) {
	t.Parallel()
	fullYAML := `
tmdb:
  api_key: tmdb-key
  base_url: http://localhost:8080
  image_base_url: http://localhost:8080/img/
  language: fr-FR
http:
  timeout: 5s
  rate_limit: 4.5
  burst: 2
telegram:
  bot_token: "123:ABC"
  allowed_user_ids: [1, 2]
metrics:
  listen: ":9090"
app:
  log_level: debug
`
	path := writeTempYAML(t, fullYAML)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fr-FR", cfg.TMDb.Language)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.InDelta(t, 4.5, cfg.HTTP.Limit(), 0)
	assert.Equal(t, 2, cfg.HTTP.Burst)
	require.NotNil(t, cfg.Telegram)
	assert.Equal(t, "123:ABC", cfg.Telegram.BotToken)
	assert.Equal(t, []int64{1, 2}, cfg.Telegram.AllowedUserIDs)
	require.NotNil(t, cfg.Metrics)
	assert.Equal(t, ":9090", cfg.Metrics.Listen)
}

func TestLoad_ZeroRateLimitDisables(t *testing.T) {
	t.Parallel()
	path := writeTempYAML(t, minimalYAML+"http:\n  rate_limit: 0\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.HTTP.RateLimit)
	assert.Zero(t, cfg.HTTP.Limit())
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("invalid_yaml", func(t *testing.T) {
		t.Parallel()
		path := writeTempYAML(t, "{{invalid yaml}}")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})

	t.Run("file_not_found", func(t *testing.T) {
		t.Parallel()
		_, err := Load("/nonexistent/path/config.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config file not found")
	})

	t.Run("path_is_directory", func(t *testing.T) {
		t.Parallel()
		_, err := Load(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "directory")
	})

	t.Run("invalid_config", func(t *testing.T) {
		t.Parallel()
		path := writeTempYAML(t, "app:\n  log_level: info\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tmdb.api_key is required")
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Run("api_key_override", func(t *testing.T) {
		path := writeTempYAML(t, minimalYAML)
		t.Setenv("SHOWTIME_TMDB_API_KEY", "env-key")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "env-key", cfg.TMDb.APIKey)
	})

	t.Run("api_key_from_env_only", func(t *testing.T) {
		path := writeTempYAML(t, "app:\n  log_level: info\n")
		t.Setenv("SHOWTIME_TMDB_API_KEY", "env-key")
		_, err := Load(path)
		require.NoError(t, err)
	})

	t.Run("http_override", func(t *testing.T) {
		path := writeTempYAML(t, minimalYAML)
		t.Setenv("SHOWTIME_HTTP_TIMEOUT", "2s")
		t.Setenv("SHOWTIME_HTTP_RATE_LIMIT", "3")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, cfg.HTTP.Timeout)
		assert.InDelta(t, 3, cfg.HTTP.Limit(), 0)
	})

	t.Run("rate_limit_zero_from_env", func(t *testing.T) {
		path := writeTempYAML(t, minimalYAML)
		t.Setenv("SHOWTIME_HTTP_RATE_LIMIT", "0")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Zero(t, cfg.HTTP.Limit())
	})

	t.Run("invalid_timeout", func(t *testing.T) {
		path := writeTempYAML(t, minimalYAML)
		t.Setenv("SHOWTIME_HTTP_TIMEOUT", "soon")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SHOWTIME_HTTP_TIMEOUT")
	})

	t.Run("telegram_created_from_env", func(t *testing.T) {
		path := writeTempYAML(t, minimalYAML)
		t.Setenv("SHOWTIME_TELEGRAM_BOT_TOKEN", "123:TOKEN")
		t.Setenv("SHOWTIME_TELEGRAM_ALLOWED_USER_IDS", "10, 20")
		cfg, err := Load(path)
		require.NoError(t, err)
		require.NotNil(t, cfg.Telegram)
		assert.Equal(t, "123:TOKEN", cfg.Telegram.BotToken)
		assert.Equal(t, []int64{10, 20}, cfg.Telegram.AllowedUserIDs)
	})

	t.Run("invalid_user_ids", func(t *testing.T) {
		path := writeTempYAML(t, minimalYAML)
		t.Setenv("SHOWTIME_TELEGRAM_BOT_TOKEN", "123:TOKEN")
		t.Setenv("SHOWTIME_TELEGRAM_ALLOWED_USER_IDS", "10,abc")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("metrics_created_from_env", func(t *testing.T) {
		path := writeTempYAML(t, minimalYAML)
		t.Setenv("SHOWTIME_METRICS_LISTEN", "127.0.0.1:0")
		cfg, err := Load(path)
		require.NoError(t, err)
		require.NotNil(t, cfg.Metrics)
		assert.Equal(t, "127.0.0.1:0", cfg.Metrics.Listen)
	})

	t.Run("log_level_override", func(t *testing.T) {
		path := writeTempYAML(t, minimalYAML)
		t.Setenv("SHOWTIME_LOG_LEVEL", "debug")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.App.LogLevel)
	})
}

func TestValidateConfigPath(t *testing.T) {
	t.Parallel()

	t.Run("valid_file", func(t *testing.T) {
		t.Parallel()
		path := writeTempYAML(t, "test")
		assert.NoError(t, validateConfigPath(path))
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()
		err := validateConfigPath("/nonexistent/file.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config file not found")
	})
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := SetupLogger("warn", &buf)
	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	out := buf.String()
	assert.NotContains(t, out, "hidden", "info line should be filtered")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
	assert.Same(t, logger, slog.Default(), "logger should become the default")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestLoggerContext(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := ContextWithLogger(context.Background(), logger)
	assert.Same(t, logger, LoggerFromContext(ctx))
	assert.Same(t, slog.Default(), LoggerFromContext(context.Background()))
}

const minimalYAML = `
tmdb:
  api_key: yaml-key
`

// writeTempYAML creates a temporary YAML file and returns its path.
func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
