// Package config loads runtime settings from .env and the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the CLI and dashboard read.
type Config struct {
	CollectorMode string `mapstructure:"collector_mode"`
	UserAgent     string `mapstructure:"reddit_user_agent"`
	BaseURL       string `mapstructure:"reddit_base_url"`
	CorsProxy     string `mapstructure:"cors_proxy"`
	Category      string `mapstructure:"reddit_category"`
	MaxPages      int    `mapstructure:"max_pages"`
	FilterNSFW    bool   `mapstructure:"filter_nsfw"`
	CacheBackend  string `mapstructure:"cache_backend"`
	CacheFile     string `mapstructure:"cache_file"`
	RedisURL      string `mapstructure:"redis_url"`
	Port          string `mapstructure:"port"`
	GeminiAPIKey  string `mapstructure:"gemini_api_key"`
	GeminiModel   string `mapstructure:"gemini_model"`
	LogLevel      string `mapstructure:"log_level"`
	KeywordsFile  string `mapstructure:"tracked_keywords_file"`
	MockLatencyMS int    `mapstructure:"mock_latency_ms"`
}

// Load reads an optional .env file, then environment variables over defaults.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.CollectorMode = strings.ToLower(strings.TrimSpace(cfg.CollectorMode))
	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(cfg.CacheBackend))

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("collector_mode", "public")
	v.SetDefault("reddit_user_agent", "hackathon-trend-visualizer/1.0")
	v.SetDefault("reddit_base_url", "https://www.reddit.com")
	v.SetDefault("cors_proxy", "")
	v.SetDefault("reddit_category", "all")
	v.SetDefault("max_pages", 10)
	v.SetDefault("filter_nsfw", true)
	v.SetDefault("cache_backend", "file")
	v.SetDefault("cache_file", "data/cache.json")
	v.SetDefault("redis_url", "redis://localhost:6379/0")
	v.SetDefault("port", "8080")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("log_level", "info")
	v.SetDefault("tracked_keywords_file", "input/keywords.csv")
	v.SetDefault("mock_latency_ms", 0)
}

func validate(cfg *Config) error {
	switch cfg.CollectorMode {
	case "public", "api", "mock":
	default:
		return fmt.Errorf("unknown COLLECTOR_MODE: %s (use 'api', 'public', or 'mock')", cfg.CollectorMode)
	}
	switch cfg.CacheBackend {
	case "memory", "file", "redis":
	default:
		return fmt.Errorf("unknown CACHE_BACKEND: %s (use 'memory', 'file', or 'redis')", cfg.CacheBackend)
	}
	if cfg.CollectorMode != "mock" && cfg.UserAgent == "" {
		return fmt.Errorf("REDDIT_USER_AGENT is required for %s mode", cfg.CollectorMode)
	}
	if cfg.MaxPages < 1 {
		return fmt.Errorf("MAX_PAGES must be at least 1, got %d", cfg.MaxPages)
	}
	if cfg.Category == "" {
		return fmt.Errorf("REDDIT_CATEGORY must not be empty")
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
