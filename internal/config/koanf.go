// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/todaytix-scraper/config.yaml",
}

const (
	ConfigPathEnvVar = "CONFIG_PATH"
	EnvFileEnvVar    = "ENV_FILE"
	defaultEnvFile   = ".env"
)

func defaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			BaseURL:           "https://api.todaytix.com/api/v2",
			UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			Timeout:           30 * time.Second,
			MaxRetries:        5,
			RetryBaseDelay:    time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
			LocationID:        2,
			SearchLimit:       5,
			Breaker: BreakerConfig{
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      2 * time.Minute,
				MinRequests:  10,
				FailureRatio: 0.6,
			},
		},
		Store: StoreConfig{
			Timeout: 60 * time.Second,
		},
		Scraper: ScraperConfig{
			OutputDir:       "data/output",
			MaxConcurrent:   5,
			IntervalMinutes: 20,
			AutoUpload:      false,
			EventTimeout:    2 * time.Minute,
		},
		Database: DatabaseConfig{
			Path:      "data/scraper.duckdb",
			MaxMemory: "512MB",
		},
		Cache: CacheConfig{
			Enabled:     true,
			Path:        "data/cache",
			ShowTTL:     24 * time.Hour,
			ShowtimeTTL: 5 * time.Minute,
		},
		Server: ServerConfig{
			Port:            5000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf builds the configuration from defaults, an optional YAML
// file, an optional .env file and the environment, then validates it.
func LoadWithKoanf() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadDotEnv reads ENV_FILE (default .env) into the environment without
// overriding variables that are already set. A missing file is not an error.
func loadDotEnv() error {
	path := os.Getenv(EnvFileEnvVar)
	if path == "" {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields turns comma-separated env values into string slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings lists every environment variable the service reads. Unlisted
// variables are ignored.
var envMappings = map[string]string{
	"proxy_api_url":           "provider.proxy_url",
	"proxy_api_key":           "provider.proxy_api_key",
	"todaytix_base_url":       "provider.base_url",
	"provider_timeout":        "provider.timeout",
	"provider_max_retries":    "provider.max_retries",
	"provider_retry_delay":    "provider.retry_base_delay",
	"provider_rps":            "provider.requests_per_second",
	"provider_burst":          "provider.burst",
	"todaytix_location_id":    "provider.location_id",
	"breaker_max_requests":    "provider.breaker.max_requests",
	"breaker_timeout":         "provider.breaker.timeout",
	"breaker_failure_ratio":   "provider.breaker.failure_ratio",
	"store_api_base_url":      "store.base_url",
	"store_api_key":           "store.api_key",
	"company_id":              "store.company_id",
	"store_timeout":           "store.timeout",
	"output_file_dir":         "scraper.output_dir",
	"max_concurrent_requests": "scraper.max_concurrent",
	"scrape_interval_minutes": "scraper.interval_minutes",
	"auto_upload":             "scraper.auto_upload",
	"event_timeout":           "scraper.event_timeout",
	"start_on_boot":           "scraper.start_on_boot",
	"duckdb_path":             "database.path",
	"duckdb_max_memory":       "database.max_memory",
	"duckdb_threads":          "database.threads",
	"cache_enabled":           "cache.enabled",
	"badger_path":             "cache.path",
	"show_cache_ttl":          "cache.show_ttl",
	"showtime_cache_ttl":      "cache.showtime_ttl",
	"http_port":               "server.port",
	"http_host":               "server.host",
	"http_timeout":            "server.timeout",
	"shutdown_timeout":        "server.shutdown_timeout",
	"cors_origins":            "server.cors_origins",
	"rate_limit_requests":     "server.rate_limit_reqs",
	"rate_limit_window":       "server.rate_limit_window",
	"log_level":               "logging.level",
	"log_format":              "logging.format",
	"log_caller":              "logging.caller",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
