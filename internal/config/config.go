// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

// Package config loads process configuration.
//
// Values are layered lowest to highest: built-in defaults, an optional YAML
// file, a .env file and finally the process environment. See LoadWithKoanf.
package config

import (
	"time"
)

// Config is the root configuration.
type Config struct {
	Provider ProviderConfig `koanf:"provider"`
	Store    StoreConfig    `koanf:"store"`
	Scraper  ScraperConfig  `koanf:"scraper"`
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ProviderConfig configures the TodayTix client and the proxy it goes through.
type ProviderConfig struct {
	ProxyURL          string        `koanf:"proxy_url"`
	ProxyAPIKey       string        `koanf:"proxy_api_key"`
	BaseURL           string        `koanf:"base_url"`
	UserAgent         string        `koanf:"user_agent"`
	Timeout           time.Duration `koanf:"timeout"`
	MaxRetries        int           `koanf:"max_retries"`
	RetryBaseDelay    time.Duration `koanf:"retry_base_delay"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	LocationID        int           `koanf:"location_id"`
	SearchLimit       int           `koanf:"search_limit"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig tunes the circuit breaker in front of the provider.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// StoreConfig is the downstream inventory store that receives uploads.
type StoreConfig struct {
	BaseURL   string        `koanf:"base_url"`
	APIKey    string        `koanf:"api_key"`
	CompanyID string        `koanf:"company_id"`
	Timeout   time.Duration `koanf:"timeout"`
}

// Configured reports whether enough is set to attempt an upload.
func (s StoreConfig) Configured() bool {
	return s.BaseURL != "" && s.APIKey != "" && s.CompanyID != ""
}

type ScraperConfig struct {
	OutputDir       string        `koanf:"output_dir"`
	MaxConcurrent   int           `koanf:"max_concurrent"`
	IntervalMinutes int           `koanf:"interval_minutes"`
	AutoUpload      bool          `koanf:"auto_upload"`
	EventTimeout    time.Duration `koanf:"event_timeout"`
	StartOnBoot     bool          `koanf:"start_on_boot"`
}

// Interval returns IntervalMinutes as a duration.
func (s ScraperConfig) Interval() time.Duration {
	return time.Duration(s.IntervalMinutes) * time.Minute
}

type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 lets DuckDB decide
}

// CacheConfig configures provider lookup caching. ShowTTL applies to the
// persistent show cache and ShowtimeTTL to the in-memory showtime cache.
type CacheConfig struct {
	Enabled     bool          `koanf:"enabled"`
	Path        string        `koanf:"path"`
	ShowTTL     time.Duration `koanf:"show_ttl"`
	ShowtimeTTL time.Duration `koanf:"showtime_ttl"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
