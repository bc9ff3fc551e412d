// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package config

import (
	"fmt"
	"strings"

	"github.com/zaidejaz/todaytix-scraper/internal/logging"
)

const maxConcurrentLimit = 50

// Validate checks the loaded configuration. The first failure is returned.
func (c *Config) Validate() error {
	if err := c.validateProvider(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateScraper(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateProvider() error {
	p := c.Provider
	if p.ProxyURL == "" {
		return fmt.Errorf("PROXY_API_URL is required")
	}
	if err := validateHTTPURL(p.ProxyURL, "PROXY_API_URL"); err != nil {
		return err
	}
	if p.ProxyAPIKey == "" {
		return fmt.Errorf("PROXY_API_KEY is required")
	}
	if p.BaseURL == "" {
		return fmt.Errorf("TODAYTIX_BASE_URL is required")
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive, got %s", p.Timeout)
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("PROVIDER_MAX_RETRIES must be non-negative, got %d", p.MaxRetries)
	}
	if p.RequestsPerSecond <= 0 {
		return fmt.Errorf("PROVIDER_RPS must be positive, got %v", p.RequestsPerSecond)
	}
	if p.Burst < 1 {
		return fmt.Errorf("PROVIDER_BURST must be at least 1, got %d", p.Burst)
	}
	if p.LocationID <= 0 {
		return fmt.Errorf("TODAYTIX_LOCATION_ID must be positive, got %d", p.LocationID)
	}
	if r := p.Breaker.FailureRatio; r <= 0 || r > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1], got %v", r)
	}
	return nil
}

// validateStore only requires store settings when uploads are enabled.
func (c *Config) validateStore() error {
	s := c.Store
	if s.BaseURL != "" {
		if err := validateHTTPURL(s.BaseURL, "STORE_API_BASE_URL"); err != nil {
			return err
		}
	}
	if !c.Scraper.AutoUpload {
		return nil
	}
	if !s.Configured() {
		return fmt.Errorf("AUTO_UPLOAD requires STORE_API_BASE_URL, STORE_API_KEY and COMPANY_ID")
	}
	return nil
}

func (c *Config) validateScraper() error {
	s := c.Scraper
	if strings.TrimSpace(s.OutputDir) == "" {
		return fmt.Errorf("OUTPUT_FILE_DIR is required")
	}
	if s.MaxConcurrent < 1 || s.MaxConcurrent > maxConcurrentLimit {
		return fmt.Errorf("MAX_CONCURRENT_REQUESTS must be between 1 and %d, got %d", maxConcurrentLimit, s.MaxConcurrent)
	}
	if s.IntervalMinutes < 1 {
		return fmt.Errorf("SCRAPE_INTERVAL_MINUTES must be at least 1, got %d", s.IntervalMinutes)
	}
	if s.EventTimeout < 0 {
		return fmt.Errorf("EVENT_TIMEOUT must be non-negative, got %s", s.EventTimeout)
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative, got %d", c.Database.Threads)
	}
	if c.Cache.Enabled && c.Cache.ShowTTL <= 0 {
		return fmt.Errorf("SHOW_CACHE_TTL must be positive when caching is enabled")
	}
	return nil
}

func (c *Config) validateServer() error {
	s := c.Server
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", s.Port)
	}
	if s.RateLimitReqs < 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be non-negative, got %d", s.RateLimitReqs)
	}
	if s.RateLimitReqs > 0 && s.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a known level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
