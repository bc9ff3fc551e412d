// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validateHTTPURL accepts an http(s) base URL with a host. Query strings and
// fragments are rejected; a path is allowed since both the proxy and the
// store may be mounted under a prefix.
func validateHTTPURL(rawURL, fieldName string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", fieldName, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", fieldName, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", fieldName)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("%s must not contain a query or fragment", fieldName)
	}
	if strings.Contains(u.Host, " ") {
		return fmt.Errorf("%s host contains whitespace", fieldName)
	}
	return nil
}
