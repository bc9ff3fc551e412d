// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/zaidejaz/todaytix-scraper/internal/config"
	"github.com/zaidejaz/todaytix-scraper/internal/logging"
	"github.com/zaidejaz/todaytix-scraper/internal/metrics"
	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

const (
	proxyRequestPath = "/api/proxy/request"

	// maxErrorBodySize caps how much of a failed response is kept for the error.
	maxErrorBodySize = 64 * 1024

	opFindShow      = "find_show"
	opListShowtimes = "list_showtimes"
	opListSections  = "list_sections"
)

var errEmptyContent = errors.New("proxy returned no content")

// TodayTixClient implements SeatSource against the TodayTix v2 API, routed
// through a proxy that returns the upstream body as a string under
// "content".
//
// Every request passes through a token-bucket limiter. HTTP 429 responses
// are retried with exponential backoff (base, 2×base, 4×base, ...) and
// Retry-After is honored when present. Any other failure is returned
// immediately as a *SourceUnavailableError.
type TodayTixClient struct {
	proxyURL       string
	apiKey         string
	baseURL        string
	userAgent      string
	searchLimit    int
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
}

func NewTodayTixClient(cfg *config.ProviderConfig) *TodayTixClient {
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	searchLimit := cfg.SearchLimit
	if searchLimit < 1 {
		searchLimit = 5
	}
	return &TodayTixClient{
		proxyURL:       strings.TrimRight(cfg.ProxyURL, "/"),
		apiKey:         cfg.ProxyAPIKey,
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:      cfg.UserAgent,
		searchLimit:    searchLimit,
		client:         &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(limit, burst),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
	}
}

// FindShow searches by normalized name and requires exactly one candidate
// whose normalized display name equals it.
func (c *TodayTixClient) FindShow(ctx context.Context, displayName string, locationID int) (models.ShowRef, error) {
	want := NormalizeName(displayName)
	if want == "" {
		return models.ShowRef{}, fmt.Errorf("%w: empty name", ErrNotFound)
	}

	params := url.Values{}
	params.Set("fieldset", "SHOW_SUMMARY")
	params.Set("query", want)
	params.Set("location", strconv.Itoa(locationID))
	params.Set("limit", strconv.Itoa(c.searchLimit))
	params.Set("offset", "0")
	params.Set("includeAggregations", "false")

	var payload showsPayload
	if err := c.fetch(ctx, opFindShow, "/shows", params, &payload); err != nil {
		return models.ShowRef{}, err
	}

	var matches []wireShow
	for _, s := range payload.Data {
		if NormalizeName(s.DisplayName) == want {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0].toModel(), nil
	case 0:
		return models.ShowRef{}, fmt.Errorf("%w: %q among %d candidates", ErrNotFound, displayName, len(payload.Data))
	default:
		return models.ShowRef{}, fmt.Errorf("%w: %q is ambiguous (%d matches)", ErrNotFound, displayName, len(matches))
	}
}

func (c *TodayTixClient) ListShowtimes(ctx context.Context, show models.ShowRef) ([]models.Showtime, error) {
	var payload showtimesPayload
	endpoint := "/shows/" + url.PathEscape(show.ID) + "/showtimes"
	if err := c.fetch(ctx, opListShowtimes, endpoint, nil, &payload); err != nil {
		return nil, err
	}
	out := make([]models.Showtime, 0, len(payload.Data))
	for _, st := range payload.Data {
		out = append(out, st.toModel())
	}
	return out, nil
}

func (c *TodayTixClient) ListSeatSections(ctx context.Context, showID, showtimeID string, quantity int) ([]models.RawSeatBlock, error) {
	params := url.Values{}
	params.Set("allowMultipleGaSections", "true")
	params.Set("quantity", strconv.Itoa(quantity))
	params.Set("groupSelectionBy", "SAME_PROVIDER")

	endpoint := fmt.Sprintf("/shows/%s/showtimes/%s/sections", url.PathEscape(showID), url.PathEscape(showtimeID))
	var payload sectionsPayload
	if err := c.fetch(ctx, opListSections, endpoint, params, &payload); err != nil {
		return nil, err
	}
	return flattenSections(payload.Data), nil
}

// fetch performs one proxied GET and decodes the inner payload into out.
func (c *TodayTixClient) fetch(ctx context.Context, op, endpoint string, params url.Values, out interface{}) error {
	q := url.Values{}
	q.Set("url", c.baseURL+endpoint)
	for k, vs := range params {
		q[k] = vs
	}
	reqURL := c.proxyURL + proxyRequestPath + "?" + q.Encode()

	logging.Ctx(ctx).Debug().Str("op", op).Str("target", endpoint).Msg("proxy request")

	resp, err := c.doRequestWithRateLimit(ctx, op, reqURL)
	if err != nil {
		return unavailable(op, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unavailable(op, resp.StatusCode, fmt.Errorf("proxy error: %s", readBodyForError(resp.Body)))
	}

	var env proxyEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return unavailable(op, resp.StatusCode, fmt.Errorf("decode proxy envelope: %w", err))
	}
	if env.Content == "" {
		return unavailable(op, resp.StatusCode, errEmptyContent)
	}
	if err := json.Unmarshal([]byte(env.Content), out); err != nil {
		return unavailable(op, resp.StatusCode, fmt.Errorf("decode %s payload: %w", op, err))
	}
	return nil
}

func (c *TodayTixClient) doRequestWithRateLimit(ctx context.Context, op, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Api-Key", c.apiKey)
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		start := time.Now()
		resp, err := c.client.Do(req)
		if err != nil {
			metrics.RecordProviderRequest(op, 0, time.Since(start))
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		metrics.RecordProviderRequest(op, resp.StatusCode, time.Since(start))

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		_ = resp.Body.Close()

		if attempt >= c.maxRetries {
			return nil, fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs >= 0 {
			delay = time.Duration(secs) * time.Second
		}
		metrics.RecordProviderRetry(op)
		logging.Ctx(ctx).Warn().Str("op", op).Int("attempt", attempt+1).Dur("delay", delay).Msg("provider throttled, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	if len(body) == maxErrorBodySize {
		return string(body) + "\n... (truncated)"
	}
	return string(body)
}
