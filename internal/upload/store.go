// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

// Package upload pushes finished artifacts to the inventory store.
//
// The store hands out a presigned POST (a target URL plus form fields). The
// file is then sent as multipart/form-data with the fields first and the
// file part last.
package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/zaidejaz/todaytix-scraper/internal/config"
	"github.com/zaidejaz/todaytix-scraper/internal/logging"
	"github.com/zaidejaz/todaytix-scraper/internal/metrics"
)

const (
	uploadRequestPath = "/sync/api/inventories/csv_upload_request"
	maxErrorBodySize  = 4 * 1024
)

// presignedFieldOrder is the order S3 expects for the policy fields. Any
// other returned fields follow in lexical order.
var presignedFieldOrder = []string{
	"key",
	"Policy",
	"X-Amz-Algorithm",
	"X-Amz-Credential",
	"X-Amz-Date",
	"X-Amz-Signature",
}

type presignResponse struct {
	Upload struct {
		URL    string            `json:"url"`
		Fields map[string]string `json:"fields"`
	} `json:"upload"`
}

// StoreUploader implements the two-step presigned upload.
type StoreUploader struct {
	baseURL   string
	apiKey    string
	companyID string
	client    *http.Client
}

func NewStoreUploader(cfg *config.StoreConfig) *StoreUploader {
	return &StoreUploader{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		companyID: cfg.CompanyID,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Upload sends the file at path. It never returns an error: failures are
// reported as ok=false with a human-readable message.
func (u *StoreUploader) Upload(ctx context.Context, path string) (ok bool, message string) {
	start := time.Now()
	defer func() {
		metrics.RecordUpload(ok, time.Since(start))
		evt := logging.Ctx(ctx).Info()
		if !ok {
			evt = logging.Ctx(ctx).Error()
		}
		evt.Str("file", filepath.Base(path)).Str("result", message).Msg("store upload")
	}()

	if _, err := os.Stat(path); err != nil {
		return false, "file does not exist"
	}

	presign, err := u.requestUpload(ctx)
	if err != nil {
		return false, fmt.Sprintf("failed to get upload credentials: %v", err)
	}
	if err := u.postFile(ctx, path, presign); err != nil {
		return false, err.Error()
	}
	return true, "Upload successful"
}

func (u *StoreUploader) requestUpload(ctx context.Context) (*presignResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+uploadRequestPath, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Token", u.apiKey)
	req.Header.Set("X-Company-Id", u.companyID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upload request failed with status %d: %s", resp.StatusCode, readBodyForError(resp.Body))
	}

	var out presignResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode upload request response: %w", err)
	}
	if out.Upload.URL == "" {
		return nil, fmt.Errorf("upload request response has no url")
	}
	return &out, nil
}

// postFile streams the multipart body through a pipe so the artifact is
// never held in memory.
func (u *StoreUploader) postFile(ctx context.Context, path string, presign *presignResponse) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	fields := presign.Upload.Fields
	filename := fields["key"]
	if filename == "" {
		filename = filepath.Base(path)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeForm(mw, fields, filename, f)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, presign.Upload.URL, pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("error uploading file: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	default:
		logging.Ctx(ctx).Debug().Int("status", resp.StatusCode).Str("body", readBodyForError(resp.Body)).Msg("upload rejected")
		return fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}
}

func writeForm(mw *multipart.Writer, fields map[string]string, filename string, file io.Reader) error {
	for _, name := range orderedFieldNames(fields) {
		if err := mw.WriteField(name, fields[name]); err != nil {
			return fmt.Errorf("write field %s: %w", name, err)
		}
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy artifact: %w", err)
	}
	return nil
}

func orderedFieldNames(fields map[string]string) []string {
	names := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(presignedFieldOrder))
	for _, name := range presignedFieldOrder {
		if _, ok := fields[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range fields {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	return string(body)
}
