package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"exodash/internal"
	"exodash/internal/errors"
)

// CatalogReader fetches the catalog from a REST endpoint returning a JSON
// array of (possibly nested) objects.
type CatalogReader struct {
	config     CatalogEndpoint
	httpClient *http.Client
	logger     *internal.Logger

	mu   sync.Mutex
	last FetchMetadata
}

// NewCatalogReader creates a reader for the endpoint
func NewCatalogReader(config CatalogEndpoint, logger *internal.Logger) *CatalogReader {
	return &CatalogReader{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
}

// Describe implements ports.CatalogSource
func (r *CatalogReader) Describe() string {
	return r.buildURL()
}

// LastFetch returns metadata about the most recent FetchRows call
func (r *CatalogReader) LastFetch() FetchMetadata {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// FetchRows retrieves and flattens the catalog. Unreachable endpoints are
// retried with exponential backoff; malformed payloads fail immediately.
func (r *CatalogReader) FetchRows(ctx context.Context) ([]map[string]interface{}, error) {
	startTime := time.Now()
	url := r.buildURL()

	var (
		body    []byte
		meta    FetchMetadata
		lastErr error
	)
	attempts := 0
	for attempt := 0; attempt <= r.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			delay := r.backoff(attempt)
			r.logger.Warn("[CatalogReader] attempt %d failed (%v), retrying in %s", attempt, lastErr, delay)
			if err := sleepContext(ctx, delay); err != nil {
				return nil, errors.CatalogUnreachable(err)
			}
		}
		attempts++

		var retryable bool
		body, meta, retryable, lastErr = r.fetchOnce(ctx, url)
		if lastErr == nil {
			break
		}
		if !retryable || ctx.Err() != nil {
			break
		}
	}
	if lastErr != nil {
		return nil, errors.Wrapf(lastErr, "catalog fetch failed after %d attempt(s)", attempts)
	}

	rows, err := FlattenArray(body)
	if err != nil {
		return nil, err
	}

	meta.URL = url
	meta.Attempts = attempts
	meta.FetchedAt = startTime
	meta.ResponseTime = time.Since(startTime)
	meta.RecordsCount = len(rows)
	r.mu.Lock()
	r.last = meta
	r.mu.Unlock()

	r.logger.Info("[CatalogReader] fetched %d rows from %s in %s (%d attempt(s))", len(rows), url, meta.ResponseTime, attempts)
	return rows, nil
}

// fetchOnce performs one GET. retryable reports whether a failure is worth
// another attempt.
func (r *CatalogReader) fetchOnce(ctx context.Context, url string) ([]byte, FetchMetadata, bool, error) {
	req, err := r.buildRequest(ctx, url)
	if err != nil {
		return nil, FetchMetadata{}, false, errors.CatalogUnreachable(fmt.Errorf("failed to build request: %w", err))
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, FetchMetadata{}, true, errors.CatalogUnreachable(err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, FetchMetadata{}, true, errors.CatalogUnreachable(fmt.Errorf("failed to read response: %w", err))
	}

	meta := FetchMetadata{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, meta, retryable, errors.CatalogUnreachable(fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(body, 200)))
	}
	return body, meta, false, nil
}

// buildURL constructs the request URL: ?query=<query>&limit=<limit>
func (r *CatalogReader) buildURL() string {
	params := url.Values{}
	params.Set("query", r.config.Query)
	params.Set("limit", strconv.Itoa(r.config.Limit))
	return r.config.BaseURL + "?" + params.Encode()
}

func (r *CatalogReader) buildRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range r.config.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

func (r *CatalogReader) backoff(attempt int) time.Duration {
	delay := r.config.RetryBackoff << (attempt - 1)
	if r.config.MaxBackoff > 0 && (delay > r.config.MaxBackoff || delay <= 0) {
		delay = r.config.MaxBackoff
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// FlattenArray parses a JSON array of objects and flattens nested objects
// into dotted keys ({"a":{"b":1}} → "a.b"). Arrays are kept as values.
func FlattenArray(body []byte) ([]map[string]interface{}, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.CatalogMalformed("catalog response is not valid JSON", nil)
	}
	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return nil, errors.CatalogMalformed(fmt.Sprintf("catalog response is a JSON %s, expected an array", kindOf(result)), nil)
	}

	var (
		rows   []map[string]interface{}
		badIdx = -1
	)
	result.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			badIdx = len(rows)
			return false
		}
		row := make(map[string]interface{})
		flattenInto(row, "", item)
		rows = append(rows, row)
		return true
	})
	if badIdx >= 0 {
		return nil, errors.CatalogMalformed(fmt.Sprintf("catalog element %d is not an object", badIdx), nil)
	}
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	return rows, nil
}

func flattenInto(row map[string]interface{}, prefix string, obj gjson.Result) {
	obj.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if prefix != "" {
			name = prefix + "." + name
		}
		if value.IsObject() {
			flattenInto(row, name, value)
			return true
		}
		row[name] = scalar(value)
		return true
	})
}

func scalar(v gjson.Result) interface{} {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.Number:
		return v.Float()
	case gjson.String:
		return v.String()
	case gjson.True:
		return true
	case gjson.False:
		return false
	default:
		return v.Value()
	}
}

func kindOf(v gjson.Result) string {
	switch {
	case v.IsObject():
		return "object"
	case v.Type == gjson.String:
		return "string"
	case v.Type == gjson.Number:
		return "number"
	case v.Type == gjson.Null:
		return "null"
	default:
		return "value"
	}
}
