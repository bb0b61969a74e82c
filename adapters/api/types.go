package api

import (
	"time"
)

// CatalogEndpoint represents the remote catalog configuration
type CatalogEndpoint struct {
	// Connection settings
	BaseURL string            `json:"base_url" yaml:"base_url"`
	Query   string            `json:"query" yaml:"query"` // passed verbatim as ?query=
	Limit   int               `json:"limit" yaml:"limit"` // result-count limit
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Request behaviour
	Timeout       time.Duration `json:"timeout" yaml:"timeout"`
	RetryAttempts int           `json:"retry_attempts" yaml:"retry_attempts"` // extra attempts after the first
	RetryBackoff  time.Duration `json:"retry_backoff" yaml:"retry_backoff"`   // first delay, doubled per attempt
	MaxBackoff    time.Duration `json:"max_backoff" yaml:"max_backoff"`
}

// FetchMetadata contains information about the last catalog fetch
type FetchMetadata struct {
	URL          string        `json:"url"`
	StatusCode   int           `json:"status_code"`
	Attempts     int           `json:"attempts"`
	ResponseTime time.Duration `json:"response_time"`
	FetchedAt    time.Time     `json:"fetched_at"`
	RecordsCount int           `json:"records_count"`
	ContentType  string        `json:"content_type"`
}
