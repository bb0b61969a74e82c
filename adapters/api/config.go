package api

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultCatalogEndpoint returns the Kepler catalog served by asterank
func DefaultCatalogEndpoint() CatalogEndpoint {
	return CatalogEndpoint{
		BaseURL:       "http://asterank.com/api/kepler",
		Query:         "{}",
		Limit:         2000,
		Timeout:       30 * time.Second,
		RetryAttempts: 3,
		RetryBackoff:  500 * time.Millisecond,
		MaxBackoff:    10 * time.Second,
	}
}

// Validate checks if the configuration is valid
func (c CatalogEndpoint) Validate() error {
	if c.BaseURL == "" {
		return &ValidationError{Field: "BaseURL", Message: "is required"}
	}
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return &ValidationError{Field: "BaseURL", Message: err.Error()}
	}
	if c.Limit <= 0 {
		return &ValidationError{Field: "Limit", Message: "must be positive"}
	}
	if c.Timeout <= 0 {
		return &ValidationError{Field: "Timeout", Message: "must be positive"}
	}
	if c.RetryAttempts < 0 {
		return &ValidationError{Field: "RetryAttempts", Message: "cannot be negative"}
	}
	return nil
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}
