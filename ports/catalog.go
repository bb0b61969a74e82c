package ports

import (
	"context"
)

// CatalogSource provides raw catalog rows with nested objects already
// flattened into dotted column names.
type CatalogSource interface {
	FetchRows(ctx context.Context) ([]map[string]interface{}, error)

	// Describe names the source for logs and the About tab.
	Describe() string
}
