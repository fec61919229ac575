package fetcher

import (
	"context"

	"github.com/newsgraph-io/newsgraph/internal/types"
)

// Fetcher retrieves the HTML content of a single URL.
type Fetcher interface {
	// Fetch retrieves the content at the given URL.
	Fetch(ctx context.Context, url string) (*types.Response, error)

	// Close releases any resources held by the fetcher.
	Close() error
}
