package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/newsgraph-io/newsgraph/internal/config"
	"github.com/newsgraph-io/newsgraph/internal/fetcher"
	"github.com/newsgraph-io/newsgraph/internal/types"
)

// Extractor pulls structured metadata, fallback attributes, and plain text
// out of a single article page.
type Extractor struct {
	plain    fetcher.Fetcher
	rendered fetcher.Fetcher
	cfg      *config.Config
	logger   *slog.Logger
}

// TextData is the result of plain-text extraction.
type TextData struct {
	Content      string   `json:"content"`
	LanguageCode string   `json:"language_code"`
	LanguageName string   `json:"language_name"`
	Keywords     []string `json:"keywords"`
}

// New creates an Extractor. The rendered fetcher may be nil, in which case
// every page takes the plain path.
func New(plain, rendered fetcher.Fetcher, cfg *config.Config, logger *slog.Logger) *Extractor {
	return &Extractor{
		plain:    plain,
		rendered: rendered,
		cfg:      cfg,
		logger:   logger.With("component", "extractor"),
	}
}

// needsRendering reports whether the URL belongs to a host whose structured
// data is injected client-side.
func (e *Extractor) needsRendering(url string) bool {
	for _, host := range e.cfg.Browser.RenderedHosts {
		if strings.Contains(url, host) {
			return true
		}
	}
	return false
}

// fetch selects the rendered path only for pages known to require it.
func (e *Extractor) fetch(ctx context.Context, url string) (*types.Response, error) {
	if e.rendered != nil && e.needsRendering(url) {
		return e.rendered.Fetch(ctx, url)
	}
	return e.plain.Fetch(ctx, url)
}

// Close releases both fetchers.
func (e *Extractor) Close() error {
	var firstErr error
	if e.plain != nil {
		firstErr = e.plain.Close()
	}
	if e.rendered != nil {
		if err := e.rendered.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
