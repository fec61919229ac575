package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/newsgraph-io/newsgraph/internal/graph"
	"github.com/newsgraph-io/newsgraph/internal/storage"
	"github.com/newsgraph-io/newsgraph/internal/types"
)

// GraphBuilder builds an article's statement set.
type GraphBuilder interface {
	Build(ctx context.Context, url string) (*graph.Set, error)
}

// StatementStore uploads serialized statement sets.
type StatementStore interface {
	Insert(ctx context.Context, turtle string) error
}

// RecordFetcher reads the stored record back after insertion.
type RecordFetcher interface {
	ByURL(ctx context.Context, url string) (*types.Article, error)
}

// Service orchestrates one article ingestion: build the statement set,
// upload it, archive the raw serialization, and return the stored record.
type Service struct {
	builder GraphBuilder
	store   StatementStore
	fetcher RecordFetcher
	archive *storage.Archive
	logger  *slog.Logger
}

// New creates an ingestion Service. archive may be nil.
func New(builder GraphBuilder, store StatementStore, fetcher RecordFetcher, archive *storage.Archive, logger *slog.Logger) *Service {
	return &Service{
		builder: builder,
		store:   store,
		fetcher: fetcher,
		archive: archive,
		logger:  logger.With("component", "ingest"),
	}
}

// Ingest processes one article URL end to end and returns the record as
// the store now holds it.
func (s *Service) Ingest(ctx context.Context, articleURL string) (*types.Article, error) {
	if err := validateURL(articleURL); err != nil {
		return nil, err
	}

	set, err := s.builder.Build(ctx, articleURL)
	if err != nil {
		return nil, err
	}
	// Headline-less nodes are not insertable.
	if !set.Has(articleURL, graph.SchemaNS+"headline") {
		return nil, fmt.Errorf("%w: %q", types.ErrNoHeadline, articleURL)
	}

	turtle := set.Turtle()
	if err := s.store.Insert(ctx, turtle); err != nil {
		return nil, err
	}
	s.logger.Info("article ingested", "url", articleURL, "statements", set.Len())

	if err := s.archive.Save(ctx, &storage.Snapshot{URL: articleURL, Turtle: turtle}); err != nil {
		s.logger.Warn("extraction archive failed", "url", articleURL, "error", err)
	}

	article, err := s.fetcher.ByURL(ctx, articleURL)
	if err != nil {
		return nil, fmt.Errorf("article inserted but not retrievable: %w", err)
	}
	return article, nil
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: %q", types.ErrInvalidURL, raw)
	}
	return nil
}
