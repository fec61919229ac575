package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/newsgraph-io/newsgraph/internal/store"
	"github.com/newsgraph-io/newsgraph/internal/types"
)

// resultLimit caps every search at 10 rows; row order among ties is
// whatever the store returns.
const resultLimit = 10

// StoreClient is the slice of the triple-store client the engine needs.
type StoreClient interface {
	Query(ctx context.Context, sparql string) ([]store.Binding, error)
	Update(ctx context.Context, sparql string) error
}

// Engine builds store queries and reconstructs article records from their
// flat row results.
type Engine struct {
	store  StoreClient
	logger *slog.Logger
}

// New creates an Engine backed by the given store client.
func New(client StoreClient, logger *slog.Logger) *Engine {
	return &Engine{store: client, logger: logger.With("component", "search")}
}

// ByURL fetches the article stored under the URL and rebuilds its nested
// record. Returns ErrNotFound when the store holds nothing for the URL.
func (e *Engine) ByURL(ctx context.Context, url string) (*types.Article, error) {
	rows, err := e.store.Query(ctx, byURLQuery(url))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, types.ErrNotFound
	}
	return assembleArticle(url, rows), nil
}

// ByKeywords searches for articles containing every keyword, degrading to
// an at-least-one match when the conjunctive pass returns nothing.
func (e *Engine) ByKeywords(ctx context.Context, keywords string) ([]types.SearchHit, types.MatchKind, error) {
	words := strings.Fields(keywords)
	if len(words) == 0 {
		return nil, "", types.ErrNoCriteria
	}
	return e.run(ctx, Facets{Keywords: keywords})
}

// ByFacets searches on any combination of facets with the same exact-then-
// partial degradation. A request with zero facets is rejected before any
// store round trip.
func (e *Engine) ByFacets(ctx context.Context, f Facets) ([]types.SearchHit, types.MatchKind, error) {
	if f.Empty() {
		return nil, "", types.ErrNoCriteria
	}
	return e.run(ctx, f)
}

func (e *Engine) run(ctx context.Context, f Facets) ([]types.SearchHit, types.MatchKind, error) {
	filters := f.filters()
	searchedKeywords := strings.Fields(f.Keywords)

	rows, err := e.store.Query(ctx, searchQuery(filters, true))
	if err != nil {
		return nil, "", err
	}
	if len(rows) > 0 {
		return assembleHits(rows, searchedKeywords), types.MatchExact, nil
	}

	e.logger.Debug("exact pass empty, degrading to partial match")
	rows, err = e.store.Query(ctx, searchQuery(filters, false))
	if err != nil {
		return nil, "", err
	}
	return assembleHits(rows, searchedKeywords), types.MatchPartial, nil
}

// All lists stored articles up to the result cap.
func (e *Engine) All(ctx context.Context) ([]types.SearchHit, error) {
	rows, err := e.store.Query(ctx, searchQuery(nil, true))
	if err != nil {
		return nil, err
	}
	return assembleHits(rows, nil), nil
}

// DeleteByURL removes the article's statements, preserving entity nodes
// linked as author, publisher, or editor.
func (e *Engine) DeleteByURL(ctx context.Context, url string) error {
	return e.store.Update(ctx, deleteQuery(url))
}
