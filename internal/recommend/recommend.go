package recommend

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/newsgraph-io/newsgraph/internal/search"
	"github.com/newsgraph-io/newsgraph/internal/types"
)

// ArticleSource is the slice of the search engine the recommender needs.
type ArticleSource interface {
	ByURL(ctx context.Context, url string) (*types.Article, error)
	ByFacets(ctx context.Context, f search.Facets) ([]types.SearchHit, types.MatchKind, error)
}

// Engine aggregates a user's viewed articles into a search profile and
// recommends unseen articles matching it.
type Engine struct {
	source ArticleSource
	logger *slog.Logger
}

// New creates a recommendation Engine.
func New(source ArticleSource, logger *slog.Logger) *Engine {
	return &Engine{source: source, logger: logger.With("component", "recommend")}
}

// Recommend fetches each viewed article, builds the aggregate profile, and
// runs a faceted search, excluding the viewed URLs from the results. An
// empty result is a normal outcome, not an error.
func (e *Engine) Recommend(ctx context.Context, viewedURLs []string) ([]types.SearchHit, error) {
	var viewed []*types.Article
	for _, url := range viewedURLs {
		article, err := e.source.ByURL(ctx, url)
		if err != nil {
			if !errors.Is(err, types.ErrNotFound) {
				e.logger.Warn("skipping unresolvable history entry", "url", url, "error", err)
			}
			continue
		}
		viewed = append(viewed, article)
	}
	if len(viewed) == 0 {
		return []types.SearchHit{}, nil
	}

	profile := buildProfile(viewed)
	if profile.Empty() {
		return []types.SearchHit{}, nil
	}

	hits, _, err := e.source.ByFacets(ctx, profile)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(viewedURLs))
	for _, url := range viewedURLs {
		seen[url] = true
	}
	recommendations := make([]types.SearchHit, 0, len(hits))
	for _, hit := range hits {
		if !seen[hit.URL] {
			recommendations = append(recommendations, hit)
		}
	}
	return recommendations, nil
}

// buildProfile aggregates the viewed records: word-count and date ranges,
// the most frequent language, author, and publisher, and the ten most
// frequent keywords joined into one keyword string. Frequency ties go to
// the value that reached the top count first.
func buildProfile(viewed []*types.Article) search.Facets {
	var profile search.Facets

	wordCounts := make([]int, 0, len(viewed))
	dates := make([]string, 0, len(viewed))
	keywords := newCounter()
	authors := newCounter()
	publishers := newCounter()
	languages := newCounter()

	for _, article := range viewed {
		if article.WordCount > 0 {
			wordCounts = append(wordCounts, article.WordCount)
		}
		if article.DatePublished != "" {
			dates = append(dates, article.DatePublished)
		}
		for _, kw := range article.Keywords {
			keywords.add(kw)
		}
		for _, author := range article.Author {
			if author.Name != "" {
				authors.add(author.Name)
			}
		}
		for _, publisher := range article.Publisher {
			if publisher.Name != "" {
				publishers.add(publisher.Name)
			}
		}
		if article.InLanguage != "" {
			languages.add(article.InLanguage)
		}
	}

	if len(wordCounts) > 0 {
		profile.WordCountMin, profile.WordCountMax = minMaxInt(wordCounts)
	}
	if len(dates) > 0 {
		profile.DatePublishedMin, profile.DatePublishedMax = minMaxString(dates)
	}
	if top := keywords.mostCommon(10); len(top) > 0 {
		profile.Keywords = strings.Join(top, " ")
	}
	if top := authors.mostCommon(1); len(top) > 0 {
		profile.AuthorName = top[0]
	}
	if top := publishers.mostCommon(1); len(top) > 0 {
		profile.Publisher = top[0]
	}
	if top := languages.mostCommon(1); len(top) > 0 {
		profile.InLanguage = top[0]
	}

	return profile
}

// counter tallies values while remembering first-appearance order, so
// frequency ties resolve deterministically by input order.
type counter struct {
	counts map[string]int
	order  map[string]int
	next   int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int), order: make(map[string]int)}
}

func (c *counter) add(value string) {
	if _, ok := c.counts[value]; !ok {
		c.order[value] = c.next
		c.next++
	}
	c.counts[value]++
}

func (c *counter) mostCommon(n int) []string {
	values := make([]string, 0, len(c.counts))
	for v := range c.counts {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		if c.counts[values[i]] != c.counts[values[j]] {
			return c.counts[values[i]] > c.counts[values[j]]
		}
		return c.order[values[i]] < c.order[values[j]]
	})
	if len(values) > n {
		values = values[:n]
	}
	return values
}

func minMaxInt(values []int) (min, max int) {
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func minMaxString(values []string) (min, max string) {
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
