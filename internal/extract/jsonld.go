package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kaptinlin/jsonrepair"

	"github.com/newsgraph-io/newsgraph/internal/types"
)

// validTypes is the allow-list of structured-data types an article page may
// declare for its main content.
var validTypes = map[string]bool{
	"NewsArticle":           true,
	"Article":               true,
	"BackgroundNewsArticle": true,
	"ReportageNewsArticle":  true,
	"VideoObject":           true,
	"BlogPosting":           true,
	"PodcastEpisode":        true,
}

// StructuredData extracts the single best-matching JSON-LD record for the
// page. A candidate whose mainEntityOfPage reference equals the page URL is
// an exact match; otherwise the first type-matching candidate wins.
// Returns ErrNoStructured when no block yields a type-matching candidate.
func (e *Extractor) StructuredData(ctx context.Context, url string) (map[string]any, error) {
	resp, err := e.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	blocks := e.collectJSONLD(resp)
	if len(blocks) == 0 {
		return nil, types.ErrNoStructured
	}

	return e.selectMainRecord(blocks, url)
}

// collectJSONLD parses every <script type="application/ld+json"> block,
// attempting a repair pass on malformed blocks before skipping them.
func (e *Extractor) collectJSONLD(resp *types.Response) []any {
	doc, err := resp.Document()
	if err != nil {
		e.logger.Warn("document parse failed", "url", resp.URL, "error", err)
		return nil
	}

	var blocks []any
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}

		var data any
		if err := json.Unmarshal([]byte(raw), &data); err == nil {
			blocks = append(blocks, data)
			return
		}

		repaired, err := jsonrepair.JSONRepair(raw)
		if err != nil {
			e.logger.Debug("json-ld repair failed, skipping block", "url", resp.URL, "error", err)
			return
		}
		if err := json.Unmarshal([]byte(repaired), &data); err != nil {
			e.logger.Debug("repaired json-ld still invalid, skipping block", "url", resp.URL, "error", err)
			return
		}
		blocks = append(blocks, data)
	})

	return blocks
}

// selectMainRecord walks candidate objects in document order. An exact
// mainEntityOfPage match returns immediately; otherwise the first
// type-matching candidate is kept. First-match, not best-match: multi-block
// pages may prefer an earlier, thinner record over a richer later one.
func (e *Extractor) selectMainRecord(blocks []any, pageURL string) (map[string]any, error) {
	var first map[string]any

	for _, block := range blocks {
		// Unwrap @graph containers.
		if m, ok := block.(map[string]any); ok {
			if graph, ok := m["@graph"].([]any); ok {
				block = graph
			}
		}

		exact, candidate := matchCandidate(block, pageURL)
		if exact != nil {
			return exact, nil
		}
		if first == nil && candidate != nil {
			first = candidate
		}
	}

	if first != nil {
		return first, nil
	}
	return nil, types.ErrNoStructured
}

// matchCandidate inspects a node (object or list) for type-matching
// candidates, returning an exact match separately from the first plain one.
func matchCandidate(node any, pageURL string) (exact, first map[string]any) {
	switch v := node.(type) {
	case map[string]any:
		if !isValidType(v["@type"]) {
			return nil, nil
		}
		if mainEntityURL(v) == pageURL {
			return v, nil
		}
		return nil, v
	case []any:
		for _, item := range v {
			ex, fi := matchCandidate(item, pageURL)
			if ex != nil {
				return ex, first
			}
			if first == nil && fi != nil {
				first = fi
			}
		}
	}
	return nil, first
}

// isValidType checks the @type field, which may be a string or a list.
func isValidType(t any) bool {
	switch v := t.(type) {
	case string:
		return validTypes[v]
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && validTypes[s] {
				return true
			}
		}
	}
	return false
}

// mainEntityURL extracts the page reference a candidate declares itself the
// main entity of; the value may be an object with @id or a bare string.
func mainEntityURL(m map[string]any) string {
	switch v := m["mainEntityOfPage"].(type) {
	case map[string]any:
		if id, ok := v["@id"].(string); ok {
			return id
		}
	case string:
		return v
	}
	return ""
}
