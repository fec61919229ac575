package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ogKeyMap maps Open Graph / app-link properties onto the flat attribute
// names the graph layer understands. App-link descriptors (al:*) are
// dropped except for the canonical web URL.
var ogKeyMap = map[string]string{
	"og:title":               "headline",
	"og:description":         "abstract",
	"og:image":               "thumbnailUrl",
	"og:image:alt":           "imageAlt",
	"og:site_name":           "publisher",
	"og:type":                "articleType",
	"og:updated_time":        "dateModified",
	"og:published_time":      "datePublished",
	"og:author":              "author",
	"al:web:url":             "url",
	"article:modified_time":  "dateModified",
	"article:published_time": "datePublished",
	"article:author":         "author",
}

// FallbackAttributes derives a flat attribute map from Open-Graph-style meta
// tags, used when structured data is absent or incomplete. Returns nil when
// the page carries no mappable tags.
func (e *Extractor) FallbackAttributes(ctx context.Context, url string) (map[string]string, error) {
	resp, err := e.plain.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := resp.Document()
	if err != nil {
		e.logger.Warn("document parse failed", "url", url, "error", err)
		return nil, nil
	}

	attrs := make(map[string]string)
	doc.Find(`meta[property]`).Each(func(_ int, sel *goquery.Selection) {
		property, _ := sel.Attr("property")
		content, _ := sel.Attr("content")
		if property == "" || content == "" {
			return
		}
		key, ok := ogKeyMap[property]
		if !ok {
			// Non-article descriptors (app IDs, locale alternates) are
			// deliberately stripped.
			return
		}
		if _, exists := attrs[key]; !exists {
			attrs[key] = strings.TrimSpace(content)
		}
	})

	if len(attrs) == 0 {
		return nil, nil
	}
	return attrs, nil
}
