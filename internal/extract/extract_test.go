package extract

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/newsgraph-io/newsgraph/internal/config"
	"github.com/newsgraph-io/newsgraph/internal/types"
)

// fakeFetcher serves canned HTML keyed by URL.
type fakeFetcher struct {
	pages   map[string]string
	headers http.Header
	fetched []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*types.Response, error) {
	f.fetched = append(f.fetched, url)
	body, ok := f.pages[url]
	if !ok {
		return nil, &types.FetchError{URL: url, StatusCode: http.StatusNotFound, Err: errors.New("HTTP 404")}
	}
	headers := f.headers
	if headers == nil {
		headers = make(http.Header)
	}
	return &types.Response{
		StatusCode: http.StatusOK,
		Headers:    headers,
		Body:       []byte(body),
		URL:        url,
		FinalURL:   url,
	}, nil
}

func (f *fakeFetcher) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestExtractor(pages map[string]string) *Extractor {
	return New(&fakeFetcher{pages: pages}, nil, config.DefaultConfig(), testLogger())
}

func jsonLDPage(blocks ...string) string {
	page := "<html><head>"
	for _, b := range blocks {
		page += `<script type="application/ld+json">` + b + `</script>`
	}
	return page + "</head><body></body></html>"
}

// --- Structured data selection ---

func TestStructuredDataFirstMatch(t *testing.T) {
	url := "https://example.com/article"
	e := newTestExtractor(map[string]string{
		url: jsonLDPage(
			`{"@type":"BreadcrumbList","name":"nav"}`,
			`{"@type":"NewsArticle","headline":"First"}`,
			`{"@type":"NewsArticle","headline":"Second"}`,
		),
	})

	record, err := e.StructuredData(context.Background(), url)
	if err != nil {
		t.Fatalf("StructuredData: %v", err)
	}
	if record["headline"] != "First" {
		t.Errorf("expected first matching record, got %v", record["headline"])
	}
}

func TestStructuredDataExactMatchWins(t *testing.T) {
	url := "https://example.com/article"
	e := newTestExtractor(map[string]string{
		url: jsonLDPage(
			`{"@type":"NewsArticle","headline":"Other","mainEntityOfPage":{"@id":"https://example.com/other"}}`,
			`{"@type":"NewsArticle","headline":"Mine","mainEntityOfPage":{"@id":"https://example.com/article"}}`,
		),
	})

	record, err := e.StructuredData(context.Background(), url)
	if err != nil {
		t.Fatalf("StructuredData: %v", err)
	}
	if record["headline"] != "Mine" {
		t.Errorf("expected exact mainEntityOfPage match, got %v", record["headline"])
	}
}

func TestStructuredDataUnwrapsGraph(t *testing.T) {
	url := "https://example.com/article"
	e := newTestExtractor(map[string]string{
		url: jsonLDPage(`{"@graph":[{"@type":"WebSite"},{"@type":"Article","headline":"Nested"}]}`),
	})

	record, err := e.StructuredData(context.Background(), url)
	if err != nil {
		t.Fatalf("StructuredData: %v", err)
	}
	if record["headline"] != "Nested" {
		t.Errorf("expected record from @graph, got %v", record["headline"])
	}
}

func TestStructuredDataSkipsMalformedBlock(t *testing.T) {
	url := "https://example.com/article"
	e := newTestExtractor(map[string]string{
		url: jsonLDPage(
			`{"@type":"BreadcrumbList","itemListElement":[{`,
			`{"@type":"NewsArticle","headline":"Valid"}`,
		),
	})

	record, err := e.StructuredData(context.Background(), url)
	if err != nil {
		t.Fatalf("StructuredData: %v", err)
	}
	if record["headline"] != "Valid" {
		t.Errorf("malformed block should not prevent the valid one, got %v", record)
	}
}

func TestStructuredDataRepairsTrailingComma(t *testing.T) {
	url := "https://example.com/article"
	e := newTestExtractor(map[string]string{
		url: jsonLDPage(`{"@type":"NewsArticle","headline":"Repaired",}`),
	})

	record, err := e.StructuredData(context.Background(), url)
	if err != nil {
		t.Fatalf("StructuredData: %v", err)
	}
	if record["headline"] != "Repaired" {
		t.Errorf("expected repaired record, got %v", record)
	}
}

func TestStructuredDataNoneMatched(t *testing.T) {
	url := "https://example.com/article"
	e := newTestExtractor(map[string]string{
		url: jsonLDPage(`{"@type":"WebSite","name":"site"}`),
	})

	_, err := e.StructuredData(context.Background(), url)
	if !errors.Is(err, types.ErrNoStructured) {
		t.Errorf("expected ErrNoStructured, got %v", err)
	}
}

func TestStructuredDataTypeList(t *testing.T) {
	url := "https://example.com/article"
	e := newTestExtractor(map[string]string{
		url: jsonLDPage(`{"@type":["Thing","BlogPosting"],"headline":"Listed"}`),
	})

	record, err := e.StructuredData(context.Background(), url)
	if err != nil {
		t.Fatalf("StructuredData: %v", err)
	}
	if record["headline"] != "Listed" {
		t.Errorf("expected list-typed record, got %v", record)
	}
}

// --- Fallback attributes ---

func TestFallbackAttributes(t *testing.T) {
	url := "https://example.com/article"
	page := `<html><head>
		<meta property="og:title" content="OG Headline"/>
		<meta property="og:description" content="OG Abstract"/>
		<meta property="og:image" content="https://example.com/img.jpg"/>
		<meta property="og:site_name" content="Example News"/>
		<meta property="article:published_time" content="2024-01-01T00:00:00Z"/>
		<meta property="fb:app_id" content="12345"/>
	</head><body></body></html>`
	e := newTestExtractor(map[string]string{url: page})

	attrs, err := e.FallbackAttributes(context.Background(), url)
	if err != nil {
		t.Fatalf("FallbackAttributes: %v", err)
	}
	want := map[string]string{
		"headline":      "OG Headline",
		"abstract":      "OG Abstract",
		"thumbnailUrl":  "https://example.com/img.jpg",
		"publisher":     "Example News",
		"datePublished": "2024-01-01T00:00:00Z",
	}
	for key, value := range want {
		if attrs[key] != value {
			t.Errorf("attrs[%q] = %q, want %q", key, attrs[key], value)
		}
	}
	if _, ok := attrs["fb:app_id"]; ok {
		t.Error("application descriptors should be stripped")
	}
}

func TestFallbackAttributesEmpty(t *testing.T) {
	url := "https://example.com/bare"
	e := newTestExtractor(map[string]string{url: "<html><head></head><body></body></html>"})

	attrs, err := e.FallbackAttributes(context.Background(), url)
	if err != nil {
		t.Fatalf("FallbackAttributes: %v", err)
	}
	if attrs != nil {
		t.Errorf("expected nil for a page without mappable tags, got %v", attrs)
	}
}

// --- Plain text ---

func TestPlainTextParagraphFallback(t *testing.T) {
	url := "https://example.com/article"
	page := `<html lang="en"><head><title>t</title></head><body>
		<nav><p>Navigation links that should never count as content here.</p></nav>
		<article>
			<p>The first paragraph of the story with enough words to matter.</p>
			<p>short</p>
			<p>The second paragraph also carries real content for readers.</p>
		</article>
	</body></html>`
	e := newTestExtractor(map[string]string{url: page})

	text, err := e.PlainText(context.Background(), url)
	if err != nil {
		t.Fatalf("PlainText: %v", err)
	}
	if text.Content == "" {
		t.Fatal("expected extracted content")
	}
	if text.LanguageCode != "en" {
		t.Errorf("expected language en, got %q", text.LanguageCode)
	}
	if text.LanguageName != "English" {
		t.Errorf("expected English, got %q", text.LanguageName)
	}
}

func TestPlainTextPropagatesFetchError(t *testing.T) {
	e := newTestExtractor(map[string]string{})
	_, err := e.PlainText(context.Background(), "https://example.com/missing")
	if err == nil {
		t.Fatal("expected fetch error to propagate")
	}
}

// --- Language detection ---

func TestDetectLanguageHeaderPriority(t *testing.T) {
	e := newTestExtractor(nil)
	headers := make(http.Header)
	headers.Set("Content-Language", "fr, en")
	resp := &types.Response{
		Headers: headers,
		Body:    []byte(`<html lang="de"><body></body></html>`),
	}

	code, name := e.detectLanguage(resp, "some content")
	if code != "fr" {
		t.Errorf("header should win, got %q", code)
	}
	if name != "French" {
		t.Errorf("expected French, got %q", name)
	}
}

func TestDetectLanguageHTMLAttr(t *testing.T) {
	e := newTestExtractor(nil)
	resp := &types.Response{
		Headers: make(http.Header),
		Body:    []byte(`<html lang="es-MX"><body></body></html>`),
	}

	code, name := e.detectLanguage(resp, "")
	if code != "es" {
		t.Errorf("expected region stripped, got %q", code)
	}
	if name != "Spanish" {
		t.Errorf("expected Spanish, got %q", name)
	}
}

func TestLanguageNameUnknown(t *testing.T) {
	if got := LanguageName("zz-bogus-tag"); got != "Unknown language" {
		t.Errorf("expected Unknown language, got %q", got)
	}
}

// --- Keywords ---

func TestExtractKeywordsMergesDeclared(t *testing.T) {
	e := newTestExtractor(nil)
	resp := &types.Response{
		Headers: make(http.Header),
		Body:    []byte(`<html><head><meta name="keywords" content="politics, Economy"/></head><body></body></html>`),
	}
	content := "economy economy economy budget budget parliament"

	keywords := e.extractKeywords(resp, content)
	if len(keywords) == 0 {
		t.Fatal("expected keywords")
	}
	if keywords[0] != "politics" {
		t.Errorf("declared keywords come first, got %v", keywords)
	}

	seen := make(map[string]int)
	for _, kw := range keywords {
		seen[kw]++
	}
	if seen["economy"] > 0 && seen["Economy"] > 0 {
		t.Errorf("case-insensitive duplicate kept: %v", keywords)
	}
}

func TestExtractKeywordsCapped(t *testing.T) {
	cfg := config.DefaultConfig()
	e := New(&fakeFetcher{}, nil, cfg, testLogger())
	resp := &types.Response{Headers: make(http.Header), Body: []byte("<html></html>")}

	content := "alpha bravo charlie delta echo foxtrot golfing hotels indigo juliet kilogram limas"
	keywords := e.extractKeywords(resp, content)
	if len(keywords) > cfg.Extract.MaxKeywords {
		t.Errorf("expected at most %d keywords, got %d", cfg.Extract.MaxKeywords, len(keywords))
	}
}
