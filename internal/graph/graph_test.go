package graph

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/newsgraph-io/newsgraph/internal/extract"
	"github.com/newsgraph-io/newsgraph/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const testNamespace = "http://newsgraph.io"

// fakeSource returns canned extraction results.
type fakeSource struct {
	structured    map[string]any
	structuredErr error
	fallback      map[string]string
	text          *extract.TextData
	textErr       error
}

func (f *fakeSource) StructuredData(ctx context.Context, url string) (map[string]any, error) {
	if f.structuredErr != nil {
		return nil, f.structuredErr
	}
	return f.structured, nil
}

func (f *fakeSource) FallbackAttributes(ctx context.Context, url string) (map[string]string, error) {
	return f.fallback, nil
}

func (f *fakeSource) PlainText(ctx context.Context, url string) (*extract.TextData, error) {
	if f.textErr != nil {
		return nil, f.textErr
	}
	if f.text != nil {
		return f.text, nil
	}
	return &extract.TextData{}, nil
}

// fakeLookup records lookups and returns canned enrichment attributes.
type fakeLookup struct {
	persons map[string]map[string]string
	orgs    map[string]map[string]string
	asked   []string
}

func (f *fakeLookup) Person(ctx context.Context, name string) (map[string]string, error) {
	f.asked = append(f.asked, "person:"+name)
	return f.persons[name], nil
}

func (f *fakeLookup) Organization(ctx context.Context, name string) (map[string]string, error) {
	f.asked = append(f.asked, "org:"+name)
	return f.orgs[name], nil
}

// --- Statement set ---

func TestSetAddDeduplicates(t *testing.T) {
	set := NewSet()
	set.Add("s", "p", Literal("v"))
	set.Add("s", "p", Literal("v"))
	if set.Len() != 1 {
		t.Errorf("expected 1 statement, got %d", set.Len())
	}
}

func TestSetReplace(t *testing.T) {
	set := NewSet()
	set.Add("s", "p", IntLiteral(100))
	set.Add("s", "other", Literal("keep"))
	set.Replace("s", "p", IntLiteral(200))
	set.Replace("s", "p", IntLiteral(200))

	objs := set.Objects("s", "p")
	if len(objs) != 1 || objs[0].Value != "200" {
		t.Errorf("expected single replaced value 200, got %v", objs)
	}
	if !set.Has("s", "other") {
		t.Error("unrelated statement removed")
	}
}

func TestSetTurtle(t *testing.T) {
	set := NewSet()
	set.Add("http://example.com/a", SchemaNS+"headline", Literal(`He said "hi"`))
	set.Add("http://example.com/a", SchemaNS+"wordCount", IntLiteral(42))
	set.Add("http://example.com/a", SchemaNS+"author", Ref("http://newsgraph.io/author/Jo"))

	turtle := set.Turtle()
	wants := []string{
		`<http://example.com/a> <http://schema.org/headline> "He said \"hi\"" .`,
		`<http://example.com/a> <http://schema.org/wordCount> "42"^^<http://www.w3.org/2001/XMLSchema#integer> .`,
		`<http://example.com/a> <http://schema.org/author> <http://newsgraph.io/author/Jo> .`,
	}
	for _, want := range wants {
		if !strings.Contains(turtle, want) {
			t.Errorf("turtle missing %q:\n%s", want, turtle)
		}
	}
}

// --- Node identifiers ---

func TestEntityURINamed(t *testing.T) {
	uri := EntityURI(testNamespace, "author", map[string]any{"name": "John Doe"})
	if uri != "http://newsgraph.io/author/John_Doe" {
		t.Errorf("unexpected URI: %s", uri)
	}
}

func TestEntityURIString(t *testing.T) {
	uri := EntityURI(testNamespace, "testKey", "Simple String")
	if uri != "http://newsgraph.io/testKey/Simple_String" {
		t.Errorf("unexpected URI: %s", uri)
	}
}

func TestEntityURIAbsoluteURLReused(t *testing.T) {
	uri := EntityURI(testNamespace, "image", "https://cdn.example.com/pic.jpg")
	if uri != "https://cdn.example.com/pic.jpg" {
		t.Errorf("supplied URL should be reused verbatim, got %s", uri)
	}
}

func TestEntityURISuppliedIDWinsOverName(t *testing.T) {
	item := map[string]any{
		"@id":  "https://example.com/people/jane",
		"name": "Jane Smith",
	}
	if uri := EntityURI(testNamespace, "author", item); uri != "https://example.com/people/jane" {
		t.Errorf("supplied @id must be reused verbatim, never regenerated, got %s", uri)
	}

	item = map[string]any{
		"url":  "https://example.com/people/jane",
		"name": "Jane Smith",
	}
	if uri := EntityURI(testNamespace, "author", item); uri != "https://example.com/people/jane" {
		t.Errorf("supplied url must win over slug generation, got %s", uri)
	}
}

func TestEntityURIAnonymousStable(t *testing.T) {
	item := map[string]any{"height": 100.0, "width": 200.0}
	a := EntityURI(testNamespace, "image", item)
	b := EntityURI(testNamespace, "image", item)
	if a != b {
		t.Errorf("anonymous URIs should be stable: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "http://newsgraph.io/image/") {
		t.Errorf("unexpected prefix: %s", a)
	}
}

// --- Builder walk ---

const articleURL = "http://example.com/article"

func newTestBuilder(source MetadataSource, lookup EntityLookup) *Builder {
	return New(source, lookup, testNamespace, testLogger())
}

func TestBuildArticleWithEntities(t *testing.T) {
	source := &fakeSource{
		structured: map[string]any{
			"@type":    "NewsArticle",
			"headline": "A",
			"author":   map[string]any{"name": "B", "@type": "Person"},
			"keywords": []any{"x", "y"},
			"ignored":  "junk",
		},
		text: &extract.TextData{Content: "one two three", LanguageCode: "en", LanguageName: "English"},
	}
	lookup := &fakeLookup{persons: map[string]map[string]string{
		"B": {"nationality": "British", "jobTitle": "Journalist"},
	}}
	b := newTestBuilder(source, lookup)

	set, err := b.Build(context.Background(), articleURL)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	authorNode := testNamespace + "/author/B"
	if objs := set.Objects(articleURL, SchemaNS+"author"); len(objs) != 1 || !objs[0].IRI || objs[0].Value != authorNode {
		t.Errorf("expected author link to %s, got %v", authorNode, objs)
	}
	if objs := set.Objects(authorNode, SchemaNS+"@type"); len(objs) != 1 || objs[0].Value != "Person" {
		t.Errorf("expected Person discriminant, got %v", objs)
	}
	if objs := set.Objects(authorNode, SchemaNS+"nationality"); len(objs) != 1 || objs[0].Value != "British" {
		t.Errorf("expected enrichment gap-fill, got %v", objs)
	}

	keywords := set.Objects(articleURL, SchemaNS+"keywords")
	found := map[string]bool{}
	for _, o := range keywords {
		found[o.Value] = true
	}
	if !found["x"] || !found["y"] {
		t.Errorf("expected keywords x and y, got %v", keywords)
	}

	if set.Has(articleURL, SchemaNS+"ignored") {
		t.Error("keys outside the allow-list must be ignored")
	}
}

func TestBuildSharesEntityNodesAcrossArticles(t *testing.T) {
	author := map[string]any{"name": "Jane Smith", "@type": "Person"}
	first := &fakeSource{
		structured: map[string]any{"@type": "Article", "headline": "A", "author": author},
		text:       &extract.TextData{Content: "body"},
	}
	second := &fakeSource{
		structured: map[string]any{"@type": "Article", "headline": "B", "author": author},
		text:       &extract.TextData{Content: "body"},
	}

	setA, err := newTestBuilder(first, nil).Build(context.Background(), "http://example.com/article-1")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	setB, err := newTestBuilder(second, nil).Build(context.Background(), "http://example.com/article-2")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	nodesA := setA.Objects("http://example.com/article-1", SchemaNS+"author")
	nodesB := setB.Objects("http://example.com/article-2", SchemaNS+"author")
	if len(nodesA) != 1 || len(nodesB) != 1 {
		t.Fatalf("expected one author node per article, got %v and %v", nodesA, nodesB)
	}
	if nodesA[0].Value != nodesB[0].Value {
		t.Errorf("the same author must share one node across articles: %s vs %s",
			nodesA[0].Value, nodesB[0].Value)
	}
	if strings.Contains(nodesA[0].Value, "example.com/article") {
		t.Errorf("entity nodes must not be minted under the article URL: %s", nodesA[0].Value)
	}
}

func TestBuildEnrichmentNeverOverwrites(t *testing.T) {
	source := &fakeSource{
		structured: map[string]any{
			"@type":    "Article",
			"headline": "A",
			"author":   map[string]any{"name": "B", "@type": "Person", "nationality": "Irish"},
		},
		text: &extract.TextData{Content: "words here"},
	}
	lookup := &fakeLookup{persons: map[string]map[string]string{
		"B": {"nationality": "British"},
	}}
	b := newTestBuilder(source, lookup)

	set, err := b.Build(context.Background(), articleURL)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	objs := set.Objects(testNamespace+"/author/B", SchemaNS+"nationality")
	if len(objs) != 1 || objs[0].Value != "Irish" {
		t.Errorf("declared attribute must win over enrichment, got %v", objs)
	}
}

func TestBuildPublisherDefaultsToOrganization(t *testing.T) {
	source := &fakeSource{
		structured: map[string]any{
			"@type":     "Article",
			"headline":  "A",
			"publisher": map[string]any{"name": "Example News"},
		},
		text: &extract.TextData{Content: "body words"},
	}
	lookup := &fakeLookup{}
	b := newTestBuilder(source, lookup)

	set, err := b.Build(context.Background(), articleURL)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	node := testNamespace + "/publisher/Example_News"
	if objs := set.Objects(node, SchemaNS+"@type"); len(objs) != 1 || objs[0].Value != "Organization" {
		t.Errorf("publisher should default to Organization, got %v", objs)
	}
	if len(lookup.asked) != 1 || lookup.asked[0] != "org:Example News" {
		t.Errorf("expected organization lookup, got %v", lookup.asked)
	}
}

func TestBuildMediaAllowList(t *testing.T) {
	source := &fakeSource{
		structured: map[string]any{
			"@type":    "Article",
			"headline": "A",
			"image": map[string]any{
				"@type":   "ImageObject",
				"url":     "https://example.com/pic.jpg",
				"height":  100.0,
				"width":   200.0,
				"caption": "a picture",
				"author":  "should not appear on the image node",
			},
		},
		text: &extract.TextData{Content: "body"},
	}
	b := newTestBuilder(source, nil)

	set, err := b.Build(context.Background(), articleURL)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	links := set.Objects(articleURL, SchemaNS+"image")
	if len(links) != 1 || !links[0].IRI {
		t.Fatalf("expected one image node link, got %v", links)
	}
	node := links[0].Value

	if objs := set.Objects(node, SchemaNS+"height"); len(objs) != 1 || objs[0].Value != "100" || objs[0].Datatype == "" {
		t.Errorf("expected typed height literal, got %v", objs)
	}
	if set.Has(node, SchemaNS+"author") {
		t.Error("media allow-list must drop non-media keys")
	}
	if objs := set.Objects(node, SchemaNS+"url"); len(objs) != 1 {
		t.Errorf("expected url kept on media node, got %v", objs)
	}
}

func TestBuildVideoVariantKeys(t *testing.T) {
	source := &fakeSource{
		structured: map[string]any{
			"@type":    "VideoObject",
			"headline": "A",
			"video": map[string]any{
				"@type":          "VideoObject",
				"contentUrl":     "https://example.com/clip.mp4",
				"director":       "C",
				"videoFrameSize": "1920x1080",
				"videoQuality":   "HD",
				"keywords":       "not a video field",
			},
		},
		text: &extract.TextData{Content: "body"},
	}
	b := newTestBuilder(source, nil)

	set, err := b.Build(context.Background(), articleURL)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	links := set.Objects(articleURL, SchemaNS+"video")
	if len(links) != 1 || !links[0].IRI {
		t.Fatalf("expected one video node link, got %v", links)
	}
	node := links[0].Value

	if objs := set.Objects(node, SchemaNS+"director"); len(objs) != 1 || objs[0].Value != "C" {
		t.Errorf("expected director on video node, got %v", objs)
	}
	if objs := set.Objects(node, SchemaNS+"videoFrameSize"); len(objs) != 1 || objs[0].Value != "1920x1080" {
		t.Errorf("expected frame size on video node, got %v", objs)
	}
	if set.Has(node, SchemaNS+"keywords") {
		t.Error("video allow-list must drop non-video keys")
	}
}

func TestBuildInLanguageExpanded(t *testing.T) {
	source := &fakeSource{
		structured: map[string]any{
			"@type":      "Article",
			"headline":   "A",
			"inLanguage": "en",
		},
		text: &extract.TextData{Content: "body"},
	}
	b := newTestBuilder(source, nil)

	set, err := b.Build(context.Background(), articleURL)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	objs := set.Objects(articleURL, SchemaNS+"inLanguage")
	if len(objs) != 1 || objs[0].Value != "English" {
		t.Errorf("expected code expanded to display name, got %v", objs)
	}
}

func TestBuildNoStructuredDataStillBuilds(t *testing.T) {
	source := &fakeSource{
		structuredErr: types.ErrNoStructured,
		fallback:      map[string]string{"headline": "From OG"},
		text:          &extract.TextData{Content: "some body text"},
	}
	b := newTestBuilder(source, nil)

	set, err := b.Build(context.Background(), articleURL)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if objs := set.Objects(articleURL, SchemaNS+"headline"); len(objs) != 1 || objs[0].Value != "From OG" {
		t.Errorf("expected fallback headline, got %v", objs)
	}
}

func TestBuildEmptyPage(t *testing.T) {
	source := &fakeSource{structuredErr: types.ErrNoStructured}
	b := newTestBuilder(source, nil)

	_, err := b.Build(context.Background(), articleURL)
	if err != types.ErrEmptyGraph {
		t.Errorf("expected ErrEmptyGraph, got %v", err)
	}
}

func TestFallbackReplacesTruncatedValue(t *testing.T) {
	source := &fakeSource{
		structured: map[string]any{
			"@type":          "Article",
			"headline":       "A very long headl...",
			"abstract":       "Short teaser",
			"articleSection": "World News and International Affairs",
		},
		fallback: map[string]string{
			"headline":       "A very long headline that was cut short upstream",
			"abstract":       "A much longer and complete abstract of the story",
			"articleSection": "World",
		},
		text: &extract.TextData{Content: "body"},
	}
	b := newTestBuilder(source, nil)

	set, err := b.Build(context.Background(), articleURL)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	headlines := set.Objects(articleURL, SchemaNS+"headline")
	if len(headlines) != 1 || headlines[0].Value != "A very long headline that was cut short upstream" {
		t.Errorf("ellipsis-truncated headline should be replaced, got %v", headlines)
	}
	abstracts := set.Objects(articleURL, SchemaNS+"abstract")
	if len(abstracts) != 1 || abstracts[0].Value != "A much longer and complete abstract of the story" {
		t.Errorf("strictly shorter values should be replaced, got %v", abstracts)
	}
	sections := set.Objects(articleURL, SchemaNS+"articleSection")
	if len(sections) != 1 || sections[0].Value != "World News and International Affairs" {
		t.Errorf("fuller stored values must be kept, got %v", sections)
	}
}

// --- Derived facts ---

func TestAddDerivedFactsIdempotentWordCount(t *testing.T) {
	source := &fakeSource{
		structured: map[string]any{
			"@type":     "Article",
			"headline":  "A",
			"wordCount": 9999.0,
		},
		text: &extract.TextData{
			Content:      "one two three four five",
			LanguageName: "English",
			Keywords:     []string{"one"},
		},
	}
	b := newTestBuilder(source, nil)

	set, err := b.Build(context.Background(), articleURL)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := b.AddDerivedFacts(context.Background(), set, articleURL); err != nil {
		t.Fatalf("AddDerivedFacts: %v", err)
	}

	counts := set.Objects(articleURL, SchemaNS+"wordCount")
	if len(counts) != 1 {
		t.Fatalf("expected exactly one wordCount statement, got %d", len(counts))
	}
	if counts[0].Value != "5" {
		t.Errorf("wordCount must come from extracted text, got %s", counts[0].Value)
	}
}
