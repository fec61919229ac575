package graph

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/newsgraph-io/newsgraph/internal/extract"
	"github.com/newsgraph-io/newsgraph/internal/types"
)

// articleKeys is the allow-list of structured-data keys considered
// article-relevant at the top level. Everything else is ignored.
var articleKeys = []string{
	"articleBody", "articleSection", "wordCount", "abstract",
	"audio", "author", "editor", "publisher", "image", "video",
	"@type", "dateCreated", "datePublished", "dateModified",
	"headline", "inLanguage", "keywords", "thumbnailUrl", "thumbnail",
}

// mediaKeys returns the allow-list for a nested media object. The lists
// narrow at each level, which is what makes the walk terminate.
func mediaKeys(key string) []string {
	base := []string{"contentUrl", "duration", "embedUrl", "height", "uploadDate", "width"}
	switch key {
	case "image", "thumbnail":
		return append(base, "caption", "embeddedTextCaption", "@type")
	case "audio":
		return append(base, "caption", "transcript", "@type")
	case "video":
		return append(base, "caption", "director", "transcript", "videoFrameSize", "videoQuality", "@type")
	}
	return nil
}

// entityRoles are the keys whose dictionary values describe a person or
// organization rather than a media object.
var entityRoles = map[string]bool{"author": true, "editor": true, "publisher": true}

// MetadataSource supplies the three extraction views of a page.
type MetadataSource interface {
	StructuredData(ctx context.Context, url string) (map[string]any, error)
	FallbackAttributes(ctx context.Context, url string) (map[string]string, error)
	PlainText(ctx context.Context, url string) (*extract.TextData, error)
}

// EntityLookup supplies best-effort knowledge-base attributes for entities.
type EntityLookup interface {
	Person(ctx context.Context, name string) (map[string]string, error)
	Organization(ctx context.Context, name string) (map[string]string, error)
}

// Builder turns one article page into a statement set. Each Build call
// constructs and returns its own set; builders hold no per-article state.
type Builder struct {
	source MetadataSource
	lookup EntityLookup
	// namespace is the fixed prefix under which entity nodes are minted,
	// so the same person or organization resolves to the same node across
	// articles.
	namespace string
	logger    *slog.Logger
}

// New creates a Builder. lookup may be nil to disable enrichment.
func New(source MetadataSource, lookup EntityLookup, namespace string, logger *slog.Logger) *Builder {
	return &Builder{
		source:    source,
		lookup:    lookup,
		namespace: strings.TrimRight(namespace, "/"),
		logger:    logger.With("component", "graph-builder"),
	}
}

// Build extracts the page and emits its full statement set: the structured
// data walk, the fallback attribute pass, and the derived fact passes.
// A page with no structured data still builds from fallback and derived
// facts; a page yielding no statements at all is ErrEmptyGraph.
func (b *Builder) Build(ctx context.Context, url string) (*Set, error) {
	set := NewSet()

	record, err := b.source.StructuredData(ctx, url)
	switch {
	case errors.Is(err, types.ErrNoStructured):
		b.logger.Info("no structured data, building from fallback", "url", url)
	case err != nil:
		return nil, err
	default:
		b.walk(ctx, set, url, record, articleKeys)
	}

	attrs, err := b.source.FallbackAttributes(ctx, url)
	if err != nil {
		b.logger.Warn("fallback attribute extraction failed", "url", url, "error", err)
	} else {
		b.insertFallback(set, url, attrs)
	}

	if err := b.AddDerivedFacts(ctx, set, url); err != nil {
		return nil, err
	}

	if set.Len() == 0 {
		return nil, types.ErrEmptyGraph
	}
	return set, nil
}

// walk processes one node of the structured-data tree against its
// allow-list, recursing into media objects with their narrower lists and
// dispatching entity roles to the entity path.
func (b *Builder) walk(ctx context.Context, set *Set, subject string, node map[string]any, allowed []string) {
	for _, key := range allowed {
		value, ok := node[key]
		if !ok || value == nil {
			continue
		}
		switch {
		case entityRoles[key]:
			b.insertEntityValue(ctx, set, subject, key, value)
		case mediaKeys(key) != nil:
			b.insertMediaValue(set, subject, key, value)
		default:
			b.insertScalarValue(set, subject, key, value)
		}
	}
}

// insertScalarValue emits direct statements for scalar and list values.
// inLanguage codes are expanded to display names; list elements that are
// absolute URLs become references instead of literals.
func (b *Builder) insertScalarValue(set *Set, subject, key string, value any) {
	pred := SchemaNS + key
	switch v := value.(type) {
	case string:
		if key == "inLanguage" {
			v = displayLanguage(v)
		}
		set.Add(subject, pred, Literal(v))
	case float64:
		set.Add(subject, pred, numberObject(v))
	case bool:
		set.Add(subject, pred, Literal(strconv.FormatBool(v)))
	case []any:
		for _, item := range v {
			switch e := item.(type) {
			case string:
				if IsAbsoluteURL(e) {
					set.Add(subject, pred, Ref(e))
				} else {
					set.Add(subject, pred, Literal(e))
				}
			case float64:
				set.Add(subject, pred, numberObject(e))
			}
		}
	}
}

// insertMediaValue links a media object node and recurses with the
// variant-specific allow-list. Bare string values are stored directly.
func (b *Builder) insertMediaValue(set *Set, subject, key string, value any) {
	pred := SchemaNS + key
	switch v := value.(type) {
	case string:
		if IsAbsoluteURL(v) {
			set.Add(subject, pred, Ref(v))
		} else {
			set.Add(subject, pred, Literal(v))
		}
	case map[string]any:
		node := EntityURI(subject, key, v)
		set.Add(subject, pred, Ref(node))
		b.insertMediaNode(set, node, key, v)
	case []any:
		for _, item := range v {
			b.insertMediaValue(set, subject, key, item)
		}
	}
}

func (b *Builder) insertMediaNode(set *Set, node, key string, value map[string]any) {
	for _, field := range mediaKeys(key) {
		raw, ok := value[field]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case string:
			set.Add(node, SchemaNS+field, Literal(v))
		case float64:
			set.Add(node, SchemaNS+field, numberObject(v))
		}
	}
	// url survives as a plain field so records can be rebuilt with a
	// browsable location even though it is not walked recursively.
	if u, ok := value["url"].(string); ok && u != "" {
		set.Add(node, SchemaNS+"url", Literal(u))
	}
}

// insertEntityValue handles author/editor/publisher values in all the
// shapes pages declare them: a single object, a list, or a bare name.
func (b *Builder) insertEntityValue(ctx context.Context, set *Set, subject, role string, value any) {
	pred := SchemaNS + role
	switch v := value.(type) {
	case string:
		if IsAbsoluteURL(v) {
			set.Add(subject, pred, Ref(v))
		} else {
			set.Add(subject, pred, Literal(v))
		}
	case map[string]any:
		b.insertEntity(ctx, set, subject, role, v)
	case []any:
		for _, item := range v {
			b.insertEntityValue(ctx, set, subject, role, item)
		}
	}
}

// insertEntity emits the entity node, its declared attributes, and any
// enrichment attributes not already present. The entity's kind comes from
// the nested type discriminant; publishers default to Organization, other
// roles to Person.
func (b *Builder) insertEntity(ctx context.Context, set *Set, subject, role string, item map[string]any) {
	node := EntityURI(b.namespace, role, item)
	set.Add(subject, SchemaNS+role, Ref(node))

	entity := buildEntity(entityKind(role, item), item)
	set.Add(node, SchemaNS+"@type", Literal(string(entity.Kind)))
	for key, value := range entity.Attributes() {
		set.Add(node, SchemaNS+key, Literal(value))
	}

	b.enrich(ctx, set, node, entity)
}

// enrich fills attribute gaps from the knowledge base. Declared attributes
// always win; lookup failures degrade to no enrichment.
func (b *Builder) enrich(ctx context.Context, set *Set, node string, entity types.Entity) {
	if b.lookup == nil {
		return
	}
	name := entity.Name()
	if name == "" {
		return
	}

	var attrs map[string]string
	var err error
	switch entity.Kind {
	case types.KindPerson:
		attrs, err = b.lookup.Person(ctx, name)
	case types.KindOrganization:
		attrs, err = b.lookup.Organization(ctx, name)
	}
	if err != nil {
		b.logger.Debug("enrichment lookup failed", "entity", name, "error", err)
		return
	}

	for key, value := range attrs {
		if !set.Has(node, SchemaNS+key) {
			set.Add(node, SchemaNS+key, Literal(value))
		}
	}
}

// entityKind resolves Person vs Organization from the type discriminant,
// defaulting by role when the page declares neither.
func entityKind(role string, item map[string]any) types.EntityKind {
	switch t := item["@type"].(type) {
	case string:
		if t == string(types.KindOrganization) {
			return types.KindOrganization
		}
		if t == string(types.KindPerson) {
			return types.KindPerson
		}
	}
	if role == "publisher" {
		return types.KindOrganization
	}
	return types.KindPerson
}

// buildEntity maps the declared fields into the tagged entity variant.
func buildEntity(kind types.EntityKind, item map[string]any) types.Entity {
	str := func(key string) string {
		s, _ := item[key].(string)
		return s
	}
	if kind == types.KindOrganization {
		return types.NewOrganizationEntity(&types.Organization{
			Name:                 str("name"),
			Address:              str("address"),
			PublishingPrinciples: str("publishingPrinciples"),
		})
	}
	return types.NewPersonEntity(&types.Person{
		Name:        str("name"),
		Address:     str("address"),
		Affiliation: str("affiliation"),
		BirthDate:   str("birthDate"),
		BirthPlace:  str("birthPlace"),
		DeathDate:   str("deathDate"),
		DeathPlace:  str("deathPlace"),
		Email:       str("email"),
		FamilyName:  str("familyName"),
		Gender:      str("gender"),
		GivenName:   str("givenName"),
		JobTitle:    str("jobTitle"),
		Nationality: str("nationality"),
	})
}

// insertFallback adds attribute-map statements for predicates the
// structured walk left unset. One exception: when the stored value is a
// truncated teaser of the fallback value, the fuller value replaces it.
func (b *Builder) insertFallback(set *Set, url string, attrs map[string]string) {
	for key, value := range attrs {
		pred := SchemaNS + key
		existing := set.Objects(url, pred)
		if len(existing) == 0 {
			set.Add(url, pred, Literal(value))
			continue
		}
		if len(existing) == 1 && truncates(existing[0].Value, value) {
			set.Replace(url, pred, Literal(value))
		}
	}
}

// truncates reports whether stored should yield to full: the stored value
// is a cut-off teaser (ellipsis suffix) or strictly shorter than the
// fuller value.
func truncates(stored, full string) bool {
	if strings.HasSuffix(stored, "...") || strings.HasSuffix(stored, "…") {
		return true
	}
	return len(full) > len(stored)
}

// AddDerivedFacts runs the plain-text passes: article body, word count,
// language, and keywords. The word count always reflects the extracted
// text, replacing any value taken from page metadata, and repeated runs
// leave exactly one word-count statement.
func (b *Builder) AddDerivedFacts(ctx context.Context, set *Set, url string) error {
	text, err := b.source.PlainText(ctx, url)
	if err != nil {
		return err
	}

	if text.Content != "" {
		set.Add(url, SchemaNS+"articleBody", Literal(text.Content))
		set.Replace(url, SchemaNS+"wordCount", IntLiteral(len(strings.Fields(text.Content))))
	}
	if text.LanguageName != "" && text.LanguageName != "Unknown language" {
		set.Add(url, SchemaNS+"inLanguage", Literal(text.LanguageName))
	}
	for _, kw := range text.Keywords {
		set.Add(url, SchemaNS+"keywords", Literal(kw))
	}
	return nil
}

// displayLanguage expands a language code to its display name, keeping the
// original value when it does not parse as a code.
func displayLanguage(v string) string {
	if name := extract.LanguageName(v); name != "Unknown language" {
		return name
	}
	return v
}

func numberObject(v float64) Object {
	if v == float64(int(v)) {
		return IntLiteral(int(v))
	}
	return Literal(strconv.FormatFloat(v, 'f', -1, 64))
}
