package types

// EntityRecord is the flattened JSON shape an author, editor, or publisher
// takes inside an article record: the entity's attributes plus the @type
// discriminant.
type EntityRecord struct {
	Name                 string `json:"name,omitempty"`
	Type                 string `json:"@type,omitempty"`
	Address              string `json:"address,omitempty"`
	Affiliation          string `json:"affiliation,omitempty"`
	BirthDate            string `json:"birthDate,omitempty"`
	BirthPlace           string `json:"birthPlace,omitempty"`
	DeathDate            string `json:"deathDate,omitempty"`
	DeathPlace           string `json:"deathPlace,omitempty"`
	Email                string `json:"email,omitempty"`
	FamilyName           string `json:"familyName,omitempty"`
	Gender               string `json:"gender,omitempty"`
	GivenName            string `json:"givenName,omitempty"`
	JobTitle             string `json:"jobTitle,omitempty"`
	Nationality          string `json:"nationality,omitempty"`
	PublishingPrinciples string `json:"publishingPrinciples,omitempty"`
}

// Article is the nested record reconstructed from the triple store for a
// single article URL. The canonical URL doubles as the graph node identifier.
type Article struct {
	Context        string         `json:"@context"`
	Type           string         `json:"@type,omitempty"`
	URL            string         `json:"url"`
	Headline       string         `json:"headline,omitempty"`
	Abstract       string         `json:"abstract,omitempty"`
	ArticleBody    string         `json:"articleBody,omitempty"`
	ArticleSection string         `json:"articleSection,omitempty"`
	WordCount      int            `json:"wordCount,omitempty"`
	InLanguage     string         `json:"inLanguage,omitempty"`
	Keywords       []string       `json:"keywords"`
	DateCreated    string         `json:"dateCreated,omitempty"`
	DatePublished  string         `json:"datePublished,omitempty"`
	DateModified   string         `json:"dateModified,omitempty"`
	ThumbnailURL   string         `json:"thumbnailUrl,omitempty"`
	Thumbnail      *ImageObject   `json:"thumbnail,omitempty"`
	Author         []EntityRecord `json:"author"`
	Publisher      []EntityRecord `json:"publisher"`
	Editor         []EntityRecord `json:"editor"`
	Image          []ImageObject  `json:"image"`
	Audio          []AudioObject  `json:"audio"`
	Video          []VideoObject  `json:"video"`
}

// NewArticle returns an Article with the schema.org context and empty,
// non-nil collections so the JSON shape is stable.
func NewArticle(url string) *Article {
	return &Article{
		Context:   "http://schema.org",
		URL:       url,
		Keywords:  []string{},
		Author:    []EntityRecord{},
		Publisher: []EntityRecord{},
		Editor:    []EntityRecord{},
		Image:     []ImageObject{},
		Audio:     []AudioObject{},
		Video:     []VideoObject{},
	}
}

// SearchHit is the flat row shape returned by keyword and faceted searches.
type SearchHit struct {
	URL           string   `json:"url"`
	Headline      string   `json:"headline"`
	Abstract      string   `json:"abstract,omitempty"`
	Author        string   `json:"author,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	DatePublished string   `json:"datePublished,omitempty"`
	ThumbnailURL  string   `json:"thumbnailUrl,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
}

// MatchKind reports whether a search result set came from the exact
// (conjunctive) pass or the partial (disjunctive) fallback.
type MatchKind string

const (
	MatchExact   MatchKind = "exact"
	MatchPartial MatchKind = "partial"
)
