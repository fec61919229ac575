package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/newsgraph-io/newsgraph/internal/config"
	"github.com/newsgraph-io/newsgraph/internal/types"
)

// writingOccupations is the vocabulary used to disambiguate people who share
// a name with non-journalists. A result whose occupation matches is preferred
// over earlier non-matching results.
var writingOccupations = map[string]bool{
	"journalist":     true,
	"reporter":       true,
	"writer":         true,
	"author":         true,
	"columnist":      true,
	"editor":         true,
	"correspondent":  true,
	"news presenter": true,
	"broadcaster":    true,
	"commentator":    true,
	"blogger":        true,
}

const personQuery = `SELECT ?entity ?entityLabel ?nationalityLabel ?occupationLabel
       ?birthDate ?birthPlaceLabel ?deathDate ?deathPlaceLabel
       ?affiliationLabel ?genderLabel WHERE {
  ?entity rdfs:label %q@en.
  OPTIONAL { ?entity wdt:P27 ?nationality. }
  OPTIONAL { ?entity wdt:P106 ?occupation. }
  OPTIONAL { ?entity wdt:P569 ?birthDate. }
  OPTIONAL { ?entity wdt:P19 ?birthPlace. }
  OPTIONAL { ?entity wdt:P20 ?deathPlace. }
  OPTIONAL { ?entity wdt:P570 ?deathDate. }
  OPTIONAL { ?entity wdt:P108 ?affiliation. }
  OPTIONAL { ?entity wdt:P21 ?gender. }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
}
LIMIT 10`

const organizationQuery = `SELECT ?entity ?entityLabel ?industryLabel ?foundingDate
       ?headquartersLocationLabel ?ceoLabel ?officialWebsite ?publishingPrinciples WHERE {
  ?entity rdfs:label %q@en;
          wdt:P31 wd:Q43229;
          wdt:P452 ?industry;
          wdt:P571 ?foundingDate;
          wdt:P159 ?headquartersLocation;
          wdt:P1323 ?ceo;
          wdt:P856 ?officialWebsite.
  OPTIONAL { ?entity wdt:P1454 ?publishingPrinciples. }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
}
LIMIT 1`

// binding is one row of a SPARQL JSON result set.
type binding map[string]struct {
	Value string `json:"value"`
}

func (b binding) value(key string) string {
	return b[key].Value
}

// Enricher looks up people and organizations in Wikidata. Lookups are
// best-effort: no match, network trouble, and malformed responses all come
// back as a nil map with the error for logging, never as a hard failure.
type Enricher struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// New creates an Enricher, or nil when enrichment is disabled.
func New(cfg *config.Config, logger *slog.Logger) *Enricher {
	if !cfg.Enrichment.Enabled {
		return nil
	}
	return &Enricher{
		endpoint: cfg.Enrichment.Endpoint,
		client:   &http.Client{Timeout: cfg.Enrichment.Timeout},
		logger:   logger.With("component", "enricher"),
	}
}

// Person returns enrichment attributes for a person by exact label match.
// Rows whose occupation matches the writing vocabulary are preferred; when
// none match, the first row wins. The occupation maps to the jobTitle
// attribute.
func (e *Enricher) Person(ctx context.Context, name string) (map[string]string, error) {
	rows, err := e.query(ctx, name, fmt.Sprintf(personQuery, name))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	for _, candidate := range rows {
		if writingOccupations[strings.ToLower(candidate.value("occupationLabel"))] {
			row = candidate
			break
		}
	}

	return compact(map[string]string{
		"nationality": row.value("nationalityLabel"),
		"jobTitle":    row.value("occupationLabel"),
		"birthDate":   row.value("birthDate"),
		"birthPlace":  row.value("birthPlaceLabel"),
		"deathDate":   row.value("deathDate"),
		"deathPlace":  row.value("deathPlaceLabel"),
		"affiliation": row.value("affiliationLabel"),
		"gender":      row.value("genderLabel"),
	}), nil
}

// Organization returns enrichment attributes for an organization by exact
// label match, restricted to entities typed as organizations.
func (e *Enricher) Organization(ctx context.Context, name string) (map[string]string, error) {
	rows, err := e.query(ctx, name, fmt.Sprintf(organizationQuery, name))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	return compact(map[string]string{
		"industry":             row.value("industryLabel"),
		"foundingDate":         row.value("foundingDate"),
		"headquartersLocation": row.value("headquartersLocationLabel"),
		"CEO":                  row.value("ceoLabel"),
		"officialWebsite":      row.value("officialWebsite"),
		"publishingPrinciples": row.value("publishingPrinciples"),
	}), nil
}

// query performs the GET round trip and decodes the binding rows.
func (e *Enricher) query(ctx context.Context, entity, sparql string) ([]binding, error) {
	params := url.Values{}
	params.Set("query", sparql)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &types.EnrichError{Entity: entity, Err: err}
	}
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &types.EnrichError{Entity: entity, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &types.EnrichError{
			Entity: entity,
			Err:    fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.EnrichError{Entity: entity, Err: err}
	}

	var result struct {
		Results struct {
			Bindings []binding `json:"bindings"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &types.EnrichError{Entity: entity, Err: err}
	}

	e.logger.Debug("knowledge base queried", "entity", entity, "rows", len(result.Results.Bindings))
	return result.Results.Bindings, nil
}

func compact(m map[string]string) map[string]string {
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
