package search

import (
	"fmt"
	"strings"

	"github.com/araddon/dateparse"
)

const xsdDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"

// Facets are the independently optional search criteria. At least one must
// be set for a faceted search to run.
type Facets struct {
	Keywords          string `json:"keywords,omitempty"`
	WordCount         int    `json:"wordcount,omitempty"`
	WordCountMin      int    `json:"wordcount_min,omitempty"`
	WordCountMax      int    `json:"wordcount_max,omitempty"`
	InLanguage        string `json:"inLanguage,omitempty"`
	AuthorName        string `json:"author_name,omitempty"`
	AuthorNationality string `json:"author_nationality,omitempty"`
	Publisher         string `json:"publisher,omitempty"`
	DatePublished     string `json:"datePublished,omitempty"`
	DatePublishedMin  string `json:"datePublished_min,omitempty"`
	DatePublishedMax  string `json:"datePublished_max,omitempty"`
}

// Empty reports whether no criterion is set.
func (f Facets) Empty() bool {
	return f.Keywords == "" && f.WordCount == 0 &&
		(f.WordCountMin == 0 || f.WordCountMax == 0) &&
		f.InLanguage == "" && f.AuthorName == "" && f.AuthorNationality == "" &&
		f.Publisher == "" && f.DatePublished == "" &&
		(f.DatePublishedMin == "" || f.DatePublishedMax == "")
}

// filters renders each set criterion as an EXISTS clause. Dates that fail
// to parse are skipped rather than aborting the search.
func (f Facets) filters() []string {
	var filters []string

	for i, keyword := range strings.Fields(f.Keywords) {
		filters = append(filters, fmt.Sprintf(
			`EXISTS { ?article schema:keywords ?keyword%d . FILTER(CONTAINS(LCASE(STR(?keyword%d)), %s)) }`,
			i, i, sparqlString(strings.ToLower(keyword))))
	}

	if f.WordCount > 0 {
		filters = append(filters, fmt.Sprintf(
			`EXISTS { ?article schema:wordCount "%d"^^<http://www.w3.org/2001/XMLSchema#integer> }`,
			f.WordCount))
	}

	if f.InLanguage != "" {
		filters = append(filters, fmt.Sprintf(
			`EXISTS { ?article schema:inLanguage %s }`, sparqlString(f.InLanguage)))
	}

	if f.AuthorName != "" {
		filters = append(filters, fmt.Sprintf(
			`EXISTS { ?authorObj schema:name %s }`, sparqlString(f.AuthorName)))
	}

	if f.AuthorNationality != "" {
		filters = append(filters, fmt.Sprintf(
			`EXISTS { ?authorObj schema:nationality %s }`, sparqlString(f.AuthorNationality)))
	}

	if f.Publisher != "" {
		filters = append(filters, fmt.Sprintf(
			`EXISTS { ?publisherObj schema:name %s }`, sparqlString(f.Publisher)))
	}

	if f.DatePublished != "" {
		if stamp, ok := normalizeDate(f.DatePublished); ok {
			filters = append(filters, fmt.Sprintf(
				`EXISTS { ?article schema:datePublished "%s"^^<%s> }`, stamp, xsdDateTime))
		}
	}

	if f.WordCountMin > 0 && f.WordCountMax > 0 {
		filters = append(filters, fmt.Sprintf(
			`EXISTS { ?article schema:wordCount ?wordCount . FILTER(?wordCount >= %d && ?wordCount <= %d) }`,
			f.WordCountMin, f.WordCountMax))
	}

	if f.DatePublishedMin != "" && f.DatePublishedMax != "" {
		min, okMin := normalizeDate(f.DatePublishedMin)
		max, okMax := normalizeDate(f.DatePublishedMax)
		if okMin && okMax {
			filters = append(filters, fmt.Sprintf(
				`EXISTS { ?article schema:datePublished ?datePublished . FILTER(?datePublished >= "%s"^^<%s> && ?datePublished <= "%s"^^<%s>) }`,
				min, xsdDateTime, max, xsdDateTime))
		}
	}

	return filters
}

// searchQuery builds the flat hit query. Conjunctive joins every filter
// with AND (the exact pass); disjunctive with OR (the partial pass). With
// no filters at all the query lists every stored article.
func searchQuery(filters []string, conjunctive bool) string {
	clause := ""
	if len(filters) > 0 {
		op := " || "
		if conjunctive {
			op = " && "
		}
		clause = "FILTER(\n" + strings.Join(filters, op) + "\n)"
	}

	return fmt.Sprintf(`PREFIX schema: <http://schema.org/>
SELECT DISTINCT ?article ?headline ?abstract ?author ?publisher ?datePublished ?thumbnailUrl
WHERE {
    ?article schema:headline ?headline .
    OPTIONAL { ?article schema:abstract ?abstract }
    OPTIONAL {
        ?article schema:author ?authorObj .
        ?authorObj schema:name ?author
    }
    OPTIONAL {
        ?article schema:publisher ?publisherObj .
        ?publisherObj schema:name ?publisher
    }
    OPTIONAL { ?article schema:datePublished ?datePublished }
    OPTIONAL { ?article schema:thumbnailUrl ?thumbnailUrl }
    %s
}
LIMIT %d`, clause, resultLimit)
}

// byURLQuery fetches every statement for the article plus one level of
// expansion for referenced entity and media nodes.
func byURLQuery(url string) string {
	return fmt.Sprintf(`PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
SELECT ?p ?o ?subP ?subO
WHERE {
  <%s> ?p ?o .

  OPTIONAL {
    FILTER (isIRI(?o))
    ?o ?subP ?subO
  }
}`, url)
}

// deleteQuery removes the article's statements in two passes. The first
// pass drops expanded object statements but never those reachable through
// author/publisher/editor links, so entity nodes shared with other
// articles survive. The second drops the article's own statements.
func deleteQuery(url string) string {
	return fmt.Sprintf(`PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
PREFIX schema: <http://schema.org/>

DELETE {
  <%[1]s> ?p ?o .
  ?o ?subP ?subO
}
WHERE {
  <%[1]s> ?p ?o .

  FILTER NOT EXISTS {
    <%[1]s> ?p ?o .
    FILTER (?p IN (schema:author, schema:publisher, schema:editor))
  }

  OPTIONAL {
    FILTER (isIRI(?o))
    ?o ?subP ?subO
    FILTER NOT EXISTS {
      ?o ?subP ?subO .
      FILTER (?subP IN (schema:author, schema:publisher, schema:editor))
    }
  }
};

DELETE {
  <%[1]s> ?p ?o .
}
WHERE {
  <%[1]s> ?p ?o .
}`, url)
}

// normalizeDate parses any common date layout and renders the store's
// dateTime literal form.
func normalizeDate(raw string) (string, bool) {
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return "", false
	}
	return t.UTC().Format("2006-01-02T15:04:05") + "+00:00", true
}

func sparqlString(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)
	return `"` + r.Replace(v) + `"`
}
