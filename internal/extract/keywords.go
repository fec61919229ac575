package extract

import (
	"sort"
	"strings"

	"github.com/newsgraph-io/newsgraph/internal/types"
)

// stopwords are excluded from frequency-based keyword extraction.
var stopwords = map[string]bool{
	"a": true, "about": true, "after": true, "all": true, "also": true,
	"an": true, "and": true, "any": true, "are": true, "as": true,
	"at": true, "be": true, "been": true, "but": true, "by": true,
	"can": true, "could": true, "did": true, "do": true, "does": true,
	"for": true, "from": true, "had": true, "has": true, "have": true,
	"he": true, "her": true, "his": true, "how": true, "i": true,
	"if": true, "in": true, "into": true, "is": true, "it": true,
	"its": true, "just": true, "like": true, "more": true, "most": true,
	"my": true, "no": true, "not": true, "of": true, "on": true,
	"one": true, "or": true, "other": true, "our": true, "out": true,
	"over": true, "said": true, "she": true, "so": true, "some": true,
	"such": true, "than": true, "that": true, "the": true, "their": true,
	"them": true, "then": true, "there": true, "these": true, "they": true,
	"this": true, "to": true, "up": true, "was": true, "we": true,
	"were": true, "what": true, "when": true, "which": true, "who": true,
	"will": true, "with": true, "would": true, "you": true, "your": true,
}

// extractKeywords merges the page's declared keywords with the most frequent
// content terms, declared keywords first, deduplicated case-insensitively and
// capped at the configured maximum.
func (e *Extractor) extractKeywords(resp *types.Response, content string) []string {
	max := e.cfg.Extract.MaxKeywords

	var keywords []string
	seen := make(map[string]bool)
	add := func(kw string) {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			return
		}
		lower := strings.ToLower(kw)
		if seen[lower] {
			return
		}
		seen[lower] = true
		keywords = append(keywords, kw)
	}

	for _, kw := range declaredKeywords(resp) {
		if len(keywords) >= max {
			return keywords
		}
		add(kw)
	}

	for _, term := range frequentTerms(content) {
		if len(keywords) >= max {
			break
		}
		add(term)
	}

	return keywords
}

// declaredKeywords reads the page's meta keywords tag, comma-separated.
func declaredKeywords(resp *types.Response) []string {
	doc, err := resp.Document()
	if err != nil {
		return nil
	}
	raw, ok := doc.Find(`meta[name="keywords"]`).Attr("content")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// frequentTerms ranks content words by occurrence count, ties broken by
// first appearance. Stopwords and short tokens are skipped.
func frequentTerms(content string) []string {
	counts := make(map[string]int)
	order := make(map[string]int)

	for i, field := range strings.Fields(strings.ToLower(content)) {
		word := strings.Trim(field, `.,;:!?"'()[]{}`)
		if len(word) < 4 || stopwords[word] {
			continue
		}
		if _, ok := counts[word]; !ok {
			order[word] = i
		}
		counts[word]++
	}

	terms := make([]string, 0, len(counts))
	for word := range counts {
		terms = append(terms, word)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return order[terms[i]] < order[terms[j]]
	})

	return terms
}
