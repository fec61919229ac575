package extract

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/antchfx/htmlquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// paragraphXPath selects paragraph nodes under the known content
// containers, excluding page chrome.
const paragraphXPath = `//article//p | //main//p | ` +
	`//div[contains(@class,"content") or contains(@class,"article") or contains(@class,"post") or contains(@class,"story")]//p`

// chromeAncestors are element names whose descendants never contribute
// article text.
var chromeAncestors = map[string]bool{
	"header": true,
	"footer": true,
	"nav":    true,
	"form":   true,
	"aside":  true,
	"figure": true,
}

// PlainText extracts the article's body text, language, and keywords.
// Transport failures propagate; parse problems degrade to empty results.
func (e *Extractor) PlainText(ctx context.Context, pageURL string) (*TextData, error) {
	resp, err := e.plain.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	content := e.extractContent(resp.Body, pageURL)
	code, name := e.detectLanguage(resp, content)
	keywords := e.extractKeywords(resp, content)

	return &TextData{
		Content:      content,
		LanguageCode: code,
		LanguageName: name,
		Keywords:     keywords,
	}, nil
}

// extractContent runs readability over the page, falling back to a
// paragraph walk when readability yields nothing usable.
func (e *Extractor) extractContent(body []byte, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		parsed = nil
	}

	if article, err := readability.FromReader(bytes.NewReader(body), parsed); err == nil {
		text := strings.TrimSpace(article.TextContent)
		if text != "" {
			return text
		}
	}

	return e.paragraphText(body)
}

// paragraphText concatenates paragraph-level text found under the known
// content containers. A paragraph counts only when its trimmed text exceeds
// the configured minimum, which filters boilerplate snippets.
func (e *Extractor) paragraphText(body []byte) string {
	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	nodes, err := htmlquery.QueryAll(doc, paragraphXPath)
	if err != nil {
		return ""
	}

	seen := make(map[*html.Node]bool)
	var parts []string
	for _, node := range nodes {
		if seen[node] || underChrome(node) {
			continue
		}
		seen[node] = true
		text := strings.TrimSpace(htmlquery.InnerText(node))
		if len(text) > e.cfg.Extract.MinParagraphLen {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n")
}

// underChrome reports whether the node sits inside a chrome element.
func underChrome(node *html.Node) bool {
	for n := node.Parent; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && chromeAncestors[n.Data] {
			return true
		}
	}
	return false
}
