package extract

import (
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/newsgraph-io/newsgraph/internal/types"
)

// detectLanguage resolves the page language in priority order: the
// Content-Language response header, the <html lang> attribute, then
// statistical detection over the extracted content.
func (e *Extractor) detectLanguage(resp *types.Response, content string) (code, name string) {
	if header := resp.Headers.Get("Content-Language"); header != "" {
		code = strings.TrimSpace(strings.Split(header, ",")[0])
		return code, LanguageName(code)
	}

	if doc, err := resp.Document(); err == nil {
		if lang, ok := doc.Find("html").Attr("lang"); ok && lang != "" {
			code = strings.Split(lang, "-")[0]
			return code, LanguageName(code)
		}
	}

	if content != "" {
		info := whatlanggo.Detect(content)
		if info.Lang != -1 {
			code = info.Lang.Iso6391()
			if code == "" {
				code = info.Lang.Iso6393()
			}
			return code, LanguageName(code)
		}
	}

	return "", "Unknown language"
}

// LanguageName expands a language code to its English display name.
// Unrecognized codes come back as "Unknown language".
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return "Unknown language"
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return "Unknown language"
	}
	return name
}
