package graph

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"
)

// EntityURI derives a deterministic node identifier for a nested value
// under the given namespace. A dereferenceable URL supplied by the source
// (@id or url) is reused verbatim, never regenerated; named values get a
// readable slug; anonymous composites get a stable digest of their content,
// so the same value always maps to the same node.
func EntityURI(namespace, key string, item any) string {
	switch v := item.(type) {
	case string:
		if IsAbsoluteURL(v) {
			return v
		}
		return fmt.Sprintf("%s/%s/%s", namespace, key, slug(v))
	case map[string]any:
		if id, ok := v["@id"].(string); ok && IsAbsoluteURL(id) {
			return id
		}
		if u, ok := v["url"].(string); ok && IsAbsoluteURL(u) {
			return u
		}
		if name, ok := v["name"].(string); ok && name != "" {
			return fmt.Sprintf("%s/%s/%s", namespace, key, slug(name))
		}
		return fmt.Sprintf("%s/%s/%s", namespace, key, digest(v))
	default:
		return fmt.Sprintf("%s/%s/%s", namespace, key, digest(v))
	}
}

// IsAbsoluteURL reports whether the string is an absolute http(s) URL.
func IsAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func slug(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

func digest(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		raw = []byte(fmt.Sprintf("%v", v))
	}
	h := fnv.New64a()
	h.Write(raw)
	return fmt.Sprintf("%x", h.Sum64())
}
