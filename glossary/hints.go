package glossary

import (
	"strings"

	"github.com/lkzhao/AITranslate/catalog"
)

// ResolveHints maps each raw term to its already-approved translation in
// the target language. Terms are matched against catalog keys
// case-insensitively after trimming. A term with no approved translation
// is still surfaced with an empty value so the service knows the term
// matters; an empty term set yields an empty map.
func ResolveHints(terms map[string]bool, cat *catalog.Catalog, lang string) map[string]string {
	hints := make(map[string]string, len(terms))
	if len(terms) == 0 {
		return hints
	}

	index := canonicalIndex(cat)
	for term := range terms {
		key := resolveKey(term, index)
		if key == "" {
			continue
		}
		translation, _ := cat.ApprovedTranslation(key, lang)
		hints[key] = translation
	}
	return hints
}

// canonicalIndex maps the lowercase form of each catalog key to the key
// itself. Keys whose lowercase forms collide are left out entirely:
// resolving either would silently merge two distinct entries.
func canonicalIndex(cat *catalog.Catalog) map[string]string {
	index := make(map[string]string, len(cat.Strings))
	ambiguous := make(map[string]bool)

	for key := range cat.Strings {
		lower := strings.ToLower(key)
		if _, seen := index[lower]; seen {
			ambiguous[lower] = true
			continue
		}
		index[lower] = key
	}
	for lower := range ambiguous {
		delete(index, lower)
	}
	return index
}

// resolveKey trims a raw term and resolves it to a canonical catalog key,
// falling back to the trimmed term itself when no key matches.
func resolveKey(term string, index map[string]string) string {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return ""
	}
	if key, ok := index[strings.ToLower(trimmed)]; ok {
		return key
	}
	return trimmed
}
