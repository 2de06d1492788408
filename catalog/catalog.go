// Package catalog implements reading and writing of String Catalog
// (.xcstrings) files.
//
// A catalog is a JSON object with a source language and a map of
// translatable entries. Each entry carries per-language localizations:
//
//	{
//	  "sourceLanguage": "en",
//	  "strings": {
//	    "Hello": {
//	      "comment": "Greeting on the start screen",
//	      "localizations": {
//	        "de": { "stringUnit": { "state": "translated", "value": "Hallo" } }
//	      }
//	    }
//	  }
//	}
//
// Localizations that use variations or substitutions (pluralization,
// device-specific forms) are carried as opaque JSON and never rewritten.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Unit states as stored in stringUnit.state.
const (
	StateNew        = "new"
	StateTranslated = "translated"
	StateError      = "error"
)

// ExtractionStateStale marks an entry no longer referenced by the source
// project. Such entries are eligible for pruning on save.
const ExtractionStateStale = "stale"

// Unit is one language's translation state and value for an entry.
type Unit struct {
	State string `json:"state"`
	Value string `json:"value"`
}

// Localization holds either a plain string unit or an opaque
// variation/substitution payload that must round-trip unchanged.
type Localization struct {
	StringUnit    *Unit           `json:"stringUnit,omitempty"`
	Variations    json.RawMessage `json:"variations,omitempty"`
	Substitutions json.RawMessage `json:"substitutions,omitempty"`
}

// Unsupported reports whether this localization uses a variation or
// substitution format that the translator must not touch.
func (l *Localization) Unsupported() bool {
	return l != nil && (len(l.Variations) > 0 || len(l.Substitutions) > 0)
}

// Entry is one translatable source string and its per-language units.
type Entry struct {
	Comment         string                   `json:"comment,omitempty"`
	ExtractionState string                   `json:"extractionState,omitempty"`
	Localizations   map[string]*Localization `json:"localizations,omitempty"`
}

// Stale reports whether the entry is no longer referenced by the source
// project.
func (e *Entry) Stale() bool {
	return e.ExtractionState == ExtractionStateStale
}

// UnitFor returns the string unit for a language, or nil if the language
// has no localization or only an unsupported one.
func (e *Entry) UnitFor(lang string) *Unit {
	loc := e.Localizations[lang]
	if loc == nil {
		return nil
	}
	return loc.StringUnit
}

// SetUnit replaces the localization for a language with a plain string
// unit, discarding any prior unit for that language.
func (e *Entry) SetUnit(lang, state, value string) {
	if e.Localizations == nil {
		e.Localizations = make(map[string]*Localization)
	}
	e.Localizations[lang] = &Localization{StringUnit: &Unit{State: state, Value: value}}
}

// Catalog is the full multi-language localization data set for one project.
type Catalog struct {
	SourceLanguage string            `json:"sourceLanguage"`
	Version        string            `json:"version,omitempty"`
	Strings        map[string]*Entry `json:"strings"`
}

// SortedKeys returns all entry keys in lexicographic order.
func (c *Catalog) SortedKeys() []string {
	keys := make([]string, 0, len(c.Strings))
	for k := range c.Strings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SourceText returns the text to translate for an entry: the entry's own
// unit value for the catalog's source language if present and non-empty,
// otherwise the key verbatim.
func (c *Catalog) SourceText(key string) string {
	e := c.Strings[key]
	if e == nil {
		return key
	}
	if u := e.UnitFor(c.SourceLanguage); u != nil && u.Value != "" {
		return u.Value
	}
	return key
}

// ApprovedTranslation returns the approved translation of a key in the
// given language. A translation is approved when its unit state is
// "translated" and its value is non-empty.
func (c *Catalog) ApprovedTranslation(key, lang string) (string, bool) {
	e := c.Strings[key]
	if e == nil {
		return "", false
	}
	u := e.UnitFor(lang)
	if u == nil || u.State != StateTranslated || u.Value == "" {
		return "", false
	}
	return u.Value, true
}

// RemoveStale deletes every stale entry and returns how many were removed.
func (c *Catalog) RemoveStale() int {
	removed := 0
	for key, e := range c.Strings {
		if e.Stale() {
			delete(c.Strings, key)
			removed++
		}
	}
	return removed
}

// Parse decodes catalog data. The strings map is required; a catalog
// without it is considered malformed.
func Parse(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if c.Strings == nil {
		return nil, fmt.Errorf("decoding catalog: missing \"strings\" object")
	}
	if strings.TrimSpace(c.SourceLanguage) == "" {
		return nil, fmt.Errorf("decoding catalog: missing \"sourceLanguage\"")
	}
	return &c, nil
}

// Marshal serializes the catalog deterministically: object keys sorted,
// two-space indentation, no HTML escaping. Repeated saves of unchanged
// data produce byte-identical output.
func (c *Catalog) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	return buf.Bytes(), nil
}
