// Package langmeta resolves language codes to canonical BCP 47 tags and
// human-readable names used in prompts and CLI output.
package langmeta

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Normalize parses a language code (accepting variants like pt_BR and
// PT-br) and returns its canonical form.
func Normalize(code string) (string, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	if cleaned == "" {
		return "", fmt.Errorf("empty language code")
	}
	tag, err := language.Parse(cleaned)
	if err != nil {
		return "", fmt.Errorf("invalid language code %q: %w", code, err)
	}
	return tag.String(), nil
}

// Name returns the English display name for a language code
// ("de" → "German"). Unknown codes fall back to the code itself.
func Name(code string) string {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}
