// Package config implements .aitranslate.yaml configuration file support.
//
// When a .aitranslate.yaml file exists next to the catalog (or in the
// working directory), it supplies defaults for the translate command.
// Command-line flags always override it.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lkzhao/AITranslate/langmeta"
)

// FileName is the default config file name.
const FileName = ".aitranslate.yaml"

// File is the top-level .aitranslate.yaml structure.
type File struct {
	// Languages is the default target language list.
	Languages []string `yaml:"languages,omitempty"`
	// Provider is the default AI provider ID (gemini, openai, custom-openai).
	Provider string `yaml:"provider,omitempty"`
	// Model overrides the provider's default model.
	Model string `yaml:"model,omitempty"`
	// BaseURL overrides the provider endpoint (custom-openai).
	BaseURL string `yaml:"base_url,omitempty"`
	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
	// Context is extra context appended to every translation request.
	Context string `yaml:"context,omitempty"`
	// Hints are explicit glossary keys resolved for every request.
	Hints []string `yaml:"hints,omitempty"`
}

// Load reads .aitranslate.yaml from the given directory.
// Returns nil (and no error) if the file does not exist.
func Load(dir string) (*File, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	// Validate language codes up front; a typo here should fail loudly
	// before any translation work starts.
	for i, lang := range f.Languages {
		normalized, err := langmeta.Normalize(lang)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		f.Languages[i] = normalized
	}

	return &f, nil
}
