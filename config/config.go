// Package config loads .potrans.yaml project configuration.
//
// The file is optional. When it is absent every setting keeps its default
// and the CLI flags alone drive the run.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/potrans/exclude"
	"github.com/minios-linux/potrans/usage"
)

// FileName is the default config file name.
const FileName = ".potrans.yaml"

// DefaultBatchSize is the number of entries per translation request.
const DefaultBatchSize = 10

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// File is the top-level .potrans.yaml structure.
type File struct {
	// Languages is the default target locale list (e.g. fr_FR, de_DE).
	Languages []string `yaml:"languages,omitempty"`
	// BatchSize is the number of entries per request. Non-positive values
	// fall back to DefaultBatchSize.
	BatchSize int `yaml:"batch_size,omitempty"`

	// Provider is the provider ID (openai, groq, google, ...).
	Provider string `yaml:"provider,omitempty"`
	// Model overrides the provider's default model.
	Model string `yaml:"model,omitempty"`
	// BaseURL overrides the provider's endpoint.
	BaseURL string `yaml:"base_url,omitempty"`
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string `yaml:"proxy,omitempty"`
	// Prompt overrides the system prompt.
	Prompt string `yaml:"prompt,omitempty"`

	// Exclusions are terms never sent for translation. A single
	// comma-separated string is accepted as well as a list.
	Exclusions StringList `yaml:"exclusions,omitempty"`
	// LanguageNames maps locales to display names.
	LanguageNames map[string]string `yaml:"language_names,omitempty"`
	// PluralForms maps locales to Plural-Forms expressions.
	PluralForms map[string]string `yaml:"plural_forms,omitempty"`
	// Pricing is the per-million-token price used for cost estimates.
	Pricing *usage.Pricing `yaml:"pricing,omitempty"`

	// Parallel translates locales concurrently.
	Parallel bool `yaml:"parallel,omitempty"`
	// MaxConcurrent bounds parallel locales (default 3).
	MaxConcurrent int `yaml:"max_concurrent,omitempty"`
	// GroupPlurals writes all plural entries after all singular entries.
	GroupPlurals bool `yaml:"group_plurals,omitempty"`
	// CompileMO writes a .mo file next to every generated .po file.
	CompileMO bool `yaml:"compile_mo,omitempty"`
	// OutDir is the output directory (default: next to the source file).
	OutDir string `yaml:"out_dir,omitempty"`
}

// StringList decodes either a YAML sequence or a comma-separated scalar.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = exclude.Split(node.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			if it = strings.TrimSpace(it); it != "" {
				out = append(out, it)
			}
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("line %d: expected a list or comma-separated string", node.Line)
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns the configuration used when no file exists.
func Default() *File {
	p := usage.DefaultPricing()
	return &File{
		BatchSize: DefaultBatchSize,
		Pricing:   &p,
	}
}

// Load reads and validates the config file at path. A missing file yields
// Default().
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes config content and applies defaults.
func Parse(data []byte) (*File, error) {
	f := Default()
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, err
	}
	f.applyDefaults()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) applyDefaults() {
	if f.BatchSize <= 0 {
		f.BatchSize = DefaultBatchSize
	}
	if f.Pricing == nil {
		p := usage.DefaultPricing()
		f.Pricing = &p
	}
	for i, lang := range f.Languages {
		f.Languages[i] = strings.TrimSpace(lang)
	}
}

// Validate rejects values no run can use.
func (f *File) Validate() error {
	if f.MaxConcurrent < 0 {
		return fmt.Errorf("max_concurrent must not be negative, got %d", f.MaxConcurrent)
	}
	if f.Pricing != nil && (f.Pricing.InputPerMillion < 0 || f.Pricing.OutputPerMillion < 0) {
		return fmt.Errorf("pricing must not be negative")
	}
	for i, lang := range f.Languages {
		if lang == "" {
			return fmt.Errorf("languages[%d] is empty", i)
		}
	}
	for lang, expr := range f.PluralForms {
		if !strings.Contains(expr, "nplurals=") {
			return fmt.Errorf("plural_forms[%s]: missing nplurals in %q", lang, expr)
		}
	}
	return nil
}
