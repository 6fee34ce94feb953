package dialogue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// TemplateSet is the deterministic fallback catalog: one line per
// language/tactic pair, with {{price}} substituted in. It is the
// last-resort path when the LLM is unavailable or all 1+MaxRegenerations
// of its attempts fail validation.
type TemplateSet struct {
	// byKey maps "language:tactic" to a template string.
	byKey map[string]string
}

type templateFile struct {
	Templates []struct {
		Language string `mapstructure:"language"`
		Tactic   string `mapstructure:"tactic"`
		Text     string `mapstructure:"text"`
	} `mapstructure:"templates"`
}

// NewTemplateSet builds a TemplateSet from an in-memory language:tactic ->
// text map, bypassing the YAML file for tests and programmatic catalogs.
func NewTemplateSet(entries map[string]string) *TemplateSet {
	return &TemplateSet{byKey: entries}
}

// LoadTemplates reads a YAML template catalog from path.
func LoadTemplates(path string) (*TemplateSet, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read dialogue templates: %w", err)
	}

	var f templateFile
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("unmarshal dialogue templates: %w", err)
	}

	ts := &TemplateSet{byKey: make(map[string]string, len(f.Templates))}
	for _, t := range f.Templates {
		ts.byKey[key(t.Language, t.Tactic)] = t.Text
	}
	return ts, nil
}

// Render returns the deterministic line for language/tactic with {{price}}
// substituted, falling back to an English generic line if the specific
// language/tactic pair is not in the catalog.
func (ts *TemplateSet) Render(language, tactic string, price int64) string {
	text, ok := ts.byKey[key(language, tactic)]
	if !ok {
		text, ok = ts.byKey[key("en", tactic)]
	}
	if !ok {
		text = "Here's my best offer: {{price}}."
	}
	return strings.ReplaceAll(text, "{{price}}", strconv.FormatInt(price, 10))
}

func key(language, tactic string) string {
	return strings.ToLower(language) + ":" + strings.ToLower(tactic)
}
