package ui

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/textcomplete/internal/strategy"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

var (
	embeddedConfigOnce sync.Once
	embeddedConfig     Config
	embeddedConfigErr  error
)

// DefaultConfigYAML returns a copy of the embedded default config YAML bytes.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// EmbeddedDefaultConfig parses and returns the embedded default configuration.
// Callers receive their own copy of the slices and maps.
func EmbeddedDefaultConfig() (Config, error) {
	embeddedConfigOnce.Do(func() {
		if len(embeddedDefaultConfig) == 0 {
			embeddedConfigErr = fmt.Errorf("embedded default config is empty")
			return
		}
		if err := yaml.Unmarshal(embeddedDefaultConfig, &embeddedConfig); err != nil {
			embeddedConfigErr = fmt.Errorf("decode embedded default config: %w", err)
			return
		}
		if embeddedConfig.Themes == nil {
			embeddedConfig.Themes = map[string]ThemeConfig{}
		}
	})
	return embeddedConfig.clone(), embeddedConfigErr
}

func (c Config) clone() Config {
	out := c
	out.Themes = make(map[string]ThemeConfig, len(c.Themes))
	for name, th := range c.Themes {
		out.Themes[name] = th
	}
	if c.Dropdown.Keys != nil {
		out.Dropdown.Keys = make(map[string]string, len(c.Dropdown.Keys))
		for k, v := range c.Dropdown.Keys {
			out.Dropdown.Keys[k] = v
		}
	}
	out.Fields = append([]FieldConfig(nil), c.Fields...)
	out.Strategies = append([]strategy.Config(nil), c.Strategies...)
	return out
}
