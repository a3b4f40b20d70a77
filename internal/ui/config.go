package ui

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/textcomplete/internal/strategy"
)

// Config is the merged configuration: the embedded defaults overlaid with the
// user's file.
type Config struct {
	App        AppConfig              `yaml:"app" toml:"app"`
	Dropdown   DropdownConfig         `yaml:"dropdown" toml:"dropdown"`
	Theme      ThemeSelectionConfig   `yaml:"theme" toml:"theme"`
	Themes     map[string]ThemeConfig `yaml:"themes" toml:"themes"`
	Fields     []FieldConfig          `yaml:"fields" toml:"fields"`
	Strategies []strategy.Config      `yaml:"strategies" toml:"strategies"`
}

// AppConfig holds application metadata shown in the title line.
type AppConfig struct {
	Name        string `yaml:"name,omitempty" toml:"name,omitempty"`
	Description string `yaml:"description,omitempty" toml:"description,omitempty"`
}

// DropdownConfig holds the dropdown options shared by every field.
type DropdownConfig struct {
	MaxCount        int    `yaml:"max_count,omitempty" toml:"max_count,omitempty"`
	Height          int    `yaml:"height,omitempty" toml:"height,omitempty"`
	Placement       string `yaml:"placement,omitempty" toml:"placement,omitempty"`
	Header          string `yaml:"header,omitempty" toml:"header,omitempty"`
	Footer          string `yaml:"footer,omitempty" toml:"footer,omitempty"`
	ClassName       string `yaml:"class_name,omitempty" toml:"class_name,omitempty"`
	CompleteOnSpace bool   `yaml:"complete_on_space,omitempty" toml:"complete_on_space,omitempty"`
	ZIndex          int    `yaml:"z_index,omitempty" toml:"z_index,omitempty"`
	// Keymap adds the bindings of a key mode: default, vim or emacs.
	Keymap string `yaml:"keymap,omitempty" toml:"keymap,omitempty"`
	// Keys binds keys to up, down, enter, pageup, pagedown, escape or none.
	Keys map[string]string `yaml:"keys,omitempty" toml:"keys,omitempty"`
}

// FieldConfig describes one input of the demo screen.
type FieldConfig struct {
	ID          string `yaml:"id" toml:"id"`
	Label       string `yaml:"label,omitempty" toml:"label,omitempty"`
	Placeholder string `yaml:"placeholder,omitempty" toml:"placeholder,omitempty"`
	// Strategies lists strategy ids; empty uses all of them.
	Strategies []string `yaml:"strategies,omitempty" toml:"strategies,omitempty"`
	// Placement, Header and Footer override the dropdown section.
	Placement string `yaml:"placement,omitempty" toml:"placement,omitempty"`
	Header    string `yaml:"header,omitempty" toml:"header,omitempty"`
	Footer    string `yaml:"footer,omitempty" toml:"footer,omitempty"`
	// Panel is the layout mode of the field's panel: static, relative,
	// absolute or fixed.
	Panel string `yaml:"panel,omitempty" toml:"panel,omitempty"`
}

// ThemeSelectionConfig selects the active theme.
type ThemeSelectionConfig struct {
	Default string `yaml:"default,omitempty" toml:"default,omitempty"`
}

// ColorValue stores a color token (number or name) and marshals numerics as YAML ints.
type ColorValue string

func (c ColorValue) MarshalYAML() (interface{}, error) {
	if c == "" {
		return "", nil
	}
	s := string(c)
	if _, err := strconv.Atoi(s); err == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: s}, nil
	}
	return s, nil
}

func (c *ColorValue) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*c = ""
		return nil
	}
	*c = ColorValue(value.Value)
	return nil
}

// ThemeConfig is a theme as written in the config file. Colors accept ints or
// strings in YAML; TOML files must quote them.
type ThemeConfig struct {
	BorderStyle   string     `yaml:"border_style,omitempty" toml:"border_style,omitempty"`
	BorderFG      ColorValue `yaml:"border_fg,omitempty" toml:"border_fg,omitempty"`
	ItemFG        ColorValue `yaml:"item_fg,omitempty" toml:"item_fg,omitempty"`
	ActiveFG      ColorValue `yaml:"active_fg,omitempty" toml:"active_fg,omitempty"`
	ActiveBG      ColorValue `yaml:"active_bg,omitempty" toml:"active_bg,omitempty"`
	HeaderFG      ColorValue `yaml:"header_fg,omitempty" toml:"header_fg,omitempty"`
	FooterFG      ColorValue `yaml:"footer_fg,omitempty" toml:"footer_fg,omitempty"`
	LabelFG       ColorValue `yaml:"label_fg,omitempty" toml:"label_fg,omitempty"`
	FocusFG       ColorValue `yaml:"focus_fg,omitempty" toml:"focus_fg,omitempty"`
	InputFG       ColorValue `yaml:"input_fg,omitempty" toml:"input_fg,omitempty"`
	PlaceholderFG ColorValue `yaml:"placeholder_fg,omitempty" toml:"placeholder_fg,omitempty"`
	StatusFG      ColorValue `yaml:"status_fg,omitempty" toml:"status_fg,omitempty"`
	ErrorFG       ColorValue `yaml:"error_fg,omitempty" toml:"error_fg,omitempty"`
}

// StrategiesFor returns the strategy configs a field uses, in config order.
func (c Config) StrategiesFor(f FieldConfig) []strategy.Config {
	if len(f.Strategies) == 0 {
		return c.Strategies
	}
	want := make(map[string]bool, len(f.Strategies))
	for _, id := range f.Strategies {
		want[id] = true
	}
	var out []strategy.Config
	for _, s := range c.Strategies {
		if want[s.ID] {
			out = append(out, s)
		}
	}
	return out
}
