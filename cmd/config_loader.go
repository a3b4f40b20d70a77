package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/textcomplete/internal/strategy"
	"github.com/oakwood-commons/textcomplete/internal/ui"
	"github.com/oakwood-commons/textcomplete/pkg/settings"
)

// ErrUnsupportedConfigFormat is returned for config files that are neither
// YAML nor TOML.
var ErrUnsupportedConfigFormat = errors.New("unsupported config format")

// configLoader centralizes config loading so callers avoid duplicating merge logic.
type configLoader struct {
	defaults func() (ui.Config, error)
}

var cfgLoader = configLoader{defaults: ui.EmbeddedDefaultConfig}

func loadMergedConfig(cfgPath string) (ui.Config, error) {
	return cfgLoader.loadMergedConfig(cfgPath)
}

func (l configLoader) loadMergedConfig(cfgPath string) (ui.Config, error) {
	cfg, err := l.defaults()
	if err != nil {
		return cfg, fmt.Errorf("load default config: %w", err)
	}
	if cfg.Theme.Default == "" || len(cfg.Themes) == 0 {
		return cfg, fmt.Errorf("default config is missing required theme defaults")
	}
	if cfgPath == "" {
		return cfg, nil
	}

	user, err := decodeConfigFile(cfgPath)
	if err != nil {
		return cfg, err
	}
	return mergeConfig(cfg, user), nil
}

// decodeConfigFile reads a user config. The extension selects the decoder;
// anything other than .toml, .yaml and .yml is rejected.
func decodeConfigFile(path string) (ui.Config, error) {
	var cfg ui.Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("%w: %s", ErrUnsupportedConfigFormat, path)
	}
	return cfg, nil
}

// mergeConfig overlays the non-empty values of override on base. Fields and
// strategies with the id of a base entry replace it; new ones are appended.
func mergeConfig(base, override ui.Config) ui.Config {
	out := base

	if override.App.Name != "" {
		out.App.Name = override.App.Name
	}
	if override.App.Description != "" {
		out.App.Description = override.App.Description
	}

	d, o := &out.Dropdown, override.Dropdown
	if o.MaxCount > 0 {
		d.MaxCount = o.MaxCount
	}
	if o.Height > 0 {
		d.Height = o.Height
	}
	if o.Placement != "" {
		d.Placement = o.Placement
	}
	if o.Header != "" {
		d.Header = o.Header
	}
	if o.Footer != "" {
		d.Footer = o.Footer
	}
	if o.ClassName != "" {
		d.ClassName = o.ClassName
	}
	if o.CompleteOnSpace {
		d.CompleteOnSpace = true
	}
	if o.ZIndex != 0 {
		d.ZIndex = o.ZIndex
	}
	if o.Keymap != "" {
		d.Keymap = o.Keymap
	}
	if len(o.Keys) > 0 {
		keys := make(map[string]string, len(base.Dropdown.Keys)+len(o.Keys))
		for k, v := range base.Dropdown.Keys {
			keys[k] = v
		}
		for k, v := range o.Keys {
			keys[k] = v
		}
		d.Keys = keys
	}

	if override.Theme.Default != "" {
		out.Theme.Default = override.Theme.Default
	}
	themes := make(map[string]ui.ThemeConfig, len(base.Themes)+len(override.Themes))
	for name, th := range base.Themes {
		themes[name] = th
	}
	for name, th := range override.Themes {
		themes[name] = mergeThemeConfig(themes[name], th)
	}
	out.Themes = themes

	out.Fields = mergeByID(base.Fields, override.Fields, func(f ui.FieldConfig) string { return f.ID })
	out.Strategies = mergeByID(base.Strategies, override.Strategies, func(s strategy.Config) string { return s.ID })
	return out
}

func mergeByID[T any](base, override []T, id func(T) string) []T {
	out := append([]T(nil), base...)
	pos := make(map[string]int, len(out))
	for i, v := range out {
		pos[id(v)] = i
	}
	for _, v := range override {
		if i, ok := pos[id(v)]; ok {
			out[i] = v
			continue
		}
		pos[id(v)] = len(out)
		out = append(out, v)
	}
	return out
}

func mergeThemeConfig(base, override ui.ThemeConfig) ui.ThemeConfig {
	merged := base
	if override.BorderStyle != "" {
		merged.BorderStyle = override.BorderStyle
	}
	pick := func(dst *ui.ColorValue, v ui.ColorValue) {
		if v != "" {
			*dst = v
		}
	}
	pick(&merged.BorderFG, override.BorderFG)
	pick(&merged.ItemFG, override.ItemFG)
	pick(&merged.ActiveFG, override.ActiveFG)
	pick(&merged.ActiveBG, override.ActiveBG)
	pick(&merged.HeaderFG, override.HeaderFG)
	pick(&merged.FooterFG, override.FooterFG)
	pick(&merged.LabelFG, override.LabelFG)
	pick(&merged.FocusFG, override.FocusFG)
	pick(&merged.InputFG, override.InputFG)
	pick(&merged.PlaceholderFG, override.PlaceholderFG)
	pick(&merged.StatusFG, override.StatusFG)
	pick(&merged.ErrorFG, override.ErrorFG)
	return merged
}

// resolveConfigPath returns the explicit path if set, otherwise the XDG path
// ($XDG_CONFIG_HOME/textcomplete/config.yaml) or ~/.config/textcomplete/config.yaml
// if present.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	candidate := ""
	if xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}
