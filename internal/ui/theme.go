package ui

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
)

// Theme defines the colors of the demo screen and its dropdown.
type Theme struct {
	BorderStyle   string      // Border style (normal|rounded)
	BorderFG      color.Color // Dropdown frame
	ItemFG        color.Color // Dropdown rows
	ActiveFG      color.Color // Highlighted row foreground
	ActiveBG      color.Color // Highlighted row background
	HeaderFG      color.Color // Dropdown header region
	FooterFG      color.Color // Dropdown footer region
	LabelFG       color.Color // Field labels
	FocusFG       color.Color // Label of the focused field
	InputFG       color.Color // Input text
	PlaceholderFG color.Color // Input placeholder
	StatusFG      color.Color // Status line
	ErrorFG       color.Color // Status line errors
}

// fallbackTheme is used for colors a configured theme leaves out.
func fallbackTheme() Theme {
	return Theme{
		BorderStyle:   "rounded",
		BorderFG:      lipgloss.Color("238"),
		ItemFG:        lipgloss.Color("250"),
		ActiveFG:      lipgloss.Color("231"),
		ActiveBG:      lipgloss.Color("24"),
		HeaderFG:      lipgloss.Color("81"),
		FooterFG:      lipgloss.Color("244"),
		LabelFG:       lipgloss.Color("81"),
		FocusFG:       lipgloss.Color("214"),
		InputFG:       lipgloss.Color("252"),
		PlaceholderFG: lipgloss.Color("240"),
		StatusFG:      lipgloss.Color("244"),
		ErrorFG:       lipgloss.Color("203"),
	}
}

func themeFromConfigWithBase(cfg ThemeConfig, base Theme) Theme {
	th := base
	set := func(val ColorValue, dst *color.Color) {
		if val != "" {
			*dst = lipgloss.Color(string(val))
		}
	}
	if cfg.BorderStyle != "" {
		th.BorderStyle = normalizeBorderStyle(cfg.BorderStyle)
	}
	set(cfg.BorderFG, &th.BorderFG)
	set(cfg.ItemFG, &th.ItemFG)
	set(cfg.ActiveFG, &th.ActiveFG)
	set(cfg.ActiveBG, &th.ActiveBG)
	set(cfg.HeaderFG, &th.HeaderFG)
	set(cfg.FooterFG, &th.FooterFG)
	set(cfg.LabelFG, &th.LabelFG)
	set(cfg.FocusFG, &th.FocusFG)
	set(cfg.InputFG, &th.InputFG)
	set(cfg.PlaceholderFG, &th.PlaceholderFG)
	set(cfg.StatusFG, &th.StatusFG)
	set(cfg.ErrorFG, &th.ErrorFG)
	return th
}

// ResolveTheme returns the named theme, or the configured default when name is
// empty.
func (c Config) ResolveTheme(name string) (Theme, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSpace(c.Theme.Default)
	}
	if name == "" {
		return fallbackTheme(), nil
	}
	tc, ok := c.Themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(c.ThemeNames(), ", "))
	}
	return themeFromConfigWithBase(tc, fallbackTheme()), nil
}

// ThemeNames lists the configured themes in sorted order.
func (c Config) ThemeNames() []string {
	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeBorderStyle(val string) string {
	switch strings.TrimSpace(strings.ToLower(val)) {
	case "rounded", "round":
		return "rounded"
	default:
		return "normal"
	}
}

func borderForStyle(style string) lipgloss.Border {
	if normalizeBorderStyle(style) == "rounded" {
		return lipgloss.RoundedBorder()
	}
	return lipgloss.NormalBorder()
}

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Frame       lipgloss.Style
	Item        lipgloss.Style
	Active      lipgloss.Style
	Header      lipgloss.Style
	Footer      lipgloss.Style
	Label       lipgloss.Style
	Focus       lipgloss.Style
	Input       lipgloss.Style
	Placeholder lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
}

// NewStyles builds the styles of th. With noColor only layout attributes are
// kept and the active row is marked by reverse video.
func NewStyles(th Theme, noColor bool) Styles {
	border := borderForStyle(th.BorderStyle)
	if noColor {
		return Styles{
			Frame:  lipgloss.NewStyle().Border(border),
			Active: lipgloss.NewStyle().Reverse(true),
			Header: lipgloss.NewStyle().Bold(true),
			Focus:  lipgloss.NewStyle().Bold(true),
		}
	}
	return Styles{
		Frame:       lipgloss.NewStyle().Border(border).BorderForeground(th.BorderFG),
		Item:        lipgloss.NewStyle().Foreground(th.ItemFG),
		Active:      lipgloss.NewStyle().Foreground(th.ActiveFG).Background(th.ActiveBG).Bold(true),
		Header:      lipgloss.NewStyle().Foreground(th.HeaderFG).Bold(true),
		Footer:      lipgloss.NewStyle().Foreground(th.FooterFG).Italic(true),
		Label:       lipgloss.NewStyle().Foreground(th.LabelFG),
		Focus:       lipgloss.NewStyle().Foreground(th.FocusFG).Bold(true),
		Input:       lipgloss.NewStyle().Foreground(th.InputFG),
		Placeholder: lipgloss.NewStyle().Foreground(th.PlaceholderFG),
		Status:      lipgloss.NewStyle().Foreground(th.StatusFG),
		Error:       lipgloss.NewStyle().Foreground(th.ErrorFG),
	}
}
