package ui

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTheme(t *testing.T) {
	cfg, err := EmbeddedDefaultConfig()
	require.NoError(t, err)

	dark, err := cfg.ResolveTheme("")
	require.NoError(t, err)
	assert.Equal(t, "rounded", dark.BorderStyle)
	assert.Equal(t, lipgloss.Color("24"), dark.ActiveBG)

	light, err := cfg.ResolveTheme(" light ")
	require.NoError(t, err)
	assert.Equal(t, "normal", light.BorderStyle)
	assert.Equal(t, lipgloss.Color("31"), light.ActiveBG)

	_, err = cfg.ResolveTheme("neon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: dark, light")

	th, err := Config{}.ResolveTheme("")
	require.NoError(t, err)
	assert.Equal(t, fallbackTheme(), th)
}

func TestThemeFromConfigKeepsBase(t *testing.T) {
	base := fallbackTheme()
	th := themeFromConfigWithBase(ThemeConfig{ItemFG: "196"}, base)
	assert.Equal(t, lipgloss.Color("196"), th.ItemFG)
	assert.Equal(t, base.ActiveBG, th.ActiveBG)
	assert.Equal(t, base.BorderStyle, th.BorderStyle)
}

func TestNormalizeBorderStyle(t *testing.T) {
	tests := map[string]string{
		"":        "normal",
		"square":  "normal",
		"Rounded": "rounded",
		" round ": "rounded",
		"double":  "normal",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, normalizeBorderStyle(in))
		})
	}
}

func TestNewStylesNoColor(t *testing.T) {
	st := NewStyles(fallbackTheme(), true)
	assert.Equal(t, "x", st.Item.Render("x"))
	assert.NotEqual(t, "x", st.Active.Render("x"), "the active row stays visible without color")
}
