package ui

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStartupKeys(t *testing.T) {
	got := ParseStartupKeys([]string{"@al<Down><CR>", "", `\<Tab>`, "<C-n><S-Tab>"})
	names := make([]string, len(got))
	for i, k := range got {
		names[i] = k.String()
	}
	assert.Equal(t, []string{
		"@", "a", "l", "down", "enter",
		"<", "T", "a", "b", ">",
		"ctrl+n", "shift+tab",
	}, names)
}

func TestParseTokenSegments(t *testing.T) {
	tests := []struct {
		token string
		want  []tokenSegment
	}{
		{"abc", []tokenSegment{{text: "abc"}}},
		{"<Esc>", []tokenSegment{{text: "<Esc>", isKey: true}}},
		{"x<Up>y", []tokenSegment{{text: "x"}, {text: "<Up>", isKey: true}, {text: "y"}}},
		{"a<b", []tokenSegment{{text: "a"}, {text: "<b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, parseTokenSegments(tt.token))
		})
	}
}

func TestUnknownKeyTokenIsLiteral(t *testing.T) {
	got := ParseStartupKeys([]string{"<Nope>"})
	require.Len(t, got, len("<Nope>"))
	assert.Equal(t, tea.KeyPressMsg{Code: '<', Text: "<"}, got[0])
}

func TestStartupKeysDriveModel(t *testing.T) {
	m := newTestModel(t)
	for _, k := range ParseStartupKeys([]string{"@al<Down><Enter>"}) {
		send(m, k)
	}
	assert.Equal(t, "@alfred ", m.Fields()[0].Input.Value())
}
