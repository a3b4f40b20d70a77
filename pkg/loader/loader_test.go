package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadData(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
	}{
		{"json object", `{"name": "test", "value": 42}`, 1},
		{"json array", `[1, 2, 3]`, 1},
		{"yaml object", "name: test\nvalue: 42", 1},
		{"yaml list", "- alice\n- bob", 1},
		{"multi-doc yaml", "name: a\n---\nname: b\n---\nname: c", 3},
		{"ndjson", "{\"id\": 1}\n{\"id\": 2}\n\n{\"id\": 3}", 3},
		{"toml table", "[server]\nhost = \"localhost\"", 1},
		{"toml key values", "name = \"x\"\nport = 8080", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadData(tt.input)
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestLoadDataEmpty(t *testing.T) {
	_, err := LoadData("   \n ")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestLoadDataInvalid(t *testing.T) {
	_, err := LoadData(`{"a": `)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}

func TestLoadNDJSONKeepsPlainLines(t *testing.T) {
	got, err := LoadData("{\"id\": 1}\n{\"id\": 2}\nnot json")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "not json", got[2])
}

func TestIsLikelyTOML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"section", "[people]\nid = 1", true},
		{"array of tables", "[[people]]\nid = 1", true},
		{"json array", "[1, 2, 3]", false},
		{"yaml", "name: x\nage: 3", false},
		{"comment lines are skipped", "# header\nname = \"x\"", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isLikelyTOML(tt.input))
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a": 1}`), 0o600))

	got, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, map[string]any{"a": float64(1)}, got[0])

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = LoadFile(empty)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Contains(t, err.Error(), "empty.yaml")
}

func TestLoadReader(t *testing.T) {
	got, err := LoadReader(strings.NewReader("- a\n- b"))
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{"a", "b"}}, got)
}

func TestRecords(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		field   string
		wantIDs []any
		wantErr string
	}{
		{
			name:    "yaml list",
			input:   "- id: 1\n  name: alice\n- id: 2\n  name: bob",
			wantIDs: []any{1, 2},
		},
		{
			name:    "single key wrapper",
			input:   "people:\n  - id: 1\n  - id: 2",
			wantIDs: []any{1, 2},
		},
		{
			name:    "toml array of tables",
			input:   "[[people]]\nid = 1\n\n[[people]]\nid = 2",
			wantIDs: []any{int64(1), int64(2)},
		},
		{
			name:    "ndjson",
			input:   "{\"id\": 1}\n{\"id\": 2}",
			wantIDs: []any{float64(1), float64(2)},
		},
		{
			name:    "multi-doc objects",
			input:   "id: 1\n---\nid: 2",
			wantIDs: []any{1, 2},
		},
		{
			name:    "named field",
			input:   "title: team\nmembers:\n  - id: 7",
			field:   "members",
			wantIDs: []any{7},
		},
		{
			name:    "missing field",
			input:   "title: team",
			field:   "members",
			wantErr: "missing field",
		},
		{
			name:    "scalar list",
			input:   "- a\n- b",
			wantErr: "want an object",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadRecords(tt.input, tt.field)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			ids := make([]any, len(got))
			for i, r := range got {
				ids[i] = r["id"]
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestLoadRecordsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[people]]\nid = 1\nname = \"alice\""), 0o600))

	got, err := LoadRecordsFile(path, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0]["name"])
}

func TestWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"lines", "alpha\nbeta\ngamma", []string{"alpha", "beta", "gamma"}},
		{"whitespace and comments", "# fruit\napple banana\n\n  cherry", []string{"apple", "banana", "cherry"}},
		{"yaml list", "- one\n- two", []string{"one", "two"}},
		{"json list", `["x", "y", "x"]`, []string{"x", "y"}},
		{"duplicates", "a b a c b", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Words(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Words("")
	assert.ErrorIs(t, err, ErrEmptyInput)
}
