package strategy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mention(t *testing.T) *Strategy {
	t.Helper()
	s, err := Build(Config{
		ID:      "mention",
		Kind:    KindRecords,
		Replace: "${1}@{{.Value.name}} ",
	})
	require.NoError(t, err)
	return s
}

func TestTerm(t *testing.T) {
	s := mention(t)
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"hello @al", "al", true},
		{"@", "", true},
		{"hello @al there", "", false},
		{"mail@al", "", false},
		{"plain", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := s.Term(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchWrapsCandidates(t *testing.T) {
	s := mention(t)
	got, err := s.Search(context.Background(), "al")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, c := range got {
		assert.Same(t, &s.Strategy, c.Strategy)
		assert.Equal(t, "al", c.Term)
	}
	assert.Equal(t, "alice", got[0].Value.(map[string]any)["name"])
	assert.Equal(t, "alfred", got[1].Value.(map[string]any)["name"])
}

func TestSearchLimit(t *testing.T) {
	s, err := Build(Config{ID: "w", Kind: KindWords, Words: []string{"apple", "apricot", "april", "avocado"}, Limit: 2})
	require.NoError(t, err)
	got, err := s.Search(context.Background(), "ap")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSearchError(t *testing.T) {
	boom := errors.New("boom")
	s := &Strategy{
		Match: regexp.MustCompile(`(\w+)$`),
		Searcher: SearchFunc(func(context.Context, string) ([]any, error) {
			return nil, boom
		}),
	}
	s.ID = "failing"
	_, err := s.Search(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failing")
}

func TestApply(t *testing.T) {
	t.Run("replace template", func(t *testing.T) {
		s := mention(t)
		got, ok := s.Apply("hi @al", map[string]any{"name": "alice"})
		require.True(t, ok)
		assert.Equal(t, "hi @alice ", got)
	})

	t.Run("replace at start", func(t *testing.T) {
		s := mention(t)
		got, ok := s.Apply("@b", map[string]any{"name": "bob"})
		require.True(t, ok)
		assert.Equal(t, "@bob ", got)
	})

	t.Run("default replaces the term", func(t *testing.T) {
		s, err := Build(Config{ID: "w", Kind: KindWords, Words: []string{"textcomplete"}})
		require.NoError(t, err)
		got, ok := s.Apply("use text", "textcomplete")
		require.True(t, ok)
		assert.Equal(t, "use textcomplete ", got)
	})

	t.Run("no longer matches", func(t *testing.T) {
		s := mention(t)
		got, ok := s.Apply("hi there", "x")
		assert.False(t, ok)
		assert.Equal(t, "hi there", got)
	})
}

func TestRowTemplate(t *testing.T) {
	s, err := Build(Config{
		ID:       "people",
		Kind:     KindRecords,
		Template: `{{.Value.name}} <{{.Value.email}}> [{{upper .Term}}]`,
	})
	require.NoError(t, err)
	got := s.Template(map[string]any{"name": "bob", "email": "bob@example.com"}, "bo")
	assert.Equal(t, "bob <bob@example.com> [BO]", got)

	// Executing against a value without fields falls back to its text.
	assert.Equal(t, "plain", s.Template("plain", ""))
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
		wantMsg string
	}{
		{"missing id", Config{Kind: KindWords}, ErrMissingID, ""},
		{"unknown kind", Config{ID: "x", Kind: "emoji"}, ErrUnknownKind, ""},
		{"bad match", Config{ID: "x", Kind: KindWords, Match: `(`}, nil, "invalid match"},
		{"index out of range", Config{ID: "x", Kind: KindWords, Match: `(\w+)`, Index: 3}, nil, "out of range"},
		{"bad template", Config{ID: "x", Kind: KindWords, Template: `{{.Value`}, nil, "parse"},
		{"missing source", Config{ID: "x", Kind: KindRecords, Source: "/does/not/exist.yaml"}, os.ErrNotExist, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.cfg)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestBuildDefaults(t *testing.T) {
	words, err := Build(Config{ID: "words", Kind: KindWords})
	require.NoError(t, err)
	assert.Empty(t, words.IDProperty)
	assert.Equal(t, 2, words.Index)
	assert.Greater(t, words.Searcher.(*WordIndex).Len(), 100)

	people, err := Build(Config{ID: "people", Kind: KindRecords})
	require.NoError(t, err)
	assert.Equal(t, "id", people.IDProperty)
	assert.Equal(t, 12, people.Searcher.(*RecordIndex).Len())

	funcs, err := Build(Config{ID: "cel", Kind: KindFunctions})
	require.NoError(t, err)
	assert.Equal(t, "name", funcs.IDProperty)

	custom, err := Build(Config{ID: "c", Kind: KindWords, Match: `#(\w+)`, Index: 1})
	require.NoError(t, err)
	assert.Equal(t, `#(\w+)$`, custom.Match.String(), "match is anchored at the caret")
}

func TestBuildAll(t *testing.T) {
	got, err := BuildAll([]Config{
		{ID: "a", Kind: KindWords, Words: []string{"x"}},
		{ID: "b", Kind: KindRecords},
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = BuildAll([]Config{
		{ID: "a", Kind: KindWords, Words: []string{"x"}},
		{ID: "a", Kind: KindWords, Words: []string{"y"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestBuildFromSourceFiles(t *testing.T) {
	dir := t.TempDir()
	wordsPath := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(wordsPath, []byte("zeta\nzebra zulu"), 0o600))
	recordsPath := filepath.Join(dir, "team.json")
	require.NoError(t, os.WriteFile(recordsPath, []byte(`{"members": [{"id": "u1", "login": "zoe"}]}`), 0o600))

	words, err := Build(Config{ID: "w", Kind: KindWords, Source: wordsPath})
	require.NoError(t, err)
	got, err := words.Search(context.Background(), "ze")
	require.NoError(t, err)
	assert.Equal(t, []any{"zebra", "zeta"}, values(got))

	team, err := Build(Config{ID: "t", Kind: KindRecords, Source: recordsPath, Field: "members", SearchField: "login"})
	require.NoError(t, err)
	got, err = team.Search(context.Background(), "Z")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].Value.(map[string]any)["id"])
}
