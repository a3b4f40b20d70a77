package strategy

import (
	"context"
	"sort"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

// WordIndex is a case-insensitive prefix index over a word list.
type WordIndex struct {
	trie *patricia.Trie
	size int
}

// NewWordIndex indexes words. When two words fold to the same lowercase key
// the first one is kept.
func NewWordIndex(words []string) *WordIndex {
	idx := &WordIndex{trie: patricia.NewTrie()}
	for _, w := range words {
		if w == "" {
			continue
		}
		if idx.trie.Insert(patricia.Prefix(strings.ToLower(w)), w) {
			idx.size++
		}
	}
	return idx
}

// Len returns the number of indexed words.
func (w *WordIndex) Len() int { return w.size }

// Search returns the words starting with term, sorted, excluding the word
// equal to term itself.
func (w *WordIndex) Search(ctx context.Context, term string) ([]any, error) {
	lower := strings.ToLower(term)
	var words []string
	err := w.trie.VisitSubtree(patricia.Prefix(lower), func(p patricia.Prefix, item patricia.Item) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if string(p) == lower {
			return nil
		}
		if word, ok := item.(string); ok {
			words = append(words, word)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(words, func(i, j int) bool {
		return strings.ToLower(words[i]) < strings.ToLower(words[j])
	})

	out := make([]any, len(words))
	for i, word := range words {
		out[i] = word
	}
	return out, nil
}
