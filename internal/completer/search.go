package completer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/oakwood-commons/textcomplete/internal/dropdown"
	"github.com/oakwood-commons/textcomplete/internal/strategy"
)

// SearchAll runs every strategy matching text concurrently and returns the
// candidates in strategy order. The first error cancels the others.
func SearchAll(ctx context.Context, strategies []*strategy.Strategy, text string) ([]dropdown.Candidate, error) {
	results := make([][]dropdown.Candidate, len(strategies))
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range strategies {
		term, ok := s.Term(text)
		if !ok {
			continue
		}
		g.Go(func() error {
			cands, err := s.Search(ctx, term)
			if err != nil {
				return err
			}
			results[i] = cands
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []dropdown.Candidate
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}
