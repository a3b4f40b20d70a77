package completer

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/textcomplete/internal/dropdown"
	"github.com/oakwood-commons/textcomplete/internal/strategy"
)

type host struct {
	id     string
	events []string
}

func (h *host) ID() string                        { return h.id }
func (h *host) Select(any, *dropdown.Strategy, any) {}
func (h *host) Fire(event string)                 { h.events = append(h.events, event) }

func buildStrategies(t *testing.T) []*strategy.Strategy {
	t.Helper()
	strategies, err := strategy.BuildAll([]strategy.Config{
		{ID: "words", Kind: strategy.KindWords, Words: []string{"apple", "apricot", "banana", "band"}},
		{ID: "people", Kind: strategy.KindRecords, Replace: "${1}@{{.Value.name}} "},
	})
	require.NoError(t, err)
	return strategies
}

func newCompleter(t *testing.T, strategies []*strategy.Strategy) (*Completer, *dropdown.Controller) {
	t.Helper()
	c := New("msg", strategies, logr.Discard())
	root := dropdown.NewBox("screen", dropdown.PositionStatic, nil)
	root.SetRect(0, 0, 80, 24)
	input := dropdown.NewBox("input", dropdown.PositionStatic, root)
	d := dropdown.New(input, &host{id: c.ID()}, dropdown.Options{})
	c.Bind(d)
	return c, d
}

// collect runs cmd and the commands it batches, returning the results.
func collect(cmd tea.Cmd) []ResultsMsg {
	if cmd == nil {
		return nil
	}
	var out []ResultsMsg
	switch m := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range m {
			out = append(out, collect(c)...)
		}
	case ResultsMsg:
		out = append(out, m)
	}
	return out
}

func values(d *dropdown.Controller) []any { return d.Values() }

func TestTriggerRendersResults(t *testing.T) {
	c, d := newCompleter(t, buildStrategies(t))
	caret := dropdown.CaretPosition{Top: 3, Left: 6, LineHeight: 1}

	msgs := collect(c.Trigger(context.Background(), "eat ap"))
	require.Len(t, msgs, 1)
	assert.Equal(t, 1, c.Pending())
	assert.Equal(t, "words", msgs[0].StrategyID)

	require.True(t, c.HandleResults(msgs[0], caret))
	assert.True(t, d.Shown())
	assert.Equal(t, []any{"apple", "apricot"}, values(d))
	assert.Equal(t, 0, c.Pending())
	assert.Equal(t, 3, d.Surface().Style().Top.Value, "dropdown follows the caret")
	assert.Equal(t, 6, d.Surface().Style().Left.Value)
}

func TestNextRoundReplacesList(t *testing.T) {
	c, d := newCompleter(t, buildStrategies(t))
	for _, m := range collect(c.Trigger(context.Background(), "ap")) {
		c.HandleResults(m, dropdown.CaretPosition{})
	}
	require.Equal(t, []any{"apple", "apricot"}, values(d))

	for _, m := range collect(c.Trigger(context.Background(), "ban")) {
		c.HandleResults(m, dropdown.CaretPosition{})
	}
	assert.Equal(t, []any{"banana", "band"}, values(d))
	assert.True(t, d.Shown())
}

func TestEmptyResultsHideDropdown(t *testing.T) {
	c, d := newCompleter(t, buildStrategies(t))
	for _, m := range collect(c.Trigger(context.Background(), "ap")) {
		c.HandleResults(m, dropdown.CaretPosition{})
	}
	require.True(t, d.Shown())

	for _, m := range collect(c.Trigger(context.Background(), "zz")) {
		c.HandleResults(m, dropdown.CaretPosition{})
	}
	assert.False(t, d.Shown())
	assert.Empty(t, d.Data())
}

func TestNoMatchingStrategyDeactivates(t *testing.T) {
	c, d := newCompleter(t, buildStrategies(t))
	for _, m := range collect(c.Trigger(context.Background(), "ap")) {
		c.HandleResults(m, dropdown.CaretPosition{})
	}
	require.True(t, d.Shown())

	assert.Nil(t, c.Trigger(context.Background(), "ap "))
	assert.False(t, d.Shown())
	assert.Equal(t, 0, c.Pending())
}

func TestStaleRoundIgnored(t *testing.T) {
	c, d := newCompleter(t, buildStrategies(t))
	stale := collect(c.Trigger(context.Background(), "ap"))
	fresh := collect(c.Trigger(context.Background(), "ban"))

	assert.False(t, c.HandleResults(stale[0], dropdown.CaretPosition{}))
	assert.False(t, d.Shown())
	assert.True(t, c.HandleResults(fresh[0], dropdown.CaretPosition{}))
	assert.Equal(t, []any{"banana", "band"}, values(d))

	other := fresh[0]
	other.CompleterID = "other"
	assert.False(t, c.HandleResults(other, dropdown.CaretPosition{}))
}

func TestSameTextWhileSearchingIsSkipped(t *testing.T) {
	c, _ := newCompleter(t, buildStrategies(t))
	require.NotNil(t, c.Trigger(context.Background(), "ap"))
	assert.Nil(t, c.Trigger(context.Background(), "ap"))
}

func TestMultipleStrategiesMerge(t *testing.T) {
	strategies, err := strategy.BuildAll([]strategy.Config{
		{ID: "tags", Kind: strategy.KindWords, Match: `#(\w+)`, Index: 1, Words: []string{"alpha", "alpine"}},
		{ID: "more-tags", Kind: strategy.KindWords, Match: `#(\w+)`, Index: 1, Words: []string{"alps", "alpha"}},
	})
	require.NoError(t, err)
	c, d := newCompleter(t, strategies)

	msgs := collect(c.Trigger(context.Background(), "#al"))
	require.Len(t, msgs, 2)
	assert.Equal(t, 2, c.Pending())

	c.HandleResults(msgs[0], dropdown.CaretPosition{})
	assert.Equal(t, 1, c.Pending())
	c.HandleResults(msgs[1], dropdown.CaretPosition{})
	assert.Equal(t, 0, c.Pending())

	assert.Equal(t, []any{"alpha", "alpine", "alpha", "alps"}, values(d),
		"equal values from different strategies are both kept")
}

func TestSearchErrorStillRenders(t *testing.T) {
	strategies := buildStrategies(t)
	c, d := newCompleter(t, strategies)
	msgs := collect(c.Trigger(context.Background(), "ap"))
	msgs[0].Candidates = nil
	msgs[0].Err = errors.New("backend down")

	assert.True(t, c.HandleResults(msgs[0], dropdown.CaretPosition{}))
	assert.False(t, d.Shown())
}

func TestStop(t *testing.T) {
	c, d := newCompleter(t, buildStrategies(t))
	msgs := collect(c.Trigger(context.Background(), "ap"))
	c.HandleResults(msgs[0], dropdown.CaretPosition{})
	require.True(t, d.Shown())

	c.Stop()
	assert.False(t, d.Shown())
	assert.False(t, c.HandleResults(msgs[0], dropdown.CaretPosition{}))
}

func TestApply(t *testing.T) {
	strategies := buildStrategies(t)
	c, d := newCompleter(t, strategies)
	for _, m := range collect(c.Trigger(context.Background(), "hi @al")) {
		c.HandleResults(m, dropdown.CaretPosition{})
	}
	data := d.Data()
	require.NotEmpty(t, data)

	full, ok := c.Lookup(data[0].Strategy)
	require.True(t, ok)
	assert.Equal(t, "people", full.ID)

	got, ok := c.Apply("hi @al", data[0].Value, data[0].Strategy)
	require.True(t, ok)
	assert.Equal(t, "hi @alice ", got)

	_, ok = c.Apply("hi", "x", &dropdown.Strategy{ID: "unknown"})
	assert.False(t, ok)
}

func TestSearchAll(t *testing.T) {
	strategies := buildStrategies(t)

	got, err := SearchAll(context.Background(), strategies, "ap")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "apple", got[0].Value)

	got, err = SearchAll(context.Background(), strategies, "nothing matches ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchAllReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	failing := &strategy.Strategy{
		Match: strategies0(t).Match,
		Searcher: strategy.SearchFunc(func(context.Context, string) ([]any, error) {
			return nil, boom
		}),
	}
	failing.ID = "failing"
	_, err := SearchAll(context.Background(), []*strategy.Strategy{strategies0(t), failing}, "ap")
	assert.ErrorIs(t, err, boom)
}

func strategies0(t *testing.T) *strategy.Strategy {
	t.Helper()
	return buildStrategies(t)[0]
}
