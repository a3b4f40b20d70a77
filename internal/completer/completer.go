// Package completer drives a dropdown from the text of a host input: it runs
// the strategies whose pattern matches the text before the caret and feeds the
// results to the dropdown as they arrive.
package completer

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/textcomplete/internal/dropdown"
	"github.com/oakwood-commons/textcomplete/internal/strategy"
)

// ResultsMsg carries one strategy's candidates for a search round.
type ResultsMsg struct {
	CompleterID string
	Round       uint64
	StrategyID  string
	Candidates  []dropdown.Candidate
	Err         error
}

// Completer owns the search rounds of one input.
type Completer struct {
	id         string
	strategies []*strategy.Strategy
	byIdentity map[*dropdown.Strategy]*strategy.Strategy
	dropdown   *dropdown.Controller
	log        logr.Logger

	round       uint64
	pending     int
	clearAtNext bool
	lastText    string
	cancel      context.CancelFunc
}

// New creates a completer over strategies. Strategies are tried in order.
func New(id string, strategies []*strategy.Strategy, log logr.Logger) *Completer {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	c := &Completer{
		id:         id,
		strategies: strategies,
		byIdentity: make(map[*dropdown.Strategy]*strategy.Strategy, len(strategies)),
		log:        log.WithValues("completer", id),
	}
	for _, s := range strategies {
		c.byIdentity[&s.Strategy] = s
	}
	return c
}

// ID identifies the completer; its dropdown id is derived from it.
func (c *Completer) ID() string { return c.id }

// Bind attaches the dropdown the completer renders into.
func (c *Completer) Bind(d *dropdown.Controller) { c.dropdown = d }

// Dropdown returns the bound dropdown.
func (c *Completer) Dropdown() *dropdown.Controller { return c.dropdown }

// Round returns the current search round. Results of other rounds are stale.
func (c *Completer) Round() uint64 { return c.round }

// Pending returns the number of searches of the current round still running.
func (c *Completer) Pending() int { return c.pending }

// Lookup maps a candidate's strategy back to its full strategy.
func (c *Completer) Lookup(s *dropdown.Strategy) (*strategy.Strategy, bool) {
	full, ok := c.byIdentity[s]
	return full, ok
}

// Trigger starts a search round for the text before the caret. The returned
// command runs the matching strategies; each reports a ResultsMsg. Text no
// strategy matches hides the dropdown.
func (c *Completer) Trigger(ctx context.Context, text string) tea.Cmd {
	if text == c.lastText && c.pending > 0 {
		return nil
	}
	c.lastText = text
	c.stop()
	c.round++

	type match struct {
		s    *strategy.Strategy
		term string
	}
	var matches []match
	for _, s := range c.strategies {
		if term, ok := s.Term(text); ok {
			matches = append(matches, match{s: s, term: term})
		}
	}
	if len(matches) == 0 {
		c.pending = 0
		if c.dropdown != nil {
			c.dropdown.Deactivate()
		}
		return nil
	}

	ctx, c.cancel = context.WithCancel(ctx)
	c.pending = len(matches)
	c.clearAtNext = true
	c.log.V(1).Info("search started", "round", c.round, "strategies", len(matches))

	cmds := make([]tea.Cmd, 0, len(matches))
	for _, m := range matches {
		cmds = append(cmds, c.searchCmd(ctx, c.round, m.s, m.term))
	}
	return tea.Batch(cmds...)
}

// Stop cancels the running round and hides the dropdown.
func (c *Completer) Stop() {
	c.stop()
	c.round++
	c.pending = 0
	c.lastText = ""
	if c.dropdown != nil {
		c.dropdown.Deactivate()
	}
}

func (c *Completer) stop() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Completer) searchCmd(ctx context.Context, round uint64, s *strategy.Strategy, term string) tea.Cmd {
	return func() tea.Msg {
		cands, err := s.Search(ctx, term)
		return ResultsMsg{
			CompleterID: c.id,
			Round:       round,
			StrategyID:  s.ID,
			Candidates:  cands,
			Err:         err,
		}
	}
}

// HandleResults applies a ResultsMsg. It returns false for messages of other
// completers and of superseded rounds. The first results of a round replace
// the previous list; later ones are merged into it.
func (c *Completer) HandleResults(msg ResultsMsg, caret dropdown.CaretPosition) bool {
	if msg.CompleterID != c.id || msg.Round != c.round || c.dropdown == nil {
		return false
	}
	if c.pending > 0 {
		c.pending--
	}
	if c.pending == 0 {
		c.stop()
	}
	if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
		c.log.Error(msg.Err, "search failed", "strategy", msg.StrategyID)
	}

	if len(msg.Candidates) > 0 && !c.dropdown.Shown() {
		c.dropdown.Activate()
	}
	if c.clearAtNext {
		c.dropdown.Clear()
		c.clearAtNext = false
	}
	c.dropdown.SetPosition(caret)
	c.dropdown.Render(msg.Candidates)
	return true
}

// Apply rewrites text for a value committed from the dropdown.
func (c *Completer) Apply(text string, value any, s *dropdown.Strategy) (string, bool) {
	full, ok := c.Lookup(s)
	if !ok {
		return text, false
	}
	return full.Apply(text, value)
}
