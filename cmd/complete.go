package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/textcomplete/internal/completer"
	"github.com/oakwood-commons/textcomplete/internal/dropdown"
	"github.com/oakwood-commons/textcomplete/internal/strategy"
	"github.com/oakwood-commons/textcomplete/pkg/logger"
	"github.com/oakwood-commons/textcomplete/pkg/settings"
)

var (
	completeOutput     string
	completeSelect     int
	completeStrategies []string
)

var completeCmd = &cobra.Command{
	Use:   "complete <text>",
	Short: "Print the candidates for the end of text",
	Long: `complete runs every strategy that matches the end of text concurrently and
prints the dropdown contents: merged in strategy order, without duplicates and
capped at --max-count. With --select N the Nth row is committed and the
rewritten text is printed instead.`,
	Example: "\n  textcomplete complete 'ping @al'\n  textcomplete complete --select 2 'ping @al'\n  textcomplete complete -o json 'str'\n",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run := settings.FromContextOrDefault(rootCtx)
		cfg, err := loadRunConfig(run.ConfigPath, cmd.Flags())
		if err != nil {
			return err
		}
		cfgs := cfg.Strategies
		if len(completeStrategies) > 0 {
			cfgs = selectStrategyConfigs(cfgs, completeStrategies)
			if len(cfgs) == 0 {
				return fmt.Errorf("no strategy matches %s", strings.Join(completeStrategies, ", "))
			}
		}
		strategies, err := strategy.BuildAll(cfgs)
		if err != nil {
			return err
		}

		res, err := complete(cmd, strategies, cfg.Dropdown.MaxCount, args[0], completeSelect)
		if err != nil {
			return err
		}
		return writeCompletion(cmd.OutOrStdout(), completeOutput, res)
	},
}

// completion is the result of a non-interactive run.
type completion struct {
	Text       string          `json:"text" yaml:"text"`
	Candidates []candidateView `json:"candidates" yaml:"candidates"`
	Result     string          `json:"result,omitempty" yaml:"result,omitempty"`
}

type candidateView struct {
	Strategy string `json:"strategy" yaml:"strategy"`
	Term     string `json:"term" yaml:"term"`
	Row      string `json:"row" yaml:"row"`
	Value    any    `json:"value" yaml:"value"`
}

// textHost is a dropdown host without a screen: it keeps the text and
// rewrites it on select.
type textHost struct {
	comp   *completer.Completer
	text   string
	events []string
}

func (h *textHost) ID() string { return "complete" }

func (h *textHost) Select(value any, s *dropdown.Strategy, _ any) {
	if out, ok := h.comp.Apply(h.text, value, s); ok {
		h.text = out
	}
}

func (h *textHost) Fire(event string) { h.events = append(h.events, event) }

// complete searches text with every strategy and renders the results into a
// dropdown. A positive pick commits the pick-th row with the keyboard.
func complete(cmd *cobra.Command, strategies []*strategy.Strategy, maxCount int, text string, pick int) (completion, error) {
	lgr := logger.FromContext(rootCtx)
	res := completion{Text: text, Candidates: []candidateView{}}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = rootCtx
	}
	cands, err := completer.SearchAll(ctx, strategies, text)
	if err != nil {
		return res, fmt.Errorf("search: %w", err)
	}

	host := &textHost{text: text}
	host.comp = completer.New(host.ID(), strategies, *lgr)
	d := dropdown.New(dropdown.NewBox("input", dropdown.PositionStatic, nil), host, dropdown.Options{
		MaxCount: maxCount,
		Logger:   *lgr,
	})
	defer d.Destroy()

	d.Activate()
	d.Render(cands)
	for _, c := range d.Data() {
		row := fmt.Sprint(c.Value)
		if c.Strategy != nil && c.Strategy.Template != nil {
			row = c.Strategy.Template(c.Value, c.Term)
		}
		id := ""
		if c.Strategy != nil {
			id = c.Strategy.ID
		}
		res.Candidates = append(res.Candidates, candidateView{Strategy: id, Term: c.Term, Row: row, Value: c.Value})
	}

	if pick <= 0 {
		return res, nil
	}
	if pick > len(res.Candidates) {
		return res, fmt.Errorf("--select %d: only %d candidates", pick, len(res.Candidates))
	}
	for i := 1; i < pick; i++ {
		d.HandleKey(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	d.HandleKey(tea.KeyPressMsg{Code: tea.KeyEnter})
	res.Result = host.text
	lgr.V(1).Info("completed", "text", text, "result", res.Result, "events", host.events)
	return res, nil
}

func selectStrategyConfigs(cfgs []strategy.Config, ids []string) []strategy.Config {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[strings.TrimSpace(id)] = true
	}
	var out []strategy.Config
	for _, c := range cfgs {
		if want[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

func writeCompletion(w io.Writer, format string, res completion) error {
	switch strings.ToLower(format) {
	case "", "text":
		if res.Result != "" {
			_, err := fmt.Fprintln(w, res.Result)
			return err
		}
		for _, c := range res.Candidates {
			if _, err := fmt.Fprintln(w, c.Row); err != nil {
				return err
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported output %q (expected text, json or yaml)", format)
}

func init() { //nolint:gochecknoinits
	completeCmd.Flags().StringVarP(&completeOutput, "output", "o", "text", "output format: text|json|yaml")
	completeCmd.Flags().IntVar(&completeSelect, "select", 0, "commit the Nth candidate and print the rewritten text")
	completeCmd.Flags().StringSliceVar(&completeStrategies, "strategy", nil, "strategy ids to run (default: all)")
}
