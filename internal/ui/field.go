package ui

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/textcomplete/internal/completer"
	"github.com/oakwood-commons/textcomplete/internal/dropdown"
)

const (
	labelSeparator = ": "
	maxFieldEvents = 20
)

// Field is one text input with its completer and dropdown. It is the
// dropdown's host: committed values are spliced into the input at the caret.
type Field struct {
	cfg   FieldConfig
	Input textinput.Model

	completer *completer.Completer
	dropdown  *dropdown.Controller
	panel     *dropdown.Box
	box       *dropdown.Box
	log       logr.Logger

	events   []string
	selected []string
}

func newField(cfg FieldConfig, panel *dropdown.Box, comp *completer.Completer, log logr.Logger) *Field {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = cfg.Placeholder
	ti.CharLimit = 500
	ti.SetWidth(40)

	return &Field{
		cfg:       cfg,
		Input:     ti,
		completer: comp,
		panel:     panel,
		box:       dropdown.NewBox(cfg.ID+"-input", dropdown.PositionStatic, panel),
		log:       log.WithValues("field", cfg.ID),
	}
}

// ID identifies the field; the dropdown id is derived from it.
func (f *Field) ID() string { return f.cfg.ID }

// Label returns the text shown before the input.
func (f *Field) Label() string {
	if f.cfg.Label != "" {
		return f.cfg.Label
	}
	return f.cfg.ID
}

// Dropdown returns the field's dropdown.
func (f *Field) Dropdown() *dropdown.Controller { return f.dropdown }

// Completer returns the field's completer.
func (f *Field) Completer() *completer.Completer { return f.completer }

// Box returns the layout node of the input.
func (f *Field) Box() *dropdown.Box { return f.box }

// Events returns the lifecycle notifications received, oldest first.
func (f *Field) Events() []string { return append([]string(nil), f.events...) }

// Selected returns the rows committed so far, rendered with their strategy
// template.
func (f *Field) Selected() []string { return append([]string(nil), f.selected...) }

// Select splices a committed value into the text before the caret.
func (f *Field) Select(value any, s *dropdown.Strategy, ev any) {
	runes := []rune(f.Input.Value())
	pos := f.Input.Position()
	if pos > len(runes) {
		pos = len(runes)
	}
	before, after := string(runes[:pos]), string(runes[pos:])

	replaced, ok := f.completer.Apply(before, value, s)
	if !ok {
		f.log.V(1).Info("select ignored: strategy no longer matches", "strategy", s.ID)
		return
	}
	f.Input.SetValue(replaced + after)
	f.Input.SetCursor(len([]rune(replaced)))
	label := fmt.Sprint(value)
	if s.Template != nil {
		label = s.Template(value, "")
	}
	f.selected = append(f.selected, label)
	f.log.V(1).Info("selected", "strategy", s.ID, "trigger", fmt.Sprintf("%T", ev))
}

// Fire records a lifecycle notification.
func (f *Field) Fire(event string) {
	f.events = append(f.events, event)
	if len(f.events) > maxFieldEvents {
		f.events = f.events[len(f.events)-maxFieldEvents:]
	}
	f.log.V(1).Info("event", "name", event)
}

// TextBeforeCaret returns the input text up to the cursor.
func (f *Field) TextBeforeCaret() string {
	runes := []rune(f.Input.Value())
	pos := f.Input.Position()
	if pos > len(runes) {
		pos = len(runes)
	}
	return string(runes[:pos])
}

// Caret returns the caret position in the frame the dropdown resolves its
// offsets against: the screen for fixed surfaces, the mount box otherwise.
func (f *Field) Caret() dropdown.CaretPosition {
	left := f.box.X + runewidth.StringWidth(f.TextBeforeCaret())
	if f.box.W > 0 && left >= f.box.X+f.box.W {
		left = f.box.X + f.box.W - 1
	}
	top := f.box.Y + 1

	if dropdown.ResolvePositionMode(f.box) != dropdown.PositionFixed {
		if mount, ok := f.dropdown.Surface().Mount().(*dropdown.Box); ok && mount != nil {
			left -= mount.X
			top -= mount.Y
		}
	}
	return dropdown.CaretPosition{Top: top, Left: left, LineHeight: 1}
}

// Focus focuses the input.
func (f *Field) Focus() tea.Cmd { return f.Input.Focus() }

// Blur blurs the input and stops its completion.
func (f *Field) Blur() {
	f.Input.Blur()
	f.completer.Stop()
}

// Focused reports whether the input has focus.
func (f *Field) Focused() bool { return f.Input.Focused() }

// update feeds msg to the input and starts a search round when the text
// before the caret changed.
func (f *Field) update(ctx context.Context, msg tea.Msg) tea.Cmd {
	before := f.TextBeforeCaret()
	var cmd tea.Cmd
	f.Input, cmd = f.Input.Update(msg)
	if after := f.TextBeforeCaret(); after != before {
		return tea.Batch(cmd, f.completer.Trigger(ctx, after))
	}
	return cmd
}

// View renders the label and the input on one row.
func (f *Field) View(st Styles) string {
	label := st.Label.Render(f.Label() + labelSeparator)
	if f.Focused() {
		label = st.Focus.Render(f.Label() + labelSeparator)
	}
	return label + f.Input.View()
}

// labelWidth is the number of cells before the input text.
func (f *Field) labelWidth() int {
	return runewidth.StringWidth(f.Label() + labelSeparator)
}
