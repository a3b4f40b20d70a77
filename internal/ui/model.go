package ui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/textcomplete/internal/completer"
	"github.com/oakwood-commons/textcomplete/internal/dropdown"
	"github.com/oakwood-commons/textcomplete/internal/strategy"
)

// Options configures a Model.
type Options struct {
	Config  Config
	Theme   Theme
	NoColor bool
	Width   int
	Height  int
	Logger  logr.Logger
	// Strategies replaces the strategies built from Config.Strategies.
	Strategies []*strategy.Strategy
	// StartKeys are --press tokens sent once the program runs.
	StartKeys []string
}

// Model is the demo screen: a column of inputs sharing one dropdown surface.
type Model struct {
	ctx      context.Context
	cfg      Config
	styles   Styles
	layout   *LayoutManager
	fields   []*Field
	focus    int
	coord    *dropdown.Coordinator
	surfaces *dropdown.SurfaceRegistry
	log      logr.Logger

	spinner  spinner.Model
	spinning bool
	status   string
	err      error
	quitting bool
}

// NewModel builds the fields, completers and dropdowns described by opts.
func NewModel(ctx context.Context, opts Options) (*Model, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	if len(opts.Config.Fields) == 0 {
		return nil, fmt.Errorf("no fields configured")
	}

	strategies := opts.Strategies
	if strategies == nil {
		var err error
		if strategies, err = strategy.BuildAll(opts.Config.Strategies); err != nil {
			return nil, err
		}
	}
	byID := make(map[string]*strategy.Strategy, len(strategies))
	for _, s := range strategies {
		byID[s.ID] = s
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:      ctx,
		cfg:      opts.Config,
		styles:   NewStyles(opts.Theme, opts.NoColor),
		layout:   NewLayoutManager(opts.Width, opts.Height),
		coord:    dropdown.NewCoordinator(),
		surfaces: dropdown.NewSurfaceRegistry(),
		log:      log,
		spinner:  sp,
	}

	keys, err := KeyClassifier(opts.Config.Dropdown.Keymap, opts.Config.Dropdown.Keys)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(opts.Config.Fields))
	for _, fc := range opts.Config.Fields {
		if fc.ID == "" {
			return nil, fmt.Errorf("field id is required")
		}
		if seen[fc.ID] {
			return nil, fmt.Errorf("field %s: duplicate id", fc.ID)
		}
		seen[fc.ID] = true

		fieldStrategies, err := selectStrategies(fc, strategies, byID)
		if err != nil {
			return nil, err
		}
		f := newField(fc, m.layout.NewPanel(fc), completer.New(fc.ID, fieldStrategies, log), log)
		dopts := m.dropdownOptions(fc)
		dopts.OnKeydown = keys
		f.dropdown = dropdown.New(f.box, f, dopts)
		f.completer.Bind(f.dropdown)
		m.fields = append(m.fields, f)
	}
	m.layout.Arrange(m.fields)
	return m, nil
}

func selectStrategies(fc FieldConfig, all []*strategy.Strategy, byID map[string]*strategy.Strategy) ([]*strategy.Strategy, error) {
	if len(fc.Strategies) == 0 {
		return all, nil
	}
	out := make([]*strategy.Strategy, 0, len(fc.Strategies))
	for _, id := range fc.Strategies {
		s, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("field %s: unknown strategy %q", fc.ID, id)
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *Model) dropdownOptions(fc FieldConfig) dropdown.Options {
	dc := m.cfg.Dropdown
	placement := dc.Placement
	if fc.Placement != "" {
		placement = fc.Placement
	}
	header, footer := dc.Header, dc.Footer
	if fc.Header != "" {
		header = fc.Header
	}
	if fc.Footer != "" {
		footer = fc.Footer
	}
	return dropdown.Options{
		AppendTo:        m.layout.Root(),
		ZIndex:          dc.ZIndex,
		Height:          dc.Height,
		MaxCount:        dc.MaxCount,
		Placement:       placement,
		Header:          decoration(header),
		Footer:          decoration(footer),
		ClassName:       dc.ClassName,
		CompleteOnSpace: dc.CompleteOnSpace,
		Coordinator:     m.coord,
		Surfaces:        m.surfaces,
		Logger:          m.log,
	}
}

// decoration renders text, replacing {count} with the number of values shown.
func decoration(text string) dropdown.Decoration {
	if !strings.Contains(text, "{count}") {
		return dropdown.Text(text)
	}
	return func(values []any) string {
		return strings.ReplaceAll(text, "{count}", strconv.Itoa(len(values)))
	}
}

// Fields returns the inputs in layout order.
func (m *Model) Fields() []*Field { return m.fields }

// Focused returns the focused field.
func (m *Model) Focused() *Field { return m.fields[m.focus] }

// Status returns the status line text.
func (m *Model) Status() string { return m.status }

// Err returns the last search error.
func (m *Model) Err() error { return m.err }

// Init focuses the first field.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fields[m.focus].Focus(), textinput.Blink)
}

// Update routes messages to the focused field, its dropdown and the completers.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.SetDimensions(msg.Width, msg.Height)
		m.layout.Arrange(m.fields)
		for _, f := range m.fields {
			if f.dropdown.Shown() {
				f.dropdown.SetPosition(f.Caret())
			}
		}
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)

	case tea.MouseClickMsg:
		return m, m.handleClick(msg.X, msg.Y, msg)

	case tea.MouseMotionMsg:
		if d, block := m.shownDropdown(); d != nil {
			if ev, ok := block.Pointer(msg.X, msg.Y); ok {
				ev.Msg = msg
				d.HandleMouseOver(ev)
			}
		}
		return m, nil

	case tea.MouseWheelMsg:
		if d, block := m.shownDropdown(); d != nil && block.Contains(msg.X, msg.Y) {
			switch msg.Button {
			case tea.MouseWheelUp:
				d.MoveUp()
			case tea.MouseWheelDown:
				d.MoveDown()
			}
		}
		return m, nil

	case completer.ResultsMsg:
		return m, m.handleResults(msg)

	case dropdown.DeferredDeactivateMsg:
		for _, f := range m.fields {
			f.dropdown.Update(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.searching() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	f := m.Focused()
	var cmd tea.Cmd
	f.Input, cmd = f.Input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	f := m.Focused()
	if msg.String() == "ctrl+c" {
		m.quitting = true
		for _, field := range m.fields {
			field.completer.Stop()
		}
		return tea.Quit
	}

	committed := len(f.selected)
	if f.dropdown.HandleKey(msg) {
		if !f.dropdown.Shown() {
			f.completer.Stop()
			if len(f.selected) > committed {
				m.status = m.selectionStatus(f)
			}
		}
		return nil
	}

	switch msg.String() {
	case "tab":
		return m.focusField(m.focus + 1)
	case "shift+tab":
		return m.focusField(m.focus - 1)
	case "esc":
		return nil
	}
	return m.withSpinner(f.update(m.ctx, msg))
}

func (m *Model) handleClick(x, y int, msg tea.MouseClickMsg) tea.Cmd {
	if msg.Button != tea.MouseLeft {
		return nil
	}

	ev := &dropdown.PointerEvent{X: x, Y: y, Msg: msg}
	var cmd tea.Cmd
	if d, block := m.shownDropdown(); d != nil {
		if pe, ok := block.Pointer(x, y); ok {
			pe.Msg = msg
			var handled bool
			if handled, cmd = d.HandleClick(pe); handled {
				ev = pe
				m.status = m.selectionStatus(m.fieldOf(d))
			}
		}
	}
	m.coord.DocumentClick(ev)

	for i, f := range m.fields {
		if f.panel.Contains(x, y) && i != m.focus {
			return tea.Batch(cmd, m.focusField(i))
		}
	}
	return cmd
}

func (m *Model) handleResults(msg completer.ResultsMsg) tea.Cmd {
	for _, f := range m.fields {
		if f.completer.ID() != msg.CompleterID {
			continue
		}
		if msg.Round == f.completer.Round() && len(msg.Candidates) > 0 && !f.dropdown.Shown() {
			m.coord.DeactivateAllExcept(f.dropdown.ID())
		}
		if !f.completer.HandleResults(msg, f.Caret()) {
			return nil
		}
		if msg.Err != nil {
			m.err = msg.Err
			m.status = ""
		} else if f.dropdown.Shown() {
			m.err = nil
			m.status = fmt.Sprintf("%d candidates", len(f.dropdown.Data()))
		}
	}
	return nil
}

// focusField moves focus to field i, wrapping around.
func (m *Model) focusField(i int) tea.Cmd {
	n := len(m.fields)
	i = ((i % n) + n) % n
	if i == m.focus {
		return nil
	}
	m.fields[m.focus].Blur()
	m.focus = i
	return m.fields[i].Focus()
}

// shownDropdown returns the visible dropdown and the block its surface
// occupies on screen.
func (m *Model) shownDropdown() (*dropdown.Controller, SurfaceBlock) {
	for _, f := range m.fields {
		if f.dropdown.Shown() {
			return f.dropdown, BlockFor(f.dropdown.Surface(), m.styles, m.layout.Width(), m.layout.Height())
		}
	}
	return nil, SurfaceBlock{}
}

func (m *Model) fieldOf(d *dropdown.Controller) *Field {
	for _, f := range m.fields {
		if f.dropdown == d {
			return f
		}
	}
	return nil
}

func (m *Model) searching() bool {
	for _, f := range m.fields {
		if f.completer.Pending() > 0 {
			return true
		}
	}
	return false
}

// withSpinner starts the spinner when a search round begins.
func (m *Model) withSpinner(cmd tea.Cmd) tea.Cmd {
	if m.spinning || !m.searching() {
		return cmd
	}
	m.spinning = true
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *Model) selectionStatus(f *Field) string {
	if f == nil {
		return m.status
	}
	sel := f.Selected()
	if len(sel) == 0 {
		return m.status
	}
	return "inserted " + sel[len(sel)-1]
}

// View renders the fields and composites visible surfaces over them, lowest
// z-index first.
func (m *Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	w, h := m.layout.Width(), m.layout.Height()

	lines := make([]string, h)
	lines[0] = m.styles.Header.Render(m.title())
	for _, f := range m.fields {
		if f.panel.Y >= 0 && f.panel.Y < h {
			lines[f.panel.Y] = f.View(m.styles)
		}
	}
	lines[h-1] = m.statusLine()
	view := strings.Join(lines, "\n")

	surfaces := m.surfaces.Surfaces()
	sort.SliceStable(surfaces, func(i, j int) bool {
		return surfaces[i].Style().ZIndex < surfaces[j].Style().ZIndex
	})
	for _, s := range surfaces {
		if block := BlockFor(s, m.styles, w, h); block.Content != "" {
			view = Composite(view, block.Content, block.X, block.Y)
		}
	}

	v := tea.NewView(view)
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	v.KeyboardEnhancements.ReportEventTypes = true
	return v
}

func (m *Model) title() string {
	name := m.cfg.App.Name
	if name == "" {
		name = "textcomplete"
	}
	if m.cfg.App.Description != "" {
		return name + " - " + m.cfg.App.Description
	}
	return name
}

func (m *Model) statusLine() string {
	switch {
	case m.searching():
		return m.styles.Status.Render(m.spinner.View() + " searching")
	case m.err != nil:
		return m.styles.Error.Render(m.err.Error())
	case m.status != "":
		return m.styles.Status.Render(m.status)
	}
	return m.styles.Status.Render("tab: next field  ctrl+c: quit")
}
