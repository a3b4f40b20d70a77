package dropdown

import (
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
)

// Notifications passed to Host.Fire.
const (
	EventShown  = "textComplete:show"
	EventHidden = "textComplete:hide"
)

// DefaultMaxCount is the buffer cap used when Options.MaxCount is not positive.
const DefaultMaxCount = 10

// Host is the text editing component a dropdown completes for.
type Host interface {
	// ID identifies the host; the dropdown id is derived from it.
	ID() string
	// Select receives the committed value and the event that committed it.
	Select(value any, strategy *Strategy, ev any)
	// Fire receives lifecycle notifications.
	Fire(event string)
}

// Decoration renders a header or footer from the displayed values.
type Decoration func(values []any) string

// Text returns a Decoration that always renders s. An empty s yields nil, so
// no region is created.
func Text(s string) Decoration {
	if s == "" {
		return nil
	}
	return func([]any) string { return s }
}

// Options configures a Controller.
type Options struct {
	// AppendTo is the container the surface is mounted on. Defaults to the
	// root of the input's layout tree.
	AppendTo Container
	ZIndex   int
	// Height caps the visible rows of the surface.
	Height   int
	MaxCount int
	// Placement combines the top, absleft and absright tokens.
	Placement       string
	Header          Decoration
	Footer          Decoration
	ClassName       string
	CompleteOnSpace bool
	// OnKeydown is consulted before the default key bindings.
	OnKeydown KeyCommandClassifier
	// ListPosition replaces the placement routine.
	ListPosition PositionStrategy

	Coordinator *Coordinator
	Surfaces    *SurfaceRegistry
	Logger      logr.Logger
}

// DeferredDeactivateMsg asks a controller to hide on the loop turn after a
// click commit.
type DeferredDeactivateMsg struct {
	ID  string
	Seq uint64
}

// Controller is the dropdown of one host input.
type Controller struct {
	id       string
	input    Container
	host     Host
	mount    Container
	surface  *Surface
	coord    *Coordinator
	surfaces *SurfaceRegistry
	log      logr.Logger

	maxCount   int
	header     Decoration
	footer     Decoration
	className  string
	classifier KeyCommandClassifier
	positioner PositionStrategy

	data      []Candidate
	index     int
	headerEl  *Element
	footerEl  *Element
	shown     bool
	destroyed bool

	deferSeq     uint64
	deferPending bool
}

// New builds the dropdown for input and registers it with the coordinator.
func New(input Container, host Host, opts Options) *Controller {
	c := &Controller{
		id:        host.ID() + "dropdown",
		input:     input,
		host:      host,
		mount:     opts.AppendTo,
		coord:     opts.Coordinator,
		surfaces:  opts.Surfaces,
		log:       opts.Logger,
		maxCount:  opts.MaxCount,
		header:    opts.Header,
		footer:    opts.Footer,
		className: opts.ClassName,
	}
	if c.mount == nil {
		c.mount = rootOf(input)
	}
	if c.coord == nil {
		c.coord = NewCoordinator()
	}
	if c.surfaces == nil {
		c.surfaces = NewSurfaceRegistry()
	}
	if c.log.GetSink() == nil {
		c.log = logr.Discard()
	}
	if c.maxCount <= 0 {
		c.maxCount = DefaultMaxCount
	}

	c.classifier = chainClassifier{
		override: opts.OnKeydown,
		fallback: DefaultClassifier{CompleteOnSpace: opts.CompleteOnSpace},
	}
	c.positioner = opts.ListPosition
	if c.positioner == nil {
		c.positioner = PlacementPositioner{Placement: ParsePlacement(opts.Placement)}
	}

	c.surface = c.surfaces.Acquire(c.mount, opts.ZIndex)
	if opts.Height > 0 {
		c.surface.SetHeight(opts.Height)
	}
	c.coord.Register(c)
	c.log = c.log.WithValues("dropdown", c.id)
	return c
}

func (c *Controller) ID() string { return c.id }

// Shown reports whether the dropdown is visible.
func (c *Controller) Shown() bool { return c.shown }

// Surface returns the surface the dropdown renders into.
func (c *Controller) Surface() *Surface { return c.surface }

// Input returns the host input container.
func (c *Controller) Input() Container { return c.input }

// Index returns the cursor position.
func (c *Controller) Index() int { return c.index }

// MaxCount returns the buffer cap.
func (c *Controller) MaxCount() int { return c.maxCount }

// Data returns a copy of the display buffer.
func (c *Controller) Data() []Candidate {
	out := make([]Candidate, len(c.data))
	copy(out, c.data)
	return out
}

// Values returns the buffered values in display order.
func (c *Controller) Values() []any {
	values := make([]any, len(c.data))
	for i, d := range c.data {
		values[i] = d.Value
	}
	return values
}

// Destroy deactivates the dropdown, drops its state and unregisters it. The
// surface is left in place for other controllers.
func (c *Controller) Destroy() {
	if c.destroyed {
		return
	}
	c.Deactivate()
	c.CancelDeferred()
	c.Clear()
	c.coord.Unregister(c.id)
	c.surfaces.Release(c.mount)
	c.destroyed = true
	c.log.V(1).Info("dropdown destroyed")
}

// Render merges candidates into the display buffer and appends rows for the
// ones accepted. An empty buffer collapses a shown dropdown.
func (c *Controller) Render(candidates []Candidate) {
	added := c.buildContents(candidates)
	if len(c.data) == 0 {
		if c.shown {
			c.Deactivate()
		}
		return
	}

	values := c.Values()
	c.renderHeader(values)
	c.renderFooter(values)
	if len(added) > 0 {
		c.renderContents(added)
		c.activateIndexedItem()
	}
	c.setScroll()
	c.log.V(1).Info("rendered", "offered", len(candidates), "added", len(added), "buffered", len(c.data))
}

// SetPosition places the surface for the caret.
func (c *Controller) SetPosition(pos CaretPosition) {
	c.positioner.SetPosition(c.surface, c.input, pos)
}

// Clear empties the surface and the display buffer.
func (c *Controller) Clear() {
	c.surface.Empty()
	c.data = nil
	c.index = 0
	c.headerEl = nil
	c.footerEl = nil
}

// Activate shows the dropdown with an empty list.
func (c *Controller) Activate() {
	if c.shown {
		return
	}
	c.Clear()
	c.surface.Show()
	c.surface.AddClass(c.className)
	c.host.Fire(EventShown)
	c.shown = true
	c.log.V(1).Info("activated")
}

// Deactivate hides the dropdown.
func (c *Controller) Deactivate() {
	if !c.shown {
		return
	}
	c.surface.Hide()
	if c.className != "" {
		c.surface.RemoveClass(c.className)
	}
	c.host.Fire(EventHidden)
	c.shown = false
	c.log.V(1).Info("deactivated")
}

// HandleKey applies a key press. handled is true when the key was turned into
// a command and must not reach the input.
func (c *Controller) HandleKey(msg tea.KeyPressMsg) (handled bool) {
	if c.destroyed || !c.shown {
		return false
	}

	cmd, ok := c.classifier.Classify(msg)
	if !ok || cmd == CommandNone {
		return false
	}

	switch cmd {
	case CommandUp:
		c.up()
	case CommandDown:
		c.down()
	case CommandEnter:
		c.enter(msg)
	case CommandPageUp:
		c.pageUp()
	case CommandPageDown:
		c.pageDown()
	case CommandEscape:
		c.Deactivate()
	}
	return true
}

// HandleClick commits the item under the pointer. The returned command
// delivers the deferred deactivation; ev is tagged so the coordinator keeps
// this dropdown when it processes the same click.
func (c *Controller) HandleClick(ev *PointerEvent) (bool, tea.Cmd) {
	if c.destroyed || !c.shown || ev == nil {
		return false, nil
	}
	el := c.surface.ElementAtRow(ev.Y)
	if el == nil || el.Kind != ItemElement || el.Index >= len(c.data) {
		return false, nil
	}

	ev.KeepDropdown = c.id
	datum := c.data[el.Index]
	c.host.Select(datum.Value, datum.Strategy, ev)
	return true, c.deferDeactivate()
}

// HandleMouseOver highlights the item under the pointer.
func (c *Controller) HandleMouseOver(ev *PointerEvent) bool {
	if c.destroyed || !c.shown || ev == nil {
		return false
	}
	el := c.surface.ElementAtRow(ev.Y)
	if el == nil || el.Kind != ItemElement {
		return false
	}
	c.index = el.Index
	c.activateIndexedItem()
	return true
}

// Update applies messages addressed to the controller.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(DeferredDeactivateMsg); ok && m.ID == c.id {
		if c.deferPending && m.Seq == c.deferSeq {
			c.deferPending = false
			c.Deactivate()
		}
	}
	return nil
}

// DeferredPending reports whether a click commit is waiting to hide the
// dropdown.
func (c *Controller) DeferredPending() bool { return c.deferPending }

// CancelDeferred drops a pending deferred deactivation.
func (c *Controller) CancelDeferred() {
	c.deferPending = false
	c.deferSeq++
}

func (c *Controller) deferDeactivate() tea.Cmd {
	c.deferSeq++
	c.deferPending = true
	msg := DeferredDeactivateMsg{ID: c.id, Seq: c.deferSeq}
	return func() tea.Msg { return msg }
}

// MoveUp moves the cursor to the previous item, wrapping at the top. It
// bypasses key classification and does nothing while hidden.
func (c *Controller) MoveUp() {
	if c.shown {
		c.up()
	}
}

// MoveDown moves the cursor to the next item, wrapping at the bottom.
func (c *Controller) MoveDown() {
	if c.shown {
		c.down()
	}
}

func (c *Controller) up() {
	if len(c.data) == 0 {
		return
	}
	if c.index == 0 {
		c.index = len(c.data) - 1
	} else {
		c.index--
	}
	c.activateIndexedItem()
	c.setScroll()
}

func (c *Controller) down() {
	if len(c.data) == 0 {
		return
	}
	if c.index == len(c.data)-1 {
		c.index = 0
	} else {
		c.index++
	}
	c.activateIndexedItem()
	c.setScroll()
}

func (c *Controller) enter(ev any) {
	el := c.activeElement()
	if el == nil || el.Index >= len(c.data) {
		return
	}
	datum := c.data[el.Index]
	c.host.Select(datum.Value, datum.Strategy, ev)
	c.Deactivate()
}

func (c *Controller) pageUp() {
	active := c.activeElement()
	if active == nil {
		return
	}
	target := 0
	threshold := c.surface.ElementTop(active) - c.surface.InnerHeight()
	for i, el := range c.surface.Items() {
		if c.surface.ElementTop(el)+el.Height() > threshold {
			target = i
			break
		}
	}
	c.index = target
	c.activateIndexedItem()
	c.setScroll()
}

func (c *Controller) pageDown() {
	active := c.activeElement()
	if active == nil {
		return
	}
	items := c.surface.Items()
	target := len(items) - 1
	threshold := c.surface.ElementTop(active) + c.surface.InnerHeight()
	for i, el := range items {
		if c.surface.ElementTop(el) > threshold {
			target = i
			break
		}
	}
	c.index = target
	c.activateIndexedItem()
	c.setScroll()
}

func (c *Controller) activateIndexedItem() {
	for i, el := range c.surface.Items() {
		el.active = i == c.index
	}
}

func (c *Controller) activeElement() *Element {
	items := c.surface.Items()
	if c.index < 0 || c.index >= len(items) {
		return nil
	}
	return items[c.index]
}

// setScroll brings the active item into view. The first and last items, and
// items above the viewport, are aligned to the top; items below it are aligned
// to the bottom.
func (c *Controller) setScroll() {
	el := c.activeElement()
	if el == nil {
		return
	}
	itemTop := c.surface.ElementTop(el)
	itemHeight := el.Height()
	visibleHeight := c.surface.InnerHeight()
	visibleTop := c.surface.ScrollTop()

	if c.index == 0 || c.index == len(c.data)-1 || itemTop < 0 {
		c.surface.SetScrollTop(itemTop + visibleTop)
	} else if itemTop+itemHeight > visibleHeight {
		c.surface.SetScrollTop(itemTop + itemHeight + visibleTop - visibleHeight)
	}
}

func (c *Controller) buildContents(candidates []Candidate) []*Element {
	var added []*Element
	for _, cand := range candidates {
		if len(c.data) >= c.maxCount {
			break
		}
		if includes(c.data, cand) {
			continue
		}
		index := len(c.data)
		c.data = append(c.data, cand)
		added = append(added, &Element{
			Kind:    ItemElement,
			Index:   index,
			Content: cand.Strategy.render(cand.Value, cand.Term),
		})
	}
	return added
}

func (c *Controller) renderHeader(values []any) {
	if c.header == nil {
		return
	}
	if c.headerEl == nil {
		c.headerEl = &Element{Kind: HeaderElement, Index: -1}
		c.surface.Prepend(c.headerEl)
	}
	c.headerEl.Content = c.header(values)
}

func (c *Controller) renderFooter(values []any) {
	if c.footer == nil {
		return
	}
	if c.footerEl == nil {
		c.footerEl = &Element{Kind: FooterElement, Index: -1}
		c.surface.Append(c.footerEl)
	}
	c.footerEl.Content = c.footer(values)
}

func (c *Controller) renderContents(els []*Element) {
	if c.footerEl != nil {
		c.surface.InsertBefore(c.footerEl, els...)
		return
	}
	c.surface.Append(els...)
}
