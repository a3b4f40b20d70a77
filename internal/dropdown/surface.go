package dropdown

import (
	"slices"
	"sync"

	"charm.land/lipgloss/v2"
)

// Class names carried by the surface and its elements.
const (
	ClassMenu   = "dropdown-menu"
	ClassItem   = "textcomplete-item"
	ClassActive = "active"
	ClassHeader = "textcomplete-header"
	ClassFooter = "textcomplete-footer"
)

// ElementKind distinguishes list rows from the decorative regions.
type ElementKind int

const (
	ItemElement ElementKind = iota
	HeaderElement
	FooterElement
)

// Element is one row group of the surface.
type Element struct {
	Kind ElementKind
	// Index is the display buffer position of an item (its data-index), or -1
	// for header and footer.
	Index   int
	Content string

	active bool
}

// Active reports whether the element is the highlighted item.
func (e *Element) Active() bool { return e.active }

// Classes returns the element's class list.
func (e *Element) Classes() []string {
	switch e.Kind {
	case HeaderElement:
		return []string{ClassHeader}
	case FooterElement:
		return []string{ClassFooter}
	}
	if e.active {
		return []string{ClassItem, ClassActive}
	}
	return []string{ClassItem}
}

// HasClass reports whether name is in the element's class list.
func (e *Element) HasClass(name string) bool {
	return slices.Contains(e.Classes(), name)
}

// Height is the number of terminal rows the element occupies.
func (e *Element) Height() int {
	if h := lipgloss.Height(e.Content); h > 0 {
		return h
	}
	return 1
}

// Length is a placement offset in cells, or auto.
type Length struct {
	Value int
	Auto  bool
}

// Cells returns an offset of n cells.
func Cells(n int) *Length { return &Length{Value: n} }

// AutoLength returns an unset (auto) offset.
func AutoLength() *Length { return &Length{Auto: true} }

// IsSet reports whether l pins an edge.
func (l *Length) IsSet() bool { return l != nil && !l.Auto }

// Offsets is a partial placement update. Nil fields keep their current value.
type Offsets struct {
	Top, Bottom, Left, Right *Length
}

// Style is the placement state of a surface.
type Style struct {
	Top, Bottom, Left, Right *Length
	Position                 PositionMode
	ZIndex                   int
	// Height caps the visible rows; zero shows all content.
	Height int
}

// Surface is the list container a dropdown renders into. It may be shared by
// several controllers mounted on the same container.
type Surface struct {
	mount     Container
	style     Style
	visible   bool
	classes   []string
	children  []*Element
	scrollTop int
}

func newSurface(mount Container, zIndex int) *Surface {
	return &Surface{
		mount:   mount,
		classes: []string{ClassMenu},
		style: Style{
			Left:     Cells(0),
			Position: PositionAbsolute,
			ZIndex:   zIndex,
		},
	}
}

// Mount returns the container the surface is attached to.
func (s *Surface) Mount() Container { return s.mount }

func (s *Surface) Visible() bool { return s.visible }

func (s *Surface) Show() { s.visible = true }

func (s *Surface) Hide() { s.visible = false }

// Style returns a copy of the placement state.
func (s *Surface) Style() Style { return s.style }

// ApplyOffsets merges o into the placement state.
func (s *Surface) ApplyOffsets(o Offsets) {
	if o.Top != nil {
		s.style.Top = o.Top
	}
	if o.Bottom != nil {
		s.style.Bottom = o.Bottom
	}
	if o.Left != nil {
		s.style.Left = o.Left
	}
	if o.Right != nil {
		s.style.Right = o.Right
	}
}

func (s *Surface) SetPositionMode(mode PositionMode) { s.style.Position = mode }

// SetHeight caps the number of visible rows.
func (s *Surface) SetHeight(h int) {
	s.style.Height = h
	s.SetScrollTop(s.scrollTop)
}

func (s *Surface) Classes() []string { return slices.Clone(s.classes) }

func (s *Surface) HasClass(name string) bool { return slices.Contains(s.classes, name) }

func (s *Surface) AddClass(name string) {
	if name != "" && !s.HasClass(name) {
		s.classes = append(s.classes, name)
	}
}

func (s *Surface) RemoveClass(name string) {
	s.classes = slices.DeleteFunc(s.classes, func(c string) bool { return c == name })
}

// Children returns the elements in display order.
func (s *Surface) Children() []*Element { return slices.Clone(s.children) }

// Items returns the item elements in display order.
func (s *Surface) Items() []*Element {
	items := make([]*Element, 0, len(s.children))
	for _, el := range s.children {
		if el.Kind == ItemElement {
			items = append(items, el)
		}
	}
	return items
}

// Empty removes every element and resets the scroll offset.
func (s *Surface) Empty() {
	s.children = nil
	s.scrollTop = 0
}

func (s *Surface) Prepend(els ...*Element) {
	s.children = append(slices.Clone(els), s.children...)
}

func (s *Surface) Append(els ...*Element) {
	s.children = append(s.children, els...)
}

// InsertBefore inserts els ahead of ref, or appends them when ref is not a
// child of the surface.
func (s *Surface) InsertBefore(ref *Element, els ...*Element) {
	i := slices.Index(s.children, ref)
	if i < 0 {
		s.Append(els...)
		return
	}
	s.children = slices.Insert(s.children, i, els...)
}

// ContentHeight is the total height of all elements.
func (s *Surface) ContentHeight() int {
	h := 0
	for _, el := range s.children {
		h += el.Height()
	}
	return h
}

// InnerHeight is the number of visible rows.
func (s *Surface) InnerHeight() int {
	if s.style.Height > 0 {
		return s.style.Height
	}
	return s.ContentHeight()
}

func (s *Surface) ScrollTop() int { return s.scrollTop }

// SetScrollTop scrolls the content, clamped to the scrollable range.
func (s *Surface) SetScrollTop(v int) {
	maxScroll := s.ContentHeight() - s.InnerHeight()
	if v > maxScroll {
		v = maxScroll
	}
	if v < 0 {
		v = 0
	}
	s.scrollTop = v
}

// ElementTop returns the first row of el relative to the visible top, so
// elements scrolled out above the viewport have a negative top.
func (s *Surface) ElementTop(el *Element) int {
	offset := 0
	for _, child := range s.children {
		if child == el {
			return offset - s.scrollTop
		}
		offset += child.Height()
	}
	return offset - s.scrollTop
}

// ElementAtRow resolves a visible row to the element drawn there.
func (s *Surface) ElementAtRow(row int) *Element {
	if row < 0 || row >= s.InnerHeight() {
		return nil
	}
	row += s.scrollTop
	offset := 0
	for _, el := range s.children {
		h := el.Height()
		if row >= offset && row < offset+h {
			return el
		}
		offset += h
	}
	return nil
}

// SurfaceRegistry hands out one surface per mount container. Surfaces outlive
// the controllers that use them.
type SurfaceRegistry struct {
	mu       sync.Mutex
	surfaces map[Container]*Surface
	refs     map[Container]int
}

func NewSurfaceRegistry() *SurfaceRegistry {
	return &SurfaceRegistry{
		surfaces: make(map[Container]*Surface),
		refs:     make(map[Container]int),
	}
}

// Acquire returns the surface mounted on mount, creating it hidden when none
// exists yet.
func (r *SurfaceRegistry) Acquire(mount Container, zIndex int) *Surface {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surfaces[mount]
	if !ok {
		s = newSurface(mount, zIndex)
		r.surfaces[mount] = s
	}
	r.refs[mount]++
	return s
}

// Release drops one reference. The surface itself is kept.
func (r *SurfaceRegistry) Release(mount Container) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refs[mount] > 0 {
		r.refs[mount]--
	}
}

// Lookup returns the surface mounted on mount, if any.
func (r *SurfaceRegistry) Lookup(mount Container) (*Surface, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surfaces[mount]
	return s, ok
}

// Refs returns the number of controllers holding the surface on mount.
func (r *SurfaceRegistry) Refs(mount Container) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refs[mount]
}

// Surfaces returns every surface created so far.
func (r *SurfaceRegistry) Surfaces() []*Surface {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Surface, 0, len(r.surfaces))
	for _, s := range r.surfaces {
		out = append(out, s)
	}
	return out
}
