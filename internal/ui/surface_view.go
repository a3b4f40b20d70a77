package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/textcomplete/internal/dropdown"
)

const (
	// frameInset is the border width around the surface rows.
	frameInset   = 1
	activePrefix = "▸ "
	itemPrefix   = "  "
	minRowWidth  = 8
)

// SurfaceBlock is a rendered surface and its screen rectangle, frame included.
type SurfaceBlock struct {
	Content string
	X, Y    int
	W, H    int
	// Rows is the number of list rows inside the frame.
	Rows int
}

// Contains reports whether the screen cell (x, y) is inside the block.
func (b SurfaceBlock) Contains(x, y int) bool {
	return b.Content != "" && x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// Pointer translates a screen cell to a pointer event in surface rows. ok is
// false on the frame.
func (b SurfaceBlock) Pointer(x, y int) (*dropdown.PointerEvent, bool) {
	if !b.Contains(x, y) {
		return nil, false
	}
	row := y - b.Y - frameInset
	if row < 0 || row >= b.Rows {
		return nil, false
	}
	return &dropdown.PointerEvent{X: x - b.X - frameInset, Y: row}, true
}

// surfaceLine is one visible text row of the surface.
type surfaceLine struct {
	text string
	el   *dropdown.Element
	// first is set on the first row of a multi-row element.
	first bool
}

// visibleLines returns the rows in the scroll window.
func visibleLines(s *dropdown.Surface) []surfaceLine {
	var all []surfaceLine
	for _, el := range s.Children() {
		for i, line := range strings.Split(el.Content, "\n") {
			all = append(all, surfaceLine{text: line, el: el, first: i == 0})
		}
	}
	start := s.ScrollTop()
	if start > len(all) {
		start = len(all)
	}
	end := start + s.InnerHeight()
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

// rowWidth is the cell width of the widest row, prefix included, capped at
// maxWidth when positive.
func rowWidth(s *dropdown.Surface, maxWidth int) int {
	w := minRowWidth
	for _, el := range s.Children() {
		for _, line := range strings.Split(el.Content, "\n") {
			if lw := runewidth.StringWidth(line) + runewidth.StringWidth(itemPrefix); lw > w {
				w = lw
			}
		}
	}
	if maxWidth > 0 && w > maxWidth {
		w = maxWidth
	}
	return w
}

// RenderSurface draws the visible rows of s inside a frame. It returns an
// empty string for a hidden or empty surface. maxWidth bounds the frame width.
func RenderSurface(s *dropdown.Surface, st Styles, maxWidth int) (string, int) {
	if s == nil || !s.Visible() || len(s.Children()) == 0 {
		return "", 0
	}
	inner := maxWidth - 2*frameInset
	if maxWidth <= 0 {
		inner = 0
	}
	width := rowWidth(s, inner)

	lines := visibleLines(s)
	rows := make([]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, renderLine(l, width, st))
	}
	return st.Frame.Render(strings.Join(rows, "\n")), len(rows)
}

func renderLine(l surfaceLine, width int, st Styles) string {
	prefix := itemPrefix
	style := st.Item
	switch l.el.Kind {
	case dropdown.HeaderElement:
		style = st.Header
	case dropdown.FooterElement:
		style = st.Footer
	default:
		if l.el.Active() {
			style = st.Active
			if l.first {
				prefix = activePrefix
			}
		}
	}
	text := runewidth.Truncate(prefix+l.text, width, "…")
	return style.Render(runewidth.FillRight(text, width))
}

// PlaceSurface resolves the surface style to the screen origin of a w x h
// block. Absolute offsets are relative to the mount box, fixed offsets to the
// screen. The result is clamped to the screen.
func PlaceSurface(style dropdown.Style, mount dropdown.Container, screenW, screenH, w, h int) (x, y int) {
	refX, refY, refW, refH := 0, 0, screenW, screenH
	if style.Position != dropdown.PositionFixed {
		if box, ok := mount.(*dropdown.Box); ok && box != nil {
			refX, refY, refW, refH = box.X, box.Y, box.W, box.H
		}
	}

	switch {
	case style.Top.IsSet():
		y = refY + style.Top.Value
	case style.Bottom.IsSet():
		y = refY + refH - style.Bottom.Value - h
	default:
		y = refY
	}
	switch {
	case style.Left.IsSet():
		x = refX + style.Left.Value
	case style.Right.IsSet():
		x = refX + refW - style.Right.Value - w
	default:
		x = refX
	}
	return clamp(x, 0, screenW-w), clamp(y, 0, screenH-h)
}

// BlockFor renders s and places it on a screenW x screenH screen.
func BlockFor(s *dropdown.Surface, st Styles, screenW, screenH int) SurfaceBlock {
	content, rows := RenderSurface(s, st, screenW)
	if content == "" {
		return SurfaceBlock{}
	}
	w, h := lipgloss.Width(content), lipgloss.Height(content)
	x, y := PlaceSurface(s.Style(), s.Mount(), screenW, screenH, w, h)
	return SurfaceBlock{Content: content, X: x, Y: y, W: w, H: h, Rows: rows}
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
