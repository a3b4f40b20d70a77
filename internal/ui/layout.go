package ui

import (
	"strings"

	"github.com/oakwood-commons/textcomplete/internal/dropdown"
)

// Constants for component heights
const (
	TitleLineCount  = 1
	StatusLineCount = 1
	FieldLineCount  = 1
	FieldGap        = 1
	MinInputWidth   = 10
	DefaultWidth    = 80
	DefaultHeight   = 24
)

// LayoutManager places the screen root, the field panels and the inputs.
// Fields with a fixed panel are docked above the status line; the others are
// stacked under the title.
type LayoutManager struct {
	width  int
	height int
	root   *dropdown.Box
}

// NewLayoutManager creates a layout over a width x height screen.
func NewLayoutManager(width, height int) *LayoutManager {
	lm := &LayoutManager{root: dropdown.NewBox("screen", dropdown.PositionStatic, nil)}
	lm.SetDimensions(width, height)
	return lm
}

// SetDimensions updates the screen size. Non-positive sizes fall back to 80x24.
func (lm *LayoutManager) SetDimensions(width, height int) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	lm.width, lm.height = width, height
	lm.root.SetRect(0, 0, width, height)
}

// Root is the screen box, the default mount of every dropdown.
func (lm *LayoutManager) Root() *dropdown.Box { return lm.root }

func (lm *LayoutManager) Width() int  { return lm.width }
func (lm *LayoutManager) Height() int { return lm.height }

// NewPanel creates the layout node holding one field.
func (lm *LayoutManager) NewPanel(cfg FieldConfig) *dropdown.Box {
	return dropdown.NewBox(cfg.ID+"-panel", panelMode(cfg.Panel), lm.root)
}

// Arrange assigns screen rectangles to the panels and inputs of fields.
func (lm *LayoutManager) Arrange(fields []*Field) {
	top := TitleLineCount + FieldGap
	bottom := lm.height - StatusLineCount - FieldGap

	for i := len(fields) - 1; i >= 0; i-- {
		f := fields[i]
		if f.panel.Mode != dropdown.PositionFixed {
			continue
		}
		bottom -= FieldLineCount
		lm.place(f, bottom)
		bottom -= FieldGap
	}
	for _, f := range fields {
		if f.panel.Mode == dropdown.PositionFixed {
			continue
		}
		lm.place(f, top)
		top += FieldLineCount + FieldGap
	}
}

func (lm *LayoutManager) place(f *Field, y int) {
	f.panel.SetRect(0, y, lm.width, FieldLineCount)
	label := f.labelWidth()
	w := lm.width - label
	if w < MinInputWidth {
		w = MinInputWidth
	}
	f.box.SetRect(label, y, w, FieldLineCount)
	f.Input.SetWidth(w - 1)
}

func panelMode(s string) dropdown.PositionMode {
	switch dropdown.PositionMode(strings.ToLower(strings.TrimSpace(s))) {
	case dropdown.PositionRelative:
		return dropdown.PositionRelative
	case dropdown.PositionAbsolute:
		return dropdown.PositionAbsolute
	case dropdown.PositionFixed:
		return dropdown.PositionFixed
	default:
		return dropdown.PositionStatic
	}
}
