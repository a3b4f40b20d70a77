package dropdown

// PositionMode mirrors the positioning schemes a layout node can use.
type PositionMode string

const (
	PositionStatic   PositionMode = "static"
	PositionRelative PositionMode = "relative"
	PositionAbsolute PositionMode = "absolute"
	PositionFixed    PositionMode = "fixed"
)

// Container is a node of the host layout tree. Host inputs and surface mount
// points are containers.
type Container interface {
	// Parent returns the enclosing container, or nil at the root.
	Parent() Container
	PositionMode() PositionMode
	Height() int
}

// Box is a rectangular layout node placed in screen cells.
type Box struct {
	Name string
	Mode PositionMode
	X, Y int
	W, H int

	parent *Box
}

// NewBox creates a box nested in parent. A nil parent makes it a root.
func NewBox(name string, mode PositionMode, parent *Box) *Box {
	if mode == "" {
		mode = PositionStatic
	}
	return &Box{Name: name, Mode: mode, parent: parent}
}

// Parent returns the enclosing box. It never returns a typed nil.
func (b *Box) Parent() Container {
	if b.parent == nil {
		return nil
	}
	return b.parent
}

func (b *Box) PositionMode() PositionMode { return b.Mode }

func (b *Box) Height() int { return b.H }

// SetRect places the box on screen.
func (b *Box) SetRect(x, y, w, h int) {
	b.X, b.Y, b.W, b.H = x, y, w, h
}

// Contains reports whether the screen cell (x, y) falls inside the box.
func (b *Box) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// rootOf returns the outermost ancestor of c.
func rootOf(c Container) Container {
	for c != nil {
		p := c.Parent()
		if p == nil {
			return c
		}
		c = p
	}
	return nil
}

// ResolvePositionMode walks input and its ancestors, innermost first. An
// absolutely positioned node keeps the surface absolute; a fixed node found
// before any absolute one makes the surface fixed.
func ResolvePositionMode(input Container) PositionMode {
	for el := input; el != nil; el = el.Parent() {
		switch el.PositionMode() {
		case PositionAbsolute:
			return PositionAbsolute
		case PositionFixed:
			return PositionFixed
		}
	}
	return PositionAbsolute
}
