package dropdown

import (
	"strings"
)

// CaretPosition locates the caret relative to the surface's reference frame.
// Top is the first row below the caret line, so a surface placed at Top sits
// directly under the text being completed.
type CaretPosition struct {
	Top        int
	Left       int
	LineHeight int
}

// PositionStrategy places a surface for a caret position. Implementations
// replace the whole placement routine, including position mode detection.
type PositionStrategy interface {
	SetPosition(s *Surface, input Container, pos CaretPosition)
}

// PositionFunc adapts a function to PositionStrategy.
type PositionFunc func(s *Surface, input Container, pos CaretPosition)

func (f PositionFunc) SetPosition(s *Surface, input Container, pos CaretPosition) { f(s, input, pos) }

// Placement holds the anchor modifiers parsed from a placement string such as
// "top absright".
type Placement struct {
	Top      bool
	AbsLeft  bool
	AbsRight bool
}

// ParsePlacement reads the top, absleft and absright tokens out of s.
func ParsePlacement(s string) Placement {
	return Placement{
		Top:      strings.Contains(s, "top"),
		AbsLeft:  strings.Contains(s, "absleft"),
		AbsRight: strings.Contains(s, "absright"),
	}
}

func (p Placement) String() string {
	var parts []string
	if p.Top {
		parts = append(parts, "top")
	}
	if p.AbsLeft {
		parts = append(parts, "absleft")
	}
	if p.AbsRight {
		parts = append(parts, "absright")
	}
	return strings.Join(parts, " ")
}

// Offsets computes the edges for a caret, given the height of the mount
// container.
func (p Placement) Offsets(parentHeight int, pos CaretPosition) Offsets {
	var o Offsets
	if p.Top {
		o = Offsets{
			Top:    AutoLength(),
			Bottom: Cells(parentHeight - pos.Top + pos.LineHeight),
			Left:   Cells(pos.Left),
		}
	} else {
		o = Offsets{
			Top:    Cells(pos.Top),
			Bottom: AutoLength(),
			Left:   Cells(pos.Left),
		}
	}
	if p.AbsLeft {
		o.Left = Cells(0)
	} else if p.AbsRight {
		o.Right = Cells(0)
		o.Left = AutoLength()
	}
	return o
}

// PlacementPositioner is the default PositionStrategy.
type PlacementPositioner struct {
	Placement Placement
}

// SetPosition applies the placement offsets, then re-derives the position mode
// from input's ancestors. The mode is recomputed on every call because one
// surface may serve inputs with different ancestor chains.
func (p PlacementPositioner) SetPosition(s *Surface, input Container, pos CaretPosition) {
	parentHeight := 0
	if m := s.Mount(); m != nil {
		parentHeight = m.Height()
	}
	s.ApplyOffsets(p.Placement.Offsets(parentHeight, pos))
	s.SetPositionMode(ResolvePositionMode(input))
}
