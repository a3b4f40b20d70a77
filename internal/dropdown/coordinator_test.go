package dropdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingView struct {
	id          string
	deactivated int
}

func (v *recordingView) ID() string  { return v.id }
func (v *recordingView) Deactivate() { v.deactivated++ }

func TestCoordinatorDeactivateAllExcept(t *testing.T) {
	coord := NewCoordinator()
	a := &recordingView{id: "a"}
	b := &recordingView{id: "b"}
	coord.Register(a)
	coord.Register(b)
	require.Equal(t, 2, coord.Len())

	coord.DeactivateAllExcept("a")
	assert.Equal(t, 0, a.deactivated)
	assert.Equal(t, 1, b.deactivated)

	coord.DeactivateAllExcept("")
	assert.Equal(t, 1, a.deactivated)
	assert.Equal(t, 2, b.deactivated)

	coord.Unregister("b")
	coord.DocumentClick(nil)
	assert.Equal(t, 2, a.deactivated)
	assert.Equal(t, 2, b.deactivated, "unregistered views are not touched")
}

func TestCoordinatorDeactivateReentrant(t *testing.T) {
	coord := NewCoordinator()
	coord.Register(&reentrantView{id: "r", coord: coord})
	assert.NotPanics(t, func() { coord.DeactivateAllExcept("") })
	assert.Equal(t, 0, coord.Len())
}

type reentrantView struct {
	id    string
	coord *Coordinator
}

func (v *reentrantView) ID() string  { return v.id }
func (v *reentrantView) Deactivate() { v.coord.Unregister(v.id) }

func TestClickInOneDropdownHidesTheOther(t *testing.T) {
	coord := NewCoordinator()
	surfaces := NewSurfaceRegistry()
	root := NewBox("screen", PositionStatic, nil)
	mountX := NewBox("x-mount", PositionRelative, root)
	mountY := NewBox("y-mount", PositionRelative, root)

	hostX := &fakeHost{id: "x"}
	hostY := &fakeHost{id: "y"}
	x := New(NewBox("x", PositionStatic, mountX), hostX, Options{AppendTo: mountX, Coordinator: coord, Surfaces: surfaces})
	y := New(NewBox("y", PositionStatic, mountY), hostY, Options{AppendTo: mountY, Coordinator: coord, Surfaces: surfaces})
	s := &Strategy{ID: "w"}

	x.Activate()
	x.Render(words(s, "a", "b"))
	y.Activate()
	y.Render(words(s, "c"))

	ev := &PointerEvent{Y: 1}
	handled, cmd := x.HandleClick(ev)
	require.True(t, handled)
	coord.DocumentClick(ev)

	assert.True(t, x.Shown(), "the clicked dropdown survives the document click")
	assert.False(t, y.Shown())
	require.Len(t, hostX.selected, 1)
	assert.Equal(t, "b", hostX.selected[0].value)

	x.Update(cmd())
	assert.False(t, x.Shown())
}

func TestDocumentClickOutsideHidesAll(t *testing.T) {
	coord := NewCoordinator()
	root := NewBox("screen", PositionStatic, nil)
	x := New(NewBox("x", PositionStatic, root), &fakeHost{id: "x"}, Options{Coordinator: coord})
	y := New(NewBox("y", PositionStatic, root), &fakeHost{id: "y"}, Options{Coordinator: coord})
	x.Activate()
	y.Activate()

	coord.DocumentClick(&PointerEvent{X: 70, Y: 20})
	assert.False(t, x.Shown())
	assert.False(t, y.Shown())
}
