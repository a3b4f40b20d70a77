package dropdown

import (
	"sort"
	"sync"

	tea "charm.land/bubbletea/v2"
)

// PointerEvent is a mouse event routed through dropdowns and then to the
// coordinator. X and Y are relative to the first visible row of the surface.
type PointerEvent struct {
	X, Y int
	Msg  tea.Msg
	// KeepDropdown is set by the controller that committed a selection from
	// this event, so the document click handling skips it.
	KeepDropdown string
}

// Deactivator is the part of a dropdown the coordinator needs.
type Deactivator interface {
	ID() string
	Deactivate()
}

// Coordinator tracks the live dropdowns of a session so that a click anywhere
// else hides them.
type Coordinator struct {
	mu    sync.Mutex
	views map[string]Deactivator
}

func NewCoordinator() *Coordinator {
	return &Coordinator{views: make(map[string]Deactivator)}
}

func (c *Coordinator) Register(d Deactivator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views[d.ID()] = d
}

func (c *Coordinator) Unregister(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.views, id)
}

// Len returns the number of registered dropdowns.
func (c *Coordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.views)
}

// DeactivateAllExcept hides every registered dropdown but id. An empty id
// hides all of them.
func (c *Coordinator) DeactivateAllExcept(id string) {
	c.mu.Lock()
	ids := make([]string, 0, len(c.views))
	for key := range c.views {
		if key != id {
			ids = append(ids, key)
		}
	}
	sort.Strings(ids)
	views := make([]Deactivator, 0, len(ids))
	for _, key := range ids {
		views = append(views, c.views[key])
	}
	c.mu.Unlock()

	// Deactivate fires host callbacks, which may call back in.
	for _, v := range views {
		v.Deactivate()
	}
}

// DocumentClick applies a click that reached the document.
func (c *Coordinator) DocumentClick(ev *PointerEvent) {
	keep := ""
	if ev != nil {
		keep = ev.KeepDropdown
	}
	c.DeactivateAllExcept(keep)
}
