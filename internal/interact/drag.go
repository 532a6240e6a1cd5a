// Package interact pins entities under a pointer drag.
//
// A drag moves an entity through Free → Pinned → Free. While pinned the
// entity's position is the pointer position and the force simulation
// treats it as an immovable obstacle.
package interact

import "github.com/san-kum/forcebubble/internal/bubble"

// DragAlpha is the activity level the simulation is raised to while a
// drag is in progress.
const DragAlpha = 0.2

type State int

const (
	Free State = iota
	Pinned
)

func (s State) String() string {
	if s == Pinned {
		return "pinned"
	}
	return "free"
}

// Simulation is the part of the force engine a drag reheats.
type Simulation interface {
	Alpha() float64
	SetAlpha(a float64)
	SetAlphaTarget(a float64)
	Restart()
}

type Handler struct {
	sim    Simulation
	states map[string]State
	active int
}

func NewHandler(sim Simulation) *Handler {
	return &Handler{sim: sim, states: make(map[string]State)}
}

func (h *Handler) State(id string) State { return h.states[id] }

// Active returns the number of drags in progress.
func (h *Handler) Active() int { return h.active }

// Start pins e where it stands. The first concurrent drag reheats the
// simulation so neighbors react to the pin.
func (h *Handler) Start(e *bubble.Entity) {
	if h.states[e.ID] == Pinned {
		return
	}
	if h.active == 0 {
		h.sim.SetAlphaTarget(DragAlpha)
		if h.sim.Alpha() < DragAlpha {
			h.sim.SetAlpha(DragAlpha)
		}
		h.sim.Restart()
	}
	h.active++
	h.states[e.ID] = Pinned
	e.Pin(e.X, e.Y)
}

// Move sets the pin of a dragged entity to (x, y). Free entities are
// ignored.
func (h *Handler) Move(e *bubble.Entity, x, y float64) {
	if h.states[e.ID] != Pinned {
		return
	}
	e.Pin(x, y)
}

// End releases e. When the last drag ends the simulation is left to
// settle.
func (h *Handler) End(e *bubble.Entity) {
	if h.states[e.ID] != Pinned {
		return
	}
	delete(h.states, e.ID)
	e.Unpin()
	h.active--
	if h.active == 0 {
		h.sim.SetAlphaTarget(0)
	}
}
