package controller

import "github.com/msalah0e/towergraph/internal/geom"

// Button identifies a pointer button.
type Button int

const (
	Primary Button = iota
	Secondary
	Middle
)

// Modifier is a bit set of held keys.
type Modifier int

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether m includes every bit of o.
func (m Modifier) Has(o Modifier) bool {
	return m&o == o
}

// Event is anything the canvas feeds the controller. Positions are in screen
// space; the controller maps them through its Transform.
type Event interface {
	event()
}

// PointerDown is a button press.
type PointerDown struct {
	Pos    geom.Point
	Button Button
	Mods   Modifier
}

// PointerUp is a button release.
type PointerUp struct {
	Pos    geom.Point
	Button Button
}

// PointerDrag is a move with a button held. Delta is the screen-space
// movement since the previous pointer event.
type PointerDrag struct {
	Pos    geom.Point
	Delta  geom.Point
	Button Button
	Mods   Modifier
}

// PointerMove is a move with no button held.
type PointerMove struct {
	Pos geom.Point
}

// Scroll is a wheel step. Negative Delta.Y zooms in.
type Scroll struct {
	Pos   geom.Point
	Delta geom.Point
}

// Key is a named key press the controller understands: "delete",
// "backspace" and "escape". Other names are ignored.
type Key struct {
	Name string
}

func (PointerDown) event() {}
func (PointerUp) event()   {}
func (PointerDrag) event() {}
func (PointerMove) event() {}
func (Scroll) event()      {}
func (Key) event()         {}
