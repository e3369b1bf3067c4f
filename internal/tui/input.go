package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/msalah0e/towergraph/internal/controller"
	"github.com/msalah0e/towergraph/internal/geom"
)

// wheelStep is the scroll delta of one wheel notch; at the default zoom
// speed it changes the zoom by 0.1.
const wheelStep = 15

const pressMask = tcell.Button1 | tcell.Button2 | tcell.Button3

type cellPos struct{ x, y int }

// pointer tracks button state between tcell mouse events, which report
// what is held rather than presses and releases.
type pointer struct {
	buttons tcell.ButtonMask
	last    geom.Point
	button  controller.Button
	mods    controller.Modifier
	// swallowed presses landed on the toolbar or a menu item; their drag
	// and release are not forwarded.
	swallowed bool
}

func (a *App) mouse(e *tcell.EventMouse) bool {
	x, y := e.Position()
	pos := a.toScreen(x, y)
	btns := e.Buttons()
	redraw := false

	if btns&tcell.WheelUp != 0 {
		redraw = a.ctl.Handle(controller.Scroll{Pos: pos, Delta: geom.Pt(0, -wheelStep)}) || redraw
	}
	if btns&tcell.WheelDown != 0 {
		redraw = a.ctl.Handle(controller.Scroll{Pos: pos, Delta: geom.Pt(0, wheelStep)}) || redraw
	}
	btns &= pressMask
	prev := a.ptr.buttons
	mods := modifiers(e.Modifiers())

	switch {
	case prev == 0 && btns != 0:
		a.ptr.button = buttonOf(btns)
		a.ptr.mods = mods
		a.ptr.swallowed = a.press(x, y, a.ptr.button)
		if a.ptr.swallowed {
			redraw = true
			break
		}
		if snapped, ok := a.hits[cellPos{x, y}]; ok && a.ptr.button == controller.Primary {
			pos = snapped
		}
		redraw = a.ctl.Handle(controller.PointerDown{Pos: pos, Button: a.ptr.button, Mods: mods}) || redraw
	case prev != 0 && btns == 0:
		if !a.ptr.swallowed {
			redraw = a.ctl.Handle(controller.PointerUp{Pos: pos, Button: a.ptr.button}) || redraw
		}
		a.ptr.swallowed = false
	case btns != 0 && pos != a.ptr.last:
		if !a.ptr.swallowed {
			redraw = a.ctl.Handle(controller.PointerDrag{
				Pos:    pos,
				Delta:  pos.Sub(a.ptr.last),
				Button: a.ptr.button,
				Mods:   a.ptr.mods | mods,
			}) || redraw
		}
	case btns == 0 && pos != a.ptr.last:
		redraw = a.ctl.Handle(controller.PointerMove{Pos: pos}) || redraw
	}

	a.ptr.buttons = btns
	a.ptr.last = pos
	return redraw
}

// press handles clicks the canvas owns itself: toolbar buttons and the
// context menu. It reports whether the click was consumed.
func (a *App) press(x, y int, b controller.Button) bool {
	if y == 0 {
		if b == controller.Primary {
			for _, btn := range a.buttons {
				if x >= btn.x0 && x < btn.x1 {
					btn.action()
					break
				}
			}
		}
		return true
	}
	if i, ok := a.menuItemAt(x, y); ok && b == controller.Primary {
		a.ctl.Choose(i)
		return true
	}
	return false
}

func (a *App) menuItemAt(x, y int) (int, bool) {
	m := a.ctl.Menu()
	if m == nil {
		return 0, false
	}
	mx, my := a.toCell(m.At)
	w := menuWidth(m)
	if x < mx || x >= mx+w {
		return 0, false
	}
	i := y - my
	if i < 0 || i >= len(m.Items) {
		return 0, false
	}
	return i, true
}

func buttonOf(m tcell.ButtonMask) controller.Button {
	switch {
	case m&tcell.Button1 != 0:
		return controller.Primary
	case m&tcell.Button2 != 0:
		return controller.Secondary
	default:
		return controller.Middle
	}
}

func modifiers(m tcell.ModMask) controller.Modifier {
	var out controller.Modifier
	if m&tcell.ModShift != 0 {
		out |= controller.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= controller.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= controller.ModAlt
	}
	return out
}

// toScreen returns the screen-unit centre of a terminal cell.
func (a *App) toScreen(x, y int) geom.Point {
	return geom.Pt((float64(x)+0.5)*a.cell.W, (float64(y)+0.5)*a.cell.H)
}

// toCell returns the terminal cell holding a screen-unit position.
func (a *App) toCell(p geom.Point) (int, int) {
	return floorDiv(p.X, a.cell.W), floorDiv(p.Y, a.cell.H)
}

func (a *App) center() geom.Point {
	w, h := a.screen.Size()
	return a.toScreen(w/2, h/2)
}
