package tui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/msalah0e/towergraph/internal/controller"
	"github.com/msalah0e/towergraph/internal/geom"
	"github.com/msalah0e/towergraph/internal/graph"
	"github.com/msalah0e/towergraph/internal/ui"
)

// gridStep is the world spacing of the background dots.
const gridStep = 100

const help = "s save  l load  right-click add  del remove  +/- zoom  q quit"

type button struct {
	label  string
	x0, x1 int
	action func()
}

func (a *App) draw() {
	s := a.screen
	s.SetStyle(a.theme.Background)
	s.Clear()
	clear(a.hits)

	a.drawGrid()
	a.drawConnections()
	a.drawPending()
	a.drawNodes()
	a.drawMenu()
	a.drawToolbar()
	a.drawStatus()

	a.g.ClearDirty()
	s.Show()
}

func (a *App) canvasRows() (int, int) {
	_, h := a.screen.Size()
	return 1, h - 1
}

// put draws one rune if it falls inside the canvas rows.
func (a *App) put(x, y int, r rune, st tcell.Style) {
	w, _ := a.screen.Size()
	top, bottom := a.canvasRows()
	if x < 0 || x >= w || y < top || y >= bottom {
		return
	}
	a.screen.SetContent(x, y, r, nil, st)
}

func (a *App) text(x, y int, s string, st tcell.Style) int {
	for _, r := range s {
		a.screen.SetContent(x, y, r, nil, st)
		x++
	}
	return x
}

func (a *App) drawGrid() {
	zoom := a.view.Zoom()
	if gridStep*zoom < 2*a.cell.W {
		return
	}
	w, _ := a.screen.Size()
	top, bottom := a.canvasRows()
	for y := top; y < bottom; y++ {
		for x := 0; x < w; x++ {
			p0 := a.view.ScreenToWorld(geom.Pt(float64(x)*a.cell.W, float64(y)*a.cell.H))
			p1 := a.view.ScreenToWorld(geom.Pt(float64(x+1)*a.cell.W, float64(y+1)*a.cell.H))
			if crosses(p0.X, p1.X) && crosses(p0.Y, p1.Y) {
				a.put(x, y, a.theme.GridRune, a.theme.Grid)
			}
		}
	}
}

func crosses(lo, hi float64) bool {
	return math.Floor(lo/gridStep) != math.Floor(hi/gridStep)
}

func (a *App) curve(b geom.Bezier, st tcell.Style) {
	seen := make(map[cellPos]bool)
	for _, p := range b.Samples(96) {
		x, y := a.toCell(a.view.WorldToScreen(p))
		if seen[cellPos{x, y}] {
			continue
		}
		seen[cellPos{x, y}] = true
		a.put(x, y, a.theme.CurveRune, st)
	}
}

func (a *App) drawConnections() {
	for _, c := range a.g.Connections() {
		b, ok := a.g.Curve(c)
		if !ok {
			continue
		}
		a.curve(b, a.theme.Connection)

		h, _ := a.g.Handle(c)
		at := a.view.WorldToScreen(h.Center())
		x, y := a.toCell(at)
		a.put(x, y, a.theme.HandleRune, a.theme.Handle)
		a.hits[cellPos{x, y}] = at
	}
}

func (a *App) drawPending() {
	if b, ok := a.ctl.PendingCurve(); ok {
		a.curve(b, a.theme.Pending)
	}
}

func (a *App) drawNodes() {
	in, out := a.ctl.Pending()
	for _, n := range a.g.Nodes() {
		st := a.theme.Node
		if n.ID == a.ctl.Selected() {
			st = a.theme.NodeSelected
		}
		x0, y0 := a.toCell(a.view.WorldToScreen(n.Rect.Min))
		x1, y1 := a.toCell(a.view.WorldToScreen(n.Rect.Max()))
		if x1 <= x0 {
			x1 = x0 + 1
		}
		if y1 <= y0 {
			y1 = y0 + 1
		}
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				a.put(x, y, ' ', st)
				delete(a.hits, cellPos{x, y})
			}
		}

		title := []rune(n.Title())
		if room := x1 - x0 - 2; len(title) > room {
			title = title[:max(room, 0)]
		}
		tx := x0 + (x1-x0-len(title))/2
		ty := y0 + (y1-y0-1)/2
		for i, r := range title {
			a.put(tx+i, ty, r, st)
		}

		a.drawPoint(n, graph.In, in)
		a.drawPoint(n, graph.Out, out)
	}
}

func (a *App) drawPoint(n *graph.Node, kind graph.PointKind, armed *graph.ConnectionPoint) {
	st, r := a.theme.InPoint, a.theme.InRune
	if kind == graph.Out {
		st, r = a.theme.OutPoint, a.theme.OutRune
	}
	if armed != nil && armed.Owner == n.ID {
		st = a.theme.Armed
	}
	at := a.view.WorldToScreen(n.Region(kind).Center())
	x, y := a.toCell(at)
	a.put(x, y, r, st)
	a.hits[cellPos{x, y}] = at
}

func menuWidth(m *controller.Menu) int {
	w := 0
	for _, it := range m.Items {
		if len(it.Label) > w {
			w = len(it.Label)
		}
	}
	return w + 2
}

func (a *App) drawMenu() {
	m := a.ctl.Menu()
	if m == nil {
		return
	}
	mx, my := a.toCell(m.At)
	w := menuWidth(m)
	for i, it := range m.Items {
		for x := 0; x < w; x++ {
			a.put(mx+x, my+i, ' ', a.theme.Menu)
		}
		for j, r := range it.Label {
			a.put(mx+1+j, my+i, r, a.theme.Menu)
		}
	}
}

func (a *App) drawToolbar() {
	w, _ := a.screen.Size()
	for x := 0; x < w; x++ {
		a.screen.SetContent(x, 0, ' ', nil, a.theme.Toolbar)
	}

	a.buttons = a.buttons[:0]
	x := 1
	for _, b := range []button{
		{label: " Save Towers ", action: a.Save},
		{label: " Load Towers ", action: a.Load},
	} {
		b.x0 = x
		x = a.text(x, 0, b.label, a.theme.Button)
		b.x1 = x
		a.buttons = append(a.buttons, b)
		x++
	}

	zoom := fmt.Sprintf("Current Zoom: %.2f", a.view.Zoom())
	if zx := w - len(zoom) - 1; zx > x {
		a.text(zx, 0, zoom, a.theme.Toolbar)
	}
}

func (a *App) drawStatus() {
	_, h := a.screen.Size()
	if h < 2 {
		return
	}
	if a.notice.text == "" {
		a.text(1, h-1, help, a.theme.Grid)
		return
	}
	st := a.theme.Info
	switch a.notice.level {
	case ui.LevelGood:
		st = a.theme.Good
	case ui.LevelWarn:
		st = a.theme.Warn
	case ui.LevelError:
		st = a.theme.Error
	}
	a.text(1, h-1, a.notice.text, st)
}

func floorDiv(v, d float64) int {
	return int(math.Floor(v / d))
}
