// Package controller turns pointer and key events into graph edits and keeps
// the transient selection state of the editor: which connection point is
// armed, which node is being dragged, and the open context menu.
//
// Connections are made with two clicks. Clicking an input point arms it;
// clicking an output point on a different node then completes the
// connection. The order does not matter. Clicking the opposite point on the
// same node, or clicking empty canvas, disarms both sides.
package controller

import (
	"errors"

	"go.uber.org/zap"

	"github.com/msalah0e/towergraph/internal/geom"
	"github.com/msalah0e/towergraph/internal/graph"
)

// Transform is the part of the viewport the controller needs.
type Transform interface {
	ScreenToWorld(p geom.Point) geom.Point
	ScreenDelta(d geom.Point) geom.Point
	Scroll(at, delta geom.Point)
	Pan(delta geom.Point)
}

// PayloadFactory builds the payload of a node added from the context menu.
type PayloadFactory func() graph.NodeInfo

// Context menu labels.
const (
	LabelAddNode    = "Add new Tower"
	LabelRemoveNode = "Remove node"
)

// MenuItem is one entry of a context menu.
type MenuItem struct {
	Label  string
	action func()
}

// Menu is an open context menu. At is the screen position it was opened at.
type Menu struct {
	At    geom.Point
	Items []MenuItem
}

type pressTarget int

const (
	pressNone pressTarget = iota
	pressCanvas
	pressNode
	pressPoint
)

// Controller owns the selection state for one graph.
type Controller struct {
	g          *graph.Graph
	view       Transform
	newPayload PayloadFactory
	log        *zap.Logger

	pendingIn  *graph.ConnectionPoint
	pendingOut *graph.ConnectionPoint

	selected graph.NodeID
	dragging graph.NodeID
	press    pressTarget
	cursor   geom.Point
	menu     *Menu
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a controller editing g through view.
func New(g *graph.Graph, view Transform, newPayload PayloadFactory, opts ...Option) *Controller {
	c := &Controller{
		g:          g,
		view:       view,
		newPayload: newPayload,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Graph returns the graph being edited.
func (c *Controller) Graph() *graph.Graph {
	return c.g
}

// Handle applies one event. It reports whether the canvas needs a redraw.
func (c *Controller) Handle(ev Event) bool {
	switch e := ev.(type) {
	case Scroll:
		c.view.Scroll(e.Pos, e.Delta)
		return true
	case PointerMove:
		c.cursor = c.view.ScreenToWorld(e.Pos)
		return c.armed()
	case PointerDown:
		return c.pointerDown(e)
	case PointerDrag:
		return c.pointerDrag(e)
	case PointerUp:
		c.dragging = 0
		c.press = pressNone
		return false
	case Key:
		return c.key(e)
	}
	return false
}

func (c *Controller) pointerDown(e PointerDown) bool {
	p := c.view.ScreenToWorld(e.Pos)
	c.cursor = p

	if c.menu != nil {
		c.menu = nil
		return true
	}

	switch e.Button {
	case Primary:
		if e.Mods.Has(ModAlt) {
			c.press = pressCanvas
			return false
		}
		if cp, ok := c.g.PointAt(p); ok {
			c.press = pressPoint
			if cp.Kind == graph.In {
				c.ClickInPoint(cp)
			} else {
				c.ClickOutPoint(cp)
			}
			return true
		}
		if conn := c.g.ConnectionAt(p); conn != nil {
			c.press = pressNone
			c.RemoveConnection(conn.ID)
			return true
		}
		c.ClearConnectionSelection()
		if n := c.g.HitTest(p); n != nil {
			c.selected = n.ID
			c.dragging = n.ID
			c.press = pressNode
			return true
		}
		c.selected = 0
		c.press = pressCanvas
		return true

	case Secondary:
		c.openMenu(e.Pos, p)
		return true

	case Middle:
		c.press = pressCanvas
	}
	return false
}

func (c *Controller) pointerDrag(e PointerDrag) bool {
	c.cursor = c.view.ScreenToWorld(e.Pos)

	if e.Button == Middle || (e.Button == Primary && e.Mods.Has(ModAlt)) {
		c.view.Pan(e.Delta)
		return true
	}
	if e.Button != Primary {
		return false
	}

	switch c.press {
	case pressNode:
		c.g.MoveNode(c.dragging, c.view.ScreenDelta(e.Delta))
		return true
	case pressCanvas:
		c.g.Pan(c.view.ScreenDelta(e.Delta))
		return true
	}
	return c.armed()
}

func (c *Controller) key(e Key) bool {
	switch e.Name {
	case "delete", "backspace":
		if c.selected != 0 {
			c.RemoveNode(c.selected)
			return true
		}
	case "escape":
		c.ClearConnectionSelection()
		c.selected = 0
		c.menu = nil
		return true
	}
	return false
}

// ─── Connection state machine ───

// ClickInPoint arms an input point and completes a pending connection when
// an output point on another node is already armed.
func (c *Controller) ClickInPoint(in graph.ConnectionPoint) {
	c.pendingIn = &in
	if c.pendingOut != nil {
		c.complete()
	}
}

// ClickOutPoint arms an output point and completes a pending connection when
// an input point on another node is already armed.
func (c *Controller) ClickOutPoint(out graph.ConnectionPoint) {
	c.pendingOut = &out
	if c.pendingIn != nil {
		c.complete()
	}
}

func (c *Controller) complete() {
	in, out := *c.pendingIn, *c.pendingOut
	c.ClearConnectionSelection()

	if in.Owner == out.Owner {
		return
	}
	if c.g.HasConnection(out, in) {
		c.log.Debug("connection exists", zap.Int("from", int(out.Owner)), zap.Int("to", int(in.Owner)))
		return
	}
	id, err := c.g.AddConnection(in, out)
	if err != nil {
		if errors.Is(err, graph.ErrInvalidConnection) {
			c.log.Debug("connection discarded", zap.Error(err))
			return
		}
		c.log.Warn("connection failed", zap.Error(err))
		return
	}
	c.log.Debug("connection created",
		zap.Int("connection", int(id)),
		zap.Int("from", int(out.Owner)),
		zap.Int("to", int(in.Owner)))
}

// ClearConnectionSelection disarms both sides.
func (c *Controller) ClearConnectionSelection() {
	c.pendingIn = nil
	c.pendingOut = nil
}

// Pending returns the armed points; either may be nil.
func (c *Controller) Pending() (in, out *graph.ConnectionPoint) {
	return c.pendingIn, c.pendingOut
}

func (c *Controller) armed() bool {
	return (c.pendingIn == nil) != (c.pendingOut == nil)
}

// PendingCurve returns the live curve from the armed point to the pointer.
// It exists only while exactly one side is armed.
func (c *Controller) PendingCurve() (geom.Bezier, bool) {
	if !c.armed() {
		return geom.Bezier{}, false
	}
	if c.pendingIn != nil {
		in, ok := c.g.Anchor(*c.pendingIn)
		if !ok {
			return geom.Bezier{}, false
		}
		return geom.CurveFromOut(c.cursor, in), true
	}
	out, ok := c.g.Anchor(*c.pendingOut)
	if !ok {
		return geom.Bezier{}, false
	}
	return geom.CurveFromOut(out, c.cursor), true
}

// Cursor returns the last pointer position in graph space.
func (c *Controller) Cursor() geom.Point {
	return c.cursor
}

// ─── Node and connection actions ───

// Selected returns the selected node, or 0.
func (c *Controller) Selected() graph.NodeID {
	return c.selected
}

// AddNode adds a node at a graph-space position with a fresh payload.
func (c *Controller) AddNode(at geom.Point) graph.NodeID {
	info := c.newPayload()
	id := c.g.AddNode(at, info)
	c.log.Debug("node added", zap.Int("node", int(id)), zap.String("title", info.Title()))
	return id
}

// RemoveNode removes a node and its connections, and drops any selection
// that pointed at it.
func (c *Controller) RemoveNode(id graph.NodeID) {
	if !c.g.RemoveNode(id) {
		return
	}
	if c.pendingIn != nil && c.pendingIn.Owner == id {
		c.pendingIn = nil
	}
	if c.pendingOut != nil && c.pendingOut.Owner == id {
		c.pendingOut = nil
	}
	if c.selected == id {
		c.selected = 0
	}
	if c.dragging == id {
		c.dragging = 0
		c.press = pressNone
	}
	c.log.Debug("node removed", zap.Int("node", int(id)))
}

// RemoveConnection removes a connection.
func (c *Controller) RemoveConnection(id graph.ConnectionID) {
	if c.g.RemoveConnection(id) {
		c.log.Debug("connection removed", zap.Int("connection", int(id)))
	}
}

// ─── Context menu ───

func (c *Controller) openMenu(screen, world geom.Point) {
	if n := c.g.HitTest(world); n != nil {
		id := n.ID
		c.menu = &Menu{At: screen, Items: []MenuItem{
			{Label: LabelRemoveNode, action: func() { c.RemoveNode(id) }},
		}}
		return
	}
	c.menu = &Menu{At: screen, Items: []MenuItem{
		{Label: LabelAddNode, action: func() { c.AddNode(world) }},
	}}
}

// Menu returns the open context menu, or nil.
func (c *Controller) Menu() *Menu {
	return c.menu
}

// Choose runs the i-th item of the open menu and closes it.
func (c *Controller) Choose(i int) bool {
	if c.menu == nil || i < 0 || i >= len(c.menu.Items) {
		return false
	}
	action := c.menu.Items[i].action
	c.menu = nil
	action()
	return true
}

// DismissMenu closes the context menu without running anything.
func (c *Controller) DismissMenu() {
	c.menu = nil
}
