package graph

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/msalah0e/towergraph/internal/geom"
)

type label struct {
	name string
	pos  *geom.Point
}

func (l *label) Title() string { return l.name }

func (l *label) StoredPosition() (geom.Point, bool) {
	if l.pos == nil {
		return geom.Point{}, false
	}
	return *l.pos, true
}

func (l *label) SetStoredPosition(p geom.Point) { l.pos = &p }

func newNode(g *Graph, name string, x, y float64) *Node {
	return g.Node(g.AddNode(geom.Pt(x, y), &label{name: name}))
}

func TestAddNode(t *testing.T) {
	g := New()
	id := g.AddNode(geom.Pt(10, 20), &label{name: "Basic"})

	if g.Len() != 1 {
		t.Fatalf("expected 1 node, got %d", g.Len())
	}
	n := g.Node(id)
	if n == nil {
		t.Fatal("node not found after AddNode")
	}
	if n.Title() != "Basic" {
		t.Errorf("expected title 'Basic', got %q", n.Title())
	}
	if n.Rect.Size != DefaultNodeSize {
		t.Errorf("expected default size %v, got %v", DefaultNodeSize, n.Rect.Size)
	}
	if n.InPoint().Kind != In || n.OutPoint().Kind != Out {
		t.Error("node points have the wrong kinds")
	}
	if !g.Dirty() {
		t.Error("AddNode should mark the graph dirty")
	}
}

func TestAddNodeIDsAreNotReused(t *testing.T) {
	g := New()
	a := g.AddNode(geom.Pt(0, 0), &label{name: "A"})
	g.RemoveNode(a)
	b := g.AddNode(geom.Pt(0, 0), &label{name: "B"})
	if a == b {
		t.Fatalf("node id %d reused after removal", a)
	}
}

func TestSetNodeSize(t *testing.T) {
	g := New()
	g.SetNodeSize(geom.Size{W: 120, H: 40})
	n := newNode(g, "A", 0, 0)
	if n.Rect.Size != (geom.Size{W: 120, H: 40}) {
		t.Errorf("expected 120x40, got %v", n.Rect.Size)
	}

	g.SetNodeSize(geom.Size{W: 0, H: 40})
	n = newNode(g, "B", 0, 0)
	if n.Rect.Size.W != 120 {
		t.Error("zero width should be ignored")
	}
}

func TestAddConnection(t *testing.T) {
	g := New()
	a := newNode(g, "A", 0, 0)
	b := newNode(g, "B", 300, 0)

	id, err := g.AddConnection(b.InPoint(), a.OutPoint())
	if err != nil {
		t.Fatalf("AddConnection failed: %v", err)
	}
	c := g.Connection(id)
	if c == nil {
		t.Fatal("connection not found")
	}
	if c.Out.Owner != a.ID || c.In.Owner != b.ID {
		t.Errorf("unexpected endpoints: out=%d in=%d", c.Out.Owner, c.In.Owner)
	}
	if !g.HasConnection(a.OutPoint(), b.InPoint()) {
		t.Error("HasConnection should see the new connection")
	}
}

func TestAddConnectionRejectsSelfLoop(t *testing.T) {
	g := New()
	a := newNode(g, "A", 0, 0)
	g.ClearDirty()

	_, err := g.AddConnection(a.InPoint(), a.OutPoint())
	if !errors.Is(err, ErrInvalidConnection) {
		t.Fatalf("expected ErrInvalidConnection, got %v", err)
	}
	if len(g.Connections()) != 0 {
		t.Error("graph changed after rejected self loop")
	}
	if g.Dirty() {
		t.Error("rejected connection should not mark the graph dirty")
	}
}

func TestAddConnectionRejectsKindMismatch(t *testing.T) {
	g := New()
	a := newNode(g, "A", 0, 0)
	b := newNode(g, "B", 300, 0)

	cases := []struct {
		name    string
		in, out ConnectionPoint
	}{
		{"out as in", a.OutPoint(), b.OutPoint()},
		{"in as out", a.InPoint(), b.InPoint()},
		{"swapped", a.OutPoint(), b.InPoint()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := g.AddConnection(tc.in, tc.out); !errors.Is(err, ErrInvalidConnection) {
				t.Fatalf("expected ErrInvalidConnection, got %v", err)
			}
		})
	}
	if len(g.Connections()) != 0 {
		t.Errorf("expected no connections, got %d", len(g.Connections()))
	}
}

func TestAddConnectionRejectsMissingNode(t *testing.T) {
	g := New()
	a := newNode(g, "A", 0, 0)
	ghost := ConnectionPoint{Owner: 99, Kind: Out}

	if _, err := g.AddConnection(a.InPoint(), ghost); !errors.Is(err, ErrInvalidConnection) {
		t.Fatalf("expected ErrInvalidConnection, got %v", err)
	}
}

func TestConnectIsEdgeDirection(t *testing.T) {
	g := New()
	a := newNode(g, "A", 0, 0)
	b := newNode(g, "B", 300, 0)

	if _, err := g.Connect(a.OutPoint(), b.InPoint()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if deps := g.InDependencies(b.ID); len(deps) != 1 || deps[0] != 0 {
		t.Errorf("expected B to depend on index 0, got %v", deps)
	}
	if deps := g.OutDependencies(a.ID); len(deps) != 1 || deps[0] != 1 {
		t.Errorf("expected A to feed index 1, got %v", deps)
	}
}

func TestRemoveNodeCascades(t *testing.T) {
	g := New()
	a := newNode(g, "A", 0, 0)
	b := newNode(g, "B", 300, 0)
	c := newNode(g, "C", 600, 0)
	g.Connect(a.OutPoint(), b.InPoint())
	g.Connect(b.OutPoint(), c.InPoint())
	g.Connect(a.OutPoint(), c.InPoint())

	if !g.RemoveNode(b.ID) {
		t.Fatal("RemoveNode returned false for existing node")
	}

	for _, conn := range g.Connections() {
		if conn.In.Owner == b.ID || conn.Out.Owner == b.ID {
			t.Fatalf("connection %d still references removed node", conn.ID)
		}
	}
	if len(g.Connections()) != 1 {
		t.Errorf("expected 1 surviving connection, got %d", len(g.Connections()))
	}
	if g.Len() != 2 {
		t.Errorf("expected 2 nodes, got %d", g.Len())
	}
}

func TestRemoveNodeMissingIsNoop(t *testing.T) {
	g := New()
	newNode(g, "A", 0, 0)
	g.ClearDirty()

	if g.RemoveNode(42) {
		t.Error("RemoveNode of unknown id should report false")
	}
	if g.Dirty() || g.Len() != 1 {
		t.Error("RemoveNode of unknown id changed the graph")
	}
}

func TestRemoveConnection(t *testing.T) {
	g := New()
	a := newNode(g, "A", 0, 0)
	b := newNode(g, "B", 300, 0)
	id, _ := g.Connect(a.OutPoint(), b.InPoint())

	if !g.RemoveConnection(id) {
		t.Fatal("RemoveConnection returned false")
	}
	if g.RemoveConnection(id) {
		t.Error("second RemoveConnection should be a no-op")
	}
	if g.Len() != 2 {
		t.Error("removing a connection must not remove nodes")
	}
}

func TestFindNodeByTitleFirstMatch(t *testing.T) {
	g := New()
	first := newNode(g, "Cannon", 0, 0)
	newNode(g, "Cannon", 100, 0)

	if n := g.FindNodeByTitle("Cannon"); n == nil || n.ID != first.ID {
		t.Error("expected the first Cannon in insertion order")
	}
	if g.FindNodeByTitle("Mortar") != nil {
		t.Error("expected nil for a missing title")
	}
}

func TestHitTestTopmostWins(t *testing.T) {
	g := New()
	newNode(g, "Bottom", 0, 0)
	top := newNode(g, "Top", 50, 10)

	n := g.HitTest(geom.Pt(60, 20))
	if n == nil || n.ID != top.ID {
		t.Fatal("expected the last added node to win the hit test")
	}
	if g.HitTest(geom.Pt(-100, -100)) != nil {
		t.Error("expected no node at an empty spot")
	}
}

func TestPointAt(t *testing.T) {
	g := New()
	a := newNode(g, "A", 100, 100)

	in := a.Region(In).Center()
	p, ok := g.PointAt(in)
	if !ok || p != a.InPoint() {
		t.Fatalf("expected in point, got %v %v", p, ok)
	}

	out := a.Region(Out).Center()
	p, ok = g.PointAt(out)
	if !ok || p != a.OutPoint() {
		t.Fatalf("expected out point, got %v %v", p, ok)
	}

	if _, ok := g.PointAt(a.Rect.Center()); ok {
		t.Error("node centre is not a connection point")
	}
}

func TestRegionsFollowNode(t *testing.T) {
	g := New()
	a := newNode(g, "A", 0, 0)
	b := newNode(g, "B", 300, 0)
	id, _ := g.Connect(a.OutPoint(), b.InPoint())

	before, _ := g.Curve(g.Connection(id))
	g.MoveNode(b.ID, geom.Pt(0, 100))
	after, _ := g.Curve(g.Connection(id))

	if after.End.Y != before.End.Y+100 {
		t.Errorf("curve end did not follow node: %v -> %v", before.End, after.End)
	}
	if after.Start != before.Start {
		t.Error("moving B should not move A's anchor")
	}
}

func TestConnectionAt(t *testing.T) {
	g := New()
	a := newNode(g, "A", 0, 0)
	b := newNode(g, "B", 300, 200)
	id, _ := g.Connect(a.OutPoint(), b.InPoint())

	h, ok := g.Handle(g.Connection(id))
	if !ok {
		t.Fatal("handle not found")
	}
	c := g.ConnectionAt(h.Center())
	if c == nil || c.ID != id {
		t.Fatal("expected the connection at its handle")
	}
}

func TestPan(t *testing.T) {
	g := New()
	a := newNode(g, "A", 0, 0)
	b := newNode(g, "B", 300, 0)
	g.Pan(geom.Pt(10, 5))

	if a.Rect.Min != geom.Pt(10, 5) || b.Rect.Min != geom.Pt(310, 5) {
		t.Errorf("pan did not move every node: %v %v", a.Rect.Min, b.Rect.Min)
	}
}

func TestExportJSON(t *testing.T) {
	g := New()
	a := newNode(g, "Basic", 0, 0)
	b := newNode(g, "Cannon", 300, 0)
	g.Connect(a.OutPoint(), b.InPoint())

	data, err := g.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("ExportJSON produced invalid JSON: %v", err)
	}
	if len(parsed["nodes"].([]any)) != 2 {
		t.Error("expected 2 nodes in export")
	}
	if len(parsed["edges"].([]any)) != 1 {
		t.Error("expected 1 edge in export")
	}
}

func TestExportDOT(t *testing.T) {
	g := New()
	a := newNode(g, "Basic", 0, 0)
	b := newNode(g, "Cannon", 300, 0)
	g.Connect(a.OutPoint(), b.InPoint())

	dot := g.ExportDOT()
	if !strings.Contains(dot, "digraph towers") {
		t.Error("DOT output missing digraph header")
	}
	if !strings.Contains(dot, `"Basic" -> "Cannon"`) {
		t.Errorf("DOT output missing edge, got:\n%s", dot)
	}
}
