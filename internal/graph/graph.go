package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/msalah0e/towergraph/internal/geom"
)

// NodeID identifies a node within one Graph. IDs are never reused.
type NodeID int

// ConnectionID identifies a connection within one Graph.
type ConnectionID int

// PointKind tells an input anchor from an output anchor.
type PointKind int

const (
	In PointKind = iota
	Out
)

func (k PointKind) String() string {
	switch k {
	case In:
		return "in"
	case Out:
		return "out"
	default:
		return "unknown"
	}
}

// Connection point geometry, in canvas units.
const (
	PointWidth  = 10
	PointHeight = 20
	pointInset  = 8
	HandleSize  = 8
)

// DefaultNodeSize is used until SetNodeSize is called.
var DefaultNodeSize = geom.Size{W: 200, H: 50}

// ErrInvalidConnection is returned when a connection would join mismatched
// point kinds, a node to itself, or points that are not in the graph.
var ErrInvalidConnection = errors.New("invalid connection")

// NodeInfo is the payload a node wraps. The graph only needs a title and a
// place to keep the editor position; everything else belongs to the caller.
type NodeInfo interface {
	Title() string
	StoredPosition() (geom.Point, bool)
	SetStoredPosition(geom.Point)
}

// ConnectionPoint is an anchor on a node. Its screen region is derived from
// the owning node each time it is asked for, so dragging a node moves it.
type ConnectionPoint struct {
	Owner NodeID
	Kind  PointKind
}

// Node is a positioned box on the canvas.
type Node struct {
	ID   NodeID
	Rect geom.Rect
	Info NodeInfo
}

// Title returns the payload title, or "" for a node without payload.
func (n *Node) Title() string {
	if n.Info == nil {
		return ""
	}
	return n.Info.Title()
}

// InPoint returns the node's input anchor.
func (n *Node) InPoint() ConnectionPoint {
	return ConnectionPoint{Owner: n.ID, Kind: In}
}

// OutPoint returns the node's output anchor.
func (n *Node) OutPoint() ConnectionPoint {
	return ConnectionPoint{Owner: n.ID, Kind: Out}
}

// Region returns the hit region of the given anchor kind.
func (n *Node) Region(kind PointKind) geom.Rect {
	y := n.Rect.Min.Y + n.Rect.Size.H/2 - PointHeight/2
	x := n.Rect.Min.X - PointWidth + pointInset
	if kind == Out {
		x = n.Rect.Min.X + n.Rect.Size.W - pointInset
	}
	return geom.R(x, y, PointWidth, PointHeight)
}

// Connection is a directed edge from Out on one node to In on another.
// It references the points, it does not own the nodes.
type Connection struct {
	ID  ConnectionID
	In  ConnectionPoint
	Out ConnectionPoint
}

// Graph owns the nodes and connections of one editor canvas. Node order is
// insertion order; hit testing walks it backwards so the last-added node is
// on top.
type Graph struct {
	nodes       []*Node
	connections []*Connection
	nextNode    NodeID
	nextConn    ConnectionID
	nodeSize    geom.Size
	dirty       bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:       make([]*Node, 0),
		connections: make([]*Connection, 0),
		nextNode:    1,
		nextConn:    1,
		nodeSize:    DefaultNodeSize,
	}
}

// SetNodeSize changes the size given to nodes added from now on.
func (g *Graph) SetNodeSize(s geom.Size) {
	if s.W > 0 && s.H > 0 {
		g.nodeSize = s
	}
}

// ─── Nodes ───

// AddNode appends a node at pos wrapping info.
func (g *Graph) AddNode(pos geom.Point, info NodeInfo) NodeID {
	id := g.nextNode
	g.nextNode++
	g.nodes = append(g.nodes, &Node{
		ID:   id,
		Rect: geom.Rect{Min: pos, Size: g.nodeSize},
		Info: info,
	})
	g.dirty = true
	return id
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id NodeID) *Node {
	if i := g.Index(id); i >= 0 {
		return g.nodes[i]
	}
	return nil
}

// Index returns the insertion index of a node, or -1.
func (g *Graph) Index(id NodeID) int {
	for i, n := range g.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// RemoveNode deletes a node and every connection touching it. It reports
// whether anything was removed; an unknown id is a no-op.
func (g *Graph) RemoveNode(id NodeID) bool {
	i := g.Index(id)
	if i < 0 {
		return false
	}

	// Cascade first so no connection ever points at a missing node.
	filtered := make([]*Connection, 0, len(g.connections))
	for _, c := range g.connections {
		if c.In.Owner != id && c.Out.Owner != id {
			filtered = append(filtered, c)
		}
	}
	g.connections = filtered

	g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
	g.dirty = true
	return true
}

// FindNodeByTitle returns the first node, in insertion order, whose payload
// title equals title. Titles are not required to be unique.
func (g *Graph) FindNodeByTitle(title string) *Node {
	for _, n := range g.nodes {
		if n.Title() == title {
			return n
		}
	}
	return nil
}

// MoveNode shifts one node by delta.
func (g *Graph) MoveNode(id NodeID, delta geom.Point) {
	if n := g.Node(id); n != nil {
		n.Rect = n.Rect.Translate(delta)
		g.dirty = true
	}
}

// Pan shifts every node by delta.
func (g *Graph) Pan(delta geom.Point) {
	for _, n := range g.nodes {
		n.Rect = n.Rect.Translate(delta)
	}
	if len(g.nodes) > 0 {
		g.dirty = true
	}
}

// ─── Connections ───

// AddConnection joins out to in. The attempt is rejected without touching
// the graph when the kinds are wrong, both points share an owner, or either
// owner is not in the graph.
func (g *Graph) AddConnection(in, out ConnectionPoint) (ConnectionID, error) {
	if in.Kind != In || out.Kind != Out {
		return 0, fmt.Errorf("%w: want in/out, got %s/%s", ErrInvalidConnection, in.Kind, out.Kind)
	}
	if in.Owner == out.Owner {
		return 0, fmt.Errorf("%w: node %d cannot connect to itself", ErrInvalidConnection, in.Owner)
	}
	if g.Node(in.Owner) == nil || g.Node(out.Owner) == nil {
		return 0, fmt.Errorf("%w: endpoint not in graph", ErrInvalidConnection)
	}

	id := g.nextConn
	g.nextConn++
	g.connections = append(g.connections, &Connection{ID: id, In: in, Out: out})
	g.dirty = true
	return id, nil
}

// Connect is AddConnection with the arguments in edge direction.
func (g *Graph) Connect(out, in ConnectionPoint) (ConnectionID, error) {
	return g.AddConnection(in, out)
}

// RemoveConnection deletes a connection by id. Unknown ids are a no-op.
func (g *Graph) RemoveConnection(id ConnectionID) bool {
	for i, c := range g.connections {
		if c.ID == id {
			g.connections = append(g.connections[:i], g.connections[i+1:]...)
			g.dirty = true
			return true
		}
	}
	return false
}

// Connection returns the connection with the given id, or nil.
func (g *Graph) Connection(id ConnectionID) *Connection {
	for _, c := range g.connections {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Connections returns all connections.
func (g *Graph) Connections() []*Connection {
	out := make([]*Connection, len(g.connections))
	copy(out, g.connections)
	return out
}

// HasConnection reports whether out is already joined to in.
func (g *Graph) HasConnection(out, in ConnectionPoint) bool {
	for _, c := range g.connections {
		if c.Out == out && c.In == in {
			return true
		}
	}
	return false
}

// ConnectionsOf returns the connections touching a node.
func (g *Graph) ConnectionsOf(id NodeID) []*Connection {
	var out []*Connection
	for _, c := range g.connections {
		if c.In.Owner == id || c.Out.Owner == id {
			out = append(out, c)
		}
	}
	return out
}

// InDependencies returns the indexes of the nodes whose output feeds the
// input of node id, in connection order.
func (g *Graph) InDependencies(id NodeID) []int {
	var deps []int
	for _, c := range g.connections {
		if c.In.Owner == id {
			if k := g.Index(c.Out.Owner); k >= 0 {
				deps = append(deps, k)
			}
		}
	}
	return deps
}

// OutDependencies returns the indexes of the nodes fed by the output of
// node id, in connection order.
func (g *Graph) OutDependencies(id NodeID) []int {
	var deps []int
	for _, c := range g.connections {
		if c.Out.Owner == id {
			if k := g.Index(c.In.Owner); k >= 0 {
				deps = append(deps, k)
			}
		}
	}
	return deps
}

// ─── Geometry ───

// Anchor returns the live centre of a connection point.
func (g *Graph) Anchor(p ConnectionPoint) (geom.Point, bool) {
	n := g.Node(p.Owner)
	if n == nil {
		return geom.Point{}, false
	}
	return n.Region(p.Kind).Center(), true
}

// Curve returns the bezier a connection is drawn along.
func (g *Graph) Curve(c *Connection) (geom.Bezier, bool) {
	out, ok := g.Anchor(c.Out)
	if !ok {
		return geom.Bezier{}, false
	}
	in, ok := g.Anchor(c.In)
	if !ok {
		return geom.Bezier{}, false
	}
	return geom.CurveFromOut(out, in), true
}

// Handle returns the removal handle of a connection, centred on its curve.
func (g *Graph) Handle(c *Connection) (geom.Rect, bool) {
	b, ok := g.Curve(c)
	if !ok {
		return geom.Rect{}, false
	}
	m := b.Midpoint()
	return geom.R(m.X-HandleSize/2, m.Y-HandleSize/2, HandleSize, HandleSize), true
}

// HitTest returns the topmost node containing p, or nil.
func (g *Graph) HitTest(p geom.Point) *Node {
	for i := len(g.nodes) - 1; i >= 0; i-- {
		if g.nodes[i].Rect.Contains(p) {
			return g.nodes[i]
		}
	}
	return nil
}

// PointAt returns the topmost connection point whose region contains p.
func (g *Graph) PointAt(p geom.Point) (ConnectionPoint, bool) {
	for i := len(g.nodes) - 1; i >= 0; i-- {
		n := g.nodes[i]
		if n.Region(In).Contains(p) {
			return n.InPoint(), true
		}
		if n.Region(Out).Contains(p) {
			return n.OutPoint(), true
		}
	}
	return ConnectionPoint{}, false
}

// ConnectionAt returns the connection whose removal handle contains p.
func (g *Graph) ConnectionAt(p geom.Point) *Connection {
	for i := len(g.connections) - 1; i >= 0; i-- {
		c := g.connections[i]
		if h, ok := g.Handle(c); ok && h.Contains(p) {
			return c
		}
	}
	return nil
}

// ─── Redraw tracking ───

// Dirty reports whether the graph changed since the last ClearDirty.
func (g *Graph) Dirty() bool {
	return g.dirty
}

// MarkDirty forces a redraw.
func (g *Graph) MarkDirty() {
	g.dirty = true
}

// ClearDirty resets the change flag after a redraw.
func (g *Graph) ClearDirty() {
	g.dirty = false
}

// ─── Export ───

type exportNode struct {
	ID    NodeID     `json:"id"`
	Title string     `json:"title"`
	Pos   geom.Point `json:"position"`
}

type exportEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type exportGraph struct {
	Nodes []exportNode `json:"nodes"`
	Edges []exportEdge `json:"edges"`
}

func (g *Graph) export() exportGraph {
	eg := exportGraph{
		Nodes: make([]exportNode, 0, len(g.nodes)),
		Edges: make([]exportEdge, 0, len(g.connections)),
	}
	for _, n := range g.nodes {
		eg.Nodes = append(eg.Nodes, exportNode{ID: n.ID, Title: n.Title(), Pos: n.Rect.Min})
	}
	for _, c := range g.connections {
		from, to := g.Node(c.Out.Owner), g.Node(c.In.Owner)
		if from == nil || to == nil {
			continue
		}
		eg.Edges = append(eg.Edges, exportEdge{From: from.Title(), To: to.Title()})
	}
	return eg
}

// ExportJSON returns the graph as pretty-printed JSON.
func (g *Graph) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(g.export(), "", "  ")
}

// ExportDOT returns the graph in Graphviz DOT format. Edges point in the
// upgrade direction.
func (g *Graph) ExportDOT() string {
	eg := g.export()

	var b strings.Builder
	b.WriteString("digraph towers {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=rounded];\n\n")
	for _, n := range eg.Nodes {
		b.WriteString(fmt.Sprintf("  %q;\n", n.Title))
	}
	if len(eg.Edges) > 0 {
		b.WriteString("\n")
	}
	for _, e := range eg.Edges {
		b.WriteString(fmt.Sprintf("  %q -> %q;\n", e.From, e.To))
	}
	b.WriteString("}\n")
	return b.String()
}
