package bridge

import (
	"fmt"

	"github.com/msalah0e/towergraph/internal/geom"
	"github.com/msalah0e/towergraph/internal/graph"
	"github.com/msalah0e/towergraph/internal/record"
)

// DefaultTowerName prefixes the names of towers added from the canvas.
const DefaultTowerName = "New Tower"

// TowerNode is the node payload for one tower blueprint.
type TowerNode struct {
	Record *record.Record
}

// NewTowerNode wraps a record.
func NewTowerNode(r *record.Record) *TowerNode {
	return &TowerNode{Record: r}
}

func (t *TowerNode) Title() string {
	return t.Record.Name
}

func (t *TowerNode) StoredPosition() (geom.Point, bool) {
	return t.Record.Position()
}

func (t *TowerNode) SetStoredPosition(p geom.Point) {
	t.Record.SetPosition(p)
}

// DefaultPayloads returns a factory for blank towers named "New Tower 1",
// "New Tower 2", ... skipping names already present in g.
func DefaultPayloads(g *graph.Graph) func() graph.NodeInfo {
	n := 0
	return func() graph.NodeInfo {
		for {
			n++
			name := fmt.Sprintf("%s %d", DefaultTowerName, n)
			if g.FindNodeByTitle(name) == nil {
				return NewTowerNode(record.New(name))
			}
		}
	}
}
