package bridge

import (
	"errors"
	"fmt"

	"github.com/msalah0e/towergraph/internal/graph"
	"github.com/msalah0e/towergraph/internal/record"
)

// ErrUnknownTower is returned when a name matches no node.
var ErrUnknownTower = errors.New("unknown tower")

// Link connects from's output to to's input and saves. It reports false
// when the two were already linked.
func (b *Bridge) Link(g *graph.Graph, from, to string) (bool, error) {
	src, dst, err := endpoints(g, from, to)
	if err != nil {
		return false, err
	}
	if g.HasConnection(src.OutPoint(), dst.InPoint()) {
		return false, nil
	}
	if _, err := g.Connect(src.OutPoint(), dst.InPoint()); err != nil {
		return false, err
	}
	if _, err := b.Save(g); err != nil {
		return false, err
	}
	return true, nil
}

// Unlink removes the connection from -> to and drops the reference from the
// stored record, so it stays gone without pruning other references. It
// reports false when there was nothing to remove.
func (b *Bridge) Unlink(g *graph.Graph, from, to string) (bool, error) {
	src, dst, err := endpoints(g, from, to)
	if err != nil {
		return false, err
	}
	removed := false
	for _, c := range g.ConnectionsOf(dst.ID) {
		if c.Out == src.OutPoint() && c.In == dst.InPoint() {
			removed = g.RemoveConnection(c.ID) || removed
		}
	}

	r, h, err := b.find(to)
	if err != nil {
		return false, err
	}
	if r != nil && r.RemoveUpgradeFrom(from) {
		if err := b.store.Overwrite(h, r); err != nil {
			return false, fmt.Errorf("writing %s: %w", to, err)
		}
		removed = true
	}
	if !removed {
		return false, nil
	}
	if _, err := b.Save(g); err != nil {
		return false, err
	}
	return true, nil
}

func endpoints(g *graph.Graph, from, to string) (*graph.Node, *graph.Node, error) {
	src := g.FindNodeByTitle(from)
	if src == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownTower, from)
	}
	dst := g.FindNodeByTitle(to)
	if dst == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownTower, to)
	}
	return src, dst, nil
}

// find returns the first stored record named name, or nil.
func (b *Bridge) find(name string) (*record.Record, record.Handle, error) {
	handles, err := b.store.FindAll(b.kind, b.scopes)
	if err != nil {
		return nil, record.Handle{}, fmt.Errorf("reading records: %w", err)
	}
	for _, h := range handles {
		if h.Name != name {
			continue
		}
		r, err := b.store.Load(h)
		if err != nil {
			return nil, record.Handle{}, err
		}
		return r, h, nil
	}
	return nil, record.Handle{}, nil
}
