// Package bridge synchronises the editor graph with the record store.
//
// Save writes one record per node and encodes every connection as an
// upgrades_from entry on the target plus an upgrades_to entry on the source.
// Load turns records into nodes and their upgrades_from entries back into
// connections. Nodes and records are matched by name.
package bridge

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"go.uber.org/zap"

	"github.com/msalah0e/towergraph/internal/geom"
	"github.com/msalah0e/towergraph/internal/graph"
	"github.com/msalah0e/towergraph/internal/record"
)

var (
	// ErrNothingToLoad means the store holds no records of the bridge's kind.
	ErrNothingToLoad = errors.New("no tower records to load")
	// ErrAlreadyLoaded means every stored record already has a node.
	ErrAlreadyLoaded = errors.New("towers already loaded")
	// ErrUnnamedNode means a node has an empty title and cannot be saved.
	ErrUnnamedNode = errors.New("node has no name")
)

// DefaultPosition is where records without a stored position are placed.
var DefaultPosition = geom.Pt(20, 20)

// SaveReport describes what Save wrote.
type SaveReport struct {
	Created []string
	Updated []string
	// OutDependencies maps each saved node to the nodes its output feeds.
	OutDependencies map[string][]string
}

// Empty reports whether nothing was written.
func (r SaveReport) Empty() bool {
	return len(r.Created) == 0 && len(r.Updated) == 0
}

// Changed returns the names of every written record, created first.
func (r SaveReport) Changed() []string {
	out := make([]string, 0, len(r.Created)+len(r.Updated))
	out = append(out, r.Created...)
	return append(out, r.Updated...)
}

// LoadReport describes what Load changed.
type LoadReport struct {
	Added      []string
	Skipped    []string
	Connected  int
	Unresolved []string
}

// Bridge moves data between a graph and a store.
type Bridge struct {
	store      record.Store
	kind       string
	scopes     []string
	prune      bool
	defaultPos geom.Point
	log        *zap.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithKind sets the record kind to read and write.
func WithKind(kind string) Option {
	return func(b *Bridge) {
		if kind != "" {
			b.kind = kind
		}
	}
}

// WithScopes narrows which store folders are searched.
func WithScopes(scopes ...string) Option {
	return func(b *Bridge) { b.scopes = scopes }
}

// WithPrune makes Save replace upgrades_from with the current connections
// instead of adding to it.
func WithPrune(prune bool) Option {
	return func(b *Bridge) { b.prune = prune }
}

// WithDefaultPosition sets where unplaced records appear on load.
func WithDefaultPosition(p geom.Point) Option {
	return func(b *Bridge) { b.defaultPos = p }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.log = l
		}
	}
}

// New creates a bridge over store.
func New(store record.Store, opts ...Option) *Bridge {
	b := &Bridge{
		store:      store,
		kind:       record.Kind,
		defaultPos: DefaultPosition,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type entry struct {
	rec    *record.Record
	before *record.Record
	handle record.Handle
	isNew  bool
}

// Save writes the graph into the store. An empty graph is a no-op.
func (b *Bridge) Save(g *graph.Graph) (SaveReport, error) {
	if g.Len() == 0 {
		return SaveReport{}, nil
	}
	nodes := g.Nodes()
	for _, n := range nodes {
		if n.Title() == "" {
			return SaveReport{}, fmt.Errorf("%w: node %d", ErrUnnamedNode, n.ID)
		}
		if err := record.ValidName(n.Title()); err != nil {
			return SaveReport{}, fmt.Errorf("node %d: %w", n.ID, err)
		}
	}

	recs, handles, err := b.loadNamed()
	if err != nil {
		return SaveReport{}, err
	}
	var order []*entry
	byName := make(map[string]*entry, len(recs)+len(nodes))
	for i, r := range recs {
		if _, dup := byName[r.Name]; dup {
			b.log.Warn("duplicate record name", zap.String("name", r.Name), zap.String("path", handles[i].Path))
			continue
		}
		e := &entry{rec: r, before: r.Clone(), handle: handles[i]}
		byName[r.Name] = e
		order = append(order, e)
	}

	// Pass 1: one record per node, positions and upgrades_from.
	perNode := make([]*record.Record, len(nodes))
	for i, n := range nodes {
		e := byName[n.Title()]
		if e == nil {
			e = &entry{rec: b.fresh(n), isNew: true}
			byName[e.rec.Name] = e
			order = append(order, e)
		}
		pos := n.Rect.Min
		e.rec.SetPosition(pos)
		if tn, ok := n.Info.(*TowerNode); ok {
			tn.Record = e.rec
		} else if n.Info != nil {
			n.Info.SetStoredPosition(pos)
		}
		perNode[i] = e.rec
	}

	report := SaveReport{OutDependencies: make(map[string][]string)}
	pruned := make(map[*record.Record]bool)
	for i, n := range nodes {
		r := perNode[i]
		if b.prune && !pruned[r] {
			r.UpgradesFrom = []string{}
			pruned[r] = true
		}
		for _, k := range g.InDependencies(n.ID) {
			r.AddUpgradeFrom(perNode[k].Name)
		}
		var outs []string
		for _, k := range g.OutDependencies(n.ID) {
			if !slices.Contains(outs, perNode[k].Name) {
				outs = append(outs, perNode[k].Name)
			}
		}
		report.OutDependencies[r.Name] = outs
	}

	// Pass 2: derive upgrades_to from every record's upgrades_from.
	derived := make(map[string][]string, len(order))
	for _, e := range order {
		for _, from := range e.rec.UpgradesFrom {
			if src, ok := byName[from]; ok && !slices.Contains(derived[src.rec.Name], e.rec.Name) {
				derived[src.rec.Name] = append(derived[src.rec.Name], e.rec.Name)
			}
		}
	}
	for _, e := range order {
		e.rec.UpgradesTo = mergeOrdered(e.rec.UpgradesTo, derived[e.rec.Name])
	}

	for _, e := range order {
		name := e.rec.Name
		switch {
		case e.isNew:
			if err := b.store.Create(e.rec, b.store.PathFor(name)); err != nil {
				return report, fmt.Errorf("creating %s: %w", name, err)
			}
			report.Created = append(report.Created, name)
		case !e.rec.Equal(e.before):
			if err := b.store.Overwrite(e.handle, e.rec); err != nil {
				return report, fmt.Errorf("writing %s: %w", name, err)
			}
			report.Updated = append(report.Updated, name)
		}
	}

	b.log.Info("saved towers",
		zap.Int("nodes", len(nodes)),
		zap.Strings("created", report.Created),
		zap.Strings("updated", report.Updated))
	return report, nil
}

// loadNamed reads every record of the bridge's kind, dropping records whose
// name could never be written back.
func (b *Bridge) loadNamed() ([]*record.Record, []record.Handle, error) {
	recs, handles, err := record.LoadAll(b.store, b.kind, b.scopes)
	if err != nil {
		return nil, nil, fmt.Errorf("reading records: %w", err)
	}
	keptRecs, keptHandles := recs[:0], handles[:0]
	for i, r := range recs {
		if err := record.ValidName(r.Name); err != nil {
			b.log.Warn("ignoring record", zap.String("path", handles[i].Path), zap.Error(err))
			continue
		}
		keptRecs = append(keptRecs, r)
		keptHandles = append(keptHandles, handles[i])
	}
	return keptRecs, keptHandles, nil
}

func (b *Bridge) fresh(n *graph.Node) *record.Record {
	if tn, ok := n.Info.(*TowerNode); ok && tn.Record != nil {
		r := tn.Record
		if r.Kind == "" {
			r.Kind = b.kind
		}
		r.EnsureID()
		return r
	}
	r := record.New(n.Title())
	r.Kind = b.kind
	return r
}

// mergeOrdered keeps the entries of current that are in want, in their
// existing order, then appends the rest of want sorted. Repeated saves of
// the same graph therefore write the same list.
func mergeOrdered(current, want []string) []string {
	out := make([]string, 0, len(want))
	for _, s := range current {
		if slices.Contains(want, s) && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	var rest []string
	for _, s := range want {
		if !slices.Contains(out, s) {
			rest = append(rest, s)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// Load adds a node for every stored record that has none yet, then rebuilds
// the connections that touch the new nodes. It returns ErrNothingToLoad for
// an empty store and ErrAlreadyLoaded when there is nothing new; in both
// cases the graph is unchanged.
func (b *Bridge) Load(g *graph.Graph) (LoadReport, error) {
	recs, _, err := b.loadNamed()
	if err != nil {
		return LoadReport{}, err
	}
	if len(recs) == 0 {
		return LoadReport{}, ErrNothingToLoad
	}

	var report LoadReport
	var fresh []*record.Record
	seen := make(map[string]bool, len(recs))
	for _, r := range recs {
		if seen[r.Name] || g.FindNodeByTitle(r.Name) != nil {
			report.Skipped = append(report.Skipped, r.Name)
			continue
		}
		seen[r.Name] = true
		fresh = append(fresh, r)
	}
	if len(fresh) == 0 {
		return report, ErrAlreadyLoaded
	}

	added := make(map[graph.NodeID]bool, len(fresh))
	for _, r := range fresh {
		pos, ok := r.Position()
		if !ok {
			pos = b.defaultPos
			r.SetPosition(pos)
		}
		added[g.AddNode(pos, NewTowerNode(r))] = true
		report.Added = append(report.Added, r.Name)
	}

	for _, r := range recs {
		target := g.FindNodeByTitle(r.Name)
		if target == nil {
			continue
		}
		for _, from := range r.UpgradesFrom {
			source := g.FindNodeByTitle(from)
			if source == nil {
				report.Unresolved = append(report.Unresolved, from+" -> "+r.Name)
				continue
			}
			if !added[source.ID] && !added[target.ID] {
				continue
			}
			if g.HasConnection(source.OutPoint(), target.InPoint()) {
				continue
			}
			if _, err := g.Connect(source.OutPoint(), target.InPoint()); err != nil {
				b.log.Debug("skipping reference", zap.String("from", from), zap.String("to", r.Name), zap.Error(err))
				continue
			}
			report.Connected++
		}
	}

	b.log.Info("loaded towers",
		zap.Int("added", len(report.Added)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("connections", report.Connected),
		zap.Int("unresolved", len(report.Unresolved)))
	return report, nil
}
