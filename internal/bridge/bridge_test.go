package bridge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msalah0e/towergraph/internal/geom"
	"github.com/msalah0e/towergraph/internal/graph"
	"github.com/msalah0e/towergraph/internal/record"
)

func tower(g *graph.Graph, name string, x, y float64) *graph.Node {
	return g.Node(g.AddNode(geom.Pt(x, y), NewTowerNode(record.New(name))))
}

func connect(t *testing.T, g *graph.Graph, from, to *graph.Node) {
	t.Helper()
	_, err := g.Connect(from.OutPoint(), to.InPoint())
	require.NoError(t, err)
}

func TestSaveEmptyGraphIsNoop(t *testing.T) {
	s := record.NewMemStore()
	report, err := New(s).Save(graph.New())
	require.NoError(t, err)
	assert.True(t, report.Empty())
	assert.Equal(t, 0, s.Writes())
}

func TestSaveWritesReferencesBothWays(t *testing.T) {
	s := record.NewMemStore()
	g := graph.New()
	a := tower(g, "A", 0, 0)
	b := tower(g, "B", 300, 40)
	connect(t, g, a, b)

	report, err := New(s).Save(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, report.Created)
	assert.Equal(t, []string{"B"}, report.OutDependencies["A"])
	assert.Empty(t, report.OutDependencies["B"])

	ra, rb := s.Get("A"), s.Get("B")
	require.NotNil(t, ra)
	require.NotNil(t, rb)
	assert.Equal(t, []string{"A"}, rb.UpgradesFrom)
	assert.Equal(t, []string{"B"}, ra.UpgradesTo)
	assert.Equal(t, &geom.Point{X: 300, Y: 40}, rb.EditorPosition)
	assert.NotEmpty(t, ra.ID)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := record.NewMemStore()
	g := graph.New()
	a := tower(g, "A", 0, 0)
	b := tower(g, "B", 300, 0)
	connect(t, g, a, b)
	_, err := New(s).Save(g)
	require.NoError(t, err)

	fresh := graph.New()
	report, err := New(s).Load(fresh)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, report.Added)
	assert.Equal(t, 1, report.Connected)

	na, nb := fresh.FindNodeByTitle("A"), fresh.FindNodeByTitle("B")
	require.NotNil(t, na)
	require.NotNil(t, nb)
	deps := fresh.InDependencies(nb.ID)
	require.Len(t, deps, 1)
	assert.Equal(t, "A", fresh.Nodes()[deps[0]].Title())
	assert.Equal(t, geom.Pt(300, 0), nb.Rect.Min)
}

func TestInverseDerivedOverWholeStore(t *testing.T) {
	s := record.NewMemStore()
	orphan := record.New("Mortar")
	orphan.UpgradesFrom = []string{"Cannon"}
	s.Put(orphan)

	g := graph.New()
	tower(g, "Cannon", 0, 0)
	_, err := New(s).Save(g)
	require.NoError(t, err)

	assert.Equal(t, []string{"Mortar"}, s.Get("Cannon").UpgradesTo,
		"records not on the canvas still feed upgrades_to")
}

func TestSaveUsesSetSemantics(t *testing.T) {
	s := record.NewMemStore()
	g := graph.New()
	a := tower(g, "A", 0, 0)
	b := tower(g, "B", 300, 0)
	connect(t, g, a, b)

	br := New(s)
	_, err := br.Save(g)
	require.NoError(t, err)
	writes := s.Writes()

	report, err := br.Save(g)
	require.NoError(t, err)
	assert.True(t, report.Empty())
	assert.Equal(t, writes, s.Writes())
	assert.Equal(t, []string{"A"}, s.Get("B").UpgradesFrom)
}

func TestSaveIsIdempotentOnDisk(t *testing.T) {
	dir := t.TempDir()
	s := record.NewFileStore(dir, nil)
	g := graph.New()
	a := tower(g, "A", 0, 0)
	b := tower(g, "B", 300, 0)
	c := tower(g, "C", 300, 200)
	connect(t, g, a, b)
	connect(t, g, a, c)

	br := New(s)
	_, err := br.Save(g)
	require.NoError(t, err)
	first := readAll(t, dir)

	_, err = br.Save(g)
	require.NoError(t, err)
	assert.Equal(t, first, readAll(t, dir))
}

func readAll(t *testing.T, dir string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		out[e.Name()] = string(data)
	}
	return out
}

func TestSaveKeepsRemovedReferenceUnlessPruning(t *testing.T) {
	s := record.NewMemStore()
	g := graph.New()
	a := tower(g, "A", 0, 0)
	b := tower(g, "B", 300, 0)
	connect(t, g, a, b)
	_, err := New(s).Save(g)
	require.NoError(t, err)

	g.RemoveConnection(g.Connections()[0].ID)
	_, err = New(s).Save(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, s.Get("B").UpgradesFrom)

	_, err = New(s, WithPrune(true)).Save(g)
	require.NoError(t, err)
	assert.Empty(t, s.Get("B").UpgradesFrom)
	assert.Empty(t, s.Get("A").UpgradesTo)
}

func TestSaveRejectsUnnamedNode(t *testing.T) {
	s := record.NewMemStore()
	g := graph.New()
	g.AddNode(geom.Pt(0, 0), NewTowerNode(&record.Record{}))

	_, err := New(s).Save(g)
	assert.ErrorIs(t, err, ErrUnnamedNode)
	assert.Equal(t, 0, s.Len())
}

func TestLoadEmptyStore(t *testing.T) {
	g := graph.New()
	_, err := New(record.NewMemStore()).Load(g)
	assert.ErrorIs(t, err, ErrNothingToLoad)
	assert.Equal(t, 0, g.Len())
}

func TestLoadTwiceDoesNotDuplicate(t *testing.T) {
	s := record.NewMemStore()
	s.Put(record.New("A"))
	s.Put(record.New("B"))
	g := graph.New()
	br := New(s)

	_, err := br.Load(g)
	require.NoError(t, err)
	require.Equal(t, 2, g.Len())

	report, err := br.Load(g)
	assert.ErrorIs(t, err, ErrAlreadyLoaded)
	assert.ElementsMatch(t, []string{"A", "B"}, report.Skipped)
	assert.Equal(t, 2, g.Len())
}

func TestLoadAddsOnlyNewRecords(t *testing.T) {
	s := record.NewMemStore()
	s.Put(record.New("A"))
	g := graph.New()
	br := New(s)
	_, err := br.Load(g)
	require.NoError(t, err)

	b := record.New("B")
	b.UpgradesFrom = []string{"A"}
	s.Put(b)

	report, err := br.Load(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, report.Added)
	assert.Equal(t, []string{"A"}, report.Skipped)
	assert.Equal(t, 1, report.Connected)
	assert.Equal(t, 2, g.Len())
}

func TestLoadKeepsUnsavedEditsBetweenExistingNodes(t *testing.T) {
	s := record.NewMemStore()
	a := record.New("A")
	b := record.New("B")
	b.UpgradesFrom = []string{"A"}
	s.Put(a)
	s.Put(b)

	g := graph.New()
	br := New(s)
	_, err := br.Load(g)
	require.NoError(t, err)
	require.Len(t, g.Connections(), 1)
	g.RemoveConnection(g.Connections()[0].ID)

	s.Put(record.New("C"))
	_, err = br.Load(g)
	require.NoError(t, err)
	assert.Empty(t, g.Connections())
}

func TestLoadToleratesUnmatchedReference(t *testing.T) {
	s := record.NewMemStore()
	r := record.New("Cannon")
	r.UpgradesFrom = []string{"Ghost"}
	s.Put(r)

	g := graph.New()
	report, err := New(s).Load(g)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
	assert.Empty(t, g.Connections())
	assert.Equal(t, []string{"Ghost -> Cannon"}, report.Unresolved)
}

func TestLoadPlacesUnpositionedRecords(t *testing.T) {
	s := record.NewMemStore()
	s.Put(record.New("A"))
	placed := record.New("B")
	placed.SetPosition(geom.Pt(90, 10))
	s.Put(placed)

	g := graph.New()
	_, err := New(s, WithDefaultPosition(geom.Pt(5, 5))).Load(g)
	require.NoError(t, err)

	na := g.FindNodeByTitle("A")
	assert.Equal(t, geom.Pt(5, 5), na.Rect.Min)
	pos, ok := na.Info.StoredPosition()
	assert.True(t, ok)
	assert.Equal(t, geom.Pt(5, 5), pos)
	assert.Equal(t, geom.Pt(90, 10), g.FindNodeByTitle("B").Rect.Min)
}

func TestLoadSkipsSelfReference(t *testing.T) {
	s := record.NewMemStore()
	r := record.New("Loop")
	r.UpgradesFrom = []string{"Loop"}
	s.Put(r)

	g := graph.New()
	report, err := New(s).Load(g)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Connected)
	assert.Empty(t, g.Connections())
}

func TestLoadRespectsKind(t *testing.T) {
	s := record.NewMemStore()
	enemy := record.New("Goblin")
	enemy.Kind = "EnemyBlueprint"
	s.Put(enemy)

	_, err := New(s).Load(graph.New())
	assert.ErrorIs(t, err, ErrNothingToLoad)

	g := graph.New()
	_, err = New(s, WithKind("EnemyBlueprint")).Load(g)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
}

func TestDefaultPayloadsAreUnique(t *testing.T) {
	g := graph.New()
	tower(g, "New Tower 1", 0, 0)
	next := DefaultPayloads(g)

	first := next()
	assert.Equal(t, "New Tower 2", first.Title())
	g.AddNode(geom.Point{}, first)
	assert.Equal(t, "New Tower 3", next().Title())
}

func TestRecordWithEmptyNameIsIgnored(t *testing.T) {
	s := record.NewMemStore()
	s.Put(record.New(""))
	s.Put(record.New("A"))

	g := graph.New()
	report, err := New(s).Load(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, report.Added)
	assert.Nil(t, g.FindNodeByTitle(""))

	tower(g, "B", 300, 0)
	saved, err := New(s).Save(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, saved.Created)
}

func TestSaveRejectsNodeNameOutsideStore(t *testing.T) {
	s := record.NewMemStore()
	g := graph.New()
	tower(g, "A", 0, 0)
	tower(g, "../escaped", 300, 0)

	_, err := New(s).Save(g)
	assert.ErrorIs(t, err, record.ErrInvalidName)
	assert.Equal(t, 0, s.Writes())
}
