package record

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msalah0e/towergraph/internal/geom"
)

func TestFileStoreCreateAndLoad(t *testing.T) {
	for _, format := range []string{"toml", "yaml"} {
		t.Run(format, func(t *testing.T) {
			codec, err := CodecFor(format)
			require.NoError(t, err)
			s := NewFileStore(t.TempDir(), codec)

			r := New("Cannon")
			r.Cost = 120
			r.UpgradesFrom = []string{"Basic"}
			r.SetPosition(geom.Pt(12.5, -3))
			require.NoError(t, s.Create(r, s.PathFor(r.Name)))

			handles, err := s.FindAll(Kind, nil)
			require.NoError(t, err)
			require.Len(t, handles, 1)
			assert.Equal(t, "Cannon", handles[0].Name)
			assert.Equal(t, filepath.Join(s.Dir(), "Cannon."+codec.Ext()), handles[0].Path)

			got, err := s.Load(handles[0])
			require.NoError(t, err)
			assert.True(t, r.Equal(got), "round trip: %+v vs %+v", r, got)
		})
	}
}

func TestFileStoreCreateRefusesExisting(t *testing.T) {
	s := NewFileStore(t.TempDir(), nil)
	r := New("Basic")
	require.NoError(t, s.Create(r, s.PathFor("Basic")))

	err := s.Create(New("Basic"), s.PathFor("Basic"))
	assert.ErrorIs(t, err, ErrExists)
}

func TestFileStoreOverwriteIsStable(t *testing.T) {
	s := NewFileStore(t.TempDir(), nil)
	r := New("Basic")
	r.UpgradesTo = []string{"Cannon"}
	path := s.PathFor("Basic")
	require.NoError(t, s.Create(r, path))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	loaded, err := s.Load(Handle{Path: path})
	require.NoError(t, err)
	require.NoError(t, s.Overwrite(Handle{Path: path, Name: "Basic"}, loaded))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestFileStoreHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	body := "upgrades_from = [\"Basic\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Mortar.toml"), []byte(body), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Other.toml"), []byte("kind = \"EnemyBlueprint\"\n"), 0o644))

	s := NewFileStore(dir, nil)
	handles, err := s.FindAll(Kind, nil)
	require.NoError(t, err)
	require.Len(t, handles, 1)

	r, err := s.Load(handles[0])
	require.NoError(t, err)
	assert.Equal(t, "Mortar", r.Name, "name falls back to the file name")
	assert.Empty(t, r.ID)

	require.NoError(t, s.Overwrite(handles[0], r))
	assert.NotEmpty(t, r.ID, "overwrite assigns a missing id")
	assert.Equal(t, Kind, r.Kind)
}

func TestFileStoreScopes(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir, nil)
	require.NoError(t, s.Create(New("Root"), s.PathFor("Root")))
	require.NoError(t, s.Create(New("Ice"), filepath.Join(dir, "frost", "Ice.toml")))

	all, err := s.FindAll(Kind, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1, "sub-folders are not searched without a scope")

	scoped, err := s.FindAll(Kind, []string{"frost", "missing"})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "Ice", scoped[0].Name)
}

func TestFileStoreMissingFolder(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nope"), nil)
	handles, err := s.FindAll(Kind, nil)
	require.NoError(t, err)
	assert.Empty(t, handles)
}

func TestFileStoreBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Broken.toml"), []byte("name = ["), 0o644))

	_, err := NewFileStore(dir, nil).FindAll(Kind, nil)
	assert.ErrorContains(t, err, "Broken.toml")
}

func TestFileStoreRejectsInvalidNames(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "towers")
	s := NewFileStore(dir, nil)

	for _, name := range []string{"", "   ", ".hidden", "..", "../escaped", "Fire/Ice", `Fire\Ice`} {
		t.Run(name, func(t *testing.T) {
			err := s.Create(New(name), s.PathFor(name))
			assert.ErrorIs(t, err, ErrInvalidName)
		})
	}

	_, err := os.Stat(filepath.Join(root, "escaped.toml"))
	assert.True(t, os.IsNotExist(err), "nothing written outside the store")
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "nothing written inside the store")

	require.NoError(t, s.Create(New("Fire Tower"), s.PathFor("Fire Tower")))
}

func TestValidName(t *testing.T) {
	assert.NoError(t, ValidName("Basic Tower"))
	assert.NoError(t, ValidName("Tower.v2"))
	assert.ErrorIs(t, ValidName(""), ErrInvalidName)
	assert.ErrorIs(t, ValidName("a\x00b"), ErrInvalidName)
}

func TestFileStoreSkipsFilesThatAreNotRecords(t *testing.T) {
	dir := t.TempDir()
	project := "[store]\ndir = \".\"\n"
	projectPath := filepath.Join(dir, ".towergraph.toml")
	require.NoError(t, os.WriteFile(projectPath, []byte(project), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.toml"), []byte("[editor]\ngrid = 10\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Sneaky.toml"), []byte("name = \"../Sneaky\"\nupgrades_from = []\n"), 0o644))

	s := NewFileStore(dir, nil)
	require.NoError(t, s.Create(New("Basic"), s.PathFor("Basic")))

	recs, handles, err := LoadAll(s, Kind, nil)
	require.NoError(t, err)
	require.Len(t, handles, 1)
	assert.Equal(t, "Basic", handles[0].Name)

	recs[0].Cost = 10
	require.NoError(t, s.Overwrite(handles[0], recs[0]))
	data, err := os.ReadFile(projectPath)
	require.NoError(t, err)
	assert.Equal(t, project, string(data), "project config is left alone")
}

func TestFileStoreWritesEmptyListsAndOmitsZeroCost(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir, nil)
	r := &Record{Name: "Bare"}
	require.NoError(t, s.Create(r, s.PathFor("Bare")))

	data, err := os.ReadFile(s.PathFor("Bare"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "cost")
	assert.Contains(t, string(data), "upgrades_from = []")
	assert.Contains(t, string(data), "upgrades_to = []")

	r.Cost = 150
	require.NoError(t, s.Overwrite(Handle{Path: s.PathFor("Bare")}, r))
	data, err = os.ReadFile(s.PathFor("Bare"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "cost = 150")
}

type countingCodec struct {
	TOML
	decodes *atomic.Int32
}

func (c countingCodec) Unmarshal(data []byte, r *Record) error {
	c.decodes.Add(1)
	return c.TOML.Unmarshal(data, r)
}

func TestLoadAllDecodesEachFileOnce(t *testing.T) {
	dir := t.TempDir()
	decodes := &atomic.Int32{}
	s := NewFileStore(dir, countingCodec{decodes: decodes})
	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, s.Create(New(name), s.PathFor(name)))
	}

	recs, handles, err := LoadAll(s, Kind, nil)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, int32(3), decodes.Load())
	for i, h := range handles {
		assert.Equal(t, h.Name, recs[i].Name)
		assert.Equal(t, filepath.Join(dir, h.Name+".toml"), h.Path)
	}
}

func TestCodecFor(t *testing.T) {
	c, err := CodecFor("")
	require.NoError(t, err)
	assert.Equal(t, "toml", c.Ext())

	c, err = CodecFor("yml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", c.Ext())

	_, err = CodecFor("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()
	s.Put(New("A"))
	require.NoError(t, s.Create(New("B"), s.PathFor("B")))
	assert.ErrorIs(t, s.Create(New("B"), s.PathFor("B")), ErrExists)
	assert.ErrorIs(t, s.Create(New(""), s.PathFor("")), ErrInvalidName)

	recs, handles, err := LoadAll(s, Kind, nil)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "A", handles[0].Name)
	assert.Equal(t, "B", recs[1].Name)

	recs[0].Name = "changed"
	assert.Equal(t, "A", s.Get("A").Name, "loaded records are copies")
	assert.Equal(t, 1, s.Writes())
}

func TestRecordUpgradeFromSet(t *testing.T) {
	r := New("Cannon")
	assert.True(t, r.AddUpgradeFrom("Basic"))
	assert.False(t, r.AddUpgradeFrom("Basic"))
	assert.Equal(t, []string{"Basic"}, r.UpgradesFrom)

	r.UpgradesFrom = append(r.UpgradesFrom, "Basic", "Arrow")
	assert.True(t, r.RemoveUpgradeFrom("Basic"))
	assert.Equal(t, []string{"Arrow"}, r.UpgradesFrom)
	assert.False(t, r.RemoveUpgradeFrom("Basic"))
}

func TestRecordCloneAndEqual(t *testing.T) {
	r := New("Cannon")
	r.SetPosition(geom.Pt(1, 2))
	c := r.Clone()
	assert.True(t, r.Equal(c))

	c.EditorPosition.X = 5
	assert.False(t, r.Equal(c))
	assert.Equal(t, 1.0, r.EditorPosition.X)

	c = r.Clone()
	c.UpgradesTo = nil
	assert.True(t, r.Equal(c), "nil and empty lists encode the same")
}
