package record

import (
	"fmt"
	"os"
	"strings"
)

// MemStore is an in-memory Store. Paths are plain keys under a fake folder.
type MemStore struct {
	dir    string
	paths  []string
	byPath map[string]*Record
	writes int
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{dir: "mem", byPath: make(map[string]*Record)}
}

// Put stores a record at its default path, replacing any previous one.
func (s *MemStore) Put(r *Record) Handle {
	path := s.PathFor(r.Name)
	if _, ok := s.byPath[path]; !ok {
		s.paths = append(s.paths, path)
	}
	s.byPath[path] = r.Clone()
	return Handle{Path: path, Name: r.Name}
}

// Get returns a copy of the record with the given name, or nil.
func (s *MemStore) Get(name string) *Record {
	if r, ok := s.byPath[s.PathFor(name)]; ok {
		return r.Clone()
	}
	return nil
}

// Len returns the number of stored records.
func (s *MemStore) Len() int {
	return len(s.paths)
}

// Writes counts Create and Overwrite calls.
func (s *MemStore) Writes() int {
	return s.writes
}

func (s *MemStore) PathFor(name string) string {
	return s.dir + "/" + name + ".toml"
}

// FindAll returns handles in insertion order. A scope matches paths under
// "<dir>/<scope>/".
func (s *MemStore) FindAll(kind string, scopes []string) ([]Handle, error) {
	var handles []Handle
	for _, path := range s.paths {
		r := s.byPath[path]
		if kind != "" && kindOf(r) != kind {
			continue
		}
		if len(scopes) > 0 && !inScope(s.dir, path, scopes) {
			continue
		}
		handles = append(handles, Handle{Path: path, Name: r.Name})
	}
	return handles, nil
}

func (s *MemStore) Load(h Handle) (*Record, error) {
	r, ok := s.byPath[h.Path]
	if !ok {
		return nil, fmt.Errorf("reading %s: %w", h.Path, os.ErrNotExist)
	}
	return r.Clone(), nil
}

func (s *MemStore) Create(r *Record, path string) error {
	if err := ValidName(r.Name); err != nil {
		return err
	}
	if _, ok := s.byPath[path]; ok {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	prepare(r)
	s.paths = append(s.paths, path)
	s.byPath[path] = r.Clone()
	s.writes++
	return nil
}

func (s *MemStore) Overwrite(target Handle, source *Record) error {
	if _, ok := s.byPath[target.Path]; !ok {
		s.paths = append(s.paths, target.Path)
	}
	prepare(source)
	s.byPath[target.Path] = source.Clone()
	s.writes++
	return nil
}

func inScope(dir, path string, scopes []string) bool {
	for _, sc := range scopes {
		if strings.HasPrefix(path, dir+"/"+sc+"/") {
			return true
		}
	}
	return false
}
