package record

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ErrExists is returned by Create when the target path is already taken.
var ErrExists = errors.New("record already exists")

// Handle points at one stored record.
type Handle struct {
	Path string
	Name string
}

// Store is the record persistence collaborator. Scopes narrow FindAll to
// sub-folders of the store; no scopes means the whole working folder.
type Store interface {
	FindAll(kind string, scopes []string) ([]Handle, error)
	Load(h Handle) (*Record, error)
	Create(r *Record, path string) error
	Overwrite(target Handle, source *Record) error
	PathFor(name string) string
}

// loadWorkers bounds concurrent record reads in LoadAll.
const loadWorkers = 8

// Lister is implemented by stores that can find and decode records in one
// pass. LoadAll prefers it over FindAll followed by Load.
type Lister interface {
	List(kind string, scopes []string) ([]*Record, []Handle, error)
}

// LoadAll finds and loads every record of kind. Records come back in
// handle order.
func LoadAll(s Store, kind string, scopes []string) ([]*Record, []Handle, error) {
	if l, ok := s.(Lister); ok {
		return l.List(kind, scopes)
	}
	handles, err := s.FindAll(kind, scopes)
	if err != nil {
		return nil, nil, err
	}
	recs := make([]*Record, len(handles))

	var eg errgroup.Group
	eg.SetLimit(loadWorkers)
	for i, h := range handles {
		eg.Go(func() error {
			r, err := s.Load(h)
			if err != nil {
				return err
			}
			recs[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return recs, handles, nil
}

// FileStore keeps one file per record in a working folder.
type FileStore struct {
	dir   string
	codec Codec
}

// NewFileStore creates a store rooted at dir. A nil codec means TOML.
func NewFileStore(dir string, codec Codec) *FileStore {
	if codec == nil {
		codec = TOML{}
	}
	return &FileStore{dir: dir, codec: codec}
}

// Dir returns the working folder.
func (s *FileStore) Dir() string {
	return s.dir
}

// PathFor returns <dir>/<name>.<ext>.
func (s *FileStore) PathFor(name string) string {
	return filepath.Join(s.dir, name+"."+s.codec.Ext())
}

// FindAll lists records of kind, sorted by file name within each scope.
func (s *FileStore) FindAll(kind string, scopes []string) ([]Handle, error) {
	_, handles, err := s.List(kind, scopes)
	return handles, err
}

// List decodes every record of kind in one pass, sorted by file name within
// each scope. Dotfiles are never records, and neither is a file that sets
// none of kind, name, upgrades_from or upgrades_to. Records without a kind
// are treated as the default kind. Records whose name is not a valid tower
// name are skipped. A missing folder holds no records.
func (s *FileStore) List(kind string, scopes []string) ([]*Record, []Handle, error) {
	dirs := []string{s.dir}
	if len(scopes) > 0 {
		dirs = dirs[:0]
		for _, sc := range scopes {
			dirs = append(dirs, filepath.Join(s.dir, sc))
		}
	}

	var paths []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, nil, fmt.Errorf("reading %s: %w", dir, err)
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, "."+s.codec.Ext()) {
				continue
			}
			paths = append(paths, filepath.Join(dir, name))
		}
	}

	decoded := make([]*Record, len(paths))
	var eg errgroup.Group
	eg.SetLimit(loadWorkers)
	for i, path := range paths {
		eg.Go(func() error {
			r, ok, err := s.decode(path)
			if err != nil {
				return err
			}
			if ok {
				decoded[i] = r
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		recs    []*Record
		handles []Handle
	)
	for i, r := range decoded {
		if r == nil || ValidName(r.Name) != nil {
			continue
		}
		if kind != "" && kindOf(r) != kind {
			continue
		}
		recs = append(recs, r)
		handles = append(handles, Handle{Path: paths[i], Name: r.Name})
	}
	return recs, handles, nil
}

// Load reads and decodes one record. A record without a name takes the
// file's base name.
func (s *FileStore) Load(h Handle) (*Record, error) {
	r, _, err := s.decode(h.Path)
	return r, err
}

// decode reads one file. ok is false when the file sets none of the record
// keys and so is not a record at all.
func (s *FileStore) decode(path string) (r *Record, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	r = &Record{}
	if err := s.codec.Unmarshal(data, r); err != nil {
		return nil, false, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	ok = r.Kind != "" || r.Name != "" || r.UpgradesFrom != nil || r.UpgradesTo != nil
	if r.Name == "" {
		r.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return r, ok, nil
}

// Create writes a new record file. It fails with ErrExists rather than
// replacing an existing one, and with ErrInvalidName when r cannot be
// stored under its name.
func (s *FileStore) Create(r *Record, path string) error {
	if err := ValidName(r.Name); err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	prepare(r)
	return s.write(path, r)
}

// Overwrite replaces the record at target with source.
func (s *FileStore) Overwrite(target Handle, source *Record) error {
	prepare(source)
	return s.write(target.Path, source)
}

func (s *FileStore) write(path string, r *Record) error {
	data, err := s.codec.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", r.Name, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// prepare fills the fields every written record carries. Empty upgrade
// lists are written as [] rather than dropped.
func prepare(r *Record) {
	if r.Kind == "" {
		r.Kind = Kind
	}
	if r.UpgradesFrom == nil {
		r.UpgradesFrom = []string{}
	}
	if r.UpgradesTo == nil {
		r.UpgradesTo = []string{}
	}
	r.EnsureID()
}

func kindOf(r *Record) string {
	if r.Kind == "" {
		return Kind
	}
	return r.Kind
}
