// Package state remembers where the canvas was left for each tower folder.
package state

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/msalah0e/towergraph/internal/config"
	"github.com/msalah0e/towergraph/internal/geom"
)

// View is the camera of one editor session.
type View struct {
	Zoom     float64    `toml:"zoom"`
	Origin   geom.Point `toml:"origin"`
	ClosedAt time.Time  `toml:"closed_at"`
}

// State tracks views keyed by absolute tower folder.
type State struct {
	Views map[string]View `toml:"views"`
}

func statePath() string {
	return filepath.Join(config.ConfigDir(), "state.toml")
}

// Load reads the state file, returning empty state if it doesn't exist.
func Load() *State {
	s := &State{Views: make(map[string]View)}
	data, err := os.ReadFile(statePath())
	if err != nil {
		return s
	}
	_ = toml.Unmarshal(data, s)
	if s.Views == nil {
		s.Views = make(map[string]View)
	}
	return s
}

// Save writes the state file to disk.
func Save(s *State) error {
	path := statePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(s)
}

// RecordView stores the camera last used on dir.
func RecordView(dir string, zoom float64, origin geom.Point) error {
	s := Load()
	s.Views[key(dir)] = View{Zoom: zoom, Origin: origin, ClosedAt: time.Now()}
	return Save(s)
}

// ViewFor returns the camera last used on dir.
func ViewFor(dir string) (View, bool) {
	v, ok := Load().Views[key(dir)]
	return v, ok
}

// Forget drops the stored camera for dir.
func Forget(dir string) error {
	s := Load()
	delete(s.Views, key(dir))
	return Save(s)
}

func key(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}
