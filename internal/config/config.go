package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ProjectFile is the per-project override looked up from the working
// directory upwards.
const ProjectFile = ".towergraph.toml"

// Config holds towergraph configuration.
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Editor EditorConfig `toml:"editor"`
	Save   SaveConfig   `toml:"save"`
	Hooks  HooksConfig  `toml:"hooks"`
	UI     UIConfig     `toml:"ui"`
}

// StoreConfig locates the tower records.
type StoreConfig struct {
	Dir    string   `toml:"dir"`
	Format string   `toml:"format"` // "toml", "yaml"
	Kind   string   `toml:"kind"`
	Scopes []string `toml:"scopes"`
}

// EditorConfig controls the canvas.
type EditorConfig struct {
	NodeWidth  float64 `toml:"node_width"`
	NodeHeight float64 `toml:"node_height"`
	ZoomMin    float64 `toml:"zoom_min"`
	ZoomMax    float64 `toml:"zoom_max"`
	ZoomSpeed  float64 `toml:"zoom_speed"`
	CellWidth  float64 `toml:"cell_width"`
	CellHeight float64 `toml:"cell_height"`
}

// SaveConfig controls how connections are written back.
type SaveConfig struct {
	Prune bool `toml:"prune"`
}

// HooksConfig holds shell commands run around saves. Empty means none.
type HooksConfig struct {
	PreSave  string `toml:"pre_save"`
	PostSave string `toml:"post_save"`
}

// UIConfig controls display options.
type UIConfig struct {
	Color bool `toml:"color"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Store:  StoreConfig{Dir: "towers", Format: "toml", Kind: "TowerBlueprint"},
		Editor: EditorConfig{NodeWidth: 200, NodeHeight: 50, ZoomMin: 0.1, ZoomMax: 5, ZoomSpeed: 150, CellWidth: 10, CellHeight: 12.5},
		Save:   SaveConfig{Prune: false},
		UI:     UIConfig{Color: true},
	}
}

// ConfigDir returns the towergraph config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "towergraph")
}

// Path returns the user config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LogPath returns the diagnostic log file path.
func LogPath() string {
	return filepath.Join(ConfigDir(), "towergraph.log")
}

// Load reads the user config and then the nearest project file, so project
// values win. Missing or unreadable files leave the defaults in place.
func Load() *Config {
	cfg := Default()
	mergeFile(cfg, Path())
	if wd, err := os.Getwd(); err == nil {
		if p := FindProjectFile(wd); p != "" {
			mergeFile(cfg, p)
			if !filepath.IsAbs(cfg.Store.Dir) {
				cfg.Store.Dir = filepath.Join(filepath.Dir(p), cfg.Store.Dir)
			}
		}
	}
	return cfg
}

// LoadFile reads defaults plus one explicit config file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = toml.Unmarshal(data, cfg)
}

// FindProjectFile walks up from dir looking for ProjectFile.
func FindProjectFile(dir string) string {
	for {
		p := filepath.Join(dir, ProjectFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() error {
	if _, err := os.Stat(Path()); err == nil {
		return nil // already exists
	}
	return Save(Default())
}
