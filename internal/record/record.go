// Package record defines the persisted tower blueprint and the stores that
// hold one blueprint per file.
package record

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/msalah0e/towergraph/internal/geom"
)

// Kind is the record kind written by this tool.
const Kind = "TowerBlueprint"

// Record is one tower blueprint. Upgrade references are record names.
type Record struct {
	Kind           string      `toml:"kind" yaml:"kind"`
	ID             string      `toml:"id" yaml:"id"`
	Name           string      `toml:"name" yaml:"name"`
	Description    string      `toml:"description,omitempty" yaml:"description,omitempty"`
	Cost           int         `toml:"cost,omitzero" yaml:"cost,omitempty"`
	UpgradesFrom   []string    `toml:"upgrades_from" yaml:"upgrades_from"`
	UpgradesTo     []string    `toml:"upgrades_to" yaml:"upgrades_to"`
	EditorPosition *geom.Point `toml:"editor_position,omitempty" yaml:"editor_position,omitempty"`
}

// ErrInvalidName is returned for names that cannot be used as a record file
// name inside the store folder.
var ErrInvalidName = errors.New("invalid tower name")

// ValidName reports whether name can name a record. Names become file names,
// so they may not be blank, start with a dot, or contain a path separator.
func ValidName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidName, name)
	}
	return nil
}

// New returns an empty blueprint with a fresh ID.
func New(name string) *Record {
	return &Record{
		Kind:         Kind,
		ID:           uuid.NewString(),
		Name:         name,
		UpgradesFrom: []string{},
		UpgradesTo:   []string{},
	}
}

// EnsureID assigns an ID to records written by hand without one.
func (r *Record) EnsureID() {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
}

// Position returns the stored editor position.
func (r *Record) Position() (geom.Point, bool) {
	if r.EditorPosition == nil {
		return geom.Point{}, false
	}
	return *r.EditorPosition, true
}

// SetPosition stores an editor position.
func (r *Record) SetPosition(p geom.Point) {
	r.EditorPosition = &p
}

// AddUpgradeFrom adds name to UpgradesFrom unless it is already there.
func (r *Record) AddUpgradeFrom(name string) bool {
	if slices.Contains(r.UpgradesFrom, name) {
		return false
	}
	r.UpgradesFrom = append(r.UpgradesFrom, name)
	return true
}

// RemoveUpgradeFrom drops every occurrence of name from UpgradesFrom.
func (r *Record) RemoveUpgradeFrom(name string) bool {
	n := len(r.UpgradesFrom)
	r.UpgradesFrom = slices.DeleteFunc(r.UpgradesFrom, func(s string) bool { return s == name })
	return len(r.UpgradesFrom) != n
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	c := *r
	c.UpgradesFrom = slices.Clone(r.UpgradesFrom)
	c.UpgradesTo = slices.Clone(r.UpgradesTo)
	if r.EditorPosition != nil {
		p := *r.EditorPosition
		c.EditorPosition = &p
	}
	return &c
}

// Equal reports whether two records would encode identically. A nil list
// and an empty list are the same.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.Kind != o.Kind || r.ID != o.ID || r.Name != o.Name ||
		r.Description != o.Description || r.Cost != o.Cost {
		return false
	}
	if !slices.Equal(r.UpgradesFrom, o.UpgradesFrom) || !slices.Equal(r.UpgradesTo, o.UpgradesTo) {
		return false
	}
	if (r.EditorPosition == nil) != (o.EditorPosition == nil) {
		return false
	}
	return r.EditorPosition == nil || *r.EditorPosition == *o.EditorPosition
}
