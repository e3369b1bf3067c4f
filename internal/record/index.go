package record

import (
	"fmt"
	"slices"
	"strings"
)

// Index is a name lookup over a loaded set of records.
type Index struct {
	records []*Record
	byName  map[string]*Record
}

// NewIndex builds an index. With duplicate names the first record wins.
func NewIndex(records []*Record) *Index {
	idx := &Index{
		records: records,
		byName:  make(map[string]*Record, len(records)),
	}
	for _, r := range records {
		if _, ok := idx.byName[r.Name]; !ok {
			idx.byName[r.Name] = r
		}
	}
	return idx
}

// All returns the records in load order.
func (idx *Index) All() []*Record {
	return idx.records
}

// Get returns a record by name, or nil if not found.
func (idx *Index) Get(name string) *Record {
	return idx.byName[name]
}

// Search finds records whose name or description contains query.
func (idx *Index) Search(query string) []*Record {
	q := strings.ToLower(query)
	var results []*Record
	for _, r := range idx.records {
		if strings.Contains(strings.ToLower(r.Name), q) ||
			strings.Contains(strings.ToLower(r.Description), q) {
			results = append(results, r)
		}
	}
	return results
}

// Roots returns records that upgrade from nothing.
func (idx *Index) Roots() []*Record {
	var roots []*Record
	for _, r := range idx.records {
		if len(r.UpgradesFrom) == 0 {
			roots = append(roots, r)
		}
	}
	return roots
}

// ProblemKind classifies a consistency problem.
type ProblemKind string

const (
	ProblemDuplicate  ProblemKind = "duplicate"
	ProblemUnresolved ProblemKind = "unresolved"
	ProblemAsymmetric ProblemKind = "asymmetric"
	ProblemSelf       ProblemKind = "self"
)

// Problem is one consistency finding.
type Problem struct {
	Kind   ProblemKind
	Record string
	Detail string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Record, p.Detail)
}

// Check reports duplicate names, references to unknown records, records
// that list themselves, and from/to pairs that are not mirrored.
func (idx *Index) Check() []Problem {
	var problems []Problem

	seen := make(map[string]int)
	for _, r := range idx.records {
		seen[r.Name]++
		if seen[r.Name] == 2 {
			problems = append(problems, Problem{
				Kind:   ProblemDuplicate,
				Record: r.Name,
				Detail: "name is used by more than one record",
			})
		}
	}

	for _, r := range idx.records {
		if idx.byName[r.Name] != r {
			continue
		}
		for _, from := range r.UpgradesFrom {
			if from == r.Name {
				problems = append(problems, Problem{Kind: ProblemSelf, Record: r.Name, Detail: "upgrades from itself"})
				continue
			}
			src := idx.byName[from]
			if src == nil {
				problems = append(problems, Problem{
					Kind:   ProblemUnresolved,
					Record: r.Name,
					Detail: fmt.Sprintf("upgrades from unknown %q", from),
				})
				continue
			}
			if !slices.Contains(src.UpgradesTo, r.Name) {
				problems = append(problems, Problem{
					Kind:   ProblemAsymmetric,
					Record: r.Name,
					Detail: fmt.Sprintf("%q does not list it in upgrades_to", from),
				})
			}
		}
		for _, to := range r.UpgradesTo {
			dst := idx.byName[to]
			if dst == nil {
				problems = append(problems, Problem{
					Kind:   ProblemUnresolved,
					Record: r.Name,
					Detail: fmt.Sprintf("upgrades to unknown %q", to),
				})
				continue
			}
			if !slices.Contains(dst.UpgradesFrom, r.Name) {
				problems = append(problems, Problem{
					Kind:   ProblemAsymmetric,
					Record: r.Name,
					Detail: fmt.Sprintf("%q does not list it in upgrades_from", to),
				})
			}
		}
	}
	return problems
}
