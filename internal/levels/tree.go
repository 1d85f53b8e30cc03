package levels

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateLevel is returned by NewCatalog when two definitions share an id.
var ErrDuplicateLevel = errors.New("duplicate level id")

// Catalog is the immutable set of level definitions, constructed once at
// startup and shared by reference.
type Catalog struct {
	byID  map[string]Definition
	order []string
}

// NewCatalog creates a catalog from defs, ordered by ID.
func NewCatalog(defs []Definition) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLevel, d.ID)
		}
		c.byID[d.ID] = d
		c.order = append(c.order, d.ID)
	}
	sort.Strings(c.order)
	return c, nil
}

// Get returns the definition with the given id.
func (c *Catalog) Get(id string) (Definition, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// Len returns the number of levels.
func (c *Catalog) Len() int {
	return len(c.order)
}

// IDs returns all level IDs in sorted order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// All returns every definition in ID order.
func (c *Catalog) All() []Definition {
	out := make([]Definition, len(c.order))
	for i, id := range c.order {
		out[i] = c.byID[id]
	}
	return out
}

// Tree is the campaign prerequisite graph derived from a catalog.
// A level may declare several parents, so this is a DAG rather than a
// strict tree. It is read-only after construction.
type Tree struct {
	catalog  *Catalog
	children map[string][]string
	roots    []string
	missing  map[string][]string
}

// NewTree builds the prerequisite graph. Entry levels are the ones with no
// prerequisites. Parents that are not in the catalog are recorded and can be
// listed with MissingParents.
func NewTree(cat *Catalog) *Tree {
	t := &Tree{
		catalog:  cat,
		children: make(map[string][]string),
		missing:  make(map[string][]string),
	}

	for _, id := range cat.order {
		d := cat.byID[id]
		if len(d.Parents) == 0 {
			t.roots = append(t.roots, id)
			continue
		}
		for _, parent := range d.Parents {
			if _, ok := cat.byID[parent]; !ok {
				t.missing[id] = append(t.missing[id], parent)
				continue
			}
			t.children[parent] = append(t.children[parent], id)
		}
	}
	return t
}

// Catalog returns the catalog the tree was built from.
func (t *Tree) Catalog() *Catalog {
	return t.catalog
}

// Get returns the definition with the given id.
func (t *Tree) Get(id string) (Definition, bool) {
	return t.catalog.Get(id)
}

// Children returns the levels that declare id as a prerequisite, in ID order.
func (t *Tree) Children(id string) []string {
	return append([]string(nil), t.children[id]...)
}

// Roots returns the entry levels in ID order.
func (t *Tree) Roots() []string {
	return append([]string(nil), t.roots...)
}

// MissingParents maps level IDs to prerequisites absent from the catalog.
// Such levels can never be unlocked.
func (t *Tree) MissingParents() map[string][]string {
	out := make(map[string][]string, len(t.missing))
	for id, ps := range t.missing {
		out[id] = append([]string(nil), ps...)
	}
	return out
}

// Walk returns every reachable level breadth-first from the roots, each once.
func (t *Tree) Walk() []string {
	seen := make(map[string]bool, t.catalog.Len())
	queue := append([]string(nil), t.roots...)
	var out []string

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
		queue = append(queue, t.children[id]...)
	}
	return out
}

// Unlocked returns the levels whose every prerequisite is in completed,
// in Walk order. Completed levels are included.
func (t *Tree) Unlocked(completed map[string]bool) []string {
	var out []string
	for _, id := range t.Walk() {
		d := t.catalog.byID[id]
		ok := true
		for _, parent := range d.Parents {
			if !completed[parent] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, id)
		}
	}
	return out
}
