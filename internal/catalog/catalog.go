// Package catalog holds the fixed list of items that can be rolled.
package catalog

import "strings"

// Drop declares one lootable item. Min and Max are the advertised quantity
// range; observed quantities outside it are still recorded.
type Drop struct {
	ID   string
	Name string
	Min  int
	Max  int
	Icon string
}

// Catalog is an ordered, read-only set of drop definitions.
type Catalog struct {
	drops  []Drop
	byID   map[string]int
	byName map[string]string
}

// New indexes drops by id and by lowercased name.
func New(drops []Drop) *Catalog {
	c := &Catalog{
		drops:  append([]Drop(nil), drops...),
		byID:   make(map[string]int, len(drops)),
		byName: make(map[string]string, len(drops)),
	}
	for i, d := range c.drops {
		c.byID[d.ID] = i
		c.byName[strings.ToLower(strings.TrimSpace(d.Name))] = d.ID
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(defaultDrops)
}

// Drops returns the definitions in display order.
func (c *Catalog) Drops() []Drop {
	return append([]Drop(nil), c.drops...)
}

// IDs returns the drop ids in display order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.drops))
	for i, d := range c.drops {
		ids[i] = d.ID
	}
	return ids
}

// Get looks a drop up by id.
func (c *Catalog) Get(id string) (Drop, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Drop{}, false
	}
	return c.drops[i], true
}

// Lookup resolves a chat item name to its id, ignoring case and padding.
func (c *Catalog) Lookup(name string) (string, bool) {
	id, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.drops)
}
