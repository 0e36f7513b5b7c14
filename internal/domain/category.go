package domain

import "sort"

// Category is a taxonomy bucket seeded into the categories table.
type Category struct {
	ID          int
	Name        string
	Description string
}

// Taxonomy is an ordered, read-only name to category mapping.
// Order follows category ids.
type Taxonomy struct {
	ordered []Category
	byName  map[string]int
}

// NewTaxonomy assigns 1-based ids by sorting names and returns the mapping.
// Duplicate names keep the first description seen.
func NewTaxonomy(descriptions map[string]string) Taxonomy {
	names := make([]string, 0, len(descriptions))
	for name := range descriptions {
		names = append(names, name)
	}
	sort.Strings(names)

	t := Taxonomy{
		ordered: make([]Category, 0, len(names)),
		byName:  make(map[string]int, len(names)),
	}
	for i, name := range names {
		t.byName[name] = len(t.ordered)
		t.ordered = append(t.ordered, Category{
			ID:          i + 1,
			Name:        name,
			Description: descriptions[name],
		})
	}
	return t
}

// Len returns the number of categories.
func (t Taxonomy) Len() int {
	return len(t.ordered)
}

// Lookup finds a category by name.
func (t Taxonomy) Lookup(name string) (Category, bool) {
	idx, ok := t.byName[name]
	if !ok {
		return Category{}, false
	}
	return t.ordered[idx], true
}

// Has reports whether name is a known category.
func (t Taxonomy) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// First returns the category with the lowest id.
func (t Taxonomy) First() (Category, bool) {
	if len(t.ordered) == 0 {
		return Category{}, false
	}
	return t.ordered[0], true
}

// IDOf resolves a category id, falling back when the name is unknown.
func (t Taxonomy) IDOf(name string, fallback int) int {
	if c, ok := t.Lookup(name); ok {
		return c.ID
	}
	return fallback
}

// All returns a copy of the categories in id order.
func (t Taxonomy) All() []Category {
	out := make([]Category, len(t.ordered))
	copy(out, t.ordered)
	return out
}
