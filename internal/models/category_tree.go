package models

import "strings"

// PathSeparator joins category names in a breadcrumb path
const PathSeparator = " > "

// CategoryTree indexes a flat category list by id. Parent and child links are ids
// resolved through the index, never pointers between categories.
type CategoryTree struct {
	byID     map[int64]*Category
	children map[int64][]int64
	roots    []int64
}

// NewCategoryTree builds the tree from categories in scan order. Roots and children keep
// that order. A category whose parent is not in the list is left out of the tree.
func NewCategoryTree(categories []*Category) *CategoryTree {
	t := &CategoryTree{
		byID:     make(map[int64]*Category, len(categories)),
		children: make(map[int64][]int64),
	}
	for _, c := range categories {
		t.byID[c.ID()] = c
	}

	for _, c := range categories {
		if c.IsRoot() {
			t.roots = append(t.roots, c.ID())
			continue
		}
		if _, ok := t.byID[*c.ParentID()]; ok {
			t.children[*c.ParentID()] = append(t.children[*c.ParentID()], c.ID())
		}
	}

	// drop orphans and everything below them
	reachable := make(map[int64]*Category, len(t.byID))
	var walk func(id int64)
	walk = func(id int64) {
		if _, seen := reachable[id]; seen {
			return
		}
		reachable[id] = t.byID[id]
		for _, child := range t.children[id] {
			walk(child)
		}
	}
	for _, id := range t.roots {
		walk(id)
	}
	for id := range t.children {
		if _, ok := reachable[id]; !ok {
			delete(t.children, id)
		}
	}
	t.byID = reachable
	return t
}

// Roots returns the root categories in scan order
func (t *CategoryTree) Roots() []*Category {
	return t.resolve(t.roots)
}

// Children returns the direct children of id in scan order
func (t *CategoryTree) Children(id int64) []*Category {
	return t.resolve(t.children[id])
}

// Get returns the category with id, nil when it is not part of the tree
func (t *CategoryTree) Get(id int64) *Category {
	return t.byID[id]
}

// Len returns the number of categories reachable from a root
func (t *CategoryTree) Len() int {
	return len(t.byID)
}

// Path returns the root-to-node breadcrumb for id, e.g. "Clothing > Men > Shirts"
func (t *CategoryTree) Path(id int64) string {
	var names []string
	seen := make(map[int64]bool)
	for c := t.byID[id]; c != nil && !seen[c.ID()]; {
		seen[c.ID()] = true
		names = append(names, c.Name())
		if c.IsRoot() {
			break
		}
		c = t.byID[*c.ParentID()]
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, PathSeparator)
}

func (t *CategoryTree) resolve(ids []int64) []*Category {
	out := make([]*Category, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.byID[id])
	}
	return out
}
