// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tree builds the help-center category hierarchy from a flat snapshot
// of categories. The whole table is loaded once and indexed by id, so listing
// subcategories or computing a breadcrumb trail never issues per-node queries.
package tree

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"helpcenter/internal/models"
)

var (
	// ErrCycleDetected is returned when parent links loop back on themselves.
	ErrCycleDetected = errors.New("category tree: cycle detected")
	// ErrUnknownCategory is returned for an id that is not in the snapshot.
	ErrUnknownCategory = errors.New("category tree: unknown category")
)

// Node is a category together with its ordered subcategories. A childless
// category has an empty (non-nil) Children slice.
type Node struct {
	Category models.Category `json:"category"`
	Children []Node          `json:"children"`
}

// Forest is an immutable, in-memory view of the category table.
type Forest struct {
	byID     map[uuid.UUID]*models.Category
	children map[uuid.UUID][]uuid.UUID
	roots    []uuid.UUID
}

// New indexes the given categories in a single pass and sorts every child
// list by Order, breaking ties by id.
func New(categories []models.Category) *Forest {
	categories = append([]models.Category(nil), categories...)
	f := &Forest{
		byID:     make(map[uuid.UUID]*models.Category, len(categories)),
		children: make(map[uuid.UUID][]uuid.UUID),
	}
	for i := range categories {
		c := &categories[i]
		f.byID[c.ID] = c
	}
	for i := range categories {
		c := &categories[i]
		if c.IsRoot() {
			f.roots = append(f.roots, c.ID)
			continue
		}
		f.children[*c.ParentID] = append(f.children[*c.ParentID], c.ID)
	}

	f.sortIDs(f.roots)
	for _, ids := range f.children {
		f.sortIDs(ids)
	}
	return f
}

// sortIDs orders ids by category Order ascending, then id ascending.
func (f *Forest) sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		a, b := f.byID[ids[i]], f.byID[ids[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID.String() < b.ID.String()
	})
}

// Roots returns the top-level categories in display order.
func (f *Forest) Roots(publishedOnly bool) []models.Category {
	result := make([]models.Category, 0, len(f.roots))
	for _, id := range f.roots {
		c := f.byID[id]
		if publishedOnly && !c.Published {
			continue
		}
		result = append(result, *c)
	}
	return result
}

// Subcategories returns the nested, ordered subtree below the category.
func (f *Forest) Subcategories(id uuid.UUID) ([]Node, error) {
	if _, ok := f.byID[id]; !ok {
		return nil, ErrUnknownCategory
	}
	return f.subtree(id, false)
}

// Branches returns every root category with its full subtree. When
// publishedOnly is set, unpublished categories and everything below them
// are left out.
func (f *Forest) Branches(publishedOnly bool) ([]Node, error) {
	roots := f.Roots(publishedOnly)
	branches := make([]Node, 0, len(roots))
	for _, c := range roots {
		children, err := f.subtree(c.ID, publishedOnly)
		if err != nil {
			return nil, err
		}
		branches = append(branches, Node{Category: c, Children: children})
	}
	return branches, nil
}

// frame is one pending node of the iterative subtree walk. The node's
// children are appended to *out.
type frame struct {
	id  uuid.UUID
	out *[]Node
}

// subtree builds the children of id without recursion so that very deep
// chains cannot exhaust the stack. Visiting a category twice means the
// parent links contain a cycle.
func (f *Forest) subtree(id uuid.UUID, publishedOnly bool) ([]Node, error) {
	root := make([]Node, 0, len(f.children[id]))
	visited := map[uuid.UUID]bool{id: true}
	stack := []frame{{id: id, out: &root}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		kids := f.children[top.id]
		for _, childID := range kids {
			c := f.byID[childID]
			if publishedOnly && !c.Published {
				continue
			}
			if visited[childID] {
				return nil, ErrCycleDetected
			}
			visited[childID] = true
			*top.out = append(*top.out, Node{
				Category: *c,
				Children: make([]Node, 0, len(f.children[childID])),
			})
		}

		// Appends above are complete for this level, so pointers into the
		// slice stay valid from here on.
		for i := range *top.out {
			n := &(*top.out)[i]
			stack = append(stack, frame{id: n.Category.ID, out: &n.Children})
		}
	}
	return root, nil
}

// Trail returns the path from the root down to the category, inclusive.
// A root category yields a trail containing only itself. A parent id that is
// missing from the snapshot ends the walk there.
func (f *Forest) Trail(id uuid.UUID) ([]models.Category, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, ErrUnknownCategory
	}

	var trail []models.Category
	seen := make(map[uuid.UUID]bool)
	for c != nil {
		if seen[c.ID] {
			return nil, ErrCycleDetected
		}
		seen[c.ID] = true
		trail = append(trail, *c)
		if c.IsRoot() {
			break
		}
		c = f.byID[*c.ParentID]
	}

	for i, j := 0, len(trail)-1; i < j; i, j = i+1, j-1 {
		trail[i], trail[j] = trail[j], trail[i]
	}
	return trail, nil
}

// IsDescendant reports whether candidate lies in the subtree below ancestor.
// It is used to reject moves that would turn the tree into a cycle.
func (f *Forest) IsDescendant(ancestor, candidate uuid.UUID) (bool, error) {
	if _, ok := f.byID[candidate]; !ok {
		return false, ErrUnknownCategory
	}
	trail, err := f.Trail(candidate)
	if err != nil {
		return false, err
	}
	for _, c := range trail[:len(trail)-1] {
		if c.ID == ancestor {
			return true, nil
		}
	}
	return false, nil
}

// Flatten walks nodes depth-first and returns the categories in display
// order, useful for parent pickers in admin forms.
func Flatten(nodes []Node) []models.Category {
	var result []models.Category
	var walk func([]Node)
	walk = func(ns []Node) {
		for _, n := range ns {
			result = append(result, n.Category)
			walk(n.Children)
		}
	}
	walk(nodes)
	return result
}
