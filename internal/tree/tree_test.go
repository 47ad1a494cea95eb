// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tree

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpcenter/internal/models"
)

// cat builds a published category for fixtures.
func cat(title string, order float64, parent *models.Category) models.Category {
	c := models.Category{
		ID:        uuid.New(),
		Title:     title,
		Slug:      title,
		Published: true,
		Order:     order,
	}
	if parent != nil {
		id := parent.ID
		c.ParentID = &id
	}
	return c
}

func titles(cats []models.Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.Title
	}
	return out
}

func nodeTitles(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Category.Title
	}
	return out
}

// fixture returns:
//
//	account (1)
//	  ├── billing (2)
//	  │     └── invoices (1)
//	  └── login (1)
//	setup (0.5)
func fixture() (*Forest, map[string]models.Category) {
	account := cat("account", 1, nil)
	setup := cat("setup", 0.5, nil)
	billing := cat("billing", 2, &account)
	login := cat("login", 1, &account)
	invoices := cat("invoices", 1, &billing)

	all := []models.Category{account, setup, billing, login, invoices}
	byTitle := make(map[string]models.Category)
	for _, c := range all {
		byTitle[c.Title] = c
	}
	return New(all), byTitle
}

func TestRoots(t *testing.T) {
	f, _ := fixture()
	assert.Equal(t, []string{"setup", "account"}, titles(f.Roots(false)))
}

func TestRootsPublishedOnly(t *testing.T) {
	visible := cat("visible", 2, nil)
	hidden := cat("hidden", 1, nil)
	hidden.Published = false

	f := New([]models.Category{visible, hidden})
	assert.Equal(t, []string{"hidden", "visible"}, titles(f.Roots(false)))
	assert.Equal(t, []string{"visible"}, titles(f.Roots(true)))
}

func TestSubcategories(t *testing.T) {
	f, c := fixture()

	nodes, err := f.Subcategories(c["account"].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"login", "billing"}, nodeTitles(nodes))
	assert.Empty(t, nodes[0].Children)
	assert.NotNil(t, nodes[0].Children, "childless categories get an empty list")
	assert.Equal(t, []string{"invoices"}, nodeTitles(nodes[1].Children))
}

func TestSubcategoriesLeaf(t *testing.T) {
	f, c := fixture()

	nodes, err := f.Subcategories(c["invoices"].ID)
	require.NoError(t, err)
	assert.NotNil(t, nodes)
	assert.Empty(t, nodes)
}

func TestSubcategoriesUnknown(t *testing.T) {
	f, _ := fixture()
	_, err := f.Subcategories(uuid.New())
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestSubcategoriesTieBreakByID(t *testing.T) {
	parent := cat("parent", 1, nil)
	a := cat("a", 1, &parent)
	b := cat("b", 1, &parent)
	a.ID = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	b.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

	f := New([]models.Category{parent, a, b})
	nodes, err := f.Subcategories(parent.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, nodeTitles(nodes))
}

func TestSubcategoriesNeverExceedEdges(t *testing.T) {
	f, c := fixture()

	var count func([]Node) int
	count = func(nodes []Node) int {
		n := len(nodes)
		for _, child := range nodes {
			n += count(child.Children)
		}
		return n
	}

	nodes, err := f.Subcategories(c["account"].ID)
	require.NoError(t, err)
	// account has three descendants: billing, invoices and login.
	assert.Equal(t, 3, count(nodes))
}

func TestSubcategoriesDeepChain(t *testing.T) {
	const depth = 1000
	chain := make([]models.Category, 0, depth+1)
	root := cat("root", 0, nil)
	chain = append(chain, root)
	for i := 0; i < depth; i++ {
		chain = append(chain, cat("n", 0, &chain[len(chain)-1]))
	}

	f := New(chain)
	nodes, err := f.Subcategories(root.ID)
	require.NoError(t, err)

	levels := 0
	for len(nodes) > 0 {
		require.Len(t, nodes, 1)
		levels++
		nodes = nodes[0].Children
	}
	assert.Equal(t, depth, levels)

	trail, err := f.Trail(chain[depth].ID)
	require.NoError(t, err)
	assert.Len(t, trail, depth+1)
}

func TestSubcategoriesCycle(t *testing.T) {
	a := cat("a", 1, nil)
	b := cat("b", 1, &a)
	aParent := b.ID
	a.ParentID = &aParent

	f := New([]models.Category{a, b})
	_, err := f.Subcategories(a.ID)
	assert.ErrorIs(t, err, ErrCycleDetected)

	_, err = f.Trail(a.ID)
	assert.ErrorIs(t, err, ErrCycleDetected)
}

func TestSubcategoriesSelfLoop(t *testing.T) {
	a := cat("a", 1, nil)
	self := a.ID
	a.ParentID = &self

	f := New([]models.Category{a})
	_, err := f.Subcategories(a.ID)
	assert.ErrorIs(t, err, ErrCycleDetected)
}

func TestTrail(t *testing.T) {
	f, c := fixture()

	t.Run("root yields singleton", func(t *testing.T) {
		for _, root := range f.Roots(false) {
			trail, err := f.Trail(root.ID)
			require.NoError(t, err)
			assert.Equal(t, []models.Category{root}, trail)
		}
	})

	t.Run("starts at a root and ends at the category", func(t *testing.T) {
		for title, want := range map[string][]string{
			"invoices": {"account", "billing", "invoices"},
			"login":    {"account", "login"},
			"billing":  {"account", "billing"},
		} {
			trail, err := f.Trail(c[title].ID)
			require.NoError(t, err)
			assert.Equal(t, want, titles(trail))
			assert.True(t, trail[0].IsRoot())
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := f.Trail(uuid.New())
		assert.ErrorIs(t, err, ErrUnknownCategory)
	})

	t.Run("dangling parent ends the walk", func(t *testing.T) {
		orphan := cat("orphan", 1, nil)
		missing := uuid.New()
		orphan.ParentID = &missing

		trail, err := New([]models.Category{orphan}).Trail(orphan.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"orphan"}, titles(trail))
	})
}

func TestBranches(t *testing.T) {
	f, c := fixture()

	branches, err := f.Branches(false)
	require.NoError(t, err)
	assert.Equal(t, []string{"setup", "account"}, nodeTitles(branches))
	assert.Equal(t, []string{"login", "billing"}, nodeTitles(branches[1].Children))

	hidden := c["billing"]
	hidden.Published = false
	all := []models.Category{c["account"], c["setup"], hidden, c["login"], c["invoices"]}

	branches, err = New(all).Branches(true)
	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.Equal(t, []string{"login"}, nodeTitles(branches[1].Children),
		"an unpublished category hides its whole subtree")
}

func TestIsDescendant(t *testing.T) {
	f, c := fixture()

	ok, err := f.IsDescendant(c["account"].ID, c["invoices"].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.IsDescendant(c["invoices"].ID, c["account"].ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.IsDescendant(c["account"].ID, c["account"].ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFlatten(t *testing.T) {
	f, _ := fixture()
	branches, err := f.Branches(false)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"setup", "account", "login", "billing", "invoices"},
		titles(Flatten(branches)),
	)
}
