// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryStore_CreateAndFind(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	ctx := context.Background()

	root := newCategory(t, db, "Getting Started", nil)
	child := newCategory(t, db, "Accounts", &root.ID)

	assert.True(t, root.IsRoot())
	assert.False(t, child.IsRoot())
	assert.False(t, root.CreatedAt.IsZero())

	got, err := cats.FindByID(ctx, child.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Accounts", got.Title)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, root.ID, *got.ParentID)

	got, err = cats.FindBySlug(ctx, root.Slug)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, root.ID, got.ID)
}

func TestCategoryStore_FindMissing(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)

	got, err := cats.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = cats.FindBySlug(context.Background(), "no-such-"+uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCategoryStore_List(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)

	a := newCategory(t, db, "List A", nil)
	b := newCategory(t, db, "List B", &a.ID)

	all, err := cats.List(context.Background())
	require.NoError(t, err)

	seen := map[uuid.UUID]bool{}
	for _, c := range all {
		seen[c.ID] = true
	}
	assert.True(t, seen[a.ID])
	assert.True(t, seen[b.ID])
}

func TestCategoryStore_Update(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	ctx := context.Background()

	c := newCategory(t, db, "Before", nil)
	c.Title = "After"
	c.Published = false
	c.Order = 7
	require.NoError(t, cats.Update(ctx, db, c))

	got, err := cats.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.False(t, got.Published)
	assert.Equal(t, 7.0, got.Order)

	c.ID = uuid.New()
	assert.ErrorIs(t, cats.Update(ctx, db, c), ErrUpdateFailed)
}

func TestCategoryStore_DeleteRestricted(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	ctx := context.Background()

	parent := newCategory(t, db, "Parent", nil)
	child := newCategory(t, db, "Child", &parent.ID)

	assert.ErrorIs(t, cats.Delete(ctx, db, parent.ID), ErrCategoryNotEmpty)

	newItem(t, db, child, "Inside", "body", 1)
	assert.ErrorIs(t, cats.Delete(ctx, db, child.ID), ErrCategoryNotEmpty)

	_, err := db.Exec(`DELETE FROM help_items WHERE category_id = $1`, child.ID)
	require.NoError(t, err)
	require.NoError(t, cats.Delete(ctx, db, child.ID))
	require.NoError(t, cats.Delete(ctx, db, parent.ID))

	got, err := cats.FindByID(ctx, parent.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, cats.Delete(ctx, db, parent.ID), ErrUpdateFailed)
}

func TestCategoryStore_Reorder(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	ctx := context.Background()

	a := newCategory(t, db, "Reorder A", nil)
	b := newCategory(t, db, "Reorder B", nil)

	err := cats.Reorder(ctx, []ReorderItem{
		{ID: a.ID, ParentID: &b.ID, Order: 3},
		{ID: b.ID, Order: 0.5},
	})
	require.NoError(t, err)

	got, err := cats.FindByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, b.ID, *got.ParentID)
	assert.Equal(t, 3.0, got.Order)

	// An unknown id rolls the whole batch back.
	err = cats.Reorder(ctx, []ReorderItem{
		{ID: b.ID, Order: 9},
		{ID: uuid.New(), Order: 1},
	})
	assert.ErrorIs(t, err, ErrUpdateFailed)

	got, err = cats.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.Order)

	// Detach a before cleanup so b can be deleted in any order.
	require.NoError(t, cats.Reorder(ctx, []ReorderItem{{ID: a.ID, Order: 1}}))
}

func TestCategoryStore_NextOrder(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	ctx := context.Background()

	parent := newCategory(t, db, "Orders", nil)

	next, err := cats.NextOrder(ctx, &parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, next)

	newCategory(t, db, "First", &parent.ID)
	next, err = cats.NextOrder(ctx, &parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, next)
}
