// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpcenter/internal/vote"
)

func TestVoteStore_CastAndRetract(t *testing.T) {
	db := testDB(t)
	votes := NewVoteStore(db, NewItemStore(db))
	ctx := context.Background()

	c := newCategory(t, db, "Votes", nil)
	it := newItem(t, db, c, "Voted", "body", 1)

	item, prior, err := votes.Cast(ctx, it.ID, "u1", vote.SideUseful)
	require.NoError(t, err)
	assert.Equal(t, vote.SideNone, prior)
	assert.Equal(t, 1, item.UsefulCount)
	assert.Equal(t, []string{"u1"}, item.UsefulVoters)
	assert.Empty(t, item.NotUsefulVoters)

	// A second vote by the same user changes nothing and reports the prior side.
	item, prior, err = votes.Cast(ctx, it.ID, "u1", vote.SideNotUseful)
	require.NoError(t, err)
	assert.Equal(t, vote.SideUseful, prior)
	assert.Equal(t, 1, item.UsefulCount)
	assert.Zero(t, item.NotUsefulCount)

	item, _, err = votes.Cast(ctx, it.ID, "u2", vote.SideNotUseful)
	require.NoError(t, err)
	assert.Equal(t, 1, item.NotUsefulCount)
	assert.Equal(t, []string{"u2"}, item.NotUsefulVoters)

	item, removed, err := votes.Retract(ctx, it.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, vote.SideUseful, removed)
	assert.Zero(t, item.UsefulCount)
	assert.Empty(t, item.UsefulVoters)

	item, removed, err = votes.Retract(ctx, it.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, vote.SideNone, removed)
	assert.Zero(t, item.UsefulCount)
	assert.Equal(t, 1, item.NotUsefulCount)
}

func TestVoteStore_MissingItem(t *testing.T) {
	db := testDB(t)
	votes := NewVoteStore(db, NewItemStore(db))
	ctx := context.Background()

	item, prior, err := votes.Cast(ctx, uuid.New(), "u1", vote.SideUseful)
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.Equal(t, vote.SideNone, prior)

	item, removed, err := votes.Retract(ctx, uuid.New(), "u1")
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.Equal(t, vote.SideNone, removed)
}

func TestVoteStore_ConcurrentCasts(t *testing.T) {
	db := testDB(t)
	votes := NewVoteStore(db, NewItemStore(db))
	ctx := context.Background()

	c := newCategory(t, db, "Concurrent", nil)
	it := newItem(t, db, c, "Busy", "body", 1)

	const users = 25
	var wg sync.WaitGroup
	errs := make(chan error, users*2)
	for i := range users {
		user := fmt.Sprintf("user-%d", i)
		side := vote.SideUseful
		if i%5 == 0 {
			side = vote.SideNotUseful
		}
		// Each user votes twice at once; only one may count.
		for range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, err := votes.Cast(ctx, it.ID, user, side)
				errs <- err
			}()
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	item, err := votes.FindWithVoters(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, item.UsefulCount)
	assert.Equal(t, 5, item.NotUsefulCount)
	assert.Len(t, item.UsefulVoters, item.UsefulCount)
	assert.Len(t, item.NotUsefulVoters, item.NotUsefulCount)
}

func TestVoteStore_VotesAndCascade(t *testing.T) {
	db := testDB(t)
	items := NewItemStore(db)
	votes := NewVoteStore(db, items)
	ctx := context.Background()

	c := newCategory(t, db, "Listing", nil)
	it := newItem(t, db, c, "Listed", "body", 1)

	list, err := votes.Votes(ctx, it.ID)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, _, err = votes.Cast(ctx, it.ID, "alice", vote.SideUseful)
	require.NoError(t, err)
	_, _, err = votes.Cast(ctx, it.ID, "bob", vote.SideNotUseful)
	require.NoError(t, err)

	list, err = votes.Votes(ctx, it.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	byUser := map[string]bool{}
	for _, v := range list {
		assert.Equal(t, it.ID, v.ItemID)
		assert.False(t, v.CreatedAt.IsZero())
		byUser[v.UserID] = v.Useful
	}
	assert.Equal(t, map[string]bool{"alice": true, "bob": false}, byUser)

	require.NoError(t, items.Delete(ctx, db, it.ID))
	list, err = votes.Votes(ctx, it.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestVoteStore_UnpublishedItem(t *testing.T) {
	db := testDB(t)
	items := NewItemStore(db)
	votes := NewVoteStore(db, items)
	ctx := context.Background()

	c := newCategory(t, db, "Unpublished", nil)
	it := newItem(t, db, c, "Draft", "body", 1)
	_, _, err := votes.Cast(ctx, it.ID, "early", vote.SideUseful)
	require.NoError(t, err)
	require.NoError(t, items.UpdateFields(ctx, db, it.ID, Fields{"published": false}))

	item, prior, err := votes.Cast(ctx, it.ID, "late", vote.SideUseful)
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.Equal(t, vote.SideNone, prior)

	item, removed, err := votes.Retract(ctx, it.ID, "early")
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.Equal(t, vote.SideNone, removed)

	stored, err := votes.FindWithVoters(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsefulCount)
	assert.Equal(t, []string{"early"}, stored.UsefulVoters)
}
