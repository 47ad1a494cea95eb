// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package vote records whether users found help items useful. Each user has
// at most one vote per item; counters move in the same transaction as the
// vote row, relative to the stored value.
package vote

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"helpcenter/internal/models"
)

var (
	// ErrInvalidVoteState is returned when a user tries to vote for the
	// opposite side of a vote they already cast. The vote must be reset first.
	ErrInvalidVoteState = errors.New("user already voted the other way")
	// ErrItemNotFound is returned when the item does not exist.
	ErrItemNotFound = errors.New("item not found")
)

// Side identifies which voter set a user belongs to.
type Side int

const (
	SideNone Side = iota
	SideUseful
	SideNotUseful
)

func (s Side) String() string {
	switch s {
	case SideUseful:
		return "useful"
	case SideNotUseful:
		return "not_useful"
	default:
		return "none"
	}
}

// User is the identity seen by the vote tally.
type User interface {
	ID() string
	IsAuthenticated() bool
}

// Anonymous is the user of a request without a session.
type Anonymous struct{}

func (Anonymous) ID() string            { return "" }
func (Anonymous) IsAuthenticated() bool { return false }

// Store applies vote mutations atomically.
//
// Cast records a vote on side unless the user already has one. It returns
// the item after the write and the side that was already on record, or
// SideNone when the new vote was stored. Retract removes the user's vote and
// returns the side that was removed. Both return a nil item when the item
// does not exist or is closed to voting. Returned items carry their voter sets.
type Store interface {
	Cast(ctx context.Context, itemID uuid.UUID, userID string, side Side) (*models.Item, Side, error)
	Retract(ctx context.Context, itemID uuid.UUID, userID string) (*models.Item, Side, error)
	FindWithVoters(ctx context.Context, itemID uuid.UUID) (*models.Item, error)
}

// Tally enforces the voting rules on top of a Store.
type Tally struct {
	store Store
}

// NewTally creates a Tally.
func NewTally(store Store) *Tally {
	return &Tally{store: store}
}

// MarkUseful records that user found the item useful.
func (t *Tally) MarkUseful(ctx context.Context, itemID uuid.UUID, user User) (*models.Item, error) {
	return t.mark(ctx, itemID, user, SideUseful)
}

// MarkNotUseful records that user did not find the item useful.
func (t *Tally) MarkNotUseful(ctx context.Context, itemID uuid.UUID, user User) (*models.Item, error) {
	return t.mark(ctx, itemID, user, SideNotUseful)
}

func (t *Tally) mark(ctx context.Context, itemID uuid.UUID, user User, side Side) (*models.Item, error) {
	if user == nil || !user.IsAuthenticated() {
		return t.current(ctx, itemID)
	}

	item, prior, err := t.store.Cast(ctx, itemID, user.ID(), side)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	switch prior {
	case SideNone:
		slog.Debug("vote recorded", "item_id", itemID, "user_id", user.ID(), "side", side)
	case side:
		// Already counted; voting twice is a no-op.
	default:
		return item, ErrInvalidVoteState
	}
	return item, nil
}

// Reset removes whatever vote user has on the item. It is a no-op when the
// user has not voted.
func (t *Tally) Reset(ctx context.Context, itemID uuid.UUID, user User) (*models.Item, error) {
	if user == nil || !user.IsAuthenticated() {
		return t.current(ctx, itemID)
	}

	item, removed, err := t.store.Retract(ctx, itemID, user.ID())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if removed != SideNone {
		slog.Debug("vote reset", "item_id", itemID, "user_id", user.ID(), "side", removed)
	}
	return item, nil
}

// current returns the item untouched, for requests that cannot vote.
func (t *Tally) current(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	item, err := t.store.FindWithVoters(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// Score returns the useful votes and the total votes of an item.
func Score(item *models.Item) (useful, total int) {
	return item.UsefulCount, item.UsefulCount + item.NotUsefulCount
}

// SideOf reports which voter set userID is in.
func SideOf(item *models.Item, userID string) Side {
	for _, id := range item.UsefulVoters {
		if id == userID {
			return SideUseful
		}
	}
	for _, id := range item.NotUsefulVoters {
		if id == userID {
			return SideNotUseful
		}
	}
	return SideNone
}
