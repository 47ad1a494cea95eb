// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package help

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"helpcenter/internal/models"
	"helpcenter/internal/vote"
)

// Score summarizes the usefulness votes of an item.
type Score struct {
	Useful int `json:"useful"`
	Total  int `json:"total"`
}

func scoreOf(item *models.Item) Score {
	useful, total := vote.Score(item)
	return Score{Useful: useful, Total: total}
}

// VoteResult is returned by every vote operation. Voted is the side the
// requesting user is on after the operation: "useful", "not_useful" or
// "none".
type VoteResult struct {
	ItemID uuid.UUID `json:"item_id"`
	Score  Score     `json:"score"`
	Voted  string    `json:"voted"`
}

// MarkUseful records that user found a published item useful.
func (s *Service) MarkUseful(ctx context.Context, itemID uuid.UUID, user vote.User) (*VoteResult, error) {
	return s.applyVote(ctx, itemID, user, s.tally.MarkUseful)
}

// MarkNotUseful records that user did not find a published item useful.
func (s *Service) MarkNotUseful(ctx context.Context, itemID uuid.UUID, user vote.User) (*VoteResult, error) {
	return s.applyVote(ctx, itemID, user, s.tally.MarkNotUseful)
}

// ResetVote removes user's vote on a published item.
func (s *Service) ResetVote(ctx context.Context, itemID uuid.UUID, user vote.User) (*VoteResult, error) {
	return s.applyVote(ctx, itemID, user, s.tally.Reset)
}

// ItemScore returns the score of a published item and the side user voted.
func (s *Service) ItemScore(ctx context.Context, itemID uuid.UUID, user vote.User) (*VoteResult, error) {
	item, err := s.votes.FindWithVoters(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || !item.Published {
		return nil, ErrNotFound
	}
	return voteResult(item, user), nil
}

// ItemVotes lists every vote on an item, published or not.
func (s *Service) ItemVotes(ctx context.Context, itemID uuid.UUID) ([]models.Vote, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return s.votes.Votes(ctx, itemID)
}

type voteFunc func(ctx context.Context, itemID uuid.UUID, user vote.User) (*models.Item, error)

// applyVote runs fn and maps its outcome. The vote store only locks
// published items, so an unpublished one is not found for voters; the
// anonymous no-op path is checked here.
func (s *Service) applyVote(ctx context.Context, itemID uuid.UUID, user vote.User, fn voteFunc) (*VoteResult, error) {
	item, err := fn(ctx, itemID, user)
	if errors.Is(err, vote.ErrItemNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !item.Published {
		return nil, ErrNotFound
	}
	if user != nil && user.IsAuthenticated() {
		// Cached search results carry the vote counters.
		s.cache.InvalidateSearch(ctx)
	}
	return voteResult(item, user), nil
}

func voteResult(item *models.Item, user vote.User) *VoteResult {
	side := vote.SideNone
	if user != nil && user.IsAuthenticated() {
		side = vote.SideOf(item, user.ID())
	}
	return &VoteResult{
		ItemID: item.ID,
		Score:  scoreOf(item),
		Voted:  side.String(),
	}
}
