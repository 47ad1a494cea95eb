// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"helpcenter/internal/models"
	"helpcenter/internal/vote"
)

// VoteStore persists usefulness votes. Every mutation writes the vote row and
// the item counter in one transaction, incrementing the stored value rather
// than a copy read earlier.
type VoteStore struct {
	db    *sql.DB
	items *ItemStore
}

// NewVoteStore creates a new VoteStore.
func NewVoteStore(db *sql.DB, items *ItemStore) *VoteStore {
	return &VoteStore{db: db, items: items}
}

// counterColumn returns the item column that counts votes on side.
func counterColumn(useful bool) string {
	if useful {
		return "useful_count"
	}
	return "not_useful_count"
}

func sideOf(useful bool) vote.Side {
	if useful {
		return vote.SideUseful
	}
	return vote.SideNotUseful
}

// lockPublished takes a row lock on a published item so concurrent votes on
// it serialize. It reports false when the item is missing or unpublished.
func lockPublished(ctx context.Context, tx *sql.Tx, itemID uuid.UUID) (bool, error) {
	var locked uuid.UUID
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM help_items WHERE id = $1 AND published FOR UPDATE`, itemID,
	).Scan(&locked)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lock item: %w", err)
	}
	return true, nil
}

// Cast records a vote unless the user already has one on the item. Missing
// and unpublished items yield a nil item.
func (s *VoteStore) Cast(ctx context.Context, itemID uuid.UUID, userID string, side vote.Side) (*models.Item, vote.Side, error) {
	useful := side == vote.SideUseful
	var item *models.Item
	prior := vote.SideNone

	err := WithTx(ctx, s.db, func(tx *sql.Tx) error {
		ok, err := lockPublished(ctx, tx, itemID)
		if err != nil || !ok {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO help_item_votes (item_id, user_id, useful)
			VALUES ($1, $2, $3)
			ON CONFLICT (item_id, user_id) DO NOTHING
		`, itemID, userID, useful)
		if err != nil {
			return fmt.Errorf("insert vote: %w", err)
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert vote: %w", err)
		}

		if inserted == 0 {
			var existing bool
			if err := tx.QueryRowContext(ctx, `
				SELECT useful FROM help_item_votes WHERE item_id = $1 AND user_id = $2
			`, itemID, userID).Scan(&existing); err != nil {
				return fmt.Errorf("read existing vote: %w", err)
			}
			prior = sideOf(existing)
		} else {
			col := counterColumn(useful)
			if _, err := tx.ExecContext(ctx,
				`UPDATE help_items SET `+col+` = `+col+` + 1 WHERE id = $1`, itemID,
			); err != nil {
				return fmt.Errorf("increment %s: %w", col, err)
			}
		}

		item, err = s.withVoters(ctx, tx, itemID)
		return err
	})
	if err != nil {
		return nil, vote.SideNone, fmt.Errorf("cast vote: %w", err)
	}
	return item, prior, nil
}

// Retract deletes the user's vote, if any, and decrements its counter.
// Missing and unpublished items yield a nil item.
func (s *VoteStore) Retract(ctx context.Context, itemID uuid.UUID, userID string) (*models.Item, vote.Side, error) {
	var item *models.Item
	removed := vote.SideNone

	err := WithTx(ctx, s.db, func(tx *sql.Tx) error {
		ok, err := lockPublished(ctx, tx, itemID)
		if err != nil || !ok {
			return err
		}

		var useful bool
		err = tx.QueryRowContext(ctx, `
			DELETE FROM help_item_votes WHERE item_id = $1 AND user_id = $2
			RETURNING useful
		`, itemID, userID).Scan(&useful)
		switch {
		case err == sql.ErrNoRows:
		case err != nil:
			return fmt.Errorf("delete vote: %w", err)
		default:
			removed = sideOf(useful)
			col := counterColumn(useful)
			if _, err := tx.ExecContext(ctx,
				`UPDATE help_items SET `+col+` = `+col+` - 1 WHERE id = $1`, itemID,
			); err != nil {
				return fmt.Errorf("decrement %s: %w", col, err)
			}
		}

		item, err = s.withVoters(ctx, tx, itemID)
		return err
	})
	if err != nil {
		return nil, vote.SideNone, fmt.Errorf("retract vote: %w", err)
	}
	return item, removed, nil
}

// FindWithVoters returns an item with its voter sets. Returns nil if not found.
func (s *VoteStore) FindWithVoters(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	return s.withVoters(ctx, s.db, itemID)
}

// withVoters loads the item and fills both voter sets.
func (s *VoteStore) withVoters(ctx context.Context, db DBTX, itemID uuid.UUID) (*models.Item, error) {
	item, err := s.items.findByID(ctx, db, itemID)
	if err != nil || item == nil {
		return item, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT user_id, useful FROM help_item_votes
		WHERE item_id = $1
		ORDER BY user_id
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list voters: %w", err)
	}
	defer rows.Close()

	item.UsefulVoters = []string{}
	item.NotUsefulVoters = []string{}
	for rows.Next() {
		var userID string
		var useful bool
		if err := rows.Scan(&userID, &useful); err != nil {
			return nil, fmt.Errorf("scan voter: %w", err)
		}
		if useful {
			item.UsefulVoters = append(item.UsefulVoters, userID)
		} else {
			item.NotUsefulVoters = append(item.NotUsefulVoters, userID)
		}
	}
	return item, rows.Err()
}

// Votes lists every vote on an item, oldest first.
func (s *VoteStore) Votes(ctx context.Context, itemID uuid.UUID) ([]models.Vote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, user_id, useful, created_at
		FROM help_item_votes WHERE item_id = $1
		ORDER BY created_at, user_id
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ItemID, &v.UserID, &v.Useful, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}
