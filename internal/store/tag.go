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
)

// TagStore stores the labels attached to help items.
type TagStore struct {
	db *sql.DB
}

// NewTagStore creates a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// TagsFor returns the tags of an item in alphabetical order.
func (s *TagStore) TagsFor(ctx context.Context, itemID uuid.UUID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tag FROM help_item_tags WHERE item_id = $1 ORDER BY tag
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list item tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// ReplaceTags swaps the full tag set of an item. Callers pass a transaction
// so the delete and the inserts, and any item write beside them, commit
// together.
func (s *TagStore) ReplaceTags(ctx context.Context, db DBTX, itemID uuid.UUID, tags []string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM help_item_tags WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("clear item tags: %w", err)
	}
	for _, tag := range tags {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO help_item_tags (item_id, tag) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, itemID, tag); err != nil {
			return fmt.Errorf("insert item tag %q: %w", tag, err)
		}
	}
	return nil
}

// ItemsTagged returns the published items carrying tag.
func (s *TagStore) ItemsTagged(ctx context.Context, tag string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixed("i", itemColumns)+`
		FROM help_items i
		JOIN help_item_tags t ON t.item_id = i.id
		WHERE t.tag = $1 AND i.published
		ORDER BY i.sort_order, i.heading, i.id
	`, tag)
	if err != nil {
		return nil, fmt.Errorf("list tagged items: %w", err)
	}
	return scanItems(rows)
}
