// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tags exposes the free-form labels attached to help items.
package tags

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"helpcenter/internal/models"
	"helpcenter/internal/store"
)

// Store is the tag persistence capability.
type Store interface {
	TagsFor(ctx context.Context, itemID uuid.UUID) ([]string, error)
	ReplaceTags(ctx context.Context, db store.DBTX, itemID uuid.UUID, tags []string) error
	ItemsTagged(ctx context.Context, tag string) ([]models.Item, error)
}

// Normalize trims and lowercases tags, drops empty ones and duplicates, and
// sorts the result. Tag sets are order-insignificant.
func Normalize(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Set reads and writes item tags.
type Set struct {
	store Store
}

// NewSet creates a Set on top of store.
func NewSet(store Store) *Set {
	return &Set{store: store}
}

// Tags returns the sorted tags of an item.
func (s *Set) Tags(ctx context.Context, itemID uuid.UUID) ([]string, error) {
	tags, err := s.store.TagsFor(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("item tags: %w", err)
	}
	return Normalize(tags), nil
}

// SetTags replaces the tags of an item through db and returns the stored
// set. Pass a transaction to make the change part of a larger write.
func (s *Set) SetTags(ctx context.Context, db store.DBTX, itemID uuid.UUID, tags []string) ([]string, error) {
	normalized := Normalize(tags)
	if err := s.store.ReplaceTags(ctx, db, itemID, normalized); err != nil {
		return nil, fmt.Errorf("set item tags: %w", err)
	}
	return normalized, nil
}

// Load fills item.Tags.
func (s *Set) Load(ctx context.Context, item *models.Item) error {
	tags, err := s.Tags(ctx, item.ID)
	if err != nil {
		return err
	}
	item.Tags = tags
	return nil
}

// ItemsTagged lists the published items carrying tag.
func (s *Set) ItemsTagged(ctx context.Context, tag string) ([]models.Item, error) {
	normalized := Normalize([]string{tag})
	if len(normalized) == 0 {
		return []models.Item{}, nil
	}
	items, err := s.store.ItemsTagged(ctx, normalized[0])
	if err != nil {
		return nil, fmt.Errorf("items tagged %q: %w", normalized[0], err)
	}
	return items, nil
}
