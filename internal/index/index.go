// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package index maintains the denormalized search text stored on every help
// item. The text is derived from the heading, the body and the category title
// and is written whenever one of those changes, never at query time.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"helpcenter/internal/models"
	"helpcenter/internal/store"
)

// FieldSearchIndex is the item column holding the denormalized text.
const FieldSearchIndex = "search_index"

// Compute returns the search text for an item.
func Compute(heading, body, categoryTitle string) string {
	return strings.ToLower(heading) + " " + strings.ToLower(body) + " " + strings.ToLower(categoryTitle)
}

// Apply sets item.SearchIndex in memory ahead of a full insert or update.
func Apply(item *models.Item, categoryTitle string) {
	item.SearchIndex = Compute(item.Heading, item.Body, categoryTitle)
}

// ItemWriter is the persistence capability the Indexer needs.
type ItemWriter interface {
	UpdateFields(ctx context.Context, db store.DBTX, id uuid.UUID, fields store.Fields) error
	ListByCategory(ctx context.Context, db store.DBTX, categoryID uuid.UUID, publishedOnly bool) ([]models.Item, error)
}

// Indexer writes recomputed search text through partial-field updates so no
// other column of the item is rewritten.
type Indexer struct {
	items ItemWriter
}

// NewIndexer creates an Indexer on top of the given item writer.
func NewIndexer(items ItemWriter) *Indexer {
	return &Indexer{items: items}
}

// Reindex recomputes the search text of item and stores only that column.
// The item is updated in place.
func (ix *Indexer) Reindex(ctx context.Context, db store.DBTX, item *models.Item, categoryTitle string) error {
	text := Compute(item.Heading, item.Body, categoryTitle)
	if err := ix.items.UpdateFields(ctx, db, item.ID, store.Fields{FieldSearchIndex: text}); err != nil {
		return fmt.Errorf("reindex item %s: %w", item.ID, err)
	}
	item.SearchIndex = text
	return nil
}

// ReindexCategory refreshes every item of a category after its title changed.
// Items whose stored text is already current are skipped. Returns the number
// of items rewritten.
func (ix *Indexer) ReindexCategory(ctx context.Context, db store.DBTX, categoryID uuid.UUID, title string) (int, error) {
	items, err := ix.items.ListByCategory(ctx, db, categoryID, false)
	if err != nil {
		return 0, fmt.Errorf("reindex category %s: %w", categoryID, err)
	}

	var n int
	for i := range items {
		if items[i].SearchIndex == Compute(items[i].Heading, items[i].Body, title) {
			continue
		}
		if err := ix.Reindex(ctx, db, &items[i], title); err != nil {
			return n, err
		}
		n++
	}

	slog.Debug("category reindexed", "category_id", categoryID, "items", n)
	return n, nil
}
