// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"helpcenter/internal/models"
)

// ItemStore handles help item persistence.
type ItemStore struct {
	db *sql.DB
}

// NewItemStore creates a new ItemStore with the given database connection.
func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

const itemColumns = `id, category_id, heading, body, slug, published, sort_order,
	search_index, useful_count, not_useful_count, created_at, updated_at`

// itemFields maps the names accepted by UpdateFields to their columns.
// Counters are absent; they only move through the vote store.
var itemFields = map[string]string{
	"category_id":  "category_id",
	"heading":      "heading",
	"body":         "body",
	"slug":         "slug",
	"published":    "published",
	"order":        "sort_order",
	"search_index": "search_index",
}

// scanItem scans a row into an Item struct.
func scanItem(scanner interface{ Scan(...any) error }) (*models.Item, error) {
	var it models.Item
	err := scanner.Scan(
		&it.ID, &it.CategoryID, &it.Heading, &it.Body, &it.Slug, &it.Published,
		&it.Order, &it.SearchIndex, &it.UsefulCount, &it.NotUsefulCount,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// scanItems drains rows into a slice.
func scanItems(rows *sql.Rows) ([]models.Item, error) {
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// FindByID retrieves an item by its UUID. Returns nil if not found.
func (s *ItemStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return s.findByID(ctx, s.db, id)
}

func (s *ItemStore) findByID(ctx context.Context, db DBTX, id uuid.UUID) (*models.Item, error) {
	row := db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM help_items WHERE id = $1`, id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find item by id: %w", err)
	}
	return it, nil
}

// FindBySlug retrieves an item by slug within a category. Returns nil if not found.
func (s *ItemStore) FindBySlug(ctx context.Context, categoryID uuid.UUID, slug string) (*models.Item, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM help_items WHERE category_id = $1 AND slug = $2
	`, categoryID, slug)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find item by slug: %w", err)
	}
	return it, nil
}

// ListByCategory returns the items of a category in display order.
func (s *ItemStore) ListByCategory(ctx context.Context, db DBTX, categoryID uuid.UUID, publishedOnly bool) ([]models.Item, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM help_items
		WHERE category_id = $1 AND (published OR NOT $2)
		ORDER BY sort_order, heading, id
	`, categoryID, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("list items by category: %w", err)
	}
	return scanItems(rows)
}

// Related returns the other published items in the same category.
func (s *ItemStore) Related(ctx context.Context, item *models.Item) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM help_items
		WHERE category_id = $1 AND id <> $2 AND published
		ORDER BY sort_order, heading, id
	`, item.CategoryID, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list related items: %w", err)
	}
	return scanItems(rows)
}

// SearchPublished returns published items whose search text contains every
// token at the start of a word. The text is padded with a leading space so
// its first word is a candidate too.
func (s *ItemStore) SearchPublished(ctx context.Context, tokens []string) ([]models.Item, error) {
	if len(tokens) == 0 {
		return []models.Item{}, nil
	}

	var where strings.Builder
	args := make([]any, 0, len(tokens))
	where.WriteString("published")
	for i, t := range tokens {
		fmt.Fprintf(&where, ` AND (' ' || search_index) LIKE $%d ESCAPE '\'`, i+1)
		args = append(args, "% "+escapeLike(t)+"%")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM help_items
		WHERE `+where.String()+`
		ORDER BY sort_order, heading, id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return scanItems(rows)
}

// Create inserts a new item. The caller computes SearchIndex.
func (s *ItemStore) Create(ctx context.Context, db DBTX, it *models.Item) (*models.Item, error) {
	row := db.QueryRowContext(ctx, `
		INSERT INTO help_items (category_id, heading, body, slug, published, sort_order, search_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+itemColumns,
		it.CategoryID, it.Heading, it.Body, it.Slug, it.Published, it.Order, it.SearchIndex,
	)
	result, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return result, nil
}

// Update rewrites the editable content of an item. Vote counters are left
// untouched. The caller computes SearchIndex.
func (s *ItemStore) Update(ctx context.Context, db DBTX, it *models.Item) error {
	res, err := db.ExecContext(ctx, `
		UPDATE help_items SET
			category_id = $1, heading = $2, body = $3, slug = $4,
			published = $5, sort_order = $6, search_index = $7,
			updated_at = NOW()
		WHERE id = $8
	`, it.CategoryID, it.Heading, it.Body, it.Slug, it.Published, it.Order, it.SearchIndex, it.ID)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return requireAffected(res, "update item")
}

// UpdateFields writes only the named fields of one item in a single
// statement, so either every listed column changes or none does. It does
// not recompute the search index.
func (s *ItemStore) UpdateFields(ctx context.Context, db DBTX, id uuid.UUID, fields Fields) error {
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		if _, ok := itemFields[name]; !ok {
			return fmt.Errorf("update item fields: %w: %s", ErrUnknownField, name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names)+1)
	args := make([]any, 0, len(names)+1)
	for i, name := range names {
		sets = append(sets, fmt.Sprintf("%s = $%d", itemFields[name], i+1))
		args = append(args, fields[name])
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE help_items SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update item fields: %w", err)
	}
	return requireAffected(res, "update item fields")
}

// Delete removes an item. Votes and tags go with it (ON DELETE CASCADE).
func (s *ItemStore) Delete(ctx context.Context, db DBTX, id uuid.UUID) error {
	res, err := db.ExecContext(ctx, `DELETE FROM help_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return requireAffected(res, "delete item")
}

// NextOrder returns the next sort_order value within a category.
func (s *ItemStore) NextOrder(ctx context.Context, categoryID uuid.UUID) (float64, error) {
	var maxOrder sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM help_items WHERE category_id = $1`, categoryID).Scan(&maxOrder)
	if err != nil {
		return 0, fmt.Errorf("next item order: %w", err)
	}
	if maxOrder.Valid {
		return maxOrder.Float64 + 1, nil
	}
	return 1, nil
}
