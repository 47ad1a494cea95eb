// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"helpcenter/internal/models"
)

// CategoryStore manages help categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, title, slug, published, sort_order, parent_id, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Title, &c.Slug, &c.Published,
		&c.Order, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns a snapshot of every category ordered by sort_order. The
// category tree is built from this single read.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM help_categories
		ORDER BY sort_order, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM help_categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM help_categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(ctx context.Context, db DBTX, c *models.Category) (*models.Category, error) {
	row := db.QueryRowContext(ctx, `
		INSERT INTO help_categories (title, slug, published, sort_order, parent_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		c.Title, c.Slug, c.Published, c.Order, c.ParentID,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(ctx context.Context, db DBTX, c *models.Category) error {
	res, err := db.ExecContext(ctx, `
		UPDATE help_categories SET
			title = $1, slug = $2, published = $3, sort_order = $4,
			parent_id = $5, updated_at = NOW()
		WHERE id = $6
	`, c.Title, c.Slug, c.Published, c.Order, c.ParentID, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireAffected(res, "update category")
}

// Delete removes a category. Categories that still have subcategories or
// items are kept and ErrCategoryNotEmpty is returned.
func (s *CategoryStore) Delete(ctx context.Context, db DBTX, id uuid.UUID) error {
	var children, items int
	err := db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM help_categories WHERE parent_id = $1),
			(SELECT COUNT(*) FROM help_items WHERE category_id = $1)
	`, id).Scan(&children, &items)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if children > 0 || items > 0 {
		return ErrCategoryNotEmpty
	}

	res, err := db.ExecContext(ctx, `DELETE FROM help_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireAffected(res, "delete category")
}

// ReorderItem represents a single item in a reorder request.
type ReorderItem struct {
	ID       uuid.UUID  `json:"id" validate:"required"`
	ParentID *uuid.UUID `json:"parent_id"`
	Order    float64    `json:"order"`
}

// Reorder updates sort_order and parent_id for multiple categories in one
// transaction. Callers validate the resulting tree beforehand.
func (s *CategoryStore) Reorder(ctx context.Context, items []ReorderItem) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			UPDATE help_categories SET parent_id = $1, sort_order = $2, updated_at = $3
			WHERE id = $4`)
		if err != nil {
			return fmt.Errorf("prepare reorder: %w", err)
		}
		defer stmt.Close()

		now := time.Now()
		for _, item := range items {
			res, err := stmt.ExecContext(ctx, item.ParentID, item.Order, now, item.ID)
			if err != nil {
				return fmt.Errorf("reorder category %s: %w", item.ID, err)
			}
			if err := requireAffected(res, "reorder category "+item.ID.String()); err != nil {
				return err
			}
		}
		return nil
	})
}

// NextOrder returns the next sort_order value for a given parent.
func (s *CategoryStore) NextOrder(ctx context.Context, parentID *uuid.UUID) (float64, error) {
	var maxOrder sql.NullFloat64
	var err error
	if parentID == nil {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM help_categories WHERE parent_id IS NULL`).Scan(&maxOrder)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM help_categories WHERE parent_id = $1`, *parentID).Scan(&maxOrder)
	}
	if err != nil {
		return 0, fmt.Errorf("next category order: %w", err)
	}
	if maxOrder.Valid {
		return maxOrder.Float64 + 1, nil
	}
	return 1, nil
}

// requireAffected turns a zero-row result into ErrUpdateFailed.
func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrUpdateFailed)
	}
	return nil
}
