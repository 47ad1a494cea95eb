// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides shared fixtures for all store integration tests.
// Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"helpcenter/internal/database/dbtest"
	"helpcenter/internal/models"
)

// testDB opens the migrated test database.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	return dbtest.Open(t)
}

// newCategory inserts a category with a random slug and removes it, with
// every item inside it, when the test ends.
func newCategory(t *testing.T, db *sql.DB, title string, parentID *uuid.UUID) *models.Category {
	t.Helper()
	cats := NewCategoryStore(db)
	c, err := cats.Create(context.Background(), db, &models.Category{
		Title:     title,
		Slug:      "test-" + uuid.NewString(),
		Published: true,
		Order:     1,
		ParentID:  parentID,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Exec(`DELETE FROM help_items WHERE category_id = $1`, c.ID)
		db.Exec(`DELETE FROM help_categories WHERE id = $1`, c.ID)
	})
	return c
}

// newItem inserts a published item in category c.
func newItem(t *testing.T, db *sql.DB, c *models.Category, heading, body string, order float64) *models.Item {
	t.Helper()
	items := NewItemStore(db)
	it, err := items.Create(context.Background(), db, &models.Item{
		CategoryID:  c.ID,
		Heading:     heading,
		Body:        body,
		Slug:        "item-" + uuid.NewString(),
		Published:   true,
		Order:       order,
		SearchIndex: heading + " " + body + " " + c.Title,
	})
	require.NoError(t, err)
	return it
}

func TestEscapeLike(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrefixed(t *testing.T) {
	if got := prefixed("i", "id, heading,\n\tbody"); got != "i.id, i.heading, i.body" {
		t.Errorf("prefixed: got %q", got)
	}
}
