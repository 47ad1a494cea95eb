// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements the help-center persistence layer on PostgreSQL.
// Write methods take an explicit DBTX so callers decide whether a statement
// runs on the pool or inside a transaction they own.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUpdateFailed is returned when a targeted update matched no row.
	ErrUpdateFailed = errors.New("update failed")
	// ErrCategoryNotEmpty is returned when deleting a category that still
	// has subcategories or items.
	ErrCategoryNotEmpty = errors.New("category has subcategories or items")
	// ErrUnknownField is returned when a partial update names a column that
	// is not updatable.
	ErrUnknownField = errors.New("unknown field")
)

// DBTX is the subset of *sql.DB and *sql.Tx used by store methods.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// likeEscaper escapes LIKE wildcards so user tokens match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike returns s with LIKE metacharacters escaped for ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Fields maps column names to new values for a partial update.
type Fields map[string]any

// prefixed qualifies every column of a comma separated list with alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
