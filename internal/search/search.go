// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package search finds published help items whose denormalized search text
// contains every query token at the start of a word. Search is best effort:
// failures are logged and produce an empty result, never an error.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"helpcenter/internal/models"
	"helpcenter/internal/textnorm"
)

// Store returns the published items matching every token.
type Store interface {
	SearchPublished(ctx context.Context, tokens []string) ([]models.Item, error)
}

// Cache stores search results by token key. Implementations must treat
// failures as misses.
type Cache interface {
	GetItems(ctx context.Context, key string) ([]models.Item, bool)
	SetItems(ctx context.Context, key string, items []models.Item)
}

// Engine runs help-center searches.
type Engine struct {
	store Store
	cache Cache
}

// New creates an Engine. cache may be nil.
func New(store Store, cache Cache) *Engine {
	return &Engine{store: store, cache: cache}
}

// Query normalizes a raw query into search tokens: the first 64 characters
// are unescaped and tokenized.
func Query(raw string) []string {
	return textnorm.Tokenize(textnorm.Unescape(textnorm.Truncate(raw, textnorm.MaxQueryLength)))
}

// Matches reports whether index contains every token as a word prefix.
// The index is treated as space delimited, so its first word counts too.
func Matches(index string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	padded := " " + index
	for _, t := range tokens {
		if !strings.Contains(padded, " "+t) {
			return false
		}
	}
	return true
}

// CacheKey returns the cache key for a token sequence.
func CacheKey(tokens []string) string {
	return strings.Join(tokens, " ")
}

// Search returns the published items matching raw. An empty query, a query
// without tokens, or any internal failure yields an empty result.
func (e *Engine) Search(ctx context.Context, raw string) (items []models.Item) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("search panic recovered", "query", raw, "error", fmt.Sprint(rec))
			items = []models.Item{}
		}
	}()

	if raw == "" {
		return []models.Item{}
	}

	tokens := Query(raw)
	if len(tokens) == 0 {
		return []models.Item{}
	}

	key := CacheKey(tokens)
	if e.cache != nil {
		if cached, ok := e.cache.GetItems(ctx, key); ok {
			return cached
		}
	}

	found, err := e.store.SearchPublished(ctx, tokens)
	if err != nil {
		slog.Warn("search failed", "query", raw, "tokens", tokens, "error", err)
		return []models.Item{}
	}
	// The store narrows candidates in SQL; Matches has the final word.
	matched := make([]models.Item, 0, len(found))
	for _, it := range found {
		if Matches(it.SearchIndex, tokens) {
			matched = append(matched, it)
		}
	}
	found = matched

	if e.cache != nil {
		e.cache.SetItems(ctx, key, found)
	}
	return found
}
