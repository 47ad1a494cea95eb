// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package help is the help-center service: it combines the category tree,
// the denormalized search index, tags and usefulness votes into the
// operations the HTTP layer exposes. Read operations only ever return
// published content.
package help

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"helpcenter/internal/cache"
	"helpcenter/internal/index"
	"helpcenter/internal/models"
	"helpcenter/internal/search"
	"helpcenter/internal/store"
	"helpcenter/internal/tags"
	"helpcenter/internal/tree"
	"helpcenter/internal/vote"
)

var (
	// ErrNotFound is returned when a category or item does not resolve to
	// visible content.
	ErrNotFound = errors.New("help: not found")
	// ErrValidation wraps input that failed validation.
	ErrValidation = errors.New("help: invalid input")
	// ErrCategoryCycle is returned when a move would put a category below
	// itself.
	ErrCategoryCycle = errors.New("help: category cannot be moved below itself")
)

// Service implements the help-center operations on top of the stores.
type Service struct {
	db         *sql.DB
	categories *store.CategoryStore
	items      *store.ItemStore
	votes      *store.VoteStore
	indexer    *index.Indexer
	search     *search.Engine
	tally      *vote.Tally
	tags       *tags.Set
	cache      *cache.ResultCache
	validate   *validator.Validate
}

// New wires a Service. rc may be nil, in which case nothing is cached.
func New(db *sql.DB, rc *cache.ResultCache) *Service {
	items := store.NewItemStore(db)
	votes := store.NewVoteStore(db, items)

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	return &Service{
		db:         db,
		categories: store.NewCategoryStore(db),
		items:      items,
		votes:      votes,
		indexer:    index.NewIndexer(items),
		search:     search.New(items, rc),
		tally:      vote.NewTally(votes),
		tags:       tags.NewSet(store.NewTagStore(db)),
		cache:      rc,
		validate:   validate,
	}
}

// CategoryPage is the view of one category.
type CategoryPage struct {
	Category      models.Category   `json:"category"`
	Trail         []models.Category `json:"trail"`
	Subcategories []tree.Node       `json:"subcategories"`
	Items         []models.Item     `json:"items"`
}

// ItemPage is the view of one item.
type ItemPage struct {
	Category models.Category   `json:"category"`
	Trail    []models.Category `json:"trail"`
	Item     models.Item       `json:"item"`
	Related  []models.Item     `json:"related"`
	Score    Score             `json:"score"`
}

// SearchResult echoes the query next to its hits.
type SearchResult struct {
	Query string        `json:"query"`
	Items []models.Item `json:"items"`
}

// Categories returns every published root category with its published
// subtree.
func (s *Service) Categories(ctx context.Context) ([]tree.Node, error) {
	if nodes, ok := s.cache.GetTree(ctx); ok {
		return nodes, nil
	}

	all, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	nodes, err := tree.New(all).Branches(true)
	if err != nil {
		return nil, fmt.Errorf("category branches: %w", err)
	}

	s.cache.SetTree(ctx, nodes)
	return nodes, nil
}

// CategoryItems resolves a published category by id or slug and returns it
// with its published items, subcategories and trail.
func (s *Service) CategoryItems(ctx context.Context, identifier string) (*CategoryPage, error) {
	cat, err := s.publishedCategory(ctx, identifier)
	if err != nil {
		return nil, err
	}

	var (
		items  []models.Item
		forest *tree.Forest
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.items.ListByCategory(gctx, s.db, cat.ID, true)
		return err
	})
	g.Go(func() error {
		var err error
		forest, err = s.publishedForest(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	trail, err := publishedTrail(forest, cat.ID)
	if err != nil {
		return nil, err
	}
	subs, err := forest.Subcategories(cat.ID)
	if err != nil {
		return nil, fmt.Errorf("subcategories: %w", err)
	}

	return &CategoryPage{
		Category:      *cat,
		Trail:         trail,
		Subcategories: subs,
		Items:         items,
	}, nil
}

// Item resolves a published item inside a published category. Both
// identifiers may be ids or slugs.
func (s *Service) Item(ctx context.Context, categoryIdentifier, itemIdentifier string) (*ItemPage, error) {
	cat, err := s.publishedCategory(ctx, categoryIdentifier)
	if err != nil {
		return nil, err
	}

	var it *models.Item
	if id, perr := uuid.Parse(itemIdentifier); perr == nil {
		it, err = s.votes.FindWithVoters(ctx, id)
	} else {
		it, err = s.items.FindBySlug(ctx, cat.ID, itemIdentifier)
	}
	if err != nil {
		return nil, err
	}
	if it == nil || !it.Published || it.CategoryID != cat.ID {
		return nil, ErrNotFound
	}

	var (
		related []models.Item
		forest  *tree.Forest
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.tags.Load(gctx, it) })
	g.Go(func() error {
		var err error
		related, err = s.items.Related(gctx, it)
		return err
	})
	g.Go(func() error {
		var err error
		forest, err = s.publishedForest(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	trail, err := publishedTrail(forest, cat.ID)
	if err != nil {
		return nil, err
	}

	return &ItemPage{
		Category: *cat,
		Trail:    trail,
		Item:     *it,
		Related:  related,
		Score:    scoreOf(it),
	}, nil
}

// Search returns the published items containing every query token.
func (s *Service) Search(ctx context.Context, query string) *SearchResult {
	return &SearchResult{
		Query: query,
		Items: s.search.Search(ctx, query),
	}
}

// ItemsTagged lists the published items carrying tag.
func (s *Service) ItemsTagged(ctx context.Context, tag string) ([]models.Item, error) {
	return s.tags.ItemsTagged(ctx, tag)
}

// publishedTrail returns the root-first trail of a category in the
// published forest. A category below an unpublished ancestor has no trail
// reaching a root there and is reported as not found.
func publishedTrail(forest *tree.Forest, id uuid.UUID) ([]models.Category, error) {
	trail, err := forest.Trail(id)
	if errors.Is(err, tree.ErrUnknownCategory) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("category trail: %w", err)
	}
	if len(trail) == 0 || !trail[0].IsRoot() {
		return nil, ErrNotFound
	}
	return trail, nil
}

// publishedCategory resolves identifier as an id first, then as a slug.
func (s *Service) publishedCategory(ctx context.Context, identifier string) (*models.Category, error) {
	var (
		cat *models.Category
		err error
	)
	if id, perr := uuid.Parse(identifier); perr == nil {
		cat, err = s.categories.FindByID(ctx, id)
	} else {
		cat, err = s.categories.FindBySlug(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}
	if cat == nil || !cat.Published {
		return nil, ErrNotFound
	}
	return cat, nil
}

// publishedForest builds a tree over the published categories only, so an
// unpublished category hides its whole subtree.
func (s *Service) publishedForest(ctx context.Context) (*tree.Forest, error) {
	all, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	published := all[:0]
	for _, c := range all {
		if c.Published {
			published = append(published, c)
		}
	}
	return tree.New(published), nil
}

// invalidate drops cached trees and search results after a mutation.
func (s *Service) invalidate(ctx context.Context) {
	s.cache.InvalidateAll(ctx)
}
