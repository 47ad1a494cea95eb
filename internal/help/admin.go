// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package help

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"helpcenter/internal/index"
	"helpcenter/internal/models"
	"helpcenter/internal/slug"
	"helpcenter/internal/store"
	"helpcenter/internal/tree"
)

// CategoryInput is the editable part of a category. An empty Slug is
// generated from Title; a nil Order appends the category after its
// siblings.
type CategoryInput struct {
	Title     string     `json:"title" validate:"required,max=200"`
	Slug      string     `json:"slug" validate:"omitempty,max=200"`
	Published bool       `json:"published"`
	Order     *float64   `json:"order"`
	ParentID  *uuid.UUID `json:"parent_id"`
}

// ItemInput is the editable part of an item. Tags replace the current set
// when non-nil.
type ItemInput struct {
	CategoryID uuid.UUID `json:"category_id" validate:"required"`
	Heading    string    `json:"heading" validate:"required,max=300"`
	Body       string    `json:"body" validate:"required"`
	Slug       string    `json:"slug" validate:"omitempty,max=200"`
	Published  bool      `json:"published"`
	Order      *float64  `json:"order"`
	Tags       []string  `json:"tags" validate:"omitempty,max=20,dive,max=50"`
}

// ItemPatch changes only the fields that are set.
type ItemPatch struct {
	Heading   *string  `json:"heading" validate:"omitempty,min=1,max=300"`
	Body      *string  `json:"body" validate:"omitempty,min=1"`
	Published *bool    `json:"published"`
	Order     *float64 `json:"order"`
}

// AdminCategories returns the whole tree, unpublished categories included.
func (s *Service) AdminCategories(ctx context.Context) ([]tree.Node, error) {
	all, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	nodes, err := tree.New(all).Branches(false)
	if err != nil {
		return nil, fmt.Errorf("category branches: %w", err)
	}
	return nodes, nil
}

// AdminItems lists every item of a category, unpublished ones included.
func (s *Service) AdminItems(ctx context.Context, categoryID uuid.UUID) ([]models.Item, error) {
	cat, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, ErrNotFound
	}
	return s.items.ListByCategory(ctx, s.db, categoryID, false)
}

// CreateCategory validates in and stores a new category.
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		parent, err := s.categories.FindByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, fmt.Errorf("%w: parent category does not exist", ErrValidation)
		}
	}

	catSlug, err := s.categorySlug(ctx, uuid.Nil, in.Slug, in.Title)
	if err != nil {
		return nil, err
	}

	order, err := s.categoryOrder(ctx, in.Order, in.ParentID)
	if err != nil {
		return nil, err
	}

	created, err := s.categories.Create(ctx, s.db, &models.Category{
		Title:     in.Title,
		Slug:      catSlug,
		Published: in.Published,
		Order:     order,
		ParentID:  in.ParentID,
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	slog.Info("category created", "id", created.ID, "slug", created.Slug)
	return created, nil
}

// UpdateCategory replaces the editable fields of a category. A new title
// reindexes every item of the category in the same transaction.
func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	existing, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	if in.ParentID != nil {
		if err := s.checkMove(ctx, id, *in.ParentID); err != nil {
			return nil, err
		}
	}

	catSlug := existing.Slug
	if in.Slug != "" && in.Slug != existing.Slug {
		catSlug, err = s.categorySlug(ctx, id, in.Slug, in.Title)
		if err != nil {
			return nil, err
		}
	}

	updated := *existing
	updated.Title = in.Title
	updated.Slug = catSlug
	updated.Published = in.Published
	updated.ParentID = in.ParentID
	if in.Order != nil {
		updated.Order = *in.Order
	}

	var reindexed int
	err = store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.categories.Update(ctx, tx, &updated); err != nil {
			return err
		}
		if updated.Title == existing.Title {
			return nil
		}
		var err error
		reindexed, err = s.indexer.ReindexCategory(ctx, tx, id, updated.Title)
		return err
	})
	if err != nil {
		return nil, mapMissing(err)
	}

	s.invalidate(ctx)
	slog.Info("category updated", "id", id, "reindexed_items", reindexed)
	return s.categories.FindByID(ctx, id)
}

// DeleteCategory removes an empty category.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.categories.Delete(ctx, s.db, id); err != nil {
		return mapMissing(err)
	}
	s.invalidate(ctx)
	slog.Info("category deleted", "id", id)
	return nil
}

// ReorderCategories applies a batch of position and parent changes. The
// resulting tree is checked for cycles before anything is written.
func (s *Service) ReorderCategories(ctx context.Context, moves []store.ReorderItem) error {
	if len(moves) == 0 {
		return nil
	}
	for _, m := range moves {
		if err := s.check(m); err != nil {
			return err
		}
	}

	all, err := s.categories.List(ctx)
	if err != nil {
		return err
	}
	pos := make(map[uuid.UUID]int, len(all))
	for i, c := range all {
		pos[c.ID] = i
	}
	for _, m := range moves {
		i, ok := pos[m.ID]
		if !ok {
			return ErrNotFound
		}
		if m.ParentID != nil {
			if _, ok := pos[*m.ParentID]; !ok {
				return fmt.Errorf("%w: parent category does not exist", ErrValidation)
			}
		}
		all[i].ParentID = m.ParentID
		all[i].Order = m.Order
	}

	forest := tree.New(all)
	for _, m := range moves {
		if _, err := forest.Trail(m.ID); errors.Is(err, tree.ErrCycleDetected) {
			return ErrCategoryCycle
		}
	}

	if err := s.categories.Reorder(ctx, moves); err != nil {
		return mapMissing(err)
	}
	s.invalidate(ctx)
	return nil
}

// CreateItem validates in and stores a new item with its search index.
func (s *Service) CreateItem(ctx context.Context, in ItemInput) (*models.Item, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	cat, err := s.categories.FindByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: category does not exist", ErrValidation)
	}

	itemSlug, err := s.itemSlug(ctx, cat.ID, uuid.Nil, in.Slug, in.Heading)
	if err != nil {
		return nil, err
	}

	order := 0.0
	if in.Order != nil {
		order = *in.Order
	} else if order, err = s.items.NextOrder(ctx, cat.ID); err != nil {
		return nil, err
	}

	it := &models.Item{
		CategoryID: cat.ID,
		Heading:    in.Heading,
		Body:       in.Body,
		Slug:       itemSlug,
		Published:  in.Published,
		Order:      order,
	}
	index.Apply(it, cat.Title)

	var created *models.Item
	err = store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		if created, err = s.items.Create(ctx, tx, it); err != nil {
			return err
		}
		if in.Tags != nil {
			created.Tags, err = s.tags.SetTags(ctx, tx, created.ID, in.Tags)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	slog.Info("item created", "id", created.ID, "category_id", cat.ID)
	return created, nil
}

// UpdateItem replaces the editable fields of an item and recomputes its
// search index.
func (s *Service) UpdateItem(ctx context.Context, id uuid.UUID, in ItemInput) (*models.Item, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	existing, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	cat, err := s.categories.FindByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: category does not exist", ErrValidation)
	}

	itemSlug := existing.Slug
	switch {
	case in.Slug != "" && in.Slug != existing.Slug:
		itemSlug, err = s.itemSlug(ctx, cat.ID, id, in.Slug, in.Heading)
	case cat.ID != existing.CategoryID:
		// Keep the slug when moving unless the target category uses it.
		itemSlug, err = s.itemSlug(ctx, cat.ID, id, "", existing.Slug)
	}
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.CategoryID = cat.ID
	updated.Heading = in.Heading
	updated.Body = in.Body
	updated.Slug = itemSlug
	updated.Published = in.Published
	if in.Order != nil {
		updated.Order = *in.Order
	}
	index.Apply(&updated, cat.Title)

	err = store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.items.Update(ctx, tx, &updated); err != nil {
			return err
		}
		if in.Tags == nil {
			return nil
		}
		_, err := s.tags.SetTags(ctx, tx, id, in.Tags)
		return err
	})
	if err != nil {
		return nil, mapMissing(err)
	}

	s.invalidate(ctx)
	return s.adminItem(ctx, id)
}

// PatchItem writes only the fields set in p in a single statement. A new
// heading or body refreshes the search index in the same statement.
func (s *Service) PatchItem(ctx context.Context, id uuid.UUID, p ItemPatch) (*models.Item, error) {
	if err := s.check(p); err != nil {
		return nil, err
	}
	existing, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	fields := store.Fields{}
	heading, body := existing.Heading, existing.Body
	if p.Heading != nil {
		heading = *p.Heading
		fields["heading"] = heading
	}
	if p.Body != nil {
		body = *p.Body
		fields["body"] = body
	}
	if p.Published != nil {
		fields["published"] = *p.Published
	}
	if p.Order != nil {
		fields["order"] = *p.Order
	}
	if len(fields) == 0 {
		return s.adminItem(ctx, id)
	}

	if p.Heading != nil || p.Body != nil {
		cat, err := s.categories.FindByID(ctx, existing.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, ErrNotFound
		}
		fields[index.FieldSearchIndex] = index.Compute(heading, body, cat.Title)
	}

	if err := s.items.UpdateFields(ctx, s.db, id, fields); err != nil {
		return nil, mapMissing(err)
	}

	s.invalidate(ctx)
	return s.adminItem(ctx, id)
}

// DeleteItem removes an item together with its votes and tags.
func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.items.Delete(ctx, s.db, id); err != nil {
		return mapMissing(err)
	}
	s.invalidate(ctx)
	slog.Info("item deleted", "id", id)
	return nil
}

// SetItemTags replaces the tag set of an item and returns the stored set.
func (s *Service) SetItemTags(ctx context.Context, id uuid.UUID, tagList []string) ([]string, error) {
	if err := s.validate.Var(tagList, "max=20,dive,max=50"); err != nil {
		return nil, validationError(err)
	}
	existing, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	var stored []string
	err = store.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		stored, err = s.tags.SetTags(ctx, tx, id, tagList)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return stored, nil
}

// adminItem loads an item with its tags regardless of publication.
func (s *Service) adminItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	it, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrNotFound
	}
	if err := s.tags.Load(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// checkMove rejects a parent that is the category itself or lies below it.
func (s *Service) checkMove(ctx context.Context, id, parentID uuid.UUID) error {
	if parentID == id {
		return ErrCategoryCycle
	}
	all, err := s.categories.List(ctx)
	if err != nil {
		return err
	}
	below, err := tree.New(all).IsDescendant(id, parentID)
	if errors.Is(err, tree.ErrUnknownCategory) {
		return fmt.Errorf("%w: parent category does not exist", ErrValidation)
	}
	if err != nil {
		return fmt.Errorf("check category move: %w", err)
	}
	if below {
		return ErrCategoryCycle
	}
	return nil
}

// categorySlug validates an explicit slug or derives a unique one from the
// title. self is the category being edited, uuid.Nil on create.
func (s *Service) categorySlug(ctx context.Context, self uuid.UUID, explicit, title string) (string, error) {
	taken := func(ctx context.Context, candidate string) (bool, error) {
		c, err := s.categories.FindBySlug(ctx, candidate)
		if err != nil {
			return false, err
		}
		return c != nil && c.ID != self, nil
	}
	return s.resolveSlug(ctx, explicit, title, taken)
}

// itemSlug does the same for items, whose slugs are unique per category.
func (s *Service) itemSlug(ctx context.Context, categoryID, self uuid.UUID, explicit, heading string) (string, error) {
	taken := func(ctx context.Context, candidate string) (bool, error) {
		it, err := s.items.FindBySlug(ctx, categoryID, candidate)
		if err != nil {
			return false, err
		}
		return it != nil && it.ID != self, nil
	}
	return s.resolveSlug(ctx, explicit, heading, taken)
}

func (s *Service) resolveSlug(ctx context.Context, explicit, fallback string, taken func(context.Context, string) (bool, error)) (string, error) {
	if explicit != "" {
		if !slug.IsValid(explicit) {
			return "", fmt.Errorf("%w: slug %q must be lowercase letters, digits and dashes", ErrValidation, explicit)
		}
		used, err := taken(ctx, explicit)
		if err != nil {
			return "", err
		}
		if used {
			return "", fmt.Errorf("%w: slug %q is already in use", ErrValidation, explicit)
		}
		return explicit, nil
	}

	base := slug.Generate(fallback)
	if base == "" {
		return "", fmt.Errorf("%w: cannot derive a slug from %q", ErrValidation, fallback)
	}
	return slug.Unique(ctx, base, taken)
}

func (s *Service) categoryOrder(ctx context.Context, explicit *float64, parentID *uuid.UUID) (float64, error) {
	if explicit != nil {
		return *explicit, nil
	}
	return s.categories.NextOrder(ctx, parentID)
}

// mapMissing turns a write that matched no row into ErrNotFound.
func mapMissing(err error) error {
	if errors.Is(err, store.ErrUpdateFailed) {
		return ErrNotFound
	}
	return err
}
