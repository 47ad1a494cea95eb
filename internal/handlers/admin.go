// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"helpcenter/internal/help"
	"helpcenter/internal/models"
	"helpcenter/internal/store"
	"helpcenter/internal/tree"
)

// Manager is the administrative side of the help service.
type Manager interface {
	AdminCategories(ctx context.Context) ([]tree.Node, error)
	AdminItems(ctx context.Context, categoryID uuid.UUID) ([]models.Item, error)
	CreateCategory(ctx context.Context, in help.CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in help.CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ReorderCategories(ctx context.Context, moves []store.ReorderItem) error
	CreateItem(ctx context.Context, in help.ItemInput) (*models.Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, in help.ItemInput) (*models.Item, error)
	PatchItem(ctx context.Context, id uuid.UUID, p help.ItemPatch) (*models.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	SetItemTags(ctx context.Context, id uuid.UUID, tags []string) ([]string, error)
	ItemVotes(ctx context.Context, itemID uuid.UUID) ([]models.Vote, error)
}

// Admin groups the handlers for managing categories and items.
type Admin struct {
	svc Manager
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(svc Manager) *Admin {
	return &Admin{svc: svc}
}

// CategoriesList returns the whole category tree. With ?view=flat the
// categories come back as one list in display order.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	nodes, err := a.svc.AdminCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("view") == "flat" {
		writeJSON(w, http.StatusOK, map[string]any{"categories": tree.Flatten(nodes)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": nodes})
}

// CategoryCreate creates a category from a JSON body.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var in help.CategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	cat, err := a.svc.CreateCategory(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

// CategoryUpdate replaces a category's editable fields.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in help.CategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	cat, err := a.svc.UpdateCategory(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// CategoryDelete deletes an empty category.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.svc.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CategoriesReorder applies a batch of moves.
func (a *Admin) CategoriesReorder(w http.ResponseWriter, r *http.Request) {
	var moves []store.ReorderItem
	if err := decodeJSON(w, r, &moves); err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.svc.ReorderCategories(r.Context(), moves); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CategoryItems lists every item of a category.
func (a *Admin) CategoryItems(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := a.svc.AdminItems(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// ItemCreate creates an item from a JSON body.
func (a *Admin) ItemCreate(w http.ResponseWriter, r *http.Request) {
	var in help.ItemInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	it, err := a.svc.CreateItem(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

// ItemUpdate replaces an item's editable fields.
func (a *Admin) ItemUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in help.ItemInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	it, err := a.svc.UpdateItem(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// ItemPatch changes only the fields present in the body.
func (a *Admin) ItemPatch(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var p help.ItemPatch
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	it, err := a.svc.PatchItem(r.Context(), id, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// ItemDelete deletes an item with its votes and tags.
func (a *Admin) ItemDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.svc.DeleteItem(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ItemTags replaces an item's tags with the JSON list in the body.
func (a *Admin) ItemTags(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		Tags []string `json:"tags"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	tags, err := a.svc.SetItemTags(r.Context(), id, body.Tags)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

// ItemVotes lists the votes on an item.
func (a *Admin) ItemVotes(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	votes, err := a.svc.ItemVotes(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"votes": votes})
}
