// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"helpcenter/internal/help"
	"helpcenter/internal/middleware"
	"helpcenter/internal/models"
	"helpcenter/internal/tree"
	"helpcenter/internal/vote"
)

// Reader is the read and vote side of the help service.
type Reader interface {
	Categories(ctx context.Context) ([]tree.Node, error)
	CategoryItems(ctx context.Context, identifier string) (*help.CategoryPage, error)
	Item(ctx context.Context, categoryIdentifier, itemIdentifier string) (*help.ItemPage, error)
	Search(ctx context.Context, query string) *help.SearchResult
	ItemsTagged(ctx context.Context, tag string) ([]models.Item, error)
	MarkUseful(ctx context.Context, itemID uuid.UUID, user vote.User) (*help.VoteResult, error)
	MarkNotUseful(ctx context.Context, itemID uuid.UUID, user vote.User) (*help.VoteResult, error)
	ResetVote(ctx context.Context, itemID uuid.UUID, user vote.User) (*help.VoteResult, error)
	ItemScore(ctx context.Context, itemID uuid.UUID, user vote.User) (*help.VoteResult, error)
}

// Public groups the handlers for the public help-center API.
type Public struct {
	svc Reader
}

// NewPublic creates a new Public handler group.
func NewPublic(svc Reader) *Public {
	return &Public{svc: svc}
}

// Index lists the published categories as a tree.
func (p *Public) Index(w http.ResponseWriter, r *http.Request) {
	nodes, err := p.svc.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": nodes})
}

// Category shows one category by id or slug.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	page, err := p.svc.CategoryItems(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Item shows one item inside its category.
func (p *Public) Item(w http.ResponseWriter, r *http.Request) {
	page, err := p.svc.Item(r.Context(), chi.URLParam(r, "category"), chi.URLParam(r, "item"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Search runs the query parameter through the search engine. A missing
// query yields an empty result, never an error.
func (p *Public) Search(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, p.svc.Search(r.Context(), r.URL.Query().Get("query")))
}

// Tagged lists the published items carrying a tag.
func (p *Public) Tagged(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	items, err := p.svc.ItemsTagged(r.Context(), tag)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tag": tag, "items": items})
}

// MarkUseful records a useful vote for the session user.
func (p *Public) MarkUseful(w http.ResponseWriter, r *http.Request) {
	p.vote(w, r, p.svc.MarkUseful)
}

// MarkNotUseful records a not-useful vote for the session user.
func (p *Public) MarkNotUseful(w http.ResponseWriter, r *http.Request) {
	p.vote(w, r, p.svc.MarkNotUseful)
}

// ResetVote removes the session user's vote.
func (p *Public) ResetVote(w http.ResponseWriter, r *http.Request) {
	p.vote(w, r, p.svc.ResetVote)
}

// Score returns an item's score and the session user's side.
func (p *Public) Score(w http.ResponseWriter, r *http.Request) {
	p.vote(w, r, p.svc.ItemScore)
}

type voteAction func(ctx context.Context, itemID uuid.UUID, user vote.User) (*help.VoteResult, error)

func (p *Public) vote(w http.ResponseWriter, r *http.Request, action voteAction) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := action(r.Context(), id, middleware.UserFromCtx(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
