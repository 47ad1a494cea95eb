// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides an in-memory service double shared by the
// handler tests, so routes can be exercised without PostgreSQL.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"helpcenter/internal/help"
	"helpcenter/internal/models"
	"helpcenter/internal/store"
	"helpcenter/internal/tree"
	"helpcenter/internal/vote"
)

// fakeService records calls and returns canned results. Any method whose
// err field is set returns that error.
type fakeService struct {
	err error

	nodes    []tree.Node
	catPage  *help.CategoryPage
	itemPage *help.ItemPage
	items    []models.Item
	tags     []string

	lastIdent  []string
	lastQuery  string
	lastUser   vote.User
	lastID     uuid.UUID
	lastCatIn  help.CategoryInput
	lastItemIn help.ItemInput
	lastPatch  help.ItemPatch
	lastMoves  []store.ReorderItem
	lastTags   []string
}

func (f *fakeService) Categories(ctx context.Context) ([]tree.Node, error) {
	return f.nodes, f.err
}

func (f *fakeService) CategoryItems(ctx context.Context, identifier string) (*help.CategoryPage, error) {
	f.lastIdent = []string{identifier}
	if f.err != nil {
		return nil, f.err
	}
	return f.catPage, nil
}

func (f *fakeService) Item(ctx context.Context, cat, item string) (*help.ItemPage, error) {
	f.lastIdent = []string{cat, item}
	if f.err != nil {
		return nil, f.err
	}
	return f.itemPage, nil
}

func (f *fakeService) Search(ctx context.Context, query string) *help.SearchResult {
	f.lastQuery = query
	return &help.SearchResult{Query: query, Items: []models.Item{}}
}

func (f *fakeService) ItemsTagged(ctx context.Context, tag string) ([]models.Item, error) {
	f.lastQuery = tag
	return f.items, f.err
}

func (f *fakeService) voteResult(id uuid.UUID, user vote.User) (*help.VoteResult, error) {
	f.lastID, f.lastUser = id, user
	if f.err != nil {
		return nil, f.err
	}
	return &help.VoteResult{ItemID: id, Score: help.Score{Useful: 1, Total: 2}, Voted: "useful"}, nil
}

func (f *fakeService) MarkUseful(ctx context.Context, id uuid.UUID, u vote.User) (*help.VoteResult, error) {
	return f.voteResult(id, u)
}

func (f *fakeService) MarkNotUseful(ctx context.Context, id uuid.UUID, u vote.User) (*help.VoteResult, error) {
	return f.voteResult(id, u)
}

func (f *fakeService) ResetVote(ctx context.Context, id uuid.UUID, u vote.User) (*help.VoteResult, error) {
	return f.voteResult(id, u)
}

func (f *fakeService) ItemScore(ctx context.Context, id uuid.UUID, u vote.User) (*help.VoteResult, error) {
	return f.voteResult(id, u)
}

func (f *fakeService) AdminCategories(ctx context.Context) ([]tree.Node, error) {
	return f.nodes, f.err
}

func (f *fakeService) AdminItems(ctx context.Context, id uuid.UUID) ([]models.Item, error) {
	f.lastID = id
	return f.items, f.err
}

func (f *fakeService) CreateCategory(ctx context.Context, in help.CategoryInput) (*models.Category, error) {
	f.lastCatIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Category{ID: uuid.New(), Title: in.Title, Slug: "new"}, nil
}

func (f *fakeService) UpdateCategory(ctx context.Context, id uuid.UUID, in help.CategoryInput) (*models.Category, error) {
	f.lastID, f.lastCatIn = id, in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Category{ID: id, Title: in.Title}, nil
}

func (f *fakeService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	f.lastID = id
	return f.err
}

func (f *fakeService) ReorderCategories(ctx context.Context, moves []store.ReorderItem) error {
	f.lastMoves = moves
	return f.err
}

func (f *fakeService) CreateItem(ctx context.Context, in help.ItemInput) (*models.Item, error) {
	f.lastItemIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Item{ID: uuid.New(), CategoryID: in.CategoryID, Heading: in.Heading}, nil
}

func (f *fakeService) UpdateItem(ctx context.Context, id uuid.UUID, in help.ItemInput) (*models.Item, error) {
	f.lastID, f.lastItemIn = id, in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Item{ID: id, Heading: in.Heading}, nil
}

func (f *fakeService) PatchItem(ctx context.Context, id uuid.UUID, p help.ItemPatch) (*models.Item, error) {
	f.lastID, f.lastPatch = id, p
	if f.err != nil {
		return nil, f.err
	}
	return &models.Item{ID: id}, nil
}

func (f *fakeService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	f.lastID = id
	return f.err
}

func (f *fakeService) SetItemTags(ctx context.Context, id uuid.UUID, tags []string) ([]string, error) {
	f.lastID, f.lastTags = id, tags
	return f.tags, f.err
}

func (f *fakeService) ItemVotes(ctx context.Context, id uuid.UUID) ([]models.Vote, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return []models.Vote{{ItemID: id, UserID: "u1", Useful: true}}, nil
}

// testRouter mounts the handler groups on the paths the router uses,
// without middleware.
func testRouter(svc *fakeService) http.Handler {
	pub := NewPublic(svc)
	adm := NewAdmin(svc)

	r := chi.NewRouter()
	r.Get("/help/", pub.Index)
	r.Get("/help/category/{identifier}/", pub.Category)
	r.Get("/help/category/{category}/item/{item}/", pub.Item)
	r.Get("/help/search", pub.Search)
	r.Get("/help/tags/{tag}", pub.Tagged)
	r.Post("/help/items/{id}/useful", pub.MarkUseful)
	r.Post("/help/items/{id}/not-useful", pub.MarkNotUseful)
	r.Delete("/help/items/{id}/vote", pub.ResetVote)
	r.Get("/help/items/{id}/score", pub.Score)

	r.Get("/admin/help/categories", adm.CategoriesList)
	r.Post("/admin/help/categories", adm.CategoryCreate)
	r.Post("/admin/help/categories/reorder", adm.CategoriesReorder)
	r.Put("/admin/help/categories/{id}", adm.CategoryUpdate)
	r.Delete("/admin/help/categories/{id}", adm.CategoryDelete)
	r.Get("/admin/help/categories/{id}/items", adm.CategoryItems)
	r.Post("/admin/help/items", adm.ItemCreate)
	r.Put("/admin/help/items/{id}", adm.ItemUpdate)
	r.Patch("/admin/help/items/{id}", adm.ItemPatch)
	r.Delete("/admin/help/items/{id}", adm.ItemDelete)
	r.Put("/admin/help/items/{id}/tags", adm.ItemTags)
	r.Get("/admin/help/items/{id}/votes", adm.ItemVotes)
	return r
}

// do sends a request through h and returns the recorder.
func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals a JSON response body.
func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}
