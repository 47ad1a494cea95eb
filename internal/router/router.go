// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// help center. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"helpcenter/internal/handlers"
	"helpcenter/internal/middleware"
	"helpcenter/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. limiter throttles search and vote requests.
func New(sessionStore *session.Store, limiter *middleware.RateLimiter, public *handlers.Public, admin *handlers.Admin, secureCookies bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))
	r.Use(middleware.NewCSRF(secureCookies))

	r.Get("/health", healthHandler)

	r.Route("/help", func(r chi.Router) {
		r.Get("/", public.Index)
		r.Get("/category/{identifier}/", public.Category)
		r.Get("/category/{category}/item/{item}/", public.Item)
		r.Get("/tags/{tag}", public.Tagged)
		r.Get("/items/{id}/score", public.Score)

		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Get("/search", public.Search)
			r.Post("/items/{id}/useful", public.MarkUseful)
			r.Post("/items/{id}/not-useful", public.MarkNotUseful)
			r.Delete("/items/{id}/vote", public.ResetVote)
		})
	})

	r.Route("/admin/help", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireAdmin)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", admin.CategoriesList)
			r.Post("/", admin.CategoryCreate)
			r.Post("/reorder", admin.CategoriesReorder)
			r.Put("/{id}", admin.CategoryUpdate)
			r.Delete("/{id}", admin.CategoryDelete)
			r.Get("/{id}/items", admin.CategoryItems)
		})

		r.Route("/items", func(r chi.Router) {
			r.Post("/", admin.ItemCreate)
			r.Put("/{id}", admin.ItemUpdate)
			r.Patch("/{id}", admin.ItemPatch)
			r.Delete("/{id}", admin.ItemDelete)
			r.Put("/{id}/tags", admin.ItemTags)
			r.Get("/{id}/votes", admin.ItemVotes)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
