// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is a single help entry inside a category.
//
// SearchIndex is derived from Heading, Body and the category title and is
// recomputed by the index package on every content mutation. It is never
// accepted from user input.
type Item struct {
	ID             uuid.UUID `json:"id"`
	CategoryID     uuid.UUID `json:"category_id"`
	Heading        string    `json:"heading"`
	Body           string    `json:"body"`
	Slug           string    `json:"slug"`
	Published      bool      `json:"published"`
	Order          float64   `json:"order"`
	SearchIndex    string    `json:"-"`
	UsefulCount    int       `json:"useful_count"`
	NotUsefulCount int       `json:"not_useful_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Virtual fields populated by store and service methods.
	Tags            []string `json:"tags,omitempty"`
	UsefulVoters    []string `json:"-"`
	NotUsefulVoters []string `json:"-"`
}

// Vote records one user's usefulness verdict on an item. A user has at most
// one vote per item, so the useful and not-useful voter sets never overlap.
type Vote struct {
	ItemID    uuid.UUID `json:"item_id"`
	UserID    string    `json:"user_id"`
	Useful    bool      `json:"useful"`
	CreatedAt time.Time `json:"created_at"`
}
