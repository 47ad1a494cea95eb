// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package help

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

type seedItem struct {
	heading string
	body    string
	tags    []string
}

type seedCategory struct {
	title    string
	items    []seedItem
	children []seedCategory
}

var seedData = []seedCategory{
	{
		title: "Getting started",
		items: []seedItem{
			{"Creating an account", "Open the sign-up page and enter your email address. You will receive a confirmation link.", []string{"account", "signup"}},
			{"Choosing a plan", "Plans differ in storage and number of seats. You can change plan at any time.", []string{"billing"}},
		},
		children: []seedCategory{{
			title: "Account settings",
			items: []seedItem{
				{"Changing your password", "Go to Settings &rarr; Security and pick a new password.", []string{"account", "security"}},
			},
		}},
	},
	{
		title: "Billing",
		items: []seedItem{
			{"Downloading invoices", "Invoices are available as PDF under Billing &gt; History.", []string{"billing", "invoices"}},
			{"Updating payment details", "Card details can be replaced before the next renewal date.", []string{"billing"}},
		},
	},
}

// Seed populates an empty help center with demo categories and items for
// development. It does nothing when categories already exist.
func (s *Service) Seed(ctx context.Context) error {
	existing, err := s.categories.List(ctx)
	if err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("help center already seeded, skipping")
		return nil
	}

	var cats, items int
	var walk func(nodes []seedCategory, parentID *uuid.UUID) error
	walk = func(nodes []seedCategory, parentID *uuid.UUID) error {
		for _, n := range nodes {
			cat, err := s.CreateCategory(ctx, CategoryInput{Title: n.title, Published: true, ParentID: parentID})
			if err != nil {
				return fmt.Errorf("seed category %q: %w", n.title, err)
			}
			cats++

			for _, it := range n.items {
				_, err := s.CreateItem(ctx, ItemInput{
					CategoryID: cat.ID,
					Heading:    it.heading,
					Body:       it.body,
					Published:  true,
					Tags:       it.tags,
				})
				if err != nil {
					return fmt.Errorf("seed item %q: %w", it.heading, err)
				}
				items++
			}

			if err := walk(n.children, &cat.ID); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(seedData, nil); err != nil {
		return err
	}

	slog.Info("help center seeded", "categories", cats, "items", items)
	return nil
}
