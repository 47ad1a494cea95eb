// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation for help categories and
// items.
package slug

import (
	"context"
	"fmt"

	gosimple "github.com/gosimple/slug"
)

// maxAttempts bounds the numeric suffixes tried by Unique.
const maxAttempts = 100

// Generate creates a URL-friendly slug from the given string, transliterating
// non-ASCII letters.
// Example: "Café Résumé 2026" → "cafe-resume-2026"
func Generate(s string) string {
	return gosimple.Make(s)
}

// IsValid reports whether s is already in slug form.
func IsValid(s string) bool {
	return gosimple.IsSlug(s)
}

// Unique returns base, or base with the first free numeric suffix ("-2",
// "-3", ...) according to taken.
func Unique(ctx context.Context, base string, taken func(ctx context.Context, candidate string) (bool, error)) (string, error) {
	candidate := base
	for i := 2; i <= maxAttempts+1; i++ {
		used, err := taken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !used {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxAttempts)
}
