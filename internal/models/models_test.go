// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// TestCategoryIsRoot verifies that only categories without a parent are roots.
func TestCategoryIsRoot(t *testing.T) {
	parent := uuid.New()

	tests := []struct {
		name     string
		parentID *uuid.UUID
		want     bool
	}{
		{name: "no parent", parentID: nil, want: true},
		{name: "with parent", parentID: &parent, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Category{ParentID: tt.parentID}
			if got := c.IsRoot(); got != tt.want {
				t.Errorf("IsRoot() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestItemJSONHidesDerivedFields verifies that the search index and voter
// identities never leave the process in API responses.
func TestItemJSONHidesDerivedFields(t *testing.T) {
	it := Item{
		Heading:         "Reset password",
		SearchIndex:     "reset password secret-index",
		UsefulVoters:    []string{"voter-a"},
		NotUsefulVoters: []string{"voter-b"},
	}

	out, err := json.Marshal(it)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(out)

	for _, hidden := range []string{"secret-index", "voter-a", "voter-b", "search_index"} {
		if strings.Contains(s, hidden) {
			t.Errorf("JSON contains %q: %s", hidden, s)
		}
	}
	if strings.Contains(s, `"tags"`) {
		t.Errorf("empty tags should be omitted: %s", s)
	}
	if !strings.Contains(s, `"heading":"Reset password"`) {
		t.Errorf("heading missing: %s", s)
	}
}
