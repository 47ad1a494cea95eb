// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package textnorm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnescape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "hello world", "hello world"},
		{"named entity", "fish &amp; chips", "fish & chips"},
		{"decimal reference", "&#65;BC", "ABC"},
		{"hex reference", "&#x41;&#X42;", "AB"},
		{"unknown named entity kept", "a &bogus; b", "a &bogus; b"},
		{"legacy prefix not half-resolved", "&ampx;", "&ampx;"},
		{"invalid codepoint kept", "&#xD800;", "&#xD800;"},
		{"zero codepoint kept", "&#0;", "&#0;"},
		{"overflowing codepoint kept", "&#99999999999;", "&#99999999999;"},
		{"malformed hex kept", "&#xZZ;", "&#xZZ;"},
		{"unterminated reference passes through", "AT&T &amp", "AT&T &amp"},
		{"mixed", "&lt;b&gt; &#x263A; &nope;", "<b> ☺ &nope;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Unescape(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ñé", Truncate("ñéü", 2))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "", Truncate("abc", -1))
}

func TestTokenize(t *testing.T) {
	t.Run("lowercases and splits on punctuation", func(t *testing.T) {
		assert.Equal(t, []string{"export", "csv", "files"}, Tokenize("Export, CSV -- files!"))
	})

	t.Run("keeps order and duplicates", func(t *testing.T) {
		assert.Equal(t, []string{"b", "a", "b"}, Tokenize("b a b"))
	})

	t.Run("underscore is a separator", func(t *testing.T) {
		assert.Equal(t, []string{"snake", "case"}, Tokenize("snake_case"))
	})

	t.Run("unicode letters are alphanumeric", func(t *testing.T) {
		assert.Equal(t, []string{"café", "über"}, Tokenize("Café/Über"))
	})

	t.Run("only punctuation yields no tokens", func(t *testing.T) {
		assert.Empty(t, Tokenize("?!... ---"))
		assert.Empty(t, Tokenize(""))
	})

	t.Run("input truncated to 64 characters", func(t *testing.T) {
		in := strings.Repeat("a", 60) + " tail end"
		tokens := Tokenize(in)
		assert.Equal(t, []string{strings.Repeat("a", 60), "tai"}, tokens)
	})
}
