// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package textnorm turns free text into the lowercase token sequences used by
// help-center search. It unescapes HTML character references and splits on
// runs of non-alphanumeric characters.
package textnorm

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxQueryLength is the number of characters of a query that are considered.
const MaxQueryLength = 64

var (
	// entityRef matches a numeric (&#65; &#x41;) or named (&amp;) reference.
	entityRef = regexp.MustCompile(`&#?\w+;`)
	// nonAlphanumeric matches every maximal run of non letter, non digit runes.
	nonAlphanumeric = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// Unescape replaces HTML character references with the characters they
// stand for. References that do not resolve are left in place unchanged.
// Example: "fish &amp; chips &bogus;" → "fish & chips &bogus;"
func Unescape(text string) string {
	if !strings.Contains(text, "&") {
		return text
	}
	return entityRef.ReplaceAllStringFunc(text, resolveRef)
}

// resolveRef returns the replacement for one matched reference, or the
// reference itself when it cannot be resolved.
func resolveRef(ref string) string {
	if strings.HasPrefix(ref, "&#") {
		digits := ref[2 : len(ref)-1]
		base := 10
		if strings.HasPrefix(digits, "x") || strings.HasPrefix(digits, "X") {
			digits, base = digits[1:], 16
		}
		n, err := strconv.ParseInt(digits, base, 32)
		if err != nil || n <= 0 || !utf8.ValidRune(rune(n)) {
			return ref
		}
		return string(rune(n))
	}

	// html.UnescapeString also resolves legacy prefixes like "&ampx;" to
	// "&x;". Only accept a result that consumed the whole reference.
	out := html.UnescapeString(ref)
	if out == ref || utf8.RuneCountInString(out) > 2 {
		return ref
	}
	return out
}

// Truncate returns at most n characters of s, counted in runes.
func Truncate(s string, n int) string {
	if n < 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Tokenize lowercases the first MaxQueryLength characters of text and splits
// them into alphanumeric tokens. Order is preserved and duplicates are kept.
// Example: "Export, CSV & more" → ["export", "csv", "more"]
func Tokenize(text string) []string {
	text = strings.ToLower(Truncate(text, MaxQueryLength))
	text = nonAlphanumeric.ReplaceAllString(text, " ")
	return strings.Fields(text)
}
