// Copyright (c) 2026 Film8X. All rights reserved.

// Package slug derives ASCII URL slugs ("the-matrix") from arbitrary
// Unicode titles.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes to NFD and drops the combining marks, turning
// "é" into "e".
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

var (
	nonSlugRunes = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRuns   = regexp.MustCompile(`-{2,}`)
)

/*
From converts a title into a URL-safe slug: accents stripped, lowercased,
every non-alphanumeric run collapsed into a single hyphen, no leading or
trailing hyphens.
*/
func From(title string) string {
	folded, _, _ := transform.String(stripAccents, title)
	folded = strings.ToLower(folded)

	folded = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, folded)

	folded = nonSlugRunes.ReplaceAllString(folded, "-")
	folded = hyphenRuns.ReplaceAllString(folded, "-")
	return strings.Trim(folded, "-")
}
