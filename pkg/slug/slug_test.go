// Copyright (c) 2026 Film8X. All rights reserved.

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/film8x/film8x/pkg/slug"
)

/*
TestFrom covers the slug pipeline: lowercasing, accent stripping, hyphen
mapping, and collapse/trim of hyphen runs.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple_title", "The Matrix", "the-matrix"},
		{"accented", "Amélie à Paris", "amelie-a-paris"},
		{"punctuation", "Spider-Man: No Way Home!", "spider-man-no-way-home"},
		{"numbers", "Blade Runner 2049", "blade-runner-2049"},
		{"multiple_spaces", "The   Godfather", "the-godfather"},
		{"leading_trailing_junk", "  ~Up~  ", "up"},
		{"empty", "", ""},
		{"only_symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug.From(tt.input))
		})
	}
}
