// Copyright (c) 2026 Film8X. All rights reserved.

package youtube_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/film8x/film8x/pkg/youtube"
)

/*
TestExtractID covers the common YouTube URL shapes plus bare ids and rejects.
*/
func TestExtractID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"watch_url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short_url", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed_url", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch_with_params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"bare_id", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"not_youtube", "https://vimeo.com/123456", ""},
		{"too_short_id", "abc123", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, youtube.ExtractID(tt.url))
		})
	}
}

/*
TestThumbnailURL verifies derivation and the empty-id guard.
*/
func TestThumbnailURL(t *testing.T) {
	assert.Equal(t,
		"https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
		youtube.ThumbnailURL("dQw4w9WgXcQ"),
	)
	assert.Equal(t, "", youtube.ThumbnailURL(""))
}
