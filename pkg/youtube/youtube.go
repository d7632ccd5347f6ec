// Copyright (c) 2026 Film8X. All rights reserved.

// Package youtube extracts video identifiers and thumbnail URLs from
// YouTube links.
//
// # Usage
//
// Uploads reference a YouTube video by URL; the catalogue stores the 11-char
// video id and derives a thumbnail when the uploader does not provide one.
package youtube

import "regexp"

// videoIDRegex matches the video id across the common URL shapes:
// watch?v=, youtu.be/, embed/, v/, and bare &v= query parameters.
var videoIDRegex = regexp.MustCompile(`(?:youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([A-Za-z0-9_-]{11})`)

// bareIDRegex matches a standalone 11-character video id.
var bareIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractID returns the 11-character video id from a YouTube URL.
// It accepts a bare video id as-is. Returns "" when no id can be found.
func ExtractID(url string) string {
	if bareIDRegex.MatchString(url) {
		return url
	}

	matches := videoIDRegex.FindStringSubmatch(url)
	if len(matches) != 2 {
		return ""
	}
	return matches[1]
}

// ThumbnailURL returns the high-resolution thumbnail for a video id.
//
// hqdefault is used rather than maxresdefault because the latter 404s for
// videos uploaded below 1080p.
func ThumbnailURL(videoID string) string {
	if videoID == "" {
		return ""
	}
	return "https://img.youtube.com/vi/" + videoID + "/hqdefault.jpg"
}

// WatchURL returns the canonical watch URL for a video id.
func WatchURL(videoID string) string {
	if videoID == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + videoID
}
