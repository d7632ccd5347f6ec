// Copyright (c) 2026 Film8X. All rights reserved.

/*
Package pagination defines how Film8X list endpoints accept page-based
navigation ("page" and "limit" query parameters) and how the resulting
metadata block is reported back in list envelopes.
*/
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the page size when the client does not ask for one.
	DefaultLimit = 12
	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
	// DefaultPage is the first page (pages are 1-indexed).
	DefaultPage = 1
)

// Params is a sanitized page request. Construct it via [FromRequest] so the
// clamping rules always apply.
type Params struct {
	Page  int
	Limit int
}

// Offset translates the page number into a SQL OFFSET.
func (params Params) Offset() int {
	if params.Page <= 1 {
		return 0
	}
	return (params.Page - 1) * params.Limit
}

// Meta is the metadata block accompanying every paginated response.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta derives the metadata block, rounding the page count up so a
// partial final page still counts.
func NewMeta(page, limit, total int) Meta {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Meta{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

/*
FromRequest reads "page" and "limit" from the query string.

Absent, malformed, negative, or oversized values silently fall back to the
defaults rather than failing the request; a bad limit is never an error a
client needs to handle.
*/
func FromRequest(request *http.Request) Params {
	page := queryInt(request, "page", DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	limit := queryInt(request, "limit", DefaultLimit)
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	return Params{Page: page, Limit: limit}
}

func queryInt(request *http.Request, key string, fallback int) int {
	raw := request.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
