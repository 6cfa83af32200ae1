package pagination

import (
	"net/url"
	"strconv"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any collection query can request.
	MaxLimit = 100
)

// Params holds page/limit inputs from collection endpoints.
type Params struct {
	Page  int
	Limit int
}

// FromQuery reads page/limit from the query string, tolerating junk values.
func FromQuery(query url.Values) Params {
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	return Params{Page: page, Limit: limit}
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Offset converts the params into a row offset.
func (p Params) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * NormalizeLimit(p.Limit)
}
