// Package paging parses offset/limit pagination from query parameters and
// builds the pagination summary list endpoints return.
package paging

import (
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params is a 1-based page with a bounded limit.
type Params struct {
	Page  int
	Limit int
}

// FromQuery reads "page" and "limit", falling back to page 1 / DefaultLimit
// on absent or unparseable values and capping limit at MaxLimit.
func FromQuery(q url.Values) Params {
	p := Params{Page: 1, Limit: DefaultLimit}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		p.Limit = min(v, MaxLimit)
	}
	return p
}

// Skip returns the number of records to skip for this page.
func (p Params) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// Summary is the pagination block returned alongside list items.
type Summary struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// Summarize computes the summary for a total record count.
func (p Params) Summarize(total int64) Summary {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Summary{
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     p.Page < totalPages,
		HasPrev:     p.Page > 1,
	}
}
