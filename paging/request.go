package paging

import (
	"math"
	"strings"
)

const (
	// DefaultPageSize is used when a request does not ask for a size.
	DefaultPageSize = 10
	// MaxPageSize is the hard ceiling for a page. Larger requests are clamped.
	MaxPageSize = 100
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection maps a caller supplied direction to Asc or Desc.
// Anything other than "desc" (any case) is ascending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// Request is a listing request as received from a caller.
type Request struct {
	PageNumber    int
	PageSize      int
	SortField     string
	SortDirection string
	Search        string
}

// Result is one page of projected items plus the filtered total.
type Result[P any] struct {
	Items      []P `json:"items"`
	TotalCount int `json:"totalCount"`
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

// normalize clamps the page number and size. max and def come from the
// executor options. The page number is capped so the row offset fits an int.
func (r Request) normalize(def, max int) Request {
	if r.PageNumber < 1 {
		r.PageNumber = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = def
	}
	if r.PageSize > max {
		r.PageSize = max
	}
	if r.PageNumber > math.MaxInt/r.PageSize {
		r.PageNumber = math.MaxInt / r.PageSize
	}
	r.Search = normalizeSearch(r.Search)
	return r
}

func normalizeSearch(s string) string {
	return strings.TrimSpace(s)
}
