package paging

import "context"

// Query is what an executor asks a Source for. Count ignores Sort, Offset
// and Limit.
type Query[T any] struct {
	// Search is trimmed; empty means no filter.
	Search       string
	SearchFields []SearchField[T]

	Sort     SortField[T]
	Desc     bool
	TieBreak SortField[T]

	Offset int
	Limit  int
}

// Source is the backing store of a listing.
type Source[T any] interface {
	Count(ctx context.Context, q Query[T]) (int, error)
	Fetch(ctx context.Context, q Query[T]) ([]T, error)
}
