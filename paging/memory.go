package paging

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// SliceSource is an in-memory Source. It filters with the search fields' Text
// accessors and orders with the sort fields' comparators.
type SliceSource[T any] struct {
	mu    sync.RWMutex
	items []T
}

var _ Source[struct{}] = (*SliceSource[struct{}])(nil)

// NewSliceSource creates a source over a copy of items.
func NewSliceSource[T any](items ...T) *SliceSource[T] {
	s := &SliceSource[T]{}
	s.Replace(items)
	return s
}

// Replace swaps the backing data.
func (s *SliceSource[T]) Replace(items []T) {
	cp := make([]T, len(items))
	copy(cp, items)

	s.mu.Lock()
	s.items = cp
	s.mu.Unlock()
}

// Append adds items at the end, after the existing storage order.
func (s *SliceSource[T]) Append(items ...T) {
	s.mu.Lock()
	s.items = append(s.items, items...)
	s.mu.Unlock()
}

func (s *SliceSource[T]) Count(ctx context.Context, q Query[T]) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	matched, err := s.filter(q)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (s *SliceSource[T]) Fetch(ctx context.Context, q Query[T]) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.Sort.Compare == nil {
		return nil, fmt.Errorf("paging: sort field %q has no comparator", q.Sort.Name)
	}
	if q.TieBreak.Compare == nil {
		return nil, fmt.Errorf("paging: tie break %q has no comparator", q.TieBreak.Name)
	}
	if q.Offset < 0 {
		return nil, fmt.Errorf("paging: negative offset %d", q.Offset)
	}

	matched, err := s.filter(q)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matched, func(i, j int) bool {
		c := q.Sort.Compare(matched[i], matched[j])
		if q.Desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return q.TieBreak.Compare(matched[i], matched[j]) < 0
	})

	if q.Offset >= len(matched) {
		return []T{}, nil
	}
	end := len(matched)
	if q.Limit > 0 && q.Offset+q.Limit < end {
		end = q.Offset + q.Limit
	}
	return matched[q.Offset:end], nil
}

// filter returns a fresh slice holding the rows matching q.Search.
func (s *SliceSource[T]) filter(q Query[T]) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term := strings.ToLower(strings.TrimSpace(q.Search))
	if term == "" {
		out := make([]T, len(s.items))
		copy(out, s.items)
		return out, nil
	}

	for _, f := range q.SearchFields {
		if f.Text == nil {
			return nil, fmt.Errorf("paging: search field %q has no accessor", f.Column)
		}
	}

	out := make([]T, 0, len(s.items))
	for _, item := range s.items {
		for _, f := range q.SearchFields {
			if strings.Contains(strings.ToLower(f.Text(item)), term) {
				out = append(out, item)
				break
			}
		}
	}
	return out, nil
}
