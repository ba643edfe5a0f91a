package paging

import (
	"fmt"
	"strings"
)

// SearchField is a field matched by the free-text search.
// Column is used by SQL sources, Text by in-memory sources.
type SearchField[T any] struct {
	Column string
	Text   func(T) string
}

// SortField is an allow-listed sort key. Column is an SQL column or
// expression; Compare orders two values for in-memory sources and returns a
// negative number, zero or a positive number.
type SortField[T any] struct {
	Name    string
	Column  string
	Compare func(a, b T) int
}

// Listing describes how one entity type is searched, sorted and projected.
type Listing[T, P any] struct {
	// Entity is the cache tag and the count key prefix.
	Entity string

	Search []SearchField[T]
	Sort   []SortField[T]

	// DefaultSort names the entry of Sort used when the request does not
	// name a known field.
	DefaultSort string

	// TieBreak is always appended, ascending, so that pages are deterministic.
	TieBreak SortField[T]

	Project func(T) P
}

func (l Listing[T, P]) validate() error {
	if strings.TrimSpace(l.Entity) == "" {
		return fmt.Errorf("paging: listing entity is required")
	}
	if l.Project == nil {
		return fmt.Errorf("paging: %s listing has no projection", l.Entity)
	}
	if l.TieBreak.Name == "" || (l.TieBreak.Column == "" && l.TieBreak.Compare == nil) {
		return fmt.Errorf("paging: %s listing has no tie break", l.Entity)
	}

	seen := make(map[string]struct{}, len(l.Sort))
	for _, f := range l.Sort {
		key := strings.ToLower(f.Name)
		if key == "" {
			return fmt.Errorf("paging: %s listing has an unnamed sort field", l.Entity)
		}
		if f.Column == "" && f.Compare == nil {
			return fmt.Errorf("paging: %s sort field %q has neither column nor comparator", l.Entity, f.Name)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("paging: %s sort field %q is declared twice", l.Entity, f.Name)
		}
		seen[key] = struct{}{}
	}
	if _, ok := seen[strings.ToLower(l.DefaultSort)]; !ok {
		return fmt.Errorf("paging: %s default sort %q is not a sort field", l.Entity, l.DefaultSort)
	}

	for i, f := range l.Search {
		if f.Column == "" && f.Text == nil {
			return fmt.Errorf("paging: %s search field %d has neither column nor accessor", l.Entity, i)
		}
	}
	return nil
}

// sortField resolves name against the allow-list, falling back to the default.
func (l Listing[T, P]) sortField(name string) SortField[T] {
	var def SortField[T]
	for _, f := range l.Sort {
		if strings.EqualFold(f.Name, name) {
			return f
		}
		if strings.EqualFold(f.Name, l.DefaultSort) {
			def = f
		}
	}
	return def
}
