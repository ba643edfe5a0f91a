// Package paging implements the listing engine shared by every entity
// collection: free-text search over a fixed set of fields, sorting through an
// allow-list of named sort keys and offset/limit pagination.
//
// A Listing describes one entity type once:
//
//	listing := paging.Listing[domain.Sector, SectorRow]{
//		Entity: "Sector",
//		Search: []paging.SearchField[domain.Sector]{
//			{Column: "s.name", Text: func(s domain.Sector) string { return s.Name }},
//		},
//		Sort: []paging.SortField[domain.Sector]{
//			{Name: "name", Column: "s.name", Compare: byName},
//		},
//		DefaultSort: "name",
//		TieBreak:    paging.SortField[domain.Sector]{Name: "id", Column: "s.id", Compare: byID},
//		Project:     toRow,
//	}
//
// The Executor validates the listing once at construction. Sort names are
// matched case-insensitively and never resolved by reflection; an unknown
// name falls back to the default sort.
//
// The filtered total is cached in a cache.TagCache under
// "{Entity}Count_Search_{term}" and tagged with the entity, so writers only
// need to invalidate the entity tag after a successful mutation. The count
// and the page rows are two separate reads and may come from different
// snapshots; the window is bounded by the count TTL and by invalidation.
package paging
