package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-protocol-registry/paging"
)

// BunSource is a paging.Source reading M rows through bun. Search and sort
// fields must carry SQL column expressions; they come from the listing
// allow-list and are inlined unquoted.
type BunSource[M any] struct {
	db        bun.IDB
	relations []string
}

var _ paging.Source[*struct{}] = (*BunSource[struct{}])(nil)

// NewBunSource creates a source for model M joined with relations.
func NewBunSource[M any](db bun.IDB, relations ...string) *BunSource[M] {
	return &BunSource[M]{db: db, relations: relations}
}

func (s *BunSource[M]) Count(ctx context.Context, q paging.Query[*M]) (int, error) {
	return s.db.NewSelect().
		Model((*M)(nil)).
		Apply(s.joins).
		Apply(s.filter(q)).
		Count(ctx)
}

func (s *BunSource[M]) Fetch(ctx context.Context, q paging.Query[*M]) ([]*M, error) {
	if q.Offset < 0 {
		return nil, fmt.Errorf("store: negative offset %d", q.Offset)
	}
	rows := make([]*M, 0, q.Limit)

	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}

	sel := s.db.NewSelect().
		Model(&rows).
		Apply(s.joins).
		Apply(s.filter(q)).
		OrderExpr("? "+dir, bun.Safe(q.Sort.Column)).
		OrderExpr("? ASC", bun.Safe(q.TieBreak.Column)).
		Offset(q.Offset)
	if q.Limit > 0 {
		sel = sel.Limit(q.Limit)
	}

	if err := sel.Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *BunSource[M]) joins(q *bun.SelectQuery) *bun.SelectQuery {
	for _, rel := range s.relations {
		q = q.Relation(rel)
	}
	return q
}

func (s *BunSource[M]) filter(q paging.Query[*M]) func(*bun.SelectQuery) *bun.SelectQuery {
	return func(sel *bun.SelectQuery) *bun.SelectQuery {
		term := strings.TrimSpace(q.Search)
		if term == "" || len(q.SearchFields) == 0 {
			return sel
		}

		pattern := "%" + EscapeLike(strings.ToLower(term)) + "%"
		return sel.WhereGroup(" AND ", func(g *bun.SelectQuery) *bun.SelectQuery {
			for _, f := range q.SearchFields {
				g = g.WhereOr("LOWER(?) LIKE ? ESCAPE '!'", bun.Safe(f.Column), pattern)
			}
			return g
		})
	}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// EscapeLike escapes the LIKE wildcards of s using '!' as escape character.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
