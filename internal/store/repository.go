package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-protocol-registry/internal/domain"
)

// Repository is a go-repository-bun repository whose updates write every
// mutable column, zero values included, so that clearing a flag or an
// optional reference is persisted.
type Repository[T any] struct {
	repository.Repository[T]
	db        bun.IDB
	immutable []string
}

var _ repository.Repository[*domain.Sector] = (*Repository[*domain.Sector])(nil)

func newRepository[T any](db *bun.DB, handlers repository.ModelHandlers[T], immutable ...string) *Repository[T] {
	return &Repository[T]{
		Repository: repository.NewRepository[T](db, handlers),
		db:         db,
		immutable:  immutable,
	}
}

func (r *Repository[T]) Update(ctx context.Context, record T, criteria ...repository.UpdateCriteria) (T, error) {
	return r.UpdateTx(ctx, r.db, record, criteria...)
}

func (r *Repository[T]) UpdateTx(ctx context.Context, tx bun.IDB, record T, criteria ...repository.UpdateCriteria) (T, error) {
	q := tx.NewUpdate().Model(record).WherePK()
	if len(r.immutable) > 0 {
		q = q.ExcludeColumn(r.immutable...)
	}
	for _, c := range criteria {
		q = c(q)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var zero T
		return zero, sql.ErrNoRows
	}
	return record, nil
}

func NewSectorRepository(db *bun.DB) *Repository[*domain.Sector] {
	return newRepository(db, repository.ModelHandlers[*domain.Sector]{
		NewRecord: func() *domain.Sector { return &domain.Sector{} },
		GetID: func(s *domain.Sector) uuid.UUID {
			if s == nil {
				return uuid.Nil
			}
			return s.ID
		},
		SetID:         func(s *domain.Sector, id uuid.UUID) { s.ID = id },
		GetIdentifier: func() string { return "acronym" },
	}, "id", "created_at", "created_by_id")
}

func NewUserRepository(db *bun.DB) *Repository[*domain.User] {
	return newRepository(db, repository.ModelHandlers[*domain.User]{
		NewRecord: func() *domain.User { return &domain.User{} },
		GetID: func(u *domain.User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID:         func(u *domain.User, id uuid.UUID) { u.ID = id },
		GetIdentifier: func() string { return "login" },
	}, "id", "created_at", "created_by_id")
}

func NewProtocolRepository(db *bun.DB) *Repository[*domain.Protocol] {
	return newRepository(db, repository.ModelHandlers[*domain.Protocol]{
		NewRecord: func() *domain.Protocol { return &domain.Protocol{} },
		GetID: func(p *domain.Protocol) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID:         func(p *domain.Protocol, id uuid.UUID) { p.ID = id },
		GetIdentifier: func() string { return "number" },
	}, "id", "number", "created_at")
}

// ByID selects the row with id. The column is qualified with the model alias
// so it stays unambiguous when relations are joined.
func ByID(id uuid.UUID) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.id = ?", id)
	}
}

// WithRelations loads the named bun relations on a select.
func WithRelations(names ...string) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, name := range names {
			q = q.Relation(name)
		}
		return q
	}
}
