package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-protocol-registry/internal/domain"
)

// Queries holds the read queries the services need beyond plain CRUD.
type Queries struct {
	db bun.IDB
}

func NewQueries(db bun.IDB) *Queries {
	return &Queries{db: db}
}

// LastNumber returns the greatest protocol number starting with prefix.
// Longer numbers sort first so a sequence past 99999 still wins.
func (q *Queries) LastNumber(ctx context.Context, prefix string) (string, bool, error) {
	var number string
	err := q.db.NewSelect().
		Model((*domain.Protocol)(nil)).
		Column("p.number").
		Where("p.number LIKE ? ESCAPE '!'", EscapeLike(prefix)+"%").
		OrderExpr("LENGTH(p.number) DESC, p.number DESC").
		Limit(1).
		Scan(ctx, &number)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return number, true, nil
}

// SectorExists reports whether a sector with id exists.
func (q *Queries) SectorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return q.exists(ctx, (*domain.Sector)(nil), id)
}

// UserExists reports whether a user with id exists.
func (q *Queries) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return q.exists(ctx, (*domain.User)(nil), id)
}

func (q *Queries) exists(ctx context.Context, model any, id uuid.UUID) (bool, error) {
	return q.db.NewSelect().
		Model(model).
		Where("?TableAlias.id = ?", id).
		Exists(ctx)
}

// CountSectorUsers counts the users assigned to sectorID.
func (q *Queries) CountSectorUsers(ctx context.Context, sectorID uuid.UUID) (int, error) {
	return q.db.NewSelect().
		Model((*domain.User)(nil)).
		Where("u.sector_id = ?", sectorID).
		Count(ctx)
}

// CountSectorProtocols counts the protocols coming from or addressed to sectorID.
func (q *Queries) CountSectorProtocols(ctx context.Context, sectorID uuid.UUID) (int, error) {
	return q.db.NewSelect().
		Model((*domain.Protocol)(nil)).
		WhereGroup(" AND ", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.
				WhereOr("p.origin_sector_id = ?", sectorID).
				WhereOr("p.destination_sector_id = ?", sectorID)
		}).
		Count(ctx)
}

// CountUserProtocols counts the protocols a user created, updated or receives.
func (q *Queries) CountUserProtocols(ctx context.Context, userID uuid.UUID) (int, error) {
	return q.db.NewSelect().
		Model((*domain.Protocol)(nil)).
		WhereGroup(" AND ", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.
				WhereOr("p.created_by_id = ?", userID).
				WhereOr("p.updated_by_id = ?", userID).
				WhereOr("p.destination_user_id = ?", userID)
		}).
		Count(ctx)
}

// SectorsWithUsers lists every sector by name with its users by name.
func (q *Queries) SectorsWithUsers(ctx context.Context) ([]*domain.Sector, error) {
	var sectors []*domain.Sector
	err := q.db.NewSelect().
		Model(&sectors).
		Relation("Users", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("u.name ASC")
		}).
		Order("s.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return sectors, nil
}
