package store

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-protocol-registry/internal/domain"
)

type index struct {
	model   any
	name    string
	columns []string
}

var indexes = []index{
	{(*domain.User)(nil), "idx_users_sector_id", []string{"sector_id"}},
	{(*domain.Protocol)(nil), "idx_protocols_created_by_id", []string{"created_by_id"}},
	{(*domain.Protocol)(nil), "idx_protocols_destination_user_id", []string{"destination_user_id"}},
	{(*domain.Protocol)(nil), "idx_protocols_status", []string{"status"}},
}

// Migrate creates the tables and indexes when missing. The unique
// constraints, protocols.number among them, come from the model tags.
func Migrate(ctx context.Context, db bun.IDB) error {
	models := []any{
		(*domain.Sector)(nil),
		(*domain.User)(nil),
		(*domain.Protocol)(nil),
	}
	for _, m := range models {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}

	for _, idx := range indexes {
		if _, err := db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column(idx.columns...).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
