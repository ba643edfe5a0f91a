// Package repositorycache provides a go-repository-bun decorator that keeps
// tag cached listing data coherent with writes.
//
// # Overview
//
// CachedRepository wraps a base repository.Repository[T] and is bound to an
// entity tag ("Sector", "User", "Protocol"). Every successful write made
// through it advances the epoch of that tag on an Invalidator, which is
// normally the *cache.TagCache holding listing counts. Entries computed before
// the write are treated as absent on their next read.
//
// # Basic Usage
//
//	counts, _ := cache.New[int](cache.Options{Provider: provider})
//	base := store.NewProtocolRepository(db)
//
//	protocols := repositorycache.New[*domain.Protocol](base, domain.TagProtocol, counts)
//
//	// Create returns only after the row is written; the Protocol tag is
//	// invalidated before Create returns.
//	p, err := protocols.Create(ctx, protocol)
//
// # Dependent tags
//
// Some listings search over columns joined from another entity. The protocol
// listing searches the origin sector acronym and the destination user name, so
// a sector rename changes protocol counts too. Such tags are declared once:
//
//	sectors := repositorycache.New[*domain.Sector](base, domain.TagSector, counts,
//		repositorycache.WithDependentTags(domain.TagUser, domain.TagProtocol))
//
// A single call can add more tags through the context with WithCacheTags.
//
// # Invalidating vs Pass-through Operations
//
// Invalidating (after the base call returns without error):
//   - Create, CreateMany, GetOrCreate
//   - Update, UpdateMany, Upsert, UpsertMany
//   - Delete, DeleteMany, DeleteWhere, ForceDelete
//
// Pass-through:
//   - Reads (Get, GetByID, GetByIdentifier, List, Count)
//   - Every *Tx method
//   - Raw SQL queries
//
// # Transaction Handling
//
// A write inside a transaction is not durable until the transaction commits,
// so the *Tx methods never invalidate. Call Invalidate after Commit returns:
//
//	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
//		_, err := protocols.UpdateTx(ctx, tx, p)
//		return err
//	})
//	if err == nil {
//		protocols.Invalidate(ctx)
//	}
//
// # Compatibility
//
// CachedRepository[T] implements repository.Repository[T], so it can replace
// the base repository wherever one is expected.
//
// # Error Handling
//
// Errors from the base repository are returned unchanged and a failed write
// leaves every tag untouched.
package repositorycache
