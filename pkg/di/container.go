package di

import (
	"context"
	"errors"
	"net/http"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-protocol-registry/cache"
	"github.com/goliatone/go-protocol-registry/internal/cacheinfra"
	"github.com/goliatone/go-protocol-registry/internal/config"
	"github.com/goliatone/go-protocol-registry/internal/domain"
	"github.com/goliatone/go-protocol-registry/internal/password"
	"github.com/goliatone/go-protocol-registry/internal/service"
	"github.com/goliatone/go-protocol-registry/internal/store"
	"github.com/goliatone/go-protocol-registry/internal/transport/web"
	"github.com/goliatone/go-protocol-registry/paging"
	"github.com/goliatone/go-protocol-registry/repositorycache"
	"github.com/goliatone/go-protocol-registry/sequence"
)

// dependentTags lists, per entity, the other listings a write can change:
// user listings sort by sector name and protocol searches match sector
// acronyms and user names.
var dependentTags = map[string][]string{
	domain.TagSector: {domain.TagUser, domain.TagProtocol},
	domain.TagUser:   {domain.TagProtocol},
}

// Replaced in tests.
var (
	newProvider = cacheinfra.NewProvider
	codecByName = cache.CodecByName
)

// Container wires the registry: the count cache shared by every listing,
// the cached repositories, the services and the HTTP handler.
type Container struct {
	config  config.Config
	log     cache.Logger
	db      *bun.DB
	ownsDB  bool
	counts  *cache.TagCache[int]
	keys    cache.KeySerializer
	queries *store.Queries
	numbers *sequence.Allocator
	hasher  *password.Hasher

	sectors   *service.Sectors
	users     *service.Users
	protocols *service.Protocols
	seeder    *service.Seeder
}

type Option func(*options)

type options struct {
	log    cache.Logger
	now    func() time.Time
	hasher *password.Hasher
}

func WithLogger(l cache.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithClock sets the clock of the services, the allocator and the cache.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithHasher replaces the default argon2id parameters.
func WithHasher(h *password.Hasher) Option {
	return func(o *options) {
		if h != nil {
			o.hasher = h
		}
	}
}

// Open connects to the configured database, migrates it and builds the
// container. Close releases the database.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := store.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	c, err := NewContainer(cfg, db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	c.ownsDB = true
	return c, nil
}

// NewContainer builds the container over an open, migrated database.
// The caller keeps ownership of db. The cache provider is closed again when
// a later step fails.
func NewContainer(cfg config.Config, db *bun.DB, opts ...Option) (_ *Container, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if db == nil {
		return nil, errors.New("di: database is required")
	}

	o := options{log: cache.NopLogger{}, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.hasher == nil {
		o.hasher = password.NewDefault()
	}

	provider, err := newProvider(cfg.CacheConfig())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, provider.Close(context.Background()))
		}
	}()

	codec, err := codecByName(cfg.CacheCodec)
	if err != nil {
		return nil, err
	}
	counts, err := cache.New[int](cache.Options{
		Provider:   provider,
		Codec:      codec,
		Logger:     o.log,
		DefaultTTL: cfg.CacheTTL,
		Now:        o.now,
	})
	if err != nil {
		return nil, err
	}

	c := &Container{
		config:  cfg,
		log:     o.log,
		db:      db,
		counts:  counts,
		keys:    cache.NewDefaultKeySerializer(),
		queries: store.NewQueries(db),
		hasher:  o.hasher,
	}
	c.numbers = sequence.NewAllocator(c.queries, sequence.WithClock(o.now))

	sectorRepo := NewCachedRepository[*domain.Sector](c, store.NewSectorRepository(db), domain.TagSector)
	userRepo := NewCachedRepository[*domain.User](c, store.NewUserRepository(db), domain.TagUser)
	protocolRepo := NewCachedRepository[*domain.Protocol](c, store.NewProtocolRepository(db), domain.TagProtocol)

	popts := cfg.PagingOptions(o.log)
	popts.Keys = c.keys

	sectorList, err := paging.NewExecutor(domain.SectorListing(), paging.Source[*domain.Sector](store.NewBunSource[domain.Sector](db)), counts, popts)
	if err != nil {
		return nil, err
	}
	userList, err := paging.NewExecutor(domain.UserListing(), paging.Source[*domain.User](store.NewBunSource[domain.User](db, domain.UserListingRelations...)), counts, popts)
	if err != nil {
		return nil, err
	}
	protocolList, err := paging.NewExecutor(domain.ProtocolListing(), paging.Source[*domain.Protocol](store.NewBunSource[domain.Protocol](db, domain.ProtocolListingRelations...)), counts, popts)
	if err != nil {
		return nil, err
	}

	sopts := []service.Option{
		service.WithLogger(o.log),
		service.WithClock(o.now),
		service.WithNumberAttempts(cfg.ProtocolNumberAttempts),
	}
	c.sectors = service.NewSectors(sectorRepo, c.queries, sectorList, sopts...)
	c.users = service.NewUsers(userRepo, c.queries, userList, c.hasher, sopts...)
	c.protocols = service.NewProtocols(protocolRepo, c.queries, c.numbers, protocolList, sopts...)
	c.seeder = service.NewSeeder(sectorRepo, userRepo, protocolRepo, c.numbers, c.hasher, sopts...)

	return c, nil
}

// NewCachedRepository wraps base so that its writes invalidate the counts
// of tag and of the listings depending on it.
//
// Since Go methods cannot have type parameters, this is provided as a package-level function.
func NewCachedRepository[T any](c *Container, base repository.Repository[T], tag string) *repositorycache.CachedRepository[T] {
	return repositorycache.New(base, tag, c.counts,
		repositorycache.WithDependentTags(dependentTags[tag]...),
		repositorycache.WithLogger(c.log),
	)
}

func (c *Container) Config() config.Config { return c.config }

func (c *Container) Logger() cache.Logger { return c.log }

func (c *Container) DB() *bun.DB { return c.db }

// Counts returns the count cache shared by the listings.
func (c *Container) Counts() *cache.TagCache[int] { return c.counts }

func (c *Container) KeySerializer() cache.KeySerializer { return c.keys }

func (c *Container) Sectors() *service.Sectors { return c.sectors }

func (c *Container) Users() *service.Users { return c.users }

func (c *Container) Protocols() *service.Protocols { return c.protocols }

func (c *Container) Seeder() *service.Seeder { return c.seeder }

// Handler returns the HTTP API.
func (c *Container) Handler() http.Handler {
	api := web.NewAPI(web.Deps{
		Sectors:   c.sectors,
		Users:     c.users,
		Protocols: c.protocols,
		Tags:      c.counts,
		DB:        c.db,
	}, c.log)
	return web.NewRouter(api, c.log)
}

// Close releases the count cache and, when Open created it, the database.
func (c *Container) Close(ctx context.Context) error {
	err := c.counts.Close(ctx)
	if c.ownsDB {
		err = errors.Join(err, c.db.Close())
	}
	return err
}
