package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-protocol-registry/cache"
	"github.com/goliatone/go-protocol-registry/internal/cacheinfra"
	"github.com/goliatone/go-protocol-registry/internal/domain"
	"github.com/goliatone/go-protocol-registry/internal/password"
	"github.com/goliatone/go-protocol-registry/internal/service"
	"github.com/goliatone/go-protocol-registry/internal/store"
	"github.com/goliatone/go-protocol-registry/paging"
	"github.com/goliatone/go-protocol-registry/pkg/testsupport"
	"github.com/goliatone/go-protocol-registry/repositorycache"
	"github.com/goliatone/go-protocol-registry/sequence"
)

var (
	baseTime   = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	fastParams = &argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
)

const strongPassword = "S3cret!pass"

type env struct {
	db        *bun.DB
	clock     *testsupport.Clock
	counts    *cache.TagCache[int]
	hasher    *password.Hasher
	queries   *store.Queries
	numbers   *sequence.Allocator
	sectors   *service.Sectors
	users     *service.Users
	protocols *service.Protocols
	seeder    *service.Seeder
}

type envOption func(*envConfig)

type envConfig struct {
	numbers  service.NumberAllocator
	attempts int
}

func withNumbers(n service.NumberAllocator) envOption {
	return func(c *envConfig) { c.numbers = n }
}

func withAttempts(n int) envOption {
	return func(c *envConfig) { c.attempts = n }
}

func newEnv(t *testing.T, opts ...envOption) *env {
	t.Helper()

	db := testsupport.OpenDB(t)
	clock := testsupport.NewClock(baseTime)

	provider, err := cacheinfra.NewProvider(cacheinfra.DefaultConfig())
	if err != nil {
		t.Fatalf("provider: %v", err)
	}
	counts, err := cache.New[int](cache.Options{Provider: provider, Now: clock.Now})
	if err != nil {
		t.Fatalf("cache: %v", err)
	}

	queries := store.NewQueries(db)
	numbers := sequence.NewAllocator(queries, sequence.WithClock(clock.Now))
	cfg := envConfig{numbers: numbers}
	for _, opt := range opts {
		opt(&cfg)
	}

	sectorRepo := repositorycache.New[*domain.Sector](store.NewSectorRepository(db), domain.TagSector, counts,
		repositorycache.WithDependentTags(domain.TagUser, domain.TagProtocol))
	userRepo := repositorycache.New[*domain.User](store.NewUserRepository(db), domain.TagUser, counts,
		repositorycache.WithDependentTags(domain.TagProtocol))
	protocolRepo := repositorycache.New[*domain.Protocol](store.NewProtocolRepository(db), domain.TagProtocol, counts)

	sectorList := mustExecutor(t, domain.SectorListing(), paging.Source[*domain.Sector](store.NewBunSource[domain.Sector](db)), counts)
	userList := mustExecutor(t, domain.UserListing(), paging.Source[*domain.User](store.NewBunSource[domain.User](db, domain.UserListingRelations...)), counts)
	protocolList := mustExecutor(t, domain.ProtocolListing(), paging.Source[*domain.Protocol](store.NewBunSource[domain.Protocol](db, domain.ProtocolListingRelations...)), counts)

	hasher := password.New(fastParams)
	svcOpts := []service.Option{service.WithClock(clock.Now)}

	return &env{
		db:        db,
		clock:     clock,
		counts:    counts,
		hasher:    hasher,
		queries:   queries,
		numbers:   numbers,
		sectors:   service.NewSectors(sectorRepo, queries, sectorList, svcOpts...),
		users:     service.NewUsers(userRepo, queries, userList, hasher, svcOpts...),
		protocols: service.NewProtocols(protocolRepo, queries, cfg.numbers, protocolList, append(svcOpts, service.WithNumberAttempts(cfg.attempts))...),
		seeder:    service.NewSeeder(sectorRepo, userRepo, protocolRepo, numbers, hasher, svcOpts...),
	}
}

func mustExecutor[T, P any](t *testing.T, listing paging.Listing[T, P], src paging.Source[T], counts *cache.TagCache[int]) *paging.Executor[T, P] {
	t.Helper()
	e, err := paging.NewExecutor(listing, src, counts, paging.Options{})
	if err != nil {
		t.Fatalf("executor %T: %v", listing, err)
	}
	return e
}

func (e *env) sector(t *testing.T, name, acronym, phone string) *domain.Sector {
	t.Helper()
	s, err := e.sectors.Create(context.Background(), domain.SectorInput{Name: name, Acronym: acronym, Phone: phone})
	if err != nil {
		t.Fatalf("create sector %s: %v", acronym, err)
	}
	return s
}

func (e *env) user(t *testing.T, masp int, name, login string, sector *domain.Sector) *domain.User {
	t.Helper()
	u, err := e.users.Create(context.Background(), domain.UserInput{
		Masp:     masp,
		Name:     name,
		Login:    login,
		Email:    login + "@example.org",
		Password: strongPassword,
		Role:     domain.RoleOperator,
		SectorID: sector.ID,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", login, err)
	}
	return u
}

func (e *env) protocol(t *testing.T, subject string, status domain.ProtocolStatus, by *domain.User, from, to *domain.Sector) *domain.Protocol {
	t.Helper()
	p, err := e.protocols.Create(context.Background(), protocolInput(subject, status, by, from, to))
	if err != nil {
		t.Fatalf("create protocol %s: %v", subject, err)
	}
	return p
}

func protocolInput(subject string, status domain.ProtocolStatus, by *domain.User, from, to *domain.Sector) domain.ProtocolInput {
	return domain.ProtocolInput{
		Subject:             subject,
		Description:         subject + " details",
		Status:              status,
		CreatedByID:         by.ID,
		OriginSectorID:      from.ID,
		DestinationSectorID: to.ID,
	}
}
