// Package service implements the sector, user and protocol use cases on top
// of the cached repositories and the listing executors.
//
// Writes go through repositorycache decorators, so the listing counts of the
// affected tags are invalidated once a write returns. Errors returned by the
// services are categorised go-errors values (see internal/domain) or the
// store error unchanged when it is a transient fault.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-protocol-registry/cache"
	"github.com/goliatone/go-protocol-registry/internal/domain"
	"github.com/goliatone/go-protocol-registry/internal/store"
)

// DefaultNumberAttempts bounds the protocol number allocations per create.
const DefaultNumberAttempts = 3

// Option configures a service.
type Option func(*settings)

type settings struct {
	log      cache.Logger
	now      func() time.Time
	attempts int
}

func newSettings(opts []Option) settings {
	s := settings{
		log:      cache.NopLogger{},
		now:      time.Now,
		attempts: DefaultNumberAttempts,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func WithLogger(logger cache.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithClock sets the clock used for created and updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithNumberAttempts sets how many protocol numbers are tried before a
// create gives up with a conflict. Values below 1 are ignored.
func WithNumberAttempts(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// Existence answers whether referenced rows exist. *store.Queries satisfies it.
type Existence interface {
	SectorExists(ctx context.Context, id uuid.UUID) (bool, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// storeError maps store failures to domain errors. Anything else is a
// transient fault and is returned unchanged.
func storeError(entity string, id uuid.UUID, err error) error {
	switch {
	case err == nil:
		return nil
	case store.IsNotFound(err):
		return domain.NotFound(entity, id)
	case store.IsUniqueViolation(err):
		return domain.Conflict(entity, err)
	}
	return err
}

func requireExists(ctx context.Context, entity string, id uuid.UUID, exists func(context.Context, uuid.UUID) (bool, error)) error {
	ok, err := exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound(entity, id)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
