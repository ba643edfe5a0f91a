package service

import (
	"context"

	"github.com/google/uuid"
	repository "github.com/goliatone/go-repository-bun"

	"github.com/goliatone/go-protocol-registry/cache"
	"github.com/goliatone/go-protocol-registry/internal/domain"
	"github.com/goliatone/go-protocol-registry/internal/store"
	"github.com/goliatone/go-protocol-registry/paging"
)

// NumberAllocator hands out protocol numbers. *sequence.Allocator satisfies it.
type NumberAllocator interface {
	Next(ctx context.Context) (string, error)
}

var protocolRelations = []string{"CreatedBy", "UpdatedBy", "OriginSector", "DestinationSector", "DestinationUser"}

type Protocols struct {
	repo    repository.Repository[*domain.Protocol]
	refs    Existence
	numbers NumberAllocator
	listing *paging.Executor[*domain.Protocol, domain.ProtocolRow]
	settings
}

func NewProtocols(repo repository.Repository[*domain.Protocol], refs Existence, numbers NumberAllocator, listing *paging.Executor[*domain.Protocol, domain.ProtocolRow], opts ...Option) *Protocols {
	return &Protocols{
		repo:     repo,
		refs:     refs,
		numbers:  numbers,
		listing:  listing,
		settings: newSettings(opts),
	}
}

// Create stores a new protocol under a freshly allocated number. The
// allocator takes no locks, so when the insert hits the unique index on
// number another number is allocated, up to the configured attempts. After
// that the last collision is returned as a PROTOCOL_NUMBER_CONFLICT.
func (s *Protocols) Create(ctx context.Context, in domain.ProtocolInput) (*domain.Protocol, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, domain.Invalid("protocol", err)
	}
	if err := s.checkReferences(ctx, in); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		number, err := s.numbers.Next(ctx)
		if err != nil {
			return nil, err
		}

		p := &domain.Protocol{
			ID:                  uuid.New(),
			Number:              number,
			Subject:             in.Subject,
			Description:         in.Description,
			Status:              in.Status,
			Archived:            in.Archived,
			CreatedAt:           s.now().UTC(),
			CreatedByID:         in.CreatedByID,
			OriginSectorID:      in.OriginSectorID,
			DestinationSectorID: in.DestinationSectorID,
			DestinationUserID:   in.DestinationUserID,
		}

		created, err := s.repo.Create(ctx, p)
		if err == nil {
			s.log.Info("protocol created", cache.Fields{"id": created.ID, "number": created.Number, "attempt": attempt})
			return created, nil
		}
		if !store.IsUniqueViolation(err) {
			return nil, err
		}

		lastErr = err
		s.log.Warn("protocol number taken", cache.Fields{"number": number, "attempt": attempt})
	}

	return nil, domain.NumberConflict(s.attempts, lastErr)
}

// Get returns the protocol with its users and sectors.
func (s *Protocols) Get(ctx context.Context, id uuid.UUID) (*domain.Protocol, error) {
	p, err := s.repo.Get(ctx, store.ByID(id), store.WithRelations(protocolRelations...))
	if err != nil {
		return nil, storeError(domain.TagProtocol, id, err)
	}
	return p, nil
}

// Update replaces the mutable fields of a protocol. The number never changes.
func (s *Protocols) Update(ctx context.Context, id uuid.UUID, in domain.ProtocolInput) (*domain.Protocol, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, domain.Invalid("protocol", err)
	}

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, in); err != nil {
		return nil, err
	}

	p.Subject = in.Subject
	p.Description = in.Description
	p.Status = in.Status
	p.Archived = in.Archived
	p.CreatedByID = in.CreatedByID
	p.OriginSectorID = in.OriginSectorID
	p.DestinationSectorID = in.DestinationSectorID
	p.DestinationUserID = in.DestinationUserID
	p.UpdatedByID = in.UpdatedByID
	p.UpdatedAt = ptr(s.now().UTC())

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, storeError(domain.TagProtocol, id, err)
	}
	s.log.Info("protocol updated", cache.Fields{"id": id, "status": updated.Status.String()})
	return updated, nil
}

// Delete removes a protocol unless it is archived.
func (s *Protocols) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if p.Archived {
		return domain.ErrProtocolArchived
	}

	if err := s.repo.Delete(ctx, p); err != nil {
		return storeError(domain.TagProtocol, id, err)
	}
	s.log.Info("protocol deleted", cache.Fields{"id": id, "number": p.Number})
	return nil
}

// Page lists protocols, by status rank unless another sort is requested.
func (s *Protocols) Page(ctx context.Context, req paging.Request) (paging.Result[domain.ProtocolRow], error) {
	return s.listing.Page(ctx, req)
}

// Count returns the number of protocols matching search.
func (s *Protocols) Count(ctx context.Context, search string) (int, error) {
	return s.listing.Count(ctx, search)
}

func (s *Protocols) load(ctx context.Context, id uuid.UUID) (*domain.Protocol, error) {
	p, err := s.repo.Get(ctx, store.ByID(id))
	if err != nil {
		return nil, storeError(domain.TagProtocol, id, err)
	}
	return p, nil
}

func (s *Protocols) checkReferences(ctx context.Context, in domain.ProtocolInput) error {
	if err := requireExists(ctx, domain.TagUser, in.CreatedByID, s.refs.UserExists); err != nil {
		return err
	}
	if in.UpdatedByID != nil {
		if err := requireExists(ctx, domain.TagUser, *in.UpdatedByID, s.refs.UserExists); err != nil {
			return err
		}
	}
	if in.DestinationUserID != nil {
		if err := requireExists(ctx, domain.TagUser, *in.DestinationUserID, s.refs.UserExists); err != nil {
			return err
		}
	}
	if err := requireExists(ctx, domain.TagSector, in.OriginSectorID, s.refs.SectorExists); err != nil {
		return err
	}
	return requireExists(ctx, domain.TagSector, in.DestinationSectorID, s.refs.SectorExists)
}
