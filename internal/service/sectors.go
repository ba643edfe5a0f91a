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

// SectorQueries are the sector reads beyond plain CRUD.
type SectorQueries interface {
	CountSectorUsers(ctx context.Context, sectorID uuid.UUID) (int, error)
	CountSectorProtocols(ctx context.Context, sectorID uuid.UUID) (int, error)
	SectorsWithUsers(ctx context.Context) ([]*domain.Sector, error)
}

type Sectors struct {
	repo    repository.Repository[*domain.Sector]
	queries SectorQueries
	listing *paging.Executor[*domain.Sector, domain.SectorRow]
	settings
}

func NewSectors(repo repository.Repository[*domain.Sector], queries SectorQueries, listing *paging.Executor[*domain.Sector, domain.SectorRow], opts ...Option) *Sectors {
	return &Sectors{
		repo:     repo,
		queries:  queries,
		listing:  listing,
		settings: newSettings(opts),
	}
}

// Create validates in and stores a new sector with a digits only phone.
func (s *Sectors) Create(ctx context.Context, in domain.SectorInput) (*domain.Sector, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, domain.Invalid("sector", err)
	}

	sector := &domain.Sector{
		ID:          uuid.New(),
		Name:        in.Name,
		Acronym:     in.Acronym,
		Phone:       domain.DigitsOnly(in.Phone),
		CreatedAt:   s.now().UTC(),
		CreatedByID: in.ActorID,
	}

	created, err := s.repo.Create(ctx, sector)
	if err != nil {
		return nil, storeError(domain.TagSector, sector.ID, err)
	}
	s.log.Info("sector created", cache.Fields{"id": created.ID, "acronym": created.Acronym})
	return created, nil
}

func (s *Sectors) Get(ctx context.Context, id uuid.UUID) (*domain.Sector, error) {
	sector, err := s.repo.Get(ctx, store.ByID(id))
	if err != nil {
		return nil, storeError(domain.TagSector, id, err)
	}
	return sector, nil
}

func (s *Sectors) Update(ctx context.Context, id uuid.UUID, in domain.SectorInput) (*domain.Sector, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, domain.Invalid("sector", err)
	}

	sector, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sector.Name = in.Name
	sector.Acronym = in.Acronym
	sector.Phone = domain.DigitsOnly(in.Phone)
	sector.UpdatedAt = ptr(s.now().UTC())
	sector.UpdatedByID = in.ActorID

	updated, err := s.repo.Update(ctx, sector)
	if err != nil {
		return nil, storeError(domain.TagSector, id, err)
	}
	s.log.Info("sector updated", cache.Fields{"id": id})
	return updated, nil
}

// Delete removes a sector that has no users and no protocols coming from or
// addressed to it.
func (s *Sectors) Delete(ctx context.Context, id uuid.UUID) error {
	sector, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	n, err := s.queries.CountSectorUsers(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrSectorHasUsers
	}

	n, err = s.queries.CountSectorProtocols(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrSectorHasProtocols
	}

	if err := s.repo.Delete(ctx, sector); err != nil {
		return storeError(domain.TagSector, id, err)
	}
	s.log.Info("sector deleted", cache.Fields{"id": id})
	return nil
}

// Page lists sectors. Sort names: name, acronym, phone, createdAt.
func (s *Sectors) Page(ctx context.Context, req paging.Request) (paging.Result[domain.SectorRow], error) {
	return s.listing.Page(ctx, req)
}

// Count returns the number of sectors matching search.
func (s *Sectors) Count(ctx context.Context, search string) (int, error) {
	return s.listing.Count(ctx, search)
}

// All lists every sector with its users, for select inputs.
func (s *Sectors) All(ctx context.Context) ([]domain.SectorOption, error) {
	sectors, err := s.queries.SectorsWithUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SectorOption, 0, len(sectors))
	for _, sector := range sectors {
		out = append(out, domain.SectorOptionOf(sector))
	}
	return out, nil
}
