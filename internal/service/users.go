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

// PasswordHasher hashes plain passwords. *password.Hasher satisfies it.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// UserQueries are the user reads beyond plain CRUD.
type UserQueries interface {
	Existence
	CountUserProtocols(ctx context.Context, userID uuid.UUID) (int, error)
}

type Users struct {
	repo    repository.Repository[*domain.User]
	queries UserQueries
	listing *paging.Executor[*domain.User, domain.UserRow]
	hasher  PasswordHasher
	settings
}

func NewUsers(repo repository.Repository[*domain.User], queries UserQueries, listing *paging.Executor[*domain.User, domain.UserRow], hasher PasswordHasher, opts ...Option) *Users {
	return &Users{
		repo:     repo,
		queries:  queries,
		listing:  listing,
		hasher:   hasher,
		settings: newSettings(opts),
	}
}

// Create validates in, hashes the password and stores the user. Users are
// active unless in.Active says otherwise.
func (s *Users) Create(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	in.Normalize()
	if err := in.ValidateCreate(); err != nil {
		return nil, domain.Invalid("user", err)
	}
	if err := requireExists(ctx, domain.TagSector, in.SectorID, s.queries.SectorExists); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	user := &domain.User{
		ID:           uuid.New(),
		Masp:         in.Masp,
		Name:         in.Name,
		Login:        in.Login,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Active:       active,
		SectorID:     in.SectorID,
		CreatedAt:    s.now().UTC(),
		CreatedByID:  in.ActorID,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, storeError(domain.TagUser, user.ID, err)
	}
	s.log.Info("user created", cache.Fields{"id": created.ID, "login": created.Login})
	return created, nil
}

// Get returns the user with its sector.
func (s *Users) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.Get(ctx, store.ByID(id), store.WithRelations(domain.UserListingRelations...))
	if err != nil {
		return nil, storeError(domain.TagUser, id, err)
	}
	return user, nil
}

// Update changes the profile of a user. The password is left untouched.
func (s *Users) Update(ctx context.Context, id uuid.UUID, in domain.UserInput) (*domain.User, error) {
	in.Normalize()
	if err := in.ValidateUpdate(); err != nil {
		return nil, domain.Invalid("user", err)
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.SectorID != user.SectorID {
		if err := requireExists(ctx, domain.TagSector, in.SectorID, s.queries.SectorExists); err != nil {
			return nil, err
		}
	}

	user.Masp = in.Masp
	user.Name = in.Name
	user.Login = in.Login
	user.Email = in.Email
	user.Role = in.Role
	user.SectorID = in.SectorID
	if in.Active != nil {
		user.Active = *in.Active
	}
	return s.save(ctx, user, in.ActorID, "user updated")
}

// ChangePassword replaces the password of a user.
func (s *Users) ChangePassword(ctx context.Context, id uuid.UUID, in domain.PasswordChange) error {
	if err := in.Validate(); err != nil {
		return domain.Invalid("password", err)
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	_, err = s.save(ctx, user, nil, "user password changed")
	return err
}

// ChangeSector moves a user to another sector.
func (s *Users) ChangeSector(ctx context.Context, id, sectorID uuid.UUID) (*domain.User, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireExists(ctx, domain.TagSector, sectorID, s.queries.SectorExists); err != nil {
		return nil, err
	}
	user.SectorID = sectorID
	return s.save(ctx, user, nil, "user sector changed")
}

// Delete removes a user that is not referenced by any protocol.
func (s *Users) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	n, err := s.queries.CountUserProtocols(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrUserHasProtocols
	}

	if err := s.repo.Delete(ctx, user); err != nil {
		return storeError(domain.TagUser, id, err)
	}
	s.log.Info("user deleted", cache.Fields{"id": id})
	return nil
}

// Page lists users. Sort names: name, login, email, masp, role, sector, createdAt.
func (s *Users) Page(ctx context.Context, req paging.Request) (paging.Result[domain.UserRow], error) {
	return s.listing.Page(ctx, req)
}

// Count returns the number of users matching search.
func (s *Users) Count(ctx context.Context, search string) (int, error) {
	return s.listing.Count(ctx, search)
}

// load reads the bare row, without relations, for updates.
func (s *Users) load(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.Get(ctx, store.ByID(id))
	if err != nil {
		return nil, storeError(domain.TagUser, id, err)
	}
	return user, nil
}

func (s *Users) save(ctx context.Context, user *domain.User, actor *uuid.UUID, msg string) (*domain.User, error) {
	user.UpdatedAt = ptr(s.now().UTC())
	user.UpdatedByID = actor

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, storeError(domain.TagUser, user.ID, err)
	}
	s.log.Info(msg, cache.Fields{"id": user.ID})
	return updated, nil
}
