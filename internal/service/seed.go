package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	repository "github.com/goliatone/go-repository-bun"

	"github.com/goliatone/go-protocol-registry/cache"
	"github.com/goliatone/go-protocol-registry/internal/domain"
)

// SeedData is the content of a seed file.
type SeedData struct {
	Sectors   []SectorSeed   `json:"sectors"`
	Users     []UserSeed     `json:"users"`
	Protocols []ProtocolSeed `json:"protocols"`
}

type SectorSeed struct {
	Name      string     `json:"name"`
	Acronym   string     `json:"acronym"`
	Phone     string     `json:"phone"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// UserSeed carries either a plain Password, hashed while seeding, or an
// already encoded PasswordHash.
type UserSeed struct {
	Name         string     `json:"name"`
	Login        string     `json:"login"`
	Masp         int        `json:"masp"`
	Email        string     `json:"email"`
	Password     string     `json:"password,omitempty"`
	PasswordHash string     `json:"passwordHash,omitempty"`
	Role         string     `json:"role"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

type ProtocolSeed struct {
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Status      domain.ProtocolStatus `json:"status"`
	Archived    bool                  `json:"archived"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   *time.Time            `json:"updatedAt,omitempty"`
}

// SeedReport counts the rows a seed inserted.
type SeedReport struct {
	Sectors   int `json:"sectors"`
	Users     int `json:"users"`
	Protocols int `json:"protocols"`
}

// LoadSeed reads and decodes a seed file.
func LoadSeed(path string) (SeedData, error) {
	var data SeedData
	raw, err := os.ReadFile(path)
	if err != nil {
		return data, fmt.Errorf("read seed %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("decode seed %s: %w", path, err)
	}
	return data, nil
}

// NumberReserver hands out consecutive protocol numbers. *sequence.Allocator
// satisfies it.
type NumberReserver interface {
	Reserve(ctx context.Context, n int) ([]string, error)
}

// Seeder bulk loads sectors, users and protocols.
type Seeder struct {
	sectors   repository.Repository[*domain.Sector]
	users     repository.Repository[*domain.User]
	protocols repository.Repository[*domain.Protocol]
	numbers   NumberReserver
	hasher    PasswordHasher
	settings
}

func NewSeeder(
	sectors repository.Repository[*domain.Sector],
	users repository.Repository[*domain.User],
	protocols repository.Repository[*domain.Protocol],
	numbers NumberReserver,
	hasher PasswordHasher,
	opts ...Option,
) *Seeder {
	return &Seeder{
		sectors:   sectors,
		users:     users,
		protocols: protocols,
		numbers:   numbers,
		hasher:    hasher,
		settings:  newSettings(opts),
	}
}

// Seed inserts data. Users are spread over the seeded sectors in order and
// protocols over the seeded users and sectors, so the same file always
// produces the same assignment. Protocol numbers are reserved in one block.
func (s *Seeder) Seed(ctx context.Context, data SeedData) (SeedReport, error) {
	var report SeedReport

	if len(data.Users) > 0 && len(data.Sectors) == 0 {
		return report, domain.Invalid("seed", errors.New("users need at least one sector"))
	}
	if len(data.Protocols) > 0 && len(data.Users) == 0 {
		return report, domain.Invalid("seed", errors.New("protocols need at least one user"))
	}

	sectors, err := s.seedSectors(ctx, data.Sectors)
	if err != nil {
		return report, err
	}
	report.Sectors = len(sectors)

	users, err := s.seedUsers(ctx, data.Users, sectors)
	if err != nil {
		return report, err
	}
	report.Users = len(users)

	protocols, err := s.seedProtocols(ctx, data.Protocols, users, sectors)
	if err != nil {
		return report, err
	}
	report.Protocols = len(protocols)

	s.log.Info("seed imported", cache.Fields{
		"sectors":   report.Sectors,
		"users":     report.Users,
		"protocols": report.Protocols,
	})
	return report, nil
}

func (s *Seeder) seedSectors(ctx context.Context, seeds []SectorSeed) ([]*domain.Sector, error) {
	if len(seeds) == 0 {
		return nil, nil
	}
	records := make([]*domain.Sector, 0, len(seeds))
	for _, seed := range seeds {
		records = append(records, &domain.Sector{
			ID:        uuid.New(),
			Name:      strings.TrimSpace(seed.Name),
			Acronym:   strings.ToUpper(strings.TrimSpace(seed.Acronym)),
			Phone:     domain.DigitsOnly(seed.Phone),
			CreatedAt: s.createdAt(seed.CreatedAt),
			UpdatedAt: seed.UpdatedAt,
		})
	}
	if _, err := s.sectors.CreateMany(ctx, records); err != nil {
		return nil, storeError(domain.TagSector, uuid.Nil, err)
	}
	return records, nil
}

func (s *Seeder) seedUsers(ctx context.Context, seeds []UserSeed, sectors []*domain.Sector) ([]*domain.User, error) {
	if len(seeds) == 0 {
		return nil, nil
	}
	records := make([]*domain.User, 0, len(seeds))
	for i, seed := range seeds {
		hash := seed.PasswordHash
		if seed.Password != "" {
			var err error
			if hash, err = s.hasher.Hash(seed.Password); err != nil {
				return nil, err
			}
		}
		records = append(records, &domain.User{
			ID:           uuid.New(),
			Masp:         seed.Masp,
			Name:         strings.TrimSpace(seed.Name),
			Login:        strings.ToLower(strings.TrimSpace(seed.Login)),
			Email:        strings.ToLower(strings.TrimSpace(seed.Email)),
			PasswordHash: hash,
			Role:         domain.Role(strings.ToLower(strings.TrimSpace(seed.Role))),
			Active:       seed.Active,
			SectorID:     sectors[i%len(sectors)].ID,
			CreatedAt:    s.createdAt(seed.CreatedAt),
			LastLoginAt:  seed.LastLoginAt,
			UpdatedAt:    seed.UpdatedAt,
		})
	}
	if _, err := s.users.CreateMany(ctx, records); err != nil {
		return nil, storeError(domain.TagUser, uuid.Nil, err)
	}
	return records, nil
}

func (s *Seeder) seedProtocols(ctx context.Context, seeds []ProtocolSeed, users []*domain.User, sectors []*domain.Sector) ([]*domain.Protocol, error) {
	if len(seeds) == 0 {
		return nil, nil
	}
	numbers, err := s.numbers.Reserve(ctx, len(seeds))
	if err != nil {
		return nil, err
	}

	records := make([]*domain.Protocol, 0, len(seeds))
	for i, seed := range seeds {
		destination := users[(i+1)%len(users)].ID
		records = append(records, &domain.Protocol{
			ID:                  uuid.New(),
			Number:              numbers[i],
			Subject:             strings.TrimSpace(seed.Subject),
			Description:         strings.TrimSpace(seed.Description),
			Status:              seed.Status,
			Archived:            seed.Archived,
			CreatedAt:           s.createdAt(seed.CreatedAt),
			UpdatedAt:           seed.UpdatedAt,
			CreatedByID:         users[i%len(users)].ID,
			OriginSectorID:      sectors[i%len(sectors)].ID,
			DestinationSectorID: sectors[(i+1)%len(sectors)].ID,
			DestinationUserID:   &destination,
		})
	}
	if _, err := s.protocols.CreateMany(ctx, records); err != nil {
		return nil, storeError(domain.TagProtocol, uuid.Nil, err)
	}
	return records, nil
}

func (s *Seeder) createdAt(t time.Time) time.Time {
	if t.IsZero() {
		return s.now().UTC()
	}
	return t.UTC()
}
