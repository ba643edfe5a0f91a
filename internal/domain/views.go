package domain

import (
	"time"

	"github.com/google/uuid"
)

// SectorRow is the listing projection of a Sector.
type SectorRow struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Acronym   string     `json:"acronym"`
	Phone     string     `json:"phone"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func SectorRowOf(s *Sector) SectorRow {
	return SectorRow{
		ID:        s.ID,
		Name:      s.Name,
		Acronym:   s.Acronym,
		Phone:     s.Phone,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// UserRow is the listing projection of a User.
type UserRow struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Login       string     `json:"login"`
	Masp        int        `json:"masp"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	Active      bool       `json:"active"`
	SectorName  string     `json:"sectorName,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func UserRowOf(u *User) UserRow {
	row := UserRow{
		ID:          u.ID,
		Name:        u.Name,
		Login:       u.Login,
		Masp:        u.Masp,
		Email:       u.Email,
		Role:        u.Role,
		Active:      u.Active,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.Sector != nil {
		row.SectorName = u.Sector.Name
	}
	return row
}

// ProtocolRow is the listing projection of a Protocol.
type ProtocolRow struct {
	ID                       uuid.UUID      `json:"id"`
	Number                   string         `json:"number"`
	Subject                  string         `json:"subject"`
	Description              string         `json:"description"`
	Status                   ProtocolStatus `json:"status"`
	Archived                 bool           `json:"archived"`
	CreatedAt                time.Time      `json:"createdAt"`
	UpdatedAt                *time.Time     `json:"updatedAt,omitempty"`
	CreatedByName            string         `json:"createdByName"`
	OriginSectorAcronym      string         `json:"originSectorAcronym"`
	DestinationSectorAcronym string         `json:"destinationSectorAcronym"`
	DestinationUserName      string         `json:"destinationUserName,omitempty"`
}

func ProtocolRowOf(p *Protocol) ProtocolRow {
	row := ProtocolRow{
		ID:          p.ID,
		Number:      p.Number,
		Subject:     p.Subject,
		Description: p.Description,
		Status:      p.Status,
		Archived:    p.Archived,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.CreatedBy != nil {
		row.CreatedByName = p.CreatedBy.Name
	}
	if p.OriginSector != nil {
		row.OriginSectorAcronym = p.OriginSector.Acronym
	}
	if p.DestinationSector != nil {
		row.DestinationSectorAcronym = p.DestinationSector.Acronym
	}
	if p.DestinationUser != nil {
		row.DestinationUserName = p.DestinationUser.Name
	}
	return row
}

// SectorOption is a sector with its users, used to fill selects.
type SectorOption struct {
	ID      uuid.UUID    `json:"id"`
	Name    string       `json:"name"`
	Acronym string       `json:"acronym"`
	Users   []UserOption `json:"users"`
}

type UserOption struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func SectorOptionOf(s *Sector) SectorOption {
	opt := SectorOption{ID: s.ID, Name: s.Name, Acronym: s.Acronym, Users: make([]UserOption, 0, len(s.Users))}
	for _, u := range s.Users {
		opt.Users = append(opt.Users, UserOption{ID: u.ID, Name: u.Name})
	}
	return opt
}
