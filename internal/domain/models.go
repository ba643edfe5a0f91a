package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Cache tags. They are also the count key prefixes of the listings.
const (
	TagSector   = "Sector"
	TagUser     = "User"
	TagProtocol = "Protocol"
)

// Tags lists every entity tag.
var Tags = []string{TagSector, TagUser, TagProtocol}

type Sector struct {
	bun.BaseModel `bun:"table:sectors,alias:s"`

	ID          uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	Name        string     `bun:"name,notnull,unique" json:"name"`
	Acronym     string     `bun:"acronym,notnull,unique" json:"acronym"`
	Phone       string     `bun:"phone,notnull,unique" json:"phone"`
	CreatedAt   time.Time  `bun:"created_at,notnull" json:"createdAt"`
	CreatedByID *uuid.UUID `bun:"created_by_id,type:uuid" json:"createdById,omitempty"`
	UpdatedAt   *time.Time `bun:"updated_at" json:"updatedAt,omitempty"`
	UpdatedByID *uuid.UUID `bun:"updated_by_id,type:uuid" json:"updatedById,omitempty"`

	Users []*User `bun:"rel:has-many,join:id=sector_id" json:"users,omitempty"`
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleOperator Role = "operator"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	Masp         int        `bun:"masp,notnull,unique" json:"masp"`
	Name         string     `bun:"name,notnull,unique" json:"name"`
	Login        string     `bun:"login,notnull,unique" json:"login"`
	Email        string     `bun:"email,notnull,unique" json:"email"`
	PasswordHash string     `bun:"password_hash,notnull" json:"-"`
	Role         Role       `bun:"role,notnull" json:"role"`
	Active       bool       `bun:"is_active,notnull" json:"active"`
	SectorID     uuid.UUID  `bun:"sector_id,type:uuid,notnull" json:"sectorId"`
	CreatedAt    time.Time  `bun:"created_at,notnull" json:"createdAt"`
	CreatedByID  *uuid.UUID `bun:"created_by_id,type:uuid" json:"createdById,omitempty"`
	LastLoginAt  *time.Time `bun:"last_login_at" json:"lastLoginAt,omitempty"`
	UpdatedAt    *time.Time `bun:"updated_at" json:"updatedAt,omitempty"`
	UpdatedByID  *uuid.UUID `bun:"updated_by_id,type:uuid" json:"updatedById,omitempty"`

	Sector *Sector `bun:"rel:belongs-to,join:sector_id=id" json:"sector,omitempty"`
}

type Protocol struct {
	bun.BaseModel `bun:"table:protocols,alias:p"`

	ID                  uuid.UUID      `bun:"id,pk,type:uuid" json:"id"`
	Number              string         `bun:"number,notnull,unique" json:"number"`
	Subject             string         `bun:"subject,notnull" json:"subject"`
	Description         string         `bun:"description,notnull" json:"description"`
	Status              ProtocolStatus `bun:"status,notnull" json:"status"`
	Archived            bool           `bun:"is_archived,notnull" json:"archived"`
	CreatedAt           time.Time      `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt           *time.Time     `bun:"updated_at" json:"updatedAt,omitempty"`
	CreatedByID         uuid.UUID      `bun:"created_by_id,type:uuid,notnull" json:"createdById"`
	UpdatedByID         *uuid.UUID     `bun:"updated_by_id,type:uuid" json:"updatedById,omitempty"`
	OriginSectorID      uuid.UUID      `bun:"origin_sector_id,type:uuid,notnull" json:"originSectorId"`
	DestinationSectorID uuid.UUID      `bun:"destination_sector_id,type:uuid,notnull" json:"destinationSectorId"`
	DestinationUserID   *uuid.UUID     `bun:"destination_user_id,type:uuid" json:"destinationUserId,omitempty"`

	CreatedBy         *User   `bun:"rel:belongs-to,join:created_by_id=id" json:"createdBy,omitempty"`
	UpdatedBy         *User   `bun:"rel:belongs-to,join:updated_by_id=id" json:"updatedBy,omitempty"`
	OriginSector      *Sector `bun:"rel:belongs-to,join:origin_sector_id=id" json:"originSector,omitempty"`
	DestinationSector *Sector `bun:"rel:belongs-to,join:destination_sector_id=id" json:"destinationSector,omitempty"`
	DestinationUser   *User   `bun:"rel:belongs-to,join:destination_user_id=id" json:"destinationUser,omitempty"`
}
