package domain

import (
	"bytes"
	"cmp"
	"strings"

	"github.com/goliatone/go-protocol-registry/paging"
)

// Relations joined by the listing queries.
var (
	UserListingRelations     = []string{"Sector"}
	ProtocolListingRelations = []string{"CreatedBy", "OriginSector", "DestinationSector", "DestinationUser"}
)

func byText[T any](get func(T) string) func(a, b T) int {
	return func(a, b T) int { return strings.Compare(get(a), get(b)) }
}

func text[T any](column string, get func(T) string) paging.SearchField[T] {
	return paging.SearchField[T]{Column: column, Text: get}
}

// SectorListing searches name, acronym and phone; it sorts by creation by default.
func SectorListing() paging.Listing[*Sector, SectorRow] {
	name := func(s *Sector) string { return s.Name }
	acronym := func(s *Sector) string { return s.Acronym }
	phone := func(s *Sector) string { return s.Phone }

	return paging.Listing[*Sector, SectorRow]{
		Entity: TagSector,
		Search: []paging.SearchField[*Sector]{
			text("s.name", name),
			text("s.acronym", acronym),
			text("s.phone", phone),
		},
		Sort: []paging.SortField[*Sector]{
			{Name: "name", Column: "s.name", Compare: byText(name)},
			{Name: "acronym", Column: "s.acronym", Compare: byText(acronym)},
			{Name: "phone", Column: "s.phone", Compare: byText(phone)},
			{Name: "createdAt", Column: "s.created_at", Compare: func(a, b *Sector) int { return a.CreatedAt.Compare(b.CreatedAt) }},
		},
		DefaultSort: "createdAt",
		TieBreak:    paging.SortField[*Sector]{Name: "id", Column: "s.id", Compare: func(a, b *Sector) int { return bytes.Compare(a.ID[:], b.ID[:]) }},
		Project:     SectorRowOf,
	}
}

// UserListing searches name, login and email; it sorts by name by default.
func UserListing() paging.Listing[*User, UserRow] {
	name := func(u *User) string { return u.Name }
	login := func(u *User) string { return u.Login }
	email := func(u *User) string { return u.Email }
	sector := func(u *User) string {
		if u.Sector == nil {
			return ""
		}
		return u.Sector.Name
	}

	return paging.Listing[*User, UserRow]{
		Entity: TagUser,
		Search: []paging.SearchField[*User]{
			text("u.name", name),
			text("u.login", login),
			text("u.email", email),
		},
		Sort: []paging.SortField[*User]{
			{Name: "name", Column: "u.name", Compare: byText(name)},
			{Name: "login", Column: "u.login", Compare: byText(login)},
			{Name: "email", Column: "u.email", Compare: byText(email)},
			{Name: "masp", Column: "u.masp", Compare: func(a, b *User) int { return cmp.Compare(a.Masp, b.Masp) }},
			{Name: "role", Column: "u.role", Compare: byText(func(u *User) string { return string(u.Role) })},
			{Name: "sector", Column: "sector.name", Compare: byText(sector)},
			{Name: "createdAt", Column: "u.created_at", Compare: func(a, b *User) int { return a.CreatedAt.Compare(b.CreatedAt) }},
		},
		DefaultSort: "name",
		TieBreak:    paging.SortField[*User]{Name: "id", Column: "u.id", Compare: func(a, b *User) int { return bytes.Compare(a.ID[:], b.ID[:]) }},
		Project:     UserRowOf,
	}
}

// ProtocolListing searches the number, the subject, the creator, both
// sector acronyms and the destination user. It sorts by workflow rank by default.
func ProtocolListing() paging.Listing[*Protocol, ProtocolRow] {
	number := func(p *Protocol) string { return p.Number }
	subject := func(p *Protocol) string { return p.Subject }
	createdBy := func(p *Protocol) string { return ProtocolRowOf(p).CreatedByName }
	origin := func(p *Protocol) string { return ProtocolRowOf(p).OriginSectorAcronym }
	destination := func(p *Protocol) string { return ProtocolRowOf(p).DestinationSectorAcronym }
	destinationUser := func(p *Protocol) string { return ProtocolRowOf(p).DestinationUserName }

	return paging.Listing[*Protocol, ProtocolRow]{
		Entity: TagProtocol,
		Search: []paging.SearchField[*Protocol]{
			text("p.number", number),
			text("p.subject", subject),
			text("created_by.name", createdBy),
			text("origin_sector.acronym", origin),
			text("destination_user.name", destinationUser),
			text("destination_sector.acronym", destination),
		},
		Sort: []paging.SortField[*Protocol]{
			{Name: "status", Column: StatusRankSQL("p.status"), Compare: func(a, b *Protocol) int { return cmp.Compare(a.Status.Rank(), b.Status.Rank()) }},
			{Name: "number", Column: "p.number", Compare: func(a, b *Protocol) int { return strings.Compare(a.Number, b.Number) }},
			{Name: "subject", Column: "p.subject", Compare: byText(subject)},
			{Name: "createdAt", Column: "p.created_at", Compare: func(a, b *Protocol) int { return a.CreatedAt.Compare(b.CreatedAt) }},
			{Name: "createdBy", Column: "created_by.name", Compare: byText(createdBy)},
			{Name: "originSector", Column: "origin_sector.acronym", Compare: byText(origin)},
			{Name: "destinationSector", Column: "destination_sector.acronym", Compare: byText(destination)},
			{Name: "destinationTo", Column: "destination_user.name", Compare: byText(destinationUser)},
		},
		DefaultSort: "status",
		TieBreak:    paging.SortField[*Protocol]{Name: "id", Column: "p.id", Compare: func(a, b *Protocol) int { return bytes.Compare(a.ID[:], b.ID[:]) }},
		Project:     ProtocolRowOf,
	}
}
