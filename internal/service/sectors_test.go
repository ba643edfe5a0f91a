package service_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-protocol-registry/internal/domain"
	"github.com/goliatone/go-protocol-registry/paging"
)

func TestSectors_CreateNormalizes(t *testing.T) {
	e := newEnv(t)

	s := e.sector(t, "  Finance  ", " fin ", "(31) 3333-4444")

	if s.Name != "Finance" {
		t.Errorf("Name = %q, want Finance", s.Name)
	}
	if s.Acronym != "FIN" {
		t.Errorf("Acronym = %q, want FIN", s.Acronym)
	}
	if s.Phone != "3133334444" {
		t.Errorf("Phone = %q, want digits only", s.Phone)
	}
	if !s.CreatedAt.Equal(baseTime) {
		t.Errorf("CreatedAt = %v, want %v", s.CreatedAt, baseTime)
	}
}

func TestSectors_CreateErrors(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.sector(t, "Finance", "FIN", "3133334444")

	tests := []struct {
		name     string
		input    domain.SectorInput
		category goerrors.Category
		code     string
	}{
		{
			name:     "missing name",
			input:    domain.SectorInput{Acronym: "HR", Phone: "3133335555"},
			category: goerrors.CategoryValidation,
			code:     domain.CodeValidation,
		},
		{
			name:     "short phone",
			input:    domain.SectorInput{Name: "Human Resources", Acronym: "HR", Phone: "1234"},
			category: goerrors.CategoryValidation,
			code:     domain.CodeValidation,
		},
		{
			name:     "duplicate acronym",
			input:    domain.SectorInput{Name: "Finances", Acronym: "fin", Phone: "3133336666"},
			category: goerrors.CategoryConflict,
			code:     domain.CodeConflict,
		},
		{
			name:     "duplicate phone after normalization",
			input:    domain.SectorInput{Name: "Human Resources", Acronym: "HR", Phone: "(31) 3333-4444"},
			category: goerrors.CategoryConflict,
			code:     domain.CodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.sectors.Create(ctx, tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := domain.CategoryOf(err); got != tt.category {
				t.Errorf("category = %v, want %v (%v)", got, tt.category, err)
			}
			if got := domain.TextCodeOf(err); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestSectors_GetMissing(t *testing.T) {
	e := newEnv(t)

	_, err := e.sectors.Get(context.Background(), uuid.New())
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSectors_Update(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	s := e.sector(t, "Finance", "FIN", "3133334444")
	actor := uuid.New()

	e.clock.Advance(time.Hour)
	updated, err := e.sectors.Update(ctx, s.ID, domain.SectorInput{
		Name:    "Treasury",
		Acronym: "tre",
		Phone:   "31 3333-9999",
		ActorID: &actor,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := e.sectors.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Acronym != "TRE" || got.Phone != "3133339999" || got.Name != "Treasury" {
		t.Errorf("stored sector = %+v", got)
	}
	if got.UpdatedAt == nil || !got.UpdatedAt.Equal(baseTime.Add(time.Hour)) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, baseTime.Add(time.Hour))
	}
	if got.UpdatedByID == nil || *got.UpdatedByID != actor {
		t.Errorf("UpdatedByID = %v, want %v", got.UpdatedByID, actor)
	}
	if !got.CreatedAt.Equal(updated.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", updated.CreatedAt, got.CreatedAt)
	}

	if _, err := e.sectors.Update(ctx, uuid.New(), domain.SectorInput{Name: "Nope", Acronym: "NO", Phone: "3133330000"}); !domain.IsNotFound(err) {
		t.Errorf("update missing: expected not found, got %v", err)
	}
}

func TestSectors_Delete(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	fin := e.sector(t, "Finance", "FIN", "3133334444")
	hr := e.sector(t, "Human Resources", "HR", "3133335555")
	e.user(t, 1, "Ana Souza", "ana", fin)

	err := e.sectors.Delete(ctx, fin.ID)
	if got := domain.TextCodeOf(err); got != domain.CodeSectorHasUsers {
		t.Fatalf("delete sector with users: code = %q (%v)", got, err)
	}
	if got := domain.CategoryOf(err); got != goerrors.CategoryOperation {
		t.Errorf("category = %v, want operation", got)
	}

	if err := e.sectors.Delete(ctx, hr.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := e.sectors.Get(ctx, hr.ID); !domain.IsNotFound(err) {
		t.Errorf("deleted sector still readable: %v", err)
	}
	if err := e.sectors.Delete(ctx, hr.ID); !domain.IsNotFound(err) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
}

func TestSectors_DeleteReferencedByProtocols(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	archive := e.sector(t, "Archive", "ARC", "3133334444")
	budget := e.sector(t, "Budget", "BUD", "3133335555")
	ana := e.user(t, 1, "Ana Souza", "ana", budget)
	p := e.protocol(t, "Yearly report", domain.StatusOpen, ana, archive, budget)
	legal := e.sector(t, "Legal", "LEG", "3133336666")
	q := e.protocol(t, "Contract", domain.StatusOpen, ana, budget, legal)

	err := e.sectors.Delete(ctx, archive.ID)
	if got := domain.TextCodeOf(err); got != domain.CodeSectorHasProtocols {
		t.Fatalf("delete origin sector: code = %q (%v)", got, err)
	}
	if got := domain.CategoryOf(err); got != goerrors.CategoryOperation {
		t.Errorf("category = %v, want operation", got)
	}

	got, err := e.protocols.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.OriginSector == nil || got.OriginSector.Acronym != "ARC" {
		t.Errorf("origin sector = %+v, want ARC", got.OriginSector)
	}
	if n, err := e.protocols.Count(ctx, "arc"); err != nil || n != 1 {
		t.Errorf("Count(arc) = %d, %v; want 1", n, err)
	}

	if err := e.sectors.Delete(ctx, legal.ID); domain.TextCodeOf(err) != domain.CodeSectorHasProtocols {
		t.Errorf("delete destination sector: %v", err)
	}

	for _, id := range []uuid.UUID{p.ID, q.ID} {
		if err := e.protocols.Delete(ctx, id); err != nil {
			t.Fatalf("delete protocol: %v", err)
		}
	}
	if err := e.sectors.Delete(ctx, archive.ID); err != nil {
		t.Errorf("delete unreferenced sector: %v", err)
	}
}

func TestSectors_CountFollowsWrites(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.sector(t, "Finance", "FIN", "3133334444")

	if n, err := e.sectors.Count(ctx, ""); err != nil || n != 1 {
		t.Fatalf("Count = %d, %v; want 1", n, err)
	}

	hr := e.sector(t, "Human Resources", "HR", "3133335555")
	if n, _ := e.sectors.Count(ctx, ""); n != 2 {
		t.Errorf("Count after create = %d, want 2", n)
	}

	if err := e.sectors.Delete(ctx, hr.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n, _ := e.sectors.Count(ctx, ""); n != 1 {
		t.Errorf("Count after delete = %d, want 1", n)
	}
}

func TestSectors_Page(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.sector(t, "Legal", "LEG", "3133331111")
	e.sector(t, "Finance", "FIN", "3133332222")
	e.sector(t, "Human Resources", "HR", "3133333333")

	res, err := e.sectors.Page(ctx, paging.Request{PageNumber: 1, PageSize: 2, SortField: "acronym"})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if res.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want 3", res.TotalCount)
	}
	if len(res.Items) != 2 || res.Items[0].Acronym != "FIN" || res.Items[1].Acronym != "HR" {
		t.Errorf("items = %+v", res.Items)
	}

	bounds := []struct {
		name string
		page int
		want int
	}{
		{"last page", 2, 1},
		{"one past the end", 3, 0},
		{"largest page number", math.MaxInt, 0},
	}
	for _, b := range bounds {
		res, err := e.sectors.Page(ctx, paging.Request{PageNumber: b.page, PageSize: 2, SortField: "acronym"})
		if err != nil {
			t.Fatalf("%s: Page: %v", b.name, err)
		}
		if len(res.Items) != b.want || res.TotalCount != 3 {
			t.Errorf("%s: items = %+v, total %d; want %d items", b.name, res.Items, res.TotalCount, b.want)
		}
	}

	res, err = e.sectors.Page(ctx, paging.Request{Search: "legal"})
	if err != nil {
		t.Fatalf("Page search: %v", err)
	}
	if res.TotalCount != 1 || len(res.Items) != 1 || res.Items[0].Acronym != "LEG" {
		t.Errorf("search result = %+v", res)
	}
}

func TestSectors_All(t *testing.T) {
	e := newEnv(t)
	fin := e.sector(t, "Finance", "FIN", "3133334444")
	e.sector(t, "Human Resources", "HR", "3133335555")
	ana := e.user(t, 1, "Ana Souza", "ana", fin)

	all, err := e.sectors.All(context.Background())
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	for _, opt := range all {
		switch opt.Acronym {
		case "FIN":
			if len(opt.Users) != 1 || opt.Users[0].ID != ana.ID {
				t.Errorf("FIN users = %+v", opt.Users)
			}
		case "HR":
			if len(opt.Users) != 0 {
				t.Errorf("HR users = %+v", opt.Users)
			}
		}
	}
}
