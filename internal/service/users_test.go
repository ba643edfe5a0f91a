package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-protocol-registry/internal/domain"
	"github.com/goliatone/go-protocol-registry/paging"
)

func TestUsers_CreateHashesPassword(t *testing.T) {
	e := newEnv(t)
	fin := e.sector(t, "Finance", "FIN", "3133334444")

	u := e.user(t, 1001, "Ana Souza", "Ana.Souza", fin)

	if u.Login != "ana.souza" {
		t.Errorf("Login = %q, want lower case", u.Login)
	}
	if !u.Active {
		t.Error("new users are active by default")
	}
	if u.PasswordHash == "" || u.PasswordHash == strongPassword {
		t.Fatalf("password not hashed: %q", u.PasswordHash)
	}
	ok, err := e.hasher.Verify(strongPassword, u.PasswordHash)
	if err != nil || !ok {
		t.Errorf("Verify = %v, %v", ok, err)
	}
}

func TestUsers_CreateErrors(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	fin := e.sector(t, "Finance", "FIN", "3133334444")
	e.user(t, 1001, "Ana Souza", "ana", fin)

	valid := func() domain.UserInput {
		return domain.UserInput{
			Masp:     2002,
			Name:     "Bruno Lima",
			Login:    "bruno",
			Email:    "bruno@example.org",
			Password: strongPassword,
			Role:     domain.RoleManager,
			SectorID: fin.ID,
		}
	}

	tests := []struct {
		name   string
		mutate func(*domain.UserInput)
		check  func(error) bool
	}{
		{"weak password", func(in *domain.UserInput) { in.Password = "password" }, isValidation},
		{"bad email", func(in *domain.UserInput) { in.Email = "not-an-email" }, isValidation},
		{"unknown role", func(in *domain.UserInput) { in.Role = "root" }, isValidation},
		{"unknown sector", func(in *domain.UserInput) { in.SectorID = uuid.New() }, domain.IsNotFound},
		{"duplicate login", func(in *domain.UserInput) { in.Login = "ANA" }, domain.IsConflict},
		{"duplicate masp", func(in *domain.UserInput) { in.Masp = 1001 }, domain.IsConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			_, err := e.users.Create(ctx, in)
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func isValidation(err error) bool {
	return domain.TextCodeOf(err) == domain.CodeValidation
}

func TestUsers_GetLoadsSector(t *testing.T) {
	e := newEnv(t)
	fin := e.sector(t, "Finance", "FIN", "3133334444")
	u := e.user(t, 1001, "Ana Souza", "ana", fin)

	got, err := e.users.Get(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Sector == nil || got.Sector.Acronym != "FIN" {
		t.Errorf("Sector = %+v", got.Sector)
	}

	if _, err := e.users.Get(context.Background(), uuid.New()); !domain.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestUsers_UpdateKeepsPassword(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	fin := e.sector(t, "Finance", "FIN", "3133334444")
	hr := e.sector(t, "Human Resources", "HR", "3133335555")
	u := e.user(t, 1001, "Ana Souza", "ana", fin)

	inactive := false
	in := domain.UserInput{
		Masp:     1001,
		Name:     "Ana Souza Lima",
		Login:    "ana",
		Email:    "ana.lima@example.org",
		Role:     domain.RoleAdmin,
		Active:   &inactive,
		SectorID: hr.ID,
	}
	if _, err := e.users.Update(ctx, u.ID, in); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := e.users.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Ana Souza Lima" || got.Role != domain.RoleAdmin || got.Active || got.SectorID != hr.ID {
		t.Errorf("stored user = %+v", got)
	}
	if got.PasswordHash != u.PasswordHash {
		t.Error("update must keep the password hash")
	}
	if got.UpdatedAt == nil {
		t.Error("UpdatedAt not set")
	}

	in.Password = strongPassword
	if _, err := e.users.Update(ctx, u.ID, in); !isValidation(err) {
		t.Errorf("update with password: expected validation error, got %v", err)
	}

	in.Password = ""
	in.SectorID = uuid.New()
	if _, err := e.users.Update(ctx, u.ID, in); !domain.IsNotFound(err) {
		t.Errorf("update to unknown sector: expected not found, got %v", err)
	}
}

func TestUsers_ChangePassword(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	fin := e.sector(t, "Finance", "FIN", "3133334444")
	u := e.user(t, 1001, "Ana Souza", "ana", fin)

	if err := e.users.ChangePassword(ctx, u.ID, domain.PasswordChange{Password: "weak"}); !isValidation(err) {
		t.Errorf("weak password: expected validation error, got %v", err)
	}

	const next = "N3w!Password"
	if err := e.users.ChangePassword(ctx, u.ID, domain.PasswordChange{Password: next}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	got, err := e.users.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok, _ := e.hasher.Verify(next, got.PasswordHash); !ok {
		t.Error("new password does not verify")
	}
	if ok, _ := e.hasher.Verify(strongPassword, got.PasswordHash); ok {
		t.Error("old password still verifies")
	}

	if err := e.users.ChangePassword(ctx, uuid.New(), domain.PasswordChange{Password: next}); !domain.IsNotFound(err) {
		t.Errorf("missing user: expected not found, got %v", err)
	}
}

func TestUsers_ChangeSector(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	fin := e.sector(t, "Finance", "FIN", "3133334444")
	hr := e.sector(t, "Human Resources", "HR", "3133335555")
	u := e.user(t, 1001, "Ana Souza", "ana", fin)

	moved, err := e.users.ChangeSector(ctx, u.ID, hr.ID)
	if err != nil {
		t.Fatalf("ChangeSector: %v", err)
	}
	if moved.SectorID != hr.ID {
		t.Errorf("SectorID = %v, want %v", moved.SectorID, hr.ID)
	}

	if _, err := e.users.ChangeSector(ctx, u.ID, uuid.New()); !domain.IsNotFound(err) {
		t.Errorf("unknown sector: expected not found, got %v", err)
	}
}

func TestUsers_Delete(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	fin := e.sector(t, "Finance", "FIN", "3133334444")
	ana := e.user(t, 1001, "Ana Souza", "ana", fin)
	bruno := e.user(t, 1002, "Bruno Lima", "bruno", fin)
	e.protocol(t, "Budget review", domain.StatusOpen, ana, fin, fin)

	if err := e.users.Delete(ctx, ana.ID); domain.TextCodeOf(err) != domain.CodeUserHasProtocols {
		t.Fatalf("delete referenced user: %v", err)
	}
	if err := e.users.Delete(ctx, bruno.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n, _ := e.users.Count(ctx, ""); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestUsers_PageBySector(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	legal := e.sector(t, "Legal", "LEG", "3133331111")
	fin := e.sector(t, "Finance", "FIN", "3133332222")
	e.user(t, 1, "Ana Souza", "ana", legal)
	e.user(t, 2, "Bruno Lima", "bruno", fin)

	res, err := e.users.Page(ctx, paging.Request{SortField: "sector"})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("items = %+v", res.Items)
	}
	if res.Items[0].SectorName != "Finance" || res.Items[1].SectorName != "Legal" {
		t.Errorf("order = %s, %s", res.Items[0].SectorName, res.Items[1].SectorName)
	}
}
