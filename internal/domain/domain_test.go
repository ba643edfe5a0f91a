package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

func TestProtocolStatus_Rank(t *testing.T) {
	want := map[ProtocolStatus]int{
		StatusOpen:                1,
		StatusSentForReview:       2,
		StatusReceived:            3,
		StatusUnderReview:         4,
		StatusCorrectionRequested: 5,
		StatusApproved:            6,
		StatusRejected:            7,
		StatusFinalized:           8,
		ProtocolStatus(42):        99,
		ProtocolStatus(-1):        99,
	}
	for s, rank := range want {
		if got := s.Rank(); got != rank {
			t.Errorf("%v.Rank() = %d, want %d", s, got, rank)
		}
	}
}

func TestStatusRankSQL(t *testing.T) {
	got := StatusRankSQL("p.status")
	want := "CASE p.status WHEN 0 THEN 1 WHEN 1 THEN 2 WHEN 2 THEN 3 WHEN 3 THEN 4" +
		" WHEN 4 THEN 6 WHEN 5 THEN 7 WHEN 6 THEN 5 WHEN 7 THEN 8 ELSE 99 END"
	if got != want {
		t.Errorf("StatusRankSQL =\n%s\nwant\n%s", got, want)
	}
}

func TestParseProtocolStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    ProtocolStatus
		wantErr bool
	}{
		{"Open", StatusOpen, false},
		{"underreview", StatusUnderReview, false},
		{" Finalized ", StatusFinalized, false},
		{"6", StatusCorrectionRequested, false},
		{"8", 0, true},
		{"Closed", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseProtocolStatus(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseProtocolStatus(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseProtocolStatus(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProtocolStatus_JSON(t *testing.T) {
	raw, err := json.Marshal(StatusSentForReview)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `"SentForReview"` {
		t.Errorf("Marshal = %s", raw)
	}

	var s ProtocolStatus
	if err := json.Unmarshal([]byte(`"Approved"`), &s); err != nil || s != StatusApproved {
		t.Errorf("Unmarshal name = %v, %v", s, err)
	}
	if err := json.Unmarshal([]byte(`3`), &s); err != nil || s != StatusUnderReview {
		t.Errorf("Unmarshal number = %v, %v", s, err)
	}
	if err := json.Unmarshal([]byte(`"Closed"`), &s); err == nil {
		t.Error("expected error for unknown name")
	}
}

func TestProtocolStatus_Scan(t *testing.T) {
	var s ProtocolStatus
	for _, src := range []any{int64(5), []byte("5"), "5"} {
		if err := s.Scan(src); err != nil || s != StatusRejected {
			t.Errorf("Scan(%#v) = %v, %v", src, s, err)
		}
	}
	if err := s.Scan(3.5); err == nil {
		t.Error("expected error for float source")
	}
	v, _ := StatusFinalized.Value()
	if v != int64(7) {
		t.Errorf("Value = %#v, want 7", v)
	}
}

func TestDigitsOnly(t *testing.T) {
	tests := map[string]string{
		"(31) 3915-0000":    "3139150000",
		"+55 31 99999-1234": "5531999991234",
		"":                  "",
		"abc":               "",
	}
	for in, want := range tests {
		if got := DigitsOnly(in); got != want {
			t.Errorf("DigitsOnly(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSectorInput_Validate(t *testing.T) {
	valid := SectorInput{Name: "Finance", Acronym: "FIN", Phone: "(31) 3915-0000"}

	tests := []struct {
		name      string
		mutate    func(*SectorInput)
		wantField string
	}{
		{"valid", func(*SectorInput) {}, ""},
		{"missing name", func(in *SectorInput) { in.Name = "" }, "name"},
		{"bad acronym", func(in *SectorInput) { in.Acronym = "F I N" }, "acronym"},
		{"letters in phone", func(in *SectorInput) { in.Phone = "call me" }, "phone"},
		{"short phone", func(in *SectorInput) { in.Phone = "123-45" }, "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			assertField(t, in.Validate(), tt.wantField)
		})
	}
}

func TestUserInput_Validate(t *testing.T) {
	valid := UserInput{
		Masp:     1234,
		Name:     "Ana Souza",
		Login:    "ana.souza",
		Email:    "ana@example.org",
		Password: "S3cure!pass",
		Role:     RoleOperator,
		SectorID: uuid.New(),
	}

	tests := []struct {
		name      string
		create    bool
		mutate    func(*UserInput)
		wantField string
	}{
		{"valid create", true, func(*UserInput) {}, ""},
		{"weak password", true, func(in *UserInput) { in.Password = "password" }, "password"},
		{"missing password", true, func(in *UserInput) { in.Password = "" }, "password"},
		{"bad email", true, func(in *UserInput) { in.Email = "ana" }, "email"},
		{"unknown role", true, func(in *UserInput) { in.Role = "root" }, "role"},
		{"nil sector", true, func(in *UserInput) { in.SectorID = uuid.Nil }, "sectorId"},
		{"valid update", false, func(in *UserInput) { in.Password = "" }, ""},
		{"update with password", false, func(*UserInput) {}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			var err error
			if tt.create {
				err = in.ValidateCreate()
			} else {
				err = in.ValidateUpdate()
			}
			assertField(t, err, tt.wantField)
		})
	}
}

func TestUserInput_Normalize(t *testing.T) {
	in := UserInput{Name: " Ana ", Login: " Ana.Souza ", Email: "ANA@Example.org ", Role: " Admin"}
	in.Normalize()
	if in.Name != "Ana" || in.Login != "ana.souza" || in.Email != "ana@example.org" || in.Role != RoleAdmin {
		t.Errorf("Normalize = %+v", in)
	}
}

func TestProtocolInput_Validate(t *testing.T) {
	valid := ProtocolInput{
		Subject:             "Budget Review",
		Description:         "Quarterly budget review",
		Status:              StatusOpen,
		CreatedByID:         uuid.New(),
		OriginSectorID:      uuid.New(),
		DestinationSectorID: uuid.New(),
	}

	tests := []struct {
		name      string
		mutate    func(*ProtocolInput)
		wantField string
	}{
		{"valid", func(*ProtocolInput) {}, ""},
		{"short subject", func(in *ProtocolInput) { in.Subject = "ab" }, "subject"},
		{"unknown status", func(in *ProtocolInput) { in.Status = 12 }, "status"},
		{"missing creator", func(in *ProtocolInput) { in.CreatedByID = uuid.Nil }, "createdById"},
		{"nil destination user", func(in *ProtocolInput) { id := uuid.Nil; in.DestinationUserID = &id }, "destinationUserId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			assertField(t, in.Validate(), tt.wantField)
		})
	}
}

func assertField(t *testing.T, err error, field string) {
	t.Helper()
	if field == "" {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation.Errors, got %T: %v", err, err)
	}
	if _, ok := verrs[field]; !ok {
		t.Fatalf("expected error on %q, got %v", field, verrs)
	}
}

func TestErrorCategories(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: protocols.number")

	tests := []struct {
		name     string
		err      error
		category goerrors.Category
		code     string
	}{
		{"not found", NotFound("Sector", uuid.New()), goerrors.CategoryNotFound, CodeNotFound},
		{"conflict", Conflict("Sector", cause), goerrors.CategoryConflict, CodeConflict},
		{"conflict over categorised cause", Conflict("User", goerrors.New("insert failed", goerrors.CategoryInternal)), goerrors.CategoryConflict, CodeConflict},
		{"conflict without cause", Conflict("User", nil), goerrors.CategoryConflict, CodeConflict},
		{"number conflict", NumberConflict(3, cause), goerrors.CategoryConflict, CodeNumberConflict},
		{"archived", ErrProtocolArchived, goerrors.CategoryOperation, CodeArchived},
		{"invalid", Invalid("sector", validation.Errors{"name": validation.ErrRequired}), goerrors.CategoryValidation, CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategoryOf(tt.err); got != tt.category {
				t.Errorf("CategoryOf = %v, want %v", got, tt.category)
			}
			if got := TextCodeOf(tt.err); got != tt.code {
				t.Errorf("TextCodeOf = %q, want %q", got, tt.code)
			}
		})
	}

	if !IsConflict(NumberConflict(3, cause)) || IsConflict(cause) {
		t.Error("IsConflict misclassified")
	}
	if !strings.Contains(NumberConflict(3, cause).Error(), "3 attempts") {
		t.Errorf("NumberConflict message = %q", NumberConflict(3, cause).Error())
	}
	var invalid *goerrors.Error
	if !errors.As(Invalid("sector", validation.Errors{"name": validation.ErrRequired}), &invalid) || invalid.ValidationMap()["name"] == "" {
		t.Error("Invalid should keep the field errors")
	}

	var none goerrors.Category
	if CategoryOf(nil) != none {
		t.Error("nil has no category")
	}
}
