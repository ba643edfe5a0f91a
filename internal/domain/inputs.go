package domain

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

var (
	acronymRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	phoneRe   = regexp.MustCompile(`^[0-9()+\s-]+$`)
	loginRe   = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	symbolRe  = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// StrongPassword checks length and character classes.
var StrongPassword = validation.By(func(value any) error {
	s, _ := value.(string)
	if len(s) < 8 || len(s) > 255 {
		return validation.NewError("validation_password_length", "must be between 8 and 255 characters")
	}
	if !upperRe.MatchString(s) || !lowerRe.MatchString(s) || !digitRe.MatchString(s) || !symbolRe.MatchString(s) {
		return validation.NewError("validation_password_weak", "must contain upper and lower case letters, a digit and a symbol")
	}
	return nil
})

var notNilUUID = validation.By(func(value any) error {
	switch v := value.(type) {
	case uuid.UUID:
		if v == uuid.Nil {
			return validation.ErrRequired
		}
	case *uuid.UUID:
		if v != nil && *v == uuid.Nil {
			return validation.ErrRequired
		}
	}
	return nil
})

type SectorInput struct {
	Name    string     `json:"name"`
	Acronym string     `json:"acronym"`
	Phone   string     `json:"phone"`
	ActorID *uuid.UUID `json:"actorId,omitempty"`
}

// Normalize trims the fields and keeps only the digits of the phone.
func (in *SectorInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Acronym = strings.ToUpper(strings.TrimSpace(in.Acronym))
	in.Phone = strings.TrimSpace(in.Phone)
}

func (in SectorInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(2, 150)),
		validation.Field(&in.Acronym, validation.Required, validation.Length(1, 20), validation.Match(acronymRe)),
		validation.Field(&in.Phone, validation.Required, validation.Match(phoneRe),
			validation.By(func(any) error {
				if n := len(DigitsOnly(in.Phone)); n < 8 || n > 20 {
					return validation.NewError("validation_phone_digits", "must have between 8 and 20 digits")
				}
				return nil
			})),
	)
}

type UserInput struct {
	Masp     int        `json:"masp"`
	Name     string     `json:"name"`
	Login    string     `json:"login"`
	Email    string     `json:"email"`
	Password string     `json:"password,omitempty"`
	Role     Role       `json:"role"`
	Active   *bool      `json:"active,omitempty"`
	SectorID uuid.UUID  `json:"sectorId"`
	ActorID  *uuid.UUID `json:"actorId,omitempty"`
}

func (in *UserInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Login = strings.ToLower(strings.TrimSpace(in.Login))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = Role(strings.ToLower(strings.TrimSpace(string(in.Role))))
}

func (in UserInput) validate(requirePassword bool) error {
	passwordRules := []validation.Rule{StrongPassword}
	if requirePassword {
		passwordRules = append([]validation.Rule{validation.Required}, passwordRules...)
	} else {
		passwordRules = []validation.Rule{validation.Empty.Error("is set through the password endpoint")}
	}

	return validation.ValidateStruct(&in,
		validation.Field(&in.Masp, validation.Required, validation.Min(1)),
		validation.Field(&in.Name, validation.Required, validation.Length(3, 150)),
		validation.Field(&in.Login, validation.Required, validation.Length(3, 50), validation.Match(loginRe)),
		validation.Field(&in.Email, validation.Required, validation.Length(3, 200), is.EmailFormat),
		validation.Field(&in.Password, passwordRules...),
		validation.Field(&in.Role, validation.Required, validation.In(RoleAdmin, RoleManager, RoleOperator)),
		validation.Field(&in.SectorID, notNilUUID),
	)
}

// ValidateCreate requires a strong password.
func (in UserInput) ValidateCreate() error { return in.validate(true) }

// ValidateUpdate refuses a password; it is changed through PasswordChange.
func (in UserInput) ValidateUpdate() error { return in.validate(false) }

type PasswordChange struct {
	Password string `json:"password"`
}

func (in PasswordChange) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Password, validation.Required, StrongPassword),
	)
}

type ProtocolInput struct {
	Subject             string         `json:"subject"`
	Description         string         `json:"description"`
	Status              ProtocolStatus `json:"status"`
	Archived            bool           `json:"archived"`
	CreatedByID         uuid.UUID      `json:"createdById"`
	UpdatedByID         *uuid.UUID     `json:"updatedById,omitempty"`
	OriginSectorID      uuid.UUID      `json:"originSectorId"`
	DestinationSectorID uuid.UUID      `json:"destinationSectorId"`
	DestinationUserID   *uuid.UUID     `json:"destinationUserId,omitempty"`
}

func (in *ProtocolInput) Normalize() {
	in.Subject = strings.TrimSpace(in.Subject)
	in.Description = strings.TrimSpace(in.Description)
}

func (in ProtocolInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Subject, validation.Required, validation.Length(3, 200)),
		validation.Field(&in.Description, validation.Required, validation.Length(1, 2000)),
		validation.Field(&in.Status, validation.By(func(any) error {
			if !in.Status.Valid() {
				return validation.NewError("validation_status", "is not a known status")
			}
			return nil
		})),
		validation.Field(&in.CreatedByID, notNilUUID),
		validation.Field(&in.OriginSectorID, notNilUUID),
		validation.Field(&in.DestinationSectorID, notNilUUID),
		validation.Field(&in.DestinationUserID, notNilUUID),
	)
}
