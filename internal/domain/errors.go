package domain

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Text codes carried by the errors built in this package.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeNumberConflict     = "PROTOCOL_NUMBER_CONFLICT"
	CodeArchived           = "PROTOCOL_ARCHIVED"
	CodeSectorHasUsers     = "SECTOR_HAS_USERS"
	CodeSectorHasProtocols = "SECTOR_HAS_PROTOCOLS"
	CodeUserHasProtocols   = "USER_HAS_PROTOCOLS"
	CodeValidation         = "VALIDATION_FAILED"
)

// NotFound reports a missing entity.
func NotFound(entity string, id uuid.UUID) error {
	return goerrors.New(fmt.Sprintf("%s %s not found", entity, id), goerrors.CategoryNotFound).
		WithTextCode(CodeNotFound)
}

// Conflict reports a uniqueness violation. cause is usually the driver error.
func Conflict(entity string, cause error) error {
	return wrap(cause, goerrors.CategoryConflict, entity+" conflicts with an existing record", CodeConflict)
}

// NumberConflict is returned once every protocol number attempt collided.
func NumberConflict(attempts int, cause error) error {
	msg := fmt.Sprintf("could not allocate a unique protocol number after %d attempts", attempts)
	return wrap(cause, goerrors.CategoryConflict, msg, CodeNumberConflict)
}

// wrap keeps cause in the chain but always reports category and code, even
// when cause is already a categorised error.
func wrap(cause error, category goerrors.Category, message, code string) *goerrors.Error {
	if cause == nil {
		return goerrors.New(message, category).WithTextCode(code)
	}
	e := goerrors.Wrap(cause, category, message)
	e.Category = category
	return e.WithTextCode(code)
}

// RuleViolation reports a business rule refusing the operation.
func RuleViolation(code, message string) error {
	return goerrors.New(message, goerrors.CategoryOperation).WithTextCode(code)
}

var (
	ErrProtocolArchived   = RuleViolation(CodeArchived, "an archived protocol cannot be deleted")
	ErrSectorHasUsers     = RuleViolation(CodeSectorHasUsers, "a sector with users cannot be deleted")
	ErrSectorHasProtocols = RuleViolation(CodeSectorHasProtocols, "a sector referenced by protocols cannot be deleted")
	ErrUserHasProtocols   = RuleViolation(CodeUserHasProtocols, "a user with protocols cannot be deleted")
)

// Invalid converts an ozzo-validation failure, keeping the field errors.
func Invalid(entity string, cause error) error {
	if cause == nil {
		return goerrors.New("invalid "+entity, goerrors.CategoryValidation).WithTextCode(CodeValidation)
	}
	return goerrors.FromOzzoValidation(cause, "invalid "+entity).WithTextCode(CodeValidation)
}

// CategoryOf returns the go-errors category of err, or the zero category
// when err carries none.
func CategoryOf(err error) goerrors.Category {
	var e *goerrors.Error
	if errors.As(err, &e) {
		return e.Category
	}
	var none goerrors.Category
	return none
}

// TextCodeOf returns the text code of err, or "" when err carries none.
func TextCodeOf(err error) string {
	var e *goerrors.Error
	if errors.As(err, &e) {
		return e.TextCode
	}
	return ""
}

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool { return CategoryOf(err) == goerrors.CategoryNotFound }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return CategoryOf(err) == goerrors.CategoryConflict }
