// Package password hashes user passwords with argon2id.
package password

import (
	"errors"

	"github.com/alexedwards/argon2id"
)

// Hasher hashes and verifies passwords. Hashes use the encoded
// $argon2id$v=19$m=...,t=...,p=...$salt$key form and are stored as is.
type Hasher struct {
	params *argon2id.Params
}

// NewDefault uses argon2id.DefaultParams.
func NewDefault() *Hasher {
	return &Hasher{params: argon2id.DefaultParams}
}

func New(p *argon2id.Params) *Hasher { return &Hasher{params: p} }

// Hash returns the encoded hash of plain.
func (h *Hasher) Hash(plain string) (string, error) {
	if h == nil || h.params == nil {
		return "", errors.New("password: argon2id params not set")
	}
	return argon2id.CreateHash(plain, h.params)
}

// Verify reports whether plain matches encodedHash.
func (h *Hasher) Verify(plain, encodedHash string) (bool, error) {
	return argon2id.ComparePasswordAndHash(plain, encodedHash)
}
