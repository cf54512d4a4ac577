package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier checks a plaintext password against a stored hash.
// Hashing itself happens in the user store when accounts are created or
// updated; verification is the auth-side half of the contract.
type PasswordVerifier interface {
	// Compare returns nil when the password matches the hash,
	// ErrPasswordMismatch when it does not, and a different error when the
	// stored hash cannot be compared at all. Callers should treat only
	// ErrPasswordMismatch as bad credentials.
	Compare(hashedPassword, password string) error
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements PasswordVerifier. A bcrypt mismatch maps to
// ErrPasswordMismatch; anything else (truncated or corrupted hash, unknown
// cost) is surfaced as its own error so callers can log it instead of
// reporting bad credentials.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("comparing password hash: %w", err)
	}
}
