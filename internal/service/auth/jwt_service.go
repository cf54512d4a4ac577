package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService issues and validates the signed tokens that authenticate API
// requests. Access and refresh tokens share one signing key but carry a
// type claim, and each Validate method accepts only its own type, so a
// refresh token can never be replayed as an access token.
//
// Validation failures map onto the sentinel errors in errors.go
// (ErrExpiredToken, ErrInvalidToken, ErrWrongTokenType and their refresh
// counterparts) so callers can pick status codes with errors.Is.
type JWTService interface {
	// GenerateToken creates a signed access token for the user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken checks an access token's signature, expiry, and type
	// claim, returning its claims when all three hold.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed refresh token for the user.
	// Refresh tokens live longer than access tokens and are exchanged for
	// fresh pairs rather than presented to protected endpoints.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateRefreshToken is ValidateToken for the refresh token type,
	// reporting failures through the refresh-specific sentinels.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the decoded content of a verified token: the user it was
// issued for, which token type it is, and the registered timestamps
// already converted out of JWT numeric-date form.
type Claims struct {
	UserID    uuid.UUID `json:"uid,omitempty"`
	TokenType string    `json:"type,omitempty"`
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
