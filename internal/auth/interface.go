package auth

import "quill/internal/domain/models"

// TokenVerifier validates bearer tokens. Keeping it behind an interface
// lets the middleware run without a JWKS endpoint in tests.
type TokenVerifier interface {
	// VerifyToken validates a token string and returns the parsed claims.
	// Returns domain.ErrUnauthorized if the token is invalid, expired, or
	// signed with an unexpected key.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier
	Close() error
}
