package httputil

import (
	"context"
	"net/http"

	"quill/internal/domain/models"
)

type claimsKey struct{}

// WithClaims attaches verified token claims to the request context
func WithClaims(r *http.Request, claims *models.Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims))
}

// ClaimsFrom returns the verified claims, or nil when the request was not
// authenticated (verification disabled or a public path).
func ClaimsFrom(ctx context.Context) *models.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*models.Claims)
	return claims
}

// UserID returns the token subject, or "" for anonymous requests
func UserID(r *http.Request) string {
	if claims := ClaimsFrom(r.Context()); claims != nil {
		return claims.GetUserID()
	}
	return ""
}
