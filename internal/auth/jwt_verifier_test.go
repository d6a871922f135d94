package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/domain"
	"quill/internal/domain/models"
)

func newTestVerifier(t *testing.T) (*JWKSVerifier, *ecdsa.PrivateKey) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	keys := func(token *jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}
	return NewVerifier(keys, slog.New(slog.DiscardHandler)), key
}

func sign(t *testing.T, key *ecdsa.PrivateKey, method jwt.SigningMethod, claims models.Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestJWKSVerifier_VerifyToken(t *testing.T) {
	v, key := newTestVerifier(t)
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	tests := []struct {
		name    string
		claims  models.Claims
		wantErr bool
	}{
		{
			name: "valid",
			claims: models.Claims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: future},
				Role:             "authenticated",
				Plan:             models.PlanPro,
			},
		},
		{
			name: "expired",
			claims: models.Claims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: past},
			},
			wantErr: true,
		},
		{
			name: "missing expiry",
			claims: models.Claims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
			},
			wantErr: true,
		},
		{
			name: "missing subject",
			claims: models.Claims{
				RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future},
			},
			wantErr: true,
		},
		{
			name: "anonymous",
			claims: models.Claims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: future},
				Role:             "anon",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.VerifyToken(sign(t, key, jwt.SigningMethodES256, tt.claims))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-1", claims.GetUserID())
			assert.Equal(t, models.PlanPro, claims.Plan)
		})
	}
}

func TestJWKSVerifier_RejectsUnexpectedAlgorithm(t *testing.T) {
	v, _ := newTestVerifier(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("shared-secret"))
	require.NoError(t, err)

	_, err = v.VerifyToken(signed)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestNewJWKSVerifier_RequiresURL(t *testing.T) {
	_, err := NewJWKSVerifier(t.Context(), "", slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}
