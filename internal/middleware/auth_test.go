package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/httputil"
)

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*models.Claims, error) {
	if token != "good" {
		return nil, domain.ErrUnauthorized
	}
	claims := &models.Claims{}
	claims.Subject = "user-1"
	return claims, nil
}

func (stubVerifier) Close() error { return nil }

func TestAuthMiddleware(t *testing.T) {
	var seenUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = httputil.UserID(r)
		w.WriteHeader(http.StatusNoContent)
	})
	handler := AuthMiddleware(stubVerifier{}, slog.New(slog.DiscardHandler))(next)

	tests := []struct {
		name     string
		method   string
		path     string
		header   string
		wantCode int
		wantUser string
	}{
		{name: "valid token", method: http.MethodGet, path: "/api/documents", header: "Bearer good", wantCode: http.StatusNoContent, wantUser: "user-1"},
		{name: "lowercase scheme", method: http.MethodGet, path: "/api/documents", header: "bearer good", wantCode: http.StatusNoContent, wantUser: "user-1"},
		{name: "missing header", method: http.MethodGet, path: "/api/documents", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", method: http.MethodGet, path: "/api/documents", header: "Basic good", wantCode: http.StatusUnauthorized},
		{name: "bad token", method: http.MethodGet, path: "/api/documents", header: "Bearer bad", wantCode: http.StatusUnauthorized},
		{name: "health is public", method: http.MethodGet, path: "/health", wantCode: http.StatusNoContent},
		{name: "preflight", method: http.MethodOptions, path: "/api/documents", wantCode: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenUser = ""
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantUser, seenUser)
		})
	}
}

func TestAuthMiddleware_NilVerifierPassesThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthMiddleware(nil, slog.New(slog.DiscardHandler))(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecovery(t *testing.T) {
	handler := Recovery(slog.New(slog.DiscardHandler))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestRecovery_AfterHeadersSent(t *testing.T) {
	handler := Recovery(slog.New(slog.DiscardHandler))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		panic("mid-stream")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tools/blog-post/stream", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Type"))
	assert.True(t, rec.Flushed)
}

func TestRecovery_AbortHandlerPropagates(t *testing.T) {
	handler := Recovery(slog.New(slog.DiscardHandler))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
