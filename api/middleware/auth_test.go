package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgauth "github.com/shoplane/shoplane-backend/pkg/auth"
	"github.com/shoplane/shoplane-backend/pkg/config"
)

type staticSessions struct {
	live map[string]bool
}

func (s *staticSessions) HasSession(_ context.Context, sessionID string) (bool, error) {
	return s.live[sessionID], nil
}

func testJWT() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "shoplane", ExpirationMinutes: 15}
}

func mintToken(t *testing.T, payload pkgauth.AccessTokenPayload) (string, string) {
	t.Helper()

	token, err := pkgauth.MintAccessToken(testJWT(), time.Now().UTC(), payload)
	require.NoError(t, err)
	claims, err := pkgauth.ParseAccessToken(testJWT(), token)
	require.NoError(t, err)
	return token, claims.ID
}

func claimsEcho(t *testing.T, captured **pkgauth.AccessTokenClaims) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuth_validToken(t *testing.T) {
	token, sessionID := mintToken(t, pkgauth.AccessTokenPayload{UserID: 7, Username: "alice", IsStaff: true})
	sessions := &staticSessions{live: map[string]bool{sessionID: true}}

	var captured *pkgauth.AccessTokenClaims
	handler := Auth(testJWT(), sessions, nil)(claimsEcho(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, uint(7), captured.UserID)
	assert.True(t, captured.IsStaff)
}

func TestAuth_missingHeader(t *testing.T) {
	handler := Auth(testJWT(), nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler must not run")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_revokedSession(t *testing.T) {
	token, _ := mintToken(t, pkgauth.AccessTokenPayload{UserID: 7, Username: "alice"})
	sessions := &staticSessions{live: map[string]bool{}}

	handler := Auth(testJWT(), sessions, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_garbageToken(t *testing.T) {
	handler := Auth(testJWT(), nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireStaff(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	staff := &pkgauth.AccessTokenClaims{UserID: 1, IsStaff: true}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithClaims(req.Context(), staff))
	w := httptest.NewRecorder()
	RequireStaff(nil)(ok).ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	plain := &pkgauth.AccessTokenClaims{UserID: 2}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithClaims(req.Context(), plain))
	w = httptest.NewRecorder()
	RequireStaff(nil)(ok).ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequirePermission(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	holder := &pkgauth.AccessTokenClaims{UserID: 1, Permissions: []string{"orders.view"}}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithClaims(req.Context(), holder))
	w := httptest.NewRecorder()
	RequirePermission("orders.view", nil)(ok).ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	RequirePermission("products.delete", nil)(ok).ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	super := &pkgauth.AccessTokenClaims{UserID: 9, IsSuperuser: true}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithClaims(req.Context(), super))
	w = httptest.NewRecorder()
	RequirePermission("products.delete", nil)(ok).ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
