package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agency-api/internal/config"
	jwtinfra "github.com/agency-api/internal/infrastructure/jwt"
	"github.com/agency-api/internal/transport/http/cookie"
)

func newProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	p, err := jwtinfra.NewProvider(&config.Config{JWTSecret: "test-secret", SessionExpiryDays: 7})
	require.NoError(t, err)
	return p
}

func gatedHandler(t *testing.T, p *jwtinfra.Provider) http.Handler {
	t.Helper()
	return SessionGate(p, "/login", false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-Agent-Id", claims.AgentID)
		w.WriteHeader(http.StatusOK)
	}))
}

func TestSessionGate_NoCookiesRedirects(t *testing.T) {
	h := gatedHandler(t, newProvider(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/dashboard", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestSessionGate_PrimaryCookieAllows(t *testing.T) {
	p := newProvider(t)
	token, err := p.Sign("agent-1", "a@b.co")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/app/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Session, Value: token})
	rec := httptest.NewRecorder()
	gatedHandler(t, p).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "agent-1", rec.Header().Get("X-Agent-Id"))
	assert.Empty(t, rec.Result().Cookies(), "no cookie should be re-issued")
}

func TestSessionGate_BackupCookieAllowsAndReissuesPrimary(t *testing.T) {
	p := newProvider(t)
	token, err := p.Sign("agent-1", "a@b.co")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/app/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: cookie.SessionBackup, Value: token})
	rec := httptest.NewRecorder()
	gatedHandler(t, p).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookie.Session, cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSessionGate_InvalidPrimaryFallsBackToBackup(t *testing.T) {
	p := newProvider(t)
	token, err := p.Sign("agent-1", "a@b.co")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/app/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Session, Value: "garbage"})
	req.AddCookie(&http.Cookie{Name: cookie.SessionBackup, Value: token})
	rec := httptest.NewRecorder()
	gatedHandler(t, p).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionGate_BothInvalidRedirects(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/app/properties", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Session, Value: "garbage"})
	req.AddCookie(&http.Cookie{Name: cookie.SessionBackup, Value: "also-garbage"})
	rec := httptest.NewRecorder()
	gatedHandler(t, newProvider(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestSessionGate_WrongSecretRedirects(t *testing.T) {
	otherProvider, err := jwtinfra.NewProvider(&config.Config{JWTSecret: "other-secret", SessionExpiryDays: 7})
	require.NoError(t, err)
	token, err := otherProvider.Sign("agent-1", "a@b.co")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/app/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: cookie.SessionBackup, Value: token})
	rec := httptest.NewRecorder()
	gatedHandler(t, newProvider(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
}
