package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"invoicedash/internal/common"
	"invoicedash/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signSession(t *testing.T, secret, subject, tokenID string, ttl time.Duration) string {
	t.Helper()
	claims := services.SessionClaims{
		Email: "user@nextmail.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newGuardedEcho(cache *stubCache) *echo.Echo {
	e := echo.New()
	g := e.Group(services.DashboardPath, RequireSession(testSecret, cache)...)
	g.GET("/invoices", func(c echo.Context) error {
		userID, _ := common.GetUserIDFromContext(c.Request().Context())
		tokenID, _ := common.GetTokenIDFromContext(c.Request().Context())
		return c.String(http.StatusOK, userID+":"+tokenID)
	})
	return e
}

func TestRequireSession_MissingCookieRedirectsToLogin(t *testing.T) {
	e := newGuardedEcho(newStubCache())
	req := httptest.NewRequest(http.MethodGet, "/dashboard/invoices?page=2", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?redirectTo=%2Fdashboard%2Finvoices%3Fpage%3D2", rec.Header().Get(echo.HeaderLocation))
}

func TestRequireSession_ValidCookie(t *testing.T) {
	e := newGuardedEcho(newStubCache())
	req := httptest.NewRequest(http.MethodGet, "/dashboard/invoices", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: signSession(t, testSecret, "u1", "t1", time.Hour)})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1:t1", rec.Body.String())
}

func TestRequireSession_WrongSecret(t *testing.T) {
	e := newGuardedEcho(newStubCache())
	req := httptest.NewRequest(http.MethodPost, "/dashboard/invoices", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: signSession(t, "other", "u1", "t1", time.Hour)})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, services.LoginPath, rec.Header().Get(echo.HeaderLocation))
}

func TestRequireSession_Revoked(t *testing.T) {
	cache := newStubCache()
	cache.revoked["t1"] = true
	e := newGuardedEcho(cache)
	req := httptest.NewRequest(http.MethodGet, "/dashboard/invoices", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: signSession(t, testSecret, "u1", "t1", time.Hour)})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestGuestOnly_SignedInUserGoesToDashboard(t *testing.T) {
	e := echo.New()
	e.GET(services.LoginPath, func(c echo.Context) error { return c.NoContent(http.StatusOK) }, GuestOnly(testSecret, newStubCache()))

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: signSession(t, testSecret, "u1", "t1", time.Hour)})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, services.DashboardPath, rec.Header().Get(echo.HeaderLocation))

	req = httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: signSession(t, testSecret, "u1", "t1", -time.Minute)})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuestOnly_RevokedSessionIsCleared(t *testing.T) {
	cache := newStubCache()
	cache.revoked["t1"] = true
	e := echo.New()
	e.GET(services.LoginPath, func(c echo.Context) error { return c.NoContent(http.StatusOK) }, GuestOnly(testSecret, cache))

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: signSession(t, testSecret, "u1", "t1", time.Hour)})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderLocation))
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, SessionCookie, cleared[0].Name)
	assert.Empty(t, cleared[0].Value)
	assert.True(t, cleared[0].MaxAge < 0)
}

type stubCache struct {
	revoked map[string]bool
}

func newStubCache() *stubCache {
	return &stubCache{revoked: map[string]bool{}}
}

func (s *stubCache) GetView(context.Context, string, string, any) (bool, error) { return false, nil }
func (s *stubCache) SetView(context.Context, string, string, any, time.Duration) error {
	return nil
}
func (s *stubCache) RevalidatePath(context.Context, string) error      { return nil }
func (s *stubCache) GetJSON(context.Context, string, any) (bool, error) { return false, nil }
func (s *stubCache) SetJSON(context.Context, string, any, time.Duration) error {
	return nil
}
func (s *stubCache) RevokeSession(_ context.Context, tokenID string, _ time.Duration) error {
	s.revoked[tokenID] = true
	return nil
}
func (s *stubCache) IsSessionRevoked(_ context.Context, tokenID string) (bool, error) {
	return s.revoked[tokenID], nil
}
func (s *stubCache) IsRateLimited(context.Context, string, int, time.Duration) (bool, error) {
	return false, nil
}
func (s *stubCache) ResetRateLimit(context.Context, string) error { return nil }
func (s *stubCache) Ping(context.Context) error                   { return nil }
