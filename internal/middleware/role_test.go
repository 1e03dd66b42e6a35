package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogstudio/auth-service/internal/config"
)

func callWithRole(t *testing.T, mw echo.MiddlewareFunc, role interface{}) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, handler(c))
	return rec.Code
}

func TestRequireRoleAllowsListedRoles(t *testing.T) {
	mw := RequireRole("admin", "editor")
	assert.Equal(t, http.StatusOK, callWithRole(t, mw, "admin"))
	assert.Equal(t, http.StatusOK, callWithRole(t, mw, "editor"))
}

func TestRequireRoleRejectsOthers(t *testing.T) {
	mw := RequireRole("admin")
	assert.Equal(t, http.StatusForbidden, callWithRole(t, mw, "viewer"))
	assert.Equal(t, http.StatusForbidden, callWithRole(t, mw, nil))
	assert.Equal(t, http.StatusForbidden, callWithRole(t, mw, 42))
}

func TestTokenBucketPassThroughWhenDisabled(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
