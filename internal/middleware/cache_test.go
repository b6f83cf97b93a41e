package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newGetCtx(target, route string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(route)
	return c
}

func TestCacheKeyPerConcreteURL(t *testing.T) {
	// Two different cars matched by the same :id route must never share
	// a cache entry.
	a := cacheKey("cache", newGetCtx("/api/user/cars/1", "/api/user/cars/:id"))
	b := cacheKey("cache", newGetCtx("/api/user/cars/2", "/api/user/cars/:id"))
	assert.NotEqual(t, a, b)

	// The same URL maps to the same key on repeat requests.
	assert.Equal(t, a, cacheKey("cache", newGetCtx("/api/user/cars/1", "/api/user/cars/:id")))
}

func TestCacheKeyIncludesQuery(t *testing.T) {
	a := cacheKey("cache", newGetCtx("/api/user/cars?location=Berlin", "/api/user/cars"))
	b := cacheKey("cache", newGetCtx("/api/user/cars?location=Paris", "/api/user/cars"))
	assert.NotEqual(t, a, b)
}
