package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func ctxWithIP(method, target, route, ip string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(route)
	return c
}

func TestRateKeySegments(t *testing.T) {
	a := rateKey("rl", ctxWithIP(http.MethodGet, "/api/user/cars", "/api/user/cars", "10.0.0.1"))
	assert.Equal(t, "rl:ip:10.0.0.1:route:GET /api/user/cars", a)

	// Separate buckets per client IP and per route.
	b := rateKey("rl", ctxWithIP(http.MethodGet, "/api/user/cars", "/api/user/cars", "10.0.0.2"))
	assert.NotEqual(t, a, b)
	p := rateKey("rl", ctxWithIP(http.MethodPost, "/api/bookings/create", "/api/bookings/create", "10.0.0.1"))
	assert.NotEqual(t, a, p)
}
