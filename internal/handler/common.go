package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Business outcomes are signaled with a boolean `success` field in the
// body; the existing front end branches on that flag rather than on the
// HTTP status. Authorization, missing-resource and unexpected failures
// additionally surface as 403/404/500.

// fail writes a business-failure body with the given HTTP status.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}

// getUserID extracts the user_id stored by the JWT middleware and
// converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole extracts the role stored by the JWT middleware.
func getRole(c echo.Context) string {
	if r, ok := c.Get("role").(string); ok {
		return r
	}
	return ""
}

// unauthorized is the shared response when the identity is missing.
func unauthorized(c echo.Context) error {
	return fail(c, http.StatusUnauthorized, "unauthorized")
}
