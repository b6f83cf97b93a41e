package middleware // middleware contains reusable HTTP middleware functions

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-rental-marketplace/internal/repository"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the resolved user identity into the request
// context. The subject claim is looked up against the users table on
// every request so a role upgrade (customer → owner) takes effect
// immediately instead of waiting for the token to be reissued.
// Handlers downstream read `c.Get("user_id")` (uint64) and
// `c.Get("role")` (string).
func JWTAuth(secret string, users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse with HS256 only; reject any other signing method.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid claims"})
			}

			var uid uint64
			switch sub := claims["sub"].(type) {
			case float64:
				uid = uint64(sub)
			}
			if uid == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid token"})
			}

			// Resolve the user so the role is authoritative, not the
			// possibly stale token claim.
			u, err := users.GetByID(c.Request().Context(), uid)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unknown user"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "auth lookup failed"})
			}

			c.Set("user_id", u.ID)
			c.Set("role", u.Role)
			return next(c)
		}
	}
}
