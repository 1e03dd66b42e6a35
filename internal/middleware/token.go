package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/catalogstudio/auth-service/internal/repository"
)

// TokenAuth returns an Echo middleware that resolves an opaque session
// token ("Authorization: Token <key>") against the auth_tokens table and
// loads the owning user into the request context under "user", "user_id"
// and "role".  The token scheme matches what the login endpoint hands out:
// the key itself carries no claims, so every request does a store lookup.
func TokenAuth(tokens *repository.TokenRepo, users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authz := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Token ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing session token"})
			}
			key := strings.TrimSpace(strings.TrimPrefix(authz, "Token "))
			if key == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing session token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			userID, err := tokens.UserIDByKey(ctx, key)
			if err != nil {
				if err == sql.ErrNoRows {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session token"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session lookup failed"})
			}
			u, err := users.GetByID(ctx, userID)
			if err != nil || !u.IsActive {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session token"})
			}

			c.Set("user", u)
			c.Set("user_id", u.ID)
			c.Set("role", u.Role)
			return next(c)
		}
	}
}
