package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/catalogstudio/auth-service/internal/handler"
	"github.com/catalogstudio/auth-service/internal/middleware"
	"github.com/catalogstudio/auth-service/internal/model"
	"github.com/catalogstudio/auth-service/internal/repository"
)

// RegisterRoutes registers routes that need no authentication or rate
// limiting.  Currently that is only the health check used by load
// balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the auth endpoints.  The unauthenticated group under
// /v1/auth carries the rate limiter: login and the three reset steps are
// exactly the endpoints an attacker can grind on.  Protected endpoints
// under /v1 require a valid session token; any of the three roles may read
// its own profile.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rate echo.MiddlewareFunc,
	tokens *repository.TokenRepo, users *repository.UserRepo) {

	g := e.Group("/v1/auth")
	g.Use(rate)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/password/reset", a.PasswordResetRequest)
	g.POST("/password/reset/verify", a.PasswordResetVerify)
	g.POST("/password/reset/confirm", a.PasswordResetConfirm)

	authed := e.Group("/v1")
	authed.Use(middleware.TokenAuth(tokens, users))
	authed.Use(middleware.RequireRole(model.RoleAdmin, model.RoleEditor, model.RoleViewer))
	authed.GET("/me", a.Me)
}
