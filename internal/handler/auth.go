package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/catalogstudio/auth-service/internal/model"
	"github.com/catalogstudio/auth-service/internal/service/auth"
)

// AuthHandler adapts the auth service to HTTP.  It owns no state beyond the
// service reference; every request is an independent unit of work.
type AuthHandler struct {
	Svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler { return &AuthHandler{Svc: svc} }

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}
type resetRequestReq struct {
	Email string `json:"email"`
}
type resetVerifyReq struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}
type resetConfirmReq struct {
	UID         string `json:"uid"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type userPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
}

func toUserPart(u model.User) userPart {
	return userPart{ID: u.ID, Username: u.Username, Email: u.Email, Name: u.Name, Avatar: u.Avatar, Role: u.Role}
}

// genericResetMsg is returned by the reset-request endpoint whether or not
// the email maps to an account, so responses cannot confirm membership.
const genericResetMsg = "If an account exists, an OTP has been sent."

// Login exchanges credentials for the user's opaque session token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	token, u, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": auth.ErrMissingFields.Error()})
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.ErrInvalidCredentials.Error()})
		}
		return internal(c, "login", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  toUserPart(u),
	})
}

// Register creates an account and returns its public profile.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Svc.Register(ctx, req.Username, req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": auth.ErrMissingFields.Error()})
		case errors.Is(err, auth.ErrUserExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": auth.ErrUserExists.Error()})
		}
		return internal(c, "register", err)
	}
	return c.JSON(http.StatusCreated, toUserPart(u))
}

// Me returns the profile of the authenticated user placed in context by the
// token middleware.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := c.Get("user").(model.User)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, toUserPart(u))
}

// PasswordResetRequest starts the OTP flow.  The response is the same
// generic success regardless of whether the email exists.
func (h *AuthHandler) PasswordResetRequest(c echo.Context) error {
	var req resetRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Svc.RequestReset(ctx, req.Email); err != nil {
		if errors.Is(err, auth.ErrMissingFields) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": auth.ErrMissingFields.Error()})
		}
		return internal(c, "password reset request", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": genericResetMsg})
}

// PasswordResetVerify trades a live OTP for the (uid, token) pair that the
// confirm step requires.
func (h *AuthHandler) PasswordResetVerify(c echo.Context) error {
	var req resetVerifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	uid, token, err := h.Svc.VerifyReset(ctx, req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": auth.ErrMissingFields.Error()})
		case errors.Is(err, auth.ErrInvalidOTP):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": auth.ErrInvalidOTP.Error()})
		case errors.Is(err, auth.ErrOTPExpired):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": auth.ErrOTPExpired.Error()})
		}
		return internal(c, "password reset verify", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "OTP Verified",
		"uid":     uid,
		"token":   token,
	})
}

// PasswordResetConfirm applies the new password when the presented token
// still verifies against the user's current hash.
func (h *AuthHandler) PasswordResetConfirm(c echo.Context) error {
	var req resetConfirmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Svc.ConfirmReset(ctx, req.UID, req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": auth.ErrMissingFields.Error()})
		case errors.Is(err, auth.ErrInvalidLink):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": auth.ErrInvalidLink.Error()})
		case errors.Is(err, auth.ErrInvalidOrExpiredToken):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": auth.ErrInvalidOrExpiredToken.Error()})
		}
		return internal(c, "password reset confirm", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password has been reset successfully."})
}

// reqCtx bounds every handler's downstream work with the same timeout.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

func internal(c echo.Context, op string, err error) error {
	log.Printf("handler: %s failed: %v", op, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
