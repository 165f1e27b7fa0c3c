package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/todolist/core/internal/application/services"
	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/infrastructure/config"
	"github.com/todolist/core/internal/infrastructure/logger"
	"github.com/todolist/core/internal/ports"
)

// AuthHandler handles registration, login and session endpoints.
type AuthHandler struct {
	authService *services.AuthService
	authConfig  config.AuthConfig
	jwtConfig   config.JWTConfig
	secure      bool
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler. secure controls the cookie
// Secure flag and should be true in production.
func NewAuthHandler(authService *services.AuthService, authConfig config.AuthConfig, jwtConfig config.JWTConfig, secure bool, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		authConfig:  authConfig,
		jwtConfig:   jwtConfig,
		secure:      secure,
		logger:      logger,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, &entities.ValidationError{Field: "body", Message: "invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, &entities.ValidationError{Field: "body", Message: err.Error()})
	}

	response, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	h.setAuthCookie(c, response.AccessToken)

	return c.JSON(http.StatusCreated, response)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, &entities.ValidationError{Field: "body", Message: "invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, &entities.ValidationError{Field: "body", Message: err.Error()})
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	h.setAuthCookie(c, response.AccessToken)

	return c.JSON(http.StatusOK, response)
}

// Logout handles POST /auth/logout by expiring the auth cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie := &http.Cookie{
		Name:     h.authConfig.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.authService.GetUser(c.Request().Context(), ownerIDFromContext(c))
	if err != nil {
		h.logger.Error("Get current user failed", "error", err)
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) setAuthCookie(c echo.Context, token string) {
	cookie := &http.Cookie{
		Name:     h.authConfig.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.jwtConfig.ExpiresIn),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
	c.SetCookie(cookie)
}
