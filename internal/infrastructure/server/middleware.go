package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	httpHandlers "github.com/todolist/core/internal/adapters/http"
	"github.com/todolist/core/internal/domain/entities"
)

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods:     []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
		AllowCredentials: true,
	}))

	// Security headers
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
	}))

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Timeout middleware
	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
}

// rateLimiter throttles by client IP. Applied to the auth endpoints only,
// where credential stuffing is the concern.
func (s *Server) rateLimiter() echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(s.config.Security.RateLimitRequests),
				Burst:     s.config.Security.RateLimitRequests,
				ExpiresIn: s.config.Security.RateLimitWindow,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	})
}

// authMiddleware resolves the request's owner. Exactly one credential
// strategy is selected per request, in order: bearer token, auth cookie,
// remote session cookie. The first credential present decides the outcome;
// there is no fallback to the next strategy on failure.
func (s *Server) authMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ownerID, err := s.resolveOwner(c)
			if err != nil {
				return writeUnauthorized(c)
			}

			c.Set(httpHandlers.OwnerContextKey, ownerID)
			return next(c)
		}
	}
}

func (s *Server) resolveOwner(c echo.Context) (uuid.UUID, error) {
	ctx := c.Request().Context()

	if auth := c.Request().Header.Get(echo.HeaderAuthorization); auth != "" {
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok {
			return uuid.Nil, entities.ErrUnauthorized
		}
		return s.authService.AuthenticateToken(ctx, token)
	}

	if cookie, err := c.Cookie(s.config.Auth.CookieName); err == nil && cookie.Value != "" {
		return s.authService.AuthenticateToken(ctx, cookie.Value)
	}

	if s.sessionValidator.Enabled() {
		if cookie, err := c.Cookie(s.config.Auth.SessionCookie); err == nil && cookie.Value != "" {
			return s.sessionValidator.Authenticate(ctx, cookie.Value)
		}
	}

	return uuid.Nil, entities.ErrUnauthorized
}

func writeUnauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, httpHandlers.ErrorResponse{
		ErrorCode: "UNAUTHORIZED",
		Message:   "Not authenticated",
	})
}
