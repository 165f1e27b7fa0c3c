package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/todolist/core/docs"
	httpHandlers "github.com/todolist/core/internal/adapters/http"
	"github.com/todolist/core/internal/adapters/repository"
	"github.com/todolist/core/internal/application/services"
	"github.com/todolist/core/internal/infrastructure/config"
	"github.com/todolist/core/internal/infrastructure/database"
	"github.com/todolist/core/internal/infrastructure/logger"
	"github.com/todolist/core/internal/ports"
)

// Server represents the HTTP server with all its wired dependencies. Stores
// are constructed here, at the process entry point, and injected downward;
// nothing in the application reaches for a global.
type Server struct {
	echo             *echo.Echo
	config           *config.Config
	logger           *logger.Logger
	db               *database.DB
	authService      *services.AuthService
	sessionValidator *services.SessionValidator
}

// CustomValidator wraps the validator for echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance. db may be nil for the non-Postgres
// storage drivers.
func New(cfg *config.Config, db *database.DB, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(appLogger)

	todoRepo, userRepo, err := buildRepositories(cfg, db)
	if err != nil {
		return nil, err
	}

	authService := services.NewAuthService(userRepo, cfg.JWT, appLogger.WithComponent("auth"))
	sessionValidator := services.NewSessionValidator(cfg.Auth, userRepo, appLogger.WithComponent("session"))
	todoService := services.NewTodoService(todoRepo, appLogger.WithComponent("todo"))

	secure := cfg.App.IsProduction()
	authHandler := httpHandlers.NewAuthHandler(authService, cfg.Auth, cfg.JWT, secure, appLogger.WithComponent("http"))
	todoHandler := httpHandlers.NewTodoHandler(todoService, appLogger.WithComponent("http"))

	server := &Server{
		echo:             e,
		config:           cfg,
		logger:           appLogger,
		db:               db,
		authService:      authService,
		sessionValidator: sessionValidator,
	}

	server.setupMiddleware()
	server.setupRoutes(authHandler, todoHandler)

	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

// buildRepositories selects the storage driver. Soft versus hard deletion is
// a flag on the same interface, not a separate design.
func buildRepositories(cfg *config.Config, db *database.DB) (ports.TodoRepository, ports.UserRepository, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if db == nil {
			return nil, nil, fmt.Errorf("postgres driver requires a database connection")
		}
		return repository.NewTodoPostgresRepository(db.DB, cfg.Storage.HardDelete),
			repository.NewUserPostgresRepository(db.DB), nil

	case config.DriverMemory:
		return repository.NewTodoMemoryRepository(cfg.Storage.HardDelete),
			repository.NewUserMemoryRepository(), nil

	case config.DriverFile:
		todoRepo, err := repository.NewTodoFileRepository(cfg.Storage.FilePath, cfg.Storage.HardDelete)
		if err != nil {
			return nil, nil, err
		}
		return todoRepo, repository.NewUserMemoryRepository(), nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes(authHandler *httpHandlers.AuthHandler, todoHandler *httpHandlers.TodoHandler) {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := s.echo.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Use(s.rateLimiter())
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.Me, s.authMiddleware())

	todoGroup := v1.Group("/todos", s.authMiddleware())
	todoGroup.GET("", todoHandler.List)
	todoGroup.POST("", todoHandler.Create)
	todoGroup.GET("/:id", todoHandler.Get)
	todoGroup.PATCH("/:id", todoHandler.Update)
	todoGroup.PUT("/:id", todoHandler.Update)
	todoGroup.DELETE("/:id", todoHandler.Delete)
	todoGroup.POST("/:id/toggle", todoHandler.Toggle)
}

// Start runs the HTTP server until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout
	s.echo.Server.IdleTimeout = s.config.Server.IdleTimeout

	s.logger.Info("Starting HTTP server", "addr", addr)

	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	if s.db != nil {
		if err := s.db.HealthCheck(); err != nil {
			status = "error"
			checks["database"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		} else {
			checks["database"] = map[string]interface{}{
				"status": "ok",
				"stats":  s.db.Stats(),
			}
		}
	} else {
		checks["storage"] = map[string]interface{}{
			"status": "ok",
			"driver": s.config.Storage.Driver,
		}
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, map[string]interface{}{
		"status":  status,
		"time":    time.Now().UTC().Format(time.RFC3339),
		"checks":  checks,
		"version": s.config.App.Version,
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	if s.db != nil {
		if err := s.db.HealthCheck(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

// errorHandler renders unhandled errors in the API's error envelope.
func errorHandler(appLogger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Something went wrong"

		if httpErr, ok := err.(*echo.HTTPError); ok {
			code = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			}
		} else {
			appLogger.Error("Unhandled error", "error", err, "path", c.Path())
		}

		_ = c.JSON(code, httpHandlers.ErrorResponse{
			ErrorCode: http.StatusText(code),
			Message:   message,
		})
	}
}
