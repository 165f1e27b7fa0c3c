package http

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/todolist/core/internal/application/query"
	"github.com/todolist/core/internal/application/services"
	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/infrastructure/logger"
	"github.com/todolist/core/internal/ports"
)

// TodoHandler handles todo requests for the authenticated owner.
type TodoHandler struct {
	todoService *services.TodoService
	logger      *logger.Logger
}

// NewTodoHandler creates a new todo handler.
func NewTodoHandler(todoService *services.TodoService, logger *logger.Logger) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
		logger:      logger,
	}
}

// Create handles POST /todos.
func (h *TodoHandler) Create(c echo.Context) error {
	var req ports.CreateTodoRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, &entities.ValidationError{Field: "body", Message: "invalid request format"})
	}

	todo, err := h.todoService.Create(c.Request().Context(), ownerIDFromContext(c), req)
	if err != nil {
		if !entities.IsValidation(err) {
			h.logger.Error("Create todo failed", "error", err)
		}
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, todo)
}

// List handles GET /todos with search, status filter and cursor pagination.
func (h *TodoHandler) List(c echo.Context) error {
	params := query.Params{
		Search: c.QueryParam("search"),
		Status: entities.Status(c.QueryParam("status")),
		Cursor: c.QueryParam("cursor"),
	}

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return writeError(c, &entities.ValidationError{Field: "limit", Message: "must be an integer"})
		}
		params.Limit = limit
	}

	response, err := h.todoService.List(c.Request().Context(), ownerIDFromContext(c), params)
	if err != nil {
		if !entities.IsValidation(err) && err != entities.ErrInvalidCursor {
			h.logger.Error("List todos failed", "error", err)
		}
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, response)
}

// Get handles GET /todos/:id.
func (h *TodoHandler) Get(c echo.Context) error {
	id, err := parseTodoID(c)
	if err != nil {
		return writeError(c, err)
	}

	todo, err := h.todoService.Get(c.Request().Context(), ownerIDFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, todo)
}

// Update handles PATCH /todos/:id with a partial field set.
func (h *TodoHandler) Update(c echo.Context) error {
	id, err := parseTodoID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req ports.UpdateTodoRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, &entities.ValidationError{Field: "body", Message: "invalid request format"})
	}

	todo, err := h.todoService.Update(c.Request().Context(), ownerIDFromContext(c), id, req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, todo)
}

// Toggle handles POST /todos/:id/toggle.
func (h *TodoHandler) Toggle(c echo.Context) error {
	id, err := parseTodoID(c)
	if err != nil {
		return writeError(c, err)
	}

	todo, err := h.todoService.Toggle(c.Request().Context(), ownerIDFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, todo)
}

// Delete handles DELETE /todos/:id.
func (h *TodoHandler) Delete(c echo.Context) error {
	id, err := parseTodoID(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.todoService.Delete(c.Request().Context(), ownerIDFromContext(c), id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func parseTodoID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, &entities.ValidationError{Field: "id", Message: "must be a valid UUID"}
	}
	return id, nil
}
