package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/todolist/core/internal/domain/entities"
)

// ErrorResponse is the wire shape of every error this API returns.
type ErrorResponse struct {
	ErrorCode string      `json:"error_code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// MessageResponse is a plain confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// writeError maps domain errors onto HTTP status codes. Not-found is
// deliberately identical for "does not exist" and "not yours"; a malformed
// cursor is surfaced distinctly from both.
func writeError(c echo.Context, err error) error {
	var ve *entities.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			ErrorCode: "VALIDATION_ERROR",
			Message:   "Invalid input",
			Details:   []*entities.ValidationError{ve},
		})
	case errors.Is(err, entities.ErrInvalidCursor):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			ErrorCode: "INVALID_CURSOR",
			Message:   "Invalid cursor format",
		})
	case errors.Is(err, entities.ErrTodoNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{
			ErrorCode: "NOT_FOUND",
			Message:   "Todo not found",
		})
	case errors.Is(err, entities.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{
			ErrorCode: "NOT_FOUND",
			Message:   "User not found",
		})
	case errors.Is(err, entities.ErrEmailExists):
		return c.JSON(http.StatusConflict, ErrorResponse{
			ErrorCode: "EMAIL_EXISTS",
			Message:   "Email already registered",
		})
	case errors.Is(err, entities.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			ErrorCode: "INVALID_CREDENTIALS",
			Message:   "Invalid email or password",
		})
	case errors.Is(err, entities.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			ErrorCode: "UNAUTHORIZED",
			Message:   "Not authenticated",
		})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			ErrorCode: "INTERNAL_ERROR",
			Message:   "Something went wrong",
		})
	}
}

// OwnerContextKey is where the auth middleware stores the resolved owner id.
const OwnerContextKey = "owner_id"

// ownerIDFromContext returns the owner id resolved by the access boundary.
func ownerIDFromContext(c echo.Context) uuid.UUID {
	if id, ok := c.Get(OwnerContextKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
