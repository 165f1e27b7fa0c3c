package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/infrastructure/config"
	"github.com/todolist/core/internal/infrastructure/logger"
	"github.com/todolist/core/internal/ports"
)

// SessionValidator resolves an opaque session token against a remote identity
// provider. On first sight of a remote identity it provisions a local user
// record through an explicit, idempotent upsert. The remote call is bounded
// by a short timeout; a timeout is an authentication failure, not a task
// store failure.
type SessionValidator struct {
	endpoint string
	client   *http.Client
	userRepo ports.UserRepository
	logger   *logger.Logger
}

// sessionPayload is the subset of the provider's response we care about.
type sessionPayload struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// NewSessionValidator creates a validator against cfg.SessionEndpoint.
func NewSessionValidator(cfg config.AuthConfig, userRepo ports.UserRepository, logger *logger.Logger) *SessionValidator {
	timeout := cfg.SessionTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &SessionValidator{
		endpoint: cfg.SessionEndpoint,
		client:   &http.Client{Timeout: timeout},
		userRepo: userRepo,
		logger:   logger,
	}
}

// Enabled reports whether a remote endpoint is configured.
func (v *SessionValidator) Enabled() bool {
	return v.endpoint != ""
}

// Authenticate validates the session token remotely and returns the local
// user id, provisioning the user on first sight.
func (v *SessionValidator) Authenticate(ctx context.Context, sessionToken string) (uuid.UUID, error) {
	payload, err := v.fetchSession(ctx, sessionToken)
	if err != nil {
		v.logger.Warn("Remote session validation failed", "error", err)
		return uuid.Nil, entities.ErrUnauthorized
	}

	userID, err := uuid.Parse(payload.User.ID)
	if err != nil {
		return uuid.Nil, entities.ErrUnauthorized
	}

	user, err := v.provision(ctx, userID, payload.User.Email)
	if err != nil {
		v.logger.Error("Failed to provision remote user", "error", err, "user_id", userID)
		return uuid.Nil, entities.ErrUnauthorized
	}

	return user.ID, nil
}

func (v *SessionValidator) fetchSession(ctx context.Context, sessionToken string) (*sessionPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build session request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+sessionToken)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call session endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("session endpoint returned %d", resp.StatusCode)
	}

	var payload sessionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode session response: %w", err)
	}

	if payload.User.ID == "" {
		return nil, fmt.Errorf("session response missing user id")
	}

	return &payload, nil
}

// provision upserts the local record for a remote identity. The password hash
// is empty: remotely provisioned accounts cannot log in with a password.
func (v *SessionValidator) provision(ctx context.Context, userID uuid.UUID, email string) (*entities.User, error) {
	now := time.Now().UTC()
	return v.userRepo.UpsertExternal(ctx, &entities.User{
		ID:        userID,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	})
}
