package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/todolist/core/internal/adapters/repository"
	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/infrastructure/config"
	"github.com/todolist/core/internal/infrastructure/logger"
	"github.com/todolist/core/internal/ports"
)

func newAuthService() *AuthService {
	return NewAuthService(repository.NewUserMemoryRepository(), config.JWTConfig{
		Secret:    "test-secret-key",
		ExpiresIn: time.Hour,
		Issuer:    "todolist-test",
	}, logger.NewNop())
}

func TestAuthServiceRegister(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, ports.RegisterRequest{Email: "alice@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if resp.User.Email != "alice@example.com" {
		t.Errorf("Email = %q", resp.User.Email)
	}
	if resp.AccessToken == "" {
		t.Error("expected an access token")
	}
	if resp.TokenType != "Bearer" {
		t.Errorf("TokenType = %q, want Bearer", resp.TokenType)
	}
	if resp.ExpiresIn != 3600 {
		t.Errorf("ExpiresIn = %d, want 3600", resp.ExpiresIn)
	}
	if resp.User.PasswordHash == "password123" {
		t.Error("password stored in plain text")
	}
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	req := ports.RegisterRequest{Email: "alice@example.com", Password: "password123"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(ctx, req); err != entities.ErrEmailExists {
		t.Errorf("err = %v, want ErrEmailExists", err)
	}
}

func TestAuthServiceLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, ports.RegisterRequest{Email: "alice@example.com", Password: "password123"})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, ports.LoginRequest{Email: "alice@example.com", Password: "password123"})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if resp.User.ID != registered.User.ID {
			t.Errorf("user id mismatch")
		}
		if resp.AccessToken == "" {
			t.Error("expected an access token")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := svc.Login(ctx, ports.LoginRequest{Email: "alice@example.com", Password: "wrong"}); err != entities.ErrInvalidCredentials {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, err := svc.Login(ctx, ports.LoginRequest{Email: "nobody@example.com", Password: "password123"}); err != entities.ErrInvalidCredentials {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestAuthServiceTokenRoundTrip(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, ports.RegisterRequest{Email: "alice@example.com", Password: "password123"})
	if err != nil {
		t.Fatal(err)
	}

	claims, err := svc.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != resp.User.ID.String() {
		t.Errorf("UserID claim = %q, want %q", claims.UserID, resp.User.ID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Email claim = %q", claims.Email)
	}

	userID, err := svc.AuthenticateToken(ctx, resp.AccessToken)
	if err != nil {
		t.Fatalf("AuthenticateToken: %v", err)
	}
	if userID != resp.User.ID {
		t.Errorf("AuthenticateToken = %s, want %s", userID, resp.User.ID)
	}
}

func TestAuthServiceRejectsBadTokens(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.AuthenticateToken(ctx, token); err != entities.ErrUnauthorized {
			t.Errorf("AuthenticateToken(%q): err = %v, want ErrUnauthorized", token, err)
		}
	}
}

func TestAuthServiceRejectsForeignSignature(t *testing.T) {
	svc := newAuthService()
	other := NewAuthService(repository.NewUserMemoryRepository(), config.JWTConfig{
		Secret:    "a-different-secret",
		ExpiresIn: time.Hour,
		Issuer:    "todolist-test",
	}, logger.NewNop())

	token, err := other.GenerateToken(&entities.User{ID: uuid.New(), Email: "x@example.com"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.AuthenticateToken(context.Background(), token); err != entities.ErrUnauthorized {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestAuthServiceRejectsTokenForDeletedUser(t *testing.T) {
	// A valid signature is not enough; the user must still exist.
	svc := newAuthService()

	token, err := svc.GenerateToken(&entities.User{ID: uuid.New(), Email: "ghost@example.com"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.AuthenticateToken(context.Background(), token); err != entities.ErrUnauthorized {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestAuthServiceGetUser(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, ports.RegisterRequest{Email: "alice@example.com", Password: "password123"})
	if err != nil {
		t.Fatal(err)
	}

	user, err := svc.GetUser(ctx, resp.User.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Email = %q", user.Email)
	}

	if _, err := svc.GetUser(ctx, uuid.New()); err != entities.ErrUserNotFound {
		t.Errorf("unknown user: err = %v, want ErrUserNotFound", err)
	}
}
