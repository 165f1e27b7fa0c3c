package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORAGE_DRIVER", DriverMemory)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Driver != DriverMemory {
		t.Errorf("Storage.Driver = %q", cfg.Storage.Driver)
	}
	if cfg.Storage.HardDelete {
		t.Error("HardDelete should default to false")
	}
	if cfg.Auth.CookieName != "access_token" {
		t.Errorf("Auth.CookieName = %q", cfg.Auth.CookieName)
	}
	if cfg.JWT.Issuer != "todolist-api" {
		t.Errorf("JWT.Issuer = %q", cfg.JWT.Issuer)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE_DRIVER", DriverMemory)

	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT secret")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORAGE_DRIVER", "cassandra")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown storage driver")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORAGE_DRIVER", DriverFile)
	t.Setenv("STORAGE_FILE_PATH", "/tmp/todos.json")
	t.Setenv("STORAGE_HARD_DELETE", "true")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Storage.Driver != DriverFile || cfg.Storage.FilePath != "/tmp/todos.json" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if !cfg.Storage.HardDelete {
		t.Error("HardDelete override not applied")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
}

func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		Name:     "todolist",
		User:     "app",
		Password: "hunter2",
		SSLMode:  "require",
	}

	want := "host=db.internal port=5433 user=app password=hunter2 dbname=todolist sslmode=require"
	if got := cfg.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}

func TestIsProduction(t *testing.T) {
	prod := AppConfig{Environment: "production"}
	dev := AppConfig{Environment: "development"}

	if !prod.IsProduction() {
		t.Error("production environment not detected")
	}
	if dev.IsProduction() {
		t.Error("development flagged as production")
	}
}
