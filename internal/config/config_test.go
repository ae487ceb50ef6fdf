package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("expected default driver memory, got %s", cfg.Storage.Driver)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default level info, got %s", cfg.Logging.Level)
	}
	if cfg.Server.ShutdownTimeout.Std() != 10*time.Second {
		t.Errorf("expected default shutdown timeout 10s, got %s", cfg.Server.ShutdownTimeout.Std())
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
  read_timeout: 30s
logging:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout.Std() != 30*time.Second {
		t.Errorf("expected read timeout 30s, got %s", cfg.Server.ReadTimeout.Std())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %s", cfg.Logging.Level)
	}
	// Untouched keys keep their defaults.
	if cfg.Server.WriteTimeout.Std() != 10*time.Second {
		t.Errorf("expected default write timeout 10s, got %s", cfg.Server.WriteTimeout.Std())
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 9090\n")
	t.Setenv("PORT", "7070")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("expected env port 7070, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected env level warn, got %s", cfg.Logging.Level)
	}
}

func TestLoad_PostgresDriverFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/tradedesk")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.Driver != "postgres" {
		t.Errorf("expected driver postgres, got %s", cfg.Storage.Driver)
	}
	if cfg.Storage.PostgresURL != "postgres://localhost/tradedesk" {
		t.Errorf("unexpected URL %s", cfg.Storage.PostgresURL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{"bad port", "server:\n  port: 0\n", nil},
		{"bad level", "logging:\n  level: verbose\n", nil},
		{"bad driver", "storage:\n  driver: cassandra\n", nil},
		{"postgres without url", "storage:\n  driver: postgres\n", nil},
		{"bad duration", "server:\n  read_timeout: fast\n", nil},
		{"bad env port", "", map[string]string{"PORT": "not-a-number"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.yaml != "" {
				path = writeConfigFile(t, tt.yaml)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}
