package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/MikeSquared-Agency/Gradebook/internal/grades"
)

var envVars = []string{
	"GRADEBOOK_PORT", "GRADEBOOK_METRICS_PORT", "GRADEBOOK_ADMIN_TOKEN",
	"GRADEBOOK_CORS_ORIGINS", "GRADEBOOK_RATE_LIMIT_RPM",
	"GRADEBOOK_DATABASE_DRIVER", "GRADEBOOK_DATABASE_URL", "GRADEBOOK_HERMES_URL",
	"GRADEBOOK_JWT_SECRET", "GRADEBOOK_JWT_ISSUER",
	"GRADEBOOK_DEFAULT_SCALE", "GRADEBOOK_DEFAULT_METHOD",
	"GRADEBOOK_LOG_LEVEL", "GRADEBOOK_LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	// Point at a file that does not exist so a developer's .env is ignored.
	t.Setenv("GRADEBOOK_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8700 {
		t.Errorf("expected port 8700, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.RateLimitRPM != 120 {
		t.Errorf("expected rate limit 120, got %d", cfg.Server.RateLimitRPM)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("expected sqlite driver, got %s", cfg.Database.Driver)
	}
	if cfg.Hermes.URL != "" {
		t.Errorf("expected event bus disabled by default, got %s", cfg.Hermes.URL)
	}
	if cfg.Scale() != grades.ScaleStandard {
		t.Errorf("expected standard_40, got %s", cfg.Scale())
	}
	if cfg.Method() != grades.MethodClassificationPoint {
		t.Errorf("expected ucd_21, got %s", cfg.Method())
	}
	if cfg.LogLevel() != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.LogLevel())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GRADEBOOK_PORT", "9000")
	t.Setenv("GRADEBOOK_METRICS_PORT", "9001")
	t.Setenv("GRADEBOOK_ADMIN_TOKEN", "secret-token")
	t.Setenv("GRADEBOOK_CORS_ORIGINS", "https://grades.example.com, http://localhost:3000")
	t.Setenv("GRADEBOOK_DATABASE_DRIVER", "POSTGRES")
	t.Setenv("GRADEBOOK_DATABASE_URL", "postgres://localhost/gradebook_test")
	t.Setenv("GRADEBOOK_HERMES_URL", "nats://nats:4222")
	t.Setenv("GRADEBOOK_JWT_SECRET", "jwt-secret")
	t.Setenv("GRADEBOOK_DEFAULT_SCALE", "alt-linear")
	t.Setenv("GRADEBOOK_DEFAULT_METHOD", "simple")
	t.Setenv("GRADEBOOK_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 9001 {
		t.Errorf("expected metrics port 9001, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.AdminToken != "secret-token" {
		t.Errorf("expected admin token 'secret-token', got '%s'", cfg.Server.AdminToken)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "http://localhost:3000" {
		t.Errorf("unexpected cors origins %v", cfg.Server.CORSOrigins)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("expected postgres driver, got '%s'", cfg.Database.Driver)
	}
	if cfg.Database.URL != "postgres://localhost/gradebook_test" {
		t.Errorf("expected database URL, got '%s'", cfg.Database.URL)
	}
	if cfg.Hermes.URL != "nats://nats:4222" {
		t.Errorf("expected hermes URL, got '%s'", cfg.Hermes.URL)
	}
	if cfg.Auth.JWTSecret != "jwt-secret" {
		t.Errorf("expected jwt secret, got '%s'", cfg.Auth.JWTSecret)
	}
	if cfg.Scale() != grades.ScaleAltLinear {
		t.Errorf("expected alt_linear_40, got %s", cfg.Scale())
	}
	if cfg.Method() != grades.MethodSimple {
		t.Errorf("expected simple, got %s", cfg.Method())
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.LogLevel())
	}
}

func TestLoadFromYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "gradebook.yaml")
	data := `
server:
  port: 7000
  cors_origins: ["https://ucd.example.ie"]
database:
  driver: postgres
  url: postgres://db/gradebook
grading:
  default_scale: alt_linear_40
  default_method: ucd_21
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("expected port 7000, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected default metrics port to survive, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Database.Driver != DriverPostgres || cfg.Database.URL != "postgres://db/gradebook" {
		t.Errorf("unexpected database config %+v", cfg.Database)
	}
	if cfg.Scale() != grades.ScaleAltLinear {
		t.Errorf("expected alt_linear_40, got %s", cfg.Scale())
	}
	if cfg.LogLevel() != slog.LevelWarn {
		t.Errorf("expected warn level, got %v", cfg.LogLevel())
	}

	t.Setenv("GRADEBOOK_PORT", "7100")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7100 {
		t.Errorf("env should override yaml, got %d", cfg.Server.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("GRADEBOOK_ADMIN_TOKEN=from-dotenv\nGRADEBOOK_PORT=7300\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GRADEBOOK_ENV_FILE", path)
	// Already-set variables are not overridden by the file.
	t.Setenv("GRADEBOOK_PORT", "7400")
	t.Cleanup(func() { os.Unsetenv("GRADEBOOK_ADMIN_TOKEN") })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.AdminToken != "from-dotenv" {
		t.Errorf("expected admin token from .env, got '%s'", cfg.Server.AdminToken)
	}
	if cfg.Server.Port != 7400 {
		t.Errorf("expected process env to win, got %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sqlite", Config{Database: DatabaseConfig{Driver: DriverSQLite}, Grading: GradingConfig{DefaultScale: "standard_40", DefaultMethod: "ucd_21"}}, false},
		{"postgres without url", Config{Database: DatabaseConfig{Driver: DriverPostgres}, Grading: GradingConfig{DefaultScale: "standard_40", DefaultMethod: "ucd_21"}}, true},
		{"unknown driver", Config{Database: DatabaseConfig{Driver: "mysql"}, Grading: GradingConfig{DefaultScale: "standard_40", DefaultMethod: "ucd_21"}}, true},
		{"unknown scale", Config{Database: DatabaseConfig{Driver: DriverSQLite}, Grading: GradingConfig{DefaultScale: "percent", DefaultMethod: "ucd_21"}}, true},
		{"unknown method", Config{Database: DatabaseConfig{Driver: DriverSQLite}, Grading: GradingConfig{DefaultScale: "standard_40", DefaultMethod: "median"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
