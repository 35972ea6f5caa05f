package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Gradebook/internal/grades"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Auth     AuthConfig     `yaml:"auth"`
	Grading  GradingConfig  `yaml:"grading"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port         int      `yaml:"port"`
	MetricsPort  int      `yaml:"metrics_port"`
	AdminToken   string   `yaml:"admin_token"`
	CORSOrigins  []string `yaml:"cors_origins"`
	RateLimitRPM int      `yaml:"rate_limit_rpm"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	URL    string `yaml:"url"`
}

// HermesConfig points at NATS. An empty URL disables the event bus.
type HermesConfig struct {
	URL string `yaml:"url"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Issuer    string `yaml:"issuer"`
}

type GradingConfig struct {
	DefaultScale  string `yaml:"default_scale"`
	DefaultMethod string `yaml:"default_method"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Scale returns the configured default scale, falling back to standard_40.
func (c *Config) Scale() grades.Scale {
	if s, ok := grades.ParseScale(c.Grading.DefaultScale); ok {
		return s
	}
	return grades.ScaleStandard
}

// Method returns the configured default method, falling back to ucd_21.
func (c *Config) Method() grades.Method {
	if m, ok := grades.ParseMethod(c.Grading.DefaultMethod); ok {
		return m
	}
	return grades.MethodClassificationPoint
}

func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for driver %q", c.Database.Driver)
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if _, ok := grades.ParseScale(c.Grading.DefaultScale); !ok {
		return fmt.Errorf("unknown grading.default_scale %q", c.Grading.DefaultScale)
	}
	if _, ok := grades.ParseMethod(c.Grading.DefaultMethod); !ok {
		return fmt.Errorf("unknown grading.default_method %q", c.Grading.DefaultMethod)
	}
	return nil
}

func Load(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         8700,
			MetricsPort:  8701,
			CORSOrigins:  []string{"*"},
			RateLimitRPM: 120,
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			URL:    "gradebook.db",
		},
		Auth: AuthConfig{
			Issuer: "gradebook",
		},
		Grading: GradingConfig{
			DefaultScale:  string(grades.ScaleStandard),
			DefaultMethod: string(grades.MethodClassificationPoint),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// loadDotEnv reads GRADEBOOK_ENV_FILE (default .env) when it exists.
// Variables already set in the process environment win.
func loadDotEnv() error {
	path := os.Getenv("GRADEBOOK_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GRADEBOOK_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("GRADEBOOK_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("GRADEBOOK_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("GRADEBOOK_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.CORSOrigins = origins
	}
	if v := os.Getenv("GRADEBOOK_RATE_LIMIT_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimitRPM = n
		}
	}
	if v := os.Getenv("GRADEBOOK_DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("GRADEBOOK_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("GRADEBOOK_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("GRADEBOOK_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("GRADEBOOK_JWT_ISSUER"); v != "" {
		cfg.Auth.Issuer = v
	}
	if v := os.Getenv("GRADEBOOK_DEFAULT_SCALE"); v != "" {
		cfg.Grading.DefaultScale = v
	}
	if v := os.Getenv("GRADEBOOK_DEFAULT_METHOD"); v != "" {
		cfg.Grading.DefaultMethod = v
	}
	if v := os.Getenv("GRADEBOOK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("GRADEBOOK_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
