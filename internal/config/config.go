// Package config loads process-wide settings from the environment once at
// startup. Nothing below main reads the environment directly.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// MinPasswordFloor is the lowest minimum password length that may be configured.
	MinPasswordFloor = 4
)

// Config holds runtime settings for the API server.
type Config struct {
	Port        string `env:"PORT"         envDefault:"8080"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	Env         string `env:"APP_ENV"      envDefault:"development"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabasePath   string `env:"DATABASE_PATH"   envDefault:"hublocal.db"`
	DatabaseURL    string `env:"DATABASE_URL"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"hublocal"`
	JWTTTL    time.Duration `env:"JWT_TTL"    envDefault:"24h"`

	BcryptCost        int `env:"BCRYPT_COST"         envDefault:"10"`
	PasswordMinLength int `env:"PASSWORD_MIN_LENGTH" envDefault:"8"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Login and registration attempts per client IP.
	AuthRate  float64 `env:"AUTH_RATE_PER_SECOND" envDefault:"0.2"`
	AuthBurst float64 `env:"AUTH_BURST"           envDefault:"10"`
}

// Load reads an optional .env file and then parses the environment.
func Load() (Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsDevelopment reports whether the process runs in local development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate rejects configurations the server must not start with.
func (c Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost))
	}
	if c.PasswordMinLength < MinPasswordFloor || c.PasswordMinLength > 72 {
		errs = append(errs, fmt.Errorf("PASSWORD_MIN_LENGTH must be between %d and 72, got %d", MinPasswordFloor, c.PasswordMinLength))
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabasePath == "" {
			errs = append(errs, errors.New("DATABASE_PATH is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DatabaseDriver))
	}

	if c.AuthBurst < 1 {
		errs = append(errs, fmt.Errorf("AUTH_BURST must be at least 1, got %v", c.AuthBurst))
	}
	if c.AuthRate < 0 {
		errs = append(errs, fmt.Errorf("AUTH_RATE_PER_SECOND must not be negative, got %v", c.AuthRate))
	}

	return errors.Join(errs...)
}
