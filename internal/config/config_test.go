package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/hublocal-manager/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "hublocal.db", cfg.DatabasePath)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 8, cfg.PasswordMinLength)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "3001")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/hublocal?sslmode=disable")
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, config.DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_MissingSecretFailsFast(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestValidate(t *testing.T) {
	valid := config.Config{
		JWTSecret:         testSecret,
		JWTTTL:            time.Hour,
		BcryptCost:        10,
		PasswordMinLength: 8,
		DatabaseDriver:    config.DriverSQLite,
		DatabasePath:      "x.db",
		AuthRate:          1,
		AuthBurst:         5,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *config.Config)
		want   string
	}{
		{"short secret", func(c *config.Config) { c.JWTSecret = "short" }, "at least 32 characters"},
		{"zero ttl", func(c *config.Config) { c.JWTTTL = 0 }, "JWT_TTL"},
		{"low cost", func(c *config.Config) { c.BcryptCost = 3 }, "BCRYPT_COST"},
		{"high cost", func(c *config.Config) { c.BcryptCost = 15 }, "BCRYPT_COST"},
		{"password floor", func(c *config.Config) { c.PasswordMinLength = 3 }, "PASSWORD_MIN_LENGTH"},
		{"unknown driver", func(c *config.Config) { c.DatabaseDriver = "mysql" }, "DATABASE_DRIVER"},
		{"postgres without url", func(c *config.Config) { c.DatabaseDriver = config.DriverPostgres }, "DATABASE_URL"},
		{"zero burst", func(c *config.Config) { c.AuthBurst = 0 }, "AUTH_BURST"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
