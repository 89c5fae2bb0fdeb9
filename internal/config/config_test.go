package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

// unsetEnv removes keys for the duration of the test so defaults apply.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t,
		"APP_ENV", "PORT", "LOG_LEVEL",
		"DB_DRIVER", "DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD",
		"DB_NAME", "DB_SSLMODE", "DB_TIMEZONE", "DB_MAX_IDLE_CONNS", "DB_MAX_OPEN_CONNS",
		"DB_CONN_MAX_LIFETIME", "DB_LOG_LEVEL", "CORS_ALLOW_ORIGIN", "UPLOAD_MAX_BYTES",
	)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, Development, cfg.Environment())
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 100, cfg.Database.MaxOpenConns)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "http://localhost:5173", cfg.HTTP.CORSAllowOrigin)
	assert.Equal(t, 10<<20, cfg.HTTP.UploadMaxBytes)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "/tmp/catalog.db")
	t.Setenv("DB_CONN_MAX_LIFETIME", "15m")
	t.Setenv("CORS_ALLOW_ORIGIN", "https://shop.example.com")
	t.Setenv("UPLOAD_MAX_BYTES", "1024")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Environment().IsProduction())
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/catalog.db", cfg.Database.DSN())
	assert.Equal(t, 15*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "https://shop.example.com", cfg.HTTP.CORSAllowOrigin)
	assert.Equal(t, 1024, cfg.HTTP.UploadMaxBytes)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Config{
		Port: "3000",
		Database: DatabaseConfig{
			Driver:       DriverPostgres,
			MaxOpenConns: 0,
		},
		HTTP: HTTPConfig{UploadMaxBytes: -1},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_MAX_OPEN_CONNS")
	assert.Contains(t, err.Error(), "UPLOAD_MAX_BYTES")
	assert.Contains(t, err.Error(), "CORS_ALLOW_ORIGIN")
}

func TestPostgresDSN(t *testing.T) {
	d := DatabaseConfig{
		Driver:   DriverPostgres,
		Host:     "db",
		Port:     "5433",
		User:     "catalog",
		Password: "secret",
		Name:     "shop",
		SSLMode:  "require",
		TimeZone: "Europe/Istanbul",
	}
	assert.Equal(t,
		"host=db user=catalog password=secret dbname=shop port=5433 sslmode=require TimeZone=Europe/Istanbul",
		d.DSN(),
	)

	d.URL = "postgres://u:p@h/db"
	assert.Equal(t, "postgres://u:p@h/db", d.DSN())
}

func TestSQLiteDefaultDSN(t *testing.T) {
	d := DatabaseConfig{Driver: DriverSQLite}
	assert.Equal(t, "catalog.db", d.DSN())
}

func TestParseEnvironment(t *testing.T) {
	assert.Equal(t, Staging, ParseEnvironment("staging"))
	assert.Equal(t, Testing, ParseEnvironment("testing"))
	assert.Equal(t, Development, ParseEnvironment("prod"))
	assert.False(t, Development.IsProduction())
}

func TestConnectOptions(t *testing.T) {
	d := DatabaseConfig{
		Driver:          DriverSQLite,
		URL:             "file::memory:",
		MaxIdleConns:    2,
		MaxOpenConns:    4,
		ConnMaxLifetime: time.Minute,
		LogLevel:        "silent",
	}
	opts := d.ConnectOptions()
	assert.Equal(t, DriverSQLite, opts.Driver)
	assert.Equal(t, "file::memory:", opts.DSN)
	assert.Equal(t, 4, opts.MaxOpenConns)
	assert.Equal(t, time.Minute, opts.ConnMaxLifetime)
	assert.Equal(t, gormlogger.Silent, opts.LogLevel)
}
