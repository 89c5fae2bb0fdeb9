package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go-color-catalog/pkg/database"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the full runtime configuration, sourced from the environment.
type Config struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	Port     string `envconfig:"PORT" default:"3000"`
	LogLevel string `envconfig:"LOG_LEVEL"`

	Database DatabaseConfig
	HTTP     HTTPConfig
}

type DatabaseConfig struct {
	Driver string `envconfig:"DB_DRIVER" default:"postgres"`
	// URL takes precedence over the discrete DB_* settings. For sqlite it is the file path.
	URL      string `envconfig:"DATABASE_URL"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME" default:"catalog"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`

	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"100"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
	LogLevel        string        `envconfig:"DB_LOG_LEVEL" default:"warn"`
}

type HTTPConfig struct {
	CORSAllowOrigin string `envconfig:"CORS_ALLOW_ORIGIN" default:"http://localhost:5173"`
	UploadMaxBytes  int    `envconfig:"UPLOAD_MAX_BYTES" default:"10485760"`
}

// Load reads the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Environment() Environment {
	return ParseEnvironment(c.Env)
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

// Validate fails fast on settings that would only surface later at runtime.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver))
	}
	if c.Database.MaxOpenConns <= 0 {
		errs = append(errs, errors.New("DB_MAX_OPEN_CONNS must be positive"))
	}
	if c.Database.MaxIdleConns < 0 {
		errs = append(errs, errors.New("DB_MAX_IDLE_CONNS must not be negative"))
	}
	if c.HTTP.UploadMaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}
	if strings.TrimSpace(c.HTTP.CORSAllowOrigin) == "" {
		errs = append(errs, errors.New("CORS_ALLOW_ORIGIN must not be empty"))
	}
	if strings.TrimSpace(c.Port) == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}

	return errors.Join(errs...)
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == DriverSQLite {
		return "catalog.db"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone,
	)
}

// ConnectOptions translates the settings for database.Connect.
func (d DatabaseConfig) ConnectOptions() database.Options {
	return database.Options{
		Driver:          d.Driver,
		DSN:             d.DSN(),
		MaxIdleConns:    d.MaxIdleConns,
		MaxOpenConns:    d.MaxOpenConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		LogLevel:        database.ParseLogLevel(d.LogLevel),
	}
}
