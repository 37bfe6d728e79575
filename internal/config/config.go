// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Registry RegistryConfig
	Database DatabaseConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// RegistryConfig holds SIRUTA file loading settings.
type RegistryConfig struct {
	// File is the path of the semicolon-delimited SIRUTA file (required)
	File string `env:"SIRUTA_FILE" envAlt:"SIRUTA_PATH" required:"true"`

	// Strict rejects a file on its first row diagnostic (default: false)
	Strict bool `env:"SIRUTA_STRICT" default:"false"`

	// ReloadInterval is how often the file is checked for changes; 0 disables (default: 1m)
	ReloadInterval time.Duration `env:"SIRUTA_RELOAD_INTERVAL" default:"1m"`

	// ReloadWait is how long a reload request waits for a running reload (default: 5s)
	ReloadWait time.Duration `env:"SIRUTA_RELOAD_WAIT" default:"5s"`

	// Diacritics is the default rendering mode, e.g. "cedilla,pre1993" (default: none)
	Diacritics string `env:"DIACRITICS_MODE" default:"none"`
}

// DatabaseConfig holds settings for the optional PostgreSQL export.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string; export is disabled when empty
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Table is the mirror table, optionally schema-qualified (default: siruta_entities)
	Table string `env:"EXPORT_TABLE" default:"siruta_entities"`

	// ExportTimeout bounds a single export (default: 2m)
	ExportTimeout time.Duration `env:"EXPORT_TIMEOUT" default:"2m"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// Enabled reports whether an export database is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// ReloadAPIKeys is a comma-separated list of keys accepted by
	// POST /api/registry/reload in the X-API-Key header; empty leaves it open
	ReloadAPIKeys []string `env:"RELOAD_API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
