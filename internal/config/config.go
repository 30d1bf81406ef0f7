// Package config loads server configuration from the environment, with
// command-line overrides for the listen address.
package config

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Config struct {
	Host string `env:"TASKS_API_HOST" envDefault:""`
	Port int    `env:"TASKS_API_PORT" envDefault:"8080"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Store     string `env:"TASKS_API_STORE" envDefault:"memory"`
	SQLiteDSN string `env:"TASKS_API_SQLITE_DSN" envDefault:"file:users-tasks-api?mode=memory&cache=shared"`

	RequestTimeout  time.Duration `env:"TASKS_API_REQUEST_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"TASKS_API_SHUTDOWN_TIMEOUT" envDefault:"5s"`

	RateLimitRPS   float64 `env:"TASKS_API_RATE_LIMIT_RPS" envDefault:"0"`
	RateLimitBurst int     `env:"TASKS_API_RATE_LIMIT_BURST" envDefault:"20"`

	CORSOrigins []string `env:"TASKS_API_CORS_ORIGINS" envDefault:"*" envSeparator:","`

	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	TraceStdout  bool   `env:"TASKS_API_TRACE_STDOUT" envDefault:"false"`
}

// Addr is the host:port the server listens on.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Parse reads the environment, then lets -host and -port override it.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Host, "host", cfg.Host, "The interface to bind")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The HTTP server port")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	switch c.Store {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("unknown store %q: want %s or %s", c.Store, StoreMemory, StoreSQLite)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit burst must be at least 1 when rate limiting is on")
	}
	return nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
