// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Client configures the aboutme CLI and terminal UI.
type Client struct {
	Endpoint string        `env:"ABOUTME_ENDPOINT" envDefault:"http://localhost:8080/invoke"`
	Token    string        `env:"ABOUTME_TOKEN"`
	Email    string        `env:"ABOUTME_EMAIL"`
	Timeout  time.Duration `env:"ABOUTME_TIMEOUT" envDefault:"15s"`
	Verbose  bool          `env:"ABOUTME_VERBOSE"`
	LogFile  string        `env:"ABOUTME_LOG_FILE"`
}

// Server configures the collaborator backend.
type Server struct {
	Addr        string   `env:"INTERLINK_ADDR" envDefault:":8080"`
	DatabaseURL string   `env:"DATABASE_URL" envDefault:"user=admin password=password dbname=interlinkdb sslmode=disable"`
	JWTSecret   string   `env:"JWT_SECRET"`
	Env         string   `env:"GO_ENV" envDefault:"development"`
	Origins     []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5173,http://localhost:3001,http://127.0.0.1:3001"`
	Verbose     bool     `env:"INTERLINK_VERBOSE"`
}

// Development reports whether the server runs outside production.
func (s Server) Development() bool {
	return s.Env == "" || s.Env == "development"
}
