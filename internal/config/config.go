package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds all environment configuration values for the application.
// Values are read from the environment, with a .env file loaded first if present.
type Config struct {
	// ServerPort is the port the HTTP server listens on
	ServerPort string `envconfig:"PORT" default:"8080"`

	// CORSOrigins is the comma-separated list of allowed browser origins
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`

	// LogLevel selects the zerolog global level (trace, debug, info, warn, error)
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the .env file if one exists, then populates Config from
// environment variables, falling back to the struct defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	return &cfg, nil
}
