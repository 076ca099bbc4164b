package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int    `env:"PORT" envDefault:"8080"`
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"./contacts.db"`
	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	BaseURL        string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	AvatarDir      string `env:"AVATAR_DIR" envDefault:"./public/avatars"`
	TmpDir         string `env:"TMP_DIR" envDefault:"./tmp"`
	ResendAPIKey   string `env:"RESEND_API_KEY"`
	EmailFrom      string `env:"EMAIL_FROM" envDefault:"Contacts <no-reply@contacts.local>"`
	FrontendOrigin string `env:"FRONTEND_ORIGIN" envDefault:"http://localhost:3000"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from the environment, with an optional .env
// file for development.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
