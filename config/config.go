// config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the API needs at process start.
type Config struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8000"`

	Database DatabaseConfig
	Auth     AuthConfig
	R2       R2Config

	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	PublishInterval time.Duration `env:"PUBLISH_INTERVAL" envDefault:"1m"`
}

// DatabaseConfig mirrors the DATABASE_* variables. URL wins when set.
type DatabaseConfig struct {
	URL          string `env:"DATABASE_URL"`
	Host         string `env:"DATABASE_HOST" envDefault:"localhost"`
	Port         int    `env:"DATABASE_PORT" envDefault:"5432"`
	User         string `env:"DATABASE_USER"`
	Password     string `env:"DATABASE_PASSWORD"`
	Name         string `env:"DATABASE_NAME"`
	SSLMode      string `env:"DATABASE_SSLMODE" envDefault:"disable"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
}

type AuthConfig struct {
	SecretKey      string        `env:"SECRET_KEY,required,notEmpty"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_EXPIRE" envDefault:"1440m"`
}

// R2Config configures the announcement image bucket. Uploads are disabled
// when AccountID is empty.
type R2Config struct {
	AccountID       string `env:"CLOUDFLARE_ACCOUNT_ID"`
	AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	AccessKeySecret string `env:"R2_ACCESS_KEY_SECRET"`
	Bucket          string `env:"R2_BUCKET_NAME"`
	CDNBaseURL      string `env:"CDN_BASE_URL"`
}

func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.Bucket != ""
}

// DSN returns the postgres connection string.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Database.URL == "" && (c.Database.User == "" || c.Database.Name == "") {
		return fmt.Errorf("DATABASE_URL or DATABASE_USER and DATABASE_NAME are required")
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE must be positive")
	}
	if c.PublishInterval <= 0 {
		return fmt.Errorf("PUBLISH_INTERVAL must be positive")
	}
	return nil
}
