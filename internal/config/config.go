package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/fairyhunter13/taqueria-landing/internal/validator"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Log    LogConfig
	Site   SiteConfig
	Share  ShareConfig
	Deploy DeployConfig
}

// ServerConfig holds server-related configuration.
// The dev server binds all interfaces by default so the page can be opened from the local network.
type ServerConfig struct {
	Host            string  `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            string  `envconfig:"SERVER_PORT" default:"8080" validate:"required,numeric"`
	ShutdownTimeout int     `envconfig:"SHUTDOWN_TIMEOUT" default:"30" validate:"gte=1"` // seconds
	RateLimitRPS    float64 `envconfig:"RATE_LIMIT_RPS" default:"5" validate:"gt=0"`
	RateLimitBurst  int     `envconfig:"RATE_LIMIT_BURST" default:"10" validate:"gte=1"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// DBConfig holds database-related configuration.
// The click log is optional; with Enabled false no connection is attempted.
// WARNING: Default password is for local development only.
type DBConfig struct {
	Enabled  bool   `envconfig:"DB_ENABLED" default:"false"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"` // CHANGE IN PRODUCTION
	Name     string `envconfig:"DB_NAME" default:"landing_db"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"2"`
}

// DSN returns the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d&pool_min_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode, c.MaxConns, c.MinConns)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// SiteConfig holds the landing site build and serving configuration.
type SiteConfig struct {
	SourceDir        string        `envconfig:"SITE_SOURCE_DIR" default:"web/src" validate:"required,notblank"`
	OutputDir        string        `envconfig:"SITE_OUTPUT_DIR" default:"_site" validate:"required,notblank"`
	PathPrefix       string        `envconfig:"SITE_PATH_PREFIX" default:"/taquerias-landing-page/" validate:"required,startswith=/,endswith=/"`
	RefreshInterval  time.Duration `envconfig:"SITE_REFRESH_INTERVAL" default:"60s" validate:"min=1s"`
	Timezone         string        `envconfig:"SITE_TIMEZONE" default:"America/Mexico_City" validate:"required,notblank"`
	MessagingBaseURI string        `envconfig:"SITE_MESSAGING_BASE_URI" default:"https://wa.me" validate:"required,url"`
	PublicURL        string        `envconfig:"SITE_PUBLIC_URL" default:"http://localhost:8080/taquerias-landing-page/" validate:"required,url"`
}

// Location resolves the business time zone.
func (c SiteConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", c.Timezone, err)
	}
	return loc, nil
}

// ShareConfig holds the fixed tuple offered to the platform share sheet.
type ShareConfig struct {
	Title string `envconfig:"SHARE_TITLE" default:"Taquería - Los mejores tacos al pastor" validate:"required,notblank"`
	Text  string `envconfig:"SHARE_TEXT" default:"¡Mira este lugar! Los mejores tacos al pastor" validate:"required,notblank"`
}

// DeployConfig holds the S3 destination for publishing the built site.
type DeployConfig struct {
	Bucket          string `envconfig:"DEPLOY_BUCKET"`
	Region          string `envconfig:"DEPLOY_REGION" default:"us-east-1"`
	Prefix          string `envconfig:"DEPLOY_PREFIX"`
	AccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
}

// Load reads an optional .env file, parses environment variables into the Config
// struct and validates the result.
func Load() (*Config, error) {
	// .env is optional; variables already set in the environment win
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if _, err := cfg.Site.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
