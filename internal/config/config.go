package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the service reads at startup.
type Config struct {
	AppPort   string
	APIPrefix string

	DatabaseDriver string // "postgres" or "sqlite"
	DatabaseDSN    string

	JWTSecret string
	JWTTTL    time.Duration

	LogLevel  string
	LogFormat string

	RabbitMQURL   string // empty disables activity events
	RabbitMQQueue string

	Admin AdminConfig

	TopPostsLimit int
}

// AdminConfig describes an optional admin account created at startup.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

// Enabled reports whether a bootstrap admin was configured.
func (a AdminConfig) Enabled() bool {
	return a.Email != "" && a.Password != ""
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":3000")
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=social_network port=5432 sslmode=disable")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "feed_events")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("TOP_POSTS_LIMIT", 5)
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:        v.GetString("APP_PORT"),
		APIPrefix:      strings.TrimRight(v.GetString("API_PREFIX"), "/"),
		DatabaseDriver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTTTL:         v.GetDuration("JWT_TTL"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		RabbitMQQueue:  v.GetString("RABBITMQ_QUEUE"),
		Admin: AdminConfig{
			Username: v.GetString("ADMIN_USERNAME"),
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		TopPostsLimit: v.GetInt("TOP_POSTS_LIMIT"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.JWTTTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be a positive duration, got %q", v.GetString("JWT_TTL"))
	}
	switch cfg.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	if cfg.TopPostsLimit <= 0 {
		cfg.TopPostsLimit = 5
	}
	return cfg, nil
}
