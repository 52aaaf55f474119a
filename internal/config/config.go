package config

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the process-level settings read from the environment.
type Config struct {
	Addr string `envconfig:"HTTP_ADDR" default:":8080"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBUser     string `envconfig:"DB_USER" default:"user"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"password"`
	DBName     string `envconfig:"DB_NAME" default:"dmchatdb"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	JWTSecret    string        `envconfig:"JWT_SECRET" default:"dev_secret_change_me"`
	TokenTTL     time.Duration `envconfig:"TOKEN_TTL" default:"168h"`
	HistoryLimit int           `envconfig:"HISTORY_LIMIT" default:"200"`

	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		glog.Warningf("no .env file loaded: %v", err)
	}

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if c.HistoryLimit <= 0 || c.HistoryLimit > DefaultHistoryLimit {
		c.HistoryLimit = DefaultHistoryLimit
	}
	return &c, nil
}

// PostgresDSN builds the libpq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}
