package config

import (
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Session SessionConfig
	Log     LogConfig
	CORS    CORSConfig
}

type ServerConfig struct {
	Port         string        `envconfig:"SERVER_PORT" default:"8501"`
	Host         string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"60s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"0s"`
}

type BackendConfig struct {
	URL string `envconfig:"BACKEND_URL" default:"http://localhost:8000"`
	// Zero leaves the HTTP client without a timeout.
	Timeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"0s"`
}

type SessionConfig struct {
	TTL             time.Duration `envconfig:"SESSION_TTL" default:"1h"`
	CleanupInterval time.Duration `envconfig:"SESSION_CLEANUP_INTERVAL" default:"10m"`
	SecureCookie    bool          `envconfig:"SESSION_COOKIE_SECURE" default:"false"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Format     string `envconfig:"LOG_FORMAT" default:"text"`
	File       string `envconfig:"LOG_FILE"`
	MaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"10"`
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"5"`
	MaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"30"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("configuration loaded successfully", "backend_url", cfg.Backend.URL)
	return &cfg, nil
}
