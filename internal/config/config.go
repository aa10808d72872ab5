package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	MySQL MySQLConfig

	RedisAddr     string
	RedisPassword string

	RabbitMQURL      string
	RabbitMQExchange string

	JWTSecret        string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration

	UploadDir   string
	CORSOrigins []string
}

type MySQLConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Database string
}

// Load reads .env (if present) and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:     getenv("PORT", "8080"),
		GinMode:  getenv("GIN_MODE", "release"),
		LogLevel: getenv("LOG_LEVEL", "info"),
		MySQL: MySQLConfig{
			User:     getenv("MYSQL_USER", "root"),
			Password: os.Getenv("MYSQL_PASSWORD"),
			Host:     getenv("MYSQL_HOST", "localhost"),
			Port:     getenv("MYSQL_PORT", "3306"),
			Database: getenv("MYSQL_DATABASE", "storefront"),
		},
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange: getenv("RABBITMQ_EXCHANGE", "storefront.exchange"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		AccessTokenTTL:   getduration("ACCESS_TOKEN_TTL", 4*time.Hour),
		RefreshTokenTTL:  getduration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		UploadDir:        getenv("UPLOAD_DIR", "uploads"),
		CORSOrigins:      splitCSV(getenv("CORS_ORIGINS", "*")),
	}
}

func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTRefreshSecret == "" {
		return errors.New("JWT_REFRESH_SECRET is required")
	}
	if c.JWTSecret == c.JWTRefreshSecret {
		return errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
