package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Storage drivers accepted in STORAGE_DRIVER
const (
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds the gateway configuration
type Config struct {
	Env             string
	Port            string
	LogLevel        string
	DisplayTimezone string
	RolesFile       string
	CORSOrigins     []string

	Backend BackendConfig
	Storage StorageConfig
	Redis   RedisConfig
	DB      DBConfig
}

// BackendConfig describes the external REST backend
type BackendConfig struct {
	URL        string
	Timeout    time.Duration
	MaxRetries uint
}

type StorageConfig struct {
	Driver string
	Dir    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// IsDevelopment reports whether the gateway runs locally; cookies are not Secure then
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// LoadEnv reads a .env file into the environment if one exists
func LoadEnv(filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded, relying on environment variables")
	}
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env:             getenv("APP_ENV", EnvProduction),
		Port:            getenv("SERVER_PORT", "8080"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		DisplayTimezone: getenv("DISPLAY_TIMEZONE", "Asia/Jakarta"),
		RolesFile:       os.Getenv("ROLES_FILE"),
		CORSOrigins:     splitList(getenv("CORS_ORIGINS", "http://localhost:3000")),
		Backend: BackendConfig{
			URL: strings.TrimRight(getenv("BACKEND_URL", "http://localhost:8000/api"), "/"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getenv("STORAGE_DRIVER", DriverFile)),
			Dir:    os.Getenv("STORAGE_DIR"),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		DB: DBConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
		},
	}

	timeout, err := time.ParseDuration(getenv("BACKEND_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKEND_TIMEOUT: %w", err)
	}
	cfg.Backend.Timeout = timeout

	retries, err := strconv.ParseUint(getenv("BACKEND_MAX_RETRIES", "3"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid BACKEND_MAX_RETRIES: %w", err)
	}
	cfg.Backend.MaxRetries = uint(retries)

	redisDB, err := strconv.Atoi(getenv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.Redis.DB = redisDB

	switch cfg.Storage.Driver {
	case DriverFile, DriverRedis, DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
