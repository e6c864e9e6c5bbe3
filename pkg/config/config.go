package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	Engine EngineConfig
	Export ExportConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	Environment    string
	ServiceName    string
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	CORSOrigins    string // Comma-separated list of allowed origins
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisAddr returns the host:port address of the Redis server.
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// EngineConfig holds configuration for the external directions engine.
type EngineConfig struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
	TrafficAware   bool   // attach departure_time=now to requests
	Units          string // metric or imperial
	BreakerEnabled bool
}

// ExportConfig holds configuration for the navigation export component.
type ExportConfig struct {
	Platform string // host platform for availability gating: android, ios or web
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists; env vars win over file values
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Environment:    getEnv("ENVIRONMENT", "development"),
			ServiceName:    serviceName,
			ReadTimeout:    getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:   getEnvInt("SERVER_WRITE_TIMEOUT", 45),
			RequestTimeout: getEnvInt("REQUEST_TIMEOUT", 60),
			CORSOrigins:    getEnv("CORS_ORIGINS", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Engine: EngineConfig{
			APIKey:         getEnv("DIRECTIONS_API_KEY", ""),
			BaseURL:        getEnv("DIRECTIONS_BASE_URL", ""),
			TimeoutSeconds: getEnvInt("DIRECTIONS_TIMEOUT", 30),
			TrafficAware:   getEnvBool("DIRECTIONS_TRAFFIC_AWARE", true),
			Units:          getEnv("DIRECTIONS_UNITS", "imperial"),
			BreakerEnabled: getEnvBool("DIRECTIONS_BREAKER_ENABLED", true),
		},
		Export: ExportConfig{
			Platform: getEnv("EXPORT_PLATFORM", "android"),
		},
	}

	if cfg.Engine.TimeoutSeconds <= 0 {
		cfg.Engine.TimeoutSeconds = 30
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
