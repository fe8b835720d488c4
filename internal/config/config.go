package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the typed view of the process environment.
type Config struct {
	Env      string
	Port     string
	LogLevel string
	Timezone string

	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Storage StorageConfig

	AllowOrigins string
}

type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// Disabled skips Redis entirely; the balance cache and the reference
	// sequence fall back to their no-op implementations.
	Disabled bool
}

type JWTConfig struct {
	Secret    string
	AccessTTL time.Duration
	Issuer    string
}

type StorageConfig struct {
	Root      string
	PublicURL string
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// Load reads the whole configuration from the environment.
func Load() Config {
	return Config{
		Env:      GetEnv("ENV", "development"),
		Port:     GetEnv("PORT", "3000"),
		LogLevel: GetEnv("LOG_LEVEL", "info"),
		Timezone: GetEnv("APP_TIMEZONE", "Asia/Ho_Chi_Minh"),
		DB: DBConfig{
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "ecom"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
			Disabled: GetBoolEnv("REDIS_DISABLED", false),
		},
		JWT: JWTConfig{
			Secret:    GetEnv("JWT_SECRET", "change-me"),
			AccessTTL: GetDurationEnv("JWT_ACCESS_TTL", 24*time.Hour),
			Issuer:    GetEnv("JWT_ISSUER", "ecom-api"),
		},
		Storage: StorageConfig{
			Root:      GetEnv("STORAGE_ROOT", "storage/public"),
			PublicURL: GetEnv("STORAGE_PUBLIC_URL", "http://localhost:3000/storage"),
		},
		AllowOrigins: GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
	}
}

// Location resolves the deployment reference timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("unknown APP_TIMEZONE %q, using UTC: %v", c.Timezone, err)
		return time.UTC
	}
	return loc
}

// DSN builds the Postgres connection string.
func (c DBConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode
}

// Addr is the host:port pair for the Redis client.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
