package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment names accepted in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// Database drivers accepted in DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// MemoryDSN is the sqlite DSN used for the non-persistent testing store.
const MemoryDSN = ":memory:"

// Config holds the configuration values for the application.
type Config struct {
	Env             string
	ListenPort      string
	DBDriver        string
	DatabaseURI     string
	ReplicaURIs     []string
	Debug           bool
	LogLevel        string
	LogFormat       string
	AllowOrigins    []string
	ShutdownTimeout time.Duration
}

// LoadConfig loads configuration from an optional .env file and the
// environment, falling back to per-environment defaults.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	env := strings.ToLower(getEnv("APP_ENV", EnvDevelopment))
	switch env {
	case EnvDevelopment, EnvProduction, EnvTesting:
	default:
		return nil, fmt.Errorf("unknown APP_ENV %q", env)
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", DriverSQLite))
	if env == EnvTesting {
		driver = DriverSQLite
	}
	switch driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}

	databaseURI := os.Getenv("DATABASE_URI")
	if databaseURI == "" {
		if driver != DriverSQLite {
			return nil, fmt.Errorf("DATABASE_URI is required for driver %s", driver)
		}
		databaseURI = "database.db"
		if env == EnvTesting {
			databaseURI = MemoryDSN
		}
	}

	debug, err := getBool("DEBUG", env == EnvDevelopment)
	if err != nil {
		return nil, err
	}

	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	shutdownTimeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	allowOrigins := splitList(getEnv("CORS_ALLOW_ORIGINS", "*"))
	for _, origin := range allowOrigins {
		if !validOrigin(origin) {
			return nil, fmt.Errorf("invalid CORS_ALLOW_ORIGINS entry %q: want * or an http(s) origin", origin)
		}
	}

	return &Config{
		Env:             env,
		ListenPort:      getEnv("LISTEN_PORT", "5000"),
		DBDriver:        driver,
		DatabaseURI:     databaseURI,
		ReplicaURIs:     splitList(os.Getenv("DATABASE_REPLICA_URIS")),
		Debug:           debug,
		LogLevel:        getEnv("LOG_LEVEL", logLevel),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		AllowOrigins:    allowOrigins,
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.ListenPort
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func validOrigin(origin string) bool {
	if origin == "*" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
