package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port int    `json:"port"`
	Host string `json:"host"`

	// Database configuration
	MongoURI        string `json:"mongo_uri"`
	MongoDatabase   string `json:"mongo_database"`
	MongoCollection string `json:"mongo_collection"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Development helpers
	SeedDatabase bool `json:"seed_database"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, MongoURI: %s, MongoDatabase: %s, MongoCollection: %s, LogLevel: %s, SeedDatabase: %t}",
		c.Port, c.Host, maskMongoURI(c.MongoURI), c.MongoDatabase, c.MongoCollection, c.LogLevel, c.SeedDatabase)
}

// maskMongoURI masks the password in a MongoDB connection string
func maskMongoURI(uri string) string {
	if uri == "" {
		return ""
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return "[REDACTED_INVALID_URI]"
	}

	if parsed.User != nil {
		// Replace password with [REDACTED]
		parsed.User = url.UserPassword(parsed.User.Username(), "[REDACTED]")
	}

	return parsed.String()
}

// LoadConfig reads the proper configuration from environment variables and returns a Config struct.
// The MongoDB URI and database fall back to local development defaults when unset.
// Returns an error if any environment variable has an invalid format.
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, err
	}

	mongoURI := GetEnvWithDefault("MONGODB_URI", "mongodb://localhost:27017")
	// validate URI with net/url
	if _, err := url.Parse(mongoURI); err != nil {
		return nil, fmt.Errorf("invalid MONGODB_URI format: %w", err)
	}

	config := &Config{
		Port:            port,
		Host:            GetEnvWithDefault("APP_HOST", "localhost"),
		MongoURI:        mongoURI,
		MongoDatabase:   GetEnvWithDefault("MONGODB_DATABASE", "restaurant_app"),
		MongoCollection: GetEnvWithDefault("MONGODB_COLLECTION", "restaurants"),
		LogLevel:        GetEnvWithDefault("LOG_LEVEL", "info"),
		SeedDatabase:    GetEnvAsType("SEED_DATABASE", false),
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Warnf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
