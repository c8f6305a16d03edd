package database

import (
	"fmt"
	"net/url"
)

// DatabaseConfig holds MongoDB connection configuration
type DatabaseConfig struct {
	// URI is the full MongoDB connection string (mongodb:// or mongodb+srv://)
	URI string

	// Name is the database holding the restaurant collection
	Name string

	// Collection is the restaurant collection name
	Collection string
}

// String returns a string representation with credentials masked
func (c *DatabaseConfig) String() string {
	return fmt.Sprintf("DatabaseConfig{URI: %s, Name: %s, Collection: %s}",
		maskURI(c.URI), c.Name, c.Collection)
}

// maskURI masks the password in a MongoDB connection string
func maskURI(uri string) string {
	if uri == "" {
		return ""
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return "[REDACTED_INVALID_URI]"
	}

	if parsed.User != nil {
		parsed.User = url.UserPassword(parsed.User.Username(), "[REDACTED]")
	}

	return parsed.String()
}
