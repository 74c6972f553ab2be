package config

import (
	"fmt"
	"os"
	"strconv"
)

// AppConfig holds non-database application settings
type AppConfig struct {
	JWTSecret   string
	JWTExpHours int64
	ServerPort  string
}

// LoadAppConfig loads application configuration from environment variables.
// A missing signing secret is a fatal startup condition, never a per-request
// error, so it is reported here.
func LoadAppConfig() (*AppConfig, error) {
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}

	expHours := int64(24)
	if v := os.Getenv("JWT_EXPIRATION_HOURS"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS %q", v)
		}
		expHours = parsed
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080" // Default port
	}

	return &AppConfig{
		JWTSecret:   secret,
		JWTExpHours: expHours,
		ServerPort:  port,
	}, nil
}
