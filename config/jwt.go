// formajoy-api/config/jwt.go
package config

import (
	"log/slog"
	"os"
	"time"
)

var (
	JwtKey    []byte
	JwtExpire time.Duration
)

// LoadJWT reads the signing key and token lifetime from the environment.
// Must run after godotenv has loaded the .env file.
func LoadJWT() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Error("JWT_SECRET environment variable is not set")
		os.Exit(1)
	}
	JwtKey = []byte(secret)

	JwtExpire = 30 * 24 * time.Hour
	if v := os.Getenv("JWT_EXPIRE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Error("invalid JWT_EXPIRE value", "value", v, "error", err)
			os.Exit(1)
		}
		JwtExpire = d
	}
}
