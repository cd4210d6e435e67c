package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// envFile is loaded, when present, before reading the environment. Values
// already set in the process environment win over the file.
var envFile = ".env"

// parseEnv overlays values from environment variables:
//
//	ENDPOINT_ADDR, DATABASE_DSN, MONGO_DATABASE, SECRET_KEY,
//	TOKEN_TTL (minutes or a duration string), BCRYPT_COST,
//	LOG_LEVEL, LOG_FORMAT, CORS_ORIGINS (comma separated).
//
// Malformed numeric values are ignored.
func parseEnv(config *Config) {
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	setString(&config.EndpointAddr, os.Getenv("ENDPOINT_ADDR"))
	setString(&config.DatabaseDSN, os.Getenv("DATABASE_DSN"))
	setString(&config.MongoDatabase, os.Getenv("MONGO_DATABASE"))
	setString(&config.SecretKey, os.Getenv("SECRET_KEY"))
	setString(&config.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&config.LogFormat, os.Getenv("LOG_FORMAT"))

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, ok := parseMinutes(v); ok {
			config.TokenValidityDuration = d
		}
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.BcryptCost = n
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		config.AllowedOrigins = splitList(v)
	}
}

// parseMinutes accepts a bare integer (minutes) or a Go duration string.
func parseMinutes(v string) (time.Duration, bool) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Minute, n > 0
	}
	d, err := time.ParseDuration(v)
	return d, err == nil && d > 0
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
