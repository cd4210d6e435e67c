package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/socialfeed/internal/flagx"
	"github.com/dmitrijs2005/socialfeed/internal/timex"
)

// JsonConfig mirrors Config for JSON decoding. Durations accept either a
// Go duration string ("1h") or integer nanoseconds.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	MongoDatabase         string         `json:"mongo_database"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	BcryptCost            int            `json:"bcrypt_cost"`
	LogLevel              string         `json:"log_level"`
	LogFormat             string         `json:"log_format"`
	AllowedOrigins        []string       `json:"allowed_origins"`
	ShutdownTimeout       timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays values from the JSON file named by -c/-config (or the
// CONFIG environment variable). Fields absent from the file keep their
// current value. An unreadable or malformed file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)

	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
