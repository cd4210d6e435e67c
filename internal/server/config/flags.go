package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/socialfeed/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":4000")
//	-d string   store DSN (postgres://, mongodb://, memory://)
//	-m string   MongoDB database name
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-b int      bcrypt cost
//	-l string   log level
//	-f string   log format (json|text)
//	-o string   comma separated CORS origins
//
// os.Args is filtered with flagx.FilterArgs first so -c/-config and flags of
// other components do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-m", "-s", "-t", "-b", "-l", "-f", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MongoDatabase, "m", config.MongoDatabase, "mongodb database name")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")

	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format (json|text)")

	origins := fs.String("o", strings.Join(config.AllowedOrigins, ","), "allowed CORS origins, comma separated")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -t only counts minutes, so it must not clobber a finer env or JSON value.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		}
	})
	config.AllowedOrigins = splitList(*origins)
}
