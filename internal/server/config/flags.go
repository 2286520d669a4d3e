package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/budgetguard/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-e string   GenAI API base endpoint
//	-m string   GenAI model name
//	-k string   GenAI API key
//	-w int      GenAI call timeout, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-e", "-m", "-k", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityMinutes := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")

	fs.StringVar(&config.GenAIEndpoint, "e", config.GenAIEndpoint, "GenAI API base endpoint")
	fs.StringVar(&config.GenAIModel, "m", config.GenAIModel, "GenAI model name")
	fs.StringVar(&config.GenAIAPIKey, "k", config.GenAIAPIKey, "GenAI API key")

	genAITimeoutSeconds := fs.Int("w", int(config.GenAITimeout.Seconds()), "GenAI call timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityMinutes) * time.Minute
	config.GenAITimeout = time.Duration(*genAITimeoutSeconds) * time.Second
}
