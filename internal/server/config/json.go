package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/budgetguard/internal/flagx"
	"github.com/dmitrijs2005/budgetguard/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "10s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files; its set fields are overlaid onto the runtime Config.
type JsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	GenAIEndpoint               string         `json:"genai_endpoint"`
	GenAIModel                  string         `json:"genai_model"`
	GenAIAPIKey                 string         `json:"genai_api_key"`
	GenAITimeout                timex.Duration `json:"genai_timeout"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. Fields left out of the JSON file
// keep their current values. If the file cannot be read or contains invalid
// JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	if c.GenAIEndpoint != "" {
		config.GenAIEndpoint = c.GenAIEndpoint
	}
	if c.GenAIModel != "" {
		config.GenAIModel = c.GenAIModel
	}
	if c.GenAIAPIKey != "" {
		config.GenAIAPIKey = c.GenAIAPIKey
	}
	if c.GenAITimeout.Duration != 0 {
		config.GenAITimeout = time.Duration(c.GenAITimeout.Duration)
	}
}
