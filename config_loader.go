package datamapper

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadConfigFromFile loads configuration from a YAML file.
//
// Example file:
//
//	strict: true
//	default_timezone: Europe/Prague
//	default_date_format: "02.01.2006"
func LoadConfigFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFromEnvironment loads configuration from environment variables,
// following the 12-factor app methodology. All variables are optional:
//
//   - DMAP_STRICT: "true"/"false" strict mode (default false)
//   - DMAP_DEFAULT_TIMEZONE: IANA zone name (default UTC)
//   - DMAP_DEFAULT_DATE_FORMAT: Go layout tried before the fallbacks
func LoadConfigFromEnvironment() (Config, error) {
	return configFromLookup(os.Getenv)
}

// LoadConfigFromEnvFile reads the same variables from a dotenv file,
// without touching the process environment.
func LoadConfigFromEnvFile(path string) (Config, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read env file: %w", err)
	}
	return configFromLookup(func(key string) string { return vars[key] })
}

func configFromLookup(getenv func(string) string) (Config, error) {
	cfg := Config{
		DefaultTimezone:   getenv(EnvDefaultTimezone),
		DefaultDateFormat: getenv(EnvDefaultDateFormat),
	}
	if raw := getenv(EnvStrict); raw != "" {
		strict, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s must be a boolean, got %q", ErrInvalidConfiguration, EnvStrict, raw)
		}
		cfg.Strict = strict
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
