// Package config loads mlmdctl's configuration file. Implements: spec
// §10 "Ambient stack", modeled on the reference CLI's viper-based
// config.yaml loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	KeyDialect    = "dialect"
	KeyDSN        = "dsn"
	KeyMaxRetries = "max_retries"
	KeyOTLPEndpoint = "otlp_endpoint"

	DefaultDialect    = "sqlite"
	DefaultMaxRetries = 1
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# mlmdctl configuration

# Dialect selects the SQL backend: sqlite or mysql.
dialect: sqlite

# Data source name. For sqlite this is a file path; for mysql a DSN
# understood by github.com/go-sql-driver/mysql.
dsn: mlmd.db

# Number of times a type-registration call is retried after losing a
# race on a unique-constraint violation.
max_retries: 1

# OTLP/HTTP collector endpoint for traces and metrics. Empty disables
# telemetry export.
# otlp_endpoint:
`

// Load reads config.yaml from configDir using Viper, creating the
// directory and a default file on first run. A missing config.yaml is
// not an error; defaults apply.
func Load(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(KeyDialect, DefaultDialect)
	v.SetDefault(KeyMaxRetries, DefaultMaxRetries)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
