// Package config holds the file configuration for the snowloader CLI.
package config

import (
	"os"
	"path"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// Config holds the pipeline configuration.
type Config struct {
	AWS       AWSConfig       `yaml:"aws"`
	Snowflake SnowflakeConfig `yaml:"snowflake"`
	Handler   HandlerConfig   `yaml:"handler,omitempty"`
}

// AWSConfig locates the landing bucket raw files are uploaded to and the
// stage area adjusted files are written to.
type AWSConfig struct {
	Region        string `yaml:"region"`
	LandingBucket string `yaml:"landing_bucket"`
	RawPrefix     string `yaml:"raw_prefix,omitempty"`
	StageBucket   string `yaml:"stage_bucket"`
	StagePrefix   string `yaml:"stage_prefix,omitempty"`
}

// SnowflakeConfig identifies the destination table and the external stage.
type SnowflakeConfig struct {
	// DSN is a gosnowflake connection string, e.g.
	// "user:pass@account/db/schema?warehouse=wh".
	DSN string `yaml:"dsn"`

	Database string `yaml:"database"`
	Schema   string `yaml:"schema"`
	Table    string `yaml:"table"`
	Stage    string `yaml:"stage"`

	// StorageIntegration names the integration the stage reads S3 through.
	// Only used by the setup command; creating the integration itself is an
	// account administration step outside this tool.
	StorageIntegration string `yaml:"storage_integration,omitempty"`
}

// HandlerConfig tunes the ingestion handler.
type HandlerConfig struct {
	Name    string `yaml:"name,omitempty"`
	Pattern string `yaml:"pattern,omitempty"`
	Strict  bool   `yaml:"strict,omitempty"`
}

// DefaultConfigPath returns the config file path used when none is given.
func DefaultConfigPath() string {
	return "config.yaml"
}

// Load reads the config file and applies defaults.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, xerrors.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, xerrors.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Handler.Name == "" {
		c.Handler.Name = "household-energy"
	}
	if c.Handler.Pattern == "" && c.AWS.RawPrefix != "" {
		c.Handler.Pattern = "^" + path.Clean(c.AWS.RawPrefix) + "/"
	}
}
