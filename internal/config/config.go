// Package config loads the echofetch configuration from a YAML file.
//
// The loaded Config is an explicit value handed to each entry point; nothing
// in this package (or anywhere else) keeps process-wide mutable defaults.
package config

import (
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/seabeam/echofetch/internal/errs"
)

// Config is the full echofetch configuration.
type Config struct {
	Log       Log       `yaml:"log"`
	Staging   Staging   `yaml:"staging"`
	Cache     Cache     `yaml:"cache"`
	Archive   Archive   `yaml:"archive"`
	Local     Local     `yaml:"local"`
	Registry  Registry  `yaml:"registry"`
	Converter Converter `yaml:"converter"`
	Server    Server    `yaml:"server"`
}

// Log configures structured logging.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Staging configures the local download/staging directory. It is created on
// first use if absent.
type Staging struct {
	Dir string `yaml:"dir"`
}

// Cache configures the write-back object-storage cache bucket.
type Cache struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
}

// Archive configures the authoritative read-only public archive.
type Archive struct {
	Endpoint string `yaml:"endpoint"`
	UseSSL   bool   `yaml:"use_ssl"`
	Region   string `yaml:"region"`
	Bucket   string `yaml:"bucket"`
}

// Local configures the on-premises blob container (connection-string auth).
// Optional: an empty connection string disables the local backend.
type Local struct {
	ConnectionString string `yaml:"connection_string"`
	Container        string `yaml:"container"`
}

// Registry configures the optional artifact-metadata registry database.
// An empty DSN disables it.
type Registry struct {
	Driver string `yaml:"driver"` // postgres or mysql
	DSN    string `yaml:"dsn"`
}

// Converter configures the external raw→netCDF converter command.
type Converter struct {
	Command string        `yaml:"command"`
	Timeout time.Duration `yaml:"timeout"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `yaml:"addr"`
}

// Default returns a configuration pointing at the public NCEI water-column
// sonar archive, with everything else left for the caller to fill in.
func Default() *Config {
	return &Config{
		Log:     Log{Level: "info", Format: "json"},
		Staging: Staging{Dir: "./echofetch-staging"},
		Archive: Archive{
			Endpoint: "s3.amazonaws.com",
			UseSSL:   true,
			Region:   "us-east-1",
			Bucket:   "noaa-wcsd-pds",
		},
		Converter: Converter{Command: "echopype-convert", Timeout: 30 * time.Minute},
		Server:    Server{Addr: ":8080"},
	}
}

// Load reads path, layers it over Default, and validates the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "cannot read config file", err)
	}
	return Parse(raw)
}

// Parse decodes YAML bytes over Default and validates the result.
func Parse(raw []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "malformed config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the parts of the configuration every entry point needs.
// Backend-specific fields are checked by the component that uses them.
func (c *Config) Validate() error {
	if c.Archive.Bucket == "" {
		return errs.New(errs.ErrKindInvalidInput, "archive.bucket must be set")
	}
	if c.Staging.Dir == "" {
		return errs.New(errs.ErrKindInvalidInput, "staging.dir must be set")
	}
	if c.Registry.DSN != "" {
		switch c.Registry.Driver {
		case "postgres", "mysql":
		default:
			return errs.Newf(errs.ErrKindInvalidInput,
				"registry.driver must be postgres or mysql, got %q", c.Registry.Driver)
		}
	}
	return nil
}
