// Package config loads the connection parameters of the status table from
// statustable.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/acksell/statustable/dynamodb/table"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file searched for by Find.
const FileName = "statustable.yaml"

type Backend string

const (
	BackendBadger   Backend = "badger"
	BackendDynamoDB Backend = "dynamodb"
)

// DefaultBadgerPath is the database directory used when no path is
// configured, relative to the working directory.
const DefaultBadgerPath = ".statustable"

type Config struct {
	// Backend selects the store implementation.
	Backend Backend `yaml:"backend"`
	// Table is the physical table name.
	Table string `yaml:"table"`
	// Index is the name of the secondary index.
	Index    string `yaml:"index"`
	LogLevel string `yaml:"logLevel"`

	Badger   BadgerConfig   `yaml:"badger"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb"`
}

type BadgerConfig struct {
	// Path is the database directory. An explicit empty path means in-memory.
	Path string `yaml:"path"`
	// ReapExpired lets Badger drop items once their TTL passes.
	ReapExpired bool `yaml:"reapExpired"`
}

type DynamoDBConfig struct {
	Region string `yaml:"region"`
	// Endpoint overrides the service endpoint, e.g. http://localhost:8000
	// for DynamoDB Local.
	Endpoint string `yaml:"endpoint"`
}

func Default() Config {
	return Config{
		Backend:  BackendBadger,
		Table:    "team-status",
		Index:    table.DefaultGSIName,
		LogLevel: "info",
		Badger:   BadgerConfig{Path: DefaultBadgerPath},
	}
}

// Load reads the file at path on top of the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
// Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Find searches for FileName starting from dir and walking up to the
// filesystem root. It returns "" if there is none.
func Find(dir string) string {
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
}

// LoadDefault loads the nearest FileName above the working directory, or
// the defaults if there is none. It returns the path it loaded.
func LoadDefault() (Config, string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Config{}, "", err
	}
	path := Find(wd)
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

func (c Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendBadger:
	case BackendDynamoDB:
		if c.DynamoDB.Region == "" {
			errs = append(errs, errors.New("dynamodb.region is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if c.Table == "" {
		errs = append(errs, errors.New("table is required"))
	}
	if c.Index == "" {
		errs = append(errs, errors.New("index is required"))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("logLevel: %w", err)
	}
	return l, nil
}

// TableDefinition describes the configured table.
func (c Config) TableDefinition() table.TableDefinition {
	return table.SingleTable(c.Table, c.Index)
}
