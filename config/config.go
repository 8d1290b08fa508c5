// config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"

	MergePolicyZone     = "zone"
	MergePolicyInterval = "interval"
)

type ServerConfig struct {
	Port string `yaml:"port" default:"8080"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver" default:"sqlite3" validate:"oneof=sqlite3 mysql"`
	Path     string `yaml:"path" default:"timezones.db"` // sqlite3 only
	Host     string `yaml:"host" default:"localhost"`
	Port     string `yaml:"port" default:"3306"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname" default:"timezones"`
}

type APIConfig struct {
	BaseURL    string        `yaml:"base_url" default:"http://api.timezonedb.com/v2.1/" validate:"required,url"`
	Key        string        `yaml:"key"`
	TimeoutStr string        `yaml:"timeout" default:"30s"`
	Timeout    time.Duration `yaml:"-"` // Parsed duration
}

type ImportConfig struct {
	MaxAttempts       int           `yaml:"max_attempts" default:"100" validate:"min=1"`
	BackoffStr        string        `yaml:"backoff" default:"1s"`
	MergePolicy       string        `yaml:"merge_policy" default:"zone" validate:"oneof=zone interval"`
	TimestampLocation string        `yaml:"timestamp_location" default:"UTC"`
	Backoff           time.Duration `yaml:"-"` // Parsed duration
}

type LoggingConfig struct {
	Level      string `yaml:"level" default:"info"`
	Format     string `yaml:"format" default:"console" validate:"oneof=json console"`
	OutputPath string `yaml:"output_path" default:"stdout"`
}

type MetricsConfig struct {
	// Textfile, when set, receives a prometheus text dump after each import run.
	Textfile string `yaml:"textfile"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	API      APIConfig      `yaml:"api"`
	Import   ImportConfig   `yaml:"import"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// LoadConfig reads configuration from the YAML file at configPath, then overlays
// environment variables (a .env file in the working directory is loaded first).
// A missing file is not an error; defaults apply.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	if configPath != "" {
		file, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// keep defaults
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(file, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	_ = godotenv.Load()
	applyEnv(cfg)

	if err := cfg.parseDurations(); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("TIMEZONEDB_API_KEY")); v != "" {
		cfg.API.Key = v
	}
	if v := strings.TrimSpace(os.Getenv("TZIMPORT_DB_PATH")); v != "" {
		cfg.Database.Path = v
	}
	if v := strings.TrimSpace(os.Getenv("TZIMPORT_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
}

func (c *Config) parseDurations() error {
	var err error
	c.API.Timeout, err = time.ParseDuration(c.API.TimeoutStr)
	if err != nil {
		return fmt.Errorf("failed to parse api timeout: %w", err)
	}
	c.Import.Backoff, err = time.ParseDuration(c.Import.BackoffStr)
	if err != nil {
		return fmt.Errorf("failed to parse import backoff: %w", err)
	}
	if _, err := time.LoadLocation(c.Import.TimestampLocation); err != nil {
		return fmt.Errorf("failed to load timestamp location %q: %w", c.Import.TimestampLocation, err)
	}
	return nil
}

// Location returns the zone used when formatting API timestamps.
func (c ImportConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimestampLocation)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RequireAPIKey is checked by commands that talk to the remote API.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.API.Key) == "" {
		return errors.New("api key is not configured (set api.key or TIMEZONEDB_API_KEY)")
	}
	return nil
}
