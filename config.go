package airtable

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/tablekit/airtable.go/pkg/logger"
	"github.com/tablekit/airtable.go/pkg/models"
	"github.com/tablekit/airtable.go/pkg/shapes"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvStrict   = "AIRTABLE_STRICT"
	EnvLogLevel = "AIRTABLE_LOG_LEVEL"
	EnvLogPath  = "AIRTABLE_LOG_PATH"
)

// LogConfig selects where model events are logged and from which level.
type LogConfig struct {
	Level string `yaml:"level"`
	// Path, when set, appends log lines to a file instead of stdout.
	Path string `yaml:"path"`
}

// Config holds the settings of the modeling layer.
type Config struct {
	// Strict rejects keys a shape or class does not declare.
	Strict bool      `yaml:"strict"`
	Log    LogConfig `yaml:"log"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Log: LogConfig{Level: zerolog.LevelInfoValue},
	}
}

// LoadConfig reads a YAML config file over the defaults. Unknown keys are an
// error.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := NewConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides the config with the AIRTABLE_* environment variables.
func (c *Config) ApplyEnv() error {
	strict, err := GetEnvBool(EnvStrict, c.Strict)
	if err != nil {
		return err
	}
	c.Strict = strict
	c.Log.Level = GetEnvOrDefault(EnvLogLevel, c.Log.Level)
	c.Log.Path = GetEnvOrDefault(EnvLogPath, c.Log.Path)
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Log.Level == "" {
		return fmt.Errorf("log level is required")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return nil
}

// Mode returns the parse mode selected by Strict.
func (c *Config) Mode() models.Mode {
	if c.Strict {
		return models.Strict
	}
	return models.Lenient
}

// ParseOptions returns the options to pass to models.Parse.
func (c *Config) ParseOptions() []models.ParseOption {
	return []models.ParseOption{models.WithMode(c.Mode())}
}

// ShapeOptions returns the options to pass to shapes.Validate.
func (c *Config) ShapeOptions() []shapes.Option {
	if c.Strict {
		return []shapes.Option{shapes.Strict()}
	}
	return nil
}

// NewLogger builds the configured logger and installs it in the models
// package. Without a log path it writes to w, or stdout if w is nil. The
// caller closes the returned LogData.
func (c *Config) NewLogger(w io.Writer) (*logger.LogData, error) {
	build := logger.New().WithLevel(c.Log.Level)
	if w != nil {
		build = build.FromBuffer(w)
	}
	if c.Log.Path != "" {
		build = build.FromPath(c.Log.Path)
	}
	logData, err := build.Make()
	if err != nil {
		return nil, err
	}
	models.SetLogger(logData.Logger)
	return logData, nil
}

// Dump returns the config as YAML.
func (c *Config) Dump() ([]byte, error) {
	return yaml.Marshal(c)
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
