package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultMaxBatchSize = 1000

// Config represents the recorder configuration
type Config struct {
	Settings Settings      `yaml:"settings"`
	Inputs   []InputConfig `yaml:"inputs"`
	Storage  StorageConfig `yaml:"storage"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string     `yaml:"logLevel"`
	Level    slog.Level `yaml:"-"`
}

// InputConfig represents a single telemetry input to import
type InputConfig struct {
	Name           string  `yaml:"name"`
	Path           string  `yaml:"path"`
	Enabled        bool    `yaml:"enabled"`
	IMUOrientation *string `yaml:"imuOrientation"` // Stored instead of the orientation declared by the input
}

// StorageConfig represents storage settings
type StorageConfig struct {
	DataDirectory string `yaml:"dataDirectory"`
	MaxBatchSize  int    `yaml:"maxBatchSize"`
}

// LoadConfig reads and validates the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var c Config
	if err = dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err = c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.Settings.LogLevel != "" {
		if err := c.Settings.Level.UnmarshalText([]byte(c.Settings.LogLevel)); err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
	}

	if c.Storage.MaxBatchSize < 0 {
		return errors.New("max batch size must not be negative")
	}
	if c.Storage.MaxBatchSize == 0 {
		c.Storage.MaxBatchSize = defaultMaxBatchSize
	}

	names := make(map[string]struct{}, len(c.Inputs))
	for i := range c.Inputs {
		input := &c.Inputs[i]
		if input.Path == "" {
			return fmt.Errorf("input %d: path is required", i)
		}
		if input.Name == "" {
			input.Name = input.Path
		}
		if _, ok := names[input.Name]; ok {
			return fmt.Errorf("input %d: duplicate name '%s'", i, input.Name)
		}
		names[input.Name] = struct{}{}
	}
	return nil
}
