package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DatasetConfig defines one notebook run
type DatasetConfig struct {
	Name              string `toml:"Name"`
	IntervalInMinutes int    `toml:"IntervalInMinutes"`
	Weeks             int    `toml:"Weeks"`
}

// Config maps to the config.toml file for the notebook trainer
type Config struct {
	Executable           string          `toml:"Executable"`
	InputNotebook        string          `toml:"InputNotebook"`
	OutputDir            string          `toml:"OutputDir"`
	TimeoutInSeconds     int             `toml:"TimeoutInSeconds"`
	RunsDatabasePath     string          `toml:"RunsDatabasePath"`
	RunsRetentionSeconds int             `toml:"RunsRetentionSeconds"`
	ListenAddress        string          `toml:"ListenAddress"`
	Datasets             []DatasetConfig `toml:"Datasets"`
}

// DefaultConfig returns the built-in configuration, used when no config file is provided
func DefaultConfig() Config {
	return Config{
		Executable:           "papermill",
		InputNotebook:        "stl.ipynb",
		OutputDir:            "./out",
		TimeoutInSeconds:     0,
		RunsDatabasePath:     "./db/runs.db",
		RunsRetentionSeconds: 604800,
		ListenAddress:        "127.0.0.1:8080",
		Datasets: []DatasetConfig{
			{
				Name:              "sample_data",
				IntervalInMinutes: 5,
				Weeks:             4,
			},
		},
	}
}

// LoadConfig parses a TOML file into the Config struct. Values not present in the file are kept from the
// provided base config. A file defining datasets replaces the base datasets.
func LoadConfig(filepath string, base Config) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	cfg := base
	cfg.Datasets = nil
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	if len(cfg.Datasets) == 0 {
		cfg.Datasets = base.Datasets
	}

	err = cfg.Check()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Check returns an error if the configuration can not be used
func (cfg Config) Check() error {
	if len(cfg.Executable) == 0 {
		return ErrEmptyExecutable
	}
	if len(cfg.InputNotebook) == 0 {
		return ErrEmptyInputNotebook
	}
	if len(cfg.OutputDir) == 0 {
		return ErrEmptyOutputDir
	}
	if cfg.TimeoutInSeconds < 0 || cfg.RunsRetentionSeconds < 0 {
		return ErrNegativeDuration
	}
	if len(cfg.Datasets) == 0 {
		return ErrNoDatasets
	}
	for _, dataset := range cfg.Datasets {
		if len(dataset.Name) == 0 {
			return ErrEmptyDatasetName
		}
		if dataset.IntervalInMinutes <= 0 || dataset.Weeks <= 0 {
			return fmt.Errorf("%w for dataset %s", ErrInvalidDatasetParameters, dataset.Name)
		}
	}

	return nil
}
