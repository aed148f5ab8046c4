// Package config provides configuration loading and management for headmetrics.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"headmetrics/internal/models"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the application configuration loaded from YAML
type Config struct {
	// Volume describes how mask slices are placed in RAS space
	Volume struct {
		models.Geometry `yaml:",inline"`

		// Threshold is the normalised intensity above which a pixel is segmented
		Threshold float64 `yaml:"threshold"`

		// Label selects the segment; 0 means every non-background voxel
		Label uint16 `yaml:"label"`
	} `yaml:"volume"`

	// Circumference sweep parameters
	Circumference struct {
		// StartPercent is the first height percentage evaluated
		StartPercent float64 `yaml:"startPercent"`

		// EndPercent is the last height percentage evaluated (inclusive)
		EndPercent float64 `yaml:"endPercent"`

		// StepPercent is the increment between evaluated heights
		StepPercent float64 `yaml:"stepPercent"`

		// NumWorkers specifies how many goroutines evaluate slices
		NumWorkers int `yaml:"numWorkers"`
	} `yaml:"circumference"`

	// Surface extraction parameters
	Surface struct {
		// MeshCells is the marching cubes resolution along the longest axis
		MeshCells int `yaml:"meshCells"`
	} `yaml:"surface"`

	// Planes parameters
	Planes struct {
		// Offset is the distance in mm between the top of the head and its plane
		Offset float64 `yaml:"offset"`

		// DisplaySize is the edge length in mm of exported plane models
		DisplaySize float64 `yaml:"displaySize"`
	} `yaml:"planes"`

	// Output parameters
	Output struct {
		// Dir is where scenes, images and reports are written
		Dir string `yaml:"dir"`

		// SaveScene determines whether result models are exported
		SaveScene bool `yaml:"saveScene"`

		// ImageSize is the edge length in pixels of the slice preview
		ImageSize int `yaml:"imageSize"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default volume parameters
	cfg.Volume.Geometry = models.DefaultGeometry()
	cfg.Volume.Threshold = 0.5

	// Set default sweep parameters
	cfg.Circumference.StartPercent = 40
	cfg.Circumference.EndPercent = 100
	cfg.Circumference.StepPercent = 1
	cfg.Circumference.NumWorkers = runtime.NumCPU() // Use all available cores by default

	// Set default surface parameters
	cfg.Surface.MeshCells = 200

	// Set default plane parameters
	cfg.Planes.Offset = 1.0
	cfg.Planes.DisplaySize = 300

	// Set default output parameters
	cfg.Output.Dir = "headmetrics_output"
	cfg.Output.SaveScene = true
	cfg.Output.ImageSize = 512
	cfg.Output.Verbose = true

	return cfg
}

// Validate rejects settings that would fail later in the pipeline
func (c *Config) Validate() error {
	for axis, s := range c.Volume.Spacing {
		if s <= 0 {
			return fmt.Errorf("%w: volume.spacing[%d] must be positive, got %v", ErrInvalidConfig, axis, s)
		}
	}
	if c.Volume.Threshold < 0 || c.Volume.Threshold >= 1 {
		return fmt.Errorf("%w: volume.threshold must be in [0, 1), got %v", ErrInvalidConfig, c.Volume.Threshold)
	}
	if c.Circumference.StepPercent <= 0 {
		return fmt.Errorf("%w: circumference.stepPercent must be positive, got %v", ErrInvalidConfig, c.Circumference.StepPercent)
	}
	if c.Circumference.StartPercent > c.Circumference.EndPercent {
		return fmt.Errorf("%w: circumference.startPercent %v is above endPercent %v",
			ErrInvalidConfig, c.Circumference.StartPercent, c.Circumference.EndPercent)
	}
	if c.Surface.MeshCells <= 0 {
		return fmt.Errorf("%w: surface.meshCells must be positive, got %d", ErrInvalidConfig, c.Surface.MeshCells)
	}
	if c.Planes.DisplaySize <= 0 {
		return fmt.Errorf("%w: planes.displaySize must be positive, got %v", ErrInvalidConfig, c.Planes.DisplaySize)
	}
	if c.Output.ImageSize <= 0 {
		return fmt.Errorf("%w: output.imageSize must be positive, got %d", ErrInvalidConfig, c.Output.ImageSize)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
