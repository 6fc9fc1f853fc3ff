// Package config handles importer configuration loading and validation.
package config

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrNonPositiveScale    = errors.New("import scale must be positive")
	ErrNegativeSeparation  = errors.New("layer separation must not be negative")
	ErrNonPositiveTileSize = errors.New("tile size must be positive")
)

// Config holds all importer settings.
type Config struct {
	Import  ImportConfig  `yaml:"import"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// ImportConfig holds the conversion parameters.
type ImportConfig struct {
	// Scale multiplies world-space placement of every vertex.
	Scale float32 `yaml:"scale"`
	// LayerSeparation is the Z distance between stacked layers.
	LayerSeparation float32 `yaml:"layer_separation"`
	// TileSize is the world size of one grid cell on the Tiled path.
	TileSize float32 `yaml:"tile_size"`
	// Levels restricts the import to the named levels (empty = all).
	Levels []string `yaml:"levels"`
	// Layers restricts the import to the named layers (empty = all).
	Layers []string `yaml:"layers"`
}

// OutputConfig holds output file settings.
type OutputConfig struct {
	// Path is the target OBJ file. Empty derives it from the source name.
	Path string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Import: ImportConfig{
			Scale:           1.0,
			LayerSeparation: 0.1,
			TileSize:        1.0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks the conversion parameters.
func (c *Config) Validate() error {
	if c.Import.Scale <= 0 {
		return fmt.Errorf("%w: %v", ErrNonPositiveScale, c.Import.Scale)
	}
	if c.Import.LayerSeparation < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeSeparation, c.Import.LayerSeparation)
	}
	if c.Import.TileSize <= 0 {
		return fmt.Errorf("%w: %v", ErrNonPositiveTileSize, c.Import.TileSize)
	}
	return nil
}
