package main

import (
	"flag"
	"strings"

	"github.com/riteshgrandhi/TileMapToMesh/internal/config"
)

// convertFlags holds the convert subcommand's flag set. Flags the user
// leaves unset keep the config file's values.
type convertFlags struct {
	*flag.FlagSet

	output     *string
	configPath *string
	scale      *float64
	separation *float64
	tileSize   *float64
	levels     *string
	layers     *string
	logLevel   *string
	logFile    *string
}

func newConvertFlags() *convertFlags {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	return &convertFlags{
		FlagSet:    fs,
		output:     fs.String("o", "", "Output .obj path"),
		configPath: fs.String("config", "", "YAML config file"),
		scale:      fs.Float64("scale", 1.0, "World units per grid cell"),
		separation: fs.Float64("separation", 0.1, "Z distance between stacked layers"),
		tileSize:   fs.Float64("tile-size", 1.0, "Tiled cell size in world units"),
		levels:     fs.String("level", "", "Comma-separated level filter"),
		layers:     fs.String("layer", "", "Comma-separated layer filter"),
		logLevel:   fs.String("log-level", "", "Log level (debug, info, warn, error)"),
		logFile:    fs.String("log-file", "", "Log file path"),
	}
}

// loadConfig loads the configuration and applies explicitly set flags on
// top of it.
func loadConfig(fs *convertFlags) (*config.Config, error) {
	cfg, err := config.Load(*fs.configPath)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			cfg.Output.Path = *fs.output
		case "scale":
			cfg.Import.Scale = float32(*fs.scale)
		case "separation":
			cfg.Import.LayerSeparation = float32(*fs.separation)
		case "tile-size":
			cfg.Import.TileSize = float32(*fs.tileSize)
		case "level":
			cfg.Import.Levels = splitList(*fs.levels)
		case "layer":
			cfg.Import.Layers = splitList(*fs.layers)
		case "log-level":
			cfg.Logging.Level = *fs.logLevel
		case "log-file":
			cfg.Logging.LogFile = *fs.logFile
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
