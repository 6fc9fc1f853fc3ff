// tilemap2mesh converts LDtk projects and Tiled maps into textured
// 3D meshes in Wavefront OBJ format.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lafriks/go-tiled"

	"github.com/riteshgrandhi/TileMapToMesh/internal/config"
	"github.com/riteshgrandhi/TileMapToMesh/internal/export"
	"github.com/riteshgrandhi/TileMapToMesh/internal/host"
	"github.com/riteshgrandhi/TileMapToMesh/internal/importer"
	"github.com/riteshgrandhi/TileMapToMesh/internal/logger"
	"github.com/riteshgrandhi/TileMapToMesh/internal/texture"
	"github.com/riteshgrandhi/TileMapToMesh/pkg/ldtk"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "layers", "ls":
		cmdLayers(args)
	case "convert":
		cmdConvert(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tilemap2mesh - convert LDtk and Tiled maps to 3D meshes

Usage:
  tilemap2mesh <command> [options]

Commands:
  info <map>                  Show map information
  layers <map>                List levels and layers
  convert [options] <map>     Convert a map to a Wavefront OBJ scene

Convert options:
  -o <path>           Output .obj path (default: map name with .obj)
  -config <path>      YAML config file
  -scale <f>          World units per grid cell
  -separation <f>     Z distance between stacked layers
  -tile-size <f>      Tiled cell size in world units
  -level <names>      Comma-separated level filter (LDtk)
  -layer <names>      Comma-separated layer filter

Supported formats: .ldtk (LDtk project), .tmx (Tiled map)

Examples:
  tilemap2mesh info world.ldtk
  tilemap2mesh convert -o scene.obj -scale 2 world.ldtk
  tilemap2mesh convert -layer Ground,Walls overworld.tmx`)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// mapKind classifies a map file by extension.
func mapKind(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ldtk":
		return "ldtk"
	case ".tmx":
		return "tmx"
	default:
		return ""
	}
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tilemap2mesh info <map>")
		os.Exit(1)
	}
	path := args[0]

	switch mapKind(path) {
	case "ldtk":
		project, err := ldtk.ParseFile(path)
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Project:  %s\n", path)
		fmt.Printf("Version:  %s\n", project.JSONVersion)
		fmt.Printf("Levels:   %d\n", len(project.Levels))
		fmt.Printf("Tilesets: %d\n", len(project.Defs.Tilesets))
		for i := range project.Defs.Tilesets {
			ts := &project.Defs.Tilesets[i]
			if ts.IsEmbedded() {
				fmt.Printf("  %-20s (embedded)\n", ts.Identifier)
				continue
			}
			fmt.Printf("  %-20s %dx%d grid %d  %s\n",
				ts.Identifier, ts.PxWid, ts.PxHei, ts.TileGridSize, ts.RelPath)
		}
	case "tmx":
		m, err := tiled.LoadFile(path)
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Map:      %s\n", path)
		fmt.Printf("Size:     %dx%d cells (%dx%d px tiles)\n",
			m.Width, m.Height, m.TileWidth, m.TileHeight)
		fmt.Printf("Layers:   %d\n", len(m.Layers))
		fmt.Printf("Tilesets: %d\n", len(m.Tilesets))
		for _, ts := range m.Tilesets {
			src := "(no image)"
			if ts.Image != nil {
				src = ts.Image.Source
			}
			fmt.Printf("  %-20s %dx%d  %s\n", ts.Name, ts.TileWidth, ts.TileHeight, src)
		}
	default:
		fatalf("unsupported map format: %s", path)
	}
}

func cmdLayers(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tilemap2mesh layers <map>")
		os.Exit(1)
	}
	path := args[0]

	switch mapKind(path) {
	case "ldtk":
		project, err := ldtk.ParseFile(path)
		if err != nil {
			fatalf("%v", err)
		}
		for i := range project.Levels {
			lvl, err := project.Levels[i].Resolve(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error resolving %s: %v\n", project.Levels[i].Identifier, err)
				continue
			}
			fmt.Println(lvl.Identifier)
			for j := range lvl.LayerInstances {
				li := &lvl.LayerInstances[j]
				state := ""
				if !li.IsVisible() {
					state = "  (hidden)"
				}
				fmt.Printf("  %-20s %-10s %d tiles%s\n",
					li.Identifier, li.Type, len(li.Tiles()), state)
			}
		}
	case "tmx":
		m, err := tiled.LoadFile(path)
		if err != nil {
			fatalf("%v", err)
		}
		for _, layer := range m.Layers {
			state := ""
			if !layer.Visible {
				state = "  (hidden)"
			}
			count := 0
			for _, t := range layer.Tiles {
				if !t.IsNil() {
					count++
				}
			}
			fmt.Printf("%-20s %d tiles%s\n", layer.Name, count, state)
		}
		for _, og := range m.ObjectGroups {
			fmt.Printf("%-20s objects (not converted)\n", og.Name)
		}
	default:
		fatalf("unsupported map format: %s", path)
	}
}

func cmdConvert(args []string) {
	fs := newConvertFlags()
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tilemap2mesh convert [options] <map>")
		os.Exit(1)
	}
	mapPath := fs.Arg(0)

	kind := mapKind(mapPath)
	if kind == "" {
		fatalf("unsupported map format: %s", mapPath)
	}

	cfg, err := loadConfig(fs)
	if err != nil {
		fatalf("%v", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	outPath := cfg.Output.Path
	if outPath == "" {
		base := strings.TrimSuffix(mapPath, filepath.Ext(mapPath))
		outPath = base + ".obj"
	}

	writer := export.NewWriter(outPath)
	reg := host.NewRegistry(texture.NewCache(), writer, writer)
	opts := optionsFrom(cfg)

	var rep *importer.Report
	switch kind {
	case "ldtk":
		rep, err = importer.NewLDtk(reg, opts).Import(mapPath)
	case "tmx":
		rep, err = importer.NewTMX(reg, opts).Import(mapPath)
	}
	if err != nil {
		fatalf("%v", err)
	}

	if err := writer.Save(); err != nil {
		fatalf("%v", err)
	}

	fmt.Printf("Wrote %s\n", outPath)
	fmt.Printf("Objects:  %d\n", rep.Objects)
	if rep.SkippedLevels > 0 {
		fmt.Printf("Skipped levels: %d\n", rep.SkippedLevels)
	}
	if rep.SkippedLayers > 0 {
		fmt.Printf("Skipped layers: %d\n", rep.SkippedLayers)
	}
	if rep.DroppedTiles > 0 {
		fmt.Printf("Dropped tiles:  %d\n", rep.DroppedTiles)
	}
}

// optionsFrom maps the import section of a config onto importer options.
func optionsFrom(cfg *config.Config) importer.Options {
	return importer.Options{
		Scale:           cfg.Import.Scale,
		LayerSeparation: cfg.Import.LayerSeparation,
		TileSize:        cfg.Import.TileSize,
		Levels:          cfg.Import.Levels,
		Layers:          cfg.Import.Layers,
	}
}
