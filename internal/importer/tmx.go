package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lafriks/go-tiled"
	"go.uber.org/zap"

	"github.com/riteshgrandhi/TileMapToMesh/internal/host"
	"github.com/riteshgrandhi/TileMapToMesh/internal/logger"
	"github.com/riteshgrandhi/TileMapToMesh/internal/tileset"
)

// TMX imports Tiled maps (.tmx) through go-tiled. Every visible tile
// layer becomes one mesh object; object groups are out of scope.
type TMX struct {
	host *host.Registry
	opts Options
}

// NewTMX creates a Tiled importer writing through the given host.
func NewTMX(reg *host.Registry, opts Options) *TMX {
	return &TMX{host: reg, opts: opts}
}

// Import converts the map at path. It returns an error only for an
// unreadable or malformed map file; per-layer failures degrade to skips
// recorded in the Report.
func (imp *TMX) Import(path string) (*Report, error) {
	m, err := tiled.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}
	logger.Info("loaded Tiled map",
		zap.String("path", path),
		zap.Int("width", m.Width),
		zap.Int("height", m.Height),
		zap.Int("layers", len(m.Layers)),
		zap.Int("tilesets", len(m.Tilesets)))

	resolver := imp.resolveTilesets(m)

	mapName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	rep := &Report{}

	if err := imp.host.Scene.NewCollection(mapName); err != nil {
		return nil, fmt.Errorf("creating collection %s: %w", mapName, err)
	}
	rep.Levels++

	z := float32(0)
	for _, layer := range m.Layers {
		if imp.importLayer(m, layer, resolver, mapName, z, rep) {
			z -= imp.opts.LayerSeparation
		}
	}

	for _, og := range m.ObjectGroups {
		logger.Info("skipping object group", zap.String("group", og.Name))
	}

	logger.Info("Tiled import finished",
		zap.Int("objects", rep.Objects),
		zap.Int("droppedTiles", rep.DroppedTiles))
	return rep, nil
}

// resolveTilesets registers every tileset of the map, keyed by first
// gid, which is unique per map.
func (imp *TMX) resolveTilesets(m *tiled.Map) *tileset.Resolver {
	resolver := tileset.NewResolver(imp.host.Images, imp.host.Materials)

	for _, ts := range m.Tilesets {
		if ts.Image == nil {
			logger.Warn("tileset has no image, skipping", zap.String("tileset", ts.Name))
			continue
		}
		imagePath := ts.GetFileFullPath(ts.Image.Source)
		err := resolver.Register(int(ts.FirstGID), ts.Name, imagePath, ts.TileWidth, ts.TileHeight)
		if err != nil {
			logger.Warn("skipping tileset", zap.String("tileset", ts.Name), zap.Error(err))
		}
	}

	return resolver
}

// importLayer builds and commits one tile layer. It reports whether an
// object was created, which advances the Z stacking offset.
func (imp *TMX) importLayer(m *tiled.Map, layer *tiled.Layer, resolver *tileset.Resolver, mapName string, z float32, rep *Report) bool {
	if !imp.opts.includeLayer(layer.Name) {
		logger.Info("layer not selected for import", zap.String("layer", layer.Name))
		rep.SkippedLayers++
		return false
	}
	if !layer.Visible {
		logger.Info("skipping hidden layer", zap.String("layer", layer.Name))
		rep.SkippedLayers++
		return false
	}

	p := buildParams{
		gridW:     m.TileWidth,
		gridH:     m.TileHeight,
		scale:     imp.opts.Scale * imp.opts.TileSize,
		z:         z,
		cellQuads: true,
		level:     mapName,
		layer:     layer.Name,
	}

	msh := composite(walkTMXLayer(m, layer), resolver, p, rep)
	if msh.Empty() {
		return false
	}

	name := mapName + "_" + layer.Name
	if err := imp.host.Scene.NewMeshObject(mapName, name, msh); err != nil {
		logger.Error("failed to create mesh object", zap.String("object", name), zap.Error(err))
		return false
	}

	logger.Debug("created mesh object",
		zap.String("object", name),
		zap.Int("vertices", len(msh.Vertices)),
		zap.Int("faces", len(msh.Faces)),
		zap.Int("materials", len(msh.Materials)))
	rep.Objects++
	return true
}

// walkTMXLayer yields one instance per populated grid cell, positioned
// at the cell's top-left pixel.
func walkTMXLayer(m *tiled.Map, layer *tiled.Layer) Seq {
	return func(yield func(Instance) bool) {
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				t := layer.Tiles[y*m.Width+x]
				if t.IsNil() || t.Tileset == nil {
					continue
				}

				rect := t.Tileset.GetTileRect(t.ID)
				inst := Instance{
					PxX:        x * m.TileWidth,
					PxY:        y * m.TileHeight,
					SrcX:       rect.Min.X,
					SrcY:       rect.Min.Y,
					FlipX:      t.HorizontalFlip,
					FlipY:      t.VerticalFlip,
					TilesetUID: int(t.Tileset.FirstGID),
				}
				if !yield(inst) {
					return
				}
			}
		}
	}
}
