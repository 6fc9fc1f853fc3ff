package importer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/riteshgrandhi/TileMapToMesh/internal/host"
	"github.com/riteshgrandhi/TileMapToMesh/internal/logger"
	"github.com/riteshgrandhi/TileMapToMesh/internal/tileset"
	"github.com/riteshgrandhi/TileMapToMesh/pkg/ldtk"
)

// LDtk imports LDtk project files. One Import call runs the whole
// pipeline synchronously: parse, resolve tilesets, then walk and
// composite every included level and layer.
type LDtk struct {
	host *host.Registry
	opts Options
}

// NewLDtk creates an LDtk importer writing through the given host.
func NewLDtk(reg *host.Registry, opts Options) *LDtk {
	return &LDtk{host: reg, opts: opts}
}

// Import converts the project at path. It returns an error only for an
// unreadable or malformed project file; everything below that degrades
// to per-level or per-layer skips recorded in the Report.
func (imp *LDtk) Import(path string) (*Report, error) {
	project, err := ldtk.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}
	logger.Info("loaded LDtk project",
		zap.String("path", path),
		zap.Int("levels", len(project.Levels)),
		zap.Int("tilesets", len(project.Defs.Tilesets)))

	resolver := imp.resolveTilesets(project, path)
	visual := intGridVisuals(project)

	rep := &Report{}
	for i := range project.Levels {
		imp.importLevel(&project.Levels[i], path, resolver, visual, rep)
	}

	logger.Info("LDtk import finished",
		zap.Int("levels", rep.Levels),
		zap.Int("objects", rep.Objects),
		zap.Int("droppedTiles", rep.DroppedTiles))
	return rep, nil
}

// resolveTilesets registers every usable tileset definition. Embedded
// icon atlases and degenerate definitions are skipped; tiles referencing
// them are dropped later by the compositor.
func (imp *LDtk) resolveTilesets(project *ldtk.Project, projectPath string) *tileset.Resolver {
	resolver := tileset.NewResolver(imp.host.Images, imp.host.Materials)

	for i := range project.Defs.Tilesets {
		def := &project.Defs.Tilesets[i]
		if def.IsEmbedded() {
			logger.Info("skipping internal icon tileset", zap.String("tileset", def.Identifier))
			continue
		}
		if def.RelPath == "" {
			logger.Warn("tileset has no image path, skipping", zap.String("tileset", def.Identifier))
			continue
		}

		imagePath := ldtk.AbsPath(projectPath, def.RelPath)
		err := resolver.Register(def.UID, def.Identifier, imagePath, def.TileGridSize, def.TileGridSize)
		if err != nil {
			logger.Warn("skipping tileset", zap.String("tileset", def.Identifier), zap.Error(err))
		}
	}

	return resolver
}

// intGridVisuals maps layer definition uids to whether that IntGrid
// definition carries a value-to-tile display mapping.
func intGridVisuals(project *ldtk.Project) map[int]bool {
	visual := make(map[int]bool)
	for i := range project.Defs.Layers {
		def := &project.Defs.Layers[i]
		if def.HasVisualTiles() {
			visual[def.UID] = true
		}
	}
	return visual
}

func (imp *LDtk) importLevel(lvl *ldtk.Level, projectPath string, resolver *tileset.Resolver, visual map[int]bool, rep *Report) {
	if !imp.opts.includeLevel(lvl.Identifier) {
		logger.Info("level not selected for import", zap.String("level", lvl.Identifier))
		rep.SkippedLevels++
		return
	}

	resolved, err := lvl.Resolve(projectPath)
	if err != nil {
		logger.Error("skipping level", zap.String("level", lvl.Identifier), zap.Error(err))
		rep.SkippedLevels++
		return
	}

	if err := imp.host.Scene.NewCollection(resolved.Identifier); err != nil {
		logger.Error("failed to create level collection",
			zap.String("level", resolved.Identifier), zap.Error(err))
		rep.SkippedLevels++
		return
	}
	rep.Levels++

	z := float32(0)
	for i := range resolved.LayerInstances {
		li := &resolved.LayerInstances[i]
		if imp.importLayer(li, resolved, resolver, visual, z, rep) {
			z -= imp.opts.LayerSeparation
		}
	}
}

// importLayer builds and commits one layer. It reports whether an
// object was created, which advances the Z stacking offset.
func (imp *LDtk) importLayer(li *ldtk.LayerInstance, lvl *ldtk.Level, resolver *tileset.Resolver, visual map[int]bool, z float32, rep *Report) bool {
	if !imp.opts.includeLayer(li.Identifier) {
		logger.Info("layer not selected for import",
			zap.String("level", lvl.Identifier), zap.String("layer", li.Identifier))
		rep.SkippedLayers++
		return false
	}
	if !li.IsVisible() {
		logger.Info("skipping hidden layer",
			zap.String("level", lvl.Identifier), zap.String("layer", li.Identifier))
		rep.SkippedLayers++
		return false
	}

	var tiles Seq
	switch li.Kind() {
	case ldtk.KindTiles, ldtk.KindAutoLayer:
		tiles = walkTiles(li)
	case ldtk.KindIntGrid:
		if li.TilesetDefUID == nil || !visual[li.LayerDefUID] {
			logger.Info("IntGrid layer has no visual tiles, skipping",
				zap.String("level", lvl.Identifier), zap.String("layer", li.Identifier))
			rep.SkippedLayers++
			return false
		}
		tiles = walkIntGrid(li)
	case ldtk.KindEntities:
		logger.Info("skipping entities layer",
			zap.String("level", lvl.Identifier), zap.String("layer", li.Identifier))
		rep.SkippedLayers++
		return false
	case ldtk.KindUnsupported:
		logger.Warn("unsupported layer type, skipping",
			zap.String("level", lvl.Identifier),
			zap.String("layer", li.Identifier),
			zap.String("type", li.Type))
		rep.SkippedLayers++
		return false
	}

	p := buildParams{
		gridW:   li.GridSize,
		gridH:   li.GridSize,
		originX: lvl.WorldX,
		originY: lvl.WorldY,
		scale:   imp.opts.Scale,
		z:       z,
		level:   lvl.Identifier,
		layer:   li.Identifier,
	}

	m := composite(tiles, resolver, p, rep)
	if m.Empty() {
		return false
	}

	name := lvl.Identifier + "_" + li.Identifier
	if err := imp.host.Scene.NewMeshObject(lvl.Identifier, name, m); err != nil {
		logger.Error("failed to create mesh object", zap.String("object", name), zap.Error(err))
		return false
	}

	logger.Debug("created mesh object",
		zap.String("object", name),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("faces", len(m.Faces)),
		zap.Int("materials", len(m.Materials)))
	rep.Objects++
	return true
}

// walkTiles yields the union of a layer's grid tiles and auto-layer
// tiles. All tiles of one LDtk layer sample the layer's tileset.
func walkTiles(li *ldtk.LayerInstance) Seq {
	return func(yield func(Instance) bool) {
		uid := -1
		if li.TilesetDefUID != nil {
			uid = *li.TilesetDefUID
		}
		for _, t := range li.Tiles() {
			if !yield(tileInstance(t, uid)) {
				return
			}
		}
	}
}

// walkIntGrid yields only tiles whose grid cell holds a non-zero IntGrid
// value; tiles over zero cells are dropped.
func walkIntGrid(li *ldtk.LayerInstance) Seq {
	return func(yield func(Instance) bool) {
		if len(li.IntGridCSV) == 0 {
			return
		}
		uid := -1
		if li.TilesetDefUID != nil {
			uid = *li.TilesetDefUID
		}
		for _, t := range li.Tiles() {
			if li.IntGridAt(li.IntGridIndex(t.Px[0], t.Px[1])) == 0 {
				continue
			}
			if !yield(tileInstance(t, uid)) {
				return
			}
		}
	}
}

func tileInstance(t ldtk.Tile, uid int) Instance {
	return Instance{
		PxX:        t.Px[0],
		PxY:        t.Px[1],
		SrcX:       t.Src[0],
		SrcY:       t.Src[1],
		FlipX:      t.FlippedX(),
		FlipY:      t.FlippedY(),
		TilesetUID: uid,
	}
}
