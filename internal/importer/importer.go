// Package importer converts parsed tilemaps into mesh objects. It hosts
// the layer walkers for the LDtk and Tiled front ends and the shared
// compositor that turns tile walks into welded, material-grouped quad
// meshes.
package importer

import (
	"errors"
	"iter"
	"slices"

	"go.uber.org/zap"

	"github.com/riteshgrandhi/TileMapToMesh/internal/logger"
	"github.com/riteshgrandhi/TileMapToMesh/internal/mesh"
	"github.com/riteshgrandhi/TileMapToMesh/internal/tileset"
	"github.com/riteshgrandhi/TileMapToMesh/pkg/geom"
)

// Options are the conversion parameters shared by both front ends.
type Options struct {
	// Scale multiplies world-space placement of every vertex.
	Scale float32
	// LayerSeparation is the Z distance between stacked layers.
	LayerSeparation float32
	// TileSize is the world size of one grid cell on the Tiled path.
	TileSize float32
	// Levels restricts the import to the named levels (empty = all).
	Levels []string
	// Layers restricts the import to the named layers (empty = all).
	Layers []string
}

// DefaultOptions returns the conversion defaults.
func DefaultOptions() Options {
	return Options{
		Scale:           1.0,
		LayerSeparation: 0.1,
		TileSize:        1.0,
	}
}

func (o *Options) includeLevel(name string) bool {
	return len(o.Levels) == 0 || slices.Contains(o.Levels, name)
}

func (o *Options) includeLayer(name string) bool {
	return len(o.Layers) == 0 || slices.Contains(o.Layers, name)
}

// Report summarizes one import run: what was produced and what degraded
// to a skip.
type Report struct {
	Levels        int
	Objects       int
	SkippedLevels int
	SkippedLayers int
	DroppedTiles  int
}

// Instance is one placed tile yielded by a layer walker: pixel position
// of its top-left corner in layer space, source pixel position in the
// tileset atlas, flip flags and the tileset it samples. Instances are
// ephemeral; the compositor consumes them immediately.
type Instance struct {
	PxX, PxY   int
	SrcX, SrcY int
	FlipX      bool
	FlipY      bool
	TilesetUID int
}

// Seq is a lazy, finite tile sequence. Walkers produce one per layer;
// re-invoking the sequence recomputes the walk.
type Seq = iter.Seq[Instance]

// buildParams fixes the coordinate mapping for one layer build.
type buildParams struct {
	gridW, gridH     int  // pixels per grid cell
	originX, originY int  // level origin in pixel space
	scale            float32
	z                float32
	cellQuads        bool // quads span one grid cell instead of the tile's source size
	level, layer     string
}

// worldPos maps a pixel-space position into world space: X scaled by
// scale/grid, Y negated because tilemap pixel space is Y-down while the
// output convention is Y-up.
func (p *buildParams) worldPos(pxX, pxY int) geom.Vec3 {
	return geom.Vec3{
		X: float32(pxX+p.originX) * p.scale / float32(p.gridW),
		Y: -float32(pxY+p.originY) * p.scale / float32(p.gridH),
		Z: p.z,
	}
}

// quadCorners returns the four world-space corners of a tile quad in
// TL, TR, BR, BL order.
func (p *buildParams) quadCorners(pxX, pxY, quadW, quadH int) [4]geom.Vec3 {
	return [4]geom.Vec3{
		p.worldPos(pxX, pxY),
		p.worldPos(pxX+quadW, pxY),
		p.worldPos(pxX+quadW, pxY+quadH),
		p.worldPos(pxX, pxY+quadH),
	}
}

// composite consumes one layer's tile sequence and builds its mesh.
// Per-tile failures (unresolved tileset, degenerate geometry) drop the
// tile and continue; they never abort the layer.
func composite(tiles Seq, resolver *tileset.Resolver, p buildParams, rep *Report) *mesh.Mesh {
	b := mesh.NewBuilder()

	for inst := range tiles {
		info, ok := resolver.Lookup(inst.TilesetUID)
		if !ok {
			logger.Warn("tile references unresolved tileset, dropping tile",
				zap.String("level", p.level),
				zap.String("layer", p.layer),
				zap.Int("tilesetUid", inst.TilesetUID),
				zap.Int("pxX", inst.PxX),
				zap.Int("pxY", inst.PxY))
			rep.DroppedTiles++
			continue
		}

		slot := b.MaterialSlot(info.UID, info.Material)

		quadW, quadH := info.TileW, info.TileH
		if p.cellQuads {
			quadW, quadH = p.gridW, p.gridH
		}

		corners := p.quadCorners(inst.PxX, inst.PxY, quadW, quadH)
		uv := mesh.TileUV(inst.SrcX, inst.SrcY, info.TileW, info.TileH,
			info.ImageW, info.ImageH, inst.FlipX, inst.FlipY)

		if err := b.AddQuad(corners, uv, slot); err != nil {
			if errors.Is(err, mesh.ErrDegenerateFace) {
				logger.Warn("skipping degenerate tile quad",
					zap.String("level", p.level),
					zap.String("layer", p.layer),
					zap.Int("pxX", inst.PxX),
					zap.Int("pxY", inst.PxY))
			} else {
				logger.Error("failed to add tile quad",
					zap.String("level", p.level),
					zap.String("layer", p.layer),
					zap.Int("pxX", inst.PxX),
					zap.Int("pxY", inst.PxY),
					zap.Error(err))
			}
			rep.DroppedTiles++
			continue
		}
	}

	return b.Build()
}
