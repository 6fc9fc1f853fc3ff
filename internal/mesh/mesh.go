// Package mesh builds textured quad meshes from tile walks. It owns the
// vertex arena, position-based welding, per-tileset material slots and
// the finalize pass that merges near-duplicate vertices.
package mesh

import (
	"github.com/riteshgrandhi/TileMapToMesh/pkg/geom"
)

// Material identifies one material slot of a mesh: a name plus the
// tileset image backing it. Slot order is first-encounter order during
// the tile walk.
type Material struct {
	Name      string
	ImagePath string
	// PixelArt requests nearest-neighbor sampling from consumers.
	PixelArt bool
}

// Face is one quad. Verts holds indices into the mesh vertex arena in
// TL, TR, BR, BL order; UV holds the matching per-corner texture
// coordinates. Faces store indices, never vertex pointers.
type Face struct {
	Verts    [4]int
	UV       [4]geom.Vec2
	Material int
}

// Mesh is the immutable result of one layer build.
type Mesh struct {
	Vertices  []geom.Vec3
	Faces     []Face
	Materials []*Material
}

// Empty reports whether the mesh has no faces. Empty meshes never become
// scene objects.
func (m *Mesh) Empty() bool {
	return len(m.Faces) == 0
}
