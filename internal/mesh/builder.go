package mesh

import (
	"errors"
	"math"

	"github.com/riteshgrandhi/TileMapToMesh/pkg/geom"
)

// WeldEpsilon is the distance below which two vertex positions are
// treated as the same vertex, both for the key-based weld during the
// build and for the merge pass in Build.
const WeldEpsilon = 1e-4

// ErrDegenerateFace is returned when a quad's corners weld to fewer than
// four distinct vertices.
var ErrDegenerateFace = errors.New("degenerate face: corners weld to duplicate vertices")

// vertexKey is a position quantized to WeldEpsilon. At most one vertex
// exists per distinct key within one build.
type vertexKey [3]int64

func keyOf(p geom.Vec3) vertexKey {
	return vertexKey{
		int64(math.Round(float64(p.X) / WeldEpsilon)),
		int64(math.Round(float64(p.Y) / WeldEpsilon)),
		int64(math.Round(float64(p.Z) / WeldEpsilon)),
	}
}

// Builder accumulates one layer's mesh. Create one per layer with
// NewBuilder, feed it quads, then call Build exactly once.
type Builder struct {
	verts  []geom.Vec3
	lookup map[vertexKey]int
	faces  []Face

	slots     map[int]int // tileset uid -> material slot
	materials []*Material
}

// NewBuilder returns an empty mesh builder.
func NewBuilder() *Builder {
	return &Builder{
		lookup: make(map[vertexKey]int),
		slots:  make(map[int]int),
	}
}

// VertexIndex returns the arena index for the given position, creating a
// new vertex only when no existing vertex occupies the same quantized
// position.
func (b *Builder) VertexIndex(p geom.Vec3) int {
	key := keyOf(p)
	if idx, ok := b.lookup[key]; ok {
		return idx
	}
	idx := len(b.verts)
	b.verts = append(b.verts, p)
	b.lookup[key] = idx
	return idx
}

// MaterialSlot returns the material slot for a tileset uid, assigning
// the next free slot on first encounter. The Material is only consulted
// the first time a uid is seen.
func (b *Builder) MaterialSlot(uid int, mat *Material) int {
	if slot, ok := b.slots[uid]; ok {
		return slot
	}
	slot := len(b.materials)
	b.slots[uid] = slot
	b.materials = append(b.materials, mat)
	return slot
}

// AddQuad welds the four corners and appends one face with the given
// per-corner UVs and material slot. Corner order is TL, TR, BR, BL and
// must match the UV order.
func (b *Builder) AddQuad(corners [4]geom.Vec3, uv [4]geom.Vec2, slot int) error {
	var idx [4]int
	for i, c := range corners {
		idx[i] = b.VertexIndex(c)
	}

	// A quad whose corners collapse onto each other has zero area.
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if idx[i] == idx[j] {
				return ErrDegenerateFace
			}
		}
	}

	b.faces = append(b.faces, Face{Verts: idx, UV: uv, Material: slot})
	return nil
}

// FaceCount returns the number of faces added so far.
func (b *Builder) FaceCount() int {
	return len(b.faces)
}

// Build runs the finalize pass and returns the finished mesh: vertices
// within WeldEpsilon of each other are merged (catching float-precision
// near-duplicates the key-based weld missed), face indices are remapped,
// and faces that collapse under the merge are discarded.
func (b *Builder) Build() *Mesh {
	remap := b.mergeByDistance()

	verts := make([]geom.Vec3, 0, len(b.verts))
	compact := make([]int, len(b.verts))
	for i := range compact {
		compact[i] = -1
	}

	var faces []Face
	for _, f := range b.faces {
		var mapped [4]int
		collapsed := false
		for i, v := range f.Verts {
			mapped[i] = remap[v]
		}
		for i := 0; i < 4 && !collapsed; i++ {
			for j := i + 1; j < 4; j++ {
				if mapped[i] == mapped[j] {
					collapsed = true
					break
				}
			}
		}
		if collapsed {
			continue
		}
		for i, v := range mapped {
			if compact[v] == -1 {
				compact[v] = len(verts)
				verts = append(verts, b.verts[v])
			}
			mapped[i] = compact[v]
		}
		faces = append(faces, Face{Verts: mapped, UV: f.UV, Material: f.Material})
	}

	return &Mesh{
		Vertices:  verts,
		Faces:     faces,
		Materials: b.materials,
	}
}

// mergeByDistance maps every vertex index to the index of its merge
// representative. Vertices closer than WeldEpsilon share one
// representative even when quantization put them in adjacent cells.
func (b *Builder) mergeByDistance() []int {
	remap := make([]int, len(b.verts))
	cells := make(map[vertexKey][]int, len(b.verts))

	for i, p := range b.verts {
		key := keyOf(p)
		target := i

		// Check the cell and its 26 neighbors for an earlier vertex
		// within the tolerance.
	search:
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for dz := int64(-1); dz <= 1; dz++ {
					nk := vertexKey{key[0] + dx, key[1] + dy, key[2] + dz}
					for _, j := range cells[nk] {
						if b.verts[j].Distance(p) <= WeldEpsilon {
							target = remap[j]
							break search
						}
					}
				}
			}
		}

		remap[i] = target
		cells[key] = append(cells[key], i)
	}

	return remap
}
