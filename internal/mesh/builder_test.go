package mesh

import (
	"errors"
	"testing"

	"github.com/riteshgrandhi/TileMapToMesh/pkg/geom"
)

func unitQuad(x, y float32) [4]geom.Vec3 {
	return [4]geom.Vec3{
		{X: x, Y: y},         // top-left
		{X: x + 1, Y: y},     // top-right
		{X: x + 1, Y: y - 1}, // bottom-right
		{X: x, Y: y - 1},     // bottom-left
	}
}

func flatUV() [4]geom.Vec2 {
	return [4]geom.Vec2{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}}
}

func TestBuilder_SingleQuad(t *testing.T) {
	b := NewBuilder()
	slot := b.MaterialSlot(7, &Material{Name: "mat_a"})

	if err := b.AddQuad(unitQuad(0, 0), flatUV(), slot); err != nil {
		t.Fatalf("AddQuad failed: %v", err)
	}

	m := b.Build()
	if len(m.Vertices) != 4 {
		t.Errorf("expected 4 vertices, got %d", len(m.Vertices))
	}
	if len(m.Faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(m.Faces))
	}
	if m.Faces[0].Material != 0 {
		t.Errorf("expected material slot 0, got %d", m.Faces[0].Material)
	}
}

func TestBuilder_SharedEdgeWelds(t *testing.T) {
	b := NewBuilder()
	slot := b.MaterialSlot(1, &Material{Name: "mat_a"})

	// Two quads sharing the x=1 edge weld that edge's vertex pair.
	if err := b.AddQuad(unitQuad(0, 0), flatUV(), slot); err != nil {
		t.Fatal(err)
	}
	if err := b.AddQuad(unitQuad(1, 0), flatUV(), slot); err != nil {
		t.Fatal(err)
	}

	m := b.Build()
	if len(m.Vertices) != 6 {
		t.Errorf("expected 6 vertices after welding, got %d", len(m.Vertices))
	}
	if len(m.Faces) != 2 {
		t.Errorf("expected 2 faces, got %d", len(m.Faces))
	}

	// The right edge of quad one is the left edge of quad two.
	if m.Faces[0].Verts[1] != m.Faces[1].Verts[0] {
		t.Error("top edge vertex not shared between adjacent quads")
	}
	if m.Faces[0].Verts[2] != m.Faces[1].Verts[3] {
		t.Error("bottom edge vertex not shared between adjacent quads")
	}
}

func TestBuilder_MergePassCatchesNearDuplicates(t *testing.T) {
	b := NewBuilder()
	slot := b.MaterialSlot(1, &Material{Name: "mat_a"})

	if err := b.AddQuad(unitQuad(0, 0), flatUV(), slot); err != nil {
		t.Fatal(err)
	}

	// Offset the second quad's left edge by less than the tolerance but
	// across a quantization cell boundary, so only the distance-based
	// merge pass can weld it to the first quad's right edge.
	const drift = 6e-5
	second := unitQuad(1, 0)
	second[0].X += drift
	second[3].X += drift
	if err := b.AddQuad(second, flatUV(), slot); err != nil {
		t.Fatal(err)
	}

	m := b.Build()
	if len(m.Vertices) != 6 {
		t.Errorf("expected merge pass to leave 6 vertices, got %d", len(m.Vertices))
	}
}

func TestBuilder_DegenerateQuadRejected(t *testing.T) {
	b := NewBuilder()
	slot := b.MaterialSlot(1, &Material{Name: "mat_a"})

	corners := unitQuad(0, 0)
	corners[1] = corners[0] // two corners collapse

	err := b.AddQuad(corners, flatUV(), slot)
	if !errors.Is(err, ErrDegenerateFace) {
		t.Errorf("expected ErrDegenerateFace, got %v", err)
	}
	if b.FaceCount() != 0 {
		t.Errorf("degenerate quad must not be recorded, got %d faces", b.FaceCount())
	}
}

func TestBuilder_MaterialSlotOrder(t *testing.T) {
	b := NewBuilder()

	// Encounter order B, A, B, C must produce slots B:0, A:1, C:2.
	matB := &Material{Name: "mat_b"}
	matA := &Material{Name: "mat_a"}
	matC := &Material{Name: "mat_c"}

	if got := b.MaterialSlot(20, matB); got != 0 {
		t.Errorf("first encounter of B: slot %d, want 0", got)
	}
	if got := b.MaterialSlot(10, matA); got != 1 {
		t.Errorf("first encounter of A: slot %d, want 1", got)
	}
	if got := b.MaterialSlot(20, matB); got != 0 {
		t.Errorf("repeat encounter of B: slot %d, want 0", got)
	}
	if got := b.MaterialSlot(30, matC); got != 2 {
		t.Errorf("first encounter of C: slot %d, want 2", got)
	}

	m := b.Build()
	if len(m.Materials) != 3 {
		t.Fatalf("expected 3 materials, got %d", len(m.Materials))
	}
	if m.Materials[0] != matB || m.Materials[1] != matA || m.Materials[2] != matC {
		t.Error("materials not in first-encounter order")
	}
}

func TestBuilder_EmptyBuild(t *testing.T) {
	m := NewBuilder().Build()
	if !m.Empty() {
		t.Error("builder without quads must produce an empty mesh")
	}
}

func TestVertexIndex_Deterministic(t *testing.T) {
	b := NewBuilder()
	p := geom.Vec3{X: 1.25, Y: -3.5, Z: 0.1}
	first := b.VertexIndex(p)
	second := b.VertexIndex(p)
	if first != second {
		t.Errorf("same position produced two vertices: %d and %d", first, second)
	}
}

func TestTileUV_Corners(t *testing.T) {
	// 16x16 tile at (16, 0) in a 64x32 atlas.
	uv := TileUV(16, 0, 16, 16, 64, 32, false, false)

	want := [4]geom.Vec2{
		{X: 0.25, Y: 1},   // TL
		{X: 0.5, Y: 1},    // TR
		{X: 0.5, Y: 0.5},  // BR
		{X: 0.25, Y: 0.5}, // BL
	}
	if uv != want {
		t.Errorf("TileUV = %v, want %v", uv, want)
	}
}

func TestTileUV_FlipX(t *testing.T) {
	plain := TileUV(0, 0, 16, 16, 32, 32, false, false)
	flipped := TileUV(0, 0, 16, 16, 32, 32, true, false)

	// U swaps across the top pair and the bottom pair; V untouched.
	if flipped[0].X != plain[1].X || flipped[1].X != plain[0].X {
		t.Error("horizontal flip did not swap top U pair")
	}
	if flipped[3].X != plain[2].X || flipped[2].X != plain[3].X {
		t.Error("horizontal flip did not swap bottom U pair")
	}
	for i := range plain {
		if flipped[i].Y != plain[i].Y {
			t.Error("horizontal flip must not change V")
		}
	}
}

func TestTileUV_FlipY(t *testing.T) {
	plain := TileUV(0, 16, 16, 16, 64, 64, false, false)
	flipped := TileUV(0, 16, 16, 16, 64, 64, false, true)

	// V swaps across the left pair and the right pair; U untouched.
	if flipped[0].Y != plain[3].Y || flipped[3].Y != plain[0].Y {
		t.Error("vertical flip did not swap left V pair")
	}
	if flipped[1].Y != plain[2].Y || flipped[2].Y != plain[1].Y {
		t.Error("vertical flip did not swap right V pair")
	}
	for i := range plain {
		if flipped[i].X != plain[i].X {
			t.Error("vertical flip must not change U")
		}
	}
}

func TestTileUV_FlipsCommute(t *testing.T) {
	// flipX then flipY equals flipY then flipX; both equal the combined call.
	combined := TileUV(16, 16, 16, 16, 64, 64, true, true)

	xy := TileUV(16, 16, 16, 16, 64, 64, true, false)
	applyFlipY(&xy)

	yx := TileUV(16, 16, 16, 16, 64, 64, false, true)
	applyFlipX(&yx)

	if combined != xy || combined != yx {
		t.Errorf("flips do not commute: combined %v, x-then-y %v, y-then-x %v", combined, xy, yx)
	}
}

func applyFlipX(uv *[4]geom.Vec2) {
	uv[0].X, uv[1].X = uv[1].X, uv[0].X
	uv[3].X, uv[2].X = uv[2].X, uv[3].X
}

func applyFlipY(uv *[4]geom.Vec2) {
	uv[0].Y, uv[3].Y = uv[3].Y, uv[0].Y
	uv[1].Y, uv[2].Y = uv[2].Y, uv[1].Y
}
