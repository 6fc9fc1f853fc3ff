package mesh

import (
	"github.com/riteshgrandhi/TileMapToMesh/pkg/geom"
)

// TileUV computes the four texture coordinates for a tile cut from an
// atlas. src is the top-left pixel of the tile region, tileW/tileH its
// pixel size, imgW/imgH the atlas dimensions. V is inverted because
// image-space Y grows downward while UV-space V grows upward.
//
// The returned corners are TL, TR, BR, BL, matching Face vertex order.
func TileUV(srcX, srcY, tileW, tileH, imgW, imgH int, flipX, flipY bool) [4]geom.Vec2 {
	uMin := float32(srcX) / float32(imgW)
	uMax := float32(srcX+tileW) / float32(imgW)
	vMin := 1 - float32(srcY+tileH)/float32(imgH)
	vMax := 1 - float32(srcY)/float32(imgH)

	uv := [4]geom.Vec2{
		{X: uMin, Y: vMax}, // top-left
		{X: uMax, Y: vMax}, // top-right
		{X: uMax, Y: vMin}, // bottom-right
		{X: uMin, Y: vMin}, // bottom-left
	}

	// The flips act on disjoint axes and compose in either order.
	if flipX {
		uv[0].X, uv[1].X = uv[1].X, uv[0].X
		uv[3].X, uv[2].X = uv[2].X, uv[3].X
	}
	if flipY {
		uv[0].Y, uv[3].Y = uv[3].Y, uv[0].Y
		uv[1].Y, uv[2].Y = uv[2].Y, uv[1].Y
	}

	return uv
}
