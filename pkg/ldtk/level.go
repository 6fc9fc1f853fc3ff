package ldtk

import (
	"encoding/json"
	"fmt"
	"os"
)

// LayerKind is the closed set of layer types this package understands.
type LayerKind string

// Known layer kinds. Anything else maps to KindUnsupported.
const (
	KindTiles       LayerKind = "Tiles"
	KindAutoLayer   LayerKind = "AutoLayer"
	KindIntGrid     LayerKind = "IntGrid"
	KindEntities    LayerKind = "Entities"
	KindUnsupported LayerKind = "Unsupported"
)

// KindOf maps a raw __type string to a LayerKind.
func KindOf(s string) LayerKind {
	switch LayerKind(s) {
	case KindTiles, KindAutoLayer, KindIntGrid, KindEntities:
		return LayerKind(s)
	default:
		return KindUnsupported
	}
}

// Level is one LDtk level. If ExternalRelPath is set, the layer
// instances live in a separate file next to the project.
type Level struct {
	Identifier      string          `json:"identifier"`
	IID             string          `json:"iid"`
	WorldX          int             `json:"worldX"`
	WorldY          int             `json:"worldY"`
	PxWid           int             `json:"pxWid"`
	PxHei           int             `json:"pxHei"`
	ExternalRelPath string          `json:"externalRelPath"`
	LayerInstances  []LayerInstance `json:"layerInstances"`
}

// Resolve returns the level with its layer instances populated. For
// levels stored externally it loads and parses the referenced file,
// keeping identifier and world position from the project entry.
func (l *Level) Resolve(projectPath string) (*Level, error) {
	if l.ExternalRelPath == "" {
		return l, nil
	}

	path := AbsPath(projectPath, l.ExternalRelPath)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrExternalLevel, path, err)
	}

	ext, err := ParseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrExternalLevel, path, err)
	}

	resolved := *ext
	resolved.Identifier = l.Identifier
	resolved.IID = l.IID
	return &resolved, nil
}

// ParseLevel parses a standalone .ldtkl level file.
func ParseLevel(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLevel, err)
	}
	return &lvl, nil
}

// LayerInstance is one placed layer within a level.
type LayerInstance struct {
	Identifier     string `json:"__identifier"`
	Type           string `json:"__type"`
	GridSize       int    `json:"__gridSize"`
	CWid           int    `json:"__cWid"`
	CHei           int    `json:"__cHei"`
	TilesetDefUID  *int   `json:"__tilesetDefUid"`
	IID            string `json:"iid"`
	LayerDefUID    int    `json:"layerDefUid"`
	Visible        *bool  `json:"visible"`
	GridTiles      []Tile `json:"gridTiles"`
	AutoLayerTiles []Tile `json:"autoLayerTiles"`
	IntGridCSV     []int  `json:"intGridCsv"`
}

// Kind returns the layer's type as a LayerKind.
func (li *LayerInstance) Kind() LayerKind {
	return KindOf(li.Type)
}

// IsVisible reports the layer's visibility flag. Layers that omit the
// flag are visible.
func (li *LayerInstance) IsVisible() bool {
	return li.Visible == nil || *li.Visible
}

// Tiles returns the union of grid tiles and auto-layer tiles.
func (li *LayerInstance) Tiles() []Tile {
	if len(li.AutoLayerTiles) == 0 {
		return li.GridTiles
	}
	out := make([]Tile, 0, len(li.GridTiles)+len(li.AutoLayerTiles))
	out = append(out, li.GridTiles...)
	out = append(out, li.AutoLayerTiles...)
	return out
}

// IntGridIndex converts a tile's pixel position into the flat index of
// the IntGrid cell it overlaps.
func (li *LayerInstance) IntGridIndex(pxX, pxY int) int {
	return pxX/li.GridSize + (pxY/li.GridSize)*li.CWid
}

// IntGridAt returns the IntGrid value at the given flat index, or zero
// when the index is out of range.
func (li *LayerInstance) IntGridAt(index int) int {
	if index < 0 || index >= len(li.IntGridCSV) {
		return 0
	}
	return li.IntGridCSV[index]
}

// Tile flip flag bits.
const (
	FlipX = 1 << 0
	FlipY = 1 << 1
)

// Tile is one placed tile instance. Px is the top-left pixel position in
// layer space, Src the top-left pixel position in the tileset atlas.
type Tile struct {
	Px  [2]int `json:"px"`
	Src [2]int `json:"src"`
	F   int    `json:"f"`
	T   int    `json:"t"`
}

// FlippedX reports whether the horizontal flip bit is set.
func (t *Tile) FlippedX() bool { return t.F&FlipX != 0 }

// FlippedY reports whether the vertical flip bit is set.
func (t *Tile) FlippedY() bool { return t.F&FlipY != 0 }
