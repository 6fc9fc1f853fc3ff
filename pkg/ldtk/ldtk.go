// Package ldtk provides a parser for LDtk project files (.ldtk).
//
// Only the parts of the format needed for mesh conversion are modeled:
// tileset and layer definitions, levels (including external level files)
// and per-layer tile instances. Entity payloads are left unparsed.
package ldtk

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LDtk format errors.
var (
	ErrMalformedProject = errors.New("malformed LDtk project JSON")
	ErrMalformedLevel   = errors.New("malformed LDtk level JSON")
	ErrExternalLevel    = errors.New("external level file unavailable")
)

// EmbedAtlasIcons marks LDtk's built-in icon tileset, which has no
// backing image file on disk.
const EmbedAtlasIcons = "LdtkIcons"

// Project is the root of an LDtk project file.
type Project struct {
	JSONVersion     string  `json:"jsonVersion"`
	ExternalLevels  bool    `json:"externalLevels"`
	Defs            Defs    `json:"defs"`
	Levels          []Level `json:"levels"`
	WorldGridWidth  int     `json:"worldGridWidth"`
	WorldGridHeight int     `json:"worldGridHeight"`
}

// Defs holds the project-wide definitions.
type Defs struct {
	Layers   []LayerDef   `json:"layers"`
	Tilesets []TilesetDef `json:"tilesets"`
}

// TilesetDef describes one tileset atlas.
type TilesetDef struct {
	UID          int    `json:"uid"`
	Identifier   string `json:"identifier"`
	RelPath      string `json:"relPath"`
	EmbedAtlas   string `json:"embedAtlas"`
	PxWid        int    `json:"pxWid"`
	PxHei        int    `json:"pxHei"`
	TileGridSize int    `json:"tileGridSize"`
	Spacing      int    `json:"spacing"`
	Padding      int    `json:"padding"`
}

// IsEmbedded reports whether the tileset is an LDtk-internal atlas with
// no image file of its own.
func (t *TilesetDef) IsEmbedded() bool {
	return t.EmbedAtlas == EmbedAtlasIcons
}

// LayerDef describes one layer definition.
type LayerDef struct {
	UID           int               `json:"uid"`
	Identifier    string            `json:"identifier"`
	Type          string            `json:"__type"`
	GridSize      int               `json:"gridSize"`
	TilesetDefUID *int              `json:"tilesetDefUid"`
	IntGridValues []IntGridValueDef `json:"intGridValues"`
}

// IntGridValueDef maps one IntGrid cell value to an optional display tile.
type IntGridValueDef struct {
	Value      int       `json:"value"`
	Identifier string    `json:"identifier"`
	Tile       *TileRect `json:"tile"`
}

// TileRect is a pixel rectangle within a tileset atlas.
type TileRect struct {
	TilesetUID int `json:"tilesetUid"`
	X          int `json:"x"`
	Y          int `json:"y"`
	W          int `json:"w"`
	H          int `json:"h"`
}

// HasVisualTiles reports whether an IntGrid layer definition carries at
// least one value-to-tile mapping, i.e. whether it can render as tiles.
func (l *LayerDef) HasVisualTiles() bool {
	if l.Type != string(KindIntGrid) || l.TilesetDefUID == nil {
		return false
	}
	for _, v := range l.IntGridValues {
		if v.Tile != nil {
			return true
		}
	}
	return false
}

// Parse parses an LDtk project from raw JSON bytes.
func Parse(data []byte) (*Project, error) {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProject, err)
	}
	return &p, nil
}

// ParseFile parses an LDtk project file from disk.
func ParseFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading LDtk file: %w", err)
	}
	return Parse(data)
}

// TilesetDef returns the tileset definition with the given uid.
func (p *Project) TilesetDef(uid int) (*TilesetDef, bool) {
	for i := range p.Defs.Tilesets {
		if p.Defs.Tilesets[i].UID == uid {
			return &p.Defs.Tilesets[i], true
		}
	}
	return nil, false
}

// LayerDef returns the layer definition with the given uid.
func (p *Project) LayerDef(uid int) (*LayerDef, bool) {
	for i := range p.Defs.Layers {
		if p.Defs.Layers[i].UID == uid {
			return &p.Defs.Layers[i], true
		}
	}
	return nil, false
}

// AbsPath resolves a path relative to the project file location.
// Absolute paths are returned unchanged.
func AbsPath(projectPath, relPath string) string {
	if relPath == "" {
		return ""
	}
	if filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Clean(filepath.Join(filepath.Dir(projectPath), relPath))
}
