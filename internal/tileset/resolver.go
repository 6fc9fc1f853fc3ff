// Package tileset resolves tileset definitions to atlas geometry and
// materials. The resolver table is built once per import and read-only
// afterward; every layer of the import shares it.
package tileset

import (
	"errors"
	"fmt"

	"github.com/riteshgrandhi/TileMapToMesh/internal/host"
	"github.com/riteshgrandhi/TileMapToMesh/internal/mesh"
)

// Resolver errors.
var (
	ErrZeroTileSize = errors.New("tileset has zero tile size")
	ErrNoImagePath  = errors.New("tileset has no image path")
)

// Info describes one resolved tileset: its atlas geometry and the
// material created for it.
type Info struct {
	UID        int
	Identifier string
	ImageW     int
	ImageH     int
	TileW      int
	TileH      int
	Columns    int
	Rows       int
	Material   *mesh.Material
}

// Resolver maps tileset uids to Info. Tilesets that fail to register are
// simply absent from the table; tiles referencing them are dropped by
// the walkers.
type Resolver struct {
	infos     map[int]*Info
	images    host.ImageLoader
	materials host.MaterialStore
}

// NewResolver creates an empty resolver backed by the host capabilities.
func NewResolver(images host.ImageLoader, materials host.MaterialStore) *Resolver {
	return &Resolver{
		infos:     make(map[int]*Info),
		images:    images,
		materials: materials,
	}
}

// Register loads a tileset's image, derives its column and row counts
// and creates its material. One material exists per tileset, named
// "mat_<identifier>"; an existing material of that name is reused.
func (r *Resolver) Register(uid int, identifier, imagePath string, tileW, tileH int) error {
	if tileW <= 0 || tileH <= 0 {
		return fmt.Errorf("%w: %s (%dx%d)", ErrZeroTileSize, identifier, tileW, tileH)
	}
	if imagePath == "" {
		return fmt.Errorf("%w: %s", ErrNoImagePath, identifier)
	}

	img, err := r.images.LoadOrGetImage(imagePath)
	if err != nil {
		return fmt.Errorf("tileset %s: %w", identifier, err)
	}

	mat := r.materials.CreateOrGetMaterial("mat_"+identifier, img)

	r.infos[uid] = &Info{
		UID:        uid,
		Identifier: identifier,
		ImageW:     img.Width,
		ImageH:     img.Height,
		TileW:      tileW,
		TileH:      tileH,
		Columns:    img.Width / tileW,
		Rows:       img.Height / tileH,
		Material:   mat,
	}
	return nil
}

// Lookup returns the resolved tileset for a uid.
func (r *Resolver) Lookup(uid int) (*Info, bool) {
	info, ok := r.infos[uid]
	return info, ok
}

// Len returns the number of resolved tilesets.
func (r *Resolver) Len() int {
	return len(r.infos)
}
