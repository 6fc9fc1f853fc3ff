// Package texture loads tileset images from disk and caches them by
// path, implementing the pipeline's image-loading capability.
package texture

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	// Decoder registrations for the formats tilemaps commonly reference.
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/riteshgrandhi/TileMapToMesh/internal/host"
)

// ErrNotFound is returned when the image file does not exist on disk.
var ErrNotFound = errors.New("image file not found")

// LoadImage reads an image file and returns its pixel dimensions. Only
// the header is decoded; tile UVs never need the pixel data itself.
func LoadImage(path string) (*host.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("texture: open %s: %w", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}

	return &host.Image{
		Name:   filepath.Base(path),
		Path:   path,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
