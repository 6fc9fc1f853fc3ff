package texture

import (
	"github.com/riteshgrandhi/TileMapToMesh/internal/host"
)

// Cache is a lookup-or-create image cache keyed by path. Repeated
// imports referencing the same tileset reuse the loaded image instead of
// loading it again. The pipeline is single-threaded, so no locking.
type Cache struct {
	items map[string]*host.Image
}

// NewCache creates an empty image cache.
func NewCache() *Cache {
	return &Cache{items: make(map[string]*host.Image)}
}

// LoadOrGetImage implements host.ImageLoader.
func (c *Cache) LoadOrGetImage(path string) (*host.Image, error) {
	if img, ok := c.items[path]; ok {
		return img, nil
	}
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	c.items[path] = img
	return img, nil
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	return len(c.items)
}
