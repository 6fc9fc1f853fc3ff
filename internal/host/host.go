// Package host defines the capabilities the conversion pipeline needs
// from its surroundings: image loading, material creation and scene
// output. Implementations decide where meshes end up; the pipeline only
// talks to these interfaces.
package host

import (
	"github.com/riteshgrandhi/TileMapToMesh/internal/mesh"
)

// Image is a loaded tileset image. Only pixel dimensions are needed by
// the pipeline; Path lets material backends reference the file.
type Image struct {
	Name   string
	Path   string
	Width  int
	Height int
}

// ImageLoader resolves an image path to a loaded image. Repeated calls
// with the same path return the same image (lookup-or-create).
type ImageLoader interface {
	LoadOrGetImage(path string) (*Image, error)
}

// MaterialStore creates materials for tileset images. Creation is
// idempotent by name: asking for an existing name returns the material
// already created under it.
type MaterialStore interface {
	CreateOrGetMaterial(name string, img *Image) *mesh.Material
}

// SceneWriter receives the finished mesh objects. Collections group
// objects per level.
type SceneWriter interface {
	NewCollection(name string) error
	NewMeshObject(collection, name string, m *mesh.Mesh) error
}

// Registry bundles the three host capabilities. It is passed explicitly
// into importers; there is no ambient global host state.
type Registry struct {
	Images    ImageLoader
	Materials MaterialStore
	Scene     SceneWriter
}

// NewRegistry builds a registry from the three capabilities.
func NewRegistry(images ImageLoader, materials MaterialStore, scene SceneWriter) *Registry {
	return &Registry{Images: images, Materials: materials, Scene: scene}
}
