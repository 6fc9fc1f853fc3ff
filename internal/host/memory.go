package host

import (
	"fmt"

	"github.com/riteshgrandhi/TileMapToMesh/internal/mesh"
)

// Memory is an in-process host backend. It records collections and mesh
// objects for programmatic consumers and for tests, and serves images
// with fixed dimensions without touching the filesystem.
type Memory struct {
	// ImageSizes maps image paths to their pixel dimensions. Paths not
	// present are reported as missing.
	ImageSizes map[string][2]int

	Images      map[string]*Image
	MaterialMap map[string]*mesh.Material
	Collections []string
	Objects     []MemoryObject
}

// MemoryObject is one recorded mesh object.
type MemoryObject struct {
	Collection string
	Name       string
	Mesh       *mesh.Mesh
}

// NewMemory returns an empty in-memory host.
func NewMemory() *Memory {
	return &Memory{
		ImageSizes:  make(map[string][2]int),
		Images:      make(map[string]*Image),
		MaterialMap: make(map[string]*mesh.Material),
	}
}

// AddImage registers an image path with the given pixel dimensions.
func (m *Memory) AddImage(path string, width, height int) {
	m.ImageSizes[path] = [2]int{width, height}
}

// LoadOrGetImage implements ImageLoader.
func (m *Memory) LoadOrGetImage(path string) (*Image, error) {
	if img, ok := m.Images[path]; ok {
		return img, nil
	}
	size, ok := m.ImageSizes[path]
	if !ok {
		return nil, fmt.Errorf("image not found: %s", path)
	}
	img := &Image{Name: path, Path: path, Width: size[0], Height: size[1]}
	m.Images[path] = img
	return img, nil
}

// CreateOrGetMaterial implements MaterialStore.
func (m *Memory) CreateOrGetMaterial(name string, img *Image) *mesh.Material {
	if mat, ok := m.MaterialMap[name]; ok {
		return mat
	}
	mat := &mesh.Material{Name: name, PixelArt: true}
	if img != nil {
		mat.ImagePath = img.Path
	}
	m.MaterialMap[name] = mat
	return mat
}

// NewCollection implements SceneWriter.
func (m *Memory) NewCollection(name string) error {
	m.Collections = append(m.Collections, name)
	return nil
}

// NewMeshObject implements SceneWriter.
func (m *Memory) NewMeshObject(collection, name string, msh *mesh.Mesh) error {
	m.Objects = append(m.Objects, MemoryObject{Collection: collection, Name: name, Mesh: msh})
	return nil
}

// ObjectNames returns the names of all recorded objects in order.
func (m *Memory) ObjectNames() []string {
	names := make([]string, len(m.Objects))
	for i, o := range m.Objects {
		names[i] = o.Name
	}
	return names
}
