package export

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/riteshgrandhi/TileMapToMesh/internal/host"
	"github.com/riteshgrandhi/TileMapToMesh/internal/mesh"
)

// Errors returned by the OBJ writer.
var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrDuplicateObject   = errors.New("duplicate object name")
)

// Writer collects materials, collections and mesh objects and saves them
// as a Wavefront OBJ file with a companion MTL material library. It
// implements host.MaterialStore and host.SceneWriter, so an importer can
// write straight into it.
type Writer struct {
	objPath string
	mtlPath string

	materials []*mesh.Material
	byName    map[string]*mesh.Material

	collections []*collection
	names       map[string]bool
}

type collection struct {
	name    string
	objects []sceneObject
}

type sceneObject struct {
	name string
	mesh *mesh.Mesh
}

// NewWriter creates a writer targeting the given .obj path. The MTL
// library is written next to it with the same base name.
func NewWriter(objPath string) *Writer {
	base := strings.TrimSuffix(objPath, filepath.Ext(objPath))
	return &Writer{
		objPath: objPath,
		mtlPath: base + ".mtl",
		byName:  make(map[string]*mesh.Material),
		names:   make(map[string]bool),
	}
}

// CreateOrGetMaterial implements host.MaterialStore. Materials are
// deduplicated by name; the first registration wins.
func (w *Writer) CreateOrGetMaterial(name string, img *host.Image) *mesh.Material {
	if mat, ok := w.byName[name]; ok {
		return mat
	}
	mat := &mesh.Material{Name: name, PixelArt: true}
	if img != nil {
		mat.ImagePath = img.Path
	}
	w.byName[name] = mat
	w.materials = append(w.materials, mat)
	return mat
}

// NewCollection implements host.SceneWriter. Collections map to OBJ
// groups in creation order.
func (w *Writer) NewCollection(name string) error {
	w.collections = append(w.collections, &collection{name: name})
	return nil
}

// NewMeshObject implements host.SceneWriter.
func (w *Writer) NewMeshObject(collectionName, name string, m *mesh.Mesh) error {
	if w.names[name] {
		return fmt.Errorf("%w: %s", ErrDuplicateObject, name)
	}
	for _, c := range w.collections {
		if c.name == collectionName {
			c.objects = append(c.objects, sceneObject{name: name, mesh: m})
			w.names[name] = true
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownCollection, collectionName)
}

// ObjectCount returns the number of committed mesh objects.
func (w *Writer) ObjectCount() int {
	n := 0
	for _, c := range w.collections {
		n += len(c.objects)
	}
	return n
}

// Save writes the OBJ file and, when any material was registered, the
// MTL library next to it.
func (w *Writer) Save() error {
	if err := w.saveOBJ(); err != nil {
		return err
	}
	if len(w.materials) == 0 {
		return nil
	}
	return w.saveMTL()
}

func (w *Writer) saveOBJ() error {
	f, err := os.Create(w.objPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", w.objPath, err)
	}
	defer f.Close()

	out := bufio.NewWriter(f)
	if len(w.materials) > 0 {
		fmt.Fprintf(out, "mtllib %s\n", filepath.Base(w.mtlPath))
	}

	// OBJ indices are global and 1-based, so each object's face indices
	// are offset by everything written before it.
	vertBase, uvBase := 1, 1
	for _, c := range w.collections {
		if len(c.objects) == 0 {
			continue
		}
		fmt.Fprintf(out, "g %s\n", c.name)
		for _, obj := range c.objects {
			vertBase, uvBase = writeObject(out, obj, vertBase, uvBase)
		}
	}

	if err := out.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", w.objPath, err)
	}
	return nil
}

// writeObject emits one `o` block and returns the advanced index bases.
func writeObject(out *bufio.Writer, obj sceneObject, vertBase, uvBase int) (int, int) {
	m := obj.mesh
	fmt.Fprintf(out, "o %s\n", obj.name)

	for _, v := range m.Vertices {
		fmt.Fprintf(out, "v %s %s %s\n", ftoa(v.X), ftoa(v.Y), ftoa(v.Z))
	}
	for _, face := range m.Faces {
		for _, uv := range face.UV {
			fmt.Fprintf(out, "vt %s %s\n", ftoa(uv.X), ftoa(uv.Y))
		}
	}

	lastSlot := -1
	for i, face := range m.Faces {
		if face.Material != lastSlot {
			if face.Material >= 0 && face.Material < len(m.Materials) {
				fmt.Fprintf(out, "usemtl %s\n", m.Materials[face.Material].Name)
			}
			lastSlot = face.Material
		}
		uv := uvBase + i*4
		fmt.Fprintf(out, "f %d/%d %d/%d %d/%d %d/%d\n",
			vertBase+face.Verts[0], uv,
			vertBase+face.Verts[1], uv+1,
			vertBase+face.Verts[2], uv+2,
			vertBase+face.Verts[3], uv+3)
	}

	return vertBase + len(m.Vertices), uvBase + len(m.Faces)*4
}

func (w *Writer) saveMTL() error {
	f, err := os.Create(w.mtlPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", w.mtlPath, err)
	}
	defer f.Close()

	out := bufio.NewWriter(f)
	for _, mat := range w.materials {
		fmt.Fprintf(out, "newmtl %s\n", mat.Name)
		fmt.Fprintln(out, "Kd 1 1 1")
		fmt.Fprintln(out, "d 1")
		fmt.Fprintln(out, "illum 1")
		if mat.PixelArt {
			// Hint for viewers that honor it; OBJ has no standard
			// nearest-filter directive.
			fmt.Fprintln(out, "# texture filter: nearest")
		}
		if mat.ImagePath != "" {
			fmt.Fprintf(out, "map_Kd %s\n", mat.ImagePath)
		}
	}

	if err := out.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", w.mtlPath, err)
	}
	return nil
}

func ftoa(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
