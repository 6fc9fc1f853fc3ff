package texture

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writeTestPNG writes a width x height PNG and returns its path.
func writeTestPNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating test image: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return path
}

func TestLoadImage(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), "terrain.png", 64, 32)

	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	if img.Width != 64 || img.Height != 32 {
		t.Errorf("expected 64x32, got %dx%d", img.Width, img.Height)
	}
	if img.Name != "terrain.png" {
		t.Errorf("expected name terrain.png, got %s", img.Name)
	}
	if img.Path != path {
		t.Errorf("expected path %s, got %s", path, img.Path)
	}
}

func TestLoadImage_Missing(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "nope.png"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadImage_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadImage(path); err == nil {
		t.Error("expected decode error for garbage file")
	}
}

func TestCache_LookupOrCreate(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "tiles.png", 32, 32)

	cache := NewCache()

	first, err := cache.LoadOrGetImage(path)
	if err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	second, err := cache.LoadOrGetImage(path)
	if err != nil {
		t.Fatalf("second load failed: %v", err)
	}

	if first != second {
		t.Error("expected cache to return the same image instance")
	}
	if cache.Len() != 1 {
		t.Errorf("expected 1 cached image, got %d", cache.Len())
	}
}

func TestCache_MissDoesNotPoison(t *testing.T) {
	cache := NewCache()
	missing := filepath.Join(t.TempDir(), "missing.png")

	if _, err := cache.LoadOrGetImage(missing); err == nil {
		t.Fatal("expected error for missing image")
	}
	if cache.Len() != 0 {
		t.Errorf("failed load must not be cached, got %d entries", cache.Len())
	}
}
