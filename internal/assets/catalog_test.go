package assets

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// #region helpers
func writeIcon(t *testing.T, dir, name string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
}

func iconDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		writeIcon(t, dir, n)
	}
	return dir
}

// #endregion helpers

// #region classify-tests
func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		strict bool
		want   Style
		ok     bool
	}{
		{"square_filled.png", true, StyleFilled, true},
		{"square_unfilled.png", true, StyleUnfilled, true},
		{"square_dash.png", true, StyleOpen, true},
		{"circle_open.png", true, StyleOpen, true},
		{"tri_unfilled_dash.png", true, StyleOpen, true},
		{"tri_unfilled_dash.png", false, StyleUnfilled, true},
		{"Square_FILLED.png", true, "", false},
		{"star.png", true, "", false},
	}
	for _, tt := range tests {
		got, ok := Classify(tt.name, tt.strict)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Classify(%q, %v) = %q, %v; want %q, %v", tt.name, tt.strict, got, ok, tt.want, tt.ok)
		}
	}
}

// #endregion classify-tests

// #region load-tests
func TestLoad_ThreeSquares(t *testing.T) {
	dir := iconDir(t, "square_filled.png", "square_unfilled.png", "square_dash.png")

	c, err := Load(dir, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[Style][]string{
		StyleFilled:   {"square_filled.png"},
		StyleUnfilled: {"square_unfilled.png"},
		StyleOpen:     {"square_dash.png"},
	}
	for style, files := range want {
		if got := c.Bucket(style); !reflect.DeepEqual(got, files) {
			t.Errorf("bucket %s: got %v, want %v", style, got, files)
		}
	}
	if len(c.Files()) != 3 {
		t.Errorf("expected 3 files, got %d", len(c.Files()))
	}
}

func TestLoad_IgnoresOtherExtensions(t *testing.T) {
	dir := iconDir(t, "a_filled.png")
	if err := os.WriteFile(filepath.Join(dir, "notes_filled.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(dir, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Files(); len(got) != 1 || got[0] != "a_filled.png" {
		t.Errorf("expected only the png, got %v", got)
	}
}

func TestLoad_EmptyDir(t *testing.T) {
	_, err := Load(t.TempDir(), DefaultOptions())
	if !errors.Is(err, ErrCatalogEmpty) {
		t.Fatalf("expected ErrCatalogEmpty, got %v", err)
	}
}

func TestLoad_MissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"), DefaultOptions())
	if err == nil {
		t.Fatal("expected error for missing dir")
	}
}

// #endregion load-tests

// #region sample-tests
func TestSample_InsufficientAssets(t *testing.T) {
	dir := iconDir(t, "square_filled.png", "square_unfilled.png", "square_dash.png")
	c, err := Load(dir, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Sample(StyleFilled, 2, rand.New(rand.NewPCG(1, 2)))
	if !errors.Is(err, ErrInsufficientAssets) {
		t.Fatalf("expected ErrInsufficientAssets, got %v", err)
	}
	var ia *InsufficientAssetsError
	if !errors.As(err, &ia) {
		t.Fatal("expected *InsufficientAssetsError")
	}
	if ia.Style != StyleFilled || ia.Have != 1 || ia.Need != 2 {
		t.Errorf("unexpected error detail: %+v", ia)
	}
}

func TestSample_Distinct(t *testing.T) {
	dir := iconDir(t, "a_filled.png", "b_filled.png", "c_filled.png", "d_filled.png")
	c, err := Load(dir, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 20; i++ {
		got, err := c.Sample(StyleFilled, 4, rng)
		if err != nil {
			t.Fatal(err)
		}
		seen := map[string]bool{}
		for _, f := range got {
			if seen[f] {
				t.Fatalf("duplicate %s in %v", f, got)
			}
			seen[f] = true
		}
	}
}

func TestRequire_MinPerBucket(t *testing.T) {
	dir := iconDir(t, "a_filled.png", "b_filled.png")
	c, err := Load(dir, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Require(StyleFilled, 2); !errors.Is(err, ErrInsufficientAssets) {
		t.Fatalf("expected min-per-bucket failure, got %v", err)
	}

	opts := DefaultOptions()
	opts.MinPerBucket = 2
	c, err = Load(dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Require(StyleFilled, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// #endregion sample-tests

// #region icon-tests
func TestIcon_DecodesAndCaches(t *testing.T) {
	dir := iconDir(t, "a_filled.png")
	c, err := Load(dir, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	img, err := c.Icon("a_filled.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("expected 4px icon, got %d", img.Bounds().Dx())
	}

	// Cached copy survives removal of the file.
	os.Remove(filepath.Join(dir, "a_filled.png"))
	if _, err := c.Icon("a_filled.png"); err != nil {
		t.Errorf("expected cached icon, got %v", err)
	}
}

// #endregion icon-tests
