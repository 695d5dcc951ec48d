package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gardar/hukou/pkg/record"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for x := 0; x < 16; x++ {
		img.Set(x, 4, color.RGBA{R: 200, G: 30, B: 30, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write png: %v", err)
	}
}

func TestLoadInputErrors(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		msg  string
	}{
		{"missing", filepath.Join(dir, "missing.png"), "image doesn't exist"},
		{"directory", dir, "image is a directory"},
		{"extension", txt, "image has a not supported extension"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadInput(tt.path, nil)
			if !record.IsKind(err, record.KindInput) {
				t.Fatalf("expected input error, got %v", err)
			}
			if e := err.(*record.Error); e.Message != tt.msg || e.Path != tt.path {
				t.Fatalf("unexpected error: %+v", e)
			}
		})
	}
}

func TestLoadInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Scan.JPEG")
	if err := os.WriteFile(path, []byte("jpeg bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	in, err := LoadInput(path, nil)
	if err != nil {
		t.Fatalf("LoadInput() error = %v", err)
	}
	if in.Format != FormatJPEG || in.MimeType() != "image/jpeg" || string(in.Image) != "jpeg bytes" {
		t.Fatalf("unexpected input: %+v", in)
	}
}

func TestLoadInputPreprocess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.png")
	writePNG(t, path)

	opts := DefaultPreprocessOptions()
	opts.Enabled = true
	in, err := LoadInput(path, NewPreprocessor(opts))
	if err != nil {
		t.Fatalf("LoadInput() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(in.Image))
	if err != nil {
		t.Fatalf("preprocessed image is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 8 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	r, g, b, _ := img.At(3, 4).RGBA()
	if r != g || g != b {
		t.Fatalf("expected grayscale pixel, got %d %d %d", r, g, b)
	}
}

func TestLoadInputPreprocessFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadInput(path, NewPreprocessor(PreprocessOptions{Enabled: true}))
	if !record.IsKind(err, record.KindInput) {
		t.Fatalf("expected input error, got %v", err)
	}
}

func TestNewPreprocessorDisabled(t *testing.T) {
	if NewPreprocessor(DefaultPreprocessOptions()) != nil {
		t.Fatalf("disabled options should yield a nil preprocessor")
	}
}

func TestSupported(t *testing.T) {
	for path, want := range map[string]bool{"a.png": true, "b.JPG": true, "c.jpeg": true, "d.gif": false, "e": false} {
		if got := Supported(path); got != want {
			t.Errorf("Supported(%q) = %v, want %v", path, got, want)
		}
	}
}
