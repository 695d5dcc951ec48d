package pdfocr

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gardar/hukou/pkg/record"
)

func testConfig() OCRConfig {
	cfg := DefaultConfig()
	cfg.Font.Data = goregular.TTF
	return cfg
}

func encodeImage(t *testing.T, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 600, 400))
	for x := 0; x < 600; x++ {
		img.Set(x, 200, color.Black)
	}
	var buf bytes.Buffer
	var err error
	if format == "png" {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("encode %s: %v", format, err)
	}
	return buf.Bytes()
}

func TestAssemble(t *testing.T) {
	pages := []Page{
		{Name: "a.png", Image: encodeImage(t, "png"), Fragments: record.Result{
			{Quad: record.QuadFromBox(100, 100, 180, 140), Text: "Name", Confidence: 0.99},
			{Quad: record.QuadFromBox(300, 100, 420, 140), Text: "Zhang San", Confidence: 0.98},
		}},
		{Name: "b.jpg", Image: encodeImage(t, "jpeg")},
	}

	for _, debug := range []bool{false, true} {
		cfg := testConfig()
		cfg.Debug = debug
		cfg.Logger = &bytes.Buffer{}

		out, err := Assemble(pages, cfg)
		if err != nil {
			t.Fatalf("Assemble(debug=%v) error = %v", debug, err)
		}
		if !bytes.HasPrefix(out, []byte("%PDF")) {
			t.Fatalf("output is not a PDF")
		}
		if !bytes.Contains(out, []byte("/OCG")) {
			t.Fatalf("output has no optional content group")
		}
	}
}

func TestAssembleValidation(t *testing.T) {
	img := encodeImage(t, "png")
	noFont := DefaultConfig()
	badStart := testConfig()
	badStart.StartPage = 0

	tests := []struct {
		name    string
		pages   []Page
		cfg     OCRConfig
		wantErr string
	}{
		{"no pages", nil, testConfig(), "no pages"},
		{"no font", []Page{{Image: img}}, noFont, "font"},
		{"start page", []Page{{Image: img}}, badStart, "start page"},
		{"empty image", []Page{{Name: "x.png"}}, testConfig(), "is empty"},
		{"invalid image", []Page{{Name: "x.png", Image: []byte("nope")}}, testConfig(), "invalid format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(tt.pages, tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Assemble() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	q := record.Quad{{X: 10, Y: 5}, {X: 50, Y: 8}, {X: 48, Y: 30}, {X: 9, Y: 27}}
	x1, y1, x2, y2 := bounds(q)
	if x1 != 9 || y1 != 5 || x2 != 50 || y2 != 30 {
		t.Fatalf("bounds() = %v %v %v %v", x1, y1, x2, y2)
	}
}
