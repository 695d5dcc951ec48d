package ocr

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gardar/hukou/pkg/hocr"
	"github.com/gardar/hukou/pkg/record"
)

const hocrPage = `<html><body>
<div class="ocr_page" title="bbox 0 0 1000 1000">
 <span class="ocr_line" title="bbox 100 100 380 140">
  <span class="ocrx_word" title="bbox 100 100 180 140; x_wconf 96">姓名</span>
  <span class="ocrx_word" title="bbox 300 102 380 140; x_wconf 90">张三</span>
 </span>
 <span class="ocrx_word" title="bbox 5 5 20 20; x_wconf 50">x</span>
</div>
</body></html>`

func parsedPage(t *testing.T) hocr.HOCR {
	t.Helper()
	doc, err := hocr.ParseHOCR([]byte(hocrPage))
	if err != nil {
		t.Fatalf("ParseHOCR() error = %v", err)
	}
	return doc
}

func TestFromHOCRWords(t *testing.T) {
	got := FromHOCR(parsedPage(t), LevelWord)
	if len(got) != 3 {
		t.Fatalf("expected 3 fragments, got %+v", got)
	}
	want := record.Fragment{Quad: record.QuadFromBox(300, 102, 380, 140), Text: "张三", Confidence: 0.9}
	if got[1] != want {
		t.Fatalf("second fragment = %+v, want %+v", got[1], want)
	}
	if got[2].Text != "x" || got[2].Confidence != 0.5 {
		t.Fatalf("loose word = %+v", got[2])
	}
}

func TestFromHOCRLines(t *testing.T) {
	got := FromHOCR(parsedPage(t), LevelLine)
	if len(got) != 2 {
		t.Fatalf("expected 2 fragments, got %+v", got)
	}
	if got[0].Text != "姓名张三" || got[0].Quad != record.QuadFromBox(100, 100, 380, 140) {
		t.Fatalf("line fragment = %+v", got[0])
	}
	if got[0].Confidence < 0.929 || got[0].Confidence > 0.931 {
		t.Fatalf("line confidence = %v, want 0.93", got[0].Confidence)
	}
}

func TestHOCREngineSidecarNames(t *testing.T) {
	tests := []struct {
		name    string
		sidecar string
	}{
		{"full name", "scan.png.hocr"},
		{"without extension", "scan.hocr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, tt.sidecar), []byte(hocrPage), 0644); err != nil {
				t.Fatal(err)
			}
			got, err := NewHOCREngine(LevelWord).Recognize(context.Background(), Input{Path: filepath.Join(dir, "scan.png")})
			if err != nil {
				t.Fatalf("Recognize() error = %v", err)
			}
			if len(got) != 3 {
				t.Fatalf("expected 3 fragments, got %d", len(got))
			}
		})
	}
}

func TestHOCREngineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewHOCREngine(LevelWord).Recognize(ctx, Input{Path: "scan.png"}); err == nil {
		t.Fatalf("expected context error")
	}
}
