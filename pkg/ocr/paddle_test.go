package ocr

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gardar/hukou/pkg/record"
)

const paddleLines = `[
  [[[100, 100], [180, 100], [180, 140], [100, 140]], ["姓名", 0.998]],
  [[[300, 102], [380, 102], [380, 140], [300, 140]], [" 张三 ", 0.91]]
]`

func TestDecodePaddleShapes(t *testing.T) {
	bare, err := DecodePaddle([]byte(paddleLines))
	if err != nil {
		t.Fatalf("DecodePaddle(bare) error = %v", err)
	}
	wrapped, err := DecodePaddle([]byte("[" + paddleLines + "]"))
	if err != nil {
		t.Fatalf("DecodePaddle(wrapped) error = %v", err)
	}
	if !reflect.DeepEqual(bare, wrapped) {
		t.Fatalf("shapes decode differently:\n bare %+v\n wrapped %+v", bare, wrapped)
	}

	want := record.Result{
		{Quad: record.QuadFromBox(100, 100, 180, 140), Text: "姓名", Confidence: 0.998},
		{Quad: record.QuadFromBox(300, 102, 380, 140), Text: "张三", Confidence: 0.91},
	}
	if !reflect.DeepEqual(bare, want) {
		t.Fatalf("DecodePaddle() = %+v, want %+v", bare, want)
	}
}

func TestDecodePaddleEmptyPages(t *testing.T) {
	for _, in := range []string{"[]", "[null]", "[[]]"} {
		got, err := DecodePaddle([]byte(in))
		if err != nil {
			t.Errorf("DecodePaddle(%s) error = %v", in, err)
		}
		if len(got) != 0 {
			t.Errorf("DecodePaddle(%s) = %+v, want empty", in, got)
		}
	}
}

func TestDecodePaddleDropsBlankText(t *testing.T) {
	got, err := DecodePaddle([]byte(`[
  [[[100, 100], [180, 100], [180, 140], [100, 140]], ["姓名", 0.998]],
  [[[300, 102], [380, 102], [380, 140], [300, 140]], ["  ", 0.91]]
]`))
	if err != nil {
		t.Fatalf("DecodePaddle() error = %v", err)
	}
	if len(got) != 1 || got[0].Text != "姓名" {
		t.Fatalf("expected only the labelled fragment, got %+v", got)
	}
}

func TestDecodePaddleMalformed(t *testing.T) {
	for _, in := range []string{
		`{"text": "x"}`,
		`[[[[1, 2], [3, 4]], ["short quad", 0.9]]]`,
		`[[[[1, 2], [3, 4], [5, 6], [7, 8]], ["missing confidence"]]]`,
	} {
		if _, err := DecodePaddle([]byte(in)); err == nil {
			t.Errorf("DecodePaddle(%s) expected error", in)
		}
	}
}

func TestPaddleEngineSidecar(t *testing.T) {
	dir := t.TempDir()
	image := filepath.Join(dir, "page.png")
	if err := os.WriteFile(filepath.Join(dir, "page.json"), []byte(paddleLines), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := NewPaddleEngine().Recognize(context.Background(), Input{Path: image})
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(got))
	}

	if _, err := NewPaddleEngine().Recognize(context.Background(), Input{Path: filepath.Join(dir, "other.png")}); err == nil {
		t.Fatalf("expected error without sidecar")
	}
}
