package hocr

import (
	"reflect"
	"testing"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="zh" lang="zh">
 <head>
  <title>registration</title>
  <meta http-equiv="Content-Type" content="text/html;charset=utf-8"/>
  <meta name="ocr-system" content="tesseract 5.3.0"/>
  <meta name="ocr-capabilities" content="ocr_page ocr_carea ocr_par ocr_line ocrx_word"/>
 </head>
 <body>
  <div class="ocr_page" id="page_1" title='image "scan.png"; bbox 0 0 1240 1754; ppageno 0'>
   <div class="ocr_carea" id="block_1_1" title="bbox 100 100 700 140">
    <p class="ocr_par" id="par_1_1" lang="chi_sim" title="bbox 100 100 700 140">
     <span class="ocr_line" id="line_1_1" title="bbox 100 100 700 140; baseline 0 -5; x_size 40">
      <span class="ocrx_word" id="word_1_1" title="bbox 100 100 180 140; x_wconf 96">姓名</span>
      <span class="ocrx_word" id="word_1_2" title="bbox 300 102 380 140; x_wconf 91"><strong>张三</strong></span>
     </span>
     <span class="ocr_textfloat" id="line_1_2" title="bbox 100 200 400 240">
      <span class="ocrx_word" id="word_1_3" title="bbox 100 200 200 240; x_wconf 88">Room</span>
      <span class="ocrx_word" id="word_1_4" title="bbox 210 200 260 240; x_wconf 90">12</span>
     </span>
    </p>
   </div>
   <span class="ocrx_word" id="word_1_9" title="bbox 5 5 20 20; x_wconf 40">x</span>
  </div>
 </body>
</html>`

func TestParseHOCR(t *testing.T) {
	doc, err := ParseHOCR([]byte(sample))
	if err != nil {
		t.Fatalf("ParseHOCR() error = %v", err)
	}
	if doc.Title != "registration" || doc.Language != "zh" {
		t.Fatalf("unexpected document header: %q %q", doc.Title, doc.Language)
	}
	if doc.Metadata["ocr-system"] != "tesseract 5.3.0" {
		t.Fatalf("unexpected metadata: %+v", doc.Metadata)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(doc.Pages))
	}

	page := doc.Pages[0]
	if page.ImageName != "scan.png" || page.BBox != NewBoundingBox(0, 0, 1240, 1754) {
		t.Fatalf("unexpected page: %+v", page)
	}
	if len(page.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(page.Lines))
	}
	if len(page.Words) != 1 || page.Words[0].Text != "x" {
		t.Fatalf("expected one loose word, got %+v", page.Words)
	}

	first := page.Lines[0]
	wantWords := []Word{
		{ID: "word_1_1", Text: "姓名", BBox: NewBoundingBox(100, 100, 180, 140), Confidence: 96},
		{ID: "word_1_2", Text: "张三", BBox: NewBoundingBox(300, 102, 380, 140), Confidence: 91},
	}
	if !reflect.DeepEqual(first.Words, wantWords) {
		t.Fatalf("unexpected words:\n got %+v\nwant %+v", first.Words, wantWords)
	}
	if first.Text() != "姓名张三" {
		t.Fatalf("CJK words should join without spaces, got %q", first.Text())
	}
	if got := first.Confidence(); got != 93.5 {
		t.Fatalf("line confidence = %v, want 93.5", got)
	}
	if got := page.Lines[1].Text(); got != "Room 12" {
		t.Fatalf("latin words should join with a space, got %q", got)
	}
}

func TestParseHOCRWithoutPages(t *testing.T) {
	if _, err := ParseHOCR([]byte("<html><body><p>nothing</p></body></html>")); err == nil {
		t.Fatalf("expected error for hOCR without pages")
	}
}

func TestParseTitle(t *testing.T) {
	props := ParseTitle("bbox 1 2 3 4; x_wconf 95;  baseline 0.01 -3 ")
	if !reflect.DeepEqual(props["bbox"], []string{"1", "2", "3", "4"}) {
		t.Fatalf("unexpected bbox: %v", props["bbox"])
	}
	if !reflect.DeepEqual(props["baseline"], []string{"0.01", "-3"}) {
		t.Fatalf("unexpected baseline: %v", props["baseline"])
	}
	if ParseBoundingBoxFromTitle("x_wconf 95") != nil {
		t.Fatalf("expected nil bbox")
	}
	if ParseBoundingBoxFromTitle("bbox 1 2 three 4") != nil {
		t.Fatalf("expected nil bbox for malformed values")
	}
}
