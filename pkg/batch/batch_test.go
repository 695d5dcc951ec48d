package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gardar/hukou/pkg/ocr"
	"github.com/gardar/hukou/pkg/record"
)

func frag(text string, x, y float64) record.Fragment {
	return record.Fragment{Quad: record.QuadFromBox(x, y, x+120, y+32), Text: text, Confidence: 0.99}
}

func page(name string) record.Result {
	return record.Result{
		frag("姓名", 100, 100), frag(name, 300, 100),
		frag("性别", 100, 200), frag("女", 300, 200),
		frag("公民身份证号", 100, 300), frag("110101199203040027", 300, 300),
		frag("出生日期", 100, 400), frag("1992年03月04日", 300, 400),
		frag("户籍地址", 100, 500), frag("上海市黄浦区", 300, 500),
	}
}

// fakeEngine returns canned results keyed by file base name.
type fakeEngine struct {
	results map[string]record.Result
	errs    map[string]error
	seen    []string
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(_ context.Context, in ocr.Input) (record.Result, error) {
	base := filepath.Base(in.Path)
	f.seen = append(f.seen, base)
	if err := f.errs[base]; err != nil {
		return nil, err
	}
	return f.results[base], nil
}

func (f *fakeEngine) Close() error { return nil }

type recorder struct {
	calls []string
}

func (r *recorder) Found(total int) { r.calls = append(r.calls, "found") }
func (r *recorder) Started(file string) { r.calls = append(r.calls, "started "+file) }
func (r *recorder) Skipped(file string, _ error) {
	r.calls = append(r.calls, "skipped "+file)
}
func (r *recorder) Extracted(file string, _ record.Record) {
	r.calls = append(r.calls, "extracted "+file)
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("image"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRunMissingDirectory(t *testing.T) {
	runner := NewRunner(&fakeEngine{})
	_, err := runner.Run(context.Background(), filepath.Join(t.TempDir(), "images"))
	if err == nil || !strings.Contains(err.Error(), "doesn't exist") {
		t.Fatalf("expected missing directory error, got %v", err)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.png", "b.txt", "c.jpg", "d.png", "e.jpeg")
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatal(err)
	}

	engine := &fakeEngine{
		results: map[string]record.Result{
			"a.png":  page("李四"),
			"d.png":  page("王五")[2:],
			"e.jpeg": page("赵六"),
		},
		errs: map[string]error{"c.jpg": errors.New("engine crashed")},
	}
	rep := &recorder{}
	runner := NewRunner(engine)
	runner.Reporter = rep
	var recognized []string
	runner.OnRecognized = func(file string, in ocr.Input, result record.Result) {
		recognized = append(recognized, file)
		if in.Path != filepath.Join(dir, file) {
			t.Errorf("input path = %q", in.Path)
		}
	}

	rows, err := runner.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var got []string
	for _, row := range rows {
		got = append(got, row.Filename)
	}
	if want := []string{"a.png", "b.txt", "c.jpg", "d.png", "e.jpeg"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("filenames = %v, want %v", got, want)
	}
	for i, row := range rows {
		if row.Index != i+1 {
			t.Errorf("row %d has index %d", i, row.Index)
		}
	}

	if !rows[0].Extracted() || rows[0].Record.Name != "李四" || rows[0].Err != nil {
		t.Errorf("a.png: %+v", rows[0])
	}
	if rows[1].Extracted() || !record.IsKind(rows[1].Err, record.KindInput) {
		t.Errorf("b.txt should be an input failure: %+v", rows[1])
	}
	if rows[2].Extracted() || !record.IsKind(rows[2].Err, record.KindInput) || !strings.Contains(rows[2].Err.Error(), "engine crashed") {
		t.Errorf("c.jpg should carry the engine error: %+v", rows[2])
	}
	if rows[3].Extracted() || !record.IsKind(rows[3].Err, record.KindLayout) {
		t.Errorf("d.png should be a layout failure: %+v", rows[3])
	}
	if rows[4].Record.Name != "赵六" {
		t.Errorf("e.jpeg: %+v", rows[4])
	}

	if want := []string{"a.png", "c.jpg", "d.png", "e.jpeg"}; !reflect.DeepEqual(engine.seen, want) {
		t.Errorf("engine saw %v, want %v", engine.seen, want)
	}

	if want := []string{"a.png", "d.png", "e.jpeg"}; !reflect.DeepEqual(recognized, want) {
		t.Errorf("recognized %v, want %v", recognized, want)
	}

	wantCalls := []string{
		"found",
		"started a.png", "extracted a.png",
		"started b.txt", "skipped b.txt",
		"started c.jpg", "skipped c.jpg",
		"started d.png",
		"started e.jpeg", "extracted e.jpeg",
	}
	if !reflect.DeepEqual(rep.calls, wantCalls) {
		t.Errorf("reporter calls:\n got %v\nwant %v", rep.calls, wantCalls)
	}
}

func TestRunBlankValuesAreNotReported(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.png")

	blank := page("")
	for i := range blank {
		if i%2 == 1 {
			blank[i].Text = ""
		}
	}
	engine := &fakeEngine{results: map[string]record.Result{"a.png": blank}}
	rep := &recorder{}
	runner := NewRunner(engine)
	runner.Reporter = rep

	rows, err := runner.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rows) != 1 || rows[0].Extracted() {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if want := []string{"found", "started a.png"}; !reflect.DeepEqual(rep.calls, want) {
		t.Errorf("reporter calls = %v, want %v", rep.calls, want)
	}
}

func TestRunRecursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.png", "2024/a.png")

	engine := &fakeEngine{results: map[string]record.Result{"a.png": page("孙七"), "b.png": page("周八")}}
	runner := NewRunner(engine)
	runner.Recursive = true

	rows, err := runner.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rows) != 2 || rows[0].Filename != "2024/a.png" || rows[0].Record.Name != "孙七" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.png", "b.png")

	ctx, cancel := context.WithCancel(context.Background())
	engine := &fakeEngine{results: map[string]record.Result{"a.png": page("吴九")}}
	runner := NewRunner(engine)
	runner.Reporter = reporterFunc(func(file string) {
		if file == "a.png" {
			cancel()
		}
	})

	rows, err := runner.Run(ctx, dir)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(rows) != 1 || rows[0].Record.Name != "吴九" {
		t.Fatalf("expected the first row to complete, got %+v", rows)
	}
}

// reporterFunc calls its function once a file has been extracted.
type reporterFunc func(file string)

func (f reporterFunc) Found(int) {}
func (f reporterFunc) Started(string) {}
func (f reporterFunc) Skipped(string, error) {}
func (f reporterFunc) Extracted(file string, _ record.Record) { f(file) }
