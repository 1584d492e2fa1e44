package extract

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/backmassage/swfsprite/internal/config"
)

// Stub tool arguments: $1=-cli $2=-selectid $3=<id> $4=-zoom $5=<zoom>
// $6=-export $7=<mode> $8=<exportDir> $9=<swf>.
const (
	stubDummy = `[ "$3" = "5" ] || exit 9
mkdir -p "$8/sprites"
printf dummy > "$8/sprites/dummy.png"
`
	stubFail    = "echo 'Exception in thread main' >&2\nexit 1\n"
	stubNoPNG   = "mkdir -p \"$8/sprites\"\necho log > \"$8/sprites/export.txt\"\n"
	stubTwoPNGs = `mkdir -p "$8/b" "$8/a"
printf 'small' > "$8/a/1.png"
printf 'a-much-larger-file' > "$8/b/0.png"
`
)

func TestStem(t *testing.T) {
	tests := map[string]string{
		"icon/pet_01.swf":  "pet_01",
		"pet.v2.swf":       "pet.v2",
		"/abs/dir/PET.SWF": "PET",
		"noext":            "noext",
	}
	for in, want := range tests {
		if got := Stem(in); got != want {
			t.Errorf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProcess_TableMissing(t *testing.T) {
	env := newEnv(t, "exit 0\n")
	swf := env.swf("b")

	r := Process(context.Background(), &env.cfg, swf)
	if r.OK() || r.Kind != KindTableMissing {
		t.Fatalf("kind = %s, want %s", r.Kind, KindTableMissing)
	}
	if !strings.Contains(r.Message, "b") || !strings.Contains(r.Message, "symbol table missing") {
		t.Errorf("message = %q", r.Message)
	}
	env.assertNoOutputTree()
}

func TestProcess_SymbolNotFound(t *testing.T) {
	env := newEnv(t, "exit 0\n")
	swf := env.swf("a")
	env.table("a", "1;shape\nx;item\n")

	r := Process(context.Background(), &env.cfg, swf)
	if r.Kind != KindSymbolNotFound {
		t.Fatalf("kind = %s, want %s", r.Kind, KindSymbolNotFound)
	}
	if r.Message != "no item symbol a" {
		t.Errorf("message = %q", r.Message)
	}
	env.assertNoOutputTree()
}

func TestProcess_Success(t *testing.T) {
	env := newEnv(t, stubDummy)
	swf := env.swf("a")
	env.table("a", "5;item\n")

	r := Process(context.Background(), &env.cfg, swf)
	if !r.OK() || r.Kind != KindSuccess {
		t.Fatalf("kind = %s (%v), want success", r.Kind, r.Err)
	}
	out := filepath.Join(env.cfg.OutputDir, "a.png")
	if r.Output != out {
		t.Errorf("Output = %q, want %q", r.Output, out)
	}
	b, err := os.ReadFile(out)
	if err != nil || string(b) != "dummy" {
		t.Errorf("output content = %q, %v", b, err)
	}
	if _, err := os.Stat(ExportDir(&env.cfg, "a")); !os.IsNotExist(err) {
		t.Errorf("temp dir should be removed, stat err = %v", err)
	}
	if r.Width != 0 || r.Height != 0 {
		t.Errorf("non-PNG content should report zero size, got %dx%d", r.Width, r.Height)
	}
	if len(r.Command) == 0 || r.Command[3] != "5" {
		t.Errorf("Command = %v", r.Command)
	}
}

func TestProcess_RealPNGSize(t *testing.T) {
	src := filepath.Join(t.TempDir(), "frame.png")
	writePNG(t, src, 12, 7)
	env := newEnv(t, "cp '"+src+"' \"$8/frame.png\"\n")
	swf := env.swf("pet")
	env.table("pet", "3;Item\n")

	r := Process(context.Background(), &env.cfg, swf)
	if r.Kind != KindSuccess {
		t.Fatalf("kind = %s (%v)", r.Kind, r.Err)
	}
	if r.Width != 12 || r.Height != 7 {
		t.Errorf("size = %dx%d, want 12x7", r.Width, r.Height)
	}
}

func TestProcess_OverwritesExistingOutput(t *testing.T) {
	env := newEnv(t, stubDummy)
	swf := env.swf("a")
	env.table("a", "5;item\n")
	if err := os.MkdirAll(env.cfg.OutputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	out := OutputPath(&env.cfg, "a")
	if err := os.WriteFile(out, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	if r := Process(context.Background(), &env.cfg, swf); r.Kind != KindSuccess {
		t.Fatalf("kind = %s (%v)", r.Kind, r.Err)
	}
	b, _ := os.ReadFile(out)
	if string(b) != "dummy" {
		t.Errorf("output = %q, want overwritten with dummy", b)
	}
}

func TestProcess_ToolFailure(t *testing.T) {
	env := newEnv(t, stubFail)
	swf := env.swf("a")
	env.table("a", "5;item\n")

	r := Process(context.Background(), &env.cfg, swf)
	if r.OK() || r.Kind != KindToolFailure {
		t.Fatalf("kind = %s, want %s", r.Kind, KindToolFailure)
	}
	if !strings.HasPrefix(r.Message, "error a: ") {
		t.Errorf("message = %q, want stem and error text", r.Message)
	}
	if _, err := os.Stat(OutputPath(&env.cfg, "a")); !os.IsNotExist(err) {
		t.Error("no output file expected after tool failure")
	}
}

func TestProcess_ToolFailureTempDir(t *testing.T) {
	tests := []struct {
		cleanup      config.CleanupPolicy
		wantTempLeft bool
	}{
		{config.CleanupOnSuccess, true},
		{config.CleanupAlways, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.cleanup), func(t *testing.T) {
			env := newEnv(t, stubFail)
			env.cfg.Cleanup = tt.cleanup
			swf := env.swf("a")
			env.table("a", "5;item\n")

			if r := Process(context.Background(), &env.cfg, swf); r.Kind != KindToolFailure {
				t.Fatalf("kind = %s, want %s", r.Kind, KindToolFailure)
			}
			_, err := os.Stat(ExportDir(&env.cfg, "a"))
			if left := err == nil; left != tt.wantTempLeft {
				t.Errorf("temp dir left = %v, want %v", left, tt.wantTempLeft)
			}
		})
	}
}

func TestFindPNGs_WalkOrder(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"a.png", "a/z.png", "b.PNG", "a/notes.txt"} {
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := findPNGs(root)
	if err != nil {
		t.Fatalf("findPNGs: %v", err)
	}
	// The directory "a" sorts before "a.png", so its contents come first.
	want := []string{"a/z.png", "a.png", "b.PNG"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if rel, _ := filepath.Rel(root, got[i]); filepath.ToSlash(rel) != want[i] {
			t.Errorf("[%d] = %s, want %s", i, rel, want[i])
		}
	}
}

func TestProcess_NoPNG(t *testing.T) {
	tests := []struct {
		name         string
		cleanup      config.CleanupPolicy
		wantTempLeft bool
	}{
		{"on-success keeps temp dir", config.CleanupOnSuccess, true},
		{"always removes temp dir", config.CleanupAlways, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, stubNoPNG)
			env.cfg.Cleanup = tt.cleanup
			swf := env.swf("a")
			env.table("a", "5;item\n")

			r := Process(context.Background(), &env.cfg, swf)
			if r.Kind != KindNoOutput {
				t.Fatalf("kind = %s, want %s", r.Kind, KindNoOutput)
			}
			if r.Message != "no PNG produced a" {
				t.Errorf("message = %q", r.Message)
			}
			if _, err := os.Stat(OutputPath(&env.cfg, "a")); !os.IsNotExist(err) {
				t.Error("no output file expected")
			}
			_, err := os.Stat(ExportDir(&env.cfg, "a"))
			if left := err == nil; left != tt.wantTempLeft {
				t.Errorf("temp dir left = %v, want %v", left, tt.wantTempLeft)
			}
		})
	}
}

func TestProcess_PickPolicy(t *testing.T) {
	tests := []struct {
		pick config.PickPolicy
		want string
	}{
		{config.PickFirst, "small"},
		{config.PickLargest, "a-much-larger-file"},
	}
	for _, tt := range tests {
		t.Run(string(tt.pick), func(t *testing.T) {
			env := newEnv(t, stubTwoPNGs)
			env.cfg.Pick = tt.pick
			swf := env.swf("a")
			env.table("a", "5;item\n")

			r := Process(context.Background(), &env.cfg, swf)
			if r.Kind != KindSuccess {
				t.Fatalf("kind = %s (%v)", r.Kind, r.Err)
			}
			b, _ := os.ReadFile(r.Output)
			if string(b) != tt.want {
				t.Errorf("picked %q, want %q", b, tt.want)
			}
		})
	}
}

func TestProcess_DryRun(t *testing.T) {
	env := newEnv(t, "exit 1\n")
	env.cfg.DryRun = true
	swf := env.swf("a")
	env.table("a", "5;item\n")

	r := Process(context.Background(), &env.cfg, swf)
	if r.Kind != KindDryRun || !r.OK() {
		t.Fatalf("kind = %s, want %s", r.Kind, KindDryRun)
	}
	if len(r.Command) != 9 {
		t.Errorf("Command = %v", r.Command)
	}
	env.assertNoOutputTree()
}

func TestProcess_Interrupted(t *testing.T) {
	env := newEnv(t, stubDummy)
	swf := env.swf("a")
	env.table("a", "5;item\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := Process(ctx, &env.cfg, swf)
	if r.Kind != KindInterrupted {
		t.Fatalf("kind = %s, want %s", r.Kind, KindInterrupted)
	}
	env.assertNoOutputTree()
}

// --- Helpers ---

type testEnv struct {
	t   *testing.T
	cfg config.Config
}

// newEnv lays out source/symbol/output dirs under a temp root and installs a
// /bin/sh stub as the decompiler.
func newEnv(t *testing.T, stubBody string) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stub tools need /bin/sh")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	root := t.TempDir()
	tool := filepath.Join(root, "ffdec")
	if err := os.WriteFile(tool, []byte("#!/bin/sh\n"+stubBody), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.ToolPath = tool
	cfg.SourceDir = filepath.Join(root, "icon")
	cfg.SymbolsDir = filepath.Join(root, "iconsymbol")
	cfg.OutputDir = filepath.Join(root, "iconImage")
	if err := os.MkdirAll(cfg.SourceDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return &testEnv{t: t, cfg: cfg}
}

func (e *testEnv) swf(stem string) string {
	e.t.Helper()
	p := filepath.Join(e.cfg.SourceDir, stem+".swf")
	if err := os.WriteFile(p, []byte("FWS"), 0o644); err != nil {
		e.t.Fatal(err)
	}
	return p
}

func (e *testEnv) table(stem, content string) {
	e.t.Helper()
	dir := filepath.Join(e.cfg.SymbolsDir, stem+".swf")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		e.t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "symbols.csv"), []byte(content), 0o644); err != nil {
		e.t.Fatal(err)
	}
}

func (e *testEnv) assertNoOutputTree() {
	e.t.Helper()
	if _, err := os.Stat(e.cfg.OutputDir); !os.IsNotExist(err) {
		e.t.Errorf("output dir %s should not exist, stat err = %v", e.cfg.OutputDir, err)
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}
