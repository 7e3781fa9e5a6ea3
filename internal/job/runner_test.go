package job_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/gofrs/flock"

	"lottie2video/internal/capture"
	"lottie2video/internal/encoding"
	"lottie2video/internal/job"
	"lottie2video/internal/logging"
	"lottie2video/internal/services"
)

// stubExecutor fakes both the render subprocess and the encoders.
type stubExecutor struct {
	mu        sync.Mutex
	calls     [][]string
	frames    int
	renderErr error
	encodeErr error
}

func (s *stubExecutor) Run(_ context.Context, binary string, args []string, onLine func(string)) error {
	s.mu.Lock()
	s.calls = append(s.calls, append([]string{binary}, args...))
	s.mu.Unlock()

	if len(args) > 0 && args[0] == "render" {
		if s.renderErr != nil {
			return s.renderErr
		}
		dir := args[2]
		for i := 0; i < s.frames; i++ {
			if err := os.WriteFile(capture.FramePath(dir, i), []byte("png"), 0o644); err != nil {
				return err
			}
		}
		if onLine != nil {
			onLine("captured")
		}
		return nil
	}
	if s.encodeErr != nil {
		return s.encodeErr
	}
	return os.WriteFile(args[len(args)-1], []byte("video"), 0o644)
}

func newRunner(exec *stubExecutor) *job.Runner {
	return &job.Runner{
		Self:    "/usr/local/bin/lottie2video",
		Exec:    exec,
		Encoder: encoding.NewEncoder(encoding.DefaultRecipe(), exec, logging.NewNop()),
		Logger:  logging.NewNop(),
	}
}

func TestSettingsValidate(t *testing.T) {
	valid := job.Settings{Format: encoding.FormatGIF, FPS: 60}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid settings, got %v", err)
	}
	bad := map[string]job.Settings{
		"format":     {Format: "mov", FPS: 60},
		"fps":        {Format: encoding.FormatGIF, FPS: 0},
		"width":      {Format: encoding.FormatGIF, FPS: 60, Width: -1},
		"extend":     {Format: encoding.FormatGIF, FPS: 60, ExtendSeconds: -2},
		"extend NaN": {Format: encoding.FormatGIF, FPS: 60, ExtendSeconds: math.NaN()},
		"extend Inf": {Format: encoding.FormatGIF, FPS: 60, ExtendSeconds: math.Inf(1)},
	}
	for name, settings := range bad {
		if err := settings.Validate(); !errors.Is(err, services.ErrConfiguration) {
			t.Fatalf("%s: expected configuration error, got %v", name, err)
		}
	}
}

func TestSpecLayouts(t *testing.T) {
	settings := job.Settings{Format: encoding.FormatWebM, FPS: 30}

	specs := job.BatchSpecs(settings, []string{"/w/_1_inputLottie/intro.json"}, "/w/_3_convertVideo", "/w/_2_renderPNG")
	if got := specs[0].OutputPath(); got != "/w/_3_convertVideo/intro.webm" {
		t.Fatalf("batch output path %s", got)
	}
	if got := specs[0].WorkDir(); got != "/w/_2_renderPNG/intro" {
		t.Fatalf("batch work dir %s", got)
	}
	if got := specs[0].LockPath(); got != "/w/_2_renderPNG/intro.lock" {
		t.Fatalf("lock path %s", got)
	}

	single := job.SingleSpec(settings, "/anim/logo.v2.json")
	if single.Base() != "logo.v2" {
		t.Fatalf("base %q", single.Base())
	}
	if got := single.OutputPath(); got != "/anim/logo.v2.webm" {
		t.Fatalf("single output path %s", got)
	}
	if got := single.WorkDir(); got != "/anim/_2_renderPNG/logo.v2" {
		t.Fatalf("single work dir %s", got)
	}
}

func TestRenderArgs(t *testing.T) {
	r := &job.Runner{ExtraArgs: []string{"--config", "/etc/l2v.toml"}}
	spec := job.Spec{
		Settings:   job.Settings{Format: encoding.FormatMP4, Width: 640, FPS: 24, ExtendSeconds: 1.5, DisableGPU: true},
		InputPath:  "/in/a.json",
		RenderRoot: "/render",
	}
	want := []string{"render", "/in/a.json", "/render/a", "--width", "640", "--disable-gpu", "--extend", "1.5", "--fps", "24", "--config", "/etc/l2v.toml"}
	if got := r.RenderArgs(spec); !reflect.DeepEqual(got, want) {
		t.Fatalf("RenderArgs mismatch\n got: %v\nwant: %v", got, want)
	}

	spec.Width, spec.DisableGPU, spec.ExtendSeconds = 0, false, 0
	r.ExtraArgs = nil
	want = []string{"render", "/in/a.json", "/render/a", "--fps", "24"}
	if got := r.RenderArgs(spec); !reflect.DeepEqual(got, want) {
		t.Fatalf("minimal RenderArgs mismatch\n got: %v\nwant: %v", got, want)
	}
}

func TestRunProducesOutput(t *testing.T) {
	root := t.TempDir()
	exec := &stubExecutor{frames: 3}
	spec := job.BatchSpecs(job.Settings{Format: encoding.FormatWebP, FPS: 25},
		[]string{filepath.Join(root, "in", "wave.json")}, filepath.Join(root, "out"), filepath.Join(root, "render"))[0]

	// Leftover frames from a previous, longer run must not survive.
	if err := os.MkdirAll(spec.WorkDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(capture.FramePath(spec.WorkDir(), 9), []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := newRunner(exec).Run(context.Background(), spec)
	if result.Err != nil {
		t.Fatalf("Run returned error: %v", result.Err)
	}
	if result.OutputPath != filepath.Join(root, "out", "wave.webp") || result.WorkDir != spec.WorkDir() {
		t.Fatalf("unexpected result paths %+v", result)
	}
	if _, err := os.Stat(result.OutputPath); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if len(exec.calls) != 2 {
		t.Fatalf("expected render + img2webp calls, got %v", exec.calls)
	}
	webp := exec.calls[1]
	if webp[0] != "img2webp" || len(webp) != 1+5+3+2 {
		t.Fatalf("expected 3 frames passed to img2webp, got %v", webp)
	}
	if !result.Succeeded() || result.Elapsed <= 0 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRunRenderFailureKeepsWorkDir(t *testing.T) {
	root := t.TempDir()
	exec := &stubExecutor{renderErr: errors.New("exit status 1")}
	spec := job.SingleSpec(job.Settings{Format: encoding.FormatGIF, FPS: 30}, filepath.Join(root, "broken.json"))

	result := newRunner(exec).Run(context.Background(), spec)
	if !errors.Is(result.Err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", result.Err)
	}
	if result.WorkDir != filepath.Join(root, "_2_renderPNG", "broken") {
		t.Fatalf("failure record must carry the work dir, got %q", result.WorkDir)
	}
	if len(exec.calls) != 1 {
		t.Fatalf("encoder must not run after render failure")
	}
}

func TestRunEncodeFailure(t *testing.T) {
	root := t.TempDir()
	exec := &stubExecutor{frames: 2, encodeErr: errors.New("codec not found")}
	spec := job.SingleSpec(job.Settings{Format: encoding.FormatMP4, FPS: 30}, filepath.Join(root, "clip.json"))

	result := newRunner(exec).Run(context.Background(), spec)
	if !errors.Is(result.Err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", result.Err)
	}
	if result.Succeeded() {
		t.Fatal("expected failure")
	}
}

func TestRunFailsWhenWorkDirLocked(t *testing.T) {
	root := t.TempDir()
	spec := job.SingleSpec(job.Settings{Format: encoding.FormatAPNG, FPS: 30}, filepath.Join(root, "busy.json"))
	if err := os.MkdirAll(spec.RenderRoot, 0o755); err != nil {
		t.Fatal(err)
	}
	held := flock.New(spec.LockPath())
	if ok, err := held.TryLock(); err != nil || !ok {
		t.Fatalf("pre-lock failed: %v %v", ok, err)
	}
	defer held.Unlock()

	exec := &stubExecutor{frames: 1}
	result := newRunner(exec).Run(context.Background(), spec)
	if !errors.Is(result.Err, services.ErrTransient) {
		t.Fatalf("expected lock conflict, got %v", result.Err)
	}
	if len(exec.calls) != 0 {
		t.Fatal("nothing should run while another job owns the work dir")
	}
}
