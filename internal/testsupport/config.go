package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"lottie2video/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test:
// the batch root is <base>/work, logs go to <base>/logs and history to
// <base>/state/history.db.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Root = filepath.Join(base, "work")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.HistoryDB = filepath.Join(base, "state", "history.db")
	if err := os.MkdirAll(cfgVal.Paths.Root, 0o755); err != nil {
		t.Fatalf("mkdir root: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithInputDir creates the batch input directory.
func WithInputDir() ConfigOption {
	return func(b *configBuilder) {
		if err := os.MkdirAll(b.cfg.InputDir(), 0o755); err != nil {
			b.t.Fatalf("mkdir input dir: %v", err)
		}
	}
}

// WithStubbedTools writes stub executables for ffmpeg, img2webp and
// chromium plus an empty lottie script, and points the config at them.
func WithStubbedTools() ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		stub := func(name string) string {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
			return target
		}
		b.cfg.Encoder.FFmpeg = stub("ffmpeg")
		b.cfg.Encoder.Img2WebP = stub("img2webp")
		b.cfg.Render.ChromePath = stub("chromium")

		b.cfg.Render.LottieScript = filepath.Join(binDir, "lottie.min.js")
		if err := os.WriteFile(b.cfg.Render.LottieScript, []byte("var lottie = {};\n"), 0o644); err != nil {
			b.t.Fatalf("write lottie script: %v", err)
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.Root)
}

// WriteConfigFile serializes cfg as TOML so it can be passed via --config.
func WriteConfigFile(t testing.TB, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(BaseDir(cfg), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
