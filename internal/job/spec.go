package job

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"lottie2video/internal/encoding"
	"lottie2video/internal/services"
)

// SingleRenderDir is the render root used next to a single input file.
const SingleRenderDir = "_2_renderPNG"

// Settings are the conversion options shared by every job of one run. They
// are validated once at the CLI boundary.
type Settings struct {
	Format        encoding.Format
	Width         int
	FPS           int
	ExtendSeconds float64
	DisableGPU    bool
}

// Validate checks the settings invariants.
func (s Settings) Validate() error {
	if _, err := encoding.ParseFormat(string(s.Format)); err != nil {
		return err
	}
	if s.FPS <= 0 {
		return services.Wrap(services.ErrConfiguration, "job", "settings", fmt.Sprintf("fps must be positive, got %d", s.FPS), nil)
	}
	if s.Width < 0 {
		return services.Wrap(services.ErrConfiguration, "job", "settings", fmt.Sprintf("width must not be negative, got %d", s.Width), nil)
	}
	if s.ExtendSeconds < 0 || math.IsNaN(s.ExtendSeconds) || math.IsInf(s.ExtendSeconds, 0) {
		return services.Wrap(services.ErrConfiguration, "job", "settings", fmt.Sprintf("extend must be a finite non-negative number, got %v", s.ExtendSeconds), nil)
	}
	return nil
}

// Spec describes one input-to-output conversion.
type Spec struct {
	Settings
	InputPath  string
	OutputDir  string
	RenderRoot string
}

// Base is the input file name without its extension.
func (s Spec) Base() string {
	name := filepath.Base(s.InputPath)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// OutputPath is <OutputDir>/<base>.<format>.
func (s Spec) OutputPath() string {
	return filepath.Join(s.OutputDir, s.Base()+"."+s.Format.Extension())
}

// WorkDir is the job-private frames directory <RenderRoot>/<base>.
func (s Spec) WorkDir() string {
	return filepath.Join(s.RenderRoot, s.Base())
}

// LockPath sits next to the work dir so the directory itself can be reset
// while locked.
func (s Spec) LockPath() string {
	return s.WorkDir() + ".lock"
}

// BatchSpecs lays out every input under the shared output and render roots.
func BatchSpecs(settings Settings, inputs []string, outputDir, renderRoot string) []Spec {
	specs := make([]Spec, 0, len(inputs))
	for _, input := range inputs {
		specs = append(specs, Spec{
			Settings:   settings,
			InputPath:  input,
			OutputDir:  outputDir,
			RenderRoot: renderRoot,
		})
	}
	return specs
}

// SingleSpec writes the output next to the input and renders under
// <inputDir>/_2_renderPNG.
func SingleSpec(settings Settings, input string) Spec {
	dir := filepath.Dir(input)
	return Spec{
		Settings:   settings,
		InputPath:  input,
		OutputDir:  dir,
		RenderRoot: filepath.Join(dir, SingleRenderDir),
	}
}

// Result is the terminal record of one job. A non-nil Err marks a failure.
type Result struct {
	InputPath  string
	OutputPath string
	WorkDir    string
	Format     encoding.Format
	Elapsed    time.Duration
	Err        error
}

// Succeeded reports whether the job produced its output.
func (r Result) Succeeded() bool {
	return r.Err == nil
}
