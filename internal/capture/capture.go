package capture

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"lottie2video/internal/fileutil"
	"lottie2video/internal/logging"
	"lottie2video/internal/services"
	"lottie2video/internal/timeline"
)

// FramePattern is the printf pattern used for captured frames. Encoders
// consume the same pattern.
const FramePattern = "frame_%04d.png"

// Size is a canvas size in pixels.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Renderer rasterizes a loaded animation one frame at a time.
//
// SeekToFrame takes a frame in the document's own numbering and must not
// return until the frame has been drawn. ReadPixels returns the current
// canvas as PNG bytes.
type Renderer interface {
	Load(ctx context.Context, doc []byte, canvas Size) error
	SeekToFrame(ctx context.Context, frame int) error
	ReadPixels(ctx context.Context) ([]byte, error)
}

// Set is the on-disk frame sequence of one job: frames 0..Count-1 in Dir.
type Set struct {
	Dir   string
	Count int
}

// FramePath returns the file name for output index i inside dir.
func FramePath(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf(FramePattern, i))
}

// Pattern returns the encoder input pattern for the set.
func (s Set) Pattern() string {
	return filepath.Join(s.Dir, FramePattern)
}

// CanvasSize picks the render size. A positive width scales the native
// canvas preserving aspect ratio; anything else keeps the native size.
func CanvasSize(tl timeline.Timeline, width int) Size {
	if width <= 0 || tl.Width <= 0 {
		return Size{Width: tl.Width, Height: tl.Height}
	}
	height := int(math.Round(float64(width) * float64(tl.Height) / float64(tl.Width)))
	if height < 1 {
		height = 1
	}
	return Size{Width: width, Height: height}
}

// Capture renders every planned source frame in order into dir. Any frame
// outside the timeline or any renderer failure aborts the capture; frames
// are never skipped.
func Capture(ctx context.Context, r Renderer, doc []byte, tl timeline.Timeline, plan timeline.Plan, canvas Size, dir string, logger *slog.Logger) (Set, error) {
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "capture"))
	set := Set{Dir: dir}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return set, services.Wrap(services.ErrTransient, "capture", "mkdir", dir, err)
	}
	if err := r.Load(ctx, doc, canvas); err != nil {
		return set, services.Wrap(services.ErrExternalTool, "capture", "load", "renderer failed to load animation", err)
	}

	total := len(plan.SourceFrames)
	logger.Info("capturing frames",
		logging.Int("frames", total),
		logging.String("canvas", canvas.String()),
		logging.Float64("native_fps", tl.FrameRate),
	)

	sampler := logging.NewProgressSampler(10)
	for i, src := range plan.SourceFrames {
		if err := ctx.Err(); err != nil {
			return set, err
		}
		if !tl.Contains(src) {
			return set, services.Wrap(services.ErrValidation, "capture", "seek",
				fmt.Sprintf("source frame %d outside [%d, %d]", src, tl.InPoint, tl.LastFrame()), nil)
		}
		if err := r.SeekToFrame(ctx, src); err != nil {
			return set, services.Wrap(services.ErrExternalTool, "capture", "seek", fmt.Sprintf("frame %d", src), err)
		}
		png, err := r.ReadPixels(ctx)
		if err != nil {
			return set, services.Wrap(services.ErrExternalTool, "capture", "read pixels", fmt.Sprintf("frame %d", src), err)
		}
		if err := fileutil.WriteAtomic(FramePath(dir, i), png, 0o644); err != nil {
			return set, services.Wrap(services.ErrTransient, "capture", "write frame", fmt.Sprintf("index %d", i), err)
		}
		set.Count++

		logger.Debug("frame saved", logging.Int("index", i), logging.Int("source_frame", src))
		percent := logging.Percent(set.Count, total)
		if sampler.ShouldLog(percent, "capture") {
			logger.Info("capture progress",
				logging.Int("done", set.Count),
				logging.Int("total", total),
				logging.Float64("percent", math.Round(percent)),
			)
		}
	}
	return set, nil
}
