package capture

import (
	"context"
	"log/slog"

	"lottie2video/internal/logging"
	"lottie2video/internal/timeline"
)

// Options are the per-job render settings.
type Options struct {
	FPS           int
	Width         int
	ExtendSeconds float64
}

// RenderFile loads the document at input, plans it at opts.FPS, captures
// every planned frame into dir and appends the tail extension.
func RenderFile(ctx context.Context, r Renderer, input, dir string, opts Options, logger *slog.Logger) (Set, error) {
	doc, tl, err := timeline.Load(input)
	if err != nil {
		return Set{Dir: dir}, err
	}
	plan, err := timeline.NewPlan(tl, opts.FPS, opts.ExtendSeconds)
	if err != nil {
		return Set{Dir: dir}, err
	}

	if logger != nil {
		logger.Info("render plan",
			logging.String("input", input),
			logging.Float64("native_fps", tl.FrameRate),
			logging.Int("native_frames", tl.FrameCount()),
			logging.Int("fps", opts.FPS),
			logging.Int("source_frames", len(plan.SourceFrames)),
			logging.Int("extension_frames", plan.ExtensionFrames),
		)
	}

	set, err := Capture(ctx, r, doc, tl, plan, CanvasSize(tl, opts.Width), dir, logger)
	if err != nil {
		return set, err
	}
	return Extend(set, plan.ExtensionFrames, logger)
}
