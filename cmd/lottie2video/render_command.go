package main

import (
	"fmt"
	"math"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lottie2video/internal/browser"
	"lottie2video/internal/capture"
	"lottie2video/internal/logging"
	"lottie2video/internal/services"
)

type renderOptions struct {
	width      int
	disableGPU bool
	extend     float64
	fps        int
}

// newRenderCommand is the frame renderer each convert job runs as a child
// process. It is usable on its own to inspect the captured frames.
func newRenderCommand(ctx *commandContext) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <input.json> <framesDir>",
		Short: "Capture a Lottie file as a numbered PNG sequence",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			fps := cfg.Render.FPS
			if cmd.Flags().Changed("fps") {
				fps = opts.fps
			}
			if fps <= 0 {
				return services.Wrap(services.ErrConfiguration, "render", "args", fmt.Sprintf("fps must be positive, got %d", fps), nil)
			}
			if opts.width < 0 || opts.extend < 0 || math.IsNaN(opts.extend) || math.IsInf(opts.extend, 0) {
				return services.Wrap(services.ErrConfiguration, "render", "args", "width must not be negative and extend must be a finite non-negative number", nil)
			}

			// The parent job already writes the run log; frames progress goes to stderr only.
			logger, err := ctx.newLogger(false)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			logger = logging.NewComponentLogger(logger, "render")

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			renderer, err := browser.New(signalCtx, browser.Options{
				ExecPath:     cfg.Render.ChromePath,
				LottieScript: cfg.Render.LottieScript,
				DisableGPU:   opts.disableGPU || cfg.Render.DisableGPU,
				FrameTimeout: time.Duration(cfg.Render.FrameTimeout) * time.Second,
			}, logger)
			if err != nil {
				return err
			}
			defer renderer.Close()

			start := time.Now()
			set, err := capture.RenderFile(signalCtx, renderer, args[0], args[1], capture.Options{
				FPS:           fps,
				Width:         opts.width,
				ExtendSeconds: opts.extend,
			}, logger)
			if err != nil {
				return err
			}
			logger.Info("frames rendered",
				logging.String("dir", set.Dir),
				logging.Int("frames", set.Count),
				logging.Duration("elapsed", time.Since(start).Round(10*time.Millisecond)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d frames to %s\n", set.Count, set.Dir)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.width, "width", 0, "Canvas width in pixels (0 keeps the animation width)")
	cmd.Flags().BoolVar(&opts.disableGPU, "disable-gpu", false, "Launch Chrome with the GPU disabled")
	cmd.Flags().Float64Var(&opts.extend, "extend", 0, "Seconds of last-frame hold to append")
	cmd.Flags().IntVar(&opts.fps, "fps", 0, "Output frame rate (default render.fps)")
	return cmd
}
