package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lottie2video/internal/batch"
	"lottie2video/internal/config"
	"lottie2video/internal/encoding"
	"lottie2video/internal/history"
	"lottie2video/internal/job"
	"lottie2video/internal/logging"
	"lottie2video/internal/preflight"
	"lottie2video/internal/services"
)

type convertOptions struct {
	width       int
	disableGPU  bool
	extend      float64
	fps         int
	concurrency int
}

// convertRequest is the validated outcome of argument scanning.
type convertRequest struct {
	Settings    job.Settings
	InputPath   string
	Concurrency int
	// Ignored lists positional arguments that were neither a width nor a path.
	Ignored []string
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert <format> [inputPathOrWidth...]",
		Short: "Render Lottie files and encode them to " + encoding.FormatNames(),
		Long: `Render Lottie JSON files to PNG frames in headless Chrome and encode them.

Without an input path every *.json file in the batch input directory is
converted, at most --concurrency at a time. A positional integer is taken as
the output width.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			req, err := resolveConvertRequest(args, opts, cmd.Flags().Changed, cfg)
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(true)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return runConvert(cmd.Context(), cmd.OutOrStdout(), ctx, cfg, req, logger)
		},
	}

	cmd.Flags().IntVar(&opts.width, "width", 0, "Output width in pixels (height follows the aspect ratio)")
	cmd.Flags().BoolVar(&opts.disableGPU, "disable-gpu", false, "Launch Chrome with the GPU disabled")
	cmd.Flags().Float64Var(&opts.extend, "extend", 0, "Hold the last frame for this many seconds")
	cmd.Flags().IntVar(&opts.fps, "fps", 0, "Output frame rate (default render.fps)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Maximum jobs running at once (default batch.concurrency)")
	return cmd
}

// resolveConvertRequest turns the command line into validated settings.
// changed reports whether a flag was given explicitly; unset flags fall back
// to the configuration.
func resolveConvertRequest(args []string, opts convertOptions, changed func(string) bool, cfg *config.Config) (convertRequest, error) {
	if len(args) == 0 {
		return convertRequest{}, services.Wrap(services.ErrConfiguration, "convert", "args", "output format is required", nil)
	}
	format, err := encoding.ParseFormat(args[0])
	if err != nil {
		return convertRequest{}, err
	}

	req := convertRequest{
		Settings: job.Settings{
			Format:        format,
			Width:         cfg.Render.Width,
			FPS:           cfg.Render.FPS,
			ExtendSeconds: cfg.Render.ExtendSeconds,
			DisableGPU:    cfg.Render.DisableGPU,
		},
		Concurrency: cfg.Batch.Concurrency,
	}
	widthSet := changed("width")
	if widthSet {
		req.Settings.Width = opts.width
	}
	if changed("fps") {
		req.Settings.FPS = opts.fps
	}
	if changed("extend") {
		req.Settings.ExtendSeconds = opts.extend
	}
	if opts.disableGPU {
		req.Settings.DisableGPU = true
	}
	if changed("concurrency") {
		req.Concurrency = opts.concurrency
	}

	for _, arg := range args[1:] {
		if n, err := strconv.Atoi(arg); err == nil {
			if !widthSet {
				req.Settings.Width = n
				widthSet = true
				continue
			}
		}
		if req.InputPath == "" && looksLikeInput(arg) {
			req.InputPath = arg
			continue
		}
		req.Ignored = append(req.Ignored, arg)
	}

	if err := req.Settings.Validate(); err != nil {
		return convertRequest{}, err
	}
	if req.Concurrency < 1 {
		return convertRequest{}, services.Wrap(services.ErrConfiguration, "convert", "args",
			fmt.Sprintf("concurrency must be at least 1, got %d", req.Concurrency), nil)
	}
	return req, nil
}

func looksLikeInput(arg string) bool {
	if strings.HasSuffix(arg, ".json") {
		return true
	}
	_, err := os.Stat(arg)
	return err == nil
}

// specs expands the request into jobs and returns the render root the
// cleaner should prune.
func (r convertRequest) specs(cfg *config.Config) ([]job.Spec, string, error) {
	if r.InputPath != "" {
		input, err := filepath.Abs(r.InputPath)
		if err != nil {
			return nil, "", services.Wrap(services.ErrConfiguration, "convert", "inputs", "resolve "+r.InputPath, err)
		}
		if info, err := os.Stat(input); err != nil || info.IsDir() {
			return nil, "", services.Wrap(services.ErrNotFound, "convert", "inputs", fmt.Sprintf("input file %s does not exist", input), nil)
		}
		spec := job.SingleSpec(r.Settings, input)
		return []job.Spec{spec}, spec.RenderRoot, nil
	}

	inputs, err := findInputs(cfg.InputDir())
	if err != nil {
		return nil, "", err
	}
	return job.BatchSpecs(r.Settings, inputs, cfg.OutputDir(), cfg.RenderDir()), cfg.RenderDir(), nil
}

// findInputs lists the *.json files directly inside dir in name order.
func findInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "convert", "inputs", fmt.Sprintf("directory %s does not exist", dir), nil)
		}
		return nil, services.Wrap(services.ErrConfiguration, "convert", "inputs", "read "+dir, err)
	}
	var inputs []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		inputs = append(inputs, filepath.Join(dir, entry.Name()))
	}
	if len(inputs) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "convert", "inputs", fmt.Sprintf("no JSON files found in %s", dir), nil)
	}
	sort.Strings(inputs)
	return inputs, nil
}

func runConvert(cmdCtx context.Context, out io.Writer, ctx *commandContext, cfg *config.Config, req convertRequest, logger *slog.Logger) error {
	if cmdCtx == nil {
		cmdCtx = context.Background()
	}
	for _, arg := range req.Ignored {
		logger.Warn("ignoring argument", logging.String("arg", arg))
	}

	specs, renderRoot, err := req.specs(cfg)
	if err != nil {
		return err
	}
	if err := preflight.Require(cfg, req.Settings.Format); err != nil {
		return err
	}
	self, err := os.Executable()
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "convert", "self", "locate lottie2video executable", err)
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var store *history.Store
	if cfg.Paths.HistoryDB != "" {
		store, err = history.Open(cfg.Paths.HistoryDB)
		if err != nil {
			logging.WarnWithContext(logger, "history disabled", "history_unavailable",
				logging.Error(err),
				logging.String(logging.FieldImpact, "this run will not appear in `lottie2video history`"),
			)
		} else {
			defer store.Close()
		}
	}

	runner := &job.Runner{
		Self:      self,
		ExtraArgs: ctx.forwardedFlags(),
		Exec:      services.CommandExecutor{},
		Encoder:   encoding.NewEncoder(encoding.RecipeFromConfig(cfg), nil, logger),
		Logger:    logger,
	}
	scheduler := &batch.Scheduler{
		Limit:    req.Concurrency,
		Runner:   runner,
		Logger:   logger,
		OnResult: resultObserver(out, store, logger),
	}
	if !cfg.Batch.KeepFrames {
		scheduler.Cleaner = batch.DirCleaner(renderRoot, logger)
	}

	fmt.Fprintf(out, "Converting %d file(s) to %s at %d fps\n", len(specs), req.Settings.Format.Label(), req.Settings.FPS)
	summary := scheduler.RunAll(signalCtx, specs)
	fmt.Fprintln(out, renderSummary(summary))

	if summary.Failed > 0 {
		if signalCtx.Err() != nil {
			return fmt.Errorf("interrupted: %d of %d conversions did not finish", summary.Failed, len(specs))
		}
		return fmt.Errorf("%d of %d conversions failed", summary.Failed, len(specs))
	}
	return nil
}

// resultObserver prints one line per finished job and records it in the
// history store when one is open.
func resultObserver(out io.Writer, store *history.Store, logger *slog.Logger) func(context.Context, job.Result) {
	return func(ctx context.Context, result job.Result) {
		if result.Succeeded() {
			fmt.Fprintf(out, "  done  %s -> %s (%s)\n", filepath.Base(result.InputPath), result.OutputPath, result.Elapsed.Round(10*time.Millisecond))
		} else {
			fmt.Fprintf(out, "  FAIL  %s: %v\n", filepath.Base(result.InputPath), result.Err)
		}
		if store == nil {
			return
		}
		batchID, _ := services.BatchIDFromContext(ctx)
		// The batch context may already be cancelled; the record still belongs in history.
		if _, err := store.Record(context.WithoutCancel(ctx), batchID, result); err != nil {
			logger.Warn("record history failed", logging.String("input", result.InputPath), logging.Error(err))
		}
	}
}
