package job

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"lottie2video/internal/encoding"
	"lottie2video/internal/logging"
	"lottie2video/internal/services"
)

// Encoder is the packaging step of a job.
type Encoder interface {
	Encode(ctx context.Context, format encoding.Format, dir string, fps int, output string) error
}

// Runner executes jobs. The frames are produced by re-invoking this binary's
// render command as a subprocess so a crashed browser only takes down its
// own job.
type Runner struct {
	// Self is the lottie2video executable.
	Self string
	// ExtraArgs are appended to every render invocation (for example the
	// --config flag of the parent process).
	ExtraArgs []string
	Exec      services.Executor
	Encoder   Encoder
	Logger    *slog.Logger
}

// Run converts one input. It never panics on job failures; errors are
// returned inside the Result together with the work dir.
func (r *Runner) Run(ctx context.Context, spec Spec) Result {
	start := time.Now()
	ctx = services.WithJob(ctx, spec.Base())
	logger := logging.WithContext(ctx, logging.NewComponentLogger(r.Logger, "job"))

	result := Result{
		InputPath:  spec.InputPath,
		OutputPath: spec.OutputPath(),
		WorkDir:    spec.WorkDir(),
		Format:     spec.Format,
	}
	finish := func(err error) Result {
		result.Elapsed = time.Since(start)
		result.Err = err
		return result
	}

	logger.Info("job started", logging.String("input", spec.InputPath), logging.String("format", spec.Format.Label()))

	if err := os.MkdirAll(spec.RenderRoot, 0o755); err != nil {
		return finish(services.Wrap(services.ErrTransient, "job", "prepare", "create render root", err))
	}
	lock := flock.New(spec.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return finish(services.Wrap(services.ErrTransient, "job", "lock", spec.LockPath(), err))
	}
	if !locked {
		return finish(services.Wrap(services.ErrTransient, "job", "lock",
			fmt.Sprintf("work dir %s is in use by another job", spec.WorkDir()), nil))
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Debug("unlock failed", logging.Error(err))
		}
	}()

	// Stale frames from an earlier run would leak into the webp file list.
	if err := os.RemoveAll(spec.WorkDir()); err != nil {
		return finish(services.Wrap(services.ErrTransient, "job", "prepare", "reset work dir", err))
	}
	for _, dir := range []string{spec.WorkDir(), spec.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return finish(services.Wrap(services.ErrTransient, "job", "prepare", "create "+dir, err))
		}
	}

	renderCtx := services.WithStage(ctx, "render")
	renderLogger := logging.WithContext(renderCtx, r.Logger)
	args := r.RenderArgs(spec)
	logger.Debug("launching renderer", logging.String("command", r.Self+" "+strings.Join(args, " ")))
	if err := r.exec().Run(renderCtx, r.Self, args, func(line string) {
		if line = strings.TrimSpace(line); line != "" {
			renderLogger.Debug("renderer output", logging.String("line", line))
		}
	}); err != nil {
		return finish(services.Wrap(services.ErrExternalTool, "job", "render", spec.InputPath, err))
	}

	if r.Encoder == nil {
		return finish(services.Wrap(services.ErrConfiguration, "job", "encode", "no encoder configured", nil))
	}
	encodeCtx := services.WithStage(ctx, "encode")
	if err := r.Encoder.Encode(encodeCtx, spec.Format, spec.WorkDir(), spec.FPS, spec.OutputPath()); err != nil {
		return finish(err)
	}

	result = finish(nil)
	logger.Info("job completed",
		logging.String("output", result.OutputPath),
		logging.Duration("elapsed", result.Elapsed.Round(10*time.Millisecond)),
	)
	return result
}

// RenderArgs builds the render subprocess arguments:
// render <input> <workDir> [--width N] [--disable-gpu] [--extend S] --fps N.
func (r *Runner) RenderArgs(spec Spec) []string {
	args := []string{"render", spec.InputPath, spec.WorkDir()}
	if spec.Width > 0 {
		args = append(args, "--width", strconv.Itoa(spec.Width))
	}
	if spec.DisableGPU {
		args = append(args, "--disable-gpu")
	}
	if spec.ExtendSeconds > 0 {
		args = append(args, "--extend", strconv.FormatFloat(spec.ExtendSeconds, 'f', -1, 64))
	}
	args = append(args, "--fps", strconv.Itoa(spec.FPS))
	return append(args, r.ExtraArgs...)
}

func (r *Runner) exec() services.Executor {
	if r.Exec == nil {
		return services.CommandExecutor{}
	}
	return r.Exec
}
