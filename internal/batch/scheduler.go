package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"lottie2video/internal/job"
	"lottie2video/internal/logging"
	"lottie2video/internal/services"
)

// DefaultLimit is the number of jobs allowed to run at once.
const DefaultLimit = 5

// Runner executes a single job.
type Runner interface {
	Run(ctx context.Context, spec job.Spec) job.Result
}

// Cleaner removes the collected work dirs and returns how many it removed.
type Cleaner func(dirs []string) int

// Scheduler runs jobs with bounded concurrency and cleans up their work
// dirs once all of them have finished.
type Scheduler struct {
	Limit  int
	Runner Runner
	// Cleaner is called exactly once per RunAll, after every job is terminal.
	// Nil keeps the work dirs.
	Cleaner Cleaner
	// OnResult observes each job as it finishes. Calls are serialized.
	OnResult func(ctx context.Context, result job.Result)
	Logger   *slog.Logger
}

// Summary is what a batch run returns.
type Summary struct {
	ID        string
	Results   []job.Result
	WorkDirs  []string
	Succeeded int
	Failed    int
	Removed   int
	Elapsed   time.Duration
}

// RunAll admits specs in order, at most Limit at a time, and waits for all
// of them. Results are reported in input order. Job failures never stop the
// batch.
func (s *Scheduler) RunAll(ctx context.Context, specs []job.Spec) Summary {
	start := time.Now()
	summary := Summary{ID: uuid.NewString(), Results: make([]job.Result, len(specs))}
	ctx = services.WithBatchID(ctx, summary.ID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(s.Logger, "batch"))

	limit := s.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	logger.Info("batch started", logging.Int("jobs", len(specs)), logging.Int("concurrency", limit))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		seen     = make(map[string]struct{}, len(specs))
		attempts = make([]bool, len(specs))
		sem      = make(chan struct{}, limit)
	)

	record := func(i int, result job.Result) {
		mu.Lock()
		defer mu.Unlock()
		summary.Results[i] = result
		if result.Err != nil {
			summary.Failed++
			logging.ErrorWithContext(logger, "job failed", "job_failed",
				logging.String("input", result.InputPath),
				logging.Error(result.Err),
				logging.String(logging.FieldErrorHint, "rerun with --log-level debug to see renderer and encoder output"),
			)
		} else {
			summary.Succeeded++
		}
		if s.OnResult != nil {
			s.OnResult(ctx, result)
		}
	}

	for i, spec := range specs {
		if err := acquire(ctx, sem); err != nil {
			for j := i; j < len(specs); j++ {
				record(j, job.Result{
					InputPath:  specs[j].InputPath,
					OutputPath: specs[j].OutputPath(),
					Format:     specs[j].Format,
					Err:        fmt.Errorf("not started: %w", err),
				})
			}
			break
		}
		attempts[i] = true
		wg.Add(1)
		go func(i int, spec job.Spec) {
			defer wg.Done()
			defer func() { <-sem }()
			record(i, s.runOne(ctx, spec))
		}(i, spec)
	}
	wg.Wait()

	for i, result := range summary.Results {
		if !attempts[i] {
			continue
		}
		dir := result.WorkDir
		if dir == "" {
			dir = specs[i].WorkDir()
		}
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		summary.WorkDirs = append(summary.WorkDirs, dir)
	}

	if s.Cleaner != nil {
		summary.Removed = s.Cleaner(summary.WorkDirs)
	}
	summary.Elapsed = time.Since(start)

	logger.Info("batch finished",
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Int("work_dirs_removed", summary.Removed),
		logging.Duration("elapsed", summary.Elapsed.Round(10*time.Millisecond)),
	)
	return summary
}

// acquire blocks until a slot is free. A cancelled context admits nothing
// further.
func acquire(ctx context.Context, sem chan struct{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) runOne(ctx context.Context, spec job.Spec) (result job.Result) {
	defer func() {
		if r := recover(); r != nil {
			result = job.Result{
				InputPath:  spec.InputPath,
				OutputPath: spec.OutputPath(),
				WorkDir:    spec.WorkDir(),
				Format:     spec.Format,
				Err:        fmt.Errorf("job panicked: %v", r),
			}
		}
	}()
	return s.Runner.Run(ctx, spec)
}
