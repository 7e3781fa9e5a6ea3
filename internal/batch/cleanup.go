package batch

import (
	"log/slog"

	"lottie2video/internal/fileutil"
	"lottie2video/internal/logging"
)

// CleanupReport counts what RemoveWorkDirs did.
type CleanupReport struct {
	Removed    int
	Failures   int
	RootPruned bool
}

// RemoveWorkDirs deletes every work dir and its sibling lock file, then
// removes root if nothing else is left in it. Paths that are already gone
// are ignored; other failures are logged and counted.
func RemoveWorkDirs(dirs []string, root string, logger *slog.Logger) CleanupReport {
	logger = logging.NewComponentLogger(logger, "cleanup")
	var report CleanupReport

	warn := func(path string, err error) {
		report.Failures++
		logging.WarnWithContext(logger, "cleanup failed", "cleanup_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the directory manually"),
			logging.String(logging.FieldImpact, "intermediate frames remain on disk"),
		)
	}

	for _, dir := range dirs {
		removed, err := fileutil.RemoveAll(dir)
		if err != nil {
			warn(dir, err)
			continue
		}
		if removed {
			report.Removed++
		}
		if _, err := fileutil.RemoveAll(dir + ".lock"); err != nil {
			warn(dir+".lock", err)
		}
	}

	if root != "" {
		pruned, err := fileutil.RemoveIfEmpty(root)
		if err != nil {
			warn(root, err)
		}
		report.RootPruned = pruned
	}
	logger.Debug("cleanup finished",
		logging.Int("removed", report.Removed),
		logging.Int("failures", report.Failures),
		logging.Bool("root_pruned", report.RootPruned),
	)
	return report
}

// DirCleaner adapts RemoveWorkDirs to the Scheduler's Cleaner hook.
func DirCleaner(root string, logger *slog.Logger) Cleaner {
	return func(dirs []string) int {
		return RemoveWorkDirs(dirs, root, logger).Removed
	}
}
