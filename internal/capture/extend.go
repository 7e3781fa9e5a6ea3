package capture

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"lottie2video/internal/fileutil"
	"lottie2video/internal/logging"
	"lottie2video/internal/services"
)

// Extend appends n copies of the set's last frame at indices
// Count..Count+n-1. Existing frames are never touched.
//
// An empty set or a missing last frame is logged and left as is.
func Extend(set Set, n int, logger *slog.Logger) (Set, error) {
	logger = logging.NewComponentLogger(logger, "capture")
	if n <= 0 {
		return set, nil
	}
	if set.Count == 0 {
		logging.WarnWithContext(logger, "no frames to extend", "extend_skipped",
			logging.Int("requested", n),
			logging.String(logging.FieldImpact, "output has no held tail"),
		)
		return set, nil
	}

	lastPath := FramePath(set.Dir, set.Count-1)
	last, err := os.ReadFile(lastPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.WarnWithContext(logger, "last frame missing; extension skipped", "extend_skipped",
				logging.String("path", lastPath),
				logging.Int("requested", n),
				logging.String(logging.FieldImpact, "output has no held tail"),
			)
			return set, nil
		}
		return set, services.Wrap(services.ErrTransient, "capture", "extend", "read last frame", err)
	}

	for i := 0; i < n; i++ {
		if err := fileutil.WriteAtomic(FramePath(set.Dir, set.Count), last, 0o644); err != nil {
			return set, services.Wrap(services.ErrTransient, "capture", "extend", "write frame copy", err)
		}
		set.Count++
	}
	logger.Info("tail extended", logging.Int("added", n), logging.Int("frames", set.Count))
	return set, nil
}
