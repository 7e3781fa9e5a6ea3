// Package logging assembles structured slog loggers and formatting helpers used
// across lottie2video.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so job code can tag log lines
// with batch IDs, job labels, and stages. The ProgressSampler keeps per-frame
// capture logs readable, and NewNop gives tests a logger that cannot fail.
package logging
