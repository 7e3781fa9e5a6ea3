// Package services defines shared utilities consumed by the job pipeline and
// its external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp batch IDs, job labels, and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper that separate
//     configuration failures (fatal before work starts) from per-job tool
//     failures (recorded, batch continues).
//   - The Executor abstraction that makes renderer and encoder subprocesses
//     testable without spawning real tools.
package services
