// Package history keeps a SQLite ledger of finished conversion jobs so
// `lottie2video history` can show what ran, where the output went, and why
// failures failed.
package history
