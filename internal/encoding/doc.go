// Package encoding packages captured PNG frames into gif, apng, webm, webp,
// or mp4 files.
//
// Each format has one fixed recipe: ffmpeg for everything except webp, which
// goes through img2webp with an explicit sorted frame list. Commands run
// through services.Executor so tests can record them instead of spawning
// processes.
package encoding
