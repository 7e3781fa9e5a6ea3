// Package job runs a single Lottie-to-video conversion: it resolves the output
// and work-dir paths, takes the work-dir lock, runs the render subprocess,
// and hands the frames to the encoder.
package job
