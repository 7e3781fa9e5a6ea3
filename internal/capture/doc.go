// Package capture turns a render plan into numbered PNG files on disk.
//
// Capture drives any Renderer (the browser package provides the real one)
// through the planned source frames; Extend holds the final frame for the
// configured tail. Frame files are named with FramePattern and are only
// ever appended to.
package capture
