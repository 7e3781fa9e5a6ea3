package preflight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"lottie2video/internal/config"
	"lottie2video/internal/deps"
	"lottie2video/internal/encoding"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCreatableDirectory passes when path is an accessible directory or when
// its nearest existing ancestor is, since jobs create their directories on
// demand.
func CheckCreatableDirectory(name, path string) Result {
	if _, err := os.Stat(path); err == nil || !errors.Is(err, os.ErrNotExist) {
		return CheckDirectoryAccess(name, path)
	}
	parent := filepath.Dir(path)
	for {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			break
		}
		parent = next
	}
	result := CheckDirectoryAccess(name, parent)
	if !result.Passed {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s)", path, parent)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckSystemDeps evaluates the binaries and browser assets needed to render
// and encode the given format. An empty format checks for every format with
// img2webp treated as optional.
func CheckSystemDeps(cfg *config.Config, format encoding.Format) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Encoder.FFmpeg,
			Description: "Required for gif, apng, webm and mp4 output",
			Optional:    format == encoding.FormatWebP,
		},
		{
			Name:        "img2webp",
			Command:     cfg.Encoder.Img2WebP,
			Description: "Required for webp output",
			Optional:    format != encoding.FormatWebP,
		},
	}
	statuses := deps.CheckBinaries(requirements)
	statuses = append(statuses, deps.CheckChrome(cfg.Render.ChromePath))
	statuses = append(statuses, deps.CheckFile("lottie-web", cfg.Render.LottieScript, "Player script injected into the render page"))
	return statuses
}
