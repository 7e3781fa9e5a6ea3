package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency lottie2video relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, checkBinary(req))
	}
	return results
}

func checkBinary(req Requirement) Status {
	cmd := strings.TrimSpace(req.Command)
	status := Status{
		Name:        req.Name,
		Command:     cmd,
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if cmd == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, err := exec.LookPath(cmd)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", cmd)
		return status
	}
	status.Command = resolved
	status.Available = true
	return status
}

// chromeCandidates mirrors the executables chromedp probes when no path is
// configured.
var chromeCandidates = []string{
	"headless_shell",
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"google-chrome-beta",
	"google-chrome-unstable",
	"/usr/bin/google-chrome",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
}

// CheckChrome resolves the browser used for rendering. A configured path is
// checked as is; otherwise the usual Chrome/Chromium names are searched.
func CheckChrome(configured string) Status {
	status := Status{Name: "Chrome", Description: "Headless browser for frame rendering"}
	if configured = strings.TrimSpace(configured); configured != "" {
		status.Command = configured
		if path, err := exec.LookPath(configured); err == nil {
			status.Command = path
			status.Available = true
			return status
		}
		status.Detail = fmt.Sprintf("configured browser %q not found", configured)
		return status
	}
	for _, candidate := range chromeCandidates {
		if path, err := exec.LookPath(candidate); err == nil {
			status.Command = path
			status.Available = true
			return status
		}
	}
	status.Command = "chrome"
	status.Detail = "no Chrome or Chromium found; set render.chrome_path or CHROME_PATH"
	return status
}

// CheckFile reports whether a required file exists.
func CheckFile(name, path, description string) Status {
	status := Status{Name: name, Command: path, Description: description}
	info, err := os.Stat(path)
	switch {
	case err != nil:
		status.Detail = fmt.Sprintf("%s not found", path)
	case info.IsDir():
		status.Detail = fmt.Sprintf("%s is a directory", path)
	default:
		status.Available = true
	}
	return status
}
