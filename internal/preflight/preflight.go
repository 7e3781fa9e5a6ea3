package preflight

import (
	"fmt"
	"strings"

	"lottie2video/internal/config"
	"lottie2video/internal/encoding"
	"lottie2video/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory checks for the configured batch layout.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Root directory", cfg.Paths.Root),
		CheckDirectoryAccess("Input directory", cfg.InputDir()),
		CheckCreatableDirectory("Render directory", cfg.RenderDir()),
		CheckCreatableDirectory("Output directory", cfg.OutputDir()),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckCreatableDirectory("Log directory", cfg.Paths.LogDir))
	}
	return results
}

// Require returns a configuration error naming every required dependency of
// format that is unavailable.
func Require(cfg *config.Config, format encoding.Format) error {
	if cfg == nil {
		return services.Wrap(services.ErrConfiguration, "preflight", "require", "config not loaded", nil)
	}
	var missing []string
	for _, status := range CheckSystemDeps(cfg, format) {
		if status.Available || status.Optional {
			continue
		}
		missing = append(missing, fmt.Sprintf("%s (%s)", status.Name, status.Detail))
	}
	if len(missing) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "require", "missing "+strings.Join(missing, ", "), nil)
}
