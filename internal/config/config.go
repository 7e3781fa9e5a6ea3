package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the batch directory layout and auxiliary file locations.
type Paths struct {
	Root      string `toml:"root"`
	InputDir  string `toml:"input_dir"`
	RenderDir string `toml:"render_dir"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	HistoryDB string `toml:"history_db"`
}

// Render contains defaults for the frame renderer subprocess.
type Render struct {
	FPS           int     `toml:"fps"`
	Width         int     `toml:"width"`
	ExtendSeconds float64 `toml:"extend_seconds"`
	DisableGPU    bool    `toml:"disable_gpu"`
	// ChromePath overrides browser discovery. Empty uses chromedp's lookup.
	ChromePath   string `toml:"chrome_path"`
	LottieScript string `toml:"lottie_script"`
	// FrameTimeout bounds a single seek+readback in seconds.
	FrameTimeout int `toml:"frame_timeout"`
}

// Encoder contains external encoder binaries and the fixed mp4 recipe knobs.
type Encoder struct {
	FFmpeg     string `toml:"ffmpeg"`
	Img2WebP   string `toml:"img2webp"`
	MP4Codec   string `toml:"mp4_codec"`
	MP4Bitrate string `toml:"mp4_bitrate"`
}

// Batch contains scheduler settings.
type Batch struct {
	Concurrency int  `toml:"concurrency"`
	KeepFrames  bool `toml:"keep_frames"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// RetentionDays prunes per-run lottie2video-*.log files in log_dir older than this. 0 keeps everything.
	RetentionDays int `toml:"retention_days"`
}

// Config encapsulates all configuration values for lottie2video.
//
// Configuration sections by subsystem:
//   - Paths: batch layout (_1_inputLottie, _2_renderPNG, _3_convertVideo) and history database
//   - Render: fps/width/extend defaults and headless Chrome settings
//   - Encoder: ffmpeg/img2webp binaries and the mp4 codec recipe
//   - Batch: concurrency ceiling and intermediate cleanup
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Render  Render  `toml:"render"`
	Encoder Encoder `toml:"encoder"`
	Batch   Batch   `toml:"batch"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lottie2video/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("lottie2video.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// InputDir returns the batch input directory under the root.
func (c *Config) InputDir() string {
	return c.underRoot(c.Paths.InputDir)
}

// RenderDir returns the batch render root under the root.
func (c *Config) RenderDir() string {
	return c.underRoot(c.Paths.RenderDir)
}

// OutputDir returns the batch output directory under the root.
func (c *Config) OutputDir() string {
	return c.underRoot(c.Paths.OutputDir)
}

func (c *Config) underRoot(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.Paths.Root, dir)
}

// EnsureDirectories creates the directories the CLI writes to regardless of
// mode. Batch directories are created by the jobs themselves.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
		}
	}
	if strings.TrimSpace(c.Paths.HistoryDB) != "" {
		dir := filepath.Dir(c.Paths.HistoryDB)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
