package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeRender(); err != nil {
		return err
	}
	c.normalizeEncoder()
	c.normalizeBatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.Root) == "" {
		c.Paths.Root = defaultRoot
	}
	if c.Paths.Root, err = expandPath(strings.TrimSpace(c.Paths.Root)); err != nil {
		return fmt.Errorf("paths.root: %w", err)
	}
	c.Paths.InputDir = trimOrDefault(c.Paths.InputDir, defaultInputDir)
	c.Paths.RenderDir = trimOrDefault(c.Paths.RenderDir, defaultRenderDir)
	c.Paths.OutputDir = trimOrDefault(c.Paths.OutputDir, defaultOutputDir)
	if c.Paths.LogDir = strings.TrimSpace(c.Paths.LogDir); c.Paths.LogDir != "" {
		if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
			return fmt.Errorf("paths.log_dir: %w", err)
		}
	}
	if value, ok := os.LookupEnv("LOTTIE2VIDEO_HISTORY_DB"); ok && strings.TrimSpace(value) != "" {
		c.Paths.HistoryDB = value
	}
	if c.Paths.HistoryDB = strings.TrimSpace(c.Paths.HistoryDB); c.Paths.HistoryDB != "" {
		if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
			return fmt.Errorf("paths.history_db: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeRender() error {
	if c.Render.FPS == 0 {
		c.Render.FPS = defaultFPS
	}
	if c.Render.ExtendSeconds < 0 {
		c.Render.ExtendSeconds = 0
	}
	if c.Render.FrameTimeout <= 0 {
		c.Render.FrameTimeout = defaultFrameTimeout
	}
	c.Render.ChromePath = strings.TrimSpace(c.Render.ChromePath)
	if c.Render.ChromePath == "" {
		if value, ok := os.LookupEnv("CHROME_PATH"); ok {
			c.Render.ChromePath = strings.TrimSpace(value)
		}
	}
	c.Render.LottieScript = trimOrDefault(c.Render.LottieScript, defaultLottieScript)
	var err error
	if c.Render.LottieScript, err = expandPath(c.Render.LottieScript); err != nil {
		return fmt.Errorf("render.lottie_script: %w", err)
	}
	return nil
}

func (c *Config) normalizeEncoder() {
	c.Encoder.FFmpeg = trimOrDefault(c.Encoder.FFmpeg, defaultFFmpeg)
	c.Encoder.Img2WebP = trimOrDefault(c.Encoder.Img2WebP, defaultImg2WebP)
	c.Encoder.MP4Codec = trimOrDefault(c.Encoder.MP4Codec, defaultMP4Codec)
	c.Encoder.MP4Bitrate = trimOrDefault(c.Encoder.MP4Bitrate, defaultMP4Bitrate)
}

func (c *Config) normalizeBatch() {
	if c.Batch.Concurrency == 0 {
		c.Batch.Concurrency = defaultConcurrency
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func trimOrDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
