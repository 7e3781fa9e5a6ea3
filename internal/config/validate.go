package config

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	dirs := map[string]string{
		"paths.input_dir":  c.Paths.InputDir,
		"paths.render_dir": c.Paths.RenderDir,
		"paths.output_dir": c.Paths.OutputDir,
	}
	seen := make(map[string]string, len(dirs))
	for key, dir := range dirs {
		resolved := filepath.Clean(c.underRoot(dir))
		if other, ok := seen[resolved]; ok {
			return fmt.Errorf("%s and %s must not point at the same directory", other, key)
		}
		seen[resolved] = key
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.FPS <= 0 {
		return errors.New("render.fps must be a positive integer")
	}
	if c.Render.Width < 0 || c.Render.Width > maxRenderWidth {
		return fmt.Errorf("render.width must be between 0 and %d", maxRenderWidth)
	}
	if e := c.Render.ExtendSeconds; e < 0 || math.IsNaN(e) || math.IsInf(e, 0) {
		return errors.New("render.extend_seconds must be a finite non-negative number")
	}
	if c.Render.FrameTimeout > maxFrameTimeout {
		return fmt.Errorf("render.frame_timeout must be at most %d seconds", maxFrameTimeout)
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Concurrency < 1 || c.Batch.Concurrency > maxBatchConcurrency {
		return fmt.Errorf("batch.concurrency must be between 1 and %d", maxBatchConcurrency)
	}
	return nil
}
