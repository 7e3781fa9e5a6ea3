package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"lottie2video/internal/config"
	"lottie2video/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(c.flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if level := c.flagValue(c.logLevelFlag); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

// newLogger builds a logger for the current command. With persist set the
// output is also written to a per-run file under log_dir, and older run logs
// are pruned.
func (c *commandContext) newLogger(persist bool) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	var logPath string
	if persist {
		logPath = logging.RunLogPath(cfg.Paths.LogDir, time.Now())
	}
	logger, err := logging.NewFromConfig(cfg, logPath)
	if err != nil {
		return nil, err
	}
	if logPath != "" {
		if removed := logging.PruneLogs(logger, cfg.Paths.LogDir, "lottie2video-*.log", cfg.Logging.RetentionDays, logPath); removed > 0 {
			logger.Debug("pruned old run logs", logging.Int("removed", removed))
		}
	}
	return logger, nil
}

// forwardedFlags are the persistent flags a render subprocess must inherit
// so it loads the same configuration as its parent.
func (c *commandContext) forwardedFlags() []string {
	var args []string
	if path := c.flagValue(c.configFlag); path != "" {
		args = append(args, "--config", path)
	}
	if level := c.flagValue(c.logLevelFlag); level != "" {
		args = append(args, "--log-level", level)
	}
	return args
}

func (c *commandContext) flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
