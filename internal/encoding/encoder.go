package encoding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lottie2video/internal/logging"
	"lottie2video/internal/services"
)

// Encoder packages a frames directory into an output file.
type Encoder struct {
	recipe Recipe
	exec   services.Executor
	logger *slog.Logger
}

// NewEncoder builds an Encoder. A nil executor runs real binaries.
func NewEncoder(recipe Recipe, exec services.Executor, logger *slog.Logger) *Encoder {
	if exec == nil {
		exec = services.CommandExecutor{}
	}
	return &Encoder{recipe: recipe, exec: exec, logger: logging.NewComponentLogger(logger, "encoding")}
}

// Encode runs the format's recipe over the frames in dir.
func (e *Encoder) Encode(ctx context.Context, format Format, dir string, fps int, output string) error {
	logger := logging.WithContext(ctx, e.logger)
	commands, err := e.recipe.Commands(format, dir, fps, output)
	if err != nil {
		return services.Wrap(services.ErrValidation, "encoding", "plan", format.Label(), err)
	}

	start := time.Now()
	logger.Info("encoding", logging.String("format", format.Label()), logging.String("output", output))
	for i, cmd := range commands {
		logger.Debug("running encoder",
			logging.Int("step", i+1),
			logging.Int("steps", len(commands)),
			logging.String("command", summarize(cmd)),
		)
		onLine := func(line string) {
			if line = strings.TrimSpace(line); line != "" {
				logger.Debug("encoder output", logging.String("line", line))
			}
		}
		if err := e.exec.Run(ctx, cmd.Binary, cmd.Args, onLine); err != nil {
			return services.Wrap(services.ErrExternalTool, "encoding", cmd.Binary,
				fmt.Sprintf("%s step %d/%d failed", format.Label(), i+1, len(commands)), err)
		}
	}
	logger.Info("encoding complete",
		logging.String("format", format.Label()),
		logging.String("output", output),
		logging.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// summarize shortens long webp file lists for logs.
func summarize(cmd Command) string {
	const maxArgs = 16
	if len(cmd.Args) <= maxArgs {
		return cmd.String()
	}
	head := strings.Join(cmd.Args[:maxArgs], " ")
	return fmt.Sprintf("%s %s ... (%d more args)", cmd.Binary, head, len(cmd.Args)-maxArgs)
}
