package services

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// tailLines is how many trailing output lines a failed command reports.
const tailLines = 8

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

// CommandExecutor runs binaries through os/exec, streaming stdout and stderr
// line by line to onLine.
type CommandExecutor struct{}

// Run starts binary with args and waits for it to exit. A non-zero exit is
// returned as an error carrying the last lines the command printed.
func (CommandExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", binary, err)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		scanErr error
		once    sync.Once
		tail    = make([]string, 0, tailLines)
	)

	forward := func(line string) {
		mu.Lock()
		if len(tail) == tailLines {
			tail = tail[1:]
		}
		tail = append(tail, line)
		mu.Unlock()
		if onLine != nil {
			onLine(line)
		}
	}

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		scanner.Split(scanOutputLines)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				forward(line)
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
				_ = cmd.Process.Kill()
			})
			// Keep draining so the child never blocks on a full pipe.
			_, _ = io.Copy(io.Discard, r)
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		mu.Lock()
		detail := strings.TrimSpace(strings.Join(tail, "\n"))
		mu.Unlock()
		if detail != "" {
			return fmt.Errorf("%s: %w\n%s", binary, err, detail)
		}
		return fmt.Errorf("%s: %w", binary, err)
	}
	return nil
}

// scanOutputLines splits on '\n' or '\r'. ffmpeg redraws its progress line
// with carriage returns only.
func scanOutputLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
