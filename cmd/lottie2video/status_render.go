package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"lottie2video/internal/deps"
	"lottie2video/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

var statusStyles = [...]struct {
	tag   string
	color string
}{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

const statusLabelWidth = 20

// statusReport prints the doctor checklist and counts hard failures.
type statusReport struct {
	out      io.Writer
	colorize bool
	failures int
	printed  bool
}

func newStatusReport(out io.Writer) *statusReport {
	return &statusReport{out: out, colorize: shouldColorize(out)}
}

func (r *statusReport) section(title string) {
	if r.printed {
		fmt.Fprintln(r.out)
	}
	fmt.Fprintln(r.out, formatSectionHeader(title, r.colorize))
}

func (r *statusReport) line(label string, kind statusKind, message string) {
	if kind == statusError {
		r.failures++
	}
	fmt.Fprintln(r.out, formatStatusLine(label, kind, message, r.colorize))
	r.printed = true
}

func (r *statusReport) dependency(status deps.Status) {
	kind, message := dependencyLine(status)
	r.line(status.Name, kind, message)
}

func (r *statusReport) check(result preflight.Result) {
	kind := statusOK
	if !result.Passed {
		kind = statusError
	}
	r.line(result.Name, kind, result.Detail)
}

// dependencyLine maps a dependency check to a status. Missing optional
// tools only warn.
func dependencyLine(status deps.Status) (statusKind, string) {
	switch {
	case status.Available:
		return statusOK, status.Command
	case status.Optional:
		return statusWarn, fmt.Sprintf("%s (optional: %s)", status.Detail, status.Description)
	default:
		return statusError, status.Detail
	}
}

// formatStatusLine aligns labels into a column; only the [TAG] is colored.
func formatStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	tag := "[" + style.tag + "]"
	if colorize {
		tag = style.color + tag + ansiReset
	}
	line := fmt.Sprintf("  %-*s %s", statusLabelWidth, label+":", tag)
	if message != "" {
		line += " " + message
	}
	return line
}

func formatSectionHeader(title string, colorize bool) string {
	title = strings.TrimSpace(title)
	if colorize {
		return ansiBlue + title + ansiReset
	}
	return title
}

// shouldColorize is true for terminals unless NO_COLOR is set.
func shouldColorize(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
