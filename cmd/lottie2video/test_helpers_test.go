package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"lottie2video/internal/config"
	"lottie2video/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	root       string
	configPath string
}

// setupCLITestEnv writes a config whose batch root, logs and history live in
// a temp dir and whose external tools are stub scripts.
func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithStubbedTools()}, opts...)...)
	home := testsupport.BaseDir(cfg) + "/home"
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("LOTTIE2VIDEO_HISTORY_DB", "")
	t.Setenv("CHROME_PATH", "")

	return &cliTestEnv{
		cfg:        cfg,
		root:       cfg.Paths.Root,
		configPath: testsupport.WriteConfigFile(t, cfg),
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
