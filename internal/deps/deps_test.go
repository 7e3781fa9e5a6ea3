package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func writeStub(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	present := writeStub(t, t.TempDir(), "ffmpeg")
	reqs := []Requirement{
		{Name: "FFmpeg", Command: present},
		{Name: "img2webp", Command: "clearly-not-present-binary", Optional: true},
		{Name: "Empty", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" || !results[1].Optional {
		t.Fatalf("expected missing optional binary, got %#v", results[1])
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for empty command: %q", results[2].Detail)
	}
}

func TestCheckChromeConfigured(t *testing.T) {
	chrome := writeStub(t, t.TempDir(), "my-chrome")
	if status := CheckChrome(chrome); !status.Available || status.Command != chrome {
		t.Fatalf("expected configured chrome to resolve, got %#v", status)
	}
	if status := CheckChrome("/nope/chrome"); status.Available {
		t.Fatalf("expected missing configured chrome, got %#v", status)
	}
}

func TestCheckChromeSearchesPath(t *testing.T) {
	bin := t.TempDir()
	path := writeStub(t, bin, "chromium")
	t.Setenv("PATH", bin)

	status := CheckChrome("")
	if !status.Available || status.Command != path {
		t.Fatalf("expected chromium from PATH, got %#v", status)
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "lottie.min.js")
	if err := os.WriteFile(script, []byte("var lottie;"), 0o644); err != nil {
		t.Fatal(err)
	}
	if status := CheckFile("lottie-web", script, ""); !status.Available {
		t.Fatalf("expected script available, got %#v", status)
	}
	if status := CheckFile("lottie-web", dir, ""); status.Available {
		t.Fatal("directory must not count as the script")
	}
	if status := CheckFile("lottie-web", filepath.Join(dir, "missing.js"), ""); status.Available {
		t.Fatal("missing file reported available")
	}
}
