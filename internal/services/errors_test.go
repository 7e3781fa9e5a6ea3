package services_test

import (
	"errors"
	"strings"
	"testing"

	"lottie2video/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "encoding", "gif", "ffmpeg failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"encoding", "gif", "ffmpeg failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestIsFatalConfig(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{services.Wrap(services.ErrConfiguration, "convert", "parse", "unknown format", nil), true},
		{services.Wrap(services.ErrNotFound, "convert", "scan", "no inputs", nil), true},
		{services.Wrap(services.ErrExternalTool, "job", "render", "exit 1", nil), false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := services.IsFatalConfig(tc.err); got != tc.want {
			t.Fatalf("IsFatalConfig(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
