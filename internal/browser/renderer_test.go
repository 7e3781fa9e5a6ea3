package browser

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"lottie2video/internal/capture"
	"lottie2video/internal/services"
)

func TestDecodeDataURL(t *testing.T) {
	payload := []byte("\x89PNG fake")
	got, err := decodeDataURL(pngDataPrefix + base64.StdEncoding.EncodeToString(payload))
	if err != nil {
		t.Fatalf("decodeDataURL returned error: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload mismatch: %q", got)
	}

	if _, err := decodeDataURL("data:image/jpeg;base64,AAAA"); err == nil {
		t.Fatal("expected error for non-png data url")
	}
	if _, err := decodeDataURL(pngDataPrefix + "!!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestLoadExpressionEmbedsDocumentAndSize(t *testing.T) {
	expr := loadExpression([]byte(`{"fr":30,"op":10}`), capture.Size{Width: 320, Height: 180})
	for _, fragment := range []string{
		"animationData: {\"fr\":30,\"op\":10}",
		"stage.style.width = '320px'",
		"stage.style.height = '180px'",
		"renderer: 'canvas'",
		"autoplay: false",
	} {
		if !strings.Contains(expr, fragment) {
			t.Fatalf("expected %q in load expression:\n%s", fragment, expr)
		}
	}
}

func TestSeekExpressionIsRelativeToInPoint(t *testing.T) {
	tests := []struct {
		frame, inPoint int
		want           string
	}{
		{0, 0, "window.anim.goToAndStop(0, true); true"},
		{45, 0, "window.anim.goToAndStop(45, true); true"},
		{10, 10, "window.anim.goToAndStop(0, true); true"},
		{37, 10, "window.anim.goToAndStop(27, true); true"},
	}
	for _, tt := range tests {
		if got := seekExpression(tt.frame, tt.inPoint); got != tt.want {
			t.Fatalf("seekExpression(%d, %d) = %q, want %q", tt.frame, tt.inPoint, got, tt.want)
		}
	}
}

func TestNewRequiresScript(t *testing.T) {
	_, err := New(context.Background(), Options{}, nil)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

// TestRenderSmoke runs the real browser when LOTTIE2VIDEO_BROWSER_TEST points
// at a lottie.min.js and Chrome is installed.
func TestRenderSmoke(t *testing.T) {
	script := os.Getenv("LOTTIE2VIDEO_BROWSER_TEST")
	if script == "" {
		t.Skip("set LOTTIE2VIDEO_BROWSER_TEST to the lottie.min.js path to run")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	r, err := New(ctx, Options{LottieScript: script, ExecPath: os.Getenv("CHROME_PATH"), DisableGPU: true}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer r.Close()

	doc := []byte(`{"v":"5.7.4","fr":30,"ip":5,"op":15,"w":64,"h":64,"layers":[]}`)
	if err := r.Load(ctx, doc, capture.Size{Width: 64, Height: 64}); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := r.SeekToFrame(ctx, 9); err != nil {
		t.Fatalf("SeekToFrame returned error: %v", err)
	}
	png, err := r.ReadPixels(ctx)
	if err != nil {
		t.Fatalf("ReadPixels returned error: %v", err)
	}
	if !strings.HasPrefix(string(png), "\x89PNG") {
		t.Fatalf("expected png signature, got %d bytes", len(png))
	}
}
