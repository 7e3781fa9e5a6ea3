package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// LottieHeader holds the timeline fields of a test animation.
type LottieHeader struct {
	FrameRate float64
	InPoint   int
	OutPoint  int
	Width     int
	Height    int
}

// WriteLottie writes a minimal Lottie document with no layers.
func WriteLottie(t testing.TB, path string, h LottieHeader) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	doc := fmt.Sprintf(`{"v":"5.7.4","fr":%g,"ip":%d,"op":%d,"w":%d,"h":%d,"nm":%q,"ddd":0,"assets":[],"layers":[]}`,
		h.FrameRate, h.InPoint, h.OutPoint, h.Width, h.Height, filepath.Base(path))
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
