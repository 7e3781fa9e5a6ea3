package timeline

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"lottie2video/internal/services"
)

const (
	defaultFrameRate = 60
	defaultWidth     = 1920
	defaultHeight    = 1080
)

// Timeline is the temporal metadata and native canvas size of a Lottie
// document. Frames are addressed in the document's own frame numbering, so
// valid frames are InPoint..OutPoint-1.
type Timeline struct {
	FrameRate float64
	InPoint   int
	OutPoint  int
	Width     int
	Height    int
}

// FrameCount is the number of native frames in the animation.
func (t Timeline) FrameCount() int {
	return t.OutPoint - t.InPoint
}

// Duration returns the animation length in seconds.
func (t Timeline) Duration() float64 {
	if t.FrameRate <= 0 {
		return 0
	}
	return float64(t.FrameCount()) / t.FrameRate
}

// LastFrame is the highest valid source frame, or InPoint-1 for an empty
// timeline.
func (t Timeline) LastFrame() int {
	return t.OutPoint - 1
}

// Contains reports whether frame is a valid source frame.
func (t Timeline) Contains(frame int) bool {
	return frame >= t.InPoint && frame < t.OutPoint
}

// document mirrors the top-level Lottie keys we care about. Pointers let us
// distinguish a missing key from an explicit zero.
type document struct {
	FrameRate *float64 `json:"fr"`
	InPoint   *float64 `json:"ip"`
	OutPoint  *float64 `json:"op"`
	Width     *float64 `json:"w"`
	Height    *float64 `json:"h"`
}

// Parse extracts the timeline from raw Lottie JSON.
func Parse(data []byte) (Timeline, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Timeline{}, services.Wrap(services.ErrValidation, "timeline", "parse", "invalid lottie json", err)
	}

	tl := Timeline{
		FrameRate: defaultFrameRate,
		Width:     defaultWidth,
		Height:    defaultHeight,
	}
	if doc.FrameRate != nil {
		tl.FrameRate = *doc.FrameRate
	}
	if doc.InPoint != nil {
		tl.InPoint = int(math.Round(*doc.InPoint))
	}
	if doc.OutPoint != nil {
		tl.OutPoint = int(math.Round(*doc.OutPoint))
	}
	if doc.Width != nil {
		tl.Width = int(math.Round(*doc.Width))
	}
	if doc.Height != nil {
		tl.Height = int(math.Round(*doc.Height))
	}

	if err := tl.Validate(); err != nil {
		return Timeline{}, err
	}
	return tl, nil
}

// Load reads and parses a Lottie document from disk, returning both the raw
// bytes (needed by the renderer) and the parsed timeline.
func Load(path string) ([]byte, Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Timeline{}, services.Wrap(services.ErrNotFound, "timeline", "read", path, err)
	}
	tl, err := Parse(data)
	if err != nil {
		return nil, Timeline{}, fmt.Errorf("%s: %w", path, err)
	}
	return data, tl, nil
}

// Validate checks the invariants every timeline must satisfy.
func (t Timeline) Validate() error {
	switch {
	case t.FrameRate <= 0 || math.IsNaN(t.FrameRate) || math.IsInf(t.FrameRate, 0):
		return services.Wrap(services.ErrValidation, "timeline", "validate", fmt.Sprintf("frame rate must be positive, got %v", t.FrameRate), nil)
	case t.OutPoint < t.InPoint:
		return services.Wrap(services.ErrValidation, "timeline", "validate", fmt.Sprintf("out point %d precedes in point %d", t.OutPoint, t.InPoint), nil)
	case t.Width <= 0 || t.Height <= 0:
		return services.Wrap(services.ErrValidation, "timeline", "validate", fmt.Sprintf("canvas size %dx%d must be positive", t.Width, t.Height), nil)
	}
	return nil
}
