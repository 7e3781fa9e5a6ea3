package timeline

import (
	"fmt"
	"math"

	"lottie2video/internal/services"
)

// Plan is the ordered list of source frames to capture plus the number of
// copies of the last captured frame to append afterwards.
type Plan struct {
	SourceFrames    []int
	ExtensionFrames int
}

// Len is the number of frames the plan produces including the extension.
func (p Plan) Len() int {
	return len(p.SourceFrames) + p.ExtensionFrames
}

// NewPlan maps the timeline onto targetRate.
//
// With equal rates every native frame is captured once. Otherwise output
// frame i samples source frame InPoint+round(i*FrameRate/targetRate). When
// rounding pushes a sample past the last valid frame the plan stops there, so
// resampled plans can be one frame shorter than Duration*targetRate.
func NewPlan(tl Timeline, targetRate int, extendSeconds float64) (Plan, error) {
	if targetRate <= 0 {
		return Plan{}, services.Wrap(services.ErrConfiguration, "timeline", "plan", fmt.Sprintf("target frame rate must be positive, got %d", targetRate), nil)
	}
	if err := tl.Validate(); err != nil {
		return Plan{}, err
	}

	target := float64(targetRate)
	plan := Plan{ExtensionFrames: ExtensionFrames(extendSeconds, targetRate)}

	if target == tl.FrameRate {
		plan.SourceFrames = make([]int, 0, tl.FrameCount())
		for frame := tl.InPoint; frame < tl.OutPoint; frame++ {
			plan.SourceFrames = append(plan.SourceFrames, frame)
		}
		return plan, nil
	}

	count := int(math.Round(float64(tl.FrameCount()) * target / tl.FrameRate))
	plan.SourceFrames = make([]int, 0, count)
	for i := 0; i < count; i++ {
		src := tl.InPoint + int(math.Round(float64(i)*tl.FrameRate/target))
		if src > tl.LastFrame() {
			break
		}
		plan.SourceFrames = append(plan.SourceFrames, src)
	}
	return plan, nil
}

// ExtensionFrames converts a hold duration into frames at targetRate.
// Non-finite durations yield no extension.
func ExtensionFrames(extendSeconds float64, targetRate int) int {
	if extendSeconds <= 0 || math.IsNaN(extendSeconds) || math.IsInf(extendSeconds, 0) || targetRate <= 0 {
		return 0
	}
	return int(math.Round(extendSeconds * float64(targetRate)))
}
