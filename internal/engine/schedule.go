package engine

import (
	"math"

	"github.com/vovakirdan/wee/internal/core"
)

// PlaybackRateMax is the fastest playback a session reaches.
const PlaybackRateMax = 2.0

// StepsForPresentation returns how many simulation frames to run for the
// current presentation at the given playback rate. The whole part of the
// rate runs every presentation; the fractional part adds one extra frame
// every 1/frac presentations. The count never exceeds the frames left.
//
// Callers increment Frames.StepsTaken before asking.
func StepsForPresentation(frames FrameInfo, rate float64) int {
	whole := math.Floor(rate)
	n := int(whole)
	if frac := rate - whole; frac != 0 {
		every := 1 / frac
		if math.Floor(math.Mod(float64(frames.StepsTaken), every)) == 0 {
			n++
		}
	}
	if n < 0 {
		n = 0
	}
	if r := frames.Remaining(); !r.Infinite && n > r.Frames {
		n = r.Frames
	}
	return n
}

// Present runs one presentation worth of simulation frames. mouse is asked
// for the pointer before each frame, keyed by the frame about to run. It
// stops at the first error.
func (g *Game) Present(rate float64, mouse func(frame int) core.Mouse) ([]StepResult, error) {
	g.Frames.StepsTaken++
	n := StepsForPresentation(g.Frames, rate)
	results := make([]StepResult, 0, n)
	for i := 0; i < n; i++ {
		res, err := g.Update(mouse(g.Frames.Ran))
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
