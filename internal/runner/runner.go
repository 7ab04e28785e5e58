// Package runner drives a game headlessly: it schedules simulation frames per
// presentation at a playback rate, feeds scripted pointer input and reports
// the outcome. It is the loop a windowed front end would run, minus drawing.
package runner

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wee/internal/engine"
)

// Outcome is how a run ended.
type Outcome string

const (
	Won       Outcome = "won"
	Lost      Outcome = "lost"
	Undecided Outcome = "undecided"
	Failed    Outcome = "error"
)

// Result summarizes a finished run.
type Result struct {
	Outcome       Outcome
	Status        engine.WinStatus
	Frames        int
	Presentations int
	Sounds        []string
	MusicStopped  bool
	EndedEarly    bool
}

// Options configures a Runner.
type Options struct {
	PlaybackRate float64
	MaxFrames    int // stop infinite games after this many frames; 0 = no cap
	Logger       *log.Logger

	// OnPresent is called after every presentation with the frames it ran.
	OnPresent func(g *engine.Game, steps []engine.StepResult)
}

// Runner runs games to completion.
type Runner struct {
	opts Options
}

// New creates a runner. A nil logger discards output.
func New(opts Options) *Runner {
	if opts.PlaybackRate < 1 {
		opts.PlaybackRate = 1
	}
	if opts.PlaybackRate > engine.PlaybackRateMax {
		opts.PlaybackRate = engine.PlaybackRateMax
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Runner{opts: opts}
}

// Run presents g until its frame budget is spent, it ends early, the frame
// cap is hit or ctx is cancelled. An update error ends the run with outcome
// Failed and is returned.
func (r *Runner) Run(ctx context.Context, g *engine.Game, script *Script) (Result, error) {
	pointer := NewPointer(script)
	logger := r.opts.Logger
	var res Result

	logger.Debug("run started", "frames", g.Frames.Total, "rate", r.opts.PlaybackRate, "difficulty", g.Difficulty)

	for !g.Done() {
		if err := ctx.Err(); err != nil {
			r.finish(g, &res)
			logger.Info("run cancelled", "frame", g.Frames.Ran)
			return res, err
		}
		if r.opts.MaxFrames > 0 && g.Frames.Ran >= r.opts.MaxFrames {
			logger.Warn("frame cap reached", "frame", g.Frames.Ran, "cap", r.opts.MaxFrames)
			break
		}

		steps, err := g.Present(r.opts.PlaybackRate, pointer.At)
		res.Presentations++
		for _, s := range steps {
			res.Sounds = append(res.Sounds, s.Sounds...)
			if len(s.Sounds) > 0 {
				logger.Debug("sounds", "frame", s.Frame, "names", s.Sounds)
			}
		}
		if err != nil {
			r.finish(g, &res)
			res.Outcome = Failed
			logger.Error("update failed", "frame", g.Frames.Ran, "error", err)
			return res, fmt.Errorf("runner: %w", err)
		}
		if r.opts.OnPresent != nil {
			r.opts.OnPresent(g, steps)
		}
	}

	r.finish(g, &res)
	logger.Info("run finished",
		"outcome", res.Outcome,
		"status", res.Status,
		"frames", res.Frames,
		"ended_early", res.EndedEarly,
	)
	return res, nil
}

func (r *Runner) finish(g *engine.Game, res *Result) {
	res.Frames = g.Frames.Ran
	res.Status = g.Status.Current
	res.MusicStopped = g.MusicStopped
	res.EndedEarly = g.EndedEarly
	res.Outcome = OutcomeOf(g)
}

// OutcomeOf reports how g stands: a declared win or loss counts even while
// it is still pending.
func OutcomeOf(g *engine.Game) Outcome {
	switch {
	case g.HasWon():
		return Won
	case g.HasLost():
		return Lost
	}
	return Undecided
}
