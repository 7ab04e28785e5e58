package engine

import (
	"fmt"
	"time"

	"github.com/vovakirdan/wee/internal/core"
)

// FrameCount is a number of frames or an unbounded count.
type FrameCount struct {
	Frames   int
	Infinite bool
}

// FrameInfo tracks the frame budget of a game.
type FrameInfo struct {
	Total      FrameCount
	Ran        int // simulation frames executed
	StepsTaken int // presentations so far, for playback scheduling
}

// Remaining returns total minus ran, floored at zero.
func (f FrameInfo) Remaining() FrameCount {
	if f.Total.Infinite {
		return FrameCount{Infinite: true}
	}
	return FrameCount{Frames: max(f.Total.Frames-f.Ran, 0)}
}

// IsFinal reports whether exactly one frame is left.
func (f FrameInfo) IsFinal() bool {
	r := f.Remaining()
	return !r.Infinite && r.Frames == 1
}

// GameStatus is the win/lose status for the current frame and the value it
// takes on the next one.
type GameStatus struct {
	Current   WinStatus
	NextFrame WinStatus
}

// trySet records a pending outcome. It is a no-op once an outcome has been
// promoted into Current, or when the opposite outcome is already pending.
func (s *GameStatus) trySet(opposite, pending WinStatus) {
	if s.Current != NotYetWon && s.Current != NotYetLost {
		return
	}
	if s.NextFrame == opposite {
		return
	}
	s.NextFrame = pending
}

// advance moves NextFrame into Current and latches pending outcomes.
func (s *GameStatus) advance() {
	s.Current = s.NextFrame
	switch s.NextFrame {
	case HasBeenWon:
		s.NextFrame = Won
	case HasBeenLost:
		s.NextFrame = Lost
	}
}

// DrawnText is text an object asked the renderer to draw.
type DrawnText struct {
	Text    string
	Font    string
	Colour  core.Colour
	Resize  TextResize
	Justify Justify
}

// StepResult is returned by Game.Update after each simulation frame.
type StepResult struct {
	Frame        int      // frames run after this update
	Sounds       []string // sounds to play this frame, in order
	Status       WinStatus
	Frozen       bool
	EndedEarly   bool
	MusicStopped bool
}

// Options configures a new Game.
type Options struct {
	Difficulty int      // defaults to 1
	Rand       Rand     // defaults to a time-seeded source
	Collider   Collider // defaults to SAT
}

// Game is the runtime state of one minigame. It is not safe for concurrent
// use: one goroutine owns it for the whole of each Update.
type Game struct {
	Objects      *Objects
	Background   []BackgroundPart
	Frames       FrameInfo
	Status       GameStatus
	Effect       Effect
	IntroText    string
	DrawnText    map[string]DrawnText
	Difficulty   int
	MusicStopped bool
	EndedEarly   bool

	rng      Rand
	collider Collider
}

// NewGame builds the runtime game from a parsed definition.
func NewGame(def Definition, opts Options) (*Game, error) {
	if opts.Rand == nil {
		opts.Rand = NewRand(time.Now().UnixNano())
	}
	if opts.Collider == nil {
		opts.Collider = SAT{}
	}
	if opts.Difficulty == 0 {
		opts.Difficulty = 1
	}

	objects, err := NewObjects(def.Objects, opts.Rand)
	if err != nil {
		return nil, err
	}

	return &Game{
		Objects:    objects,
		Background: def.Background,
		Frames:     FrameInfo{Total: def.Length.Frames()},
		Status:     GameStatus{Current: NotYetWon, NextFrame: NotYetWon},
		Effect:     EffectNone,
		IntroText:  def.IntroText,
		DrawnText:  make(map[string]DrawnText),
		Difficulty: opts.Difficulty,
		rng:        opts.Rand,
		collider:   opts.Collider,
	}, nil
}

// Update runs one simulation frame. Objects are processed in table order;
// each one ticks its timer, evaluates its rules, applies the actions of
// satisfied rules, advances its animation, plays its queued motion and
// settles its switch. While frozen only timers and triggers run, and only
// EndEarly actions take effect.
//
// A ReferenceError aborts the frame: the status is not advanced and the
// frame counter is not incremented.
func (g *Game) Update(mouse core.Mouse) (StepResult, error) {
	var sounds []string
	frozen := g.Effect == EffectFreeze

	for _, name := range g.Objects.order {
		obj := g.Objects.byName[name]
		oldSwitch := obj.Switch

		obj.updateTimer()

		actions, err := g.checkTriggers(obj, mouse)
		if err != nil {
			return StepResult{}, fmt.Errorf("frame %d: object %q: %w", g.Frames.Ran, name, err)
		}

		if frozen {
			for _, action := range actions {
				if _, ok := action.(EndEarly); ok {
					g.EndedEarly = true
				}
			}
			continue
		}

		if err := g.applyActions(obj, actions, mouse, &sounds); err != nil {
			return StepResult{}, fmt.Errorf("frame %d: object %q: %w", g.Frames.Ran, name, err)
		}

		obj.updateAnimation()

		if err := g.moveObject(obj, mouse); err != nil {
			return StepResult{}, fmt.Errorf("frame %d: object %q: %w", g.Frames.Ran, name, err)
		}

		obj.settleSwitch(oldSwitch)
	}

	g.Status.advance()
	g.Frames.Ran++

	return StepResult{
		Frame:        g.Frames.Ran,
		Sounds:       sounds,
		Status:       g.Status.Current,
		Frozen:       g.Effect == EffectFreeze,
		EndedEarly:   g.EndedEarly,
		MusicStopped: g.MusicStopped,
	}, nil
}

// Done reports whether the game should stop: it ended early or the frame
// budget is spent. It is checked between frames only.
func (g *Game) Done() bool {
	if g.EndedEarly {
		return true
	}
	r := g.Frames.Remaining()
	return !r.Infinite && r.Frames == 0
}

// HasWon reports whether a win has been declared, pending or latched.
func (g *Game) HasWon() bool {
	return Won.Matches(g.Status.Current) || g.Status.NextFrame == HasBeenWon || g.Status.NextFrame == Won
}

// HasLost reports whether a loss has been declared, pending or latched.
func (g *Game) HasLost() bool {
	return Lost.Matches(g.Status.Current) || g.Status.NextFrame == HasBeenLost || g.Status.NextFrame == Lost
}
