package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/vovakirdan/wee/internal/core"
	"github.com/vovakirdan/wee/internal/engine"
)

func object(name string, rules ...engine.Rule) engine.ObjectSpec {
	s := engine.DefaultObjectSpec(name)
	s.Rules = rules
	return s
}

func newGame(t *testing.T, length engine.Length, objs ...engine.ObjectSpec) *engine.Game {
	t.Helper()
	g, err := engine.NewGame(engine.Definition{Objects: objs, Length: length}, engine.Options{Rand: engine.NewRand(1)})
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	return g
}

func second() engine.Length {
	return engine.Length{Seconds: 1}
}

func TestRunToEnd(t *testing.T) {
	tests := []struct {
		name          string
		rate          float64
		presentations int
	}{
		{"normal speed", 1, 60},
		{"double speed", 2, 30},
		{"clamped above max", 5, 30},
		{"clamped below min", 0.5, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGame(t, second(), object("A"))
			res, err := New(Options{PlaybackRate: tt.rate}).Run(context.Background(), g, nil)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if res.Frames != 60 {
				t.Errorf("Expected 60 frames, got %d", res.Frames)
			}
			if res.Presentations != tt.presentations {
				t.Errorf("Expected %d presentations, got %d", tt.presentations, res.Presentations)
			}
			if res.Outcome != Undecided {
				t.Errorf("Expected undecided, got %s", res.Outcome)
			}
		})
	}
}

func TestRunOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		action engine.Action
		want   Outcome
	}{
		{"win", engine.Win{}, Won},
		{"lose", engine.Lose{}, Lost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGame(t, second(), object("A", engine.Rule{
				Triggers: []engine.Trigger{engine.AtFrame{Frame: 5}},
				Actions:  []engine.Action{tt.action},
			}))
			res, err := New(Options{}).Run(context.Background(), g, nil)
			if err != nil {
				t.Fatal(err)
			}
			if res.Outcome != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, res.Outcome)
			}
		})
	}
}

func TestRunEndsEarly(t *testing.T) {
	g := newGame(t, second(), object("A", engine.Rule{
		Triggers: []engine.Trigger{engine.AtFrame{Frame: 10}},
		Actions:  []engine.Action{engine.EndEarly{}, engine.PlaySound{Name: "bye"}},
	}))
	res, err := New(Options{}).Run(context.Background(), g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.EndedEarly || res.Frames != 11 {
		t.Errorf("Expected early end after 11 frames, got %+v", res)
	}
	if len(res.Sounds) != 1 || res.Sounds[0] != "bye" {
		t.Errorf("Expected sound bye, got %v", res.Sounds)
	}
}

func TestRunInfiniteCap(t *testing.T) {
	g := newGame(t, engine.Length{Infinite: true}, object("A"))
	res, err := New(Options{MaxFrames: 100}).Run(context.Background(), g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Frames != 100 {
		t.Errorf("Expected 100 frames, got %d", res.Frames)
	}
}

func TestRunReferenceError(t *testing.T) {
	g := newGame(t, second(), object("A", engine.Rule{
		Triggers: []engine.Trigger{engine.CollidesWith{Name: "ghost"}},
		Actions:  []engine.Action{engine.Win{}},
	}))
	res, err := New(Options{}).Run(context.Background(), g, nil)
	if !errors.Is(err, engine.ErrUnknownObject) {
		t.Fatalf("Expected ErrUnknownObject, got %v", err)
	}
	if res.Outcome != Failed || res.Frames != 0 {
		t.Errorf("Expected failure at frame 0, got %+v", res)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := newGame(t, second(), object("A"))
	res, err := New(Options{}).Run(ctx, g, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if res.Frames != 0 {
		t.Errorf("Expected no frames, got %d", res.Frames)
	}
}

func TestRunScriptedClick(t *testing.T) {
	script, err := ParseScript([]byte(`
- frame: 0
  x: 800
  y: 450
- frame: 20
  button: press
`))
	if err != nil {
		t.Fatal(err)
	}

	var pressedAt int
	target := object("Target", engine.Rule{
		Triggers: []engine.Trigger{engine.MouseInput{
			Over:  engine.MouseRegion{Kind: engine.MouseOverObject, Name: "Target"},
			State: core.ButtonPress,
		}},
		Actions: []engine.Action{engine.Win{}},
	})
	g := newGame(t, second(), target)

	r := New(Options{OnPresent: func(g *engine.Game, steps []engine.StepResult) {
		if pressedAt == 0 && g.HasWon() {
			pressedAt = steps[len(steps)-1].Frame
		}
	}})
	res, err := r.Run(context.Background(), g, script)
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != Won {
		t.Errorf("Expected won, got %s", res.Outcome)
	}
	if pressedAt != 21 {
		t.Errorf("Expected win declared on frame 20 (21 frames run), got %d", pressedAt)
	}
}

func TestPointerDecay(t *testing.T) {
	x := 10.0
	p := NewPointer(&Script{Events: []Event{
		{Frame: 2, X: &x, Button: "press"},
		{Frame: 5, Button: "release"},
	}})

	want := []core.ButtonState{
		core.ButtonUp, core.ButtonUp, core.ButtonPress, core.ButtonDown,
		core.ButtonDown, core.ButtonRelease, core.ButtonUp, core.ButtonUp,
	}
	for frame, w := range want {
		m := p.At(frame)
		if m.State != w {
			t.Errorf("frame %d: expected %s, got %s", frame, w, m.State)
		}
		if frame >= 2 && m.Position.X != 10 {
			t.Errorf("frame %d: expected x to hold at 10, got %v", frame, m.Position.X)
		}
	}
}

func TestPointerRepeatedFrame(t *testing.T) {
	p := NewPointer(&Script{Events: []Event{{Frame: 0, Button: "press"}}})
	if p.At(0).State != core.ButtonPress || p.At(0).State != core.ButtonPress {
		t.Error("Expected press to hold for repeated queries of the same frame")
	}
	if p.At(1).State != core.ButtonDown {
		t.Error("Expected press to decay to down")
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"negative frame", "- frame: -1\n"},
		{"bad button", "- frame: 1\n  button: smash\n"},
		{"not a list", "frame: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScript([]byte(tt.doc)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestParseScriptSorts(t *testing.T) {
	s, err := ParseScript([]byte("- frame: 9\n  button: down\n- frame: 3\n  button: up\n"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Events[0].Frame != 3 || s.Events[1].Frame != 9 {
		t.Errorf("Expected events sorted by frame, got %+v", s.Events)
	}
}
