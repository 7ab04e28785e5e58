package engine

import (
	"testing"

	"github.com/vovakirdan/wee/internal/core"
)

func sprites(names ...string) []Sprite {
	out := make([]Sprite, len(names))
	for i, n := range names {
		out[i] = ImageSprite(n)
	}
	return out
}

func TestPlayOnceEmitsNMinusOneChanges(t *testing.T) {
	for _, speed := range []Speed{SpeedValue(0), SpeedValue(2), VeryFast} {
		anim := startAnimation(AnimationPlayOnce, sprites("a", "b", "c"), speed)

		var changes []string
		finished := 0
		for i := 0; i < 50; i++ {
			if s, ok := anim.Update(); ok {
				changes = append(changes, s.Image)
			}
			if anim.Finished() {
				finished++
			}
		}

		if len(changes) != 2 || changes[0] != "b" || changes[1] != "c" {
			t.Errorf("speed %v: expected [b c], got %v", speed, changes)
		}
		if finished != 1 {
			t.Errorf("speed %v: expected exactly one finished frame, got %d", speed, finished)
		}
		if anim.State != AnimationIdle {
			t.Errorf("speed %v: expected idle, got %v", speed, anim.State)
		}
	}
}

func TestLoopCycles(t *testing.T) {
	anim := startAnimation(AnimationLoop, sprites("a", "b", "c"), SpeedValue(0))

	var changes []string
	for i := 0; i < 6; i++ {
		if s, ok := anim.Update(); ok {
			changes = append(changes, s.Image)
		}
	}

	want := []string{"b", "c", "a", "b", "c", "a"}
	if len(changes) != len(want) {
		t.Fatalf("Expected %v, got %v", want, changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("change %d: expected %s, got %s", i, want[i], changes[i])
		}
	}
}

func TestCountdownHoldsSprite(t *testing.T) {
	anim := startAnimation(AnimationLoop, sprites("a", "b"), Fast)
	for i := 0; i < 4; i++ {
		if _, ok := anim.Update(); ok {
			t.Fatalf("update %d: changed before countdown elapsed", i)
		}
	}
	if s, ok := anim.Update(); !ok || s.Image != "b" {
		t.Errorf("Expected change to b, got %v %v", s, ok)
	}
}

func TestAnimateActionSetsFirstSprite(t *testing.T) {
	g := newTestGame(t, 1, spec("A",
		on(AtStart{})(Animate{Type: AnimationPlayOnce, Sprites: sprites("x", "y"), Speed: SpeedValue(0)}),
	))
	step(t, g)
	a, _ := g.Objects.Lookup("A")
	// the animation advances once in the frame it starts
	if a.Sprite.Image != "y" {
		t.Errorf("Expected y, got %q", a.Sprite.Image)
	}
}

func TestAnimateEmptyIsNoop(t *testing.T) {
	g := newTestGame(t, 1, spec("A",
		on(AtStart{})(Animate{Type: AnimationLoop, Speed: Normal}),
	))
	step(t, g)
	a, _ := g.Objects.Lookup("A")
	if a.Animation.State != AnimationIdle {
		t.Errorf("Expected idle, got %v", a.Animation.State)
	}
	if a.Sprite != ColourSprite(core.Black()) {
		t.Errorf("Expected sprite untouched, got %v", a.Sprite)
	}
}

func TestSetSpriteCancelsAnimation(t *testing.T) {
	g := newTestGame(t, 1, spec("A",
		on(AtStart{})(Animate{Type: AnimationLoop, Sprites: sprites("x", "y"), Speed: Slow}),
		on(AtFrame{Frame: 1})(SetSprite{Sprite: ImageSprite("z")}),
	))
	step(t, g)
	step(t, g)
	a, _ := g.Objects.Lookup("A")
	if a.Sprite.Image != "z" || a.Animation.State != AnimationIdle {
		t.Errorf("Expected z and idle animation, got %q %v", a.Sprite.Image, a.Animation.State)
	}
}

func TestFinishedAnimationProperty(t *testing.T) {
	g := newTestGame(t, 1, spec("A",
		on(AtStart{})(Animate{Type: AnimationPlayOnce, Sprites: sprites("x", "y"), Speed: SpeedValue(0)}),
		on(PropertyIs{Name: "A", Check: CheckFinishedAnimation})(PlaySound{Name: "done"}),
	))
	var frames []int
	for i := 0; i < 5; i++ {
		if res := step(t, g); len(res.Sounds) > 0 {
			frames = append(frames, i)
		}
	}
	if len(frames) != 1 || frames[0] != 2 {
		t.Errorf("Expected finished check on frame 2 only, got %v", frames)
	}
}
