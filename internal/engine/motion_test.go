package engine

import (
	"math"
	"testing"

	"github.com/vovakirdan/wee/internal/core"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func queue(motions ...Motion) Rule {
	actions := make([]Action, len(motions))
	for i, m := range motions {
		actions[i] = QueueMotion{Motion: m}
	}
	return Rule{Triggers: []Trigger{AtStart{}}, Actions: actions}
}

func TestAccelerateUpFromRest(t *testing.T) {
	g := newTestGame(t, 1, spec("A", queue(Accelerate{Direction: CompassDirections(Up), Speed: Normal})))
	step(t, g)

	a, _ := g.Objects.Lookup("A")
	acc, ok := a.ActiveMotion().(Accelerating)
	if !ok {
		t.Fatalf("Expected Accelerating, got %T", a.ActiveMotion())
	}
	if !near(acc.Velocity.X, 0) || !near(acc.Velocity.Y, -0.3) {
		t.Errorf("Expected velocity (0, -0.3), got %v", acc.Velocity)
	}
	if a.Position != core.V(800, 450) {
		t.Errorf("Expected no displacement on the first step, got %v", a.Position)
	}
}

func TestAccelerateInheritsVelocity(t *testing.T) {
	g := newTestGame(t, 1, spec("A", queue(
		GoStraight{Direction: AngleDirection(90), Speed: SpeedValue(10)},
		Accelerate{Direction: AngleDirection(90), Speed: SpeedValue(40)},
	)))
	step(t, g)
	a, _ := g.Objects.Lookup("A")
	acc := a.ActiveMotion().(Accelerating)
	if !near(acc.Velocity.X, 11) {
		t.Errorf("Expected velocity x 11, got %v", acc.Velocity.X)
	}
	if !near(a.Position.X, 810) {
		t.Errorf("Expected x 810, got %v", a.Position.X)
	}
}

func TestSlowDownToStop(t *testing.T) {
	g := newTestGame(t, 1, spec("A", queue(
		GoStraight{Direction: AngleDirection(90), Speed: SpeedValue(10)},
		SlowDown{Speed: SpeedValue(40)},
	)))
	a, _ := g.Objects.Lookup("A")
	for i := 0; i < 20; i++ {
		step(t, g)
	}
	if _, ok := a.ActiveMotion().(Stopped); !ok {
		t.Fatalf("Expected Stopped, got %T", a.ActiveMotion())
	}
	// 10 + 9 + ... + 2
	if !near(a.Position.X, 854) {
		t.Errorf("Expected x 854, got %v", a.Position.X)
	}
}

func TestSlowDownFromRestStops(t *testing.T) {
	g := newTestGame(t, 1, spec("A", queue(SlowDown{Speed: Normal})))
	step(t, g)
	a, _ := g.Objects.Lookup("A")
	if _, ok := a.ActiveMotion().(Stopped); !ok {
		t.Errorf("Expected Stopped, got %T", a.ActiveMotion())
	}
}

func TestClampAppliedBeforeNextMotion(t *testing.T) {
	g := newTestGame(t, 1, spec("A", queue(
		JumpTo{Kind: JumpClamp, Area: core.Box(0, 0, 100, 100)},
		GoStraight{Direction: AngleDirection(90), Speed: SpeedValue(10)},
	)))
	step(t, g)
	a, _ := g.Objects.Lookup("A")
	if !near(a.Position.X, 110) || !near(a.Position.Y, 100) {
		t.Errorf("Expected (110, 100), got %v", a.Position)
	}
	if _, ok := a.ActiveMotion().(Straight); !ok {
		t.Errorf("Expected Straight, got %T", a.ActiveMotion())
	}
}

func TestTrailingClampStops(t *testing.T) {
	g := newTestGame(t, 1, spec("A", queue(
		GoStraight{Direction: AngleDirection(90), Speed: SpeedValue(10)},
		JumpTo{Kind: JumpClamp, Area: core.Box(0, 0, 100, 100)},
	)))
	step(t, g)
	a, _ := g.Objects.Lookup("A")
	if a.Position != core.V(100, 100) {
		t.Errorf("Expected (100, 100), got %v", a.Position)
	}
	if _, ok := a.ActiveMotion().(Stopped); !ok {
		t.Errorf("Expected Stopped, got %T", a.ActiveMotion())
	}
}

func TestJumps(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
		jump  JumpTo
		want  core.Vec2
	}{
		{"point", 0, JumpTo{Kind: JumpPoint, Point: core.V(3, 4)}, core.V(3, 4)},
		{"relative position", 0, JumpTo{Kind: JumpRelative, Distance: core.V(5, -5)}, core.V(805, 445)},
		{"relative angle", 90, JumpTo{Kind: JumpRelative, Relative: RelativeToAngle, Distance: core.V(0, 10)}, core.V(790, 450)},
		{"object", 0, JumpTo{Kind: JumpObject, Name: "B"}, core.V(10, 20)},
		{"area degenerate", 0, JumpTo{Kind: JumpArea, Area: core.Box(7, 9, 7, 9)}, core.V(7, 9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := spec("A", queue(tt.jump))
			a.Angle = tt.angle
			b := DefaultObjectSpec("B")
			b.Position = core.V(10, 20)
			g := newTestGame(t, 1, a, b)
			step(t, g)

			obj, _ := g.Objects.Lookup("A")
			if math.Abs(obj.Position.X-tt.want.X) > 1e-6 || math.Abs(obj.Position.Y-tt.want.Y) > 1e-6 {
				t.Errorf("Expected %v, got %v", tt.want, obj.Position)
			}
			if _, ok := obj.ActiveMotion().(Stopped); !ok {
				t.Errorf("Expected Stopped, got %T", obj.ActiveMotion())
			}
		})
	}
}

func TestJumpToMouse(t *testing.T) {
	g := newTestGame(t, 1, spec("A", queue(JumpTo{Kind: JumpMouse})))
	if _, err := g.Update(core.Mouse{Position: core.V(42, 24)}); err != nil {
		t.Fatal(err)
	}
	a, _ := g.Objects.Lookup("A")
	if a.Position != core.V(42, 24) {
		t.Errorf("Expected mouse position, got %v", a.Position)
	}
}

func TestJumpAreaInside(t *testing.T) {
	area := core.Box(100, 200, 300, 400)
	g := newTestGame(t, 1, spec("A", queue(JumpTo{Kind: JumpArea, Area: area})))
	step(t, g)
	a, _ := g.Objects.Lookup("A")
	if a.Position.X < 100 || a.Position.X > 300 || a.Position.Y < 200 || a.Position.Y > 400 {
		t.Errorf("Expected position inside %v, got %v", area, a.Position)
	}
}

func TestSwap(t *testing.T) {
	b := DefaultObjectSpec("B")
	b.Position = core.V(5, 5)
	g := newTestGame(t, 1, spec("A", queue(Swap{Name: "B"})), b)
	step(t, g)

	a, _ := g.Objects.Lookup("A")
	other, _ := g.Objects.Lookup("B")
	if a.Position != core.V(5, 5) || other.Position != core.V(800, 450) {
		t.Errorf("Expected swapped positions, got A %v B %v", a.Position, other.Position)
	}
}

func TestSwapUnknownObject(t *testing.T) {
	g := newTestGame(t, 1, spec("A", queue(Swap{Name: "nobody"})))
	if _, err := g.Update(core.Mouse{}); err == nil {
		t.Error("Expected reference error")
	}
}

func TestTargetStopsWhenReached(t *testing.T) {
	a := spec("A", queue(Target{Kind: TargetObject, Name: "B", Mode: TargetStopWhenReached, Speed: SpeedValue(30)}))
	a.Position = core.V(0, 0)
	b := DefaultObjectSpec("B")
	b.Position = core.V(100, 0)
	g := newTestGame(t, 1, a, b)
	obj, _ := g.Objects.Lookup("A")

	for i := 0; i < 10; i++ {
		step(t, g)
		if obj.Position.X > 100 {
			t.Fatalf("frame %d: overshot target: %v", i, obj.Position)
		}
	}
	if obj.Position != core.V(100, 0) {
		t.Errorf("Expected (100, 0), got %v", obj.Position)
	}
	if _, ok := obj.ActiveMotion().(Stopped); !ok {
		t.Errorf("Expected Stopped, got %T", obj.ActiveMotion())
	}
}

func TestTargetMouseWithOffset(t *testing.T) {
	a := spec("A", queue(Target{Kind: TargetMouse, Mode: TargetFollow, Offset: core.V(10, 0), Speed: SpeedValue(1000)}))
	g := newTestGame(t, 1, a)
	if _, err := g.Update(core.Mouse{Position: core.V(50, 60)}); err != nil {
		t.Fatal(err)
	}
	obj, _ := g.Objects.Lookup("A")
	if obj.Position != core.V(60, 60) {
		t.Errorf("Expected (60, 60), got %v", obj.Position)
	}
	if _, ok := obj.ActiveMotion().(Seeking); !ok {
		t.Errorf("Expected Follow to keep seeking, got %T", obj.ActiveMotion())
	}
}

func TestReflectKeepsSpeedAcrossWalls(t *testing.T) {
	a := spec("A", queue(Roam{
		Style:   RoamReflect,
		Area:    core.Box(0, 0, 200, 200),
		Speed:   SpeedValue(7),
		Initial: AngleDirection(90),
	}))
	a.Position = core.V(100, 100)
	a.Size = Size{Width: 10, Height: 10}
	g := newTestGame(t, 1, a)
	obj, _ := g.Objects.Lookup("A")

	bounced := false
	for i := 0; i < 60; i++ {
		step(t, g)
		r := obj.ActiveMotion().(Roaming).Movement.(Reflecting)
		if math.Abs(r.Velocity.Len()-7) > 1e-9 {
			t.Fatalf("frame %d: speed changed to %v", i, r.Velocity.Len())
		}
		if r.Velocity.X < 0 {
			bounced = true
		}
		if obj.Position.X > 200 || obj.Position.X < 0 {
			t.Fatalf("frame %d: left the area at %v", i, obj.Position)
		}
	}
	if !bounced {
		t.Error("Expected a bounce off the right wall")
	}
}

func TestReflectDirections(t *testing.T) {
	tests := []struct {
		name string
		area core.AABB
		want int
	}{
		{"roomy", core.Box(0, 0, 500, 500), 8},
		{"narrow", core.Box(0, 0, 50, 500), 2},
		{"short", core.Box(0, 0, 500, 50), 2},
		{"tiny", core.Box(0, 0, 50, 50), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reflectDirections(tt.area, Size{Width: 100, Height: 100})
			if len(got) != tt.want {
				t.Errorf("Expected %d directions, got %v", tt.want, got)
			}
		})
	}
	if got := reflectDirections(core.Box(0, 0, 50, 500), Size{Width: 100, Height: 100}); got[0] != Up || got[1] != Down {
		t.Errorf("Expected Up/Down for a narrow area, got %v", got)
	}
}

func TestReflectAvoidsOverlap(t *testing.T) {
	a := spec("A", queue(Roam{
		Style:    RoamReflect,
		Area:     core.Box(0, 0, 1600, 900),
		Speed:    SpeedValue(5),
		Initial:  AngleDirection(90),
		Handling: TryNotToOverlap,
	}))
	a.Position = core.V(100, 100)
	a.Size = Size{Width: 20, Height: 20}
	wall := DefaultObjectSpec("wall")
	wall.Position = core.V(150, 100)
	wall.Size = Size{Width: 20, Height: 200}
	g := newTestGame(t, 1, a, wall)
	obj, _ := g.Objects.Lookup("A")

	for i := 0; i < 30; i++ {
		step(t, g)
	}
	r := obj.ActiveMotion().(Roaming).Movement.(Reflecting)
	if r.Velocity.X >= 0 {
		t.Errorf("Expected to be heading away from the wall, got %v", r.Velocity)
	}
	if obj.Position.X > 140 {
		t.Errorf("Expected to stay left of the wall, got %v", obj.Position)
	}
}

func TestWiggleAndInsectStayInArea(t *testing.T) {
	area := core.Box(0, 0, 50, 50)
	for _, style := range []RoamStyle{RoamWiggle, RoamInsect} {
		a := spec("A", queue(Roam{Style: style, Area: area, Speed: Fast}))
		a.Position = core.V(25, 25)
		g := newTestGame(t, 1, a)
		obj, _ := g.Objects.Lookup("A")
		for i := 0; i < 200; i++ {
			step(t, g)
			p := obj.Position
			if p.X < 0 || p.X > 50 || p.Y < 0 || p.Y > 50 {
				t.Fatalf("style %d frame %d: escaped area at %v", style, i, p)
			}
		}
	}
}

func TestBounceSetup(t *testing.T) {
	right := BounceRight
	a := spec("A", queue(Roam{Style: RoamBounce, Area: core.Box(0, 100, 1600, 800), Speed: Normal, BounceDir: &right}))
	a.Position = core.V(800, 800)
	g := newTestGame(t, 1, a)
	obj, _ := g.Objects.Lookup("A")

	r := g.startRoam(obj, Roam{Style: RoamBounce, Area: core.Box(0, 100, 1600, 800), Speed: Normal, BounceDir: &right}).(Bouncing)
	if !near(r.FramesInBounce, 60) {
		t.Errorf("Expected 60 frames per bounce, got %v", r.FramesInBounce)
	}
	// -2 * (100 - 800) / 3600
	if !near(r.Acceleration, 1400.0/3600) {
		t.Errorf("Unexpected acceleration %v", r.Acceleration)
	}
	if !near(r.Velocity.Y, 2*(100.0-800)/60) {
		t.Errorf("Unexpected initial vy %v", r.Velocity.Y)
	}

	step(t, g)
	b := obj.ActiveMotion().(Roaming).Movement.(Bouncing)
	if !near(b.Velocity.X, 6) {
		t.Errorf("Expected drift speed/2 to the right, got %v", b.Velocity.X)
	}
	if obj.Position.Y >= 800 {
		t.Errorf("Expected to rise, got %v", obj.Position)
	}
}

func TestBounceCycle(t *testing.T) {
	tests := []struct {
		name    string
		speed   Speed
		flip    int // first frame heading left
		rebound int // frame the floor sends it back up
	}{
		{"slow", Slow, 27, 173},
		{"normal", Normal, 18, 114},
		{"fast", Fast, 14, 85},
	}

	area := core.Box(0, 100, 900, 800)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			right := BounceRight
			a := spec("A", queue(Roam{Style: RoamBounce, Area: area, Speed: tt.speed, BounceDir: &right}))
			a.Position = core.V(800, 800)
			g := newTestGame(t, 1, a)
			obj, _ := g.Objects.Lookup("A")

			flip, rebound := 0, 0
			apex := math.Inf(1)
			for frame := 1; frame <= 400 && rebound == 0; frame++ {
				before := obj.Position.Y
				step(t, g)
				b := obj.ActiveMotion().(Roaming).Movement.(Bouncing)
				if flip == 0 && b.Direction == BounceLeft {
					flip = frame
				}
				apex = math.Min(apex, obj.Position.Y)
				if before > area.Max.Y {
					rebound = frame
					if !near(b.Velocity.Y, -b.Acceleration*b.FramesInBounce) {
						t.Errorf("Expected rebound vy %v, got %v", -b.Acceleration*b.FramesInBounce, b.Velocity.Y)
					}
					if obj.Position.Y >= before {
						t.Errorf("Expected to head up off the floor, got y %v from %v", obj.Position.Y, before)
					}
				}
			}

			if flip != tt.flip {
				t.Errorf("Expected direction flip on frame %d, got %d", tt.flip, flip)
			}
			if rebound != tt.rebound {
				t.Errorf("Expected floor rebound on frame %d, got %d", tt.rebound, rebound)
			}
			if apex < 95 || apex > 105 {
				t.Errorf("Expected apex near the top of the area, got %v", apex)
			}
		})
	}
}

func TestBounceFlipsAtLeftEdge(t *testing.T) {
	left := BounceLeft
	a := spec("A", queue(Roam{Style: RoamBounce, Area: core.Box(0, 100, 900, 800), Speed: Normal, BounceDir: &left}))
	a.Position = core.V(30, 800)
	g := newTestGame(t, 1, a)
	obj, _ := g.Objects.Lookup("A")

	for frame := 1; frame <= 7; frame++ {
		step(t, g)
		dir := obj.ActiveMotion().(Roaming).Movement.(Bouncing).Direction
		want := BounceLeft
		if frame == 7 {
			want = BounceRight
		}
		if dir != want {
			t.Errorf("frame %d: expected direction %v, got %v", frame, want, dir)
		}
	}
	// six frames of -6 take it to -6, the seventh turns it back to 0
	if !near(obj.Position.X, 0) {
		t.Errorf("Expected x 0 after turning, got %v", obj.Position.X)
	}
}

func TestStopCancelsMotion(t *testing.T) {
	g := newTestGame(t, 1, spec("A",
		queue(GoStraight{Direction: AngleDirection(180), Speed: Slow}),
		on(AtFrame{Frame: 2})(QueueMotion{Motion: Stop{}}),
	))
	a, _ := g.Objects.Lookup("A")
	for i := 0; i < 5; i++ {
		step(t, g)
	}
	// frames 0 and 1 move down by 8
	if !near(a.Position.Y, 466) {
		t.Errorf("Expected y 466, got %v", a.Position.Y)
	}
}
