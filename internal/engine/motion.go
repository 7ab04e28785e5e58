package engine

import (
	"math"

	"github.com/vovakirdan/wee/internal/core"
)

// ActiveMotion is the motion state machine an object is running. It persists
// across frames until replaced by a queued motion or finished.
type ActiveMotion interface {
	isActiveMotion()
}

// Stopped is the idle motion.
type Stopped struct{}

// Straight moves by a fixed velocity every frame.
type Straight struct {
	Velocity core.Vec2
}

// Roaming moves within Area using one of the roam styles.
type Roaming struct {
	Movement ActiveRoam
	Area     core.AABB
	Speed    Speed
}

// Seeking moves towards an object or the pointer.
type Seeking struct {
	Target Target
}

// Accelerating moves by Velocity and then adds Acceleration, every frame.
type Accelerating struct {
	Velocity     core.Vec2
	Acceleration core.Vec2
}

// SlowingDown moves by Velocity and shrinks it by Deceleration until it
// would reverse.
type SlowingDown struct {
	Velocity     core.Vec2
	Deceleration core.Vec2
}

func (Stopped) isActiveMotion()      {}
func (Straight) isActiveMotion()     {}
func (Roaming) isActiveMotion()      {}
func (Seeking) isActiveMotion()      {}
func (Accelerating) isActiveMotion() {}
func (SlowingDown) isActiveMotion()  {}

// ActiveRoam is the per-style state of a Roaming motion.
type ActiveRoam interface {
	isActiveRoam()
}

// Wiggling jitters by a fresh random offset every frame.
type Wiggling struct{}

// InsectFlight keeps a random velocity and occasionally picks a new one.
type InsectFlight struct {
	Velocity core.Vec2
}

// Reflecting moves in a straight line and mirrors off the area walls and,
// with TryNotToOverlap, off other objects.
type Reflecting struct {
	Velocity core.Vec2
	Handling MovementHandling
}

// Bouncing follows a parabola between the top and bottom of the area while
// drifting horizontally.
type Bouncing struct {
	Velocity       core.Vec2
	Direction      BounceDirection
	Acceleration   float64
	FramesInBounce float64
}

func (Wiggling) isActiveRoam()     {}
func (InsectFlight) isActiveRoam() {}
func (Reflecting) isActiveRoam()   {}
func (Bouncing) isActiveRoam()     {}

// insectTurnChance is the per-frame probability an insect changes heading.
const insectTurnChance = 0.1

// velocityOf returns the velocity that an acceleration inherits.
func velocityOf(m ActiveMotion) core.Vec2 {
	switch m := m.(type) {
	case Straight:
		return m.Velocity
	case Accelerating:
		return m.Velocity
	case SlowingDown:
		return m.Velocity
	case Roaming:
		switch r := m.Movement.(type) {
		case InsectFlight:
			return r.Velocity
		case Reflecting:
			return r.Velocity
		case Bouncing:
			return r.Velocity
		}
	}
	return core.Vec2{}
}

// resolveAngle turns a Direction into degrees for obj.
func (g *Game) resolveAngle(d Direction, obj *Object) float64 {
	if d.UseCompass {
		dirs := d.Compass
		if len(dirs) == 0 {
			dirs = AllDirections
		}
		return dirs[g.rng.Intn(len(dirs))].Angle()
	}
	switch d.Angle.Kind {
	case AngleCurrent:
		return obj.Angle
	case AngleRandom:
		return rangeFloat(g.rng, d.Angle.Min, d.Angle.Max)
	}
	return d.Angle.Degrees
}

func (g *Game) randomVelocity(speed Speed) core.Vec2 {
	s := speed.PixelsPerFrame()
	return core.V(rangeFloat(g.rng, -s, s), rangeFloat(g.rng, -s, s))
}

// moveObject turns the object's queued motions into its active motion and
// then advances that motion by one frame. Clamps are deferred: a run of
// queued clamps is applied just before the next non-clamp motion, and any
// clamps still pending after the advance are applied last and stop the
// object.
func (g *Game) moveObject(obj *Object, mouse core.Mouse) error {
	var clamps []core.AABB
	queued := obj.queued
	obj.queued = nil

	for _, motion := range queued {
		if jump, ok := motion.(JumpTo); ok && jump.Kind == JumpClamp {
			clamps = append(clamps, jump.Area)
			continue
		}
		for _, area := range clamps {
			obj.Position = area.ClampPoint(obj.Position)
		}
		clamps = clamps[:0]

		active, err := g.startMotion(obj, motion, mouse)
		if err != nil {
			return err
		}
		obj.active = active
	}

	active, err := g.advanceMotion(obj, mouse)
	if err != nil {
		return err
	}
	obj.active = active

	for _, area := range clamps {
		obj.Position = area.ClampPoint(obj.Position)
		obj.active = Stopped{}
	}
	return nil
}

// startMotion consumes a queued motion and returns the active motion that
// replaces the current one.
func (g *Game) startMotion(obj *Object, motion Motion, mouse core.Mouse) (ActiveMotion, error) {
	switch m := motion.(type) {
	case GoStraight:
		angle := g.resolveAngle(m.Direction, obj)
		return Straight{Velocity: VectorFromAngle(angle, m.Speed.PixelsPerFrame())}, nil

	case JumpTo:
		if err := g.jump(obj, m, mouse); err != nil {
			return nil, err
		}
		return Stopped{}, nil

	case Roam:
		return Roaming{Movement: g.startRoam(obj, m), Area: m.Area, Speed: m.Speed}, nil

	case Swap:
		other, err := g.Objects.Get(m.Name)
		if err != nil {
			return nil, err
		}
		obj.Position, other.Position = other.Position, obj.Position
		return Stopped{}, nil

	case Target:
		return Seeking{Target: m}, nil

	case Accelerate:
		angle := g.resolveAngle(m.Direction, obj)
		return Accelerating{
			Velocity:     velocityOf(obj.active),
			Acceleration: VectorFromAngle(angle, m.Speed.PixelsPerFrame()/40),
		}, nil

	case SlowDown:
		v := velocityOf(obj.active)
		if v.X == 0 && v.Y == 0 {
			return Stopped{}, nil
		}
		return SlowingDown{
			Velocity:     v,
			Deceleration: v.Unit().Scale(m.Speed.PixelsPerFrame() / 40).Neg(),
		}, nil

	case Stop:
		return Stopped{}, nil
	}
	return obj.active, nil
}

func (g *Game) jump(obj *Object, m JumpTo, mouse core.Mouse) error {
	switch m.Kind {
	case JumpPoint:
		obj.Position = m.Point
	case JumpArea:
		obj.Position = core.V(
			rangeFloat(g.rng, m.Area.Min.X, m.Area.Max.X),
			rangeFloat(g.rng, m.Area.Min.Y, m.Area.Max.Y),
		)
	case JumpRelative:
		if m.Relative == RelativeToAngle {
			a := obj.trigAngle()
			d := m.Distance
			obj.Position.X += -d.Y*math.Cos(a) - d.X*math.Sin(a)
			obj.Position.Y += -d.Y*math.Sin(a) + d.X*math.Cos(a)
		} else {
			obj.Position = obj.Position.Add(m.Distance)
		}
	case JumpObject:
		other, err := g.Objects.Get(m.Name)
		if err != nil {
			return err
		}
		obj.Position = other.Position
	case JumpMouse:
		obj.Position = mouse.Position
	}
	return nil
}

func (g *Game) startRoam(obj *Object, m Roam) ActiveRoam {
	speed := m.Speed.PixelsPerFrame()
	switch m.Style {
	case RoamInsect:
		return InsectFlight{Velocity: g.randomVelocity(m.Speed)}

	case RoamReflect:
		var v core.Vec2
		if m.Initial.UseCompass {
			dirs := m.Initial.Compass
			if len(dirs) == 0 {
				dirs = reflectDirections(m.Area, obj.Size)
			}
			if len(dirs) > 0 {
				v = VectorFromAngle(dirs[g.rng.Intn(len(dirs))].Angle(), speed)
			}
		} else {
			v = VectorFromAngle(g.resolveAngle(m.Initial, obj), speed)
		}
		return Reflecting{Velocity: v, Handling: m.Handling}

	case RoamBounce:
		frames := FPS * Normal.PixelsPerFrame() / speed
		accel := -2 * (m.Area.Min.Y - m.Area.Max.Y) / (frames * frames)
		vy := 2 * (m.Area.Min.Y - obj.Position.Y) / frames
		dir := BounceLeft
		if m.BounceDir != nil {
			dir = *m.BounceDir
		} else if g.rng.Intn(2) == 1 {
			dir = BounceRight
		}
		return Bouncing{
			Velocity:       core.V(0, vy),
			Direction:      dir,
			Acceleration:   accel,
			FramesInBounce: frames,
		}
	}
	return Wiggling{}
}

// reflectDirections picks the compass set for a reflect roam with no
// explicit directions: an axis narrower than the object is excluded.
func reflectDirections(area core.AABB, size Size) []CompassDirection {
	noWidth := area.Width() < size.Width
	noHeight := area.Height() < size.Height
	switch {
	case noWidth && noHeight:
		return nil
	case noWidth:
		return []CompassDirection{Up, Down}
	case noHeight:
		return []CompassDirection{Left, Right}
	}
	return AllDirections
}

// advanceMotion runs one frame of the object's active motion and returns
// its successor.
func (g *Game) advanceMotion(obj *Object, mouse core.Mouse) (ActiveMotion, error) {
	switch m := obj.active.(type) {
	case Straight:
		obj.Position = obj.Position.Add(m.Velocity)
		return m, nil

	case Roaming:
		m.Movement = g.advanceRoam(obj, m)
		return m, nil

	case Seeking:
		return g.seek(obj, m, mouse)

	case Accelerating:
		obj.Position = obj.Position.Add(m.Velocity)
		m.Velocity = m.Velocity.Add(m.Acceleration)
		return m, nil

	case SlowingDown:
		if m.Velocity.Len() <= m.Deceleration.Len() {
			return Stopped{}, nil
		}
		obj.Position = obj.Position.Add(m.Velocity)
		m.Velocity = m.Velocity.Add(m.Deceleration)
		return m, nil
	}
	return Stopped{}, nil
}

func (g *Game) advanceRoam(obj *Object, m Roaming) ActiveRoam {
	switch r := m.Movement.(type) {
	case Wiggling:
		obj.Position = m.Area.ClampPoint(obj.Position.Add(g.randomVelocity(m.Speed)))
		return r

	case InsectFlight:
		if g.rng.Float64() < insectTurnChance {
			r.Velocity = g.randomVelocity(m.Speed)
		}
		obj.Position = m.Area.ClampPoint(obj.Position.Add(r.Velocity))
		return r

	case Reflecting:
		if r.Handling == TryNotToOverlap {
			r.Velocity = g.avoidOverlap(obj, r.Velocity)
		}
		p, v := obj.Position, r.Velocity
		if p.X+v.X < m.Area.Min.X {
			v.X = math.Abs(v.X)
		}
		if p.X+v.X > m.Area.Max.X {
			v.X = -math.Abs(v.X)
		}
		if p.Y+v.Y < m.Area.Min.Y {
			v.Y = math.Abs(v.Y)
		}
		if p.Y+v.Y > m.Area.Max.Y {
			v.Y = -math.Abs(v.Y)
		}
		r.Velocity = v
		obj.Position = p.Add(v)
		return r

	case Bouncing:
		x, y := obj.Position.X, obj.Position.Y
		if y < m.Area.Min.Y && r.Velocity.Y < 0 {
			r.Velocity.Y = 0
		}
		if y < m.Area.Max.Y {
			r.Velocity.Y += r.Acceleration
		} else if y > m.Area.Max.Y {
			r.Velocity.Y = -r.Acceleration * r.FramesInBounce
		}
		if x > m.Area.Max.X {
			r.Direction = BounceLeft
		} else if x < m.Area.Min.X {
			r.Direction = BounceRight
		}
		if x >= m.Area.Min.X && x <= m.Area.Max.X && obj.Size.Width >= m.Area.Width() {
			r.Velocity.X = 0
		} else if r.Direction == BounceLeft {
			r.Velocity.X = -m.Speed.PixelsPerFrame() / 2
		} else {
			r.Velocity.X = m.Speed.PixelsPerFrame() / 2
		}
		obj.Position = obj.Position.Add(r.Velocity)
		return r
	}
	return m.Movement
}

// avoidOverlap backs obj out of the object it overlaps most and reflects v
// off the contact normal. It returns the new velocity.
func (g *Game) avoidOverlap(obj *Object, v core.Vec2) core.Vec2 {
	original, otherPos := g.deepestContact(obj, obj.Poly())
	obj.Position = obj.Position.Sub(original.Normal.Scale(original.Depth))

	next, _ := g.deepestContact(obj, obj.Poly().Translate(v))
	if !next.Collided() && otherPos.Sub(obj.Position).Dot(v) > 0 {
		next = original
	}
	if !next.Collided() {
		return v
	}
	obj.Position = obj.Position.Sub(next.Normal.Scale(next.Depth))

	n := next.Normal.Unit()
	if n.X == 0 && n.Y == 0 {
		return v
	}
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// deepestContact returns the deepest contact of poly against every other
// object, with the position of the object it was found against.
func (g *Game) deepestContact(obj *Object, poly core.Poly) (core.Manifold, core.Vec2) {
	var best core.Manifold
	var pos core.Vec2
	found := false
	for _, name := range g.Objects.order {
		if name == obj.Name {
			continue
		}
		other := g.Objects.byName[name]
		m := g.collider.Manifold(poly, other.Poly())
		if !m.Collided() {
			continue
		}
		if !found || m.Depth > best.Depth {
			best, pos, found = m, other.Position, true
		}
	}
	return best, pos
}

func (g *Game) seek(obj *Object, m Seeking, mouse core.Mouse) (ActiveMotion, error) {
	t := m.Target
	target, err := g.targetPosition(t, mouse)
	if err != nil {
		return nil, err
	}
	goal := target.Add(t.Offset)
	v := goal.Sub(obj.Position).Unit().Scale(t.Speed.PixelsPerFrame())
	obj.Position = core.V(
		stepTowards(obj.Position.X, goal.X, v.X),
		stepTowards(obj.Position.Y, goal.Y, v.Y),
	)

	if t.Mode == TargetStopWhenReached {
		if math.Abs(obj.Position.X-goal.X) < 0.5 && math.Abs(obj.Position.Y-goal.Y) < 0.5 {
			return Stopped{}, nil
		}
	}
	return m, nil
}

func (g *Game) targetPosition(t Target, mouse core.Mouse) (core.Vec2, error) {
	if t.Kind == TargetMouse {
		return mouse.Position, nil
	}
	other, err := g.Objects.Get(t.Name)
	if err != nil {
		return core.Vec2{}, err
	}
	return other.Position, nil
}

// stepTowards moves x by v unless that would reach or pass goal, in which
// case it snaps to goal.
func stepTowards(x, goal, v float64) float64 {
	if math.Abs(x-goal) > math.Abs(v) {
		return x + v
	}
	return goal
}
