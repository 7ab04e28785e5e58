package engine

import (
	"math"

	"github.com/vovakirdan/wee/internal/core"
)

// ObjectSpec is the authored description of one object.
type ObjectSpec struct {
	Name          string
	Sprite        Sprite
	Position      core.Vec2
	Size          Size
	Angle         float64
	Origin        *core.Vec2
	CollisionArea *core.AABB
	Flip          Flip
	Layer         uint8
	SwitchOn      bool
	Rules         []Rule
}

// DefaultObjectSpec returns the values missing fields take in a description.
func DefaultObjectSpec(name string) ObjectSpec {
	return ObjectSpec{
		Name:     name,
		Sprite:   ColourSprite(core.Black()),
		Position: core.V(800, 450),
		Size:     Size{Width: 100, Height: 100},
	}
}

// Object is the runtime state of one named entity. Objects live for the
// whole game and are never destroyed.
type Object struct {
	Name          string
	Sprite        Sprite
	Position      core.Vec2 // centre
	Size          Size
	Angle         float64 // degrees, clockwise, 0 = up
	Origin        *core.Vec2
	CollisionArea *core.AABB // relative to the unflipped sprite's top-left
	Flip          Flip
	Layer         uint8
	Switch        SwitchState
	Timer         *int
	Animation     Animation
	Rules         []Rule

	queued []Motion
	active ActiveMotion
}

// newObject builds the runtime object for spec. AtRandomFrame triggers are
// resolved to an exact frame in [Start, End] using rng.
func newObject(spec ObjectSpec, rng Rand) *Object {
	obj := &Object{
		Name:     spec.Name,
		Sprite:   spec.Sprite,
		Position: spec.Position,
		Size:     spec.Size,
		Angle:    spec.Angle,
		Flip:     spec.Flip,
		Layer:    spec.Layer,
		Switch:   SwitchOff,
		active:   Stopped{},
	}
	if spec.SwitchOn {
		obj.Switch = SwitchOn
	}
	if spec.Origin != nil {
		o := *spec.Origin
		obj.Origin = &o
	}
	if spec.CollisionArea != nil {
		a := *spec.CollisionArea
		obj.CollisionArea = &a
	}

	obj.Rules = make([]Rule, len(spec.Rules))
	for i, rule := range spec.Rules {
		triggers := make([]Trigger, len(rule.Triggers))
		for j, trigger := range rule.Triggers {
			if r, ok := trigger.(AtRandomFrame); ok {
				trigger = AtFrame{Frame: randomFrame(rng, r.Start, r.End)}
			}
			triggers[j] = trigger
		}
		obj.Rules[i] = Rule{Triggers: triggers, Actions: rule.Actions}
	}
	return obj
}

func randomFrame(rng Rand, start, end int) int {
	if end < start {
		start, end = end, start
	}
	return start + rng.Intn(end-start+1)
}

// ActiveMotion returns the motion state machine currently running.
func (o *Object) ActiveMotion() ActiveMotion {
	return o.active
}

// QueuedMotion returns motions queued this frame and not yet played.
func (o *Object) QueuedMotion() []Motion {
	return o.queued
}

// HalfWidth returns half of the object's width.
func (o *Object) HalfWidth() float64 {
	return o.Size.Width / 2
}

// HalfHeight returns half of the object's height.
func (o *Object) HalfHeight() float64 {
	return o.Size.Height / 2
}

// TopLeft returns the top-left corner of the unrotated sprite.
func (o *Object) TopLeft() core.Vec2 {
	return core.V(o.Position.X-o.HalfWidth(), o.Position.Y-o.HalfHeight())
}

func (o *Object) bottomRight() core.Vec2 {
	return core.V(o.Position.X+o.HalfWidth(), o.Position.Y+o.HalfHeight())
}

// OriginOffset returns the rotation origin relative to the top-left corner.
// It defaults to the geometric centre.
func (o *Object) OriginOffset() core.Vec2 {
	if o.Origin != nil {
		return *o.Origin
	}
	return core.V(o.HalfWidth(), o.HalfHeight())
}

// OriginInWorld returns the rotation origin in world coordinates.
func (o *Object) OriginInWorld() core.Vec2 {
	return o.TopLeft().Add(o.OriginOffset())
}

// trigAngle converts the engine angle into a standard trigonometric angle.
func (o *Object) trigAngle() float64 {
	return (o.Angle - 90) * math.Pi / 180
}

// CollisionAABB returns the unrotated collision rectangle in world space,
// mirrored to follow the object's flip flags.
func (o *Object) CollisionAABB() core.AABB {
	if o.CollisionArea == nil {
		return core.AABB{Min: o.TopLeft(), Max: o.bottomRight()}
	}
	area := *o.CollisionArea
	if o.Flip.Horizontal {
		fromLeft := area.Min.X
		fromRight := o.Size.Width - area.Max.X
		area.Min.X = fromRight
		area.Max.X = o.Size.Width - fromLeft
	}
	if o.Flip.Vertical {
		fromTop := area.Min.Y
		fromBottom := o.Size.Height - area.Max.Y
		area.Min.Y = fromBottom
		area.Max.Y = o.Size.Height - fromTop
	}
	return area.Translate(o.TopLeft())
}

// Poly builds the oriented collision polygon. It is recomputed on every
// call because position, size, angle and flip can change mid-frame.
func (o *Object) Poly() core.Poly {
	origin := o.OriginInWorld()
	box := o.CollisionAABB().Translate(origin.Neg())
	rad := o.Angle * math.Pi / 180
	poly := box.Poly()
	for i, p := range poly {
		poly[i] = p.Rotate(rad).Add(origin)
	}
	return poly
}

// updateTimer counts a running timer down. A timer at zero is cleared.
func (o *Object) updateTimer() {
	if o.Timer == nil {
		return
	}
	if *o.Timer == 0 {
		o.Timer = nil
		return
	}
	t := *o.Timer - 1
	o.Timer = &t
}

// TimerExpired reports whether the timer is at zero this frame.
func (o *Object) TimerExpired() bool {
	return o.Timer != nil && *o.Timer == 0
}

// settleSwitch collapses SwitchedOn/SwitchedOff into On/Off once they have
// survived a full frame. old is the switch value at the start of the frame.
func (o *Object) settleSwitch(old SwitchState) {
	switch {
	case o.Switch == SwitchedOn && (old == SwitchedOn || old == SwitchOn):
		o.Switch = SwitchOn
	case o.Switch == SwitchedOff && (old == SwitchedOff || old == SwitchOff):
		o.Switch = SwitchOff
	}
}

// updateAnimation advances the animation and applies its sprite change.
func (o *Object) updateAnimation() {
	if sprite, changed := o.Animation.Update(); changed {
		o.Sprite = sprite
	}
}
