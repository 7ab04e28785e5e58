package engine

import (
	"math"

	"github.com/vovakirdan/wee/internal/core"
)

// applyActions runs actions in order on obj, appending played sound names
// to sounds.
func (g *Game) applyActions(obj *Object, actions []Action, mouse core.Mouse, sounds *[]string) error {
	for _, action := range actions {
		if err := g.applyAction(obj, action, mouse, sounds); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) applyAction(obj *Object, action Action, mouse core.Mouse, sounds *[]string) error {
	switch a := action.(type) {
	case Win:
		g.Status.trySet(HasBeenLost, HasBeenWon)

	case Lose:
		g.Status.trySet(HasBeenWon, HasBeenLost)

	case SetEffect:
		g.Effect = a.Effect

	case QueueMotion:
		obj.queued = append(obj.queued, a.Motion)

	case PlaySound:
		*sounds = append(*sounds, a.Name)

	case StopMusic:
		g.MusicStopped = true

	case SetSprite:
		obj.Sprite = a.Sprite
		obj.Animation = Animation{}

	case SetAngle:
		angle, err := g.newAngle(obj, a, mouse)
		if err != nil {
			return err
		}
		obj.Angle = angle

	case SetSize:
		obj.resize(a)

	case SetSwitch:
		if a.On && obj.Switch != SwitchOn {
			obj.Switch = SwitchedOn
		} else if !a.On && obj.Switch != SwitchOff {
			obj.Switch = SwitchedOff
		}

	case SetTimer:
		frames := a.Frames
		obj.Timer = &frames

	case SetFlip:
		flag := &obj.Flip.Horizontal
		if a.Axis == FlipVertical {
			flag = &obj.Flip.Vertical
		}
		if a.Toggle {
			*flag = !*flag
		} else {
			*flag = a.Value
		}

	case SetLayer:
		switch a.Kind {
		case LayerSetValue:
			obj.Layer = a.Value
		case LayerIncrease:
			if obj.Layer < math.MaxUint8-1 {
				obj.Layer++
			}
		case LayerDecrease:
			if obj.Layer > 0 {
				obj.Layer--
			}
		}

	case Animate:
		if len(a.Sprites) == 0 {
			return nil
		}
		obj.Animation = startAnimation(a.Type, a.Sprites, a.Speed)
		obj.Sprite = a.Sprites[0]

	case DrawText:
		g.DrawnText[obj.Name] = DrawnText{
			Text:    a.Text,
			Font:    a.Font,
			Colour:  a.Colour,
			Resize:  a.Resize,
			Justify: a.Justify,
		}

	case RandomAction:
		if len(a.Actions) == 0 {
			return nil
		}
		return g.applyAction(obj, a.Actions[g.rng.Intn(len(a.Actions))], mouse, sounds)

	case EndEarly:
		g.EndedEarly = true
	}
	return nil
}

func (g *Game) newAngle(obj *Object, a SetAngle, mouse core.Mouse) (float64, error) {
	switch a.Kind {
	case AngleSetValue:
		return a.Value, nil
	case AngleIncrease:
		return obj.Angle + a.Value, nil
	case AngleDecrease:
		return obj.Angle - a.Value, nil
	case AngleMatch:
		other, err := g.Objects.Get(a.Name)
		if err != nil {
			return 0, err
		}
		return other.Angle, nil
	case AngleClamp:
		angle := obj.Angle
		if angle < 0 {
			angle += 360
		}
		return ClampDegrees(angle, a.Min, a.Max), nil
	case AngleRotateToObject:
		other, err := g.Objects.Get(a.Name)
		if err != nil {
			return 0, err
		}
		return angleTowards(obj.OriginInWorld(), other.Position), nil
	case AngleRotateToMouse:
		centre := obj.OriginInWorld()
		const eps = 0.00001
		if math.Abs(centre.X-mouse.Position.X) < eps && math.Abs(centre.Y-mouse.Position.Y) < eps {
			return obj.Angle, nil
		}
		return angleTowards(centre, mouse.Position), nil
	}
	return obj.Angle, nil
}

// angleTowards returns the engine angle pointing from one point to another.
func angleTowards(from, to core.Vec2) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)*180/math.Pi + 90
}

// ClampDegrees clamps angle to the arc from lo to hi, wrapping through
// 360 when lo > hi. An angle outside the arc snaps to the bound nearest
// by circular distance.
func ClampDegrees(angle, lo, hi float64) float64 {
	if betweenAngles(angle, lo, hi) {
		return angle
	}
	if angleDistance(angle, lo) < angleDistance(angle, hi) {
		return lo
	}
	return hi
}

func betweenAngles(angle, lo, hi float64) bool {
	if lo < hi {
		return angle >= lo && angle <= hi
	}
	return (angle >= lo && angle <= hi+360) || (angle >= lo-360 && angle <= hi)
}

func angleDistance(a, b float64) float64 {
	return math.Min(math.Abs(a-b), math.Min(math.Abs(a+360-b), math.Abs(a-(b+360))))
}

// resize applies a size setter and rescales the collision area by the
// same ratios. An axis whose old extent was zero keeps its collision area.
func (o *Object) resize(a SetSize) {
	old := o.Size
	switch a.Kind {
	case SizeSetValue:
		o.Size = a.Size
	case SizeGrow:
		o.Size = grow(old, a.Size, a.Percent, 1)
	case SizeShrink:
		o.Size = grow(old, a.Size, a.Percent, -1)
	case SizeClamp:
		o.Size = Size{
			Width:  math.Max(math.Min(old.Width, a.Max.Width), a.Min.Width),
			Height: math.Max(math.Min(old.Height, a.Max.Height), a.Min.Height),
		}
	}

	if o.CollisionArea == nil {
		return
	}
	area := o.CollisionArea
	if old.Width != 0 {
		rx := o.Size.Width / old.Width
		area.Min.X *= rx
		area.Max.X *= rx
	}
	if old.Height != 0 {
		ry := o.Size.Height / old.Height
		area.Min.Y *= ry
		area.Max.Y *= ry
	}
}

func grow(s, by Size, percent bool, sign float64) Size {
	if percent {
		return Size{
			Width:  s.Width + sign*s.Width*(by.Width/100),
			Height: s.Height + sign*s.Height*(by.Height/100),
		}
	}
	return Size{Width: s.Width + sign*by.Width, Height: s.Height + sign*by.Height}
}
