package engine

import "github.com/vovakirdan/wee/internal/core"

// checkTriggers returns the actions of every rule of obj whose triggers all
// hold, in rule order. Triggers of a rule are evaluated left to right and
// evaluation stops at the first one that fails.
func (g *Game) checkTriggers(obj *Object, mouse core.Mouse) ([]Action, error) {
	var actions []Action
	for _, rule := range obj.Rules {
		triggered := true
		for _, trigger := range rule.Triggers {
			ok, err := g.isTriggered(obj, trigger, mouse)
			if err != nil {
				return nil, err
			}
			if !ok {
				triggered = false
				break
			}
		}
		if triggered {
			actions = append(actions, rule.Actions...)
		}
	}
	return actions, nil
}

func (g *Game) isTriggered(obj *Object, trigger Trigger, mouse core.Mouse) (bool, error) {
	switch t := trigger.(type) {
	case AtStart:
		return g.Frames.Ran == 0, nil

	case AtEnd:
		return g.Frames.IsFinal(), nil

	case AtFrame:
		return g.Frames.Ran == t.Frame, nil

	case AtRandomFrame:
		return false, nil

	case CollidesWith:
		other, err := g.Objects.Get(t.Name)
		if err != nil {
			return false, err
		}
		return g.collider.Overlaps(obj.Poly(), other.Poly()), nil

	case CollidesWithArea:
		return g.collider.Overlaps(obj.Poly(), t.Area.Poly()), nil

	case StatusIs:
		return t.Status.Matches(g.Status.Current), nil

	case MouseInput:
		over, err := g.mouseOver(t.Over, mouse)
		if err != nil || !over {
			return false, err
		}
		return t.Hover || t.State == mouse.State, nil

	case PropertyIs:
		other, err := g.Objects.Get(t.Name)
		if err != nil {
			return false, err
		}
		switch t.Check {
		case CheckSwitch:
			return other.Switch == t.Switch, nil
		case CheckSprite:
			return other.Sprite == t.Sprite, nil
		case CheckFinishedAnimation:
			return other.Animation.Finished(), nil
		case CheckTimer:
			return other.TimerExpired(), nil
		}
		return false, nil

	case RandomChance:
		return g.rng.Float64() < t.Chance, nil

	case DifficultyIs:
		return g.Difficulty == t.Level, nil
	}
	return false, nil
}

func (g *Game) mouseOver(region MouseRegion, mouse core.Mouse) (bool, error) {
	switch region.Kind {
	case MouseOverObject:
		other, err := g.Objects.Get(region.Name)
		if err != nil {
			return false, err
		}
		c := core.Circle{Center: mouse.Position, Radius: 1}
		return g.collider.CircleDistance(other.Poly(), c, false) == 0, nil
	case MouseOverArea:
		return region.Area.ContainsPoint(mouse.Position), nil
	}
	return true, nil
}
