package schema

import (
	"github.com/tidwall/gjson"

	"github.com/vovakirdan/wee/internal/engine"
)

func motion(r gjson.Result, path string) (engine.Motion, error) {
	tag, body, err := variant(r, path, "Motion")
	if err != nil {
		return nil, err
	}
	p := join(path, tag)

	switch tag {
	case "Stop":
		return engine.Stop{}, nil

	case "GoStraight":
		dir, err := directionField(body, "direction", p)
		if err != nil {
			return nil, err
		}
		sp, err := speedField(body, p)
		if err != nil {
			return nil, err
		}
		return engine.GoStraight{Direction: dir, Speed: sp}, nil

	case "JumpTo":
		return jumpTo(body, p)

	case "Roam":
		return roam(body, p)

	case "Swap":
		name, err := strField(body, "name", p)
		if err != nil {
			return nil, err
		}
		return engine.Swap{Name: name}, nil

	case "Target":
		return target(body, p)

	case "Accelerate":
		atag, abody, err := variant(body, p, "Acceleration")
		if err != nil {
			return nil, err
		}
		ap := join(p, atag)
		switch atag {
		case "Continuous":
			dir, err := directionField(abody, "direction", ap)
			if err != nil {
				return nil, err
			}
			sp, err := speedField(abody, ap)
			if err != nil {
				return nil, err
			}
			return engine.Accelerate{Direction: dir, Speed: sp}, nil
		case "SlowDown":
			sp, err := speedField(abody, ap)
			if err != nil {
				return nil, err
			}
			return engine.SlowDown{Speed: sp}, nil
		}
		return nil, fail(p, "unknown Acceleration variant %q", atag)
	}
	return nil, fail(path, "unknown Motion variant %q", tag)
}

func jumpTo(r gjson.Result, path string) (engine.Motion, error) {
	tag, body, err := variant(r, path, "JumpLocation")
	if err != nil {
		return nil, err
	}
	p := join(path, tag)

	switch tag {
	case "Point":
		pt, err := vec2(body, p)
		if err != nil {
			return nil, err
		}
		return engine.JumpTo{Kind: engine.JumpPoint, Point: pt}, nil
	case "Area":
		area, err := aabb(body, p)
		if err != nil {
			return nil, err
		}
		return engine.JumpTo{Kind: engine.JumpArea, Area: area}, nil
	case "Relative":
		tv, err := field(body, "to", p)
		if err != nil {
			return nil, err
		}
		to, _, err := variant(tv, join(p, "to"), "RelativeTo")
		if err != nil {
			return nil, err
		}
		jump := engine.JumpTo{Kind: engine.JumpRelative}
		switch to {
		case "CurrentPosition":
			jump.Relative = engine.RelativeToPosition
		case "CurrentAngle":
			jump.Relative = engine.RelativeToAngle
		default:
			return nil, fail(join(p, "to"), "unknown RelativeTo %q", to)
		}
		dv, err := field(body, "distance", p)
		if err != nil {
			return nil, err
		}
		if jump.Distance, err = vec2(dv, join(p, "distance")); err != nil {
			return nil, err
		}
		return jump, nil
	case "Object":
		name, err := strField(body, "name", p)
		if err != nil {
			return nil, err
		}
		return engine.JumpTo{Kind: engine.JumpObject, Name: name}, nil
	case "Mouse":
		return engine.JumpTo{Kind: engine.JumpMouse}, nil
	case "ClampPosition":
		av, err := field(body, "area", p)
		if err != nil {
			return nil, err
		}
		area, err := aabb(av, join(p, "area"))
		if err != nil {
			return nil, err
		}
		return engine.JumpTo{Kind: engine.JumpClamp, Area: area}, nil
	}
	return nil, fail(path, "unknown JumpLocation variant %q", tag)
}

func roam(r gjson.Result, path string) (engine.Motion, error) {
	av, err := field(r, "area", path)
	if err != nil {
		return nil, err
	}
	area, err := aabb(av, join(path, "area"))
	if err != nil {
		return nil, err
	}
	sp, err := speedField(r, path)
	if err != nil {
		return nil, err
	}
	m := engine.Roam{Area: area, Speed: sp}

	mv, err := field(r, "movement_type", path)
	if err != nil {
		return nil, err
	}
	mp := join(path, "movement_type")
	tag, body, err := variant(mv, mp, "MovementType")
	if err != nil {
		return nil, err
	}
	p := join(mp, tag)

	switch tag {
	case "Wiggle":
		m.Style = engine.RoamWiggle
	case "Insect":
		m.Style = engine.RoamInsect
	case "Reflect":
		m.Style = engine.RoamReflect
		if m.Initial, err = directionField(body, "initial_direction", p); err != nil {
			return nil, err
		}
		hv, err := field(body, "movement_handling", p)
		if err != nil {
			return nil, err
		}
		h, _, err := variant(hv, join(p, "movement_handling"), "MovementHandling")
		if err != nil {
			return nil, err
		}
		switch h {
		case "Anywhere":
			m.Handling = engine.MoveAnywhere
		case "TryNotToOverlap":
			m.Handling = engine.TryNotToOverlap
		default:
			return nil, fail(join(p, "movement_handling"), "unknown MovementHandling %q", h)
		}
	case "Bounce":
		m.Style = engine.RoamBounce
		if dv := body.Get("initial_direction"); dv.Exists() && dv.Type != gjson.Null {
			d, _, err := variant(dv, join(p, "initial_direction"), "BounceDirection")
			if err != nil {
				return nil, err
			}
			var dir engine.BounceDirection
			switch d {
			case "Left":
				dir = engine.BounceLeft
			case "Right":
				dir = engine.BounceRight
			default:
				return nil, fail(join(p, "initial_direction"), "unknown BounceDirection %q", d)
			}
			m.BounceDir = &dir
		}
	default:
		return nil, fail(mp, "unknown MovementType variant %q", tag)
	}
	return m, nil
}

func target(r gjson.Result, path string) (engine.Motion, error) {
	var t engine.Target

	tv, err := field(r, "target", path)
	if err != nil {
		return nil, err
	}
	tp := join(path, "target")
	tag, body, err := variant(tv, tp, "Target")
	if err != nil {
		return nil, err
	}
	switch tag {
	case "Object":
		t.Kind = engine.TargetObject
		if t.Name, err = strField(body, "name", join(tp, tag)); err != nil {
			return nil, err
		}
	case "Mouse":
		t.Kind = engine.TargetMouse
	default:
		return nil, fail(tp, "unknown Target variant %q", tag)
	}

	mv, err := field(r, "target_type", path)
	if err != nil {
		return nil, err
	}
	mode, _, err := variant(mv, join(path, "target_type"), "TargetType")
	if err != nil {
		return nil, err
	}
	switch mode {
	case "Follow":
		t.Mode = engine.TargetFollow
	case "StopWhenReached":
		t.Mode = engine.TargetStopWhenReached
	default:
		return nil, fail(join(path, "target_type"), "unknown TargetType %q", mode)
	}

	if ov := r.Get("offset"); ov.Exists() {
		if t.Offset, err = vec2(ov, join(path, "offset")); err != nil {
			return nil, err
		}
	}
	if t.Speed, err = speedField(r, path); err != nil {
		return nil, err
	}
	return t, nil
}

func directionField(r gjson.Result, key, path string) (engine.Direction, error) {
	v, err := field(r, key, path)
	if err != nil {
		return engine.Direction{}, err
	}
	return direction(v, join(path, key))
}

func direction(r gjson.Result, path string) (engine.Direction, error) {
	tag, body, err := variant(r, path, "MovementDirection")
	if err != nil {
		return engine.Direction{}, err
	}
	p := join(path, tag)

	switch tag {
	case "Angle":
		atag, abody, err := variant(body, p, "Angle")
		if err != nil {
			return engine.Direction{}, err
		}
		switch atag {
		case "Current":
			return engine.Direction{Angle: engine.Angle{Kind: engine.AngleCurrent}}, nil
		case "Degrees":
			d, err := number(abody, join(p, atag))
			if err != nil {
				return engine.Direction{}, err
			}
			return engine.AngleDirection(d), nil
		case "Random":
			lo, err := numberField(abody, "min", join(p, atag))
			if err != nil {
				return engine.Direction{}, err
			}
			hi, err := numberField(abody, "max", join(p, atag))
			if err != nil {
				return engine.Direction{}, err
			}
			return engine.Direction{Angle: engine.Angle{Kind: engine.AngleRandom, Min: lo, Max: hi}}, nil
		}
		return engine.Direction{}, fail(p, "unknown Angle variant %q", atag)

	case "Direction":
		lv, err := field(body, "possible_directions", p)
		if err != nil {
			return engine.Direction{}, err
		}
		lp := join(p, "possible_directions")
		list, err := array(lv, lp)
		if err != nil {
			return engine.Direction{}, err
		}
		// Stored as a set: duplicates collapse, order follows first occurrence.
		seen := make(map[engine.CompassDirection]bool)
		var dirs []engine.CompassDirection
		for i, d := range list {
			dir, err := compass(d, index(lp, i))
			if err != nil {
				return engine.Direction{}, err
			}
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
		return engine.CompassDirections(dirs...), nil
	}
	return engine.Direction{}, fail(path, "unknown MovementDirection variant %q", tag)
}

func compass(r gjson.Result, path string) (engine.CompassDirection, error) {
	s, err := str(r, path)
	if err != nil {
		return 0, err
	}
	names := map[string]engine.CompassDirection{
		"Up":        engine.Up,
		"UpRight":   engine.UpRight,
		"Right":     engine.Right,
		"DownRight": engine.DownRight,
		"Down":      engine.Down,
		"DownLeft":  engine.DownLeft,
		"Left":      engine.Left,
		"UpLeft":    engine.UpLeft,
	}
	d, ok := names[s]
	if !ok {
		return 0, fail(path, "unknown CompassDirection %q", s)
	}
	return d, nil
}
