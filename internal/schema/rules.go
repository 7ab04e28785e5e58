package schema

import (
	"math"

	"github.com/tidwall/gjson"

	"github.com/vovakirdan/wee/internal/core"
	"github.com/vovakirdan/wee/internal/engine"
)

func trigger(r gjson.Result, path string) (engine.Trigger, error) {
	tag, body, err := variant(r, path, "Trigger")
	if err != nil {
		return nil, err
	}
	p := join(path, tag)

	switch tag {
	case "Time":
		return when(body, p)

	case "Collision":
		wtag, wbody, err := variant(body, p, "CollisionWith")
		if err != nil {
			return nil, err
		}
		switch wtag {
		case "Object":
			name, err := strField(wbody, "name", join(p, wtag))
			if err != nil {
				return nil, err
			}
			return engine.CollidesWith{Name: name}, nil
		case "Area":
			area, err := aabb(wbody, join(p, wtag))
			if err != nil {
				return nil, err
			}
			return engine.CollidesWithArea{Area: area}, nil
		}
		return nil, fail(p, "unknown CollisionWith variant %q", wtag)

	case "Input":
		itag, ibody, err := variant(body, p, "Input")
		if err != nil {
			return nil, err
		}
		if itag != "Mouse" {
			return nil, fail(p, "unknown Input variant %q", itag)
		}
		return mouseInput(ibody, join(p, itag))

	case "WinStatus":
		status, err := winStatus(body, p)
		if err != nil {
			return nil, err
		}
		return engine.StatusIs{Status: status}, nil

	case "Random":
		chance, err := numberField(body, "chance", p)
		if err != nil {
			return nil, err
		}
		return engine.RandomChance{Chance: chance}, nil

	case "CheckProperty":
		return propertyCheck(body, p)

	case "DifficultyLevel":
		level, err := countField(body, "level", p)
		if err != nil {
			return nil, err
		}
		return engine.DifficultyIs{Level: level}, nil
	}
	return nil, fail(path, "unknown Trigger variant %q", tag)
}

func when(r gjson.Result, path string) (engine.Trigger, error) {
	tag, body, err := variant(r, path, "When")
	if err != nil {
		return nil, err
	}
	p := join(path, tag)
	switch tag {
	case "Start":
		return engine.AtStart{}, nil
	case "End":
		return engine.AtEnd{}, nil
	case "Exact":
		frame, err := countField(body, "time", p)
		if err != nil {
			return nil, err
		}
		return engine.AtFrame{Frame: frame}, nil
	case "Random":
		start, err := countField(body, "start", p)
		if err != nil {
			return nil, err
		}
		end, err := countField(body, "end", p)
		if err != nil {
			return nil, err
		}
		return engine.AtRandomFrame{Start: start, End: end}, nil
	}
	return nil, fail(path, "unknown When variant %q", tag)
}

func mouseInput(r gjson.Result, path string) (engine.Trigger, error) {
	var in engine.MouseInput

	ov, err := field(r, "over", path)
	if err != nil {
		return nil, err
	}
	op := join(path, "over")
	otag, obody, err := variant(ov, op, "MouseOver")
	if err != nil {
		return nil, err
	}
	switch otag {
	case "Anywhere":
		in.Over = engine.MouseRegion{Kind: engine.MouseAnywhere}
	case "Object":
		name, err := strField(obody, "name", join(op, otag))
		if err != nil {
			return nil, err
		}
		in.Over = engine.MouseRegion{Kind: engine.MouseOverObject, Name: name}
	case "Area":
		area, err := aabb(obody, join(op, otag))
		if err != nil {
			return nil, err
		}
		in.Over = engine.MouseRegion{Kind: engine.MouseOverArea, Area: area}
	default:
		return nil, fail(op, "unknown MouseOver variant %q", otag)
	}

	iv, err := field(r, "interaction", path)
	if err != nil {
		return nil, err
	}
	ip := join(path, "interaction")
	itag, ibody, err := variant(iv, ip, "MouseInteraction")
	if err != nil {
		return nil, err
	}
	switch itag {
	case "Hover":
		in.Hover = true
	case "Button":
		s, err := strField(ibody, "state", join(ip, itag))
		if err != nil {
			return nil, err
		}
		state, ok := core.ParseButtonState(s)
		if !ok {
			return nil, fail(join(ip, itag), "unknown ButtonState %q", s)
		}
		in.State = state
	default:
		return nil, fail(ip, "unknown MouseInteraction variant %q", itag)
	}
	return in, nil
}

func winStatus(r gjson.Result, path string) (engine.WinStatus, error) {
	tag, _, err := variant(r, path, "WinStatus")
	if err != nil {
		return 0, err
	}
	switch tag {
	case "Won":
		return engine.Won, nil
	case "Lost":
		return engine.Lost, nil
	case "HasBeenWon":
		return engine.HasBeenWon, nil
	case "HasBeenLost":
		return engine.HasBeenLost, nil
	case "NotYetWon":
		return engine.NotYetWon, nil
	case "NotYetLost":
		return engine.NotYetLost, nil
	}
	return 0, fail(path, "unknown WinStatus %q", tag)
}

func switchState(r gjson.Result, path string) (engine.SwitchState, error) {
	tag, _, err := variant(r, path, "SwitchState")
	if err != nil {
		return 0, err
	}
	switch tag {
	case "On":
		return engine.SwitchOn, nil
	case "Off":
		return engine.SwitchOff, nil
	case "SwitchedOn":
		return engine.SwitchedOn, nil
	case "SwitchedOff":
		return engine.SwitchedOff, nil
	}
	return 0, fail(path, "unknown SwitchState %q", tag)
}

func propertyCheck(r gjson.Result, path string) (engine.Trigger, error) {
	name, err := strField(r, "name", path)
	if err != nil {
		return nil, err
	}
	cv, err := field(r, "check", path)
	if err != nil {
		return nil, err
	}
	cp := join(path, "check")
	tag, body, err := variant(cv, cp, "PropertyCheck")
	if err != nil {
		return nil, err
	}
	check := engine.PropertyIs{Name: name}
	switch tag {
	case "Switch":
		check.Check = engine.CheckSwitch
		if check.Switch, err = switchState(body, join(cp, tag)); err != nil {
			return nil, err
		}
	case "Sprite":
		check.Check = engine.CheckSprite
		if check.Sprite, err = sprite(body, join(cp, tag)); err != nil {
			return nil, err
		}
	case "FinishedAnimation":
		check.Check = engine.CheckFinishedAnimation
	case "Timer":
		check.Check = engine.CheckTimer
	default:
		return nil, fail(cp, "unknown PropertyCheck variant %q", tag)
	}
	return check, nil
}

func action(r gjson.Result, path string) (engine.Action, error) {
	tag, body, err := variant(r, path, "Action")
	if err != nil {
		return nil, err
	}
	p := join(path, tag)

	switch tag {
	case "Win":
		return engine.Win{}, nil
	case "Lose":
		return engine.Lose{}, nil
	case "StopMusic":
		return engine.StopMusic{}, nil
	case "EndEarly":
		return engine.EndEarly{}, nil

	case "Effect":
		etag, _, err := variant(body, p, "Effect")
		if err != nil {
			return nil, err
		}
		switch etag {
		case "Freeze":
			return engine.SetEffect{Effect: engine.EffectFreeze}, nil
		case "None":
			return engine.SetEffect{Effect: engine.EffectNone}, nil
		}
		return nil, fail(p, "unknown Effect %q", etag)

	case "Motion":
		m, err := motion(body, p)
		if err != nil {
			return nil, err
		}
		return engine.QueueMotion{Motion: m}, nil

	case "PlaySound":
		name, err := strField(body, "name", p)
		if err != nil {
			return nil, err
		}
		return engine.PlaySound{Name: name}, nil

	case "SetProperty":
		return propertySetter(body, p)

	case "Animate":
		return animate(body, p)

	case "DrawText":
		return drawText(body, p)

	case "Random":
		lv, err := field(body, "random_actions", p)
		if err != nil {
			return nil, err
		}
		lp := join(p, "random_actions")
		list, err := array(lv, lp)
		if err != nil {
			return nil, err
		}
		out := engine.RandomAction{}
		for i, a := range list {
			act, err := action(a, index(lp, i))
			if err != nil {
				return nil, err
			}
			out.Actions = append(out.Actions, act)
		}
		return out, nil
	}
	return nil, fail(path, "unknown Action variant %q", tag)
}

func animate(r gjson.Result, path string) (engine.Action, error) {
	tv, err := field(r, "animation_type", path)
	if err != nil {
		return nil, err
	}
	ttag, _, err := variant(tv, join(path, "animation_type"), "AnimationType")
	if err != nil {
		return nil, err
	}
	var a engine.Animate
	switch ttag {
	case "Loop":
		a.Type = engine.AnimationLoop
	case "PlayOnce":
		a.Type = engine.AnimationPlayOnce
	default:
		return nil, fail(join(path, "animation_type"), "unknown AnimationType %q", ttag)
	}

	sv, err := field(r, "sprites", path)
	if err != nil {
		return nil, err
	}
	list, err := array(sv, join(path, "sprites"))
	if err != nil {
		return nil, err
	}
	for i, s := range list {
		sp, err := sprite(s, index(join(path, "sprites"), i))
		if err != nil {
			return nil, err
		}
		a.Sprites = append(a.Sprites, sp)
	}

	if a.Speed, err = speedField(r, path); err != nil {
		return nil, err
	}
	return a, nil
}

func drawText(r gjson.Result, path string) (engine.Action, error) {
	var d engine.DrawText
	var err error
	if d.Text, err = strField(r, "text", path); err != nil {
		return nil, err
	}
	if d.Font, err = strField(r, "font", path); err != nil {
		return nil, err
	}
	cv, err := field(r, "colour", path)
	if err != nil {
		return nil, err
	}
	if d.Colour, err = colour(cv, join(path, "colour")); err != nil {
		return nil, err
	}

	if rv := r.Get("resize"); rv.Exists() {
		tag, _, err := variant(rv, join(path, "resize"), "TextResize")
		if err != nil {
			return nil, err
		}
		switch tag {
		case "MatchText":
			d.Resize = engine.ResizeMatchText
		case "MatchObject":
			d.Resize = engine.ResizeMatchObject
		default:
			return nil, fail(join(path, "resize"), "unknown TextResize %q", tag)
		}
	}
	if jv := r.Get("justify"); jv.Exists() {
		tag, _, err := variant(jv, join(path, "justify"), "JustifyText")
		if err != nil {
			return nil, err
		}
		switch tag {
		case "Centre":
			d.Justify = engine.JustifyCentre
		case "Left":
			d.Justify = engine.JustifyLeft
		default:
			return nil, fail(join(path, "justify"), "unknown JustifyText %q", tag)
		}
	}
	return d, nil
}

func propertySetter(r gjson.Result, path string) (engine.Action, error) {
	tag, body, err := variant(r, path, "PropertySetter")
	if err != nil {
		return nil, err
	}
	p := join(path, tag)

	switch tag {
	case "Sprite":
		s, err := sprite(body, p)
		if err != nil {
			return nil, err
		}
		return engine.SetSprite{Sprite: s}, nil

	case "Angle":
		return angleSetter(body, p)

	case "Size":
		return sizeSetter(body, p)

	case "Switch":
		on, err := onOff(body, p)
		if err != nil {
			return nil, err
		}
		return engine.SetSwitch{On: on}, nil

	case "Timer":
		frames, err := countField(body, "time", p)
		if err != nil {
			return nil, err
		}
		return engine.SetTimer{Frames: frames}, nil

	case "FlipHorizontal", "FlipVertical":
		axis := engine.FlipHorizontal
		if tag == "FlipVertical" {
			axis = engine.FlipVertical
		}
		ftag, fbody, err := variant(body, p, "FlipSetter")
		if err != nil {
			return nil, err
		}
		switch ftag {
		case "Flip":
			return engine.SetFlip{Axis: axis, Toggle: true}, nil
		case "SetFlip":
			v, err := boolean(fbody, join(p, ftag))
			if err != nil {
				return nil, err
			}
			return engine.SetFlip{Axis: axis, Value: v}, nil
		}
		return nil, fail(p, "unknown FlipSetter variant %q", ftag)

	case "Layer":
		ltag, lbody, err := variant(body, p, "LayerSetter")
		if err != nil {
			return nil, err
		}
		switch ltag {
		case "Increase":
			return engine.SetLayer{Kind: engine.LayerIncrease}, nil
		case "Decrease":
			return engine.SetLayer{Kind: engine.LayerDecrease}, nil
		case "Value":
			v, err := count(lbody, join(p, ltag))
			if err != nil {
				return nil, err
			}
			if v > math.MaxUint8 {
				return nil, fail(join(p, ltag), "layer %d out of range", v)
			}
			return engine.SetLayer{Kind: engine.LayerSetValue, Value: uint8(v)}, nil
		}
		return nil, fail(p, "unknown LayerSetter variant %q", ltag)
	}
	return nil, fail(path, "unknown PropertySetter variant %q", tag)
}

func angleSetter(r gjson.Result, path string) (engine.Action, error) {
	tag, body, err := variant(r, path, "AngleSetter")
	if err != nil {
		return nil, err
	}
	p := join(path, tag)

	switch tag {
	case "Value", "Increase", "Decrease":
		v, err := number(body, p)
		if err != nil {
			return nil, err
		}
		kind := map[string]engine.AngleSetterKind{
			"Value":    engine.AngleSetValue,
			"Increase": engine.AngleIncrease,
			"Decrease": engine.AngleDecrease,
		}[tag]
		return engine.SetAngle{Kind: kind, Value: v}, nil
	case "Match", "RotateToObject":
		name, err := strField(body, "name", p)
		if err != nil {
			return nil, err
		}
		kind := engine.AngleMatch
		if tag == "RotateToObject" {
			kind = engine.AngleRotateToObject
		}
		return engine.SetAngle{Kind: kind, Name: name}, nil
	case "Clamp":
		lo, err := numberField(body, "min", p)
		if err != nil {
			return nil, err
		}
		hi, err := numberField(body, "max", p)
		if err != nil {
			return nil, err
		}
		return engine.SetAngle{Kind: engine.AngleClamp, Min: lo, Max: hi}, nil
	case "RotateToMouse":
		return engine.SetAngle{Kind: engine.AngleRotateToMouse}, nil
	}
	return nil, fail(path, "unknown AngleSetter variant %q", tag)
}

func sizeSetter(r gjson.Result, path string) (engine.Action, error) {
	tag, body, err := variant(r, path, "SizeSetter")
	if err != nil {
		return nil, err
	}
	p := join(path, tag)

	switch tag {
	case "Value":
		s, err := size(body, p)
		if err != nil {
			return nil, err
		}
		return engine.SetSize{Kind: engine.SizeSetValue, Size: s}, nil
	case "Grow", "Shrink":
		kind := engine.SizeGrow
		if tag == "Shrink" {
			kind = engine.SizeShrink
		}
		dtag, dbody, err := variant(body, p, "SizeDifference")
		if err != nil {
			return nil, err
		}
		if dtag != "Value" && dtag != "Percent" {
			return nil, fail(p, "unknown SizeDifference variant %q", dtag)
		}
		s, err := size(dbody, join(p, dtag))
		if err != nil {
			return nil, err
		}
		return engine.SetSize{Kind: kind, Size: s, Percent: dtag == "Percent"}, nil
	case "Clamp":
		minV, err := field(body, "min", p)
		if err != nil {
			return nil, err
		}
		lo, err := size(minV, join(p, "min"))
		if err != nil {
			return nil, err
		}
		maxV, err := field(body, "max", p)
		if err != nil {
			return nil, err
		}
		hi, err := size(maxV, join(p, "max"))
		if err != nil {
			return nil, err
		}
		return engine.SetSize{Kind: engine.SizeClamp, Min: lo, Max: hi}, nil
	}
	return nil, fail(path, "unknown SizeSetter variant %q", tag)
}
