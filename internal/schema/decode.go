package schema

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/vovakirdan/wee/internal/core"
	"github.com/vovakirdan/wee/internal/engine"
)

// DecodeError reports a malformed value at a path inside the document.
type DecodeError struct {
	Path    string
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("schema: %s: %s", e.Path, e.Message)
}

func fail(path, format string, args ...any) error {
	return &DecodeError{Path: path, Message: fmt.Sprintf(format, args...)}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

// variant splits an externally tagged value into its tag and body. Unit
// variants have no body.
func variant(r gjson.Result, path, what string) (string, gjson.Result, error) {
	if r.Type == gjson.String {
		return r.Str, gjson.Result{}, nil
	}
	if !r.IsObject() {
		return "", gjson.Result{}, fail(path, "expected %s, got %s", what, describe(r))
	}
	var tag string
	var body gjson.Result
	n := 0
	r.ForEach(func(k, v gjson.Result) bool {
		tag, body = k.Str, v
		n++
		return true
	})
	if n != 1 {
		return "", gjson.Result{}, fail(path, "%s must have exactly one key, got %d", what, n)
	}
	return tag, body, nil
}

func describe(r gjson.Result) string {
	switch {
	case !r.Exists():
		return "nothing"
	case r.IsObject():
		return "object"
	case r.IsArray():
		return "array"
	}
	return r.Type.String()
}

// field returns a required field of an object.
func field(r gjson.Result, key, path string) (gjson.Result, error) {
	if !r.IsObject() {
		return gjson.Result{}, fail(path, "expected object, got %s", describe(r))
	}
	v := r.Get(key)
	if !v.Exists() {
		return gjson.Result{}, fail(path, "missing field %q", key)
	}
	return v, nil
}

func number(r gjson.Result, path string) (float64, error) {
	if r.Type != gjson.Number {
		return 0, fail(path, "expected number, got %s", describe(r))
	}
	if math.IsNaN(r.Num) || math.IsInf(r.Num, 0) {
		return 0, fail(path, "number is not finite")
	}
	return r.Num, nil
}

func numberField(r gjson.Result, key, path string) (float64, error) {
	v, err := field(r, key, path)
	if err != nil {
		return 0, err
	}
	return number(v, join(path, key))
}

// count reads a non-negative integer.
func count(r gjson.Result, path string) (int, error) {
	n, err := number(r, path)
	if err != nil {
		return 0, err
	}
	if n < 0 || n != math.Trunc(n) {
		return 0, fail(path, "expected non-negative integer, got %v", n)
	}
	return int(n), nil
}

func countField(r gjson.Result, key, path string) (int, error) {
	v, err := field(r, key, path)
	if err != nil {
		return 0, err
	}
	return count(v, join(path, key))
}

func str(r gjson.Result, path string) (string, error) {
	if r.Type != gjson.String {
		return "", fail(path, "expected string, got %s", describe(r))
	}
	return r.Str, nil
}

func strField(r gjson.Result, key, path string) (string, error) {
	v, err := field(r, key, path)
	if err != nil {
		return "", err
	}
	return str(v, join(path, key))
}

func boolean(r gjson.Result, path string) (bool, error) {
	if r.Type != gjson.True && r.Type != gjson.False {
		return false, fail(path, "expected bool, got %s", describe(r))
	}
	return r.Bool(), nil
}

func array(r gjson.Result, path string) ([]gjson.Result, error) {
	if !r.IsArray() {
		return nil, fail(path, "expected array, got %s", describe(r))
	}
	return r.Array(), nil
}

func vec2(r gjson.Result, path string) (core.Vec2, error) {
	x, err := numberField(r, "x", path)
	if err != nil {
		return core.Vec2{}, err
	}
	y, err := numberField(r, "y", path)
	if err != nil {
		return core.Vec2{}, err
	}
	return core.V(x, y), nil
}

func aabb(r gjson.Result, path string) (core.AABB, error) {
	minV, err := field(r, "min", path)
	if err != nil {
		return core.AABB{}, err
	}
	maxV, err := field(r, "max", path)
	if err != nil {
		return core.AABB{}, err
	}
	lo, err := vec2(minV, join(path, "min"))
	if err != nil {
		return core.AABB{}, err
	}
	hi, err := vec2(maxV, join(path, "max"))
	if err != nil {
		return core.AABB{}, err
	}
	return core.AABB{Min: lo, Max: hi}, nil
}

func size(r gjson.Result, path string) (engine.Size, error) {
	w, err := numberField(r, "width", path)
	if err != nil {
		return engine.Size{}, err
	}
	h, err := numberField(r, "height", path)
	if err != nil {
		return engine.Size{}, err
	}
	return engine.Size{Width: w, Height: h}, nil
}

func colour(r gjson.Result, path string) (core.Colour, error) {
	var c core.Colour
	for _, ch := range []struct {
		key string
		dst *float64
	}{{"r", &c.R}, {"g", &c.G}, {"b", &c.B}, {"a", &c.A}} {
		v, err := numberField(r, ch.key, path)
		if err != nil {
			return core.Colour{}, err
		}
		*ch.dst = v
	}
	return c, nil
}

func sprite(r gjson.Result, path string) (engine.Sprite, error) {
	tag, body, err := variant(r, path, "Sprite")
	if err != nil {
		return engine.Sprite{}, err
	}
	switch tag {
	case "Image":
		name, err := strField(body, "name", join(path, tag))
		if err != nil {
			return engine.Sprite{}, err
		}
		return engine.ImageSprite(name), nil
	case "Colour":
		c, err := colour(body, join(path, tag))
		if err != nil {
			return engine.Sprite{}, err
		}
		return engine.ColourSprite(c), nil
	}
	return engine.Sprite{}, fail(path, "unknown Sprite variant %q", tag)
}

func speed(r gjson.Result, path string) (engine.Speed, error) {
	tag, body, err := variant(r, path, "Speed")
	if err != nil {
		return engine.Speed{}, err
	}
	switch tag {
	case "VerySlow":
		return engine.VerySlow, nil
	case "Slow":
		return engine.Slow, nil
	case "Normal":
		return engine.Normal, nil
	case "Fast":
		return engine.Fast, nil
	case "VeryFast":
		return engine.VeryFast, nil
	case "Value":
		v, err := number(body, join(path, tag))
		if err != nil {
			return engine.Speed{}, err
		}
		return engine.SpeedValue(v), nil
	}
	return engine.Speed{}, fail(path, "unknown Speed variant %q", tag)
}

func speedField(r gjson.Result, path string) (engine.Speed, error) {
	v, err := field(r, "speed", path)
	if err != nil {
		return engine.Speed{}, err
	}
	return speed(v, join(path, "speed"))
}

func gameType(r gjson.Result, path string) (engine.GameType, error) {
	tag, _, err := variant(r, path, "GameType")
	if err != nil {
		return 0, err
	}
	switch tag {
	case "Minigame":
		return engine.Minigame, nil
	case "BossGame":
		return engine.BossGame, nil
	case "Other":
		return engine.OtherGame, nil
	}
	return 0, fail(path, "unknown GameType %q", tag)
}

func length(r gjson.Result, path string) (engine.Length, error) {
	tag, body, err := variant(r, path, "Length")
	if err != nil {
		return engine.Length{}, err
	}
	switch tag {
	case "Infinite":
		return engine.Length{Infinite: true}, nil
	case "Seconds":
		s, err := number(body, join(path, tag))
		if err != nil {
			return engine.Length{}, err
		}
		if s < 0 {
			return engine.Length{}, fail(path, "length must not be negative")
		}
		return engine.Length{Seconds: s}, nil
	}
	return engine.Length{}, fail(path, "unknown Length variant %q", tag)
}

func onOff(r gjson.Result, path string) (bool, error) {
	tag, _, err := variant(r, path, "Switch")
	if err != nil {
		return false, err
	}
	switch tag {
	case "On":
		return true, nil
	case "Off":
		return false, nil
	}
	return false, fail(path, "unknown Switch %q", tag)
}

func decodeDefinition(root gjson.Result) (engine.Definition, error) {
	def := engine.Definition{
		FormatVersion: root.Get("format_version").String(),
		Length:        engine.Length{Seconds: 4},
	}

	var err error
	if v := root.Get("published"); v.Exists() {
		if def.Published, err = boolean(v, "published"); err != nil {
			return def, err
		}
	}
	if v := root.Get("game_type"); v.Exists() {
		if def.Type, err = gameType(v, "game_type"); err != nil {
			return def, err
		}
	}
	if v := root.Get("length"); v.Exists() {
		if def.Length, err = length(v, "length"); err != nil {
			return def, err
		}
	}
	if v := root.Get("intro_text"); v.Exists() && v.Type != gjson.Null {
		if def.IntroText, err = str(v, "intro_text"); err != nil {
			return def, err
		}
	}
	if v := root.Get("attribution"); v.Exists() {
		if def.Attribution, err = str(v, "attribution"); err != nil {
			return def, err
		}
	}

	if v := root.Get("background"); v.Exists() {
		parts, err := array(v, "background")
		if err != nil {
			return def, err
		}
		for i, p := range parts {
			part, err := backgroundPart(p, index("background", i))
			if err != nil {
				return def, err
			}
			def.Background = append(def.Background, part)
		}
	}

	if v := root.Get("asset_files"); v.Exists() {
		if def.Assets, err = assetFiles(v, "asset_files"); err != nil {
			return def, err
		}
	}

	if v := root.Get("objects"); v.Exists() {
		objs, err := array(v, "objects")
		if err != nil {
			return def, err
		}
		for i, o := range objs {
			obj, err := object(o, index("objects", i))
			if err != nil {
				return def, err
			}
			def.Objects = append(def.Objects, obj)
		}
	}
	return def, nil
}

func backgroundPart(r gjson.Result, path string) (engine.BackgroundPart, error) {
	sv, err := field(r, "sprite", path)
	if err != nil {
		return engine.BackgroundPart{}, err
	}
	s, err := sprite(sv, join(path, "sprite"))
	if err != nil {
		return engine.BackgroundPart{}, err
	}
	av, err := field(r, "area", path)
	if err != nil {
		return engine.BackgroundPart{}, err
	}
	a, err := aabb(av, join(path, "area"))
	if err != nil {
		return engine.BackgroundPart{}, err
	}
	return engine.BackgroundPart{Sprite: s, Area: a}, nil
}

func assetFiles(r gjson.Result, path string) (engine.AssetFiles, error) {
	assets := engine.AssetFiles{
		Images: map[string]string{},
		Audio:  map[string]string{},
		Fonts:  map[string]engine.FontInfo{},
	}
	if !r.IsObject() {
		return assets, fail(path, "expected object, got %s", describe(r))
	}

	for _, m := range []struct {
		key string
		dst map[string]string
	}{{"images", assets.Images}, {"audio", assets.Audio}} {
		v := r.Get(m.key)
		if !v.Exists() {
			continue
		}
		if !v.IsObject() {
			return assets, fail(join(path, m.key), "expected object, got %s", describe(v))
		}
		var err error
		v.ForEach(func(k, file gjson.Result) bool {
			var name string
			name, err = str(file, join(join(path, m.key), k.Str))
			m.dst[k.Str] = name
			return err == nil
		})
		if err != nil {
			return assets, err
		}
	}

	if v := r.Get("fonts"); v.Exists() {
		if !v.IsObject() {
			return assets, fail(join(path, "fonts"), "expected object, got %s", describe(v))
		}
		var err error
		v.ForEach(func(k, font gjson.Result) bool {
			p := join(join(path, "fonts"), k.Str)
			var info engine.FontInfo
			if info.Filename, err = strField(font, "filename", p); err != nil {
				return false
			}
			if info.Size, err = numberField(font, "size", p); err != nil {
				return false
			}
			assets.Fonts[k.Str] = info
			return true
		})
		if err != nil {
			return assets, err
		}
	}

	if v := r.Get("music"); v.Exists() && v.Type != gjson.Null {
		p := join(path, "music")
		filename, err := strField(v, "filename", p)
		if err != nil {
			return assets, err
		}
		looped := false
		if l := v.Get("looped"); l.Exists() {
			if looped, err = boolean(l, join(p, "looped")); err != nil {
				return assets, err
			}
		}
		assets.Music = &engine.Music{Filename: filename, Looped: looped}
	}
	return assets, nil
}

func object(r gjson.Result, path string) (engine.ObjectSpec, error) {
	if !r.IsObject() {
		return engine.ObjectSpec{}, fail(path, "expected object, got %s", describe(r))
	}
	name, err := strField(r, "name", path)
	if err != nil {
		return engine.ObjectSpec{}, err
	}
	obj := engine.DefaultObjectSpec(name)

	if v := r.Get("sprite"); v.Exists() {
		if obj.Sprite, err = sprite(v, join(path, "sprite")); err != nil {
			return obj, err
		}
	}
	if v := r.Get("position"); v.Exists() {
		if obj.Position, err = vec2(v, join(path, "position")); err != nil {
			return obj, err
		}
	}
	if v := r.Get("size"); v.Exists() {
		if obj.Size, err = size(v, join(path, "size")); err != nil {
			return obj, err
		}
	}
	if v := r.Get("angle"); v.Exists() {
		if obj.Angle, err = number(v, join(path, "angle")); err != nil {
			return obj, err
		}
	}
	if v := r.Get("origin"); v.Exists() && v.Type != gjson.Null {
		o, err := vec2(v, join(path, "origin"))
		if err != nil {
			return obj, err
		}
		obj.Origin = &o
	}
	if v := r.Get("collision_area"); v.Exists() && v.Type != gjson.Null {
		a, err := aabb(v, join(path, "collision_area"))
		if err != nil {
			return obj, err
		}
		obj.CollisionArea = &a
	}
	if v := r.Get("flip"); v.Exists() {
		p := join(path, "flip")
		if h := v.Get("horizontal"); h.Exists() {
			if obj.Flip.Horizontal, err = boolean(h, join(p, "horizontal")); err != nil {
				return obj, err
			}
		}
		if vv := v.Get("vertical"); vv.Exists() {
			if obj.Flip.Vertical, err = boolean(vv, join(p, "vertical")); err != nil {
				return obj, err
			}
		}
	}
	if v := r.Get("layer"); v.Exists() {
		layer, err := count(v, join(path, "layer"))
		if err != nil {
			return obj, err
		}
		if layer > math.MaxUint8 {
			return obj, fail(join(path, "layer"), "layer %d out of range", layer)
		}
		obj.Layer = uint8(layer)
	}
	if v := r.Get("switch"); v.Exists() {
		if obj.SwitchOn, err = onOff(v, join(path, "switch")); err != nil {
			return obj, err
		}
	}
	if v := r.Get("instructions"); v.Exists() {
		list, err := array(v, join(path, "instructions"))
		if err != nil {
			return obj, err
		}
		for i, ins := range list {
			rule, err := instruction(ins, index(join(path, "instructions"), i))
			if err != nil {
				return obj, err
			}
			obj.Rules = append(obj.Rules, rule)
		}
	}
	return obj, nil
}

func instruction(r gjson.Result, path string) (engine.Rule, error) {
	var rule engine.Rule
	tv, err := field(r, "triggers", path)
	if err != nil {
		return rule, err
	}
	triggers, err := array(tv, join(path, "triggers"))
	if err != nil {
		return rule, err
	}
	for i, t := range triggers {
		trig, err := trigger(t, index(join(path, "triggers"), i))
		if err != nil {
			return rule, err
		}
		rule.Triggers = append(rule.Triggers, trig)
	}

	av, err := field(r, "actions", path)
	if err != nil {
		return rule, err
	}
	actions, err := array(av, join(path, "actions"))
	if err != nil {
		return rule, err
	}
	for i, a := range actions {
		act, err := action(a, index(join(path, "actions"), i))
		if err != nil {
			return rule, err
		}
		rule.Actions = append(rule.Actions, act)
	}
	return rule, nil
}
