package schema

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/wee/internal/core"
	"github.com/vovakirdan/wee/internal/engine"
)

const sampleJSON = `{
  "format_version": "0.2",
  "published": true,
  "game_type": "Minigame",
  "objects": [
    {
      "name": "Player",
      "sprite": {"Image": {"name": "player"}},
      "position": {"x": 100, "y": 200},
      "size": {"width": 50, "height": 60},
      "angle": 0,
      "origin": null,
      "collision_area": null,
      "flip": {"horizontal": false, "vertical": true},
      "layer": 2,
      "switch": "On",
      "instructions": [
        {
          "triggers": [{"Time": "Start"}],
          "actions": [
            {"Motion": {"GoStraight": {
              "direction": {"Direction": {"possible_directions": ["Left", "Right", "Left"]}},
              "speed": "Normal"
            }}}
          ]
        },
        {
          "triggers": [{"Collision": {"Object": {"name": "Goal"}}}],
          "actions": ["Win", {"PlaySound": {"name": "ding"}}]
        }
      ]
    },
    {"name": "Goal"}
  ],
  "background": [
    {"sprite": {"Colour": {"r": 1, "g": 1, "b": 1, "a": 1}},
     "area": {"min": {"x": 0, "y": 0}, "max": {"x": 1600, "y": 900}}}
  ],
  "asset_files": {
    "images": {"player": "player.png"},
    "audio": {"ding": "ding.ogg"},
    "music": null,
    "fonts": {}
  },
  "length": {"Seconds": 4.0},
  "intro_text": "Reach!",
  "attribution": ""
}`

const sampleYAML = `
format_version: "0.2"
game_type: BossGame
length: Infinite
objects:
  - name: Ball
    size: {width: 10, height: 10}
    instructions:
      - triggers:
          - Input:
              Mouse:
                over: Anywhere
                interaction:
                  Button:
                    state: Press
        actions:
          - SetProperty:
              Angle:
                Increase: 15
          - Random:
              random_actions:
                - Win
                - Lose
`

func TestParseJSON(t *testing.T) {
	def, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !def.Published || def.Type != engine.Minigame {
		t.Errorf("Unexpected header: published=%v type=%v", def.Published, def.Type)
	}
	if def.Length.Seconds != 4 || def.Length.Infinite {
		t.Errorf("Expected 4 second length, got %+v", def.Length)
	}
	if def.IntroText != "Reach!" {
		t.Errorf("Expected intro text Reach!, got %q", def.IntroText)
	}
	if len(def.Objects) != 2 {
		t.Fatalf("Expected 2 objects, got %d", len(def.Objects))
	}

	p := def.Objects[0]
	if p.Sprite.Image != "player" || p.Layer != 2 || !p.SwitchOn || !p.Flip.Vertical {
		t.Errorf("Unexpected player %+v", p)
	}
	if p.Position != core.V(100, 200) || p.Size != (engine.Size{Width: 50, Height: 60}) {
		t.Errorf("Unexpected player geometry %v %v", p.Position, p.Size)
	}
	if len(p.Rules) != 2 {
		t.Fatalf("Expected 2 rules, got %d", len(p.Rules))
	}

	if _, ok := p.Rules[0].Triggers[0].(engine.AtStart); !ok {
		t.Errorf("Expected AtStart, got %T", p.Rules[0].Triggers[0])
	}
	q, ok := p.Rules[0].Actions[0].(engine.QueueMotion)
	if !ok {
		t.Fatalf("Expected QueueMotion, got %T", p.Rules[0].Actions[0])
	}
	gs, ok := q.Motion.(engine.GoStraight)
	if !ok {
		t.Fatalf("Expected GoStraight, got %T", q.Motion)
	}
	if !gs.Direction.UseCompass || len(gs.Direction.Compass) != 2 {
		t.Errorf("Expected 2 distinct compass directions, got %+v", gs.Direction)
	}
	if gs.Speed != engine.Normal {
		t.Errorf("Expected Normal speed, got %+v", gs.Speed)
	}

	if c, ok := p.Rules[1].Triggers[0].(engine.CollidesWith); !ok || c.Name != "Goal" {
		t.Errorf("Expected collision with Goal, got %#v", p.Rules[1].Triggers[0])
	}
	if _, ok := p.Rules[1].Actions[0].(engine.Win); !ok {
		t.Errorf("Expected Win, got %T", p.Rules[1].Actions[0])
	}
	if s, ok := p.Rules[1].Actions[1].(engine.PlaySound); !ok || s.Name != "ding" {
		t.Errorf("Expected PlaySound ding, got %#v", p.Rules[1].Actions[1])
	}

	g := def.Objects[1]
	want := engine.DefaultObjectSpec("Goal")
	if g.Position != want.Position || g.Size != want.Size || g.Sprite != want.Sprite || g.SwitchOn {
		t.Errorf("Expected defaults for Goal, got %+v", g)
	}

	if len(def.Background) != 1 || def.Background[0].Area.Max != core.V(1600, 900) {
		t.Errorf("Unexpected background %+v", def.Background)
	}
	if def.Assets.Images["player"] != "player.png" || def.Assets.Music != nil {
		t.Errorf("Unexpected assets %+v", def.Assets)
	}
	if problems := Validate(def); len(problems) != 0 {
		t.Errorf("Expected valid description, got %v", problems)
	}
}

func TestParseYAML(t *testing.T) {
	def, err := ParseYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if def.Type != engine.BossGame || !def.Length.Infinite {
		t.Errorf("Expected infinite boss game, got %v %+v", def.Type, def.Length)
	}

	rule := def.Objects[0].Rules[0]
	in, ok := rule.Triggers[0].(engine.MouseInput)
	if !ok {
		t.Fatalf("Expected MouseInput, got %T", rule.Triggers[0])
	}
	if in.Over.Kind != engine.MouseAnywhere || in.Hover || in.State != core.ButtonPress {
		t.Errorf("Unexpected mouse trigger %+v", in)
	}
	if a, ok := rule.Actions[0].(engine.SetAngle); !ok || a.Kind != engine.AngleIncrease || a.Value != 15 {
		t.Errorf("Expected angle increase by 15, got %#v", rule.Actions[0])
	}
	r, ok := rule.Actions[1].(engine.RandomAction)
	if !ok || len(r.Actions) != 2 {
		t.Fatalf("Expected random action with 2 choices, got %#v", rule.Actions[1])
	}
}

func TestVariantsDecode(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		check func(t *testing.T, r engine.Rule)
	}{
		{
			name: "random time",
			doc:  `{"triggers": [{"Time": {"Random": {"start": 10, "end": 20}}}], "actions": []}`,
			check: func(t *testing.T, r engine.Rule) {
				if tr, ok := r.Triggers[0].(engine.AtRandomFrame); !ok || tr.Start != 10 || tr.End != 20 {
					t.Errorf("Expected random frame 10..20, got %#v", r.Triggers[0])
				}
			},
		},
		{
			name: "property check",
			doc:  `{"triggers": [{"CheckProperty": {"name": "A", "check": {"Switch": "SwitchedOn"}}}], "actions": []}`,
			check: func(t *testing.T, r engine.Rule) {
				p, ok := r.Triggers[0].(engine.PropertyIs)
				if !ok || p.Check != engine.CheckSwitch || p.Switch != engine.SwitchedOn {
					t.Errorf("Unexpected check %#v", r.Triggers[0])
				}
			},
		},
		{
			name: "timer check and status",
			doc:  `{"triggers": [{"CheckProperty": {"name": "A", "check": "Timer"}}, {"WinStatus": "HasBeenLost"}], "actions": []}`,
			check: func(t *testing.T, r engine.Rule) {
				if p, ok := r.Triggers[0].(engine.PropertyIs); !ok || p.Check != engine.CheckTimer {
					t.Errorf("Expected timer check, got %#v", r.Triggers[0])
				}
				if s, ok := r.Triggers[1].(engine.StatusIs); !ok || s.Status != engine.HasBeenLost {
					t.Errorf("Expected HasBeenLost, got %#v", r.Triggers[1])
				}
			},
		},
		{
			name: "jump relative",
			doc:  `{"triggers": [], "actions": [{"Motion": {"JumpTo": {"Relative": {"to": "CurrentAngle", "distance": {"x": 0, "y": -50}}}}}]}`,
			check: func(t *testing.T, r engine.Rule) {
				m := r.Actions[0].(engine.QueueMotion).Motion
				j, ok := m.(engine.JumpTo)
				if !ok || j.Kind != engine.JumpRelative || j.Relative != engine.RelativeToAngle || j.Distance != core.V(0, -50) {
					t.Errorf("Unexpected jump %#v", m)
				}
			},
		},
		{
			name: "bounce without direction",
			doc: `{"triggers": [], "actions": [{"Motion": {"Roam": {"movement_type": {"Bounce": {"initial_direction": null}},
				"area": {"min": {"x": 0, "y": 0}, "max": {"x": 100, "y": 100}}, "speed": {"Value": 3}}}}]}`,
			check: func(t *testing.T, r engine.Rule) {
				m := r.Actions[0].(engine.QueueMotion).Motion.(engine.Roam)
				if m.Style != engine.RoamBounce || m.BounceDir != nil || m.Speed != engine.SpeedValue(3) {
					t.Errorf("Unexpected roam %#v", m)
				}
			},
		},
		{
			name: "target with offset",
			doc: `{"triggers": [], "actions": [{"Motion": {"Target": {"target": "Mouse", "target_type": "StopWhenReached",
				"offset": {"x": 5, "y": 0}, "speed": "Fast"}}}]}`,
			check: func(t *testing.T, r engine.Rule) {
				m := r.Actions[0].(engine.QueueMotion).Motion.(engine.Target)
				if m.Kind != engine.TargetMouse || m.Mode != engine.TargetStopWhenReached || m.Offset != core.V(5, 0) {
					t.Errorf("Unexpected target %#v", m)
				}
			},
		},
		{
			name: "grow by percent",
			doc:  `{"triggers": [], "actions": [{"SetProperty": {"Size": {"Grow": {"Percent": {"width": 10, "height": 20}}}}}]}`,
			check: func(t *testing.T, r engine.Rule) {
				s := r.Actions[0].(engine.SetSize)
				if s.Kind != engine.SizeGrow || !s.Percent || s.Size.Height != 20 {
					t.Errorf("Unexpected size setter %#v", s)
				}
			},
		},
		{
			name: "flip and layer",
			doc:  `{"triggers": [], "actions": [{"SetProperty": {"FlipVertical": {"SetFlip": true}}}, {"SetProperty": {"Layer": "Decrease"}}]}`,
			check: func(t *testing.T, r engine.Rule) {
				f := r.Actions[0].(engine.SetFlip)
				if f.Axis != engine.FlipVertical || f.Toggle || !f.Value {
					t.Errorf("Unexpected flip %#v", f)
				}
				if l := r.Actions[1].(engine.SetLayer); l.Kind != engine.LayerDecrease {
					t.Errorf("Unexpected layer %#v", l)
				}
			},
		},
		{
			name: "accelerate and effect",
			doc: `{"triggers": [], "actions": [{"Motion": {"Accelerate": {"SlowDown": {"speed": "Slow"}}}},
				{"Effect": "Freeze"}, "EndEarly"]}`,
			check: func(t *testing.T, r engine.Rule) {
				if _, ok := r.Actions[0].(engine.QueueMotion).Motion.(engine.SlowDown); !ok {
					t.Errorf("Expected SlowDown, got %#v", r.Actions[0])
				}
				if e := r.Actions[1].(engine.SetEffect); e.Effect != engine.EffectFreeze {
					t.Errorf("Expected freeze, got %#v", e)
				}
				if _, ok := r.Actions[2].(engine.EndEarly); !ok {
					t.Errorf("Expected EndEarly, got %T", r.Actions[2])
				}
			},
		},
		{
			name: "draw text and animate",
			doc: `{"triggers": [], "actions": [
				{"DrawText": {"text": "hi", "font": "Main", "colour": {"r": 0, "g": 0, "b": 0, "a": 1}, "resize": "MatchObject", "justify": "Left"}},
				{"Animate": {"animation_type": "PlayOnce", "sprites": [{"Image": {"name": "a"}}, {"Image": {"name": "b"}}], "speed": "VeryFast"}}]}`,
			check: func(t *testing.T, r engine.Rule) {
				d := r.Actions[0].(engine.DrawText)
				if d.Font != "Main" || d.Resize != engine.ResizeMatchObject || d.Justify != engine.JustifyLeft {
					t.Errorf("Unexpected text %#v", d)
				}
				a := r.Actions[1].(engine.Animate)
				if a.Type != engine.AnimationPlayOnce || len(a.Sprites) != 2 || a.Speed != engine.VeryFast {
					t.Errorf("Unexpected animation %#v", a)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{"format_version": "0.2", "objects": [{"name": "A", "instructions": [` + tt.doc + `]}]}`
			def, err := Parse([]byte(doc))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			tt.check(t, def.Objects[0].Rules[0])
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{"unknown action", `{"format_version": "0.2", "objects": [{"name": "A", "instructions": [{"triggers": [], "actions": ["Explode"]}]}]}`,
			"objects[0].instructions[0].actions[0]"},
		{"two keys", `{"format_version": "0.2", "objects": [{"name": "A", "sprite": {"Image": {"name": "a"}, "Colour": {}}}]}`,
			"objects[0].sprite"},
		{"missing name", `{"format_version": "0.2", "objects": [{"layer": 1}]}`, "objects[0]"},
		{"layer range", `{"format_version": "0.2", "objects": [{"name": "A", "layer": 300}]}`, "objects[0].layer"},
		{"negative length", `{"format_version": "0.2", "length": {"Seconds": -1}}`, "length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("Expected DecodeError, got %v", err)
			}
			if de.Path != tt.path {
				t.Errorf("Expected path %s, got %s", tt.path, de.Path)
			}
		})
	}
}

func TestUnsupportedVersion(t *testing.T) {
	_, err := Parse([]byte(`{"format_version": "0.1", "objects": []}`))
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("Expected ErrUnsupportedVersion, got %v", err)
	}

	_, err = Parse([]byte(`{"objects": []}`))
	if err == nil {
		t.Error("Expected error for missing format_version")
	}
	_, err = Parse([]byte(`[1, 2]`))
	if err == nil {
		t.Error("Expected error for non-object document")
	}
}

func TestProbe(t *testing.T) {
	h, err := Probe([]byte(sampleJSON))
	if err != nil {
		t.Fatal(err)
	}
	if h.Objects != 2 || !h.Published || h.GameType != engine.Minigame {
		t.Errorf("Unexpected header %+v", h)
	}
}

func TestValidate(t *testing.T) {
	doc := `{
	  "format_version": "0.2",
	  "objects": [
	    {"name": "A", "sprite": {"Image": {"name": "nope"}}, "instructions": [
	      {"triggers": [{"Collision": {"Object": {"name": "Ghost"}}}, {"Time": {"Random": {"start": 9, "end": 3}}}],
	       "actions": [{"PlaySound": {"name": "boom"}},
	                   {"Random": {"random_actions": [{"DrawText": {"text": "x", "font": "F", "colour": {"r": 0, "g": 0, "b": 0, "a": 1}}}]}},
	                   {"Motion": {"Swap": {"name": "Ghost"}}}]}
	    ]},
	    {"name": "A"},
	    {"name": "", "size": {"width": -1, "height": 5}}
	  ]
	}`
	def, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}

	problems := ValidationErrors(Validate(def))
	for _, code := range []string{
		CodeDuplicateName, CodeEmptyName, CodeUnknownObject, CodeMissingImage,
		CodeMissingSound, CodeMissingFont, CodeInvalidRange, CodeInvalidSize,
	} {
		if !problems.Has(code) {
			t.Errorf("Expected problem %s in %v", code, problems)
		}
	}
	if len(problems) != 9 {
		t.Errorf("Expected 9 problems, got %d: %v", len(problems), problems)
	}
}

func TestValidateNonFiniteSizes(t *testing.T) {
	tests := []struct {
		name string
		size engine.Size
		ok   bool
	}{
		{"finite", engine.Size{Width: 10, Height: 0}, true},
		{"infinite width", engine.Size{Width: math.Inf(1), Height: 10}, false},
		{"nan height", engine.Size{Width: 10, Height: math.NaN()}, false},
		{"negative", engine.Size{Width: -1, Height: 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := engine.DefaultObjectSpec("A")
			obj.Size = tt.size
			setter := engine.DefaultObjectSpec("B")
			setter.Rules = []engine.Rule{{
				Triggers: []engine.Trigger{engine.AtStart{}},
				Actions:  []engine.Action{engine.SetSize{Kind: engine.SizeSetValue, Size: tt.size}},
			}}

			problems := ValidationErrors(Validate(engine.Definition{Objects: []engine.ObjectSpec{obj, setter}}))
			if tt.ok && len(problems) != 0 {
				t.Errorf("Expected no problems, got %v", problems)
			}
			if !tt.ok && (len(problems) != 2 || !problems.Has(CodeInvalidSize)) {
				t.Errorf("Expected two %s problems, got %v", CodeInvalidSize, problems)
			}
		})
	}
}

func TestParseYAMLNonFinite(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code string
	}{
		{"infinite size", "format_version: \"0.2\"\nobjects:\n  - name: A\n    size: {width: .inf, height: 10}\n", CodeInvalidSize},
		{"nan size", "format_version: \"0.2\"\nobjects:\n  - name: A\n    size: {width: 10, height: .nan}\n", CodeInvalidSize},
		{"infinite position", "format_version: \"0.2\"\nobjects:\n  - name: A\n    position: {x: -.inf, y: 10}\n", CodeInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.doc))
			problems, ok := AsValidation(err)
			if !ok {
				t.Fatalf("Expected validation error, got %v", err)
			}
			if !problems.Has(tt.code) {
				t.Errorf("Expected %s, got %v", tt.code, problems)
			}
		})
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "reach.json")
	yamlPath := filepath.Join(dir, "boss.yaml")
	if err := os.WriteFile(jsonPath, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(yamlPath, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(jsonPath); err != nil {
		t.Errorf("Load json failed: %v", err)
	}
	if _, err := Load(yamlPath); err != nil {
		t.Errorf("Load yaml failed: %v", err)
	}
	h, err := LoadHeader(yamlPath)
	if err != nil || h.GameType != engine.BossGame {
		t.Errorf("Unexpected header %+v, err %v", h, err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"format_version": "0.2", "objects": [{"name": "A", "instructions": [
		{"triggers": [{"Collision": {"Object": {"name": "B"}}}], "actions": []}]}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = Load(bad)
	v, ok := AsValidation(err)
	if !ok || !v.Has(CodeUnknownObject) {
		t.Errorf("Expected unknown object validation error, got %v", err)
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.json", true},
		{"a.YAML", true},
		{"a.yml", true},
		{"a.txt", false},
		{"json", false},
	}
	for _, tt := range tests {
		if got := IsSupported(tt.path); got != tt.want {
			t.Errorf("IsSupported(%q): expected %v, got %v", tt.path, tt.want, got)
		}
	}
}

func TestConvertRoundTrip(t *testing.T) {
	out, err := Convert([]byte(sampleYAML), ".yaml", ".json")
	if err != nil {
		t.Fatal(err)
	}
	def, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse of converted document failed: %v", err)
	}
	if def.Type != engine.BossGame || len(def.Objects) != 1 {
		t.Errorf("Unexpected converted definition %+v", def)
	}
}

func TestReplaceText(t *testing.T) {
	doc := `{"format_version": "0.2", "intro_text": "Game {Game}", "objects": [{"name": "A", "instructions": [
	  {"triggers": [], "actions": [
	    {"DrawText": {"text": "Score {Score} Lives {Lives}", "font": "F", "colour": {"r": 0, "g": 0, "b": 0, "a": 1}}},
	    {"Random": {"random_actions": [{"DrawText": {"text": "{Score}!", "font": "F", "colour": {"r": 0, "g": 0, "b": 0, "a": 1}}}]}}
	  ]}]}]}`
	def, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}

	ReplaceText(&def,
		Replacement{Placeholder: "{Score}", Value: "12"},
		Replacement{Placeholder: "{Lives}", Value: "3"},
		Replacement{Placeholder: "{Game}", Value: "7"},
	)

	actions := def.Objects[0].Rules[0].Actions
	if got := actions[0].(engine.DrawText).Text; got != "Score 12 Lives 3" {
		t.Errorf("Expected replaced text, got %q", got)
	}
	inner := actions[1].(engine.RandomAction).Actions[0].(engine.DrawText).Text
	if inner != "12!" {
		t.Errorf("Expected nested text 12!, got %q", inner)
	}
	if def.IntroText != "Game 7" {
		t.Errorf("Expected intro Game 7, got %q", def.IntroText)
	}
}
