package schema

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/wee/internal/engine"
)

// Validation error codes.
const (
	CodeEmptyName     = "EMPTY_NAME"
	CodeDuplicateName = "DUPLICATE_NAME"
	CodeUnknownObject = "UNKNOWN_OBJECT"
	CodeMissingImage  = "MISSING_IMAGE"
	CodeMissingSound  = "MISSING_SOUND"
	CodeMissingFont   = "MISSING_FONT"
	CodeInvalidSize   = "INVALID_SIZE"
	CodeInvalidRange  = "INVALID_RANGE"
	CodeInvalidNumber = "INVALID_NUMBER"
)

// ValidationError describes one problem with a decoded description.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validate checks the references a decoded description makes: object names,
// asset keys and sizes. It returns every problem found, in object order.
func Validate(def engine.Definition) []ValidationError {
	v := validator{
		def:   def,
		names: make(map[string]bool, len(def.Objects)),
	}
	for _, o := range def.Objects {
		if o.Name == "" {
			v.add(CodeEmptyName, "object with empty name")
			continue
		}
		if v.names[o.Name] {
			v.add(CodeDuplicateName, "duplicate object name %q", o.Name)
		}
		v.names[o.Name] = true
	}

	for i, part := range def.Background {
		v.sprite(part.Sprite, fmt.Sprintf("background[%d]", i))
	}
	for _, o := range def.Objects {
		v.object(o)
	}
	return v.problems
}

type validator struct {
	def      engine.Definition
	names    map[string]bool
	problems []ValidationError
}

func (v *validator) add(code, format string, args ...any) {
	v.problems = append(v.problems, ValidationError{Code: code, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) ref(owner, name string) {
	if !v.names[name] {
		v.add(CodeUnknownObject, "%s refers to unknown object %q", owner, name)
	}
}

func (v *validator) sprite(s engine.Sprite, owner string) {
	if !s.IsImage() {
		return
	}
	if _, ok := v.def.Assets.Images[s.Image]; !ok {
		v.add(CodeMissingImage, "%s uses image %q not in asset_files", owner, s.Image)
	}
}

func (v *validator) object(o engine.ObjectSpec) {
	owner := fmt.Sprintf("object %q", o.Name)
	v.sprite(o.Sprite, owner)
	if !validSize(o.Size) {
		v.add(CodeInvalidSize, "%s has invalid size %gx%g", owner, o.Size.Width, o.Size.Height)
	}
	for _, rule := range o.Rules {
		for _, t := range rule.Triggers {
			v.trigger(t, owner)
		}
		for _, a := range rule.Actions {
			v.action(a, owner)
		}
	}
}

// validSize reports whether both extents are finite and not negative.
func validSize(s engine.Size) bool {
	for _, x := range []float64{s.Width, s.Height} {
		if x < 0 || math.IsInf(x, 0) || math.IsNaN(x) {
			return false
		}
	}
	return true
}

func (v *validator) trigger(t engine.Trigger, owner string) {
	switch t := t.(type) {
	case engine.CollidesWith:
		v.ref(owner, t.Name)
	case engine.MouseInput:
		if t.Over.Kind == engine.MouseOverObject {
			v.ref(owner, t.Over.Name)
		}
	case engine.PropertyIs:
		v.ref(owner, t.Name)
		if t.Check == engine.CheckSprite {
			v.sprite(t.Sprite, owner)
		}
	case engine.AtRandomFrame:
		if t.Start > t.End {
			v.add(CodeInvalidRange, "%s has random time range %d..%d", owner, t.Start, t.End)
		}
	}
}

func (v *validator) action(a engine.Action, owner string) {
	switch a := a.(type) {
	case engine.QueueMotion:
		v.motion(a.Motion, owner)
	case engine.PlaySound:
		if _, ok := v.def.Assets.Audio[a.Name]; !ok {
			v.add(CodeMissingSound, "%s plays sound %q not in asset_files", owner, a.Name)
		}
	case engine.SetSprite:
		v.sprite(a.Sprite, owner)
	case engine.SetAngle:
		if a.Kind == engine.AngleMatch || a.Kind == engine.AngleRotateToObject {
			v.ref(owner, a.Name)
		}
	case engine.SetSize:
		if a.Kind == engine.SizeSetValue && !validSize(a.Size) {
			v.add(CodeInvalidSize, "%s sets invalid size %gx%g", owner, a.Size.Width, a.Size.Height)
		}
	case engine.Animate:
		for _, s := range a.Sprites {
			v.sprite(s, owner)
		}
	case engine.DrawText:
		if _, ok := v.def.Assets.Fonts[a.Font]; !ok {
			v.add(CodeMissingFont, "%s draws text in font %q not in asset_files", owner, a.Font)
		}
	case engine.RandomAction:
		for _, inner := range a.Actions {
			v.action(inner, owner)
		}
	}
}

func (v *validator) motion(m engine.Motion, owner string) {
	switch m := m.(type) {
	case engine.JumpTo:
		if m.Kind == engine.JumpObject {
			v.ref(owner, m.Name)
		}
	case engine.Swap:
		v.ref(owner, m.Name)
	case engine.Target:
		if m.Kind == engine.TargetObject {
			v.ref(owner, m.Name)
		}
	}
}

// ValidationErrors is the error Load returns when Validate finds problems.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, p := range e {
		msgs[i] = p.Error()
	}
	return "schema: invalid description: " + strings.Join(msgs, "; ")
}

// Has reports whether any problem carries code.
func (e ValidationErrors) Has(code string) bool {
	for _, p := range e {
		if p.Code == code {
			return true
		}
	}
	return false
}

func joinProblems(problems []ValidationError) error {
	return ValidationErrors(problems)
}

// AsValidation extracts validation problems from an error returned by Load.
func AsValidation(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	ok := errors.As(err, &v)
	return v, ok
}
