// Package engine implements the minigame rule engine: the object table,
// trigger evaluation, action application, motion and animation state
// machines, and the per-frame status transition.
//
// The engine contains pure logic with no I/O. Asset loading, drawing,
// audio playback and input polling are done by the caller, which feeds a
// core.Mouse into Game.Update and consumes the StepResult.
package engine

import (
	"math"

	"github.com/vovakirdan/wee/internal/core"
)

// FPS is the simulation rate game lengths are expressed in.
const FPS = 60

// SpeedTier is one of the named speed presets.
type SpeedTier int

const (
	SpeedCustom SpeedTier = iota
	SpeedVerySlow
	SpeedSlow
	SpeedNormal
	SpeedFast
	SpeedVeryFast
)

// Speed is either a named tier or an explicit value.
// For motion the value is pixels per frame; for animation it is frames per sprite.
type Speed struct {
	Tier  SpeedTier
	Value float64 // used when Tier is SpeedCustom
}

// Tier constructors.
var (
	VerySlow = Speed{Tier: SpeedVerySlow}
	Slow     = Speed{Tier: SpeedSlow}
	Normal   = Speed{Tier: SpeedNormal}
	Fast     = Speed{Tier: SpeedFast}
	VeryFast = Speed{Tier: SpeedVeryFast}
)

// SpeedValue builds an explicit speed.
func SpeedValue(v float64) Speed {
	return Speed{Tier: SpeedCustom, Value: v}
}

// PixelsPerFrame returns the movement magnitude of the speed.
func (s Speed) PixelsPerFrame() float64 {
	switch s.Tier {
	case SpeedVerySlow:
		return 4
	case SpeedSlow:
		return 8
	case SpeedNormal:
		return 12
	case SpeedFast:
		return 16
	case SpeedVeryFast:
		return 20
	}
	return s.Value
}

// AnimationFrames returns how many frames each sprite of an animation is held.
func (s Speed) AnimationFrames() int {
	switch s.Tier {
	case SpeedVerySlow:
		return 32
	case SpeedSlow:
		return 16
	case SpeedNormal:
		return 8
	case SpeedFast:
		return 4
	case SpeedVeryFast:
		return 2
	}
	if s.Value <= 0 || math.IsNaN(s.Value) {
		return 0
	}
	return int(s.Value)
}

// Sprite is either a named image or a flat colour.
type Sprite struct {
	Image  string      // image key; empty for colour sprites
	Colour core.Colour // used when Image is empty
}

// ImageSprite refers to an image from the asset manifest.
func ImageSprite(name string) Sprite {
	return Sprite{Image: name}
}

// ColourSprite is a flat coloured rectangle.
func ColourSprite(c core.Colour) Sprite {
	return Sprite{Colour: c}
}

// IsImage reports whether the sprite refers to an image.
func (s Sprite) IsImage() bool {
	return s.Image != ""
}

// Size is an object's width and height in logical units.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Flip holds the mirror flags of an object.
type Flip struct {
	Horizontal bool `json:"horizontal" yaml:"horizontal"`
	Vertical   bool `json:"vertical" yaml:"vertical"`
}

// SwitchState is the four-valued object switch. SwitchedOn and SwitchedOff
// last for one frame before settling to On and Off.
type SwitchState int

const (
	SwitchOff SwitchState = iota
	SwitchOn
	SwitchedOn
	SwitchedOff
)

func (s SwitchState) String() string {
	switch s {
	case SwitchOff:
		return "Off"
	case SwitchOn:
		return "On"
	case SwitchedOn:
		return "SwitchedOn"
	case SwitchedOff:
		return "SwitchedOff"
	}
	return "Unknown"
}

// WinStatus is the six-valued game outcome vocabulary.
type WinStatus int

const (
	NotYetWon WinStatus = iota
	NotYetLost
	HasBeenWon
	HasBeenLost
	Won
	Lost
)

func (w WinStatus) String() string {
	switch w {
	case NotYetWon:
		return "NotYetWon"
	case NotYetLost:
		return "NotYetLost"
	case HasBeenWon:
		return "HasBeenWon"
	case HasBeenLost:
		return "HasBeenLost"
	case Won:
		return "Won"
	case Lost:
		return "Lost"
	}
	return "Unknown"
}

// Matches reports whether the current status satisfies a status check.
// Won and Lost also match their pending forms; NotYetWon matches any status
// that has not locked in a win, and NotYetLost any that has not locked in a loss.
func (w WinStatus) Matches(current WinStatus) bool {
	switch w {
	case Won:
		return current == Won || current == HasBeenWon
	case Lost:
		return current == Lost || current == HasBeenLost
	case NotYetLost:
		return current != Lost && current != HasBeenLost
	case NotYetWon:
		return current != Won && current != HasBeenWon
	}
	return current == w
}

// Effect is the simulation-wide effect set by actions.
type Effect int

const (
	EffectNone Effect = iota
	EffectFreeze
)

// CompassDirection is one of the eight movement directions.
type CompassDirection int

const (
	Up CompassDirection = iota
	UpRight
	Right
	DownRight
	Down
	DownLeft
	Left
	UpLeft
)

// AllDirections lists every compass direction clockwise from Up.
var AllDirections = []CompassDirection{Up, UpRight, Right, DownRight, Down, DownLeft, Left, UpLeft}

// Angle returns the direction in degrees, 0 being up and increasing clockwise.
func (d CompassDirection) Angle() float64 {
	return float64(d) * 45
}

// VectorFromAngle converts an engine angle (0 = up, clockwise) and a
// magnitude into a velocity.
func VectorFromAngle(degrees, speed float64) core.Vec2 {
	rad := (degrees - 90) * math.Pi / 180
	return core.V(speed*math.Cos(rad), speed*math.Sin(rad))
}

// AngleKind selects how an Angle is resolved.
type AngleKind int

const (
	AngleCurrent AngleKind = iota
	AngleDegrees
	AngleRandom
)

// Angle is a direction given as the object's current angle, a fixed value,
// or a random value in [Min, Max).
type Angle struct {
	Kind     AngleKind
	Degrees  float64
	Min, Max float64
}

// Direction is either an Angle or a uniformly chosen compass direction.
// An empty Compass list means all eight directions.
type Direction struct {
	UseCompass bool
	Angle      Angle
	Compass    []CompassDirection
}

// AngleDirection builds a fixed-angle direction.
func AngleDirection(degrees float64) Direction {
	return Direction{Angle: Angle{Kind: AngleDegrees, Degrees: degrees}}
}

// CompassDirections builds a direction chosen from the given set.
func CompassDirections(dirs ...CompassDirection) Direction {
	return Direction{UseCompass: true, Compass: dirs}
}
