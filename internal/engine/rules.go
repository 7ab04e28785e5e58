package engine

import "github.com/vovakirdan/wee/internal/core"

// Rule is a conjunction of triggers plus the actions run when all of them
// hold in the same frame.
type Rule struct {
	Triggers []Trigger
	Actions  []Action
}

// Trigger is a condition checked once per frame for the owning object.
type Trigger interface {
	isTrigger()
}

// AtStart holds on the first frame.
type AtStart struct{}

// AtEnd holds on the last frame of a finite game.
type AtEnd struct{}

// AtFrame holds on exactly one frame number.
type AtFrame struct {
	Frame int
}

// AtRandomFrame is resolved into an AtFrame in [Start, End] when the game is
// created. Left unresolved it never holds.
type AtRandomFrame struct {
	Start, End int
}

// CollidesWith holds while the owner's polygon overlaps another object's.
type CollidesWith struct {
	Name string
}

// CollidesWithArea holds while the owner's polygon overlaps a fixed area.
type CollidesWithArea struct {
	Area core.AABB
}

// StatusIs holds when the current win/lose status matches Status.
type StatusIs struct {
	Status WinStatus
}

// MouseRegionKind selects what area a mouse trigger is scoped to.
type MouseRegionKind int

const (
	MouseAnywhere MouseRegionKind = iota
	MouseOverObject
	MouseOverArea
)

// MouseRegion scopes a mouse trigger.
type MouseRegion struct {
	Kind MouseRegionKind
	Name string    // MouseOverObject
	Area core.AABB // MouseOverArea
}

// MouseInput holds when the pointer is within Over and, unless Hover is set,
// the button is in State.
type MouseInput struct {
	Over  MouseRegion
	Hover bool
	State core.ButtonState
}

// CheckKind selects what PropertyIs inspects.
type CheckKind int

const (
	CheckSwitch CheckKind = iota
	CheckSprite
	CheckFinishedAnimation
	CheckTimer
)

// PropertyIs holds when a property of the named object matches.
type PropertyIs struct {
	Name   string
	Check  CheckKind
	Switch SwitchState // CheckSwitch
	Sprite Sprite      // CheckSprite
}

// RandomChance holds with probability Chance, rolled every frame.
type RandomChance struct {
	Chance float64
}

// DifficultyIs holds when the game's difficulty equals Level.
type DifficultyIs struct {
	Level int
}

func (AtStart) isTrigger()          {}
func (AtEnd) isTrigger()            {}
func (AtFrame) isTrigger()          {}
func (AtRandomFrame) isTrigger()    {}
func (CollidesWith) isTrigger()     {}
func (CollidesWithArea) isTrigger() {}
func (StatusIs) isTrigger()         {}
func (MouseInput) isTrigger()       {}
func (PropertyIs) isTrigger()       {}
func (RandomChance) isTrigger()     {}
func (DifficultyIs) isTrigger()     {}

// Action is one step executed when a rule fires.
type Action interface {
	isAction()
}

// Win declares the game won unless a loss is already pending.
type Win struct{}

// Lose declares the game lost unless a win is already pending.
type Lose struct{}

// SetEffect changes the simulation-wide effect.
type SetEffect struct {
	Effect Effect
}

// QueueMotion appends a motion to the owner's queue for this frame.
type QueueMotion struct {
	Motion Motion
}

// PlaySound asks the audio collaborator to play a named sound.
type PlaySound struct {
	Name string
}

// StopMusic asks the audio collaborator to stop the looped music.
type StopMusic struct{}

// SetSprite replaces the sprite and cancels any animation.
type SetSprite struct {
	Sprite Sprite
}

// AngleSetterKind selects how SetAngle computes the new angle.
type AngleSetterKind int

const (
	AngleSetValue AngleSetterKind = iota
	AngleIncrease
	AngleDecrease
	AngleMatch
	AngleClamp
	AngleRotateToObject
	AngleRotateToMouse
)

// SetAngle changes the owner's rotation.
type SetAngle struct {
	Kind     AngleSetterKind
	Value    float64 // AngleSetValue, AngleIncrease, AngleDecrease
	Name     string  // AngleMatch, AngleRotateToObject
	Min, Max float64 // AngleClamp
}

// SizeSetterKind selects how SetSize computes the new size.
type SizeSetterKind int

const (
	SizeSetValue SizeSetterKind = iota
	SizeGrow
	SizeShrink
	SizeClamp
)

// SetSize changes the owner's size and rescales its collision area.
type SetSize struct {
	Kind     SizeSetterKind
	Size     Size // SizeSetValue, or the difference for grow/shrink
	Percent  bool // grow/shrink by percentage of the current size
	Min, Max Size // SizeClamp
}

// SetSwitch turns the owner's switch on or off.
type SetSwitch struct {
	On bool
}

// SetTimer starts a countdown of Frames frames.
type SetTimer struct {
	Frames int
}

// FlipAxis selects which mirror flag SetFlip changes.
type FlipAxis int

const (
	FlipHorizontal FlipAxis = iota
	FlipVertical
)

// SetFlip toggles or sets a mirror flag.
type SetFlip struct {
	Axis   FlipAxis
	Toggle bool
	Value  bool // used when Toggle is false
}

// LayerSetterKind selects how SetLayer computes the new layer.
type LayerSetterKind int

const (
	LayerSetValue LayerSetterKind = iota
	LayerIncrease
	LayerDecrease
)

// SetLayer changes the owner's draw layer.
type SetLayer struct {
	Kind  LayerSetterKind
	Value uint8
}

// AnimationType selects looping or single playback.
type AnimationType int

const (
	AnimationLoop AnimationType = iota
	AnimationPlayOnce
)

// Animate starts a sprite sequence.
type Animate struct {
	Type    AnimationType
	Sprites []Sprite
	Speed   Speed
}

// TextResize is carried through for the rendering collaborator.
type TextResize int

const (
	ResizeMatchText TextResize = iota
	ResizeMatchObject
)

// Justify is the horizontal text alignment.
type Justify int

const (
	JustifyCentre Justify = iota
	JustifyLeft
)

// DrawText attaches text to the owner for the rendering collaborator.
type DrawText struct {
	Text    string
	Font    string
	Colour  core.Colour
	Resize  TextResize
	Justify Justify
}

// RandomAction runs one of Actions chosen uniformly; nothing if empty.
type RandomAction struct {
	Actions []Action
}

// EndEarly ends the game after the current frame.
type EndEarly struct{}

func (Win) isAction()          {}
func (Lose) isAction()         {}
func (SetEffect) isAction()    {}
func (QueueMotion) isAction()  {}
func (PlaySound) isAction()    {}
func (StopMusic) isAction()    {}
func (SetSprite) isAction()    {}
func (SetAngle) isAction()     {}
func (SetSize) isAction()      {}
func (SetSwitch) isAction()    {}
func (SetTimer) isAction()     {}
func (SetFlip) isAction()      {}
func (SetLayer) isAction()     {}
func (Animate) isAction()      {}
func (DrawText) isAction()     {}
func (RandomAction) isAction() {}
func (EndEarly) isAction()     {}

// Motion is a movement request consumed once by the motion engine.
type Motion interface {
	isMotion()
}

// GoStraight moves at a constant velocity.
type GoStraight struct {
	Direction Direction
	Speed     Speed
}

// JumpKind selects the destination of a JumpTo.
type JumpKind int

const (
	JumpPoint JumpKind = iota
	JumpArea
	JumpRelative
	JumpObject
	JumpMouse
	JumpClamp
)

// RelativeTo selects the frame of a relative jump.
type RelativeTo int

const (
	RelativeToPosition RelativeTo = iota
	RelativeToAngle
)

// JumpTo changes position instantly.
type JumpTo struct {
	Kind     JumpKind
	Point    core.Vec2  // JumpPoint
	Area     core.AABB  // JumpArea, JumpClamp
	Relative RelativeTo // JumpRelative
	Distance core.Vec2  // JumpRelative
	Name     string     // JumpObject
}

// RoamStyle selects the movement inside a Roam area.
type RoamStyle int

const (
	RoamWiggle RoamStyle = iota
	RoamInsect
	RoamReflect
	RoamBounce
)

// MovementHandling controls whether reflect roaming steers around objects.
type MovementHandling int

const (
	MoveAnywhere MovementHandling = iota
	TryNotToOverlap
)

// BounceDirection is the horizontal heading of a bounce.
type BounceDirection int

const (
	BounceLeft BounceDirection = iota
	BounceRight
)

// Roam moves within an area.
type Roam struct {
	Style     RoamStyle
	Area      core.AABB
	Speed     Speed
	Initial   Direction        // RoamReflect
	Handling  MovementHandling // RoamReflect
	BounceDir *BounceDirection // RoamBounce; nil means random
}

// Swap exchanges positions with another object.
type Swap struct {
	Name string
}

// TargetKind selects what a Target motion seeks.
type TargetKind int

const (
	TargetObject TargetKind = iota
	TargetMouse
)

// TargetMode selects whether seeking stops on arrival.
type TargetMode int

const (
	TargetFollow TargetMode = iota
	TargetStopWhenReached
)

// Target seeks an object or the pointer.
type Target struct {
	Kind   TargetKind
	Name   string // TargetObject
	Mode   TargetMode
	Offset core.Vec2
	Speed  Speed
}

// Accelerate keeps adding speed/40 per frame in a direction.
type Accelerate struct {
	Direction Direction
	Speed     Speed
}

// SlowDown decelerates the current velocity by speed/40 per frame to a stop.
type SlowDown struct {
	Speed Speed
}

// Stop cancels the active motion.
type Stop struct{}

func (GoStraight) isMotion() {}
func (JumpTo) isMotion()     {}
func (Roam) isMotion()       {}
func (Swap) isMotion()       {}
func (Target) isMotion()     {}
func (Accelerate) isMotion() {}
func (SlowDown) isMotion()   {}
func (Stop) isMotion()       {}
