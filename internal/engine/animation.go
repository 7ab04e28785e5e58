package engine

// AnimationState is the playback phase of an object's animation.
type AnimationState int

const (
	AnimationIdle AnimationState = iota
	AnimationRunning
	AnimationFinished // lasts exactly one frame after a play-once sequence ends
)

// Animation is a sprite sequence with a per-sprite hold time.
type Animation struct {
	State     AnimationState
	Loop      bool
	Index     int
	Sprites   []Sprite
	Speed     Speed
	countdown int
}

// startAnimation begins playback at the first sprite.
func startAnimation(kind AnimationType, sprites []Sprite, speed Speed) Animation {
	seq := make([]Sprite, len(sprites))
	copy(seq, sprites)
	return Animation{
		State:     AnimationRunning,
		Loop:      kind == AnimationLoop,
		Sprites:   seq,
		Speed:     speed,
		countdown: speed.AnimationFrames(),
	}
}

// Update advances playback by one frame and reports the sprite to show when
// it changes.
func (a *Animation) Update() (Sprite, bool) {
	switch a.State {
	case AnimationFinished:
		*a = Animation{}
		return Sprite{}, false
	case AnimationRunning:
	default:
		return Sprite{}, false
	}

	if a.countdown > 0 {
		a.countdown--
		return Sprite{}, false
	}
	if len(a.Sprites) == 0 {
		return Sprite{}, false
	}
	if a.Index == len(a.Sprites)-1 {
		if !a.Loop {
			*a = Animation{State: AnimationFinished}
			return Sprite{}, false
		}
		a.Index = 0
	} else {
		a.Index++
	}
	a.countdown = a.Speed.AnimationFrames()
	return a.Sprites[a.Index], true
}

// Finished reports whether a play-once sequence ended this frame.
func (a *Animation) Finished() bool {
	return a.State == AnimationFinished
}
