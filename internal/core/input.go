package core

// ButtonState is the state of the primary pointer button for one frame.
type ButtonState int

const (
	ButtonUp      ButtonState = iota // not held
	ButtonDown                       // held since an earlier frame
	ButtonPress                      // went down this frame
	ButtonRelease                    // went up this frame
)

// String returns a human-readable name for the state.
func (b ButtonState) String() string {
	switch b {
	case ButtonUp:
		return "Up"
	case ButtonDown:
		return "Down"
	case ButtonPress:
		return "Press"
	case ButtonRelease:
		return "Release"
	default:
		return "Unknown"
	}
}

// ParseButtonState maps a name as written in game files or input scripts.
func ParseButtonState(s string) (ButtonState, bool) {
	switch s {
	case "Up", "up":
		return ButtonUp, true
	case "Down", "down":
		return ButtonDown, true
	case "Press", "press":
		return ButtonPress, true
	case "Release", "release":
		return ButtonRelease, true
	}
	return ButtonUp, false
}

// Settle returns the state the button decays to on the next frame when no
// new edge arrives: a press becomes held, a release becomes up.
func (b ButtonState) Settle() ButtonState {
	switch b {
	case ButtonPress:
		return ButtonDown
	case ButtonRelease:
		return ButtonUp
	}
	return b
}

// Mouse is the pointer input for a single simulation frame.
type Mouse struct {
	Position Vec2 // logical coordinates
	State    ButtonState
}

// NextState computes the button state for a frame given whether the physical
// button is held now and the previous frame's state.
func NextState(prev ButtonState, held bool) ButtonState {
	wasHeld := prev == ButtonDown || prev == ButtonPress
	switch {
	case held && !wasHeld:
		return ButtonPress
	case held:
		return ButtonDown
	case wasHeld:
		return ButtonRelease
	default:
		return ButtonUp
	}
}
