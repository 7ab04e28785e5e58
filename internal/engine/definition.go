package engine

import "github.com/vovakirdan/wee/internal/core"

// GameType tags how the meta-game treats a game.
type GameType int

const (
	Minigame GameType = iota
	BossGame
	OtherGame
)

func (t GameType) String() string {
	switch t {
	case Minigame:
		return "Minigame"
	case BossGame:
		return "BossGame"
	case OtherGame:
		return "Other"
	}
	return "Unknown"
}

// Length is a game duration in seconds, or infinite.
type Length struct {
	Seconds  float64
	Infinite bool
}

// Frames converts the length into a frame budget at FPS.
func (l Length) Frames() FrameCount {
	if l.Infinite {
		return FrameCount{Infinite: true}
	}
	if l.Seconds <= 0 {
		return FrameCount{}
	}
	return FrameCount{Frames: int(l.Seconds * FPS)}
}

// BackgroundPart is a sprite stretched over a world-space rectangle.
type BackgroundPart struct {
	Sprite Sprite
	Area   core.AABB
}

// Music is the optional looped background track.
type Music struct {
	Filename string
	Looped   bool
}

// FontInfo names a font file and its point size.
type FontInfo struct {
	Filename string
	Size     float64
}

// AssetFiles is the manifest the loading collaborator resolves. The engine
// only uses the keys.
type AssetFiles struct {
	Images map[string]string
	Audio  map[string]string
	Music  *Music
	Fonts  map[string]FontInfo
}

// Definition is a fully parsed game description.
type Definition struct {
	FormatVersion string
	Published     bool
	Type          GameType
	Objects       []ObjectSpec
	Background    []BackgroundPart
	Assets        AssetFiles
	Length        Length
	IntroText     string
	Attribution   string
}
