// Package config provides YAML-based runtime configuration loading and
// difficulty presets for the minigame runner.
package config

import "math"

// RunConfig contains the settings a run or watch session starts from.
type RunConfig struct {
	PlaybackRate float64      `yaml:"playback_rate"`
	Difficulty   int          `yaml:"difficulty"`
	Seed         int64        `yaml:"seed"` // 0 = time based
	FPS          int          `yaml:"fps"`
	MaxFrames    int          `yaml:"max_frames"` // cap for infinite games when headless
	LogLevel     string       `yaml:"log_level"`
	Screen       ScreenConfig `yaml:"screen"`
	GamesDir     string       `yaml:"games_dir"`
	HistoryDB    string       `yaml:"history_db"` // empty = ~/.wee/history.db
}

// ScreenConfig is the logical screen size game coordinates are expressed in.
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Bounds on the tunable values.
const (
	MinPlaybackRate = 1.0
	MaxPlaybackRate = 2.0
	MinDifficulty   = 1
	MaxDifficulty   = 3
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// LevelForPreset returns the difficulty level for a preset, or 0 for an
// unknown one.
func LevelForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 1
	case DifficultyNormal:
		return 2
	case DifficultyHard:
		return 3
	default:
		return 0
	}
}

// ApplyPreset sets the difficulty from a preset. Unknown presets are ignored
// and reported as false.
func ApplyPreset(cfg *RunConfig, preset DifficultyPreset) bool {
	level := LevelForPreset(preset)
	if level == 0 {
		return false
	}
	cfg.Difficulty = level
	return true
}

// Normalize fills zero values from the defaults and clamps values into
// their supported ranges.
func (c *RunConfig) Normalize() {
	def := DefaultRunConfig()
	if c.PlaybackRate == 0 || math.IsNaN(c.PlaybackRate) {
		c.PlaybackRate = def.PlaybackRate
	}
	c.PlaybackRate = clampF(c.PlaybackRate, MinPlaybackRate, MaxPlaybackRate)

	if c.Difficulty == 0 {
		c.Difficulty = def.Difficulty
	}
	c.Difficulty = clamp(c.Difficulty, MinDifficulty, MaxDifficulty)

	if c.FPS <= 0 {
		c.FPS = def.FPS
	}
	if c.MaxFrames <= 0 {
		c.MaxFrames = def.MaxFrames
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		c.Screen = def.Screen
	}
	if c.GamesDir == "" {
		c.GamesDir = def.GamesDir
	}
}

// clampF restricts a float64 to [lo, hi].
func clampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
