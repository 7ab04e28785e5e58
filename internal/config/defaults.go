package config

import (
	_ "embed"
)

//go:embed defaults/wee.yaml
var defaultRunYAML []byte

// DefaultRunConfig returns the hardcoded default configuration.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		PlaybackRate: 1.0,
		Difficulty:   1,
		Seed:         0,
		FPS:          60,
		MaxFrames:    3600, // one minute at 60fps
		LogLevel:     "info",
		Screen: ScreenConfig{
			Width:  1600,
			Height: 900,
		},
		GamesDir: "games",
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultRunYAML
}
