// wee runs declarative minigame descriptions: headlessly with scripted
// input, in a terminal inspector, or over SSH.
//
// Usage:
//
//	wee list                  - List games in the games directory
//	wee run <game>            - Run a game headlessly and report the outcome
//	wee watch [game]          - Watch a game in the terminal inspector
//	wee validate <files...>   - Decode and validate description files
//	wee convert <in> <out>    - Convert a description between JSON and YAML
//	wee playlist              - Draw a session of games from the catalog
//	wee serve                 - Start SSH server for remote watching
//	wee history [game]        - Show recorded runs
//
// Global flags:
//
//	--config <path>      - Runtime config YAML (default: search ~/.wee, ./configs)
//	--games <dir>        - Directory of game descriptions
//	--seed <value>       - RNG seed for reproducible runs (0 = time based)
//	--difficulty <level> - 1-3 or easy, normal, hard
//	--rate <x>           - Playback rate between 1.0 and 2.0
//	--db <path>          - Run history database (default: ~/.wee/history.db)
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/wee/internal/config"
)

var (
	// Global flags
	flagConfig     string
	flagGames      string
	flagSeed       int64
	flagDifficulty string
	flagRate       float64
	flagDBPath     string
	flagLogLevel   string

	// Resolved in PersistentPreRunE
	runCfg config.RunConfig
	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wee",
	Short: "wee - run declarative minigames",
	Long: `wee loads minigames written as JSON or YAML descriptions and runs them
with the rule engine: objects, triggers, actions, motions and animations
stepped at 60 frames per second.

Available commands:
  list      - Show the games in the games directory
  run       - Run a game headlessly, optionally with a scripted pointer
  watch     - Watch a game live in the terminal
  validate  - Check description files for errors
  convert   - Convert a description between JSON and YAML
  playlist  - Draw a session of games the way the game rotation does
  serve     - Start SSH server for remote watching
  history   - View recorded runs

Examples:
  wee list --games ./games
  wee run reach --seed 42 --script clicks.yaml
  wee watch reach --rate 1.5
  wee validate games/*.json
  wee serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to runtime config YAML")
	rootCmd.PersistentFlags().StringVar(&flagGames, "games", "", "Directory of game descriptions")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty: 1-3, easy, normal or hard")
	rootCmd.PersistentFlags().Float64Var(&flagRate, "rate", 0, "Playback rate (1.0 - 2.0)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(playlistCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
}

// setup loads the runtime config, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return err
	}
	cfg.Normalize()
	runCfg = cfg

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           level,
		Prefix:          "wee",
	})
	logger.Debug("config loaded", "games", cfg.GamesDir, "rate", cfg.PlaybackRate, "difficulty", cfg.Difficulty, "seed", cfg.Seed)
	return nil
}

// applyFlags overrides cfg with the global flags that were set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.RunConfig) error {
	flags := cmd.Flags()
	if flags.Changed("games") {
		cfg.GamesDir = flagGames
	}
	if flags.Changed("seed") {
		cfg.Seed = flagSeed
	}
	if flags.Changed("rate") {
		cfg.PlaybackRate = flagRate
	}
	if flags.Changed("db") {
		cfg.HistoryDB = flagDBPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("difficulty") {
		if err := applyDifficulty(cfg, flagDifficulty); err != nil {
			return err
		}
	}
	return nil
}

// applyDifficulty accepts a level number or a preset name.
func applyDifficulty(cfg *config.RunConfig, value string) error {
	if n, err := strconv.Atoi(value); err == nil {
		if n < config.MinDifficulty || n > config.MaxDifficulty {
			return fmt.Errorf("difficulty %d out of range %d-%d", n, config.MinDifficulty, config.MaxDifficulty)
		}
		cfg.Difficulty = n
		return nil
	}
	if !config.ApplyPreset(cfg, config.DifficultyPreset(value)) {
		return fmt.Errorf("unknown difficulty %q (use 1-3, easy, normal or hard)", value)
	}
	return nil
}

// seedOrNow returns the configured seed, or a time based one.
func seedOrNow() int64 {
	if runCfg.Seed != 0 {
		return runCfg.Seed
	}
	return time.Now().UnixNano()
}
