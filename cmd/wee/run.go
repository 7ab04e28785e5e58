package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wee/internal/engine"
	"github.com/vovakirdan/wee/internal/runner"
	"github.com/vovakirdan/wee/internal/schema"
	"github.com/vovakirdan/wee/internal/storage"
)

var (
	flagScript    string
	flagRecord    bool
	flagText      []string
	flagMaxFrames int
)

var runCmd = &cobra.Command{
	Use:   "run <game>",
	Short: "Run a game headlessly",
	Long: `Run a game without a display and print how it ended.

The game is a catalog id from the games directory or a path to a
description file. Pointer input comes from an optional YAML script:

  - frame: 0
    x: 800
    y: 450
  - frame: 30
    button: press

Press and release last one frame; position and button hold between events.
Infinite games stop after max_frames frames.

Examples:
  wee run reach
  wee run ./games/reach.yaml --seed 42 --script clicks.yaml
  wee run boss --rate 2 --max-frames 600
  wee run intro --text "{name}=Ada" --record`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagScript, "script", "", "Path to pointer input script YAML")
	runCmd.Flags().BoolVar(&flagRecord, "record", false, "Record the run in the history database")
	runCmd.Flags().StringArrayVar(&flagText, "text", nil, "Text replacement placeholder=value (repeatable)")
	runCmd.Flags().IntVar(&flagMaxFrames, "max-frames", 0, "Frame cap for infinite games (default from config)")
}

func runRun(cmd *cobra.Command, args []string) {
	entry, def, err := openGame(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	replacements, err := parseReplacements(flagText)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	schema.ReplaceText(&def, replacements...)

	var script *runner.Script
	if flagScript != "" {
		if script, err = runner.LoadScript(flagScript); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	seed := seedOrNow()
	game, err := engine.NewGame(def, engine.Options{
		Difficulty: runCfg.Difficulty,
		Rand:       engine.NewRand(seed),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	maxFrames := runCfg.MaxFrames
	if cmd.Flags().Changed("max-frames") {
		maxFrames = flagMaxFrames
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := runner.New(runner.Options{
		PlaybackRate: runCfg.PlaybackRate,
		MaxFrames:    maxFrames,
		Logger:       logger.With("game", entry.ID),
	})
	res, runErr := r.Run(ctx, game, script)

	if flagRecord {
		record(entry.ID, seed, res)
	}
	printResult(entry.ID, seed, res)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

func record(gameID string, seed int64, res runner.Result) {
	store := openStore()
	if store == nil {
		return
	}
	defer store.Close()

	id, err := store.SaveRun(storage.RunEntry{
		GameID:       gameID,
		Seed:         seed,
		Difficulty:   runCfg.Difficulty,
		PlaybackRate: runCfg.PlaybackRate,
		Outcome:      string(res.Outcome),
		Frames:       res.Frames,
	})
	if err != nil {
		logger.Warn("could not record run", "game", gameID, "error", err)
		return
	}
	logger.Debug("run recorded", "game", gameID, "id", id)
}

func printResult(gameID string, seed int64, res runner.Result) {
	fmt.Printf("Game:      %s\n", gameID)
	fmt.Printf("Outcome:   %s\n", res.Outcome)
	fmt.Printf("Status:    %s\n", res.Status)
	fmt.Printf("Frames:    %d (%d presentations)\n", res.Frames, res.Presentations)
	fmt.Printf("Seed:      %d\n", seed)
	if res.EndedEarly {
		fmt.Println("Ended early")
	}
	if res.MusicStopped {
		fmt.Println("Music stopped")
	}
	if len(res.Sounds) > 0 {
		fmt.Printf("Sounds:    %s\n", strings.Join(res.Sounds, ", "))
	}
}
