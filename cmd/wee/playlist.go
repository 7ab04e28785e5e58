package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wee/internal/catalog"
	"github.com/vovakirdan/wee/internal/engine"
	"github.com/vovakirdan/wee/internal/runner"
	"github.com/vovakirdan/wee/internal/schema"
)

var (
	flagCount     int
	flagPrefix    string
	flagBossEvery int
	flagPlay      bool
)

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Draw a session of games from the catalog",
	Long: `Draw games the way a back-to-back session picks them: published
minigames come from a rotation that never repeats a game within the next
five, with an optional boss game every few rounds.

With --play, each game is run headlessly without input and the outcomes
are tallied.

Examples:
  wee playlist --count 10
  wee playlist --prefix pack1 --boss-every 5
  wee playlist --count 20 --play --seed 3`,
	Run: runPlaylist,
}

func init() {
	playlistCmd.Flags().IntVarP(&flagCount, "count", "n", 10, "Number of games to draw")
	playlistCmd.Flags().StringVar(&flagPrefix, "prefix", "", "Only games whose id lies under this directory")
	playlistCmd.Flags().IntVar(&flagBossEvery, "boss-every", 0, "Insert a boss game after every N minigames (0 = never)")
	playlistCmd.Flags().BoolVar(&flagPlay, "play", false, "Run each drawn game headlessly")
}

func runPlaylist(_ *cobra.Command, _ []string) {
	cat, err := loadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	seed := seedOrNow()
	rng := engine.NewRand(seed)
	playlist := catalog.NewPlaylist(cat.List(), flagPrefix, rng)
	session, err := drawSession(playlist, flagCount, flagBossEvery)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("playlist drawn", "games", len(session), "pool", playlist.Len(), "seed", seed)

	if !flagPlay {
		for i, e := range session {
			fmt.Printf("%3d  %-9s  %s\n", i+1, e.Type, e.ID)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tally := make(map[runner.Outcome]int)
	for i, e := range session {
		res, err := playEntry(ctx, e, engine.NewRand(rng.Int63()))
		if errors.Is(err, context.Canceled) {
			break
		}
		if err != nil {
			logger.Error("game failed", "game", e.ID, "error", err)
		}
		tally[res.Outcome]++
		fmt.Printf("%3d  %-9s  %-24s  %-9s  %d frames\n", i+1, e.Type, e.ID, res.Outcome, res.Frames)
	}
	fmt.Println()
	fmt.Printf("Won %d, lost %d, undecided %d, errors %d\n",
		tally[runner.Won], tally[runner.Lost], tally[runner.Undecided], tally[runner.Failed])
}

// drawSession picks count minigames, with a boss after every bossEvery of them.
func drawSession(p *catalog.Playlist, count, bossEvery int) ([]catalog.Entry, error) {
	var out []catalog.Entry
	for i := 1; i <= count; i++ {
		e, err := p.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if bossEvery > 0 && i%bossEvery == 0 {
			boss, err := p.Boss()
			if errors.Is(err, catalog.ErrEmptyPlaylist) {
				continue
			}
			if err != nil {
				return nil, err
			}
			out = append(out, boss)
		}
	}
	return out, nil
}

func playEntry(ctx context.Context, e catalog.Entry, rng engine.Rand) (runner.Result, error) {
	def, err := schema.Load(e.Path)
	if err != nil {
		return runner.Result{Outcome: runner.Failed}, err
	}
	game, err := engine.NewGame(def, engine.Options{Difficulty: runCfg.Difficulty, Rand: rng})
	if err != nil {
		return runner.Result{Outcome: runner.Failed}, err
	}
	r := runner.New(runner.Options{
		PlaybackRate: runCfg.PlaybackRate,
		MaxFrames:    runCfg.MaxFrames,
		Logger:       logger.With("game", e.ID),
	})
	return r.Run(ctx, game, nil)
}
