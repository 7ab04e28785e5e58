package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/wee/internal/platform/tui"
	"github.com/vovakirdan/wee/internal/storage"
)

var (
	flagLimit  int
	flagBrowse bool
	flagClear  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [game]",
	Short: "Show recorded runs",
	Long: `Display recorded runs. With a game, lists its most recent runs and a
summary of outcomes; without one, summarizes every game.

Examples:
  wee history
  wee history reach --limit 20
  wee history --browse
  wee history reach --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
	historyCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Browse runs interactively")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the recorded runs of the game")
}

func runHistory(_ *cobra.Command, args []string) {
	gameID := ""
	if len(args) == 1 {
		gameID = args[0]
	}

	store, err := storage.Open(runCfg.HistoryPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagClear:
		if gameID == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a game")
			os.Exit(1)
		}
		if err := store.ClearRuns(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger.Info("history cleared", "game", gameID)

	case flagBrowse:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunHistory(store, gameID, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case gameID != "":
		printGameHistory(store, gameID)

	default:
		printAllSummaries(store)
	}
}

func printGameHistory(store *storage.Store, gameID string) {
	runs, err := store.RecentRuns(gameID, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Run History - %s\n", gameID)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Run 'wee run %s --record' to record one.\n", gameID)
		return
	}

	fmt.Printf("  %-6s  %-9s  %-6s  %-4s  %-4s  %-20s  %s\n", "Run", "Outcome", "Frames", "Rate", "Diff", "Seed", "Date")
	fmt.Printf("  %-6s  %-9s  %-6s  %-4s  %-4s  %-20s  %s\n", "---", "-------", "------", "----", "----", "----", "----")
	for _, r := range runs {
		fmt.Printf("  %-6d  %-9s  %-6d  %-4.2f  %-4d  %-20d  %s\n",
			r.ID, r.Outcome, r.Frames, r.PlaybackRate, r.Difficulty, r.Seed, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	sum, err := store.Summary(gameID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Total: %d runs, %d won, %d lost, %d undecided, %d errors\n",
			sum.Runs, sum.Won, sum.Lost, sum.Undecided, sum.Errors)
	}
}

func printAllSummaries(store *storage.Store) {
	sums, err := store.AllSummaries()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving summaries: %v\n", err)
		os.Exit(1)
	}
	if len(sums) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	ids := make([]string, 0, len(sums))
	maxIDLen := 4 // "Game" header
	for id := range sums {
		ids = append(ids, id)
		maxIDLen = max(maxIDLen, len(id))
	}
	sort.Strings(ids)

	fmt.Printf("  %-*s  %5s  %5s  %5s  %9s  %6s  %s\n", maxIDLen, "Game", "Runs", "Won", "Lost", "Undecided", "Errors", "Last played")
	for _, id := range ids {
		s := sums[id]
		fmt.Printf("  %-*s  %5d  %5d  %5d  %9d  %6d  %s\n",
			maxIDLen, id, s.Runs, s.Won, s.Lost, s.Undecided, s.Errors, s.LastPlayed.Format("2006-01-02 15:04"))
	}
}
