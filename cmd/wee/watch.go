package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/wee/internal/platform/tui"
)

var flagSnapshots string

var watchCmd = &cobra.Command{
	Use:   "watch [game]",
	Short: "Watch a game in the terminal inspector",
	Long: `Run a game live in the terminal. The preview shows every object as a
coloured box in its draw order next to a table of object state. Click in the
preview to send pointer input.

Without a game, a picker lists the games directory.

Controls:
  P/Space   - Pause / resume
  N         - Step one presentation while paused
  R         - Restart with a new seed
  +/-       - Change playback rate
  T         - Toggle the object table
  Ctrl+S    - Save a text snapshot of the preview
  Q/Ctrl+C  - Quit

Examples:
  wee watch reach
  wee watch ./games/reach.yaml --seed 7 --rate 2
  wee watch`,
	Args: cobra.MaximumNArgs(1),
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagSnapshots, "snapshots", "", "Directory for Ctrl+S snapshots (default ~/.wee/snapshots)")
}

func runWatch(_ *cobra.Command, args []string) {
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	var model tea.Model
	if len(args) == 1 {
		entry, def, err := openGame(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg := runCfg
		cfg.Seed = seedOrNow()
		watch, err := tui.NewWatchModel(tui.WatchOptions{
			ID:          entry.ID,
			Definition:  def,
			Config:      cfg,
			Store:       store,
			Logger:      logger,
			Width:       width,
			Height:      height,
			SnapshotDir: flagSnapshots,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		model = watch
	} else {
		cat, err := loadCatalog()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		model = tui.NewSessionModel(tui.SessionOptions{
			Catalog: cat,
			Config:  runCfg,
			Store:   store,
			Logger:  logger,
			Width:   width,
			Height:  height,
		})
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running inspector: %v\n", err)
		os.Exit(1)
	}
}
