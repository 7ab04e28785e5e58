package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games",
	Long:  `Shows every game description found in the games directory.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	cat, err := loadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	games := cat.List()

	if len(games) == 0 {
		fmt.Printf("No games found in %s.\n", runCfg.GamesDir)
		return
	}

	fmt.Printf("Games in %s:\n", runCfg.GamesDir)
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, g := range games {
		if len(g.ID) > maxIDLen {
			maxIDLen = len(g.ID)
		}
	}

	fmt.Printf("  %-*s  %-9s  %-9s  %s\n", maxIDLen, "ID", "Type", "Published", "Objects")
	fmt.Printf("  %-*s  %-9s  %-9s  %s\n", maxIDLen, "--", "----", "---------", "-------")

	for _, g := range games {
		published := "no"
		if g.Published {
			published = "yes"
		}
		fmt.Printf("  %-*s  %-9s  %-9s  %d\n", maxIDLen, g.ID, g.Type, published, g.Objects)
	}

	if skipped := cat.Skipped(); len(skipped) > 0 {
		fmt.Println()
		fmt.Printf("Skipped %d file(s):\n", len(skipped))
		for _, s := range skipped {
			fmt.Printf("  %s: %v\n", s.Path, s.Err)
		}
	}

	fmt.Println()
	fmt.Println("Run 'wee run <id>' or 'wee watch <id>' to play a game.")
}
