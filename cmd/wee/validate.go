package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wee/internal/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate <files...>",
	Short: "Validate game description files",
	Long: `Decode each file and check it for problems: empty or duplicate object
names, references to unknown objects, sprites, sounds and fonts missing from
the asset manifest, invalid sizes and inverted random ranges.

Exits with status 1 if any file has a problem.

Examples:
  wee validate games/reach.json
  wee validate games/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	Run:  runValidate,
}

func runValidate(_ *cobra.Command, args []string) {
	failed := 0
	for _, path := range args {
		if _, err := schema.Load(path); err != nil {
			failed++
			if problems, ok := schema.AsValidation(err); ok {
				fmt.Printf("FAIL  %s (%d problems)\n", path, len(problems))
				for _, p := range problems {
					fmt.Printf("        %s\n", p.Error())
				}
				continue
			}
			fmt.Printf("FAIL  %s\n        %v\n", path, err)
			continue
		}
		fmt.Printf("ok    %s\n", path)
	}

	if failed > 0 {
		logger.Error("validation failed", "files", len(args), "failed", failed)
		os.Exit(1)
	}
}
