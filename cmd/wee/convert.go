package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wee/internal/schema"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert a description between JSON and YAML",
	Long: `Rewrite a game description in the format given by the output file's
extension (.json, .yaml or .yml). The input is decoded first, so a file
that would not load is not converted.

Examples:
  wee convert games/reach.json games/reach.yaml`,
	Args: cobra.ExactArgs(2),
	Run:  runConvert,
}

func runConvert(_ *cobra.Command, args []string) {
	in, out := args[0], args[1]

	if _, err := schema.Load(in); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	converted, err := schema.Convert(data, filepath.Ext(in), filepath.Ext(out))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(out, converted, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("converted", "from", in, "to", out)
}
