package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/vovakirdan/wee/internal/catalog"
	"github.com/vovakirdan/wee/internal/engine"
	"github.com/vovakirdan/wee/internal/schema"
	"github.com/vovakirdan/wee/internal/storage"
)

// loadCatalog scans the configured games directory. A missing directory
// gives an empty catalog so file paths still work.
func loadCatalog() (*catalog.Catalog, error) {
	cat := catalog.New()
	if _, err := os.Stat(runCfg.GamesDir); errors.Is(err, os.ErrNotExist) {
		logger.Debug("games directory not found", "dir", runCfg.GamesDir)
		return cat, nil
	}
	if err := cat.Load(runCfg.GamesDir); err != nil {
		return nil, err
	}
	for _, s := range cat.Skipped() {
		logger.Warn("skipped game file", "path", s.Path, "error", s.Err)
	}
	return cat, nil
}

// openGame resolves ref as a catalog id or a file path and loads it.
func openGame(ref string) (catalog.Entry, engine.Definition, error) {
	cat, err := loadCatalog()
	if err != nil {
		return catalog.Entry{}, engine.Definition{}, err
	}
	entry, err := cat.Resolve(ref)
	if err != nil {
		return catalog.Entry{}, engine.Definition{}, err
	}
	def, err := schema.Load(entry.Path)
	if err != nil {
		return entry, engine.Definition{}, err
	}
	return entry, def, nil
}

// openStore opens the run history, or returns nil with a warning.
func openStore() *storage.Store {
	store, err := storage.Open(runCfg.HistoryPath())
	if err != nil {
		logger.Warn("could not open history database", "path", runCfg.HistoryPath(), "error", err)
		return nil
	}
	return store
}

// parseReplacements turns key=value pairs into text replacements.
func parseReplacements(pairs []string) ([]schema.Replacement, error) {
	out := make([]schema.Replacement, 0, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --text %q, want placeholder=value", p)
		}
		out = append(out, schema.Replacement{Placeholder: key, Value: value})
	}
	return out, nil
}
