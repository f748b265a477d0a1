package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/ziadkadry99/apivet/internal/config"
	"github.com/ziadkadry99/apivet/internal/db"
	"github.com/ziadkadry99/apivet/internal/history"
	"github.com/ziadkadry99/apivet/internal/spec"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `apivet init` to create a config file", err)
	}
	return cfg, nil
}

// loadSpec loads the OpenAPI document named by the positional argument.
func loadSpec(args []string) (*spec.Document, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing spec file argument\nUsage: apivet <command> <openapi.yml>")
	}
	doc, err := spec.Load(args[0])
	if err != nil {
		return nil, fmt.Errorf("loading spec: %w", err)
	}
	return doc, nil
}

// openHistory opens the run history database under the configured data dir.
func openHistory(cfg *config.Config) (*db.DB, *history.Store, error) {
	database, err := db.Open(filepath.Join(cfg.DataDir, "apivet.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening run history: %w", err)
	}
	return database, history.NewStore(database), nil
}
