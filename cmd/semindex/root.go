package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"semindex/internal/provider"
	"semindex/internal/service"
	"semindex/internal/storage"
)

var flagDB string

var rootCmd = &cobra.Command{
	Use:          "semindex",
	Short:        "Semantic indexing and search over text files",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default ~/.semindex/semindex.db)")
}

// resolveDBPath expands the default database location when --db is unset.
func resolveDBPath() (string, error) {
	if flagDB != "" {
		return flagDB, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".semindex", "semindex.db"), nil
}

// openService opens the store and provider and returns the service facade
// plus a close function.
func openService() (*service.Service, func(), error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create db directory: %w", err)
	}

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	prov, err := provider.NewFromEnv()
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	return service.New(store, prov), func() { _ = store.Close() }, nil
}
