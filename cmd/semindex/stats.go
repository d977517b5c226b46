package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"semindex/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		stats, err := svc.Stats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Documents:        %d\n", stats.TotalDocuments)
		fmt.Printf("Vectors:          %d (%.0f%% coverage)\n", stats.VectorCount, stats.VectorIndexCoverage*100)
		fmt.Printf("Dimension:        %d\n", stats.EmbeddingDimension)
		fmt.Printf("Database size:    %d bytes\n", stats.DatabaseSizeBytes)
		fmt.Printf("Build mode:       %s (driver %s, vector extension %v)\n",
			storage.BuildMode, storage.DriverName, storage.VectorExtensionAvailable)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
