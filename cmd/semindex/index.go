package main

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"semindex/internal/indexer"
)

var (
	flagConcurrency int
	flagForce       bool
)

var indexCmd = &cobra.Command{
	Use:   "index <path>",
	Short: "Index a text file or directory tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		opts := &indexer.Options{
			Concurrency: flagConcurrency,
			Force:       flagForce,
		}

		var bar *progressbar.ProgressBar
		if term.IsTerminal(int(os.Stderr.Fd())) {
			bar = progressbar.NewOptions(-1,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("indexing"),
				progressbar.OptionSetWidth(32),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			opts.OnProgress = func(p indexer.Progress) {
				// Total is only known once discovery finishes
				bar.ChangeMax(p.Discovered)
				_ = bar.Set(p.Completed + p.Skipped + p.Errored)
			}
		}

		stats, err := svc.IndexPath(cmd.Context(), args[0], opts)
		if bar != nil {
			_ = bar.Finish()
		}
		if stats != nil {
			fmt.Printf("Done in %s\n", stats.Duration.Round(time.Millisecond))
			fmt.Printf("  Files:  %d discovered, %d indexed, %d skipped, %d errored\n",
				stats.FilesDiscovered, stats.FilesIndexed, stats.FilesSkipped, stats.FilesErrored)
			fmt.Printf("  Tokens: %d\n", stats.Usage.TotalTokens)
			for _, fe := range stats.Errors {
				fmt.Fprintf(os.Stderr, "  error: %s: %s\n", fe.Path, fe.Err)
			}
		}
		return err
	},
}

func init() {
	indexCmd.Flags().IntVar(&flagConcurrency, "concurrency", indexer.DefaultConcurrency, "files processed concurrently per batch")
	indexCmd.Flags().BoolVar(&flagForce, "force", false, "reprocess files that already have a record")
	rootCmd.AddCommand(indexCmd)
}
