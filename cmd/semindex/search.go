package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"semindex/internal/searcher"
)

var (
	flagTopK          int
	flagMinSimilarity float64
	flagMinScore      float64
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed files with a natural language query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		resp, err := svc.Search(cmd.Context(), args[0], &searcher.Options{
			TopK:          flagTopK,
			MinSimilarity: flagMinSimilarity,
			MinScore:      flagMinScore,
		})
		if err != nil {
			return err
		}

		if len(resp.Results) == 0 {
			fmt.Println("No results.")
			return nil
		}
		if resp.FallbackUsed {
			fmt.Println("(reranker output unusable, results ordered by similarity)")
		}
		for i, r := range resp.Results {
			fmt.Printf("%d. %s  (score %.0f, similarity %.3f)\n", i+1, r.Metadata.Path, r.Score, r.Similarity)
			fmt.Printf("   id: %s\n", r.ID)
			fmt.Printf("   %s\n", r.Summary)
		}
		fmt.Printf("\nTokens: %d\n", resp.Usage.TotalTokens)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&flagTopK, "top-k", searcher.DefaultTopK, "maximum number of results")
	searchCmd.Flags().Float64Var(&flagMinSimilarity, "min-similarity", searcher.DefaultMinSimilarity, "minimum cosine similarity for candidates")
	searchCmd.Flags().Float64Var(&flagMinScore, "min-score", searcher.DefaultMinScore, "minimum rerank score for final results")
	rootCmd.AddCommand(searchCmd)
}
