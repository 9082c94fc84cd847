package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimscope/claimscope/internal/retrieval"
	"github.com/claimscope/claimscope/internal/worker"
)

var (
	batchConcurrency int
	batchOutputDir   string
	batchTimeout     time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <queries-file>",
	Short: "Run many queries from a file in parallel",
	Long: `Batch reads queries from a file (one per line, # comments allowed)
and runs them concurrently, writing one JSON result per query.

Example:
  claimscope batch queries.txt
  claimscope batch queries.txt --concurrency 8 --output-dir ./results`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "./claimscope-results", "output directory for result JSON files")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	concurrency := batchConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Concurrency.BatchWorkers
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	retriever := retrieval.NewRetriever(embedder, newVectorStore(cfg), cfg.Store, cfg.Retrieval)
	processor := worker.NewBatchProcessor(retriever, concurrency)

	results, err := processor.ProcessFile(ctx, args[0])
	if err != nil {
		return err
	}

	if err := os.MkdirAll(batchOutputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	failed := 0
	for i, result := range results {
		if result.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Query, result.Error)
			continue
		}

		path := filepath.Join(batchOutputDir, fmt.Sprintf("result-%03d.json", i+1))
		if err := writeJSON(path, result.Result); err != nil {
			return fmt.Errorf("write result for %q: %w", result.Query, err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s → %s\n", result.Query, path)
		}
	}

	fmt.Printf("✓ Processed %d queries (%d failed), results in %s\n", len(results), failed, batchOutputDir)
	return nil
}
