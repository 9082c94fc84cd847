package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimscope/claimscope/internal/pipeline"
	"github.com/claimscope/claimscope/internal/retrieval"
	"github.com/claimscope/claimscope/internal/source"
)

var (
	queryTopClaims   int
	queryTopEvidence int
	queryThreshold   float64
	queryJSONPath    string
	queryFetch       bool
	queryTimeout     time.Duration
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <claim>",
	Short: "Map a claim to related claims and stance-bucketed evidence",
	Long: `Query embeds your claim, searches the claim and evidence collections,
and buckets each evidence hit as supporting, contradicting, or neutral.

Example:
  claimscope query "transformers improve translation accuracy"
  claimscope query "X outperforms Y" --threshold 0.6 --json result.json
  claimscope query "new claim" --fetch --max-papers 5`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().IntVar(&queryTopClaims, "top-claims", 0, "claim search depth (default from config)")
	queryCmd.Flags().IntVar(&queryTopEvidence, "top-evidence", 0, "evidence search depth (default from config)")
	queryCmd.Flags().Float64Var(&queryThreshold, "threshold", 0, "similarity threshold (default from config)")
	queryCmd.Flags().StringVar(&queryJSONPath, "json", "", "write full result JSON to this path")
	queryCmd.Flags().BoolVar(&queryFetch, "fetch", false, "fetch and ingest relevant arXiv papers before querying")
	queryCmd.Flags().IntVar(&ingestMaxPapers, "max-papers", 0, "papers to fetch with --fetch")
	queryCmd.Flags().DurationVar(&queryTimeout, "timeout", 2*time.Minute, "overall query timeout")
}

func runQuery(cmd *cobra.Command, args []string) error {
	query := args[0]
	cfg := loadConfig()

	if queryTopClaims > 0 {
		cfg.Retrieval.TopKClaims = queryTopClaims
	}
	if queryTopEvidence > 0 {
		cfg.Retrieval.TopKEvidence = queryTopEvidence
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Retrieval.SimilarityThreshold = float32(queryThreshold)
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	vectors := newVectorStore(cfg)

	if queryFetch {
		if verbose {
			fmt.Fprintf(os.Stderr, "Fetching papers from arXiv for %q...\n", query)
		}

		papers, err := source.NewArxivSource(cfg.Arxiv, cfg.HTTP, newFetchCache(cfg), verbose).
			Fetch(ctx, query, ingestMaxPapers)
		if err != nil {
			return fmt.Errorf("fetch papers: %w", err)
		}

		if len(papers) > 0 {
			p := pipeline.NewIngestionPipeline(embedder, vectors, cfg)
			if err := p.EnsureCollections(ctx); err != nil {
				return err
			}
			stats, err := p.ProcessPapers(ctx, papers)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			if verbose {
				fmt.Fprintf(os.Stderr, "Added %d claims and %d evidence statements\n", stats.Claims, stats.Evidence)
			}
		} else {
			fmt.Fprintln(os.Stderr, "Warning: no papers found on arXiv for this query")
		}
	}

	retriever := retrieval.NewRetriever(embedder, vectors, cfg.Store, cfg.Retrieval)
	result, err := retriever.Retrieve(ctx, query)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSONPath != "" {
		if err := writeJSON(queryJSONPath, result); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", queryJSONPath)
		}
	}

	renderResult(os.Stdout, result)
	return nil
}
