package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimscope/claimscope/internal/model"
	"github.com/claimscope/claimscope/internal/pipeline"
	"github.com/claimscope/claimscope/internal/source"
)

var (
	ingestMaxPapers int
	ingestNoCache   bool
	ingestTimeout   time.Duration
)

// ingestCmd groups the paper ingestion subcommands
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch papers and add their claims and evidence to the store",
}

var ingestArxivCmd = &cobra.Command{
	Use:   "arxiv <query>",
	Short: "Fetch papers from arXiv and ingest them",
	Long: `Searches the arXiv API for papers relevant to the query, extracts
claim and evidence sentences, embeds them, and stores them.

Example:
  claimscope ingest arxiv "transformer language models"
  claimscope ingest arxiv "protein folding" --max-papers 20`,
	Args: cobra.ExactArgs(1),
	RunE: runIngestArxiv,
}

var ingestHTMLCmd = &cobra.Command{
	Use:   "html <path-or-url>...",
	Short: "Ingest papers from HTML files or pages",
	Long: `Parses each argument as a paper page: a local HTML file or an
http(s) URL. Metadata is read from citation_* meta tags where present,
and section text from abstract/results/discussion/conclusion headings.

Example:
  claimscope ingest html paper1.html paper2.html
  claimscope ingest html https://example.org/papers/attention.html`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngestHTML,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.AddCommand(ingestArxivCmd)
	ingestCmd.AddCommand(ingestHTMLCmd)

	ingestCmd.PersistentFlags().DurationVar(&ingestTimeout, "timeout", 5*time.Minute, "overall ingestion timeout")
	ingestCmd.PersistentFlags().BoolVar(&ingestNoCache, "no-cache", false, "disable fetch cache (force fresh fetch)")
	ingestArxivCmd.Flags().IntVar(&ingestMaxPapers, "max-papers", 0, "maximum papers to fetch (default from config)")
}

func runIngestArxiv(cmd *cobra.Command, args []string) error {
	query := args[0]
	cfg := loadConfig()
	if ingestNoCache {
		cfg.Cache.Enabled = false
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	papers, err := source.NewArxivSource(cfg.Arxiv, cfg.HTTP, newFetchCache(cfg), verbose).
		Fetch(ctx, query, ingestMaxPapers)
	if err != nil {
		return fmt.Errorf("fetch papers: %w", err)
	}
	if len(papers) == 0 {
		fmt.Println("No papers found on arXiv for this query")
		return nil
	}

	return ingestPapers(ctx, cfg, papers)
}

func runIngestHTML(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	htmlSource := source.NewHTMLSource(cfg.HTTP)

	var papers []model.Paper
	for _, arg := range args {
		paper, err := htmlSource.Load(ctx, arg)
		if err != nil {
			// One unreadable paper should not sink the rest
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", arg, err)
			continue
		}
		papers = append(papers, paper)
	}
	if len(papers) == 0 {
		return fmt.Errorf("no papers could be loaded")
	}

	return ingestPapers(ctx, cfg, papers)
}

// ingestPapers runs the shared ingestion tail: build components, ensure
// collections, process the batch, report stats
func ingestPapers(ctx context.Context, cfg *model.Config, papers []model.Paper) error {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	p := pipeline.NewIngestionPipeline(embedder, newVectorStore(cfg), cfg)
	if err := p.EnsureCollections(ctx); err != nil {
		return err
	}

	stats, err := p.ProcessPapers(ctx, papers)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	fmt.Printf("✓ Ingested %d papers: %d claims, %d evidence statements\n",
		stats.Papers-stats.PapersSkipped, stats.Claims, stats.Evidence)
	if stats.PapersSkipped > 0 {
		fmt.Printf("  (%d papers skipped)\n", stats.PapersSkipped)
	}
	return nil
}
