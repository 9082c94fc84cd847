package source

import (
	"context"

	"github.com/claimscope/claimscope/internal/model"
)

// PaperSource supplies papers for ingestion. Implementations fetch
// from an external repository (arXiv) or parse paper pages directly.
type PaperSource interface {
	// Fetch returns up to max papers relevant to the query
	Fetch(ctx context.Context, query string, max int) ([]model.Paper, error)
}
