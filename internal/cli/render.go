package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/claimscope/claimscope/internal/model"
)

// renderResult prints a human-readable retrieval summary
func renderResult(w io.Writer, result *model.RetrievalResult) {
	fmt.Fprintf(w, "\nQuery: %s\n", result.Query)

	fmt.Fprintf(w, "\nRelated claims (%d):\n", len(result.RelatedClaims))
	if len(result.RelatedClaims) == 0 {
		fmt.Fprintln(w, "  (none above threshold)")
	}
	for _, claim := range result.RelatedClaims {
		fmt.Fprintf(w, "  [%.2f] %s\n", claim.Similarity, claim.Text)
		fmt.Fprintf(w, "         from %s (%s, %d)\n", claim.PaperTitle, claim.Venue, claim.Year)
	}

	renderBucket(w, "Supporting", result.Evidence.Supporting)
	renderBucket(w, "Contradicting", result.Evidence.Contradicting)
	renderBucket(w, "Neutral", result.Evidence.Neutral)
	fmt.Fprintln(w)
}

func renderBucket(w io.Writer, label string, items []model.ScoredEvidence) {
	fmt.Fprintf(w, "\n%s evidence (%d):\n", label, len(items))
	if len(items) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "  [%.2f] %s\n", item.Similarity, item.Text)
		fmt.Fprintf(w, "         from %s (%s, %d, %s)\n", item.PaperTitle, item.Venue, item.Year, item.Section)
	}
}

// writeJSON writes v as indented JSON to path
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
