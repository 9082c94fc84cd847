package store

import (
	"testing"

	"github.com/claimscope/claimscope/internal/model"
)

func TestPointID_Stable(t *testing.T) {
	id := "2101.00001_v1_abstract_0"

	first := PointID(id)
	for i := 0; i < 10; i++ {
		if got := PointID(id); got != first {
			t.Fatalf("PointID changed between calls: %d then %d", first, got)
		}
	}
}

func TestPointID_NonNegativeRange(t *testing.T) {
	ids := []string{
		"",
		"a",
		"2101.00001_v1_abstract_0",
		"paper_results_17",
		"some-very-long-identifier-with-many-characters-in-it",
	}

	for _, id := range ids {
		if got := PointID(id); got&(1<<63) != 0 {
			t.Errorf("PointID(%q) = %d has the top bit set", id, got)
		}
	}
}

func TestPointID_DistinctInputs(t *testing.T) {
	a := PointID("2101.00001_v1_abstract_0")
	b := PointID("2101.00001_v1_abstract_1")
	if a == b {
		t.Errorf("Expected distinct IDs for distinct inputs, both %d", a)
	}
}

func TestClaimRecord(t *testing.T) {
	claim := model.Claim{
		ClaimID:    "2101.00001_v1_abstract_0",
		Text:       "Our method achieves state-of-the-art results on benchmark X.",
		PaperID:    "2101.00001_v1",
		PaperTitle: "A Test Paper",
		Year:       2021,
		Venue:      "arXiv",
		Section:    model.SectionAbstract,
		Embedding:  []float32{0.1, 0.2, 0.3},
	}

	rec := ClaimRecord(claim)
	if rec.ID != PointID(claim.ClaimID) {
		t.Errorf("Record ID %d does not match PointID of claim ID", rec.ID)
	}
	if rec.Payload.ClaimID != claim.ClaimID {
		t.Errorf("Payload claim ID = %q, want %q", rec.Payload.ClaimID, claim.ClaimID)
	}
	if rec.Payload.EvidenceID != "" {
		t.Errorf("Claim payload must not carry an evidence ID, got %q", rec.Payload.EvidenceID)
	}
	if rec.Payload.Text != claim.Text {
		t.Errorf("Payload text = %q, want %q", rec.Payload.Text, claim.Text)
	}
	if rec.Payload.PaperTitle != claim.PaperTitle || rec.Payload.Year != claim.Year || rec.Payload.Venue != claim.Venue {
		t.Errorf("Payload paper fields not carried over: %+v", rec.Payload)
	}
	if rec.Payload.Section != model.SectionAbstract {
		t.Errorf("Payload section = %q, want abstract", rec.Payload.Section)
	}
	if len(rec.Vector) != 3 {
		t.Errorf("Expected embedding carried into record, got %v", rec.Vector)
	}
}

func TestEvidenceRecord(t *testing.T) {
	evidence := model.Evidence{
		EvidenceID: "2101.00001_v1_results_2",
		Text:       "The model achieved 95% accuracy on the held-out test set.",
		PaperID:    "2101.00001_v1",
		PaperTitle: "A Test Paper",
		Year:       2021,
		Venue:      "arXiv",
		Section:    model.SectionResults,
		Embedding:  []float32{0.4, 0.5},
	}

	rec := EvidenceRecord(evidence)
	if rec.ID != PointID(evidence.EvidenceID) {
		t.Errorf("Record ID %d does not match PointID of evidence ID", rec.ID)
	}
	if rec.Payload.EvidenceID != evidence.EvidenceID {
		t.Errorf("Payload evidence ID = %q, want %q", rec.Payload.EvidenceID, evidence.EvidenceID)
	}
	if rec.Payload.ClaimID != "" {
		t.Errorf("Evidence payload must not carry a claim ID, got %q", rec.Payload.ClaimID)
	}
	if rec.Payload.Section != model.SectionResults {
		t.Errorf("Payload section = %q, want results", rec.Payload.Section)
	}
}
