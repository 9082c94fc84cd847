package stance

import (
	"testing"

	"github.com/claimscope/claimscope/internal/model"
)

func TestCategorizer_NegatedTopic(t *testing.T) {
	c := NewCategorizer()

	query := "the transformer model improves accuracy on translation benchmarks"
	evidence := "the transformer model did not improve accuracy on any translation task"

	if got := c.Categorize(query, evidence); got != model.StanceContradicting {
		t.Errorf("Expected contradicting for negated topic, got %q", got)
	}
}

func TestCategorizer_NegatedShortQuery(t *testing.T) {
	c := NewCategorizer()

	// A three-word query cannot share more than three tokens; majority
	// coverage still counts as negation of the topic
	query := "transformers improve accuracy"
	evidence := "the model did not improve accuracy and failed on edge cases"

	if got := c.Categorize(query, evidence); got != model.StanceContradicting {
		t.Errorf("Expected contradicting for negated short query, got %q", got)
	}
}

func TestCategorizer_NegationWithoutOverlap(t *testing.T) {
	c := NewCategorizer()

	// Negation about an unrelated topic is not a contradiction of the query
	query := "transformers improve translation quality"
	evidence := "the dataset is not publicly available"

	if got := c.Categorize(query, evidence); got != model.StanceNeutral {
		t.Errorf("Expected neutral for negation off topic, got %q", got)
	}
}

func TestCategorizer_DirectionalMismatch(t *testing.T) {
	c := NewCategorizer()

	query := "pretraining yields better downstream scores"
	evidence := "downstream scores were noticeably worse after the change"

	if got := c.Categorize(query, evidence); got != model.StanceContradicting {
		t.Errorf("Expected contradicting for directional mismatch, got %q", got)
	}
}

func TestCategorizer_KeywordScore(t *testing.T) {
	c := NewCategorizer()
	query := "how does the approach perform"

	cases := []struct {
		name     string
		evidence string
		want     model.Stance
	}{
		{
			name:     "two supporting hits",
			evidence: "the approach achieved higher scores across every benchmark",
			want:     model.StanceSupporting,
		},
		{
			name:     "single supporting hit stays neutral",
			evidence: "the approach achieved parity with existing systems",
			want:     model.StanceNeutral,
		},
		{
			name:     "two contradicting hits",
			evidence: "latency was worse and throughput continued to degrade under load",
			want:     model.StanceContradicting,
		},
		{
			name:     "single contradicting hit stays neutral",
			evidence: "one limitation remains in low resource settings",
			want:     model.StanceNeutral,
		},
		{
			name:     "tied counts stay neutral",
			evidence: "the model improved recall but achieved worse latency and reduced throughput",
			want:     model.StanceNeutral,
		},
		{
			name:     "no stance keywords",
			evidence: "the corpus was collected between january and june",
			want:     model.StanceNeutral,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.Categorize(query, tc.evidence); got != tc.want {
				t.Errorf("Categorize(%q) = %q, want %q", tc.evidence, got, tc.want)
			}
		})
	}
}

func TestCategorizer_NegationBeatsKeywords(t *testing.T) {
	c := NewCategorizer()

	// Supporting keywords do not rescue evidence that negates the query topic
	query := "sparse attention improves accuracy on long documents"
	evidence := "sparse attention did not improve accuracy on long documents despite higher throughput and effective caching"

	if got := c.Categorize(query, evidence); got != model.StanceContradicting {
		t.Errorf("Expected negation rule to win, got %q", got)
	}
}

func TestCategorizer_CaseInsensitive(t *testing.T) {
	c := NewCategorizer()

	got := c.Categorize(
		"How Does The Approach Perform",
		"The Approach ACHIEVED Higher Scores Across Every Benchmark",
	)
	if got != model.StanceSupporting {
		t.Errorf("Expected case-insensitive match, got %q", got)
	}
}

func TestCategorizer_Deterministic(t *testing.T) {
	c := NewCategorizer()

	query := "the transformer model improves accuracy on translation benchmarks"
	evidence := "the transformer model did not improve accuracy on any translation task"

	first := c.Categorize(query, evidence)
	for i := 0; i < 50; i++ {
		if got := c.Categorize(query, evidence); got != first {
			t.Fatalf("Categorize is not deterministic: %q then %q", first, got)
		}
	}
}
