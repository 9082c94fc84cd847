package model

// Paper represents a scientific paper with its text sections
type Paper struct {
	PaperID      string   `json:"paper_id"`
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	Year         int      `json:"year"`
	Venue        string   `json:"venue"`
	Abstract     string   `json:"abstract"`
	Introduction string   `json:"introduction,omitempty"`
	Results      string   `json:"results,omitempty"`
	Discussion   string   `json:"discussion,omitempty"`
	Conclusion   string   `json:"conclusion,omitempty"`
	DOI          string   `json:"doi,omitempty"`
	ArxivID      string   `json:"arxiv_id,omitempty"`
}

// Section names a paper text section claims and evidence are drawn from
type Section string

const (
	SectionAbstract     Section = "abstract"
	SectionIntroduction Section = "introduction"
	SectionResults      Section = "results"
	SectionDiscussion   Section = "discussion"
	SectionConclusion   Section = "conclusion"
)
