package research

// EvidenceItem is one retrieved unit: produced by the hunter, scored by the
// analyst, consumed read-only by the writer. Discarded after the turn is
// finalized except for the citation subset kept in the turn's source list.
type EvidenceItem struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Content string `json:"content"`

	// Provenance.
	SubQueryIndex int `json:"sub_query_index"`
	ProviderRank  int `json:"provider_rank"`

	// ProviderScore is the search provider's relevance score (0..1).
	ProviderScore float64 `json:"provider_score"`

	// Score is the analyst's combined ranking score (0..10). Zero until the
	// analyst has run.
	Score float64 `json:"score"`

	// SourceID is the 1-based citation id assigned after analyst ordering.
	SourceID int `json:"source_id"`

	KeyFacts []string `json:"key_facts,omitempty"`
	Summary  string   `json:"summary,omitempty"`
}

// Source is one citation in a finished answer. IDs are contiguous from 1 in
// the order the answer first references them.
type Source struct {
	ID        int     `json:"id"`
	URL       string  `json:"url"`
	Title     string  `json:"title"`
	Snippet   string  `json:"snippet"`
	Relevance float64 `json:"relevance"`
}
