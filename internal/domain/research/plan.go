package research

// PlanType tags the planner's decision for a turn. Only PlanSearch proceeds
// to the hunter; every other variant carries a finished answer and
// short-circuits the downstream stages.
type PlanType string

const (
	// PlanHardcoded matched a fixed-intent pattern (identity, off-domain
	// trivia, confused-purpose). Canned answer, no search, no LLM.
	PlanHardcoded PlanType = "hardcoded"
	// PlanClarify is for empty/too-short/gibberish input.
	PlanClarify PlanType = "clarify"
	// PlanRefuse is for injection-style input. Logged, never forwarded.
	PlanRefuse PlanType = "refuse"
	// PlanRedirect is for coherent but off-topic or confused input.
	PlanRedirect PlanType = "redirect"
	// PlanSearch carries sub-queries for the hunter.
	PlanSearch PlanType = "search"
)

// SubQuery is one search-optimized string derived from the resolved query.
// Index is 1-based and tracks which evidence came from which sub-query.
type SubQuery struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Plan is the planner's output. Transient: consumed immediately by the
// hunter (PlanSearch) or returned directly (everything else).
type Plan struct {
	Type PlanType `json:"type"`

	// Answer and KeyPoints are set for non-search plans.
	Answer    string   `json:"answer,omitempty"`
	KeyPoints []string `json:"key_points,omitempty"`

	// Search fields.
	ResolvedQuery string     `json:"resolved_query,omitempty"`
	QueryType     QueryType  `json:"query_type,omitempty"`
	SubQueries    []SubQuery `json:"sub_queries,omitempty"`
	Entities      []string   `json:"entities,omitempty"`
}

// IsSearch reports whether the plan proceeds to the hunter stage.
func (p *Plan) IsSearch() bool { return p != nil && p.Type == PlanSearch }
