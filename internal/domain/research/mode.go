package research

// Mode is the research depth setting. It fixes the sub-query and source
// budgets for a turn; those budgets are hard caps (cost/latency contract).
type Mode string

const (
	ModeRegular Mode = "regular"
	ModeDeep    Mode = "deep"
)

// SubQueryCount is the exact number of search sub-queries the planner emits.
func (m Mode) SubQueryCount() int {
	if m == ModeDeep {
		return 5
	}
	return 3
}

// SourceBudget is the maximum number of evidence items pooled after dedup.
func (m Mode) SourceBudget() int {
	if m == ModeDeep {
		return 8
	}
	return 5
}
