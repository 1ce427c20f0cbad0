package research

// QueryType classifies the user's intent. It is a closed enumeration: the
// writer maps each label to exactly one answer template.
type QueryType string

const (
	QueryPerson      QueryType = "person"
	QueryProduct     QueryType = "product"
	QueryFinancial   QueryType = "financial"
	QueryComparison  QueryType = "comparison"
	QueryNews        QueryType = "news"
	QueryExplanation QueryType = "explanation"
	QueryCompetitive QueryType = "competitive"
	QueryOverview    QueryType = "overview"
	QueryGeneral     QueryType = "general"
)

// QueryTypes lists every label, in template-selection order.
func QueryTypes() []QueryType {
	return []QueryType{
		QueryPerson,
		QueryProduct,
		QueryFinancial,
		QueryComparison,
		QueryNews,
		QueryExplanation,
		QueryCompetitive,
		QueryOverview,
		QueryGeneral,
	}
}
