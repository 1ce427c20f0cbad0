package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/yungbote/researchdesk-backend/internal/clients/groq"
	"github.com/yungbote/researchdesk-backend/internal/domain/research"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
)

// PlannerService turns a user message plus recent conversation history into
// a Plan: either a canned answer or a set of search sub-queries.
type PlannerService interface {
	Plan(ctx context.Context, query string, window []research.Turn, mode research.Mode) (*research.Plan, error)
}

type plannerService struct {
	log *logger.Logger
	llm groq.Client
}

func NewPlannerService(llm groq.Client, baseLog *logger.Logger) PlannerService {
	return &plannerService{
		log: baseLog.With("service", "PlannerService"),
		llm: llm,
	}
}

// Plan classifies the message in fixed priority order. Canned and edge-case
// plans short-circuit before any LLM call is made.
func (s *plannerService) Plan(ctx context.Context, query string, window []research.Turn, mode research.Mode) (*research.Plan, error) {
	query = strings.TrimSpace(query)
	queryLower := strings.ToLower(query)

	// 1. Fixed-intent matches.
	if plan := s.checkHardcoded(queryLower); plan != nil {
		s.log.Info("Hardcoded response triggered", "query", query)
		return plan, nil
	}

	// 2. Too short or gibberish.
	if len(queryLower) < 3 {
		s.log.Info("Query too short", "query", query)
		return cannedTooShort(), nil
	}
	if isGibberish(query) {
		s.log.Info("Gibberish detected", "query", query)
		return cannedGibberish(), nil
	}

	// 3. Injection-style input. Logged and refused, never forwarded.
	if matchesAnyPattern(queryLower, maliciousPatterns) {
		s.log.Warn("Blocked malicious input", "query", query)
		return cannedMalicious(), nil
	}

	// 4. Coherent but out of scope.
	if matchesAnyPattern(queryLower, confusedUserPatterns) {
		s.log.Info("Confused user detected", "query", query)
		return cannedConfusedUser(lastAnswerPreview(window)), nil
	}
	if matchesAnyPattern(queryLower, offTopicPatterns) {
		s.log.Info("Off-topic query", "query", query)
		return cannedOffTopic(), nil
	}

	// Anaphora with nothing to resolve against is unanswerable; ask the
	// user to name the company instead of searching for a pronoun.
	if hasReferences(query) && len(window) == 0 && len(extractEntities(query)) == 0 {
		s.log.Info("Reference with no antecedent", "query", query)
		return cannedClarifyReference(), nil
	}

	// 5. Legitimate research query.
	return s.decompose(ctx, query, window, mode)
}

func (s *plannerService) checkHardcoded(queryLower string) *research.Plan {
	switch {
	case matchesAnyPhrase(queryLower, offTopicExamplePhrases):
		return cannedOffTopicExample()
	case matchesAnyPhrase(queryLower, confusedPurposePhrases):
		return cannedConfusedPurpose()
	case matchesAnyPhrase(queryLower, identityPhrases):
		return cannedIdentity()
	}
	return nil
}

type decomposeResult struct {
	ResolvedQuery string   `json:"resolved_query"`
	Intent        string   `json:"intent"`
	SubQueries    []string `json:"sub_queries"`
}

// decodeInto round-trips a decoded JSON object into a typed struct.
func decodeInto(obj map[string]any, out any) error {
	raw, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (s *plannerService) decompose(ctx context.Context, query string, window []research.Turn, mode research.Mode) (*research.Plan, error) {
	count := mode.SubQueryCount()
	transcript := buildTranscript(window)

	var system, user string
	if hasReferences(query) && transcript != "" {
		system, user = promptDecomposeWithContext(query, transcript, count)
	} else {
		system, user = promptDecompose(query, count)
	}

	obj, err := s.llm.GenerateJSON(ctx, groq.TierFast, system, user)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warn("Planner LLM call failed, using fallback plan", "error", err)
		return s.fallbackPlan(query, window, mode), nil
	}

	var result decomposeResult
	if err := decodeInto(obj, &result); err != nil {
		s.log.Warn("Planner output malformed, using fallback plan", "error", err)
		return s.fallbackPlan(query, window, mode), nil
	}
	if strings.TrimSpace(result.ResolvedQuery) == "" || len(result.SubQueries) == 0 {
		s.log.Warn("Planner output missing fields, using fallback plan")
		return s.fallbackPlan(query, window, mode), nil
	}

	// Pad or trim to the mode's exact budget.
	for len(result.SubQueries) < count {
		base := result.SubQueries[0]
		result.SubQueries = append(result.SubQueries, base+" details")
	}
	result.SubQueries = result.SubQueries[:count]

	plan := &research.Plan{
		Type:          research.PlanSearch,
		ResolvedQuery: result.ResolvedQuery,
		QueryType:     detectQueryType(result.ResolvedQuery),
		SubQueries:    toSubQueries(result.SubQueries),
		Entities:      extractEntities(result.ResolvedQuery),
	}

	s.log.Info("Query decomposed",
		"original", query,
		"resolved", plan.ResolvedQuery,
		"query_type", string(plan.QueryType),
		"sub_queries", len(plan.SubQueries))

	return plan, nil
}

// fallbackPlan builds a deterministic plan from simple entity extraction
// when the LLM call or its output fails.
func (s *plannerService) fallbackPlan(query string, window []research.Turn, mode research.Mode) *research.Plan {
	var contextEntities []string
	seen := map[string]struct{}{}
	start := 0
	if len(window) > 2 {
		start = len(window) - 2
	}
	for _, turn := range window[start:] {
		for _, e := range append(extractEntities(turn.Query), extractEntities(turn.Answer)...) {
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			contextEntities = append(contextEntities, e)
		}
	}

	resolvedQuery := query
	base := query
	if hasReferences(query) && len(contextEntities) > 0 {
		main := contextEntities[0]
		resolvedQuery = main + " " + query
		base = main
		s.log.Info("Fallback plan resolved entity from context", "entity", main)
	}

	var subQueries []string
	if mode.SubQueryCount() == 5 {
		subQueries = []string{
			resolvedQuery,
			base + " detailed information",
			base + " comprehensive overview",
			base + " latest updates",
			base + " in-depth analysis",
		}
	} else {
		subQueries = []string{
			resolvedQuery,
			base + " information",
			base + " details",
		}
	}

	return &research.Plan{
		Type:          research.PlanSearch,
		ResolvedQuery: resolvedQuery,
		QueryType:     detectQueryType(resolvedQuery),
		SubQueries:    toSubQueries(subQueries[:mode.SubQueryCount()]),
		Entities:      contextEntities,
	}
}

func toSubQueries(texts []string) []research.SubQuery {
	out := make([]research.SubQuery, 0, len(texts))
	for i, t := range texts {
		out = append(out, research.SubQuery{Index: i + 1, Text: strings.TrimSpace(t)})
	}
	return out
}

// buildTranscript renders the recent turns as alternating USER/ASSISTANT
// messages, each truncated to 500 characters.
func buildTranscript(window []research.Turn) string {
	if len(window) == 0 {
		return ""
	}
	var parts []string
	for _, turn := range window {
		parts = append(parts, "USER: "+truncateMessage(turn.Query))
		if turn.Answer != "" {
			parts = append(parts, "ASSISTANT: "+truncateMessage(turn.Answer))
		}
	}
	return strings.Join(parts, "\n\n")
}

func truncateMessage(content string) string {
	if len(content) > 500 {
		return content[:500] + "..."
	}
	return content
}

func lastAnswerPreview(window []research.Turn) string {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i].Answer != "" {
			preview := window[i].Answer
			if len(preview) > 150 {
				preview = preview[:150]
			}
			return preview
		}
	}
	return ""
}

// detectQueryType infers the intent label from keywords in the resolved
// query. First matching bucket wins.
func detectQueryType(query string) research.QueryType {
	queryLower := strings.ToLower(query)
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(queryLower, w) {
				return true
			}
		}
		return false
	}

	switch {
	case has("ceo", "founder", "leader", "who is", "president", "chairman"):
		return research.QueryPerson
	case has("product", "service", "feature", "offers", "what does"):
		return research.QueryProduct
	case has("revenue", "profit", "financial", "valuation", "funding", "stock", "earnings"):
		return research.QueryFinancial
	case has("compare", "vs", "versus", "difference between", "better than"):
		return research.QueryComparison
	case has("latest", "recent", "news", "update", "development", "new"):
		return research.QueryNews
	case has("how", "why", "when", "where"):
		return research.QueryExplanation
	case has("competitor", "competition", "rival", "alternative"):
		return research.QueryCompetitive
	case has("company", "business", "about", "tell me", "information", "details"):
		return research.QueryOverview
	default:
		return research.QueryGeneral
	}
}
