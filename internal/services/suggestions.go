package services

import (
	"strings"

	"github.com/yungbote/researchdesk-backend/internal/domain/research"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
)

// SuggestionsService derives short follow-up questions from the last turn.
// Pure rule-based; independent of the pipeline and never blocks chat.
type SuggestionsService interface {
	Suggest(lastQuery string, lastAnswer string, window []research.Turn) []string
}

type suggestionsService struct {
	log *logger.Logger
}

func NewSuggestionsService(baseLog *logger.Logger) SuggestionsService {
	return &suggestionsService{log: baseLog.With("service", "SuggestionsService")}
}

func (s *suggestionsService) Suggest(lastQuery string, lastAnswer string, window []research.Turn) []string {
	if len(window) == 0 {
		return []string{
			"Tell me about Tesla",
			"What is Apple's latest product?",
			"Compare Google and Microsoft",
			"/dig-deeper Who founded Amazon?",
		}
	}

	entities := suggestionEntities(lastQuery, lastAnswer)
	queryLower := strings.ToLower(lastQuery)
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(queryLower, w) {
				return true
			}
		}
		return false
	}

	switch {
	case has("company", "business", "organization"):
		main := "this company"
		if len(entities) > 0 {
			main = entities[0]
		}
		return []string{
			"Who is the CEO of " + main + "?",
			"What are the main products of " + main + "?",
			"Tell me about " + main + "'s competitors",
			"/dig-deeper Tell me more about " + main,
		}
	case has("ceo", "founder", "leader"):
		return []string{
			"What is their background?",
			"When did they join the company?",
			"Tell me about their achievements",
			"/dig-deeper What is their leadership style?",
		}
	case has("product", "service"):
		return []string{
			"How much does it cost?",
			"Who are the competitors?",
			"What are the key features?",
			"/dig-deeper Tell me about customer reviews",
		}
	case has("revenue", "financial", "profit"):
		return []string{
			"What is their market valuation?",
			"Tell me about their funding history",
			"How do they compare to competitors?",
			"/dig-deeper What is their growth rate?",
		}
	case len(entities) > 0:
		return []string{
			"Tell me more about " + entities[0],
			"What are recent developments in " + entities[0] + "?",
			"Who are the competitors of " + entities[0] + "?",
			"/dig-deeper " + entities[0] + " detailed analysis",
		}
	default:
		return nil
	}
}

// suggestionEntities pulls candidate names from the last query and the
// first 500 characters of the last answer, capped at 3.
func suggestionEntities(query string, answer string) []string {
	if len(answer) > 500 {
		answer = answer[:500]
	}
	seen := map[string]struct{}{}
	var entities []string
	for _, e := range append(extractEntities(query), extractEntities(answer)...) {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		entities = append(entities, e)
		if len(entities) == 3 {
			break
		}
	}
	return entities
}
