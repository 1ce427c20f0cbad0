package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/researchdesk-backend/internal/clients/groq"
	"github.com/yungbote/researchdesk-backend/internal/domain/research"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
)

const (
	// Items scoring below this on the 0-10 combined scale are dropped.
	minQualityScore = 4.0

	// Word-set Jaccard similarity above which two items count as
	// near-duplicates.
	nearDupThreshold = 0.70

	analystConcurrency = 4
)

// AnalystService filters and scores pooled evidence, then extracts key
// facts per retained item for citation.
type AnalystService interface {
	Analyze(ctx context.Context, resolvedQuery string, items []research.EvidenceItem) ([]research.EvidenceItem, error)
}

type analystService struct {
	log *logger.Logger
	llm groq.Client
}

func NewAnalystService(llm groq.Client, baseLog *logger.Logger) AnalystService {
	return &analystService{
		log: baseLog.With("service", "AnalystService"),
		llm: llm,
	}
}

type itemAnalysis struct {
	RelevanceScore float64  `json:"relevance_score"`
	KeyFacts       []string `json:"key_facts"`
	MainTopics     []string `json:"main_topics"`
	Summary        string   `json:"summary"`
}

// Analyze scores, filters, and enriches the evidence set. Individual
// extraction failures drop the item silently; if extraction fails for
// everything, the scored items pass through with raw snippets so the
// writer still has material.
func (s *analystService) Analyze(ctx context.Context, resolvedQuery string, items []research.EvidenceItem) ([]research.EvidenceItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	// Heuristic scoring pass: provider relevance combined with content
	// quality, then threshold and near-duplicate filtering.
	scored := make([]research.EvidenceItem, 0, len(items))
	for _, item := range items {
		item.Score = combineScore(item)
		if item.Score < minQualityScore {
			s.log.Debug("Dropped low-quality item", "url", item.URL, "score", item.Score)
			continue
		}
		scored = append(scored, item)
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	retained := dropNearDuplicates(scored, s.log)
	if len(retained) == 0 {
		return nil, nil
	}

	// Fact extraction pass.
	enriched := make([]*research.EvidenceItem, len(retained))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(analystConcurrency)
	var mu sync.Mutex

	for i := range retained {
		i := i
		g.Go(func() error {
			item := retained[i]
			analysis, err := s.extractFacts(gctx, resolvedQuery, item)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.log.Warn("Fact extraction failed, excluding item", "url", item.URL, "error", err)
				return nil
			}
			item.KeyFacts = analysis.KeyFacts
			item.Summary = analysis.Summary
			mu.Lock()
			enriched[i] = &item
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []research.EvidenceItem
	for _, item := range enriched {
		if item != nil {
			out = append(out, *item)
		}
	}

	// Everything failed extraction: pass the scored items through with
	// their raw snippets rather than starving the writer.
	if len(out) == 0 {
		s.log.Warn("Fact extraction failed for all items, passing raw snippets through")
		for _, item := range retained {
			item.KeyFacts = []string{item.Snippet}
			item.Summary = item.Snippet
			out = append(out, item)
		}
	}

	for i := range out {
		out[i].SourceID = i + 1
	}

	s.log.Info("Evidence analyzed", "in", len(items), "retained", len(out))
	return out, nil
}

func (s *analystService) extractFacts(ctx context.Context, resolvedQuery string, item research.EvidenceItem) (*itemAnalysis, error) {
	system, user := promptAnalyzeItem(resolvedQuery, item)
	obj, err := s.llm.GenerateJSON(ctx, groq.TierCapable, system, user)
	if err != nil {
		return nil, err
	}
	var analysis itemAnalysis
	if err := decodeInto(obj, &analysis); err != nil {
		return nil, err
	}
	if strings.TrimSpace(analysis.Summary) == "" {
		analysis.Summary = item.Snippet
	}
	if len(analysis.KeyFacts) == 0 {
		analysis.KeyFacts = []string{item.Snippet}
	}
	return &analysis, nil
}

// combineScore mixes the provider's relevance (0..1 scaled to 0..10) with a
// content quality score into one 0..10 ranking value.
func combineScore(item research.EvidenceItem) float64 {
	relevance := item.ProviderScore * 10
	if relevance > 10 {
		relevance = 10
	}
	return 0.7*relevance + 0.3*contentQuality(item.Content)
}

// contentQuality rates text 0..10 on length and specificity, penalizing
// obvious boilerplate.
func contentQuality(content string) float64 {
	content = strings.TrimSpace(content)
	words := strings.Fields(content)

	var score float64
	switch {
	case len(words) >= 120:
		score = 8
	case len(words) >= 50:
		score = 6
	case len(words) >= 20:
		score = 4
	default:
		score = 2
	}

	// Specific content carries numbers, dates, figures.
	if strings.IndexFunc(content, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0 {
		score += 2
	}

	lower := strings.ToLower(content)
	for _, marker := range []string{"accept cookies", "subscribe to", "all rights reserved", "sign up for"} {
		if strings.Contains(lower, marker) {
			score -= 2
			break
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score
}

// dropNearDuplicates removes items whose content is a near-duplicate of a
// higher-scored item. Input must already be sorted by score descending.
func dropNearDuplicates(items []research.EvidenceItem, log *logger.Logger) []research.EvidenceItem {
	var kept []research.EvidenceItem
	var keptWords []map[string]struct{}

	for _, item := range items {
		words := wordSet(item.Content)
		dup := false
		for _, kw := range keptWords {
			if jaccard(words, kw) > nearDupThreshold {
				dup = true
				break
			}
		}
		if dup {
			log.Debug("Dropped near-duplicate item", "url", item.URL)
			continue
		}
		kept = append(kept, item)
		keptWords = append(keptWords, words)
	}
	return kept
}

func wordSet(text string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[strings.Trim(w, ".,!?;:\"'()[]")] = struct{}{}
	}
	delete(set, "")
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
