package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yungbote/researchdesk-backend/internal/clients/groq"
	"github.com/yungbote/researchdesk-backend/internal/domain/research"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
)

// Answer is the writer's structured output.
type Answer struct {
	Text       string            `json:"answer"`
	KeyPoints  []string          `json:"key_points"`
	Confidence string            `json:"confidence"`
	Sources    []research.Source `json:"sources"`
}

// WriterService synthesizes the analyst's evidence into a cited answer.
type WriterService interface {
	Write(ctx context.Context, resolvedQuery string, qt research.QueryType, items []research.EvidenceItem) (*Answer, error)
}

type writerService struct {
	log *logger.Logger
	llm groq.Client
}

func NewWriterService(llm groq.Client, baseLog *logger.Logger) WriterService {
	return &writerService{
		log: baseLog.With("service", "WriterService"),
		llm: llm,
	}
}

var citationRe = regexp.MustCompile(`\[(\d+)\]`)

const noEvidenceAnswer = "I couldn't find enough information to answer your question. Please try rephrasing or asking about something else."

// Write generates the answer text. Citation numbers in the output are
// contiguous from 1, assigned in first-reference order, and match the
// returned source list exactly. A synthesis that cites nothing counts as a
// failure and falls back to a deterministic fact-list answer.
func (s *writerService) Write(ctx context.Context, resolvedQuery string, qt research.QueryType, items []research.EvidenceItem) (*Answer, error) {
	if len(items) == 0 {
		return &Answer{Text: noEvidenceAnswer, Confidence: "low"}, nil
	}

	system, user := promptSynthesize(resolvedQuery, buildSourceContext(items), qt)

	text, err := s.llm.GenerateText(ctx, groq.TierCapable, system, user, 0.4)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warn("Synthesis failed, using fallback answer", "error", err)
		return s.fallbackAnswer(resolvedQuery, items), nil
	}

	text = strings.TrimSpace(text)
	if len(text) < 100 {
		s.log.Warn("Synthesis too short, using fallback answer", "chars", len(text))
		return s.fallbackAnswer(resolvedQuery, items), nil
	}

	renumbered, sources, ok := renumberCitations(text, items)
	if !ok {
		s.log.Warn("Synthesis carried no usable citations, using fallback answer")
		return s.fallbackAnswer(resolvedQuery, items), nil
	}

	answer := &Answer{
		Text:       tidyAnswer(renumbered),
		KeyPoints:  extractKeyPoints(renumbered, items),
		Confidence: "high",
		Sources:    sources,
	}

	s.log.Info("Answer generated", "chars", len(answer.Text), "sources", len(answer.Sources), "query_type", string(qt))
	return answer, nil
}

// buildSourceContext renders the evidence set as numbered sources the model
// can cite.
func buildSourceContext(items []research.EvidenceItem) string {
	var b strings.Builder
	for _, item := range items {
		summary := item.Summary
		if summary == "" {
			summary = item.Snippet
		}
		summary = cleanContextText(summary)
		if len(summary) > 600 {
			summary = summary[:600] + "..."
		}
		fmt.Fprintf(&b, "\n[%d] %s\n%s\n", item.SourceID, item.Title, summary)
	}
	return b.String()
}

// renumberCitations rewrites bracketed citation markers so numbering is
// contiguous from 1 in first-reference order, and returns the matching
// source list. Markers pointing at unknown source ids are removed. Returns
// ok=false when no valid marker survives.
func renumberCitations(text string, items []research.EvidenceItem) (string, []research.Source, bool) {
	byID := map[int]research.EvidenceItem{}
	for _, item := range items {
		byID[item.SourceID] = item
	}

	order := map[int]int{}
	var sources []research.Source

	out := citationRe.ReplaceAllStringFunc(text, func(m string) string {
		id, err := strconv.Atoi(strings.Trim(m, "[]"))
		if err != nil {
			return ""
		}
		item, known := byID[id]
		if !known {
			return ""
		}
		n, seen := order[id]
		if !seen {
			n = len(sources) + 1
			order[id] = n
			sources = append(sources, research.Source{
				ID:        n,
				URL:       item.URL,
				Title:     item.Title,
				Snippet:   item.Snippet,
				Relevance: item.Score,
			})
		}
		return "[" + strconv.Itoa(n) + "]"
	})

	if len(sources) == 0 {
		return text, nil, false
	}
	return out, sources, true
}

// fallbackAnswer lists extracted facts as plain bullet points with
// citations. Deterministic; used whenever synthesis fails.
func (s *writerService) fallbackAnswer(resolvedQuery string, items []research.EvidenceItem) *Answer {
	var b strings.Builder
	b.WriteString("**Answer**\n\n")

	first := items[0]
	lead := first.Summary
	if lead == "" {
		lead = first.Snippet
	}
	lead = truncateToSentence(cleanContextText(lead), 300)
	if lead != "" {
		fmt.Fprintf(&b, "%s [%d]\n\n", lead, 1)
	}

	var keyPoints []string
	b.WriteString("**Key Points**\n\n")

	var sources []research.Source
	cited := map[int]int{}
	cite := func(item research.EvidenceItem) int {
		if n, ok := cited[item.SourceID]; ok {
			return n
		}
		n := len(sources) + 1
		cited[item.SourceID] = n
		sources = append(sources, research.Source{
			ID:        n,
			URL:       item.URL,
			Title:     item.Title,
			Snippet:   item.Snippet,
			Relevance: item.Score,
		})
		return n
	}
	cite(first)

	total := 0
	for _, item := range items {
		if total >= 6 {
			break
		}
		for _, fact := range item.KeyFacts {
			fact = cleanContextText(fact)
			if len(fact) < 20 {
				continue
			}
			fact = truncateToSentence(fact, 250)
			fmt.Fprintf(&b, "• %s [%d]\n", fact, cite(item))
			keyPoints = append(keyPoints, fact)
			total++
			if total >= 6 {
				break
			}
		}
	}

	return &Answer{
		Text:       strings.TrimSpace(b.String()),
		KeyPoints:  keyPoints,
		Confidence: "medium",
		Sources:    sources,
	}
}

var (
	boldRe       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
	bulletLeadRe = regexp.MustCompile(`^[•\-*]\s*`)
)

// tidyAnswer normalizes spacing without touching content.
func tidyAnswer(text string) string {
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// extractKeyPoints pulls the answer's bullet lines, falling back to raw
// key facts when the answer has too few bullets.
func extractKeyPoints(answer string, items []research.EvidenceItem) []string {
	var points []string
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "•") && !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "*") {
			continue
		}
		point := bulletLeadRe.ReplaceAllString(line, "")
		point = boldRe.ReplaceAllString(point, "$1")
		point = strings.TrimSpace(citationRe.ReplaceAllString(point, ""))
		if len(point) > 15 && len(point) < 200 {
			points = append(points, point)
		}
	}

	if len(points) < 2 {
		for _, item := range items {
			if len(points) >= 6 {
				break
			}
			for _, fact := range item.KeyFacts {
				fact = cleanContextText(fact)
				if len(fact) > 10 {
					points = append(points, fact)
				}
				if len(points) >= 6 {
					break
				}
			}
		}
	}

	if len(points) > 6 {
		points = points[:6]
	}
	return points
}

var (
	controlRe = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f]`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

func cleanContextText(text string) string {
	text = controlRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSuffix(strings.TrimSpace(text), "...")
	return strings.TrimSpace(text)
}

// truncateToSentence cuts text at a sentence boundary near maxLen.
func truncateToSentence(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	truncated := text[:maxLen]
	lastPunct := -1
	for _, sep := range []string{". ", "! ", "? "} {
		if i := strings.LastIndex(truncated, sep); i > lastPunct {
			lastPunct = i
		}
	}
	if lastPunct > (maxLen*7)/10 {
		return strings.TrimSpace(text[:lastPunct+1])
	}
	if i := strings.LastIndex(truncated, " "); i > 0 {
		return strings.TrimSpace(text[:i]) + "."
	}
	return truncated + "."
}
