package services

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/yungbote/researchdesk-backend/internal/clients/groq"
	"github.com/yungbote/researchdesk-backend/internal/domain/research"
)

const richContent = "Tesla reported revenue of 25.5 billion dollars in the quarter, driven by " +
	"record vehicle deliveries across all regions. The company expanded its energy storage " +
	"business significantly and opened two new factories. Margins improved despite price cuts, " +
	"and the board approved additional capital expenditure for battery production capacity."

func extractionOK(tier groq.Tier, system, user string) (map[string]any, error) {
	return map[string]any{
		"relevance_score": 8,
		"key_facts":       []any{"Revenue reached 25.5 billion dollars", "Two new factories opened"},
		"main_topics":     []any{"financials"},
		"summary":         "Strong quarter with record deliveries.",
	}, nil
}

func TestAnalyzeDropsLowQualityItems(t *testing.T) {
	llm := &fakeLLM{jsonFn: extractionOK}
	analyst := NewAnalystService(llm, newTestLogger())

	items := []research.EvidenceItem{
		{URL: "https://good.example.com", Title: "Good", Snippet: "s", Content: richContent, ProviderScore: 0.9},
		{URL: "https://thin.example.com", Title: "Thin", Snippet: "s", Content: "short text", ProviderScore: 0.1},
	}
	out, err := analyst.Analyze(context.Background(), "Tesla revenue", items)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("retained = %d, want 1", len(out))
	}
	if out[0].URL != "https://good.example.com" {
		t.Fatalf("retained wrong item: %q", out[0].URL)
	}
	if out[0].SourceID != 1 {
		t.Fatalf("source id = %d, want 1", out[0].SourceID)
	}
	if len(out[0].KeyFacts) != 2 || out[0].Summary == "" {
		t.Fatalf("extraction not applied: %+v", out[0])
	}
}

func TestAnalyzeDropsNearDuplicates(t *testing.T) {
	llm := &fakeLLM{jsonFn: extractionOK}
	analyst := NewAnalystService(llm, newTestLogger())

	items := []research.EvidenceItem{
		{URL: "https://a.example.com", Title: "A", Snippet: "s", Content: richContent, ProviderScore: 0.7},
		{URL: "https://b.example.com", Title: "B", Snippet: "s", Content: richContent, ProviderScore: 0.9},
	}
	out, err := analyst.Analyze(context.Background(), "Tesla revenue", items)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("retained = %d, want 1", len(out))
	}
	// The higher-scored copy survives.
	if out[0].URL != "https://b.example.com" {
		t.Fatalf("retained wrong item: %q", out[0].URL)
	}
}

func TestAnalyzeExcludesFailedExtractions(t *testing.T) {
	llm := &fakeLLM{
		jsonFn: func(tier groq.Tier, system, user string) (map[string]any, error) {
			if strings.Contains(user, "Title: Flaky") {
				return nil, stderrors.New("model timeout")
			}
			return extractionOK(tier, system, user)
		},
	}
	analyst := NewAnalystService(llm, newTestLogger())

	items := []research.EvidenceItem{
		{URL: "https://a.example.com", Title: "Solid", Snippet: "s", Content: richContent, ProviderScore: 0.9},
		{URL: "https://b.example.com", Title: "Flaky", Snippet: "s", Content: "European regulators approved a charging standard in 2024, and several automakers signed partnerships to adopt it. Analysts expect rollout across 14 countries, with installation targets rising sharply through this decade under joint infrastructure funding programs.", ProviderScore: 0.8},
	}
	out, err := analyst.Analyze(context.Background(), "Tesla revenue", items)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("retained = %d, want 1", len(out))
	}
	if out[0].Title != "Solid" {
		t.Fatalf("retained wrong item: %q", out[0].Title)
	}
	if out[0].SourceID != 1 {
		t.Fatalf("source id = %d, want 1", out[0].SourceID)
	}
}

func TestAnalyzePassthroughWhenAllExtractionsFail(t *testing.T) {
	llm := &fakeLLM{
		jsonFn: func(tier groq.Tier, system, user string) (map[string]any, error) {
			return nil, stderrors.New("model unavailable")
		},
	}
	analyst := NewAnalystService(llm, newTestLogger())

	items := []research.EvidenceItem{
		{URL: "https://a.example.com", Title: "A", Snippet: "snippet a", Content: richContent, ProviderScore: 0.9},
		{URL: "https://b.example.com", Title: "B", Snippet: "snippet b", Content: "Completely unrelated article text discussing quarterly numbers for a competitor, with 3 plants and 9000 employees mentioned alongside long-term expansion plans in Asia and South America over the coming years.", ProviderScore: 0.8},
	}
	out, err := analyst.Analyze(context.Background(), "Tesla revenue", items)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("retained = %d, want 2", len(out))
	}
	for i, item := range out {
		if item.SourceID != i+1 {
			t.Fatalf("source id = %d, want %d", item.SourceID, i+1)
		}
		if len(item.KeyFacts) != 1 || item.KeyFacts[0] != item.Snippet {
			t.Fatalf("item %d missing snippet passthrough: %+v", i, item)
		}
		if item.Summary != item.Snippet {
			t.Fatalf("item %d summary = %q, want snippet", i, item.Summary)
		}
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	analyst := NewAnalystService(&fakeLLM{}, newTestLogger())
	out, err := analyst.Analyze(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if out != nil {
		t.Fatalf("out = %+v, want nil", out)
	}
}

func TestContentQuality(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    float64
	}{
		{name: "empty", content: "", want: 2},
		{name: "short with digits", content: "revenue was 12 billion", want: 4},
		{name: "boilerplate penalty", content: "Please accept cookies to continue reading our site today", want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := contentQuality(tc.content); got != tc.want {
				t.Fatalf("contentQuality(%q) = %v, want %v", tc.content, got, tc.want)
			}
		})
	}
}

func TestJaccard(t *testing.T) {
	a := wordSet("tesla revenue grew fast")
	b := wordSet("tesla revenue grew fast")
	if got := jaccard(a, b); got != 1 {
		t.Fatalf("identical sets = %v, want 1", got)
	}
	c := wordSet("completely different words here")
	if got := jaccard(a, c); got != 0 {
		t.Fatalf("disjoint sets = %v, want 0", got)
	}
	if got := jaccard(nil, nil); got != 0 {
		t.Fatalf("empty sets = %v, want 0", got)
	}
}
