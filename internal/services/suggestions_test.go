package services

import (
	"reflect"
	"strings"
	"testing"

	"github.com/yungbote/researchdesk-backend/internal/domain/research"
)

func TestSuggestDefaultsForNewConversation(t *testing.T) {
	svc := NewSuggestionsService(newTestLogger())

	got := svc.Suggest("", "", nil)
	want := []string{
		"Tell me about Tesla",
		"What is Apple's latest product?",
		"Compare Google and Microsoft",
		"/dig-deeper Who founded Amazon?",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Suggest() = %v, want %v", got, want)
	}
}

func TestSuggestRuleBuckets(t *testing.T) {
	window := []research.Turn{{Query: "previous", Answer: "previous answer"}}

	cases := []struct {
		name       string
		lastQuery  string
		lastAnswer string
		wantFirst  string
	}{
		{
			name:       "company bucket uses the entity",
			lastQuery:  "Tesla company overview",
			lastAnswer: "Tesla builds electric cars.",
			wantFirst:  "Who is the CEO of Tesla?",
		},
		{
			name:       "company bucket without entity",
			lastQuery:  "business overview please",
			lastAnswer: "it is a business",
			wantFirst:  "Who is the CEO of this company?",
		},
		{
			name:       "leadership bucket",
			lastQuery:  "who is the ceo of Apple",
			lastAnswer: "Tim Cook leads Apple.",
			wantFirst:  "What is their background?",
		},
		{
			name:       "product bucket",
			lastQuery:  "what products does Stripe offer",
			lastAnswer: "Payments.",
			wantFirst:  "How much does it cost?",
		},
		{
			name:       "financial bucket",
			lastQuery:  "Tesla revenue last quarter",
			lastAnswer: "Revenue grew.",
			wantFirst:  "What is their market valuation?",
		},
		{
			name:       "entity fallback",
			lastQuery:  "latest news on Nvidia",
			lastAnswer: "Nvidia shipped new chips.",
			wantFirst:  "Tell me more about Nvidia",
		},
	}

	svc := NewSuggestionsService(newTestLogger())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := svc.Suggest(tc.lastQuery, tc.lastAnswer, window)
			if len(got) != 4 {
				t.Fatalf("Suggest() returned %d suggestions, want 4", len(got))
			}
			if got[0] != tc.wantFirst {
				t.Fatalf("first suggestion = %q, want %q", got[0], tc.wantFirst)
			}
			deep := 0
			for _, s := range got {
				if strings.HasPrefix(s, "/dig-deeper") {
					deep++
				}
			}
			if deep != 1 {
				t.Fatalf("suggestions carry %d /dig-deeper entries, want 1: %v", deep, got)
			}
		})
	}
}

func TestSuggestNoMatch(t *testing.T) {
	svc := NewSuggestionsService(newTestLogger())
	window := []research.Turn{{Query: "previous", Answer: "previous answer"}}

	got := svc.Suggest("hello there everyone", "plain answer with nothing useful", window)
	if got != nil {
		t.Fatalf("Suggest() = %v, want nil", got)
	}
}
