package services

import (
	"reflect"
	"testing"
)

func TestIsGibberish(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{name: "keyboard run", text: "asdfghjkl", want: true},
		{name: "numeric run", text: "12345 please", want: false},
		{name: "repeated chars", text: "aaaaaaaabbbb", want: true},
		{name: "no vowels", text: "xkcd zzrtpq", want: true},
		{name: "normal question", text: "Tell me about Tesla", want: false},
		{name: "normal with digits", text: "Apple revenue 2024", want: false},
		{name: "too few letters to judge", text: "hi", want: false},
		{name: "empty", text: "", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isGibberish(tc.text); got != tc.want {
				t.Fatalf("isGibberish(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestHasReferences(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  bool
	}{
		{name: "pronoun it", query: "tell me more about it", want: true},
		{name: "pronoun they", query: "what do they sell", want: true},
		{name: "the company", query: "who runs the company", want: true},
		{name: "demonstrative", query: "explain that in detail", want: true},
		{name: "no reference", query: "Tesla revenue 2024", want: false},
		{name: "substring is not a word", query: "visit detroit", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := hasReferences(tc.query); got != tc.want {
				t.Fatalf("hasReferences(%q) = %v, want %v", tc.query, got, tc.want)
			}
		})
	}
}

func TestExtractEntities(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single company",
			text: "what is the revenue of Tesla",
			want: []string{"Tesla"},
		},
		{
			name: "multi-word name",
			text: "Elon Musk runs a car company",
			want: []string{"Elon Musk"},
		},
		{
			name: "stopwords excluded",
			text: "The company According to Microsoft grew fast",
			want: []string{"Microsoft"},
		},
		{
			name: "deduplicated in first-seen order",
			text: "Apple and Google compete. Apple leads in phones.",
			want: []string{"Apple", "Google"},
		},
		{
			name: "capped at five",
			text: "Apple Inc beat Google here while Microsoft and Amazon chased Tesla and Netflix and Nvidia",
			want: []string{"Apple Inc", "Google", "Microsoft", "Amazon", "Tesla"},
		},
		{
			name: "all lowercase yields nothing",
			text: "tell me about electric cars",
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := extractEntities(tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("extractEntities(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestMatchesAnyPattern(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  bool
	}{
		{name: "sql injection", query: "drop table users", want: true},
		{name: "script tag", query: "<script>alert(1)</script>", want: true},
		{name: "tautology", query: "' or '1'='1", want: true},
		{name: "benign", query: "tell me about oracle database products", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := matchesAnyPattern(tc.query, maliciousPatterns); got != tc.want {
				t.Fatalf("matchesAnyPattern(%q) = %v, want %v", tc.query, got, tc.want)
			}
		})
	}
}
