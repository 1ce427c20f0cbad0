package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/researchdesk-backend/internal/domain/research"
)

// fakeTopicRepo keeps topics in memory in insertion order.
type fakeTopicRepo struct {
	topics []*research.ResearchTopic
}

func (f *fakeTopicRepo) ListBySession(_ context.Context, _ *gorm.DB, sessionID uuid.UUID) ([]*research.ResearchTopic, error) {
	var out []*research.ResearchTopic
	for _, t := range f.topics {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTopicRepo) Create(_ context.Context, _ *gorm.DB, topic *research.ResearchTopic) (*research.ResearchTopic, error) {
	if topic.ID == uuid.Nil {
		topic.ID = uuid.New()
	}
	f.topics = append(f.topics, topic)
	return topic, nil
}

func (f *fakeTopicRepo) Update(_ context.Context, _ *gorm.DB, topic *research.ResearchTopic) error {
	for i, t := range f.topics {
		if t.ID == topic.ID {
			f.topics[i] = topic
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeTopicRepo) DeleteBySession(_ context.Context, _ *gorm.DB, sessionID uuid.UUID) error {
	var kept []*research.ResearchTopic
	for _, t := range f.topics {
		if t.SessionID != sessionID {
			kept = append(kept, t)
		}
	}
	f.topics = kept
	return nil
}

func testSources() []research.Source {
	return []research.Source{
		{ID: 1, URL: "https://one.example.com", Title: "One", Relevance: 8.1},
	}
}

func TestDocumentUpdateAppendsTopics(t *testing.T) {
	repo := &fakeTopicRepo{}
	doc := NewDocumentService(nil, repo, newTestLogger())
	sid := uuid.New()

	if err := doc.Update(context.Background(), sid, "Tell me about Tesla", "Tesla answer", testSources(), false); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if err := doc.Update(context.Background(), sid, "Who is the CEO of Apple", "Apple answer", testSources(), false); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if len(repo.topics) != 2 {
		t.Fatalf("topics = %d, want 2", len(repo.topics))
	}
	if repo.topics[0].Topic != "Tell me about Tesla" {
		t.Fatalf("topic = %q", repo.topics[0].Topic)
	}
}

func TestDocumentUpdateRegularNeverOverwrites(t *testing.T) {
	repo := &fakeTopicRepo{}
	doc := NewDocumentService(nil, repo, newTestLogger())
	sid := uuid.New()

	if err := doc.Update(context.Background(), sid, "Tell me about Tesla", "first answer", testSources(), false); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	// Near-identical query folds into the existing topic without touching it.
	if err := doc.Update(context.Background(), sid, "tell me about tesla", "second answer", testSources(), false); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if len(repo.topics) != 1 {
		t.Fatalf("topics = %d, want 1", len(repo.topics))
	}
	if repo.topics[0].Content != "first answer" {
		t.Fatalf("content = %q, want first answer kept", repo.topics[0].Content)
	}
}

func TestDocumentUpdateDeepDiveOverwrites(t *testing.T) {
	repo := &fakeTopicRepo{}
	doc := NewDocumentService(nil, repo, newTestLogger())
	sid := uuid.New()

	if err := doc.Update(context.Background(), sid, "Tell me about Tesla", "shallow answer", testSources(), false); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	deepSources := []research.Source{
		{ID: 1, URL: "https://deep.example.com", Title: "Deep", Relevance: 9.0},
	}
	if err := doc.Update(context.Background(), sid, "tell me about tesla", "deep answer", deepSources, true); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if len(repo.topics) != 1 {
		t.Fatalf("topics = %d, want 1", len(repo.topics))
	}
	topic := repo.topics[0]
	if topic.Content != "deep answer" || !topic.DeepDive {
		t.Fatalf("topic not overwritten: %+v", topic)
	}
	if !strings.Contains(string(topic.Sources), "deep.example.com") {
		t.Fatalf("sources not replaced: %s", topic.Sources)
	}
}

func TestDocumentPreviewEmpty(t *testing.T) {
	doc := NewDocumentService(nil, &fakeTopicRepo{}, newTestLogger())
	got, err := doc.Preview(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Preview error: %v", err)
	}
	if got != emptyDocumentMessage {
		t.Fatalf("preview = %q", got)
	}
}

func TestDocumentPreviewRendersTopics(t *testing.T) {
	repo := &fakeTopicRepo{}
	doc := NewDocumentService(nil, repo, newTestLogger())
	sid := uuid.New()

	answer := "**Overview**\n\nTesla builds electric cars.\n\n• Record deliveries\n• Growing energy business"
	if err := doc.Update(context.Background(), sid, "Tell me about Tesla", answer, testSources(), false); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	got, err := doc.Preview(context.Background(), sid)
	if err != nil {
		t.Fatalf("Preview error: %v", err)
	}
	for _, want := range []string{
		"<h1>Company Research Report</h1>",
		"<h2>1. Tell me about Tesla</h2>",
		"<h2>Overview</h2>",
		"<li>Record deliveries</li>",
		"https://one.example.com",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("preview missing %q:\n%s", want, got)
		}
	}
}

func TestDocumentExport(t *testing.T) {
	repo := &fakeTopicRepo{}
	doc := NewDocumentService(nil, repo, newTestLogger())
	sid := uuid.New()

	if err := doc.Update(context.Background(), sid, "Tell me about Tesla", "Tesla answer", testSources(), false); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	got, err := doc.Export(context.Background(), sid)
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	for _, want := range []string{
		"# Company Research Report",
		"## 1. Tell me about Tesla",
		"**Query:** Tell me about Tesla",
		"- [One](https://one.example.com)",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("export missing %q:\n%s", want, got)
		}
	}

	empty, err := doc.Export(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	if empty != "" {
		t.Fatalf("export for unknown session = %q, want empty", empty)
	}
}

func TestExtractTopic(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  string
	}{
		{name: "short query", query: "Tell me about Tesla", want: "Tell me about Tesla"},
		{
			name:  "long query truncated to eight words",
			query: "Tell me everything you know about the electric car maker Tesla",
			want:  "Tell me everything you know about the electric...",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractTopic(tc.query); got != tc.want {
				t.Fatalf("extractTopic(%q) = %q, want %q", tc.query, got, tc.want)
			}
		})
	}
}

func TestSimilarTopic(t *testing.T) {
	cases := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{name: "case-insensitive match", a: "Tell me about Tesla", b: "tell me about tesla", want: true},
		{name: "different companies", a: "Tell me about Tesla", b: "Who is the CEO of Apple", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := similarTopic(tc.a, tc.b); got != tc.want {
				t.Fatalf("similarTopic(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
