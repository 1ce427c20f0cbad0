package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/researchdesk-backend/internal/domain/research"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
	"github.com/yungbote/researchdesk-backend/internal/repos"
)

// Topics whose word-set similarity exceeds this fold into one section.
const topicMergeThreshold = 0.5

// DocumentService folds each answered turn into a running research
// document per session, and renders it for preview and download.
type DocumentService interface {
	Update(ctx context.Context, sessionID uuid.UUID, query string, answer string, sources []research.Source, deepDive bool) error
	Preview(ctx context.Context, sessionID uuid.UUID) (string, error)
	// Export renders the document as markdown for download.
	Export(ctx context.Context, sessionID uuid.UUID) (string, error)
}

type documentService struct {
	db     *gorm.DB
	log    *logger.Logger
	topics repos.TopicRepo
}

func NewDocumentService(db *gorm.DB, topicRepo repos.TopicRepo, baseLog *logger.Logger) DocumentService {
	return &documentService{
		db:     db,
		log:    baseLog.With("service", "DocumentService"),
		topics: topicRepo,
	}
}

// Update appends a new topic section, or folds into an existing similar
// one. A regular answer never overwrites an existing section; a deep-dive
// answer replaces the folded section's content and sources.
func (s *documentService) Update(ctx context.Context, sessionID uuid.UUID, query string, answer string, sources []research.Source, deepDive bool) error {
	existing, err := s.topics.ListBySession(ctx, nil, sessionID)
	if err != nil {
		return err
	}

	topic := extractTopic(query)
	now := time.Now().UTC()

	for _, t := range existing {
		if !similarTopic(t.Topic, topic) {
			continue
		}
		if !deepDive {
			return nil
		}
		rawSources, err := json.Marshal(sources)
		if err != nil {
			return err
		}
		t.Content = answer
		t.Sources = datatypes.JSON(rawSources)
		t.DeepDive = true
		t.UpdatedAt = now
		s.log.Info("Topic overwritten by deep dive", "session_id", sessionID.String(), "topic", t.Topic)
		return s.topics.Update(ctx, nil, t)
	}

	rawSources, err := json.Marshal(sources)
	if err != nil {
		return err
	}
	_, err = s.topics.Create(ctx, nil, &research.ResearchTopic{
		SessionID: sessionID,
		Topic:     topic,
		Query:     query,
		Content:   answer,
		Sources:   datatypes.JSON(rawSources),
		DeepDive:  deepDive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return err
	}
	s.log.Info("Topic added to document", "session_id", sessionID.String(), "topic", topic)
	return nil
}

const emptyDocumentMessage = "No document available yet. Start a conversation to generate content."

func (s *documentService) Preview(ctx context.Context, sessionID uuid.UUID) (string, error) {
	topics, err := s.topics.ListBySession(ctx, nil, sessionID)
	if err != nil {
		return "", err
	}
	if len(topics) == 0 {
		return emptyDocumentMessage, nil
	}

	var b strings.Builder
	b.WriteString("<h1>Company Research Report</h1>\n")
	fmt.Fprintf(&b, "<p><em>Generated: %s</em></p>\n", topics[0].CreatedAt.Format("January 2, 2006 at 3:04 PM"))
	b.WriteString("<hr/>\n")

	for i, t := range topics {
		fmt.Fprintf(&b, "<h2>%d. %s</h2>\n", i+1, t.Topic)
		fmt.Fprintf(&b, "<p><strong>Query:</strong> %s</p>\n", t.Query)
		b.WriteString(renderHTML(t.Content))

		sources := decodeSources(t.Sources)
		if len(sources) > 0 {
			b.WriteString("<h3>Sources</h3>\n<ul class='source-list'>")
			for j, src := range sources {
				if j == 5 {
					break
				}
				fmt.Fprintf(&b, "<li><a href='%s' target='_blank'>%s</a></li>", src.URL, src.Title)
			}
			b.WriteString("</ul>")
		}
		b.WriteString("<hr/>\n")
	}
	return b.String(), nil
}

func (s *documentService) Export(ctx context.Context, sessionID uuid.UUID) (string, error) {
	topics, err := s.topics.ListBySession(ctx, nil, sessionID)
	if err != nil {
		return "", err
	}
	if len(topics) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("# Company Research Report\n\n")
	fmt.Fprintf(&b, "_Generated: %s_\n\n---\n\n", topics[0].CreatedAt.Format("January 2, 2006 at 3:04 PM"))

	for i, t := range topics {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, t.Topic)
		fmt.Fprintf(&b, "**Query:** %s\n\n", t.Query)
		b.WriteString(strings.TrimSpace(t.Content))
		b.WriteString("\n\n")

		sources := decodeSources(t.Sources)
		if len(sources) > 0 {
			b.WriteString("### Sources\n\n")
			for j, src := range sources {
				if j == 5 {
					break
				}
				fmt.Fprintf(&b, "- [%s](%s)\n", src.Title, src.URL)
			}
			b.WriteString("\n")
		}
		b.WriteString("---\n\n")
	}
	return b.String(), nil
}

func decodeSources(raw datatypes.JSON) []research.Source {
	var sources []research.Source
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &sources); err != nil {
		return nil
	}
	return sources
}

// extractTopic uses the first 8 words of the query as the section title.
func extractTopic(query string) string {
	words := strings.Fields(query)
	if len(words) <= 8 {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:8], " ") + "..."
}

func similarTopic(a, b string) bool {
	return jaccard(wordSet(a), wordSet(b)) > topicMergeThreshold
}

var (
	headingHTMLRe = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	bulletHTMLRe  = regexp.MustCompile(`(?m)^\s*[•\-]\s*(.+)$`)
	listHTMLRe    = regexp.MustCompile(`(?s)((?:<li>.*?</li>\s*)+)`)
)

// renderHTML converts the writer's lightweight markup into preview HTML.
func renderHTML(answer string) string {
	answer = headingHTMLRe.ReplaceAllString(answer, "<h2>$1</h2>")
	answer = bulletHTMLRe.ReplaceAllString(answer, "<li>$1</li>")
	answer = listHTMLRe.ReplaceAllString(answer, "<ul>$1</ul>")

	var b strings.Builder
	for _, part := range strings.Split(answer, "\n") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "<h2>") || strings.HasPrefix(part, "<ul>") || strings.HasPrefix(part, "<li>") {
			b.WriteString(part)
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(&b, "<p>%s</p>\n", part)
	}
	return b.String()
}
