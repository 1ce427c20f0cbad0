package services

import (
	"fmt"
	"strings"

	"github.com/yungbote/researchdesk-backend/internal/domain/research"
)

func promptDecompose(query string, count int) (system string, user string) {
	system = fmt.Sprintf(`You are a context-aware query analyzer for company research.
Return ONLY valid JSON with exactly %d sub-queries.`, count)
	user = fmt.Sprintf(`Create %d specific search queries for this question.

QUESTION: %s

OUTPUT (JSON only):
{"resolved_query": "%s", "intent": "user intent", "sub_queries": ["query 1", "query 2", "query %d"]}

IMPORTANT: Generate exactly %d sub-queries.`, count, query, query, count, count)
	return system, user
}

func promptDecomposeWithContext(query string, transcript string, count int) (system string, user string) {
	system = fmt.Sprintf(`You are a context-aware query analyzer for company research.
Return ONLY valid JSON with exactly %d sub-queries.`, count)
	user = fmt.Sprintf(`You are analyzing a conversation. The user just asked a follow-up question.

FULL CONVERSATION TRANSCRIPT:
%s

CURRENT QUESTION: %s

TASK:
1. Read the conversation transcript to understand what has been discussed
2. Identify what "he", "she", "it", "they", "this company", "that", etc. refer to
3. Rewrite the question with all references replaced by actual names
4. Create %d specific search queries

OUTPUT (JSON only, no markdown):
{"resolved_query": "question with all pronouns replaced", "intent": "user intent", "sub_queries": ["search query 1", "search query 2", "search query %d"]}

IMPORTANT: Generate exactly %d sub-queries.`, transcript, query, count, count, count)
	return system, user
}

func promptAnalyzeItem(resolvedQuery string, item research.EvidenceItem) (system string, user string) {
	system = `You are a JSON-only API. Return only valid JSON.`

	content := item.Content
	if len(content) > 2000 {
		content = content[:2000]
	}

	user = fmt.Sprintf(`Analyze this content for: %s

Title: %s
Content: %s

Return ONLY this exact JSON format (no markdown, no extra text):
{"relevance_score": 8, "key_facts": ["fact1", "fact2"], "main_topics": ["topic1"], "summary": "brief summary"}`, resolvedQuery, item.Title, content)
	return system, user
}

func promptSynthesize(query string, context string, qt research.QueryType) (system string, user string) {
	system = `You are a professional research analyst who writes clear, well-structured answers.
Cite sources inline with bracketed numbers like [1] or [2] that match the numbered sources you are given.
Adapt your structure to match the query type.`

	base := fmt.Sprintf(`Answer this query: %s

Use these sources:
%s

IMPORTANT RULES:
- Use section headings with **bold text**
- Use bullet points for lists
- Keep paragraphs concise (2-3 sentences)
- Add blank lines between sections
- Cite facts with bracketed source numbers, e.g. "revenue grew 12%% [2]"
- Only cite the numbered sources above, never invent a number
- Write 400-600 words
- Be factual and direct`, query, context)

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n")
	b.WriteString(templateFor(qt))
	b.WriteString("\n\nWrite the complete formatted answer now:")
	return system, b.String()
}
