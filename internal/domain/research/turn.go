package research

import (
	"time"

	"github.com/google/uuid"
)

// PlannerWindow is how many recent turns the planner sees for reference
// resolution. Older turns are retained for export but not fed to the planner.
const PlannerWindow = 8

// Turn is one user message plus the assistant's response. Immutable once
// appended to a conversation.
type Turn struct {
	ID            uuid.UUID  `json:"id"`
	Query         string     `json:"query"`
	ResolvedQuery string     `json:"resolved_query"`
	QueryType     QueryType  `json:"query_type"`
	Mode          Mode       `json:"mode"`
	SubQueries    []SubQuery `json:"sub_queries,omitempty"`
	Answer        string     `json:"answer"`
	KeyPoints     []string   `json:"key_points,omitempty"`
	Sources       []Source   `json:"sources,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Conversation is the ordered sequence of turns owned by one session.
type Conversation struct {
	SessionID uuid.UUID `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	Turns     []Turn    `json:"turns"`
}

// Window returns the n most recent turns, oldest first.
func (c *Conversation) Window(n int) []Turn {
	if c == nil || n <= 0 || len(c.Turns) == 0 {
		return nil
	}
	if len(c.Turns) <= n {
		return c.Turns
	}
	return c.Turns[len(c.Turns)-n:]
}
