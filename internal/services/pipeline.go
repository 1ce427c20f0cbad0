package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/researchdesk-backend/internal/domain/research"
	"github.com/yungbote/researchdesk-backend/internal/pkg/errors"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
)

const digDeeperPrefix = "/dig-deeper"

const (
	noResultsAnswer = "I couldn't find any information. Please try rephrasing."

	digDeeperUsageAnswer = "Usage: /dig-deeper <your query>\n\nExample: /dig-deeper Tell me about Tesla"
)

// TurnResult is what one pipeline run returns to the transport layer.
type TurnResult struct {
	Answer    string             `json:"answer"`
	KeyPoints []string           `json:"key_points"`
	Sources   []research.Source  `json:"sources"`
	Mode      research.Mode      `json:"mode"`
	QueryType research.QueryType `json:"query_type,omitempty"`
}

// PipelineService runs the plan, search, analyze, write stages for one user
// message and records the finished turn.
type PipelineService interface {
	Run(ctx context.Context, sessionID uuid.UUID, message string) (*TurnResult, error)
}

type pipelineService struct {
	log      *logger.Logger
	sessions SessionService
	planner  PlannerService
	hunter   HunterService
	analyst  AnalystService
	writer   WriterService
	document DocumentService
}

func NewPipelineService(
	sessions SessionService,
	planner PlannerService,
	hunter HunterService,
	analyst AnalystService,
	writer WriterService,
	document DocumentService,
	baseLog *logger.Logger,
) PipelineService {
	return &pipelineService{
		log:      baseLog.With("service", "PipelineService"),
		sessions: sessions,
		planner:  planner,
		hunter:   hunter,
		analyst:  analyst,
		writer:   writer,
		document: document,
	}
}

// Run processes one turn. Runs for the same session are serialized; a
// cancelled request abandons in-flight calls and writes nothing to the
// conversation.
func (s *pipelineService) Run(ctx context.Context, sessionID uuid.UUID, message string) (*TurnResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.ErrInvalidArgument
	}

	mode := research.ModeRegular
	if strings.HasPrefix(strings.ToLower(message), digDeeperPrefix) {
		mode = research.ModeDeep
		message = strings.TrimSpace(message[len(digDeeperPrefix):])
		if message == "" {
			return &TurnResult{Answer: digDeeperUsageAnswer, Mode: mode}, nil
		}
		s.log.Info("Deep mode selected", "session_id", sessionID.String())
	}

	unlock := s.sessions.Lock(sessionID)
	defer unlock()

	conv, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	window := conv.Window(research.PlannerWindow)

	plan, err := s.planner.Plan(ctx, message, window, mode)
	if err != nil {
		return nil, err
	}

	if !plan.IsSearch() {
		turn := research.Turn{
			ID:        uuid.New(),
			Query:     message,
			Mode:      mode,
			Answer:    plan.Answer,
			KeyPoints: plan.KeyPoints,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.sessions.AppendTurn(ctx, sessionID, turn); err != nil {
			return nil, err
		}
		s.log.Info("Turn short-circuited", "session_id", sessionID.String(), "plan_type", string(plan.Type))
		return &TurnResult{Answer: plan.Answer, KeyPoints: plan.KeyPoints, Mode: mode}, nil
	}

	items, err := s.hunter.Hunt(ctx, plan.SubQueries, mode)
	if err == errors.ErrNoEvidence {
		s.log.Warn("No evidence found", "session_id", sessionID.String(), "query", plan.ResolvedQuery)
		turn := research.Turn{
			ID:            uuid.New(),
			Query:         message,
			ResolvedQuery: plan.ResolvedQuery,
			QueryType:     plan.QueryType,
			Mode:          mode,
			SubQueries:    plan.SubQueries,
			Answer:        noResultsAnswer,
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.sessions.AppendTurn(ctx, sessionID, turn); err != nil {
			return nil, err
		}
		return &TurnResult{Answer: noResultsAnswer, Mode: mode, QueryType: plan.QueryType}, nil
	}
	if err != nil {
		return nil, err
	}

	analyzed, err := s.analyst.Analyze(ctx, plan.ResolvedQuery, items)
	if err != nil {
		return nil, err
	}

	answer, err := s.writer.Write(ctx, plan.ResolvedQuery, plan.QueryType, analyzed)
	if err != nil {
		return nil, err
	}

	turn := research.Turn{
		ID:            uuid.New(),
		Query:         message,
		ResolvedQuery: plan.ResolvedQuery,
		QueryType:     plan.QueryType,
		Mode:          mode,
		SubQueries:    plan.SubQueries,
		Answer:        answer.Text,
		KeyPoints:     answer.KeyPoints,
		Sources:       answer.Sources,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.sessions.AppendTurn(ctx, sessionID, turn); err != nil {
		return nil, err
	}

	if len(answer.Sources) > 0 {
		if err := s.document.Update(ctx, sessionID, message, answer.Text, answer.Sources, mode == research.ModeDeep); err != nil {
			// The answer already exists; losing a document fold should
			// not fail the turn.
			s.log.Warn("Document update failed", "session_id", sessionID.String(), "error", err)
		}
	}

	s.log.Info("Turn completed",
		"session_id", sessionID.String(),
		"mode", string(mode),
		"query_type", string(plan.QueryType),
		"sources", len(answer.Sources))

	return &TurnResult{
		Answer:    answer.Text,
		KeyPoints: answer.KeyPoints,
		Sources:   answer.Sources,
		Mode:      mode,
		QueryType: plan.QueryType,
	}, nil
}
