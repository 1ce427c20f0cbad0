package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/yungbote/researchdesk-backend/internal/clients/groq"
	"github.com/yungbote/researchdesk-backend/internal/clients/tavily"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
)

func newTestLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// fakeLLM implements groq.Client for tests. Handlers are optional; an
// unset handler fails the call.
type fakeLLM struct {
	mu     sync.Mutex
	jsonN  int
	textN  int
	jsonFn func(tier groq.Tier, system, user string) (map[string]any, error)
	textFn func(tier groq.Tier, system, user string) (string, error)
}

func (f *fakeLLM) GenerateJSON(_ context.Context, tier groq.Tier, system string, user string) (map[string]any, error) {
	f.mu.Lock()
	f.jsonN++
	f.mu.Unlock()
	if f.jsonFn == nil {
		return nil, stderrors.New("no json handler")
	}
	return f.jsonFn(tier, system, user)
}

func (f *fakeLLM) GenerateText(_ context.Context, tier groq.Tier, system string, user string, _ float64) (string, error) {
	f.mu.Lock()
	f.textN++
	f.mu.Unlock()
	if f.textFn == nil {
		return "", stderrors.New("no text handler")
	}
	return f.textFn(tier, system, user)
}

func (f *fakeLLM) jsonCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jsonN
}

func (f *fakeLLM) textCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.textN
}

// fakeSearch implements tavily.Client for tests.
type fakeSearch struct {
	mu      sync.Mutex
	queries []string
	fn      func(query string, maxResults int) ([]tavily.Result, error)
}

func (f *fakeSearch) Search(_ context.Context, query string, maxResults int) ([]tavily.Result, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.fn == nil {
		return nil, stderrors.New("no search handler")
	}
	return f.fn(query, maxResults)
}

func (f *fakeSearch) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

// statusErr simulates a provider HTTP failure with a status code, which is
// what decides retryability.
type statusErr struct{ code int }

func (e *statusErr) Error() string { return fmt.Sprintf("provider returned status %d", e.code) }

func (e *statusErr) HTTPStatusCode() int { return e.code }
