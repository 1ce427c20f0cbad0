package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/yungbote/researchdesk-backend/internal/clients/redis"
	"github.com/yungbote/researchdesk-backend/internal/domain/research"
	"github.com/yungbote/researchdesk-backend/internal/pkg/errors"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
)

// SessionService owns conversation state per session and serializes
// pipeline executions that mutate the same conversation.
type SessionService interface {
	Create(ctx context.Context) (uuid.UUID, error)
	Get(ctx context.Context, sessionID uuid.UUID) (*research.Conversation, error)
	AppendTurn(ctx context.Context, sessionID uuid.UUID, turn research.Turn) error
	// Reset clears the session's conversation and returns a fresh session id.
	Reset(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error)

	// Lock serializes turn processing for one session. The returned
	// function releases the lock.
	Lock(sessionID uuid.UUID) func()
}

type sessionService struct {
	log   *logger.Logger
	store redisclient.ConversationStore

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewSessionService wires the conversation store. Pass nil to fall back to
// an in-process store; conversations then live only as long as the process.
func NewSessionService(store redisclient.ConversationStore, baseLog *logger.Logger) SessionService {
	log := baseLog.With("service", "SessionService")
	if store == nil {
		log.Warn("No conversation store configured, using in-memory store")
		store = newMemoryConversationStore()
	}
	return &sessionService{
		log:   log,
		store: store,
		locks: map[uuid.UUID]*sync.Mutex{},
	}
}

func (s *sessionService) Create(ctx context.Context) (uuid.UUID, error) {
	conv := &research.Conversation{
		SessionID: uuid.New(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Put(ctx, conv); err != nil {
		return uuid.Nil, err
	}
	s.log.Info("Session created", "session_id", conv.SessionID.String())
	return conv.SessionID, nil
}

func (s *sessionService) Get(ctx context.Context, sessionID uuid.UUID) (*research.Conversation, error) {
	conv, err := s.store.Get(ctx, sessionID)
	if err == errors.ErrNotFound {
		conv = &research.Conversation{
			SessionID: sessionID,
			CreatedAt: time.Now().UTC(),
		}
		if putErr := s.store.Put(ctx, conv); putErr != nil {
			return nil, putErr
		}
		return conv, nil
	}
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *sessionService) AppendTurn(ctx context.Context, sessionID uuid.UUID, turn research.Turn) error {
	conv, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	conv.Turns = append(conv.Turns, turn)
	return s.store.Put(ctx, conv)
}

func (s *sessionService) Reset(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error) {
	if sessionID != uuid.Nil {
		if err := s.store.Delete(ctx, sessionID); err != nil {
			s.log.Warn("Failed to delete old conversation", "session_id", sessionID.String(), "error", err)
		}
	}
	return s.Create(ctx)
}

func (s *sessionService) Lock(sessionID uuid.UUID) func() {
	s.mu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// memoryConversationStore is the development fallback when Redis is not
// configured.
type memoryConversationStore struct {
	mu    sync.RWMutex
	convs map[uuid.UUID]*research.Conversation
}

func newMemoryConversationStore() redisclient.ConversationStore {
	return &memoryConversationStore{convs: map[uuid.UUID]*research.Conversation{}}
}

func (m *memoryConversationStore) Get(_ context.Context, sessionID uuid.UUID) (*research.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conv, ok := m.convs[sessionID]
	if !ok {
		return nil, errors.ErrNotFound
	}
	clone := *conv
	clone.Turns = append([]research.Turn(nil), conv.Turns...)
	return &clone, nil
}

func (m *memoryConversationStore) Put(_ context.Context, conv *research.Conversation) error {
	if conv == nil || conv.SessionID == uuid.Nil {
		return errors.ErrInvalidArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *conv
	clone.Turns = append([]research.Turn(nil), conv.Turns...)
	m.convs[conv.SessionID] = &clone
	return nil
}

func (m *memoryConversationStore) Delete(_ context.Context, sessionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.convs, sessionID)
	return nil
}

func (m *memoryConversationStore) Close() error { return nil }
