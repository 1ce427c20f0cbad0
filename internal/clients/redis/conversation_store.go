package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/researchdesk-backend/internal/domain/research"
	"github.com/yungbote/researchdesk-backend/internal/pkg/errors"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
)

// ConversationStore persists conversations keyed by session id.
type ConversationStore interface {
	Get(ctx context.Context, sessionID uuid.UUID) (*research.Conversation, error)
	Put(ctx context.Context, conv *research.Conversation) error
	Delete(ctx context.Context, sessionID uuid.UUID) error
	Close() error
}

type conversationStore struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewConversationStore(log *logger.Logger) (ConversationStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	prefix := strings.TrimSpace(os.Getenv("REDIS_CONVERSATION_PREFIX"))
	if prefix == "" {
		prefix = "conv"
	}

	ttlHours := 24
	if v := os.Getenv("REDIS_CONVERSATION_TTL_HOURS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			ttlHours = parsed
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &conversationStore{
		log:    log.With("service", "RedisConversationStore"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    time.Duration(ttlHours) * time.Hour,
	}, nil
}

func (s *conversationStore) key(sessionID uuid.UUID) string {
	return s.prefix + ":" + sessionID.String()
}

func (s *conversationStore) Get(ctx context.Context, sessionID uuid.UUID) (*research.Conversation, error) {
	if s == nil || s.rdb == nil {
		return nil, fmt.Errorf("conversation store not initialized")
	}
	raw, err := s.rdb.Get(ctx, s.key(sessionID)).Bytes()
	if err == goredis.Nil {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var conv research.Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		s.log.Warn("bad conversation payload, dropping", "session_id", sessionID.String(), "error", err)
		return nil, errors.ErrNotFound
	}
	return &conv, nil
}

func (s *conversationStore) Put(ctx context.Context, conv *research.Conversation) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("conversation store not initialized")
	}
	if conv == nil || conv.SessionID == uuid.Nil {
		return errors.ErrInvalidArgument
	}
	raw, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(conv.SessionID), raw, s.ttl).Err()
}

func (s *conversationStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("conversation store not initialized")
	}
	return s.rdb.Del(ctx, s.key(sessionID)).Err()
}

func (s *conversationStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
