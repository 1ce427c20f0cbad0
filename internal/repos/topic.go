package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/researchdesk-backend/internal/domain/research"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
)

type TopicRepo interface {
	ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*research.ResearchTopic, error)
	Create(ctx context.Context, tx *gorm.DB, topic *research.ResearchTopic) (*research.ResearchTopic, error)
	Update(ctx context.Context, tx *gorm.DB, topic *research.ResearchTopic) error
	DeleteBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	repoLog := baseLog.With("repo", "TopicRepo")
	return &topicRepo{db: db, log: repoLog}
}

func (r *topicRepo) ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*research.ResearchTopic, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*research.ResearchTopic
	if err := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *topicRepo) Create(ctx context.Context, tx *gorm.DB, topic *research.ResearchTopic) (*research.ResearchTopic, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if topic.ID == uuid.Nil {
		topic.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(topic).Error; err != nil {
		return nil, err
	}
	return topic, nil
}

func (r *topicRepo) Update(ctx context.Context, tx *gorm.DB, topic *research.ResearchTopic) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(topic).Error
}

func (r *topicRepo) DeleteBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&research.ResearchTopic{}).Error
}
