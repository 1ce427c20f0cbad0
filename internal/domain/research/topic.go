package research

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ResearchTopic is one section of the accumulated research document.
// Similar follow-up queries fold into an existing topic; a deep-dive answer
// overwrites the folded topic's content.
type ResearchTopic struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`

	Topic string `gorm:"type:text;not null" json:"topic"`
	Query string `gorm:"type:text;not null" json:"query"`

	Content string         `gorm:"type:text;not null" json:"content"`
	Sources datatypes.JSON `gorm:"not null;default:'[]'" json:"sources"`

	DeepDive bool `gorm:"not null;default:false" json:"deep_dive"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ResearchTopic) TableName() string { return "research_topic" }
