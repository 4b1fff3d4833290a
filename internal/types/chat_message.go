package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChatMessage is one persisted question/answer turn. Immutable after insert
// except through feedback linkage. ToolCalls records the tool trace of the
// answering run as jsonb.
type ChatMessage struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ChatID    uuid.UUID      `gorm:"type:uuid;not null;index;column:chat_id" json:"chat_id"`
	Question  string         `gorm:"type:text;not null" json:"question"`
	Answer    string         `gorm:"type:text;not null" json:"answer"`
	ToolCalls datatypes.JSON `gorm:"type:jsonb;column:tool_calls" json:"tool_calls,omitempty"`
	Timestamp time.Time      `gorm:"not null;column:timestamp" json:"timestamp"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	return nil
}
