package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback rates one persisted turn. At most one active feedback per message
// is kept; submitting a new one replaces any prior rows.
type Feedback struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MessageID   uuid.UUID `gorm:"type:uuid;not null;index;column:message_id" json:"message_id"`
	IsPositive  bool      `gorm:"not null;column:is_positive" json:"is_positive"`
	Description string    `gorm:"type:text;default:'';column:description" json:"description"`
	Timestamp   time.Time `gorm:"not null;column:timestamp" json:"timestamp"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.Timestamp.IsZero() {
		f.Timestamp = time.Now().UTC()
	}
	return nil
}
