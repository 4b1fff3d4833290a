package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat is one conversation session. Closed chats stay readable until deleted.
type Chat struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;column:user_id" json:"user_id"`
	IsClosed  bool      `gorm:"not null;default:false;column:is_closed" json:"is_closed"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`
}

func (Chat) TableName() string {
	return "chats"
}

func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return nil
}
