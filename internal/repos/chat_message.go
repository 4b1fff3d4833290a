package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/catonzio/plum-backend/internal/platform/logger"
	"github.com/catonzio/plum-backend/internal/types"
)

type ChatMessageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, message *types.ChatMessage) (*types.ChatMessage, error)
	GetByID(ctx context.Context, tx *gorm.DB, messageID uuid.UUID) (*types.ChatMessage, error)
	ListByChat(ctx context.Context, tx *gorm.DB, chatID uuid.UUID, limit int) ([]*types.ChatMessage, error)
}

type chatMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	repoLog := baseLog.With("repo", "ChatMessageRepo")
	return &chatMessageRepo{db: db, log: repoLog}
}

func (mr *chatMessageRepo) Create(ctx context.Context, tx *gorm.DB, message *types.ChatMessage) (*types.ChatMessage, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if message == nil {
		return nil, errors.New("message required")
	}

	if err := transaction.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

func (mr *chatMessageRepo) GetByID(ctx context.Context, tx *gorm.DB, messageID uuid.UUID) (*types.ChatMessage, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var result types.ChatMessage
	err := transaction.WithContext(ctx).
		Where("id = ?", messageID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (mr *chatMessageRepo) ListByChat(ctx context.Context, tx *gorm.DB, chatID uuid.UUID, limit int) ([]*types.ChatMessage, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if limit <= 0 {
		limit = 50
	}

	var results []*types.ChatMessage
	if err := transaction.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("timestamp ASC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
