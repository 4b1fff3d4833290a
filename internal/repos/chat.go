package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/catonzio/plum-backend/internal/platform/logger"
	"github.com/catonzio/plum-backend/internal/types"
)

type ChatRepo interface {
	Create(ctx context.Context, tx *gorm.DB, chat *types.Chat) (*types.Chat, error)
	GetByID(ctx context.Context, tx *gorm.DB, chatID uuid.UUID) (*types.Chat, error)
	SetClosed(ctx context.Context, tx *gorm.DB, chatID uuid.UUID, closed bool) error
	Delete(ctx context.Context, tx *gorm.DB, chatID uuid.UUID) error
}

type chatRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatRepo(db *gorm.DB, baseLog *logger.Logger) ChatRepo {
	repoLog := baseLog.With("repo", "ChatRepo")
	return &chatRepo{db: db, log: repoLog}
}

func (cr *chatRepo) Create(ctx context.Context, tx *gorm.DB, chat *types.Chat) (*types.Chat, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if chat == nil {
		return nil, errors.New("chat required")
	}

	if err := transaction.WithContext(ctx).Create(chat).Error; err != nil {
		return nil, err
	}
	return chat, nil
}

func (cr *chatRepo) GetByID(ctx context.Context, tx *gorm.DB, chatID uuid.UUID) (*types.Chat, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Chat
	err := transaction.WithContext(ctx).
		Where("id = ?", chatID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *chatRepo) SetClosed(ctx context.Context, tx *gorm.DB, chatID uuid.UUID, closed bool) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Chat{}).
		Where("id = ?", chatID).
		Update("is_closed", closed).Error
}

func (cr *chatRepo) Delete(ctx context.Context, tx *gorm.DB, chatID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", chatID).
		Delete(&types.Chat{}).Error
}
