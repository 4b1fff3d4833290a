package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/catonzio/plum-backend/internal/platform/logger"
	"github.com/catonzio/plum-backend/internal/types"
)

type FeedbackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, feedback *types.Feedback) (*types.Feedback, error)
	ListByMessage(ctx context.Context, tx *gorm.DB, messageID uuid.UUID) ([]*types.Feedback, error)
	DeleteByMessage(ctx context.Context, tx *gorm.DB, messageID uuid.UUID) error
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	repoLog := baseLog.With("repo", "FeedbackRepo")
	return &feedbackRepo{db: db, log: repoLog}
}

func (fr *feedbackRepo) Create(ctx context.Context, tx *gorm.DB, feedback *types.Feedback) (*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	if feedback == nil {
		return nil, errors.New("feedback required")
	}

	if err := transaction.WithContext(ctx).Create(feedback).Error; err != nil {
		return nil, err
	}
	return feedback, nil
}

func (fr *feedbackRepo) ListByMessage(ctx context.Context, tx *gorm.DB, messageID uuid.UUID) ([]*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var results []*types.Feedback
	if err := transaction.WithContext(ctx).
		Where("message_id = ?", messageID).
		Order("timestamp ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *feedbackRepo) DeleteByMessage(ctx context.Context, tx *gorm.DB, messageID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	return transaction.WithContext(ctx).
		Where("message_id = ?", messageID).
		Delete(&types.Feedback{}).Error
}
