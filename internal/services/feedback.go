package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/catonzio/plum-backend/internal/platform/apierr"
	"github.com/catonzio/plum-backend/internal/platform/dbctx"
	"github.com/catonzio/plum-backend/internal/platform/logger"
	"github.com/catonzio/plum-backend/internal/repos"
	"github.com/catonzio/plum-backend/internal/types"
)

type FeedbackService interface {
	// Submit records feedback for a persisted turn with replace semantics:
	// prior feedback rows for the message are deleted first, so at most one
	// active feedback per message survives.
	Submit(dbc dbctx.Context, messageID uuid.UUID, isPositive bool, description string) (*types.Feedback, error)
}

type feedbackService struct {
	db        *gorm.DB
	log       *logger.Logger
	messages  repos.ChatMessageRepo
	feedbacks repos.FeedbackRepo
}

func NewFeedbackService(
	db *gorm.DB,
	baseLog *logger.Logger,
	messageRepo repos.ChatMessageRepo,
	feedbackRepo repos.FeedbackRepo,
) FeedbackService {
	return &feedbackService{
		db:        db,
		log:       baseLog.With("service", "FeedbackService"),
		messages:  messageRepo,
		feedbacks: feedbackRepo,
	}
}

func (s *feedbackService) Submit(dbc dbctx.Context, messageID uuid.UUID, isPositive bool, description string) (*types.Feedback, error) {
	message, err := s.messages.GetByID(dbc.Ctx, dbc.Tx, messageID)
	if err != nil {
		return nil, fmt.Errorf("load message: %w", err)
	}
	if message == nil {
		return nil, apierr.NotFound("message_not_found", fmt.Errorf("message not found: %s", messageID))
	}

	feedback := &types.Feedback{
		MessageID:   messageID,
		IsPositive:  isPositive,
		Description: description,
	}

	transaction := dbc.Tx
	if transaction == nil {
		transaction = s.db
	}
	err = transaction.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.feedbacks.DeleteByMessage(dbc.Ctx, tx, messageID); err != nil {
			return fmt.Errorf("delete prior feedback: %w", err)
		}
		if _, err := s.feedbacks.Create(dbc.Ctx, tx, feedback); err != nil {
			return fmt.Errorf("create feedback: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Feedback recorded",
		"message_id", messageID.String(),
		"is_positive", isPositive,
	)
	return feedback, nil
}
