package app

import (
	"gorm.io/gorm"

	"github.com/catonzio/plum-backend/internal/platform/logger"
	"github.com/catonzio/plum-backend/internal/services"
)

type Services struct {
	Chat     services.ChatService
	Feedback services.FeedbackService
}

func wireServices(db *gorm.DB, log *logger.Logger, reposet Repos) Services {
	log.Info("Wiring services...")
	return Services{
		Chat:     services.NewChatService(db, log, reposet.Chat, reposet.ChatMessage),
		Feedback: services.NewFeedbackService(db, log, reposet.ChatMessage, reposet.Feedback),
	}
}
