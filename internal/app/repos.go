package app

import (
	"gorm.io/gorm"

	"github.com/catonzio/plum-backend/internal/platform/logger"
	"github.com/catonzio/plum-backend/internal/repos"
)

type Repos struct {
	Chat        repos.ChatRepo
	ChatMessage repos.ChatMessageRepo
	Feedback    repos.FeedbackRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Chat:        repos.NewChatRepo(db, log),
		ChatMessage: repos.NewChatMessageRepo(db, log),
		Feedback:    repos.NewFeedbackRepo(db, log),
	}
}
