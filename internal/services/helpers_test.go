package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/catonzio/plum-backend/internal/platform/logger"
	"github.com/catonzio/plum-backend/internal/repos"
	"github.com/catonzio/plum-backend/internal/types"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&types.Chat{}, &types.ChatMessage{}, &types.Feedback{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

type testEnv struct {
	db        *gorm.DB
	chats     repos.ChatRepo
	messages  repos.ChatMessageRepo
	feedbacks repos.FeedbackRepo
	chat      ChatService
	feedback  FeedbackService
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	db := openTestDB(t)
	log := newTestLogger(t)
	chats := repos.NewChatRepo(db, log)
	messages := repos.NewChatMessageRepo(db, log)
	feedbacks := repos.NewFeedbackRepo(db, log)
	return testEnv{
		db:        db,
		chats:     chats,
		messages:  messages,
		feedbacks: feedbacks,
		chat:      NewChatService(db, log, chats, messages),
		feedback:  NewFeedbackService(db, log, messages, feedbacks),
	}
}
