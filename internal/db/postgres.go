package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/catonzio/plum-backend/internal/platform/envutil"
	"github.com/catonzio/plum-backend/internal/platform/logger"
	"github.com/catonzio/plum-backend/internal/types"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := envutil.String("POSTGRES_HOST", "localhost")
	postgresPort := envutil.String("POSTGRES_PORT", "5432")
	postgresUser := envutil.String("POSTGRES_USER", "postgres")
	postgresPassword := envutil.String("POSTGRES_PASSWORD", "")
	postgresName := envutil.String("POSTGRES_DB", "plum")

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresPassword, postgresHost, postgresPort, postgresName,
	)

	serviceLog.Info("Connecting to Postgres...", "host", postgresHost, "db", postgresName)
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Chat{},
		&types.ChatMessage{},
		&types.Feedback{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	if err := s.db.Exec(`
		ALTER TABLE "chat_messages"
		DROP CONSTRAINT IF EXISTS "fk_chat_messages_chat_id";
	`).Error; err != nil {
		return fmt.Errorf("drop fk_chat_messages_chat_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "chat_messages"
		ADD CONSTRAINT "fk_chat_messages_chat_id"
		FOREIGN KEY ("chat_id")
		REFERENCES "chats"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("add fk_chat_messages_chat_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "feedbacks"
		DROP CONSTRAINT IF EXISTS "fk_feedbacks_message_id";
	`).Error; err != nil {
		return fmt.Errorf("drop fk_feedbacks_message_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "feedbacks"
		ADD CONSTRAINT "fk_feedbacks_message_id"
		FOREIGN KEY ("message_id")
		REFERENCES "chat_messages"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("add fk_feedbacks_message_id: %w", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
