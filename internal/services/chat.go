package services

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/catonzio/plum-backend/internal/agent"
	"github.com/catonzio/plum-backend/internal/platform/apierr"
	"github.com/catonzio/plum-backend/internal/platform/dbctx"
	"github.com/catonzio/plum-backend/internal/platform/logger"
	"github.com/catonzio/plum-backend/internal/repos"
	"github.com/catonzio/plum-backend/internal/types"
)

// Greeting returned when a chat session is opened.
const WelcomeMessage = "Ciao! Io sono PlumChatbot, come posso esserti utile?"

type ChatService interface {
	// NewChat opens a chat session for a user.
	NewChat(dbc dbctx.Context, userID uuid.UUID) (*types.Chat, error)
	// GetChat returns the chat or a not-found error.
	GetChat(dbc dbctx.Context, chatID uuid.UUID) (*types.Chat, error)
	// CloseChat marks the session closed; the history stays readable.
	CloseChat(dbc dbctx.Context, chatID uuid.UUID) error
	// DeleteChat removes the session and, through cascade, its turns.
	DeleteChat(dbc dbctx.Context, chatID uuid.UUID) error
	// RecordTurn persists one successful question/answer exchange. The chat
	// row is created on the fly for conversations the resolver started.
	RecordTurn(dbc dbctx.Context, chatID uuid.UUID, userID uuid.UUID, question string, answer *agent.ChatMessage) (*types.ChatMessage, error)
}

type chatService struct {
	db       *gorm.DB
	log      *logger.Logger
	chats    repos.ChatRepo
	messages repos.ChatMessageRepo
}

func NewChatService(
	db *gorm.DB,
	baseLog *logger.Logger,
	chatRepo repos.ChatRepo,
	messageRepo repos.ChatMessageRepo,
) ChatService {
	return &chatService{
		db:       db,
		log:      baseLog.With("service", "ChatService"),
		chats:    chatRepo,
		messages: messageRepo,
	}
}

func (s *chatService) NewChat(dbc dbctx.Context, userID uuid.UUID) (*types.Chat, error) {
	if userID == uuid.Nil {
		return nil, apierr.Validation("missing_user_id", fmt.Errorf("user_id required"))
	}
	chat := &types.Chat{UserID: userID}
	if _, err := s.chats.Create(dbc.Ctx, dbc.Tx, chat); err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	s.log.Info("Chat session created", "chat_id", chat.ID.String(), "user_id", userID.String())
	return chat, nil
}

func (s *chatService) GetChat(dbc dbctx.Context, chatID uuid.UUID) (*types.Chat, error) {
	chat, err := s.chats.GetByID(dbc.Ctx, dbc.Tx, chatID)
	if err != nil {
		return nil, fmt.Errorf("load chat: %w", err)
	}
	if chat == nil {
		return nil, apierr.NotFound("chat_not_found", fmt.Errorf("chat not found: %s", chatID))
	}
	return chat, nil
}

func (s *chatService) CloseChat(dbc dbctx.Context, chatID uuid.UUID) error {
	if _, err := s.GetChat(dbc, chatID); err != nil {
		return err
	}
	if err := s.chats.SetClosed(dbc.Ctx, dbc.Tx, chatID, true); err != nil {
		return fmt.Errorf("close chat: %w", err)
	}
	s.log.Info("Chat session closed", "chat_id", chatID.String())
	return nil
}

func (s *chatService) DeleteChat(dbc dbctx.Context, chatID uuid.UUID) error {
	if _, err := s.GetChat(dbc, chatID); err != nil {
		return err
	}
	if err := s.chats.Delete(dbc.Ctx, dbc.Tx, chatID); err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	s.log.Info("Chat session deleted", "chat_id", chatID.String())
	return nil
}

func (s *chatService) RecordTurn(dbc dbctx.Context, chatID uuid.UUID, userID uuid.UUID, question string, answer *agent.ChatMessage) (*types.ChatMessage, error) {
	if answer == nil {
		return nil, fmt.Errorf("answer required")
	}

	existing, err := s.chats.GetByID(dbc.Ctx, dbc.Tx, chatID)
	if err != nil {
		return nil, fmt.Errorf("load chat: %w", err)
	}
	if existing == nil {
		if _, err := s.chats.Create(dbc.Ctx, dbc.Tx, &types.Chat{ID: chatID, UserID: userID}); err != nil {
			return nil, fmt.Errorf("create chat for turn: %w", err)
		}
	}

	row := &types.ChatMessage{
		ChatID:   chatID,
		Question: question,
		Answer:   answer.Content,
	}
	if len(answer.ToolCalls) > 0 {
		raw, err := json.Marshal(answer.ToolCalls)
		if err != nil {
			return nil, fmt.Errorf("encode tool calls: %w", err)
		}
		row.ToolCalls = datatypes.JSON(raw)
	}

	if _, err := s.messages.Create(dbc.Ctx, dbc.Tx, row); err != nil {
		return nil, fmt.Errorf("persist turn: %w", err)
	}
	return row, nil
}
