package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/catonzio/plum-backend/internal/agent"
	"github.com/catonzio/plum-backend/internal/http/response"
	"github.com/catonzio/plum-backend/internal/platform/dbctx"
	"github.com/catonzio/plum-backend/internal/platform/logger"
	"github.com/catonzio/plum-backend/internal/services"
)

type ChatHandler struct {
	log  *logger.Logger
	chat services.ChatService
}

func NewChatHandler(log *logger.Logger, chat services.ChatService) *ChatHandler {
	return &ChatHandler{log: log.With("handler", "ChatHandler"), chat: chat}
}

type newChatInput struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

type newChatOutput struct {
	ChatID  uuid.UUID          `json:"chat_id"`
	Message *agent.ChatMessage `json:"message"`
}

type chatStatusOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// POST /chat/new
func (h *ChatHandler) New(c *gin.Context) {
	var input newChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	chat, err := h.chat.NewChat(dbc, input.UserID)
	if err != nil {
		h.log.Error("Failed to create chat", "user_id", input.UserID.String(), "error", err)
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, newChatOutput{
		ChatID: chat.ID,
		Message: &agent.ChatMessage{
			Type:           "ai",
			Content:        services.WelcomeMessage,
			ConversationID: chat.ID.String(),
		},
	})
}

// GET /chat/:chat_id/close
func (h *ChatHandler) Close(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("chat_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_chat_id", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	if err := h.chat.CloseChat(dbc, chatID); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, chatStatusOutput{Success: true, Message: "Chat closed successfully"})
}

// DELETE /chat/:chat_id
func (h *ChatHandler) Delete(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("chat_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_chat_id", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	if err := h.chat.DeleteChat(dbc, chatID); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, chatStatusOutput{Success: true, Message: "Chat deleted successfully"})
}
