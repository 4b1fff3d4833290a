package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/catonzio/plum-backend/internal/agent"
	"github.com/catonzio/plum-backend/internal/http/response"
	"github.com/catonzio/plum-backend/internal/platform/dbctx"
	"github.com/catonzio/plum-backend/internal/platform/logger"
	"github.com/catonzio/plum-backend/internal/services"
)

type AgentHandler struct {
	log          *logger.Logger
	agents       agent.Orchestrator
	chat         services.ChatService
	defaultAgent string
}

func NewAgentHandler(log *logger.Logger, agents agent.Orchestrator, chat services.ChatService, defaultAgent string) *AgentHandler {
	if defaultAgent == "" {
		defaultAgent = agent.DefaultAgentID
	}
	return &AgentHandler{
		log:          log.With("handler", "AgentHandler"),
		agents:       agents,
		chat:         chat,
		defaultAgent: defaultAgent,
	}
}

// GET /agent/list
func (h *AgentHandler) List(c *gin.Context) {
	response.RespondOK(c, gin.H{"agents": h.agents.Agents()})
}

// POST /agent/invoke
// POST /agent/:agent_id/invoke
//
// Invokes an agent with user input and returns its final response. Supply
// conversation_id to continue a multi-turn conversation; the returned run_id
// and message_id are used for correlation and feedback.
func (h *AgentHandler) Invoke(c *gin.Context) {
	var input agent.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	agentID := strings.TrimSpace(c.Param("agent_id"))
	if agentID == "" {
		agentID = h.defaultAgent
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}

	// A caller-supplied conversation id must name an existing chat session.
	if input.ConversationID != "" {
		chatID, err := uuid.Parse(input.ConversationID)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_conversation_id", err)
			return
		}
		if _, err := h.chat.GetChat(dbc, chatID); err != nil {
			response.RespondAPIError(c, err)
			return
		}
	}

	answer, err := h.agents.Invoke(c.Request.Context(), input, agentID)
	if err != nil {
		h.log.Error("Agent invocation failed",
			"agent_id", agentID,
			"conversation_id", input.ConversationID,
			"error", err,
		)
		response.RespondAPIError(c, err)
		return
	}

	chatID, err := uuid.Parse(answer.ConversationID)
	if err != nil {
		h.log.Error("Invalid resolved conversation id", "conversation_id", answer.ConversationID, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	// The resolver already settled the user identity for this run, minting
	// one when the caller supplied none; the chat row records the same id.
	userID, err := uuid.Parse(answer.UserID)
	if err != nil {
		userID, err = uuid.Parse(input.UserID)
		if err != nil {
			userID = uuid.New()
		}
	}

	row, err := h.chat.RecordTurn(dbc, chatID, userID, input.Message, answer)
	if err != nil {
		h.log.Error("Failed to persist turn",
			"conversation_id", answer.ConversationID,
			"error", err,
		)
		response.RespondAPIError(c, err)
		return
	}
	answer.MessageID = row.ID.String()

	response.RespondOK(c, answer)
}
