package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/catonzio/plum-backend/internal/http/response"
	"github.com/catonzio/plum-backend/internal/platform/dbctx"
	"github.com/catonzio/plum-backend/internal/platform/logger"
	"github.com/catonzio/plum-backend/internal/services"
)

type FeedbackHandler struct {
	log       *logger.Logger
	feedbacks services.FeedbackService
}

func NewFeedbackHandler(log *logger.Logger, feedbacks services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{log: log.With("handler", "FeedbackHandler"), feedbacks: feedbacks}
}

type newFeedbackInput struct {
	MessageID   uuid.UUID `json:"message_id" binding:"required"`
	IsPositive  *bool     `json:"is_positive" binding:"required"`
	Description string    `json:"description"`
}

type newFeedbackOutput struct {
	FeedbackID uuid.UUID `json:"feedback_id"`
	Message    string    `json:"message"`
}

// POST /feedbacks/new
func (h *FeedbackHandler) New(c *gin.Context) {
	var input newFeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	fb, err := h.feedbacks.Submit(dbc, input.MessageID, *input.IsPositive, input.Description)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, newFeedbackOutput{
		FeedbackID: fb.ID,
		Message:    "Feedback recorded successfully",
	})
}
