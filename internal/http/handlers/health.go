package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/catonzio/plum-backend/internal/http/response"
	"github.com/catonzio/plum-backend/internal/platform/logger"
	"github.com/catonzio/plum-backend/internal/platform/qdrant"
)

const defaultQueryLimit = 10

// GET /plum_chatbot/health
func HealthCheck(c *gin.Context) {
	response.RespondOK(c, gin.H{"status": "ok"})
}

type QueryHandler struct {
	log     *logger.Logger
	vectors qdrant.VectorStore
}

func NewQueryHandler(log *logger.Logger, vectors qdrant.VectorStore) *QueryHandler {
	return &QueryHandler{log: log.With("handler", "QueryHandler"), vectors: vectors}
}

// GET /plum_chatbot/query
//
// Direct similarity search against the vector store, bypassing the agent.
// Useful for inspecting what the retriever would hand the model.
func (h *QueryHandler) Query(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_query", errors.New("query parameter is required"))
		return
	}
	limit := defaultQueryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}

	docs, err := h.vectors.Search(c.Request.Context(), query, limit)
	if err != nil {
		h.log.Error("Vector query failed", "error", err)
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"query": query, "results": docs})
}
