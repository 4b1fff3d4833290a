package app

import (
	"github.com/gin-gonic/gin"

	"github.com/catonzio/plum-backend/internal/platform/logger"
	"github.com/catonzio/plum-backend/internal/server"
)

func wireRouter(log *logger.Logger, handlerset Handlers) *gin.Engine {
	log.Info("Wiring router...")
	return server.NewRouter(server.RouterConfig{
		Log:             log,
		AgentHandler:    handlerset.Agent,
		ChatHandler:     handlerset.Chat,
		FeedbackHandler: handlerset.Feedback,
		QueryHandler:    handlerset.Query,
	})
}
