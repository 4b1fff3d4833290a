package app

import (
	"github.com/catonzio/plum-backend/internal/agent"
	"github.com/catonzio/plum-backend/internal/http/handlers"
	"github.com/catonzio/plum-backend/internal/platform/logger"
)

type Handlers struct {
	Agent    *handlers.AgentHandler
	Chat     *handlers.ChatHandler
	Feedback *handlers.FeedbackHandler
	Query    *handlers.QueryHandler
}

func wireHandlers(log *logger.Logger, cfg Config, orchestrator agent.Orchestrator, serviceset Services, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Agent:    handlers.NewAgentHandler(log, orchestrator, serviceset.Chat, cfg.DefaultAgent),
		Chat:     handlers.NewChatHandler(log, serviceset.Chat),
		Feedback: handlers.NewFeedbackHandler(log, serviceset.Feedback),
		Query:    handlers.NewQueryHandler(log, clients.Vectors),
	}
}
