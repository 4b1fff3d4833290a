package app

import (
	"github.com/catonzio/plum-backend/internal/agent"
	"github.com/catonzio/plum-backend/internal/agent/rag"
	"github.com/catonzio/plum-backend/internal/platform/logger"
)

func wireAgents(log *logger.Logger, clients Clients) agent.Orchestrator {
	log.Info("Wiring agents...")
	registry := agent.NewRegistry()
	registry.Register(agent.DefaultAgentID, rag.New(log, clients.LLM, clients.State, clients.Vectors))
	return agent.NewOrchestrator(log, registry)
}
