package app

import (
	"fmt"

	"github.com/catonzio/plum-backend/internal/agent/statestore"
	"github.com/catonzio/plum-backend/internal/platform/logger"
	"github.com/catonzio/plum-backend/internal/platform/openai"
	"github.com/catonzio/plum-backend/internal/platform/qdrant"
)

type Clients struct {
	LLM     openai.Client
	Vectors qdrant.VectorStore
	State   statestore.Store
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	llm, err := openai.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	qcfg, err := qdrant.ResolveConfigFromEnv()
	if err != nil {
		return Clients{}, fmt.Errorf("resolve qdrant config: %w", err)
	}
	vectors, err := qdrant.NewVectorStore(log, qcfg, llm)
	if err != nil {
		return Clients{}, fmt.Errorf("init vector store: %w", err)
	}

	state, err := wireStateStore(log, cfg.StateStore)
	if err != nil {
		return Clients{}, err
	}

	return Clients{LLM: llm, Vectors: vectors, State: state}, nil
}

func wireStateStore(log *logger.Logger, mode string) (statestore.Store, error) {
	switch mode {
	case "", "memory":
		return statestore.NewMemoryStore(), nil
	case "redis":
		store, err := statestore.NewRedisStore(log)
		if err != nil {
			return nil, fmt.Errorf("init redis state store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown state store mode %q", mode)
	}
}
