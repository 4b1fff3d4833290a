package agent

import (
	"context"
	"fmt"

	"github.com/catonzio/plum-backend/internal/platform/apierr"
	"github.com/catonzio/plum-backend/internal/platform/logger"
)

// Orchestrator drives one request through an agent run and shapes the result.
type Orchestrator interface {
	// Invoke resolves the turn, runs the agent to completion and returns the
	// canonical response stamped with run and conversation identifiers.
	Invoke(ctx context.Context, input UserInput, agentID string) (*ChatMessage, error)
	// Agents lists the registered agents.
	Agents() []AgentInfo
}

type orchestrator struct {
	log      *logger.Logger
	registry *Registry
}

func NewOrchestrator(baseLog *logger.Logger, registry *Registry) Orchestrator {
	return &orchestrator{
		log:      baseLog.With("service", "AgentOrchestrator"),
		registry: registry,
	}
}

func (o *orchestrator) Agents() []AgentInfo {
	return o.registry.List()
}

func (o *orchestrator) Invoke(ctx context.Context, input UserInput, agentID string) (*ChatMessage, error) {
	ag, err := o.registry.Lookup(agentID)
	if err != nil {
		return nil, err
	}

	cfg, err := buildRunConfig(input)
	if err != nil {
		return nil, err
	}

	state, err := ag.GetState(ctx, cfg)
	if err != nil {
		return nil, apierr.Internal(
			"agent_state_failed",
			fmt.Errorf("get state for agent %s conversation %s: %w", agentID, cfg.ConversationID, err),
		)
	}
	runInput := buildRunInput(input, state)

	o.log.Debug("Invoking agent",
		"agent_id", agentID,
		"conversation_id", cfg.ConversationID,
		"run_id", cfg.RunID.String(),
		"resuming", runInput.Resume != nil,
	)

	events, err := ag.Run(ctx, runInput, cfg)
	if err != nil {
		return nil, apierr.Internal(
			"agent_run_failed",
			fmt.Errorf("run agent %s conversation %s: %w", agentID, cfg.ConversationID, err),
		)
	}
	if len(events) == 0 {
		return nil, apierr.Internal(
			"unexpected_response_type",
			fmt.Errorf("unexpected response type: agent returned no events"),
		)
	}

	// Only the last event is interpreted; intermediate tool steps that may
	// also represent assistant turns are dropped here. Known limitation.
	last := events[len(events)-1]

	var output *ChatMessage
	switch {
	case last.Kind == EventKindValues:
		output, err = ProcessOutput(last.Messages)
		if err != nil {
			return nil, err
		}
	case last.Kind == EventKindUpdates && len(last.Interrupts) > 0:
		// The run suspended; surface the first interrupt as the assistant
		// message so the client can answer it.
		output, err = Normalize(AIMessage{Content: last.Interrupts[0].Value})
		if err != nil {
			return nil, err
		}
	default:
		return nil, apierr.Internal(
			"unexpected_response_type",
			fmt.Errorf("unexpected response type: %s", last.Kind),
		)
	}

	correlate(output, cfg)
	return output, nil
}

// correlate stamps the identifiers clients need to continue the conversation
// and to link feedback, plus the resolved user id for persistence.
func correlate(msg *ChatMessage, cfg RunConfig) {
	msg.RunID = cfg.RunID.String()
	msg.ConversationID = cfg.ConversationID
	msg.UserID = cfg.UserID
}
