package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/catonzio/plum-backend/internal/platform/apierr"
)

// Keys the turn resolver owns inside the run configuration. Caller-supplied
// agent_config must not overlap with them.
var reservedConfigKeys = []string{"conversation_id", "model", "user_id"}

// buildRunConfig assembles the per-invocation configuration: a fresh run id,
// conversation/user ids defaulted to new UUIDs, and the caller's agent_config
// merged in after the reserved-key collision check.
func buildRunConfig(input UserInput) (RunConfig, error) {
	cfg := RunConfig{
		ConversationID: input.ConversationID,
		UserID:         input.UserID,
		Model:          input.Model,
		RunID:          uuid.New(),
	}
	if cfg.ConversationID == "" {
		cfg.ConversationID = uuid.NewString()
	}
	if cfg.UserID == "" {
		cfg.UserID = uuid.NewString()
	}

	if len(input.AgentConfig) > 0 {
		var overlap []string
		for _, key := range reservedConfigKeys {
			if _, ok := input.AgentConfig[key]; ok {
				overlap = append(overlap, key)
			}
		}
		if len(overlap) > 0 {
			sort.Strings(overlap)
			return RunConfig{}, apierr.Validation(
				"reserved_agent_config_keys",
				fmt.Errorf("agent_config contains reserved keys: [%s]", strings.Join(overlap, ", ")),
			)
		}
		cfg.Extra = input.AgentConfig
	}

	return cfg, nil
}

// buildRunInput decides the payload shape from the prior run state. Any task
// suspended on an interrupt means the incoming message answers that interrupt
// and the run resumes with the raw content; otherwise the message opens a new
// turn.
func buildRunInput(input UserInput, state RunState) RunInput {
	if state.Interrupted() {
		return RunInput{Resume: input.Message}
	}
	return RunInput{
		Messages: []Message{HumanMessage{Content: input.Message}},
	}
}
