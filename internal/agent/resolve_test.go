package agent

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/catonzio/plum-backend/internal/platform/apierr"
)

func TestBuildRunConfigGeneratesMissingIDs(t *testing.T) {
	cfg, err := buildRunConfig(UserInput{Message: "hello"})
	if err != nil {
		t.Fatalf("buildRunConfig: %v", err)
	}
	if cfg.RunID == uuid.Nil {
		t.Fatalf("run id: expected fresh uuid, got nil")
	}
	if _, err := uuid.Parse(cfg.ConversationID); err != nil {
		t.Fatalf("conversation id %q not a uuid: %v", cfg.ConversationID, err)
	}
	if _, err := uuid.Parse(cfg.UserID); err != nil {
		t.Fatalf("user id %q not a uuid: %v", cfg.UserID, err)
	}
}

func TestBuildRunConfigPreservesSuppliedIDs(t *testing.T) {
	cfg, err := buildRunConfig(UserInput{
		Message:        "hello",
		ConversationID: "conv-1",
		UserID:         "user-1",
		Model:          "gpt-4o",
	})
	if err != nil {
		t.Fatalf("buildRunConfig: %v", err)
	}
	if cfg.ConversationID != "conv-1" {
		t.Fatalf("conversation id: want=%q got=%q", "conv-1", cfg.ConversationID)
	}
	if cfg.UserID != "user-1" {
		t.Fatalf("user id: want=%q got=%q", "user-1", cfg.UserID)
	}
	if cfg.Model != "gpt-4o" {
		t.Fatalf("model: want=%q got=%q", "gpt-4o", cfg.Model)
	}
}

func TestBuildRunConfigFreshRunIDPerCall(t *testing.T) {
	a, err := buildRunConfig(UserInput{Message: "hi", ConversationID: "conv-1"})
	if err != nil {
		t.Fatalf("buildRunConfig: %v", err)
	}
	b, err := buildRunConfig(UserInput{Message: "hi again", ConversationID: "conv-1"})
	if err != nil {
		t.Fatalf("buildRunConfig: %v", err)
	}
	if a.RunID == b.RunID {
		t.Fatalf("run id reused across invocations: %s", a.RunID)
	}
}

func TestBuildRunConfigRejectsReservedKeys(t *testing.T) {
	_, err := buildRunConfig(UserInput{
		Message: "hello",
		AgentConfig: map[string]any{
			"user_id":     "someone-else",
			"model":       "other-model",
			"temperature": 0.2,
		},
	})
	if err == nil {
		t.Fatalf("buildRunConfig: expected reserved-key error, got nil")
	}
	status, code := apierr.StatusOf(err)
	if status != 422 {
		t.Fatalf("status: want=422 got=%d", status)
	}
	if code != "reserved_agent_config_keys" {
		t.Fatalf("code: want=%q got=%q", "reserved_agent_config_keys", code)
	}
	// The message names the colliding keys in sorted order.
	if !strings.Contains(err.Error(), "[model, user_id]") {
		t.Fatalf("error should list colliding keys sorted, got %q", err.Error())
	}
}

func TestBuildRunConfigAcceptsCustomKeys(t *testing.T) {
	cfg, err := buildRunConfig(UserInput{
		Message:     "hello",
		AgentConfig: map[string]any{"temperature": 0.2, "top_k": 5},
	})
	if err != nil {
		t.Fatalf("buildRunConfig: %v", err)
	}
	if len(cfg.Extra) != 2 {
		t.Fatalf("extra config: want 2 keys, got %d", len(cfg.Extra))
	}
}

func TestBuildRunInputNewTurn(t *testing.T) {
	in := buildRunInput(UserInput{Message: "what is plum?"}, RunState{})
	if in.Resume != nil {
		t.Fatalf("resume: want nil, got %v", in.Resume)
	}
	if len(in.Messages) != 1 {
		t.Fatalf("messages: want 1, got %d", len(in.Messages))
	}
	human, ok := in.Messages[0].(HumanMessage)
	if !ok {
		t.Fatalf("message type: want HumanMessage, got %T", in.Messages[0])
	}
	if human.Content != "what is plum?" {
		t.Fatalf("content: want=%q got=%q", "what is plum?", human.Content)
	}
}

func TestBuildRunInputResumesInterruptedRun(t *testing.T) {
	state := RunState{Tasks: []Task{
		{ID: "done"},
		{ID: "pending", Interrupts: []Interrupt{{Value: "which account?"}}},
	}}
	in := buildRunInput(UserInput{Message: "the second one"}, state)
	if in.Resume != "the second one" {
		t.Fatalf("resume: want=%q got=%v", "the second one", in.Resume)
	}
	if len(in.Messages) != 0 {
		t.Fatalf("messages: want empty on resume, got %d", len(in.Messages))
	}
}

func TestRunStateInterrupted(t *testing.T) {
	if (RunState{}).Interrupted() {
		t.Fatalf("empty state must not report interrupted")
	}
	if (RunState{Tasks: []Task{{ID: "t1"}}}).Interrupted() {
		t.Fatalf("task without interrupts must not report interrupted")
	}
	state := RunState{Tasks: []Task{{ID: "t1", Interrupts: []Interrupt{{Value: 1}}}}}
	if !state.Interrupted() {
		t.Fatalf("task with interrupts must report interrupted")
	}
}
