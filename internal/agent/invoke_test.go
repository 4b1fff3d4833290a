package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/catonzio/plum-backend/internal/platform/apierr"
	"github.com/catonzio/plum-backend/internal/platform/logger"
)

type fakeAgent struct {
	state    RunState
	stateErr error
	events   []Event
	runErr   error

	gotInput RunInput
	gotCfg   RunConfig
}

func (f *fakeAgent) Info() AgentInfo {
	return AgentInfo{Key: "fake", Description: "test agent"}
}

func (f *fakeAgent) GetState(ctx context.Context, cfg RunConfig) (RunState, error) {
	return f.state, f.stateErr
}

func (f *fakeAgent) Run(ctx context.Context, input RunInput, cfg RunConfig) ([]Event, error) {
	f.gotInput = input
	f.gotCfg = cfg
	return f.events, f.runErr
}

func newTestOrchestrator(t *testing.T, fake *fakeAgent) Orchestrator {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	registry := NewRegistry()
	registry.Register("fake", fake)
	return NewOrchestrator(log, registry)
}

func TestInvokeUnknownAgent(t *testing.T) {
	orch := newTestOrchestrator(t, &fakeAgent{})
	_, err := orch.Invoke(context.Background(), UserInput{Message: "hi"}, "nope")
	if err == nil {
		t.Fatalf("Invoke: expected error for unknown agent")
	}
	status, code := apierr.StatusOf(err)
	if status != 404 || code != "agent_not_found" {
		t.Fatalf("status/code: got %d %q", status, code)
	}
}

func TestInvokeFreshConversation(t *testing.T) {
	fake := &fakeAgent{
		events: []Event{{
			Kind: EventKindValues,
			Messages: []Message{
				HumanMessage{Content: "what is plum?"},
				AIMessage{Content: "a fruit"},
			},
		}},
	}
	orch := newTestOrchestrator(t, fake)

	out, err := orch.Invoke(context.Background(), UserInput{Message: "what is plum?"}, "fake")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out.Type != "ai" || out.Content != "a fruit" {
		t.Fatalf("got type=%q content=%q", out.Type, out.Content)
	}
	if _, err := uuid.Parse(out.RunID); err != nil {
		t.Fatalf("run id %q not a uuid: %v", out.RunID, err)
	}
	if _, err := uuid.Parse(out.ConversationID); err != nil {
		t.Fatalf("conversation id %q not a uuid: %v", out.ConversationID, err)
	}
	if fake.gotInput.Resume != nil {
		t.Fatalf("fresh conversation must not resume")
	}
	if len(fake.gotInput.Messages) != 1 {
		t.Fatalf("messages: want 1, got %d", len(fake.gotInput.Messages))
	}
}

func TestInvokeCorrelatesUserID(t *testing.T) {
	events := []Event{{
		Kind:     EventKindValues,
		Messages: []Message{HumanMessage{Content: "q"}, AIMessage{Content: "a"}},
	}}

	fake := &fakeAgent{events: events}
	orch := newTestOrchestrator(t, fake)
	out, err := orch.Invoke(context.Background(), UserInput{Message: "q", UserID: "user-7"}, "fake")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out.UserID != "user-7" {
		t.Fatalf("user id: want=%q got=%q", "user-7", out.UserID)
	}

	// A minted user id surfaces too, matching the one the run executed under.
	fake = &fakeAgent{events: events}
	orch = newTestOrchestrator(t, fake)
	out, err = orch.Invoke(context.Background(), UserInput{Message: "q"}, "fake")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if _, err := uuid.Parse(out.UserID); err != nil {
		t.Fatalf("user id %q not a uuid: %v", out.UserID, err)
	}
	if out.UserID != fake.gotCfg.UserID {
		t.Fatalf("user id: response=%q run config=%q", out.UserID, fake.gotCfg.UserID)
	}
}

func TestInvokeResumesInterruptedConversation(t *testing.T) {
	fake := &fakeAgent{
		state: RunState{Tasks: []Task{{ID: "pending", Interrupts: []Interrupt{{Value: "which one?"}}}}},
		events: []Event{{
			Kind:     EventKindValues,
			Messages: []Message{HumanMessage{Content: "q"}, AIMessage{Content: "done"}},
		}},
	}
	orch := newTestOrchestrator(t, fake)

	out, err := orch.Invoke(context.Background(), UserInput{Message: "the red one", ConversationID: "conv-1"}, "fake")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if fake.gotInput.Resume != "the red one" {
		t.Fatalf("resume: want=%q got=%v", "the red one", fake.gotInput.Resume)
	}
	if len(fake.gotInput.Messages) != 0 {
		t.Fatalf("resume must not carry messages, got %d", len(fake.gotInput.Messages))
	}
	if out.ConversationID != "conv-1" {
		t.Fatalf("conversation id: want=%q got=%q", "conv-1", out.ConversationID)
	}
}

func TestInvokeSurfacesInterruptAsAIMessage(t *testing.T) {
	fake := &fakeAgent{
		events: []Event{{
			Kind:       EventKindUpdates,
			Interrupts: []Interrupt{{Value: "which account do you mean?"}, {Value: "second"}},
		}},
	}
	orch := newTestOrchestrator(t, fake)

	out, err := orch.Invoke(context.Background(), UserInput{Message: "close my account"}, "fake")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out.Type != "ai" {
		t.Fatalf("type: want=%q got=%q", "ai", out.Type)
	}
	if out.Content != "which account do you mean?" {
		t.Fatalf("content: want first interrupt value, got %q", out.Content)
	}
}

func TestInvokeUpdatesWithoutInterrupts(t *testing.T) {
	fake := &fakeAgent{events: []Event{{Kind: EventKindUpdates}}}
	orch := newTestOrchestrator(t, fake)

	_, err := orch.Invoke(context.Background(), UserInput{Message: "hi"}, "fake")
	if err == nil {
		t.Fatalf("Invoke: expected error for updates event without interrupts")
	}
	if !strings.Contains(err.Error(), "unexpected response type") {
		t.Fatalf("error: got %q", err.Error())
	}
	if status, _ := apierr.StatusOf(err); status != 500 {
		t.Fatalf("status: want=500 got=%d", status)
	}
}

func TestInvokeNoEvents(t *testing.T) {
	fake := &fakeAgent{}
	orch := newTestOrchestrator(t, fake)

	_, err := orch.Invoke(context.Background(), UserInput{Message: "hi"}, "fake")
	if err == nil {
		t.Fatalf("Invoke: expected error for empty event stream")
	}
	if status, code := apierr.StatusOf(err); status != 500 || code != "unexpected_response_type" {
		t.Fatalf("status/code: got %d %q", status, code)
	}
}

func TestInvokeOnlyLastEventCounts(t *testing.T) {
	fake := &fakeAgent{
		events: []Event{
			{Kind: EventKindUpdates, Interrupts: []Interrupt{{Value: "stale interrupt"}}},
			{Kind: EventKindValues, Messages: []Message{
				HumanMessage{Content: "q"},
				AIMessage{Content: "final"},
			}},
		},
	}
	orch := newTestOrchestrator(t, fake)

	out, err := orch.Invoke(context.Background(), UserInput{Message: "q"}, "fake")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out.Content != "final" {
		t.Fatalf("content: want=%q got=%q", "final", out.Content)
	}
}

func TestInvokeToolAttributionEndToEnd(t *testing.T) {
	fake := &fakeAgent{
		events: []Event{{
			Kind: EventKindValues,
			Messages: []Message{
				HumanMessage{Content: "what does the manual say?"},
				AIMessage{Content: "", ToolCalls: []ToolCall{{Name: "query_vector_db", ID: "call-1"}}},
				ToolMessage{ID: "t1", Name: "query_vector_db", Status: "success", Content: "manual text", ToolCallID: "call-1"},
				AIMessage{Content: "the manual says hello"},
			},
		}},
	}
	orch := newTestOrchestrator(t, fake)

	out, err := orch.Invoke(context.Background(), UserInput{Message: "what does the manual say?"}, "fake")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out.Content != "the manual says hello" {
		t.Fatalf("content: got %q", out.Content)
	}
	if len(out.ToolCalls) != 1 {
		t.Fatalf("tool calls: want 1, got %d", len(out.ToolCalls))
	}
	if out.ToolCalls[0].Args != "success" {
		t.Fatalf("args: want=%q got=%v", "success", out.ToolCalls[0].Args)
	}
}

func TestInvokeStateFailure(t *testing.T) {
	fake := &fakeAgent{stateErr: errors.New("store down")}
	orch := newTestOrchestrator(t, fake)

	_, err := orch.Invoke(context.Background(), UserInput{Message: "hi"}, "fake")
	if err == nil {
		t.Fatalf("Invoke: expected error when state lookup fails")
	}
	if status, code := apierr.StatusOf(err); status != 500 || code != "agent_state_failed" {
		t.Fatalf("status/code: got %d %q", status, code)
	}
}

func TestInvokeReservedKeysRejectedBeforeRun(t *testing.T) {
	fake := &fakeAgent{}
	orch := newTestOrchestrator(t, fake)

	_, err := orch.Invoke(context.Background(), UserInput{
		Message:     "hi",
		AgentConfig: map[string]any{"conversation_id": "override"},
	}, "fake")
	if err == nil {
		t.Fatalf("Invoke: expected reserved-key error")
	}
	if status, _ := apierr.StatusOf(err); status != 422 {
		t.Fatalf("status: want=422 got=%d", status)
	}
}
