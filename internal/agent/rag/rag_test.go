package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/catonzio/plum-backend/internal/agent"
	"github.com/catonzio/plum-backend/internal/agent/statestore"
	"github.com/catonzio/plum-backend/internal/platform/logger"
	"github.com/catonzio/plum-backend/internal/platform/openai"
	"github.com/catonzio/plum-backend/internal/platform/qdrant"
)

type fakeLLM struct {
	replies []*openai.ChatMessage
	calls   [][]openai.ChatMessage
}

func (f *fakeLLM) Complete(ctx context.Context, messages []openai.ChatMessage, tools []openai.ToolDef) (*openai.ChatMessage, map[string]any, error) {
	f.calls = append(f.calls, messages)
	if len(f.replies) == 0 {
		return nil, nil, errors.New("no scripted reply")
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, map[string]any{"model_name": "fake"}, nil
}

func (f *fakeLLM) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	return nil, errors.New("not used")
}

func (f *fakeLLM) Model() string { return "fake" }

type fakeRetriever struct {
	docs []qdrant.Document
	err  error

	gotQuery string
	gotLimit int
}

func (f *fakeRetriever) Ready(ctx context.Context) error { return nil }

func (f *fakeRetriever) Search(ctx context.Context, query string, limit int) ([]qdrant.Document, error) {
	f.gotQuery = query
	f.gotLimit = limit
	return f.docs, f.err
}

func newTestAgent(t *testing.T, llm *fakeLLM, retriever *fakeRetriever) (*Agent, statestore.Store) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	store := statestore.NewMemoryStore()
	return New(log, llm, store, retriever), store
}

func TestRunDirectAnswer(t *testing.T) {
	llm := &fakeLLM{replies: []*openai.ChatMessage{{Role: "assistant", Content: "ciao"}}}
	a, store := newTestAgent(t, llm, &fakeRetriever{})

	cfg := agent.RunConfig{ConversationID: "conv-1"}
	input := agent.RunInput{Messages: []agent.Message{agent.HumanMessage{Content: "ciao?"}}}

	events, err := a.Run(context.Background(), input, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(events) != 1 || events[0].Kind != agent.EventKindValues {
		t.Fatalf("events: want one values event, got %+v", events)
	}
	msgs := events[0].Messages
	if len(msgs) != 2 {
		t.Fatalf("messages: want 2, got %d", len(msgs))
	}
	ai, ok := msgs[1].(agent.AIMessage)
	if !ok || agent.FlattenContent(ai.Content) != "ciao" {
		t.Fatalf("final message: %#v", msgs[1])
	}

	// The system prompt is prepended on the wire but never checkpointed.
	if len(llm.calls) != 1 {
		t.Fatalf("llm calls: want 1, got %d", len(llm.calls))
	}
	if llm.calls[0][0].Role != "system" {
		t.Fatalf("first wire message must be the system prompt")
	}
	snap, err := store.Get(context.Background(), "conv-1")
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if len(snap.Messages) != 2 {
		t.Fatalf("checkpoint: want 2 messages, got %d", len(snap.Messages))
	}
}

func TestRunToolRound(t *testing.T) {
	llm := &fakeLLM{replies: []*openai.ChatMessage{
		{
			Role: "assistant",
			ToolCalls: []openai.ToolCall{{
				ID:   "call-1",
				Type: "function",
				Function: openai.ToolCallFunction{
					Name:      toolQueryVectorDB,
					Arguments: `{"query":"configurazione PEC","limit":2}`,
				},
			}},
		},
		{Role: "assistant", Content: "ecco come configurare la PEC"},
	}}
	retriever := &fakeRetriever{docs: []qdrant.Document{
		{ID: "d1", Content: "guida PEC", Metadata: map[string]any{"source": "manuale.pdf"}},
	}}
	a, _ := newTestAgent(t, llm, retriever)

	cfg := agent.RunConfig{ConversationID: "conv-1"}
	input := agent.RunInput{Messages: []agent.Message{agent.HumanMessage{Content: "come configuro la PEC?"}}}

	events, err := a.Run(context.Background(), input, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if retriever.gotQuery != "configurazione PEC" || retriever.gotLimit != 2 {
		t.Fatalf("retriever called with query=%q limit=%d", retriever.gotQuery, retriever.gotLimit)
	}

	msgs := events[0].Messages
	// human, ai tool request, tool result, ai final
	if len(msgs) != 4 {
		t.Fatalf("messages: want 4, got %d", len(msgs))
	}
	tool, ok := msgs[2].(agent.ToolMessage)
	if !ok {
		t.Fatalf("message 2: want ToolMessage, got %T", msgs[2])
	}
	if tool.Status != "success" || tool.ToolCallID != "call-1" {
		t.Fatalf("tool message: %+v", tool)
	}
	content := agent.FlattenContent(tool.Content)
	if !strings.Contains(content, "guida PEC") || !strings.Contains(content, "manuale.pdf") {
		t.Fatalf("tool content should carry source and text, got %q", content)
	}
}

func TestRunToolFailureRecorded(t *testing.T) {
	llm := &fakeLLM{replies: []*openai.ChatMessage{
		{
			Role: "assistant",
			ToolCalls: []openai.ToolCall{{
				ID:   "call-1",
				Type: "function",
				Function: openai.ToolCallFunction{
					Name:      toolQueryVectorDB,
					Arguments: `{"query":"x"}`,
				},
			}},
		},
		{Role: "assistant", Content: "non ho trovato nulla"},
	}}
	retriever := &fakeRetriever{err: errors.New("qdrant down")}
	a, _ := newTestAgent(t, llm, retriever)

	events, err := a.Run(context.Background(), agent.RunInput{
		Messages: []agent.Message{agent.HumanMessage{Content: "q"}},
	}, agent.RunConfig{ConversationID: "conv-1"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	tool, ok := events[0].Messages[2].(agent.ToolMessage)
	if !ok {
		t.Fatalf("message 2: want ToolMessage, got %T", events[0].Messages[2])
	}
	if tool.Status != "error" {
		t.Fatalf("status: want=%q got=%q", "error", tool.Status)
	}
}

func TestRunToolRoundLimit(t *testing.T) {
	// A model that never stops asking for tools must fail the run rather
	// than leave a dangling tool result as the final message.
	toolReply := &openai.ChatMessage{
		Role: "assistant",
		ToolCalls: []openai.ToolCall{{
			ID:   "call-x",
			Type: "function",
			Function: openai.ToolCallFunction{
				Name:      toolQueryVectorDB,
				Arguments: `{"query":"ancora"}`,
			},
		}},
	}
	llm := &fakeLLM{}
	for i := 0; i < maxToolRounds; i++ {
		llm.replies = append(llm.replies, toolReply)
	}
	retriever := &fakeRetriever{docs: []qdrant.Document{{ID: "d1", Content: "x"}}}
	a, store := newTestAgent(t, llm, retriever)
	ctx := context.Background()

	_, err := a.Run(ctx, agent.RunInput{
		Messages: []agent.Message{agent.HumanMessage{Content: "q"}},
	}, agent.RunConfig{ConversationID: "conv-1"})
	if err == nil {
		t.Fatalf("Run: expected error when the tool round limit is exhausted")
	}
	if !strings.Contains(err.Error(), "tool round limit") {
		t.Fatalf("error: got %q", err.Error())
	}
	if len(llm.calls) != maxToolRounds {
		t.Fatalf("completions: want=%d got=%d", maxToolRounds, len(llm.calls))
	}

	// The incomplete exchange is not checkpointed.
	snap, err := store.Get(ctx, "conv-1")
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if len(snap.Messages) != 0 {
		t.Fatalf("checkpoint: want empty after failed run, got %d messages", len(snap.Messages))
	}
}

func TestRunResumeClearsInterrupts(t *testing.T) {
	llm := &fakeLLM{replies: []*openai.ChatMessage{{Role: "assistant", Content: "grazie"}}}
	a, store := newTestAgent(t, llm, &fakeRetriever{})
	ctx := context.Background()

	seed := statestore.Snapshot{
		Messages:   []agent.Message{agent.HumanMessage{Content: "prima domanda"}},
		Interrupts: []agent.Interrupt{{Value: "quale condominio?"}},
	}
	if err := store.Put(ctx, "conv-1", seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	state, err := a.GetState(ctx, agent.RunConfig{ConversationID: "conv-1"})
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if !state.Interrupted() {
		t.Fatalf("seeded interrupt must surface through GetState")
	}

	_, err = a.Run(ctx, agent.RunInput{Resume: "il condominio Verdi"}, agent.RunConfig{ConversationID: "conv-1"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	snap, err := store.Get(ctx, "conv-1")
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if len(snap.Interrupts) != 0 {
		t.Fatalf("interrupts must clear on resume, got %+v", snap.Interrupts)
	}
	// prior human, resume human, ai reply
	if len(snap.Messages) != 3 {
		t.Fatalf("messages: want 3, got %d", len(snap.Messages))
	}
	state, err = a.GetState(ctx, agent.RunConfig{ConversationID: "conv-1"})
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if state.Interrupted() {
		t.Fatalf("state must not report interrupted after resume")
	}
}

func TestRunHistoryAccumulates(t *testing.T) {
	llm := &fakeLLM{replies: []*openai.ChatMessage{
		{Role: "assistant", Content: "prima risposta"},
		{Role: "assistant", Content: "seconda risposta"},
	}}
	a, _ := newTestAgent(t, llm, &fakeRetriever{})
	ctx := context.Background()
	cfg := agent.RunConfig{ConversationID: "conv-1"}

	if _, err := a.Run(ctx, agent.RunInput{Messages: []agent.Message{agent.HumanMessage{Content: "prima"}}}, cfg); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	events, err := a.Run(ctx, agent.RunInput{Messages: []agent.Message{agent.HumanMessage{Content: "seconda"}}}, cfg)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(events[0].Messages) != 4 {
		t.Fatalf("history: want 4 messages after two turns, got %d", len(events[0].Messages))
	}
	// The second completion sees the full prior history on the wire.
	secondWire := llm.calls[1]
	if len(secondWire) != 4 {
		t.Fatalf("wire: want system + 3 history messages, got %d", len(secondWire))
	}
}
