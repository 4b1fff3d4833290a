package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/catonzio/plum-backend/internal/agent"
	"github.com/catonzio/plum-backend/internal/agent/statestore"
	"github.com/catonzio/plum-backend/internal/platform/logger"
	"github.com/catonzio/plum-backend/internal/platform/openai"
	"github.com/catonzio/plum-backend/internal/platform/qdrant"
)

const systemPrompt = `Sei un assistente esperto del portale Plum, il sistema di comunicazione ufficiale del gestionale Lemon, progettato per supportare gli amministratori di condominio.

Il tuo compito è aiutare gli utenti a risolvere problemi pratici, rispondere a domande frequenti e guidarli nell'uso del portale Plum.

Prima di rispondere:
	- Leggi con attenzione tutti i documenti forniti.
	- Rifletti a fondo prima di scrivere una risposta.
	- Usa uno stile chiaro, diretto e pratico.
	- Evita invenzioni: se non sei sicuro, dì che non sai.
	- Rispondi sempre in italiano.

Usa strumenti esterni solo se necessario e solo dopo aver analizzato tutte le informazioni disponibili. Il tuo obiettivo è fornire una risposta completa basata sui documenti e sul contesto di Plum.

Se il problema riguarda configurazioni tecniche (email, PEC, invio documenti, pagamenti digitali, integrazioni), assicurati di spiegare ogni passaggio in modo semplice ma accurato.`

const (
	toolQueryVectorDB = "query_vector_db"
	defaultToolLimit  = 3
	maxToolRounds     = 5
)

// Agent answers Plum support questions with a retrieve-and-respond loop: the
// model may call the vector-search tool any number of rounds (bounded) before
// producing its final answer. Conversation history is checkpointed in the
// run-state store between invocations.
type Agent struct {
	log       *logger.Logger
	llm       openai.Client
	store     statestore.Store
	retriever qdrant.VectorStore
}

func New(baseLog *logger.Logger, llm openai.Client, store statestore.Store, retriever qdrant.VectorStore) *Agent {
	return &Agent{
		log:       baseLog.With("agent", "rag"),
		llm:       llm,
		store:     store,
		retriever: retriever,
	}
}

func (a *Agent) Info() agent.AgentInfo {
	return agent.AgentInfo{
		Key:         "rag",
		Description: "A RAG agent that retrieves information from the Plum knowledge base.",
	}
}

func (a *Agent) GetState(ctx context.Context, cfg agent.RunConfig) (agent.RunState, error) {
	snap, err := a.store.Get(ctx, cfg.ConversationID)
	if err != nil {
		return agent.RunState{}, err
	}
	if len(snap.Interrupts) == 0 {
		return agent.RunState{}, nil
	}
	return agent.RunState{
		Tasks: []agent.Task{{ID: "pending", Interrupts: snap.Interrupts}},
	}, nil
}

func (a *Agent) Run(ctx context.Context, input agent.RunInput, cfg agent.RunConfig) ([]agent.Event, error) {
	snap, err := a.store.Get(ctx, cfg.ConversationID)
	if err != nil {
		return nil, err
	}

	if input.Resume != nil {
		// The incoming message answers the pending interrupt; it joins the
		// history as a human turn and the suspension is cleared.
		snap.Messages = append(snap.Messages, agent.HumanMessage{Content: input.Resume})
		snap.Interrupts = nil
	} else {
		snap.Messages = append(snap.Messages, input.Messages...)
	}

	answered := false
	for round := 0; round < maxToolRounds; round++ {
		reply, meta, err := a.llm.Complete(ctx, a.wireMessages(snap.Messages), a.toolDefs())
		if err != nil {
			return nil, fmt.Errorf("chat completion: %w", err)
		}

		aiMsg := agent.AIMessage{
			Content:          reply.Content,
			ResponseMetadata: meta,
		}
		for _, call := range reply.ToolCalls {
			aiMsg.ToolCalls = append(aiMsg.ToolCalls, agent.ToolCall{
				Name: call.Function.Name,
				Args: call.Function.Arguments,
				ID:   call.ID,
				Type: call.Type,
			})
		}
		snap.Messages = append(snap.Messages, aiMsg)

		if len(reply.ToolCalls) == 0 {
			answered = true
			break
		}
		for _, call := range reply.ToolCalls {
			snap.Messages = append(snap.Messages, a.executeTool(ctx, call))
		}
	}
	if !answered {
		// The run must end on an assistant answer, never on a dangling tool
		// result. Fail without checkpointing the incomplete exchange.
		return nil, fmt.Errorf("tool round limit (%d) reached without a final answer", maxToolRounds)
	}

	if err := a.store.Put(ctx, cfg.ConversationID, snap); err != nil {
		return nil, fmt.Errorf("checkpoint conversation: %w", err)
	}

	return []agent.Event{
		{Kind: agent.EventKindValues, Messages: snap.Messages},
	}, nil
}

func (a *Agent) toolDefs() []openai.ToolDef {
	return []openai.ToolDef{{
		Type: "function",
		Function: openai.ToolFunctionDef{
			Name:        toolQueryVectorDB,
			Description: "Query the Plum knowledge base with a similarity search. Use this only when you need to retrieve information from the documentation, not for general queries.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The query string to search for.",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of results to return.",
					},
				},
				"required": []string{"query"},
			},
		},
	}}
}

func (a *Agent) executeTool(ctx context.Context, call openai.ToolCall) agent.Message {
	result, err := a.dispatchTool(ctx, call.Function.Name, call.Function.Arguments)
	status := "success"
	if err != nil {
		status = "error"
		result = err.Error()
		a.log.Warn("Tool execution failed",
			"tool", call.Function.Name,
			"error", err,
		)
	}
	return agent.ToolMessage{
		ID:         call.ID,
		Name:       call.Function.Name,
		Status:     status,
		Content:    result,
		ToolCallID: call.ID,
	}
}

func (a *Agent) dispatchTool(ctx context.Context, name, rawArgs string) (string, error) {
	if name != toolQueryVectorDB {
		return "", fmt.Errorf("unknown tool: %s", name)
	}
	var args struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return "", fmt.Errorf("decode tool args: %w", err)
		}
	}
	if args.Limit <= 0 {
		args.Limit = defaultToolLimit
	}

	docs, err := a.retriever.Search(ctx, args.Query, args.Limit)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		md, _ := json.Marshal(doc.Metadata)
		parts = append(parts, fmt.Sprintf("Source: %s\nContent: %s", string(md), doc.Content))
	}
	return strings.Join(parts, "\n\n"), nil
}

// wireMessages converts the checkpointed history to the completion API shape,
// prepending the system prompt.
func (a *Agent) wireMessages(history []agent.Message) []openai.ChatMessage {
	out := make([]openai.ChatMessage, 0, len(history)+1)
	out = append(out, openai.ChatMessage{Role: "system", Content: systemPrompt})
	for _, msg := range history {
		switch m := msg.(type) {
		case agent.HumanMessage:
			out = append(out, openai.ChatMessage{
				Role:    "user",
				Content: agent.FlattenContent(m.Content),
			})
		case agent.AIMessage:
			wire := openai.ChatMessage{
				Role:    "assistant",
				Content: agent.FlattenContent(m.Content),
			}
			for _, call := range m.ToolCalls {
				args, _ := call.Args.(string)
				wire.ToolCalls = append(wire.ToolCalls, openai.ToolCall{
					ID:   call.ID,
					Type: "function",
					Function: openai.ToolCallFunction{
						Name:      call.Name,
						Arguments: args,
					},
				})
			}
			out = append(out, wire)
		case agent.ToolMessage:
			out = append(out, openai.ChatMessage{
				Role:       "tool",
				Content:    agent.FlattenContent(m.Content),
				ToolCallID: m.ToolCallID,
			})
		}
	}
	return out
}
