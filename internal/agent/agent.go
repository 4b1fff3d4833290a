package agent

import (
	"context"
	"fmt"
	"sort"

	"github.com/catonzio/plum-backend/internal/platform/apierr"
)

// DefaultAgentID is the agent used when the route does not name one.
const DefaultAgentID = "rag"

type EventKind string

const (
	EventKindUpdates EventKind = "updates"
	EventKindValues  EventKind = "values"
)

// Event is one entry of the batched stream an agent run returns. A "values"
// event carries the full message list at that point; an "updates" event may
// carry interrupt markers.
type Event struct {
	Kind       EventKind
	Messages   []Message
	Interrupts []Interrupt
}

// Agent is the capability contract an agent implementation fulfils: expose
// its persisted state for a conversation and drive one invocation to
// completion, returning the batched event stream.
type Agent interface {
	Info() AgentInfo
	GetState(ctx context.Context, cfg RunConfig) (RunState, error)
	Run(ctx context.Context, input RunInput, cfg RunConfig) ([]Event, error)
}

// Registry maps agent identifiers to implementations. Registration happens at
// wiring time; lookups are read-only afterwards.
type Registry struct {
	agents map[string]Agent
}

func NewRegistry() *Registry {
	return &Registry{agents: map[string]Agent{}}
}

func (r *Registry) Register(id string, a Agent) {
	r.agents[id] = a
}

func (r *Registry) Lookup(id string) (Agent, error) {
	a, ok := r.agents[id]
	if !ok {
		return nil, apierr.NotFound(
			"agent_not_found",
			fmt.Errorf("unknown agent: %s", id),
		)
	}
	return a, nil
}

func (r *Registry) List() []AgentInfo {
	out := make([]AgentInfo, 0, len(r.agents))
	for _, a := range r.agents {
		out = append(out, a.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
