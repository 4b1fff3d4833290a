package agent

import (
	"github.com/google/uuid"
)

// Interrupt is a runtime-level suspension payload: the question the agent
// needs answered before its run can continue.
type Interrupt struct {
	Value any `json:"value"`
}

// Task is one unit of pending work inside a run. A task with interrupts is
// suspended and waits for a resume.
type Task struct {
	ID         string      `json:"id,omitempty"`
	Interrupts []Interrupt `json:"interrupts,omitempty"`
}

// RunState is the snapshot of an agent's persisted state for one
// conversation, as exposed by the runtime. The core only inspects whether any
// task carries a non-empty interrupt set.
type RunState struct {
	Tasks []Task `json:"tasks,omitempty"`
}

// Interrupted reports whether any pending task is suspended on an interrupt.
func (s RunState) Interrupted() bool {
	for _, task := range s.Tasks {
		if len(task.Interrupts) > 0 {
			return true
		}
	}
	return false
}

// RunInput is the invocation payload, the one branch point of the core:
// either a resume directive answering a pending interrupt (Resume non-nil) or
// a brand-new turn (Messages).
type RunInput struct {
	Resume   any
	Messages []Message
}

// RunConfig is assembled per invocation. RunID is freshly generated on every
// call and used only for correlation, never for resuming later.
type RunConfig struct {
	ConversationID string
	UserID         string
	Model          string
	RunID          uuid.UUID
	Extra          map[string]any
}
