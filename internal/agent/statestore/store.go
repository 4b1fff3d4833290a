package statestore

import (
	"context"

	"github.com/catonzio/plum-backend/internal/agent"
)

// Snapshot is the durable state of one conversation: its full message
// history plus any interrupts still waiting for a resume.
type Snapshot struct {
	Messages   []agent.Message
	Interrupts []agent.Interrupt
}

// Store checkpoints conversation state between invocations, keyed by
// conversation id. A missing key yields an empty snapshot, not an error.
// Implementations serialize individual operations but do not serialize whole
// turns; concurrent turns against one conversation id have no defined order.
type Store interface {
	Get(ctx context.Context, conversationID string) (Snapshot, error)
	Put(ctx context.Context, conversationID string, snap Snapshot) error
	Delete(ctx context.Context, conversationID string) error
}
