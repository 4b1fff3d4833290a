package statestore

import (
	"context"
	"sync"

	"github.com/catonzio/plum-backend/internal/agent"
)

type memoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// NewMemoryStore keeps conversation state in process memory. State does not
// survive a restart; use the Redis store when that matters.
func NewMemoryStore() Store {
	return &memoryStore{snapshots: map[string]Snapshot{}}
}

func (s *memoryStore) Get(_ context.Context, conversationID string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[conversationID]
	if !ok {
		return Snapshot{}, nil
	}
	// Copy the slices so callers cannot mutate the stored snapshot.
	out := Snapshot{
		Messages:   make([]agent.Message, len(snap.Messages)),
		Interrupts: make([]agent.Interrupt, len(snap.Interrupts)),
	}
	copy(out.Messages, snap.Messages)
	copy(out.Interrupts, snap.Interrupts)
	return out, nil
}

func (s *memoryStore) Put(_ context.Context, conversationID string, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := Snapshot{
		Messages:   make([]agent.Message, len(snap.Messages)),
		Interrupts: make([]agent.Interrupt, len(snap.Interrupts)),
	}
	copy(stored.Messages, snap.Messages)
	copy(stored.Interrupts, snap.Interrupts)
	s.snapshots[conversationID] = stored
	return nil
}

func (s *memoryStore) Delete(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, conversationID)
	return nil
}
