package service

import (
	"sync"

	"github.com/google/uuid"

	"pocketledger/internal/util"
)

// submissionGate admits one mutation per user at a time.
type submissionGate struct {
	mu     sync.Mutex
	active map[uuid.UUID]struct{}
}

func newSubmissionGate() *submissionGate {
	return &submissionGate{active: make(map[uuid.UUID]struct{})}
}

// acquire fails with ErrSubmissionInFlight while the user already has a mutation running.
// The returned func releases the slot.
func (g *submissionGate) acquire(userID uuid.UUID) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[userID]; busy {
		return nil, util.ErrSubmissionInFlight
	}
	g.active[userID] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.active, userID)
		g.mu.Unlock()
	}, nil
}
