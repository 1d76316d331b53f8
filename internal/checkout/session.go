package checkout

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// State is the purchase attempt lifecycle position.
type State string

const (
	StateCreated       State = "created"
	StateAwaitingClaim State = "awaiting_claim"
	StateVerified      State = "verified"
	StateRejected      State = "rejected"
	StateAbandoned     State = "abandoned"
	StateFailed        State = "failed"
)

var transitions = map[State][]State{
	StateCreated:       {StateAwaitingClaim, StateFailed},
	StateAwaitingClaim: {StateVerified, StateRejected, StateAbandoned, StateFailed},
}

// Session records one purchase attempt. Sessions are not shared between
// attempts; each Initiate call owns its own.
type Session struct {
	ID        string
	Kind      string // "order" or "subscription"
	IntentID  string
	State     State
	CreatedAt time.Time
	UpdatedAt time.Time
}

func newSession(kind string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Kind:      kind,
		State:     StateCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// advance moves the session to next, enforcing the lifecycle order.
func (s *Session) advance(next State) error {
	for _, allowed := range transitions[s.State] {
		if allowed == next {
			s.State = next
			s.UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("checkout: invalid transition %s -> %s", s.State, next)
}

// Terminal reports whether the session reached an end state.
func (s *Session) Terminal() bool {
	return len(transitions[s.State]) == 0
}
