package negotiation

import (
	"molbhav/internal/session"
)

// ReciprocityTracker observes a session's buyer offer stream and reports the
// buyer's per-round concession delta — the signal statemachine.Step damps
// through pricing.AdaptiveAlpha to decide how much the seller reciprocates.
// It holds no state of its own beyond what is already on the session, so a
// single tracker instance is safe to share across sessions.
type ReciprocityTracker struct{}

// NewReciprocityTracker constructs a stateless tracker.
func NewReciprocityTracker() *ReciprocityTracker {
	return &ReciprocityTracker{}
}

// LastDelta returns the buyer's most recent concession: the difference
// between their last two offers, or 0 if there's no prior offer to compare
// against.
func (ReciprocityTracker) LastDelta(s *session.Session) int64 {
	offers := s.BuyerOffers(2)
	if len(offers) < 2 {
		return 0
	}
	return offers[len(offers)-1].Price - offers[0].Price
}

// History returns the buyer's concession deltas over up to the last n
// offers, oldest first — the same per-move deltas the state machine's stall
// check computes for itself.
func (ReciprocityTracker) History(s *session.Session, n int) []int64 {
	offers := s.BuyerOffers(n + 1)
	if len(offers) < 2 {
		return nil
	}
	deltas := make([]int64, 0, len(offers)-1)
	for i := 1; i < len(offers); i++ {
		deltas = append(deltas, offers[i].Price-offers[i-1].Price)
	}
	return deltas
}
