package negotiation

import (
	"testing"
	"time"

	"molbhav/internal/session"
)

func TestReciprocityTracker_LastDelta_NoPriorOffer(t *testing.T) {
	s := session.New("s1", "tok", "kurta-001", "b1", session.LanguageEN, 12999, 9450, 15, 2.0, 0.6, 60)
	s.AppendOffer(session.Offer{Actor: session.ActorBuyer, Price: 9000, Round: 1, Timestamp: time.Now()})

	tr := NewReciprocityTracker()
	if d := tr.LastDelta(s); d != 0 {
		t.Errorf("expected 0 delta with a single buyer offer, got %d", d)
	}
}

func TestReciprocityTracker_LastDelta_PositiveWhenBuyerRaisesBid(t *testing.T) {
	s := session.New("s1", "tok", "kurta-001", "b1", session.LanguageEN, 12999, 9450, 15, 2.0, 0.6, 60)
	now := time.Now()
	s.AppendOffer(session.Offer{Actor: session.ActorBuyer, Price: 9000, Round: 1, Timestamp: now})
	s.AppendOffer(session.Offer{Actor: session.ActorBuyer, Price: 9300, Round: 2, Timestamp: now.Add(time.Minute)})

	tr := NewReciprocityTracker()
	if d := tr.LastDelta(s); d != 300 {
		t.Errorf("expected delta 300, got %d", d)
	}
}

func TestReciprocityTracker_History_ReturnsOldestFirst(t *testing.T) {
	s := session.New("s1", "tok", "kurta-001", "b1", session.LanguageEN, 12999, 9450, 15, 2.0, 0.6, 60)
	now := time.Now()
	prices := []int64{9000, 9300, 9450}
	for i, p := range prices {
		s.AppendOffer(session.Offer{Actor: session.ActorBuyer, Price: p, Round: i + 1, Timestamp: now.Add(time.Duration(i) * time.Minute)})
	}

	tr := NewReciprocityTracker()
	deltas := tr.History(s, 3)
	if len(deltas) != 2 || deltas[0] != 300 || deltas[1] != 150 {
		t.Errorf("expected [300 150], got %v", deltas)
	}
}
