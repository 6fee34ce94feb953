package session

import (
	"testing"
	"time"
)

func TestState_IsTerminal(t *testing.T) {
	terminal := []State{StateAgreed, StateBroken, StateTimedOut}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s: expected terminal", s)
		}
	}

	nonTerminal := []State{StateIdle, StateProposing, StateResponding}
	for _, s := range nonTerminal {
		if s.IsTerminal() {
			t.Errorf("%s: expected non-terminal", s)
		}
	}
}

func TestValidLanguage(t *testing.T) {
	for _, l := range []string{"en", "hi", "ta", "te", "mr"} {
		if !ValidLanguage(l) {
			t.Errorf("%s should be valid", l)
		}
	}
	if ValidLanguage("fr") {
		t.Error("fr should not be valid")
	}
}

func TestSession_BuyerOffersWindow(t *testing.T) {
	s := New("abc", "tok", "prod-1", "buyer-1", LanguageEN, 1000, 700, 15, 5.0, 0.6, 60)
	now := time.Now()
	for i := 0; i < 10; i++ {
		s.AppendOffer(Offer{Actor: ActorBuyer, Price: int64(700 + i*10), Round: i, Timestamp: now.Add(time.Duration(i) * time.Second)})
	}

	window := s.BuyerOffers(8)
	if len(window) != 8 {
		t.Fatalf("expected 8 offers, got %d", len(window))
	}
	if window[0].Price != 720 {
		t.Errorf("expected window to start at the 3rd offer (price 720), got %d", window[0].Price)
	}
}

func TestSession_LastSellerPriceDefaultsToAnchor(t *testing.T) {
	s := New("abc", "tok", "prod-1", "buyer-1", LanguageEN, 1000, 700, 15, 5.0, 0.6, 60)
	if got := s.LastSellerPrice(); got != 1000 {
		t.Errorf("LastSellerPrice() = %d, want anchor 1000", got)
	}
}
