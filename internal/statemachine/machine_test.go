package statemachine

import (
	"testing"
	"time"

	"molbhav/internal/botdetect"
	"molbhav/internal/session"
)

func newTestSession() *session.Session {
	s := session.New("s1", "tok", "kurta-001", "buyer-1", session.LanguageEN, 12999, 9450, 15, 2.0, 0.6, 60)
	s.State = session.StateProposing
	s.AppendOffer(session.Offer{Actor: session.ActorSeller, Price: 12999, Round: 0, Timestamp: time.Now()})
	return s
}

func TestStep_BotBlockOverridesEverything(t *testing.T) {
	s := newTestSession()
	out := Step(Input{Session: s, BuyerPrice: 12999, Now: time.Now(), BotScore: botdetect.Score{Block: true}})
	if out.NextState != session.StateBroken || out.Tactic != session.TacticBotBlock {
		t.Errorf("expected broken/bot_block, got %s/%s", out.NextState, out.Tactic)
	}
}

func TestStep_S1_BuyerMeetsAnchorAccepts(t *testing.T) {
	s := newTestSession()
	out := Step(Input{Session: s, BuyerPrice: 12999, Now: time.Now()})
	if out.NextState != session.StateAgreed || out.Tactic != session.TacticAccept {
		t.Fatalf("expected agreed/accept, got %s/%s", out.NextState, out.Tactic)
	}
	if out.AgreedPrice == nil || *out.AgreedPrice != 12999 {
		t.Errorf("expected agreed price 12999, got %v", out.AgreedPrice)
	}
}

func TestStep_S2_BelowFloorAnchorDefense(t *testing.T) {
	s := newTestSession()
	out := Step(Input{Session: s, BuyerPrice: 5000, Now: time.Now()})
	if out.Tactic != session.TacticAnchorDefense {
		t.Errorf("expected anchor_defense, got %s", out.Tactic)
	}
	if out.NextState != session.StateResponding {
		t.Errorf("expected responding, got %s", out.NextState)
	}
}

func TestStep_S3_DeadlineRoundAcceptsAboveFloor(t *testing.T) {
	s := newTestSession()
	s.Round = 13
	out := Step(Input{Session: s, BuyerPrice: 9500, Now: time.Now()})
	if out.NextState != session.StateAgreed {
		t.Errorf("expected agreed at deadline round, got %s/%s", out.NextState, out.Tactic)
	}
}

func TestStep_S3_DeadlineRoundBelowFloorBreaks(t *testing.T) {
	s := newTestSession()
	s.Round = 14
	out := Step(Input{Session: s, BuyerPrice: 5000, Now: time.Now()})
	if out.NextState != session.StateBroken || out.Tactic != session.TacticDeadline {
		t.Errorf("expected broken/deadline at round budget exhaustion below floor, got %s/%s", out.NextState, out.Tactic)
	}
}

func TestStep_ExitSentimentTriggersWalkAwaySaveOnce(t *testing.T) {
	s := newTestSession()
	out := Step(Input{Session: s, BuyerPrice: 9600, Sentiment: session.SentimentExit, Now: time.Now()})
	if out.Tactic != session.TacticWalkAwaySave {
		t.Errorf("expected walk_away_save, got %s", out.Tactic)
	}

	s.FlounceUsed = true
	out2 := Step(Input{Session: s, BuyerPrice: 9600, Sentiment: session.SentimentExit, Now: time.Now()})
	if out2.Tactic == session.TacticWalkAwaySave {
		t.Error("walk_away_save must only trigger once per session")
	}
}

func TestStep_StallTriggersQuantityPivot(t *testing.T) {
	s := newTestSession()
	now := time.Now()
	prices := []int64{9800, 9840, 9870, 9895}
	for i, p := range prices {
		s.AppendOffer(session.Offer{Actor: session.ActorBuyer, Price: p, Round: i + 1, Timestamp: now.Add(time.Duration(i) * time.Minute)})
	}
	s.LastBuyerPrice = prices[len(prices)-1]

	out := Step(Input{Session: s, BuyerPrice: 9920, Now: now})
	if out.Tactic != session.TacticQuantityPivot {
		t.Errorf("expected quantity_pivot for a stalled buyer, got %s", out.Tactic)
	}
	if !out.StallDetected {
		t.Error("expected StallDetected=true")
	}
}

func TestStep_TerminalStateIsSticky(t *testing.T) {
	s := newTestSession()
	s.State = session.StateAgreed
	out := Step(Input{Session: s, BuyerPrice: 9900, Now: time.Now()})
	if out.NextState != session.StateAgreed {
		t.Errorf("expected terminal state to persist, got %s", out.NextState)
	}
}

func TestOpen_ReturnsAnchorAsOpeningMove(t *testing.T) {
	s := newTestSession()
	s.State = session.StateIdle
	out := Open(s)
	if out.Tactic != session.TacticOpeningAnchor || out.CounterPrice != s.AnchorPrice {
		t.Errorf("expected opening_anchor at %d, got %s at %d", s.AnchorPrice, out.Tactic, out.CounterPrice)
	}
}
