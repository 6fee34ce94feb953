package botdetect

import (
	"testing"
	"time"

	"molbhav/internal/session"
)

func offerAt(price int64, interval time.Duration, delta int64) session.Offer {
	return session.Offer{
		Actor: session.ActorBuyer,
		Price: price,
		Features: session.OfferFeatures{
			IntervalSinceLast: interval,
			DeltaFromPrev:     delta,
		},
	}
}

func TestEvaluate_InsufficientHistoryScoresZero(t *testing.T) {
	s := session.New("s1", "tok", "p1", "b1", session.LanguageEN, 1000, 700, 15, 5.0, 0.6, 60)
	s.AppendOffer(offerAt(700, 0, 0))

	d := New(DefaultWeights)
	score := d.Evaluate(s)
	if score.Composite != 0 {
		t.Errorf("expected zero score with <2 samples, got %v", score.Composite)
	}
}

func TestEvaluate_UniformIntervalsAndStepsScoreHigh(t *testing.T) {
	s := session.New("s1", "tok", "p1", "b1", session.LanguageEN, 1000, 700, 15, 5.0, 0.6, 60)
	for i := 0; i < 8; i++ {
		s.AppendOffer(offerAt(int64(700+i*10), 2*time.Second, 10))
	}

	d := New(DefaultWeights)
	score := d.Evaluate(s)
	if score.Composite < BlockThreshold {
		t.Errorf("expected near-perfectly uniform offers to score as bot-like, got %v", score.Composite)
	}
	if !score.Block {
		t.Error("expected Block=true for a composite score above threshold")
	}
}

func TestEvaluate_HumanlikeJitterScoresLow(t *testing.T) {
	s := session.New("s1", "tok", "p1", "b1", session.LanguageEN, 1000, 700, 15, 5.0, 0.6, 60)
	intervals := []time.Duration{3 * time.Second, 11 * time.Second, 2 * time.Second, 40 * time.Second, 5 * time.Second, 22 * time.Second, 9 * time.Second, 1 * time.Second}
	deltas := []int64{30, 5, 60, 2, 45, 15, 70, 8}
	for i := 0; i < 8; i++ {
		s.AppendOffer(offerAt(int64(700+i*20), intervals[i], deltas[i]))
	}

	d := New(DefaultWeights)
	score := d.Evaluate(s)
	if score.Block {
		t.Errorf("expected jittery human-like offers not to trip the block threshold, got %v", score.Composite)
	}
}

func TestNew_FallsBackToDefaultWeights(t *testing.T) {
	d := New(Weights{})
	if d.weights != DefaultWeights {
		t.Errorf("expected DefaultWeights fallback, got %+v", d.weights)
	}
}
