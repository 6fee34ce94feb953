// Package statemachine implements the stacked-alternating-offers transition
// table (spec.md §4.5): given a session's current state and a buyer's
// inbound offer, it decides the next state, the seller tactic, and (when
// applicable) the seller's counter price. Like internal/pricing, it is a
// pure decision function — no I/O, no locking — so NegotiationService can
// drive it deterministically and tests can exercise every row directly.
package statemachine

import (
	"time"

	"molbhav/internal/botdetect"
	"molbhav/internal/pricing"
	"molbhav/internal/session"
)

// StallWindow is the number of consecutive small buyer moves that trips the
// quantity_pivot tactic.
const StallWindow = 3

// StallThresholdFraction is "small" expressed as a fraction of anchor.
const StallThresholdFraction = 0.005

// Input bundles everything the transition function needs to decide the next
// step. BotScore is computed by the caller (botdetect.Detector.Evaluate)
// over the session's pre-update offer history.
type Input struct {
	Session    *session.Session
	BuyerPrice int64
	Message    string
	Sentiment  session.Sentiment
	Now        time.Time
	BotScore   botdetect.Score
}

// Output is the decided transition: the next state, the tactic label
// attached to the seller's move, and either a counter price or (on
// agreement) the settled price.
type Output struct {
	NextState     session.State
	Tactic        session.Tactic
	CounterPrice  int64
	AgreedPrice   *int64
	EffectiveBeta float64
	StallDetected bool
}

// Step runs one round of the negotiation: the buyer has just placed
// BuyerPrice, and the seller must respond. Step does not mutate Session;
// callers apply Output themselves and append the resulting Offer.
func Step(in Input) (out Output) {
	defer func() { RecordTransition(out) }()

	s := in.Session

	if s.State.IsTerminal() {
		return Output{NextState: s.State, Tactic: session.TacticTimeout}
	}

	if in.BotScore.Block {
		return Output{NextState: session.StateBroken, Tactic: session.TacticBotBlock}
	}

	round := s.Round + 1

	if round >= s.MaxRounds && in.BuyerPrice < s.FloorPrice {
		return Output{NextState: session.StateBroken, Tactic: session.TacticDeadline}
	}

	beta := s.Beta
	if in.BotScore.Suspect {
		beta *= botdetect.SuspectBetaMultiplier
	}

	candidate := curveAndReciprocityCandidate(s, round, beta)
	pricing.CandidatesComputedTotal.Inc()

	if pricing.InZOPA(in.BuyerPrice, s.FloorPrice, candidate, s.AnchorPrice, round, s.MaxRounds) {
		pricing.ZOPAAcceptedTotal.Inc()
		agreed := in.BuyerPrice
		if agreed > s.AnchorPrice {
			agreed = s.AnchorPrice
		}
		return Output{
			NextState:    session.StateAgreed,
			Tactic:       session.TacticAccept,
			AgreedPrice:  &agreed,
			CounterPrice: agreed,
		}
	}

	if round >= s.MaxRounds {
		return Output{NextState: session.StateBroken, Tactic: session.TacticDeadline}
	}

	if in.Sentiment == session.SentimentExit && !s.FlounceUsed {
		counter := pricing.WalkAwayConcession(s.LastSellerPrice(), s.FloorPrice)
		return Output{
			NextState:     session.StateResponding,
			Tactic:        session.TacticWalkAwaySave,
			CounterPrice:  counter,
			EffectiveBeta: beta,
		}
	}

	if in.BuyerPrice < s.FloorPrice {
		return Output{
			NextState:     session.StateResponding,
			Tactic:        session.TacticAnchorDefense,
			CounterPrice:  s.LastSellerPrice(),
			EffectiveBeta: beta,
		}
	}

	deltas := buyerDeltas(s)
	if stalled := pricing.IsStall(deltas, s.AnchorPrice, StallWindow, StallThresholdFraction); stalled {
		return Output{
			NextState:     session.StateResponding,
			Tactic:        session.TacticQuantityPivot,
			CounterPrice:  candidate,
			EffectiveBeta: beta,
			StallDetected: true,
		}
	}

	return Output{
		NextState:     session.StateResponding,
		Tactic:        session.TacticConcession,
		CounterPrice:  candidate,
		EffectiveBeta: beta,
	}
}

// Open computes the opening move: anchor price, tactic opening_anchor,
// state transitioning from idle to proposing.
func Open(s *session.Session) Output {
	return Output{
		NextState:    session.StateProposing,
		Tactic:       session.TacticOpeningAnchor,
		CounterPrice: s.AnchorPrice,
	}
}

func curveAndReciprocityCandidate(s *session.Session, round int, beta float64) int64 {
	curvePrice := pricing.ConcessionCurve(s.AnchorPrice, s.FloorPrice, round, s.MaxRounds, beta)

	var deltaBuyer int64
	if s.LastBuyerPrice != 0 {
		deltaBuyer = s.LastBuyerPrice - previousBuyerPrice(s)
	}
	alphaEff := pricing.AdaptiveAlpha(s.Alpha, round, s.MaxRounds)
	reciprocityPrice := pricing.ReciprocityCandidate(s.LastSellerPrice(), deltaBuyer, alphaEff)

	return pricing.Candidate(curvePrice, reciprocityPrice)
}

func previousBuyerPrice(s *session.Session) int64 {
	offers := s.BuyerOffers(2)
	if len(offers) < 2 {
		return s.LastBuyerPrice
	}
	return offers[0].Price
}

func buyerDeltas(s *session.Session) []int64 {
	offers := s.BuyerOffers(StallWindow + 1)
	if len(offers) < 2 {
		return nil
	}
	deltas := make([]int64, 0, len(offers)-1)
	for i := 1; i < len(offers); i++ {
		deltas = append(deltas, offers[i].Price-offers[i-1].Price)
	}
	return deltas
}
