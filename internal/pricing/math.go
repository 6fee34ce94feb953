// Package pricing implements the pure, deterministic PricingMath component
// (spec.md §4.1) and the Validator price guardrail (spec.md §4.2).
// Nothing here performs I/O; every function is a value-in, value-out
// transform so it can be exercised directly from tests and from the
// StateMachine without a session store in the loop.
package pricing

import "math"

// EpsilonFraction is the ZOPA tolerance fixed at 1% of anchor, resolving the
// Open Question in spec.md §9(a).
const EpsilonFraction = 0.01

// WalkAwayConcessionFraction is the one-shot "digital flounce" concession,
// applied to current seller price per spec.md §9(b).
const WalkAwayConcessionFraction = 0.05

// ConcessionCurve returns the time-dependent reservation price P(t) for
// round t out of T rounds:
//
//	P(t) = anchor + (floor - anchor) * (t/T)^beta
//
// beta > 1 holds firm and concedes near the deadline (Boulware); beta = 1 is
// linear; beta < 1 concedes early. P is monotonically non-increasing in t.
func ConcessionCurve(anchor, floor int64, t, maxRounds int, beta float64) int64 {
	if maxRounds <= 0 {
		return anchor
	}
	frac := float64(t) / float64(maxRounds)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	shaped := math.Pow(frac, beta)
	p := float64(anchor) + (float64(floor)-float64(anchor))*shaped
	return int64(math.Round(p))
}

// AdaptiveAlpha strengthens reciprocity damping alpha as the deadline
// approaches: alpha_eff = clamp(alpha * (1 + 0.5*t/T), 0, 1).
func AdaptiveAlpha(alpha float64, t, maxRounds int) float64 {
	if maxRounds <= 0 {
		return clamp01(alpha)
	}
	frac := float64(t) / float64(maxRounds)
	eff := alpha * (1 + 0.5*frac)
	return clamp01(eff)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ReciprocityCandidate mirrors the buyer's last concession, damped by the
// adaptive alpha: seller concession = alpha_eff * buyerDelta, applied
// against the seller's current price.
//
//	deltaBuyer: positive means the buyer raised their bid since last round.
func ReciprocityCandidate(currentPrice int64, deltaBuyer int64, alphaEff float64) int64 {
	sellerConcession := int64(math.Round(alphaEff * float64(deltaBuyer)))
	return currentPrice - sellerConcession
}

// Candidate combines the time-based curve pressure and the reciprocity
// pressure into a single counter-offer candidate. The seller always takes
// the better of the two for itself — i.e. the higher of the two valid
// seller offers — per spec.md §4.1.
func Candidate(curvePrice, reciprocityPrice int64) int64 {
	if reciprocityPrice > curvePrice {
		return reciprocityPrice
	}
	return curvePrice
}

// InZOPA implements the acceptance predicate of spec.md §4.1:
//
//	buyerPrice >= floor AND buyerPrice >= candidate - epsilon
//
// or, independently, round >= T-1 and buyerPrice >= floor.
func InZOPA(buyerPrice, floor, candidate, anchor int64, round, maxRounds int) bool {
	if buyerPrice < floor {
		return false
	}
	epsilon := int64(math.Round(EpsilonFraction * float64(anchor)))
	if buyerPrice >= candidate-epsilon {
		return true
	}
	if round >= maxRounds-1 {
		return true
	}
	return false
}

// WalkAwayConcession computes the one-shot flounce discount off the
// current seller price, floored so it never crosses the floor.
func WalkAwayConcession(currentPrice, floor int64) int64 {
	discounted := currentPrice - int64(math.Round(WalkAwayConcessionFraction*float64(currentPrice)))
	if discounted < floor {
		return floor
	}
	return discounted
}

// IsStall reports whether the last `window` buyer concession deltas are all
// within `thresholdFraction` of anchor — the "three moves of ≤0.5% anchor"
// stall condition that triggers the quantity_pivot tactic (spec.md §4.5).
func IsStall(deltas []int64, anchor int64, window int, thresholdFraction float64) bool {
	if len(deltas) < window {
		return false
	}
	threshold := int64(math.Round(thresholdFraction * float64(anchor)))
	recent := deltas[len(deltas)-window:]
	for _, d := range recent {
		if abs64(d) > threshold {
			return false
		}
	}
	return true
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
