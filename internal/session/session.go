// Package session defines the negotiation session and offer data model
// (spec.md §3) — the value type every other core component reads and
// produces. It carries no I/O and no long-lived actors: the session snapshot
// is a value, not a reference graph (spec.md §9 "Cycle avoidance").
package session

import "time"

// State is one of the SAO state-machine states (spec.md §4.5).
type State string

const (
	StateIdle       State = "idle"
	StateProposing  State = "proposing"
	StateResponding State = "responding"
	StateAgreed     State = "agreed"
	StateBroken     State = "broken"
	StateTimedOut   State = "timed_out"
)

// IsTerminal reports whether s is an absorbing state.
func (s State) IsTerminal() bool {
	return s == StateAgreed || s == StateBroken || s == StateTimedOut
}

// Tactic is the seller-side tactic tag attached to a counter-offer.
type Tactic string

const (
	TacticOpeningAnchor Tactic = "opening_anchor"
	TacticAccept        Tactic = "accept"
	TacticBotBlock      Tactic = "bot_block"
	TacticDeadline      Tactic = "deadline"
	TacticWalkAwaySave  Tactic = "walk_away_save"
	TacticAnchorDefense Tactic = "anchor_defense"
	TacticQuantityPivot Tactic = "quantity_pivot"
	TacticConcession    Tactic = "concession"
	TacticTimeout       Tactic = "timeout"
)

// Sentiment is a coarse read of the buyer's free-text message.
type Sentiment string

const (
	SentimentNeutral Sentiment = "neutral"
	SentimentEager   Sentiment = "eager"
	SentimentExit    Sentiment = "exit"
	SentimentHostile Sentiment = "hostile"
)

// Language is one of the five supported vernaculars.
type Language string

const (
	LanguageEN Language = "en"
	LanguageHI Language = "hi"
	LanguageTA Language = "ta"
	LanguageTE Language = "te"
	LanguageMR Language = "mr"
)

// ValidLanguage reports whether lang is one of the supported set, defaulting
// callers to LanguageEN otherwise.
func ValidLanguage(lang string) bool {
	switch Language(lang) {
	case LanguageEN, LanguageHI, LanguageTA, LanguageTE, LanguageMR:
		return true
	default:
		return false
	}
}

// Actor identifies which side placed an Offer.
type Actor string

const (
	ActorBuyer  Actor = "buyer"
	ActorSeller Actor = "seller"
)

// OfferFeatures carries the timing/pattern deltas BotDetector scores over
// the buyer's offer stream; NegotiationService computes them when it
// records a buyer offer. It is attached to buyer offers only.
type OfferFeatures struct {
	IntervalSinceLast time.Duration
	DeltaFromPrev     int64 // signed: positive means buyer raised their bid
}

// Offer is one immutable entry in a session's append-only offer list.
type Offer struct {
	Actor             Actor
	Price             int64
	Message           string
	Tactic            Tactic
	Timestamp         time.Time
	Round             int
	Features          OfferFeatures
	ValidatorOverride bool
	CouponApplied     bool
	CouponID          string
	DialogueFallback  bool
}

// Session is the NegotiationSession of spec.md §3.
type Session struct {
	SessionID       string
	SessionToken    string
	ProductID       string
	BuyerRef        string
	Language        Language
	AnchorPrice     int64
	FloorPrice      int64
	CurrentPrice    int64
	LastBuyerPrice  int64
	Round           int
	MaxRounds       int
	State           State
	Tactic          Tactic
	Sentiment       Sentiment
	Beta            float64
	Alpha           float64
	Offers          []Offer
	BotScore        float64
	FlounceUsed     bool
	CouponsApplied  map[string]bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	AgreedPrice     *int64
	QuoteTTLSeconds int
	Degraded        bool
}

// New constructs a fresh session in state idle, before Start() has run.
func New(sessionID, token, productID, buyerRef string, lang Language, anchor, floor int64, maxRounds int, beta, alpha float64, quoteTTL int) *Session {
	now := time.Now()
	return &Session{
		SessionID:       sessionID,
		SessionToken:    token,
		ProductID:       productID,
		BuyerRef:        buyerRef,
		Language:        lang,
		AnchorPrice:     anchor,
		FloorPrice:      floor,
		CurrentPrice:    anchor,
		Round:           0,
		MaxRounds:       maxRounds,
		State:           StateIdle,
		Tactic:          "",
		Sentiment:       SentimentNeutral,
		Beta:            beta,
		Alpha:           alpha,
		Offers:          make([]Offer, 0, maxRounds*2),
		CouponsApplied:  make(map[string]bool),
		CreatedAt:       now,
		UpdatedAt:       now,
		QuoteTTLSeconds: quoteTTL,
	}
}

// AppendOffer appends an immutable offer entry and bumps UpdatedAt. Callers
// must hold the session's per-session lock; Session itself does no locking.
func (s *Session) AppendOffer(o Offer) {
	s.Offers = append(s.Offers, o)
	s.UpdatedAt = o.Timestamp
}

// BuyerOffers returns up to the last n buyer offers in chronological order,
// the rolling window BotDetector and ReciprocityTracker consume.
func (s *Session) BuyerOffers(n int) []Offer {
	var out []Offer
	for _, o := range s.Offers {
		if o.Actor == ActorBuyer {
			out = append(out, o)
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// LastSellerPrice returns the most recent seller counter-offer, or the
// anchor if the seller has not yet countered.
func (s *Session) LastSellerPrice() int64 {
	for i := len(s.Offers) - 1; i >= 0; i-- {
		if s.Offers[i].Actor == ActorSeller {
			return s.Offers[i].Price
		}
	}
	return s.AnchorPrice
}
