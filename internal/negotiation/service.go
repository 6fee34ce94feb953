// Package negotiation wires the core components into the three operations
// spec.md §4.8 exposes externally: start a session, submit a buyer offer,
// and read session status. The orchestration shape — a struct holding its
// collaborators and a *zap.Logger, constructed once, with kebab-case event
// names on every log line — follows the teacher's arbitrage.Detector.
package negotiation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"molbhav/internal/botdetect"
	"molbhav/internal/coupon"
	"molbhav/internal/dialogue"
	"molbhav/internal/pricing"
	"molbhav/internal/product"
	"molbhav/internal/session"
	"molbhav/internal/statemachine"
	"molbhav/internal/store"
	"molbhav/pkg/types"
)

// Config holds the tunables a deployment sets once at startup.
type Config struct {
	DefaultBeta     float64
	DefaultAlpha    float64
	MaxRounds       int
	SessionTTL      time.Duration
	QuoteTTL        time.Duration
	LockTTL         time.Duration
	LockWaitRetries int
	CooldownTTL     time.Duration
	StartRateLimit  int
	StartRateWindow time.Duration
}

// Service orchestrates NegotiationSession lifecycle: lock -> load -> detect
// -> transition -> price -> discount -> validate -> dialogue -> persist ->
// respond, for every buyer-facing operation.
type Service struct {
	catalog     product.Catalog
	hot         *store.HotStore
	durable     store.DurableStore
	detector    *botdetect.Detector
	coupons     *coupon.Service
	dialogueGen *dialogue.Generator
	quotes      *QuoteBuilder
	reciprocity *ReciprocityTracker
	retrier     *store.WriteRetrier
	cfg         Config
	logger      *zap.Logger
}

// NewService builds a Service from its collaborators.
func NewService(
	catalog product.Catalog,
	hot *store.HotStore,
	durable store.DurableStore,
	detector *botdetect.Detector,
	coupons *coupon.Service,
	dialogueGen *dialogue.Generator,
	quotes *QuoteBuilder,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = 15
	}
	if cfg.LockWaitRetries <= 0 {
		cfg.LockWaitRetries = 3
	}
	return &Service{
		catalog:     catalog,
		hot:         hot,
		durable:     durable,
		detector:    detector,
		coupons:     coupons,
		dialogueGen: dialogueGen,
		quotes:      quotes,
		reciprocity: NewReciprocityTracker(),
		retrier:     store.NewWriteRetrier(store.DefaultRetryConfig, logger),
		cfg:         cfg,
		logger:      logger,
	}
}

// Start opens a new negotiation session for productID, rejecting the
// request if the caller's IP has exceeded the start-rate limit or the
// product fails its catalog lookup.
func (s *Service) Start(ctx context.Context, productID, buyerRef, language, clientIP string) (*session.Session, types.SessionResponse, error) {
	if !s.hot.CheckStartRate(clientIP, s.cfg.StartRateLimit, s.cfg.StartRateWindow) {
		return nil, types.SessionResponse{}, types.NewError(types.ErrRateLimited, "too many sessions started from this address")
	}

	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, types.SessionResponse{}, types.WrapError(types.ErrBadInput, "product lookup failed", err)
	}
	if err := p.Validate(); err != nil {
		return nil, types.SessionResponse{}, types.WrapError(types.ErrInternal, "catalog product failed validation", err)
	}

	lang := session.Language(strings.ToLower(language))
	if !session.ValidLanguage(string(lang)) {
		lang = session.LanguageEN
	}

	sessID := hyphenStrippedUUID()
	token := uuid.NewString()
	sess := session.New(sessID, token, productID, buyerRef, lang,
		p.AnchorPrice, p.Floor(), s.cfg.MaxRounds, s.cfg.DefaultBeta, s.cfg.DefaultAlpha,
		int(s.cfg.QuoteTTL.Seconds()))

	out := statemachine.Open(sess)
	sess.State = out.NextState
	sess.Tactic = out.Tactic
	sess.CurrentPrice = out.CounterPrice
	now := time.Now()

	dialogueOut := s.dialogueGen.Generate(ctx, dialogue.Request{
		Language: string(lang), Tactic: string(out.Tactic), CounterPrice: out.CounterPrice,
		AnchorPrice: sess.AnchorPrice, FloorPrice: sess.FloorPrice, Round: 0, MaxRounds: sess.MaxRounds,
	}, out.CounterPrice)

	openingOffer := session.Offer{
		Actor: session.ActorSeller, Price: out.CounterPrice, Tactic: out.Tactic,
		Round: 0, Timestamp: now, Message: dialogueOut.Message, DialogueFallback: dialogueOut.Fallback,
	}
	sess.AppendOffer(openingOffer)

	s.persistRound(ctx, sess, openingOffer)
	s.hot.PutSession(sess, s.cfg.SessionTTL)

	s.logger.Info("negotiation-started",
		zap.String("session-id", sessID), zap.String("product-id", productID), zap.String("tactic", string(out.Tactic)))
	SessionsStartedTotal.Inc()

	return sess, s.buildResponse(sess, dialogueOut.Message), nil
}

// Offer processes one buyer counter-offer: the lock -> load -> detect ->
// transition -> price -> discount -> validate -> dialogue -> persist chain.
func (s *Service) Offer(ctx context.Context, sessionID, token string, buyerPrice int64, message string) (types.SessionResponse, error) {
	lockToken, ok := s.hot.AcquireLock(sessionID, token, s.cfg.LockTTL)
	if !ok {
		return types.SessionResponse{}, types.NewError(types.ErrBusy, "session is processing a concurrent request")
	}
	defer s.hot.ReleaseLock(sessionID, lockToken)

	sess, ok := s.hot.GetSession(sessionID)
	if !ok {
		return types.SessionResponse{}, types.NewError(types.ErrNoSession, "session not found or expired")
	}
	if sess.SessionToken != token {
		return types.SessionResponse{}, types.NewError(types.ErrBadToken, "session token mismatch")
	}
	if sess.State.IsTerminal() {
		return types.SessionResponse{}, types.NewError(types.ErrSessionClosed, "session already reached a terminal state")
	}
	if s.hot.IsCoolingDown(sessionID) {
		return types.SessionResponse{}, types.NewError(types.ErrCooldown, "session is in cooldown after a walk-away save")
	}
	if buyerPrice <= 0 {
		return types.SessionResponse{}, types.NewError(types.ErrBadInput, "buyer price must be positive")
	}

	p, err := s.catalog.GetProduct(ctx, sess.ProductID)
	if err != nil {
		return types.SessionResponse{}, types.WrapError(types.ErrInternal, "product lookup failed mid-session", err)
	}

	score := s.detector.Evaluate(sess)
	sentiment := classifySentiment(message)

	out := statemachine.Step(statemachine.Input{
		Session: sess, BuyerPrice: buyerPrice, Message: message, Sentiment: sentiment,
		Now: time.Now(), BotScore: score,
	})

	counterPrice := out.CounterPrice
	couponApplied := false
	couponID := ""
	if !out.NextState.IsTerminal() {
		res := s.coupons.Apply(p, sess, out.Tactic, int64(sess.Round+1), counterPrice)
		if res.Applied {
			counterPrice = res.AdjustedPrice
			couponApplied = true
			couponID = res.CouponID
		}
	}

	validation := pricing.Validate(float64(counterPrice), sess.FloorPrice, sess.AnchorPrice, sess.LastSellerPrice(), counterPrice)
	if validation.Rejected {
		pricing.ValidatorRejectedTotal.Inc()
	}
	for _, reason := range validation.Reasons {
		pricing.ValidatorOverridesTotal.WithLabelValues(reason).Inc()
	}
	finalPrice := validation.ClampedPrice
	if out.NextState == session.StateAgreed && out.AgreedPrice != nil {
		finalPrice = *out.AgreedPrice
	}

	dialogueOut := s.dialogueGen.Generate(ctx, dialogue.Request{
		Language: string(sess.Language), Tactic: string(out.Tactic), Sentiment: string(sentiment),
		CounterPrice: finalPrice, AnchorPrice: sess.AnchorPrice, FloorPrice: sess.FloorPrice,
		BuyerMessage: message, Round: sess.Round + 1, MaxRounds: sess.MaxRounds,
	}, finalPrice)

	now := time.Now()
	buyerOffer := session.Offer{
		Actor: session.ActorBuyer, Price: buyerPrice, Message: message, Round: sess.Round + 1,
		Timestamp: now,
		Features: session.OfferFeatures{
			IntervalSinceLast: timeSinceLastBuyerOffer(sess, now),
			DeltaFromPrev:     buyerPrice - sess.LastBuyerPrice,
		},
	}
	sess.AppendOffer(buyerOffer)

	reciprocityDelta := s.reciprocity.LastDelta(sess)
	s.logger.Debug("reciprocity-delta",
		zap.String("session-id", sessionID), zap.Int("round", sess.Round+1), zap.Int64("buyer-delta", reciprocityDelta))

	sellerOffer := session.Offer{
		Actor: session.ActorSeller, Price: finalPrice, Message: dialogueOut.Message, Tactic: out.Tactic,
		Round: sess.Round + 1, Timestamp: now,
		ValidatorOverride: validation.Overridden, CouponApplied: couponApplied, CouponID: couponID,
		DialogueFallback: dialogueOut.Fallback,
	}
	sess.AppendOffer(sellerOffer)

	sess.Round++
	sess.LastBuyerPrice = buyerPrice
	sess.CurrentPrice = finalPrice
	sess.State = out.NextState
	sess.Tactic = out.Tactic
	sess.Sentiment = sentiment
	sess.BotScore = score.Composite
	if out.Tactic == session.TacticWalkAwaySave {
		sess.FlounceUsed = true
		s.hot.SetCooldown(sessionID, s.cfg.CooldownTTL)
	}
	if couponApplied {
		sess.CouponsApplied[couponID] = true
	}
	var quote *Quote
	if out.NextState == session.StateAgreed {
		agreed := finalPrice
		sess.AgreedPrice = &agreed
		q := s.quotes.Build(sessionID, sess.ProductID, sess.Round, agreed, time.Duration(sess.QuoteTTLSeconds)*time.Second, now)
		quote = &q
		QuotesIssuedTotal.Inc()
	}

	s.persistRound(ctx, sess, sellerOffer)
	s.hot.PutSession(sess, s.cfg.SessionTTL)

	OffersProcessedTotal.WithLabelValues(string(out.NextState)).Inc()

	if out.NextState.IsTerminal() {
		s.hot.DeleteSession(sessionID)
		s.logger.Info("negotiation-terminal",
			zap.String("session-id", sessionID), zap.String("state", string(out.NextState)), zap.String("tactic", string(out.Tactic)))
	}

	resp := s.buildResponse(sess, dialogueOut.Message)
	resp.Metadata = map[string]any{"buyer_delta": reciprocityDelta}
	if quote != nil {
		resp.Metadata["quote_id"] = quote.QuoteID
		resp.Metadata["session_id"] = quote.SessionID
		resp.Metadata["product_id"] = quote.ProductID
		resp.Metadata["price"] = quote.Price
		resp.Metadata["currency"] = quote.Currency
		resp.Metadata["issued_at"] = quote.IssuedAt.Format(time.RFC3339)
		resp.Metadata["expires_at"] = quote.ExpiresAt.Format(time.RFC3339)
		resp.Metadata["signature"] = quote.Signature
	}
	return resp, nil
}

// Status returns the current snapshot of a session without advancing it.
func (s *Service) Status(ctx context.Context, sessionID, token string) (types.SessionResponse, error) {
	sess, ok := s.hot.GetSession(sessionID)
	if !ok {
		return types.SessionResponse{}, types.NewError(types.ErrNoSession, "session not found or expired")
	}
	if sess.SessionToken != token {
		return types.SessionResponse{}, types.NewError(types.ErrBadToken, "session token mismatch")
	}
	return s.buildResponse(sess, ""), nil
}

func (s *Service) persistRound(ctx context.Context, sess *session.Session, offer session.Offer) {
	event := store.OfferEvent{
		SessionID: sess.SessionID, Round: offer.Round, Actor: string(offer.Actor),
		Price: offer.Price, Tactic: string(offer.Tactic), Message: offer.Message,
		Overridden: offer.ValidatorOverride, Timestamp: offer.Timestamp,
	}
	if err := s.retrier.Do(ctx, "append_offer_event", func(ctx context.Context) error {
		return s.durable.AppendOfferEvent(ctx, event)
	}); err != nil {
		sess.Degraded = true
		s.logger.Error("durable-append-failed", zap.String("session-id", sess.SessionID), zap.Error(err))
	}

	summary := store.SessionSummary{
		SessionID: sess.SessionID, ProductID: sess.ProductID, BuyerRef: sess.BuyerRef,
		Round: sess.Round, State: string(sess.State), AgreedPrice: sess.AgreedPrice, UpdatedAt: sess.UpdatedAt,
	}
	if err := s.retrier.Do(ctx, "upsert_session_summary", func(ctx context.Context) error {
		return s.durable.UpsertSessionSummary(ctx, summary)
	}); err != nil {
		sess.Degraded = true
		s.logger.Error("durable-summary-failed", zap.String("session-id", sess.SessionID), zap.Error(err))
	}
}

func (s *Service) buildResponse(sess *session.Session, message string) types.SessionResponse {
	return types.SessionResponse{
		SessionID:    sess.SessionID,
		SessionToken: sess.SessionToken,
		Message:      message,
		CurrentPrice: sess.CurrentPrice,
		AnchorPrice:  sess.AnchorPrice,
		State:        string(sess.State),
		Tactic:       string(sess.Tactic),
		Sentiment:    string(sess.Sentiment),
		Round:        sess.Round,
		MaxRounds:    sess.MaxRounds,
		QuoteTTLSecs: sess.QuoteTTLSeconds,
		AgreedPrice:  sess.AgreedPrice,
	}
}

func timeSinceLastBuyerOffer(sess *session.Session, now time.Time) time.Duration {
	offers := sess.BuyerOffers(1)
	if len(offers) == 0 {
		return 0
	}
	return now.Sub(offers[0].Timestamp)
}

// classifySentiment is a coarse, dependency-free read of the buyer's free
// text. It exists to feed statemachine.Step's walk_away_save trigger and
// does not attempt full sentiment analysis.
func classifySentiment(message string) session.Sentiment {
	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, "not interested", "forget it", "never mind", "bye", "leaving"):
		return session.SentimentExit
	case containsAny(lower, "ridiculous", "scam", "rip off", "joke"):
		return session.SentimentHostile
	case containsAny(lower, "love it", "need this", "please", "perfect"):
		return session.SentimentEager
	default:
		return session.SentimentNeutral
	}
}

// hyphenStrippedUUID returns a random UUIDv4 as a 32-character hex string,
// the session_id shape spec.md §3 names.
func hyphenStrippedUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
