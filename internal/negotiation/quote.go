package negotiation

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Currency is the only unit NegotiationSession prices are ever denominated
// in (spec.md §3's "integer currency unit (rupees)").
const Currency = "INR"

// QuoteBuilder signs a short-lived counter-offer so a later checkout call
// can verify it was actually produced by this service and has not expired
// or been tampered with, rather than trusting a client-supplied price.
// Signing follows the HMAC-over-a-canonical-message pattern the pack uses
// for exchange request authentication.
type QuoteBuilder struct {
	secret []byte
}

// NewQuoteBuilder builds a QuoteBuilder from a shared signing secret.
func NewQuoteBuilder(secret []byte) *QuoteBuilder {
	return &QuoteBuilder{secret: secret}
}

// Quote is the signed, TTL-bound counter-offer: spec.md §4.9's
// {quote_id, session_id, product_id, price, currency, issued_at, expires_at,
// signature}.
type Quote struct {
	QuoteID   string
	SessionID string
	ProductID string
	Round     int
	Price     int64
	Currency  string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Signature string
}

// Build signs (sessionID, round, price, expiresAt) into a Quote. quote_id is
// a fresh UUID; quote_id, productID, currency and issuedAt ride along
// unsigned: the signature does not cover them.
func (qb *QuoteBuilder) Build(sessionID, productID string, round int, price int64, ttl time.Duration, now time.Time) Quote {
	expiresAt := now.Add(ttl)
	sig := qb.sign(sessionID, round, price, expiresAt)
	return Quote{
		QuoteID:   uuid.NewString(),
		SessionID: sessionID,
		ProductID: productID,
		Round:     round,
		Price:     price,
		Currency:  Currency,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
		Signature: sig,
	}
}

// Verify checks a quote's signature and expiry against now.
func (qb *QuoteBuilder) Verify(q Quote, now time.Time) error {
	if now.After(q.ExpiresAt) {
		QuoteVerificationFailuresTotal.WithLabelValues("expired").Inc()
		return fmt.Errorf("quote expired at %s", q.ExpiresAt.Format(time.RFC3339))
	}
	expected := qb.sign(q.SessionID, q.Round, q.Price, q.ExpiresAt)
	if !hmac.Equal([]byte(expected), []byte(q.Signature)) {
		QuoteVerificationFailuresTotal.WithLabelValues("signature_mismatch").Inc()
		return fmt.Errorf("quote signature mismatch")
	}
	return nil
}

func (qb *QuoteBuilder) sign(sessionID string, round int, price int64, expiresAt time.Time) string {
	msg := canonicalMessage(sessionID, round, price, expiresAt)
	mac := hmac.New(sha256.New, qb.secret)
	mac.Write([]byte(msg))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func canonicalMessage(sessionID string, round int, price int64, expiresAt time.Time) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(expiresAt.Unix()))
	return sessionID + "|" + strconv.Itoa(round) + "|" + strconv.FormatInt(price, 10) + "|" + string(buf[:])
}
