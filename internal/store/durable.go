// Package store implements the two-tier session persistence of spec.md §5:
// a hot tier (TTL'd cache holding the live session, its lock, and its
// cooldown/rate-limit counters) and a durable tier (an append-only offer
// event log plus an idempotent session summary upsert). The split and the
// Postgres/console implementations are grounded on the teacher's
// internal/storage package; the hot tier reuses pkg/cache's Ristretto
// wrapper unchanged.
package store

import (
	"context"
	"time"
)

// OfferEvent is one immutable row appended to the durable offer log.
type OfferEvent struct {
	SessionID  string
	Round      int
	Actor      string
	Price      int64
	Tactic     string
	Message    string
	Overridden bool
	Timestamp  time.Time
}

// SessionSummary is the durable, point-in-time view of a session, upserted
// idempotently keyed on (SessionID, Round) so a retried write after a
// network blip never double-applies.
type SessionSummary struct {
	SessionID   string
	ProductID   string
	BuyerRef    string
	Round       int
	State       string
	AgreedPrice *int64
	UpdatedAt   time.Time
}

// DurableStore is the append-only offer log plus session summary tier.
type DurableStore interface {
	AppendOfferEvent(ctx context.Context, event OfferEvent) error
	UpsertSessionSummary(ctx context.Context, summary SessionSummary) error
	Close() error
}
