package store

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// RetryConfig tunes WriteRetrier's exponential backoff, the same
// initial/max/multiplier/jitter shape the teacher uses for websocket
// reconnection, reworked here from "reconnect a socket" to "retry a
// durable write".
type RetryConfig struct {
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
	JitterPercent     float64
	MaxAttempts       int
}

// DefaultRetryConfig is a conservative default for durable-tier writes: a
// handful of attempts within a couple of seconds before giving up and
// flagging the session degraded.
var DefaultRetryConfig = RetryConfig{
	InitialDelay:      50 * time.Millisecond,
	MaxDelay:          2 * time.Second,
	BackoffMultiplier: 2.0,
	JitterPercent:     0.2,
	MaxAttempts:       4,
}

// WriteRetrier retries a durable-tier write with exponential backoff and
// jitter, giving up after MaxAttempts rather than retrying forever — unlike
// a socket reconnect, a stuck write must eventually surface to the caller
// so the session can be marked degraded.
type WriteRetrier struct {
	cfg    RetryConfig
	logger *zap.Logger
}

// NewWriteRetrier builds a WriteRetrier. A zero-value cfg falls back to
// DefaultRetryConfig.
func NewWriteRetrier(cfg RetryConfig, logger *zap.Logger) *WriteRetrier {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultRetryConfig
	}
	return &WriteRetrier{cfg: cfg, logger: logger}
}

// Do runs write, retrying with backoff on error up to MaxAttempts. It
// returns the last error if every attempt fails.
func (r *WriteRetrier) Do(ctx context.Context, op string, write func(context.Context) error) error {
	backoff := r.cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = write(ctx)
		if lastErr == nil {
			return nil
		}

		r.logger.Warn("durable-write-retry", zap.String("op", op), zap.Int("attempt", attempt), zap.Error(lastErr))
		WriteRetriesTotal.WithLabelValues(op).Inc()

		if attempt == r.cfg.MaxAttempts {
			break
		}

		jittered := time.Duration(float64(backoff) * (1.0 + rand.Float64()*r.cfg.JitterPercent))
		select {
		case <-time.After(jittered):
		case <-ctx.Done():
			return ctx.Err()
		}

		backoff = time.Duration(float64(backoff) * r.cfg.BackoffMultiplier)
		if backoff > r.cfg.MaxDelay {
			backoff = r.cfg.MaxDelay
		}
	}

	WriteExhaustedTotal.WithLabelValues(op).Inc()
	return lastErr
}
