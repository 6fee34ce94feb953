package store

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"molbhav/internal/session"
)

// fakeCache is a minimal in-memory cache.Cache for exercising HotStore
// without pulling in Ristretto's async write path in tests.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]any
}

func newFakeCache() *fakeCache { return &fakeCache{data: make(map[string]any)} }

func (f *fakeCache) Get(key string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeCache) Set(key string, value any, ttl time.Duration) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return true
}

func (f *fakeCache) Delete(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
}

func (f *fakeCache) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = make(map[string]any)
}

func (f *fakeCache) Close() {}

func newTestHotStore(t *testing.T) *HotStore {
	t.Helper()
	return NewHotStore(newFakeCache(), zaptest.NewLogger(t))
}

func TestHotStore_PutAndGetSession(t *testing.T) {
	h := newTestHotStore(t)
	s := session.New("s1", "tok", "p1", "b1", session.LanguageEN, 1000, 700, 15, 5.0, 0.6, 60)

	if !h.PutSession(s, time.Minute) {
		t.Fatal("expected PutSession to succeed")
	}
	got, ok := h.GetSession("s1")
	if !ok || got.SessionID != "s1" {
		t.Fatalf("expected to read back session s1, got %+v ok=%v", got, ok)
	}
}

func TestHotStore_AcquireLock_SecondAttemptFails(t *testing.T) {
	h := newTestHotStore(t)
	token1, ok := h.AcquireLock("s1", "worker-a", time.Second)
	if !ok {
		t.Fatal("expected first acquisition to succeed")
	}

	_, ok = h.AcquireLock("s1", "worker-b", time.Second)
	if ok {
		t.Fatal("expected second acquisition to fail while lock held")
	}

	if !h.ReleaseLock("s1", token1) {
		t.Fatal("expected release with correct token to succeed")
	}

	_, ok = h.AcquireLock("s1", "worker-b", time.Second)
	if !ok {
		t.Fatal("expected acquisition to succeed after release")
	}
}

func TestHotStore_ReleaseLock_StaleTokenRejected(t *testing.T) {
	h := newTestHotStore(t)
	token1, _ := h.AcquireLock("s1", "worker-a", time.Second)
	h.ReleaseLock("s1", token1)
	token2, _ := h.AcquireLock("s1", "worker-b", time.Second)

	if h.ReleaseLock("s1", token1) {
		t.Error("expected stale fencing token to be rejected")
	}
	if !h.ReleaseLock("s1", token2) {
		t.Error("expected current token to release successfully")
	}
}

func TestHotStore_Cooldown(t *testing.T) {
	h := newTestHotStore(t)
	if h.IsCoolingDown("s1") {
		t.Fatal("expected no cooldown before SetCooldown")
	}
	h.SetCooldown("s1", time.Minute)
	if !h.IsCoolingDown("s1") {
		t.Error("expected cooldown to be active")
	}
}

func TestHotStore_CheckStartRate_EnforcesLimit(t *testing.T) {
	h := newTestHotStore(t)
	for i := 0; i < 3; i++ {
		if !h.CheckStartRate("1.2.3.4", 3, time.Minute) {
			t.Fatalf("expected attempt %d to be within limit", i+1)
		}
	}
	if h.CheckStartRate("1.2.3.4", 3, time.Minute) {
		t.Error("expected 4th attempt to exceed the limit of 3")
	}
}
