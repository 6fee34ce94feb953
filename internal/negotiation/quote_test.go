package negotiation

import (
	"testing"
	"time"
)

func TestQuoteBuilder_BuildThenVerifySucceeds(t *testing.T) {
	qb := NewQuoteBuilder([]byte("shared-secret"))
	now := time.Now()
	q := qb.Build("sess-1", "kurta-001", 4, 10500, time.Minute, now)

	if err := qb.Verify(q, now.Add(30*time.Second)); err != nil {
		t.Fatalf("expected valid quote to verify, got %v", err)
	}
}

func TestQuoteBuilder_VerifyRejectsExpiredQuote(t *testing.T) {
	qb := NewQuoteBuilder([]byte("shared-secret"))
	now := time.Now()
	q := qb.Build("sess-1", "kurta-001", 4, 10500, time.Minute, now)

	if err := qb.Verify(q, now.Add(2*time.Minute)); err == nil {
		t.Fatal("expected expired quote to fail verification")
	}
}

func TestQuoteBuilder_VerifyRejectsTamperedPrice(t *testing.T) {
	qb := NewQuoteBuilder([]byte("shared-secret"))
	now := time.Now()
	q := qb.Build("sess-1", "kurta-001", 4, 10500, time.Minute, now)

	q.Price = 1
	if err := qb.Verify(q, now.Add(time.Second)); err == nil {
		t.Fatal("expected tampered price to fail signature verification")
	}
}

func TestQuoteBuilder_VerifyRejectsWrongSecret(t *testing.T) {
	qb := NewQuoteBuilder([]byte("shared-secret"))
	other := NewQuoteBuilder([]byte("different-secret"))
	now := time.Now()
	q := qb.Build("sess-1", "kurta-001", 4, 10500, time.Minute, now)

	if err := other.Verify(q, now.Add(time.Second)); err == nil {
		t.Fatal("expected quote signed with a different secret to fail verification")
	}
}

func TestQuoteBuilder_DifferentSessionsProduceDifferentSignatures(t *testing.T) {
	qb := NewQuoteBuilder([]byte("shared-secret"))
	now := time.Now()
	a := qb.Build("sess-1", "kurta-001", 4, 10500, time.Minute, now)
	b := qb.Build("sess-2", "kurta-001", 4, 10500, time.Minute, now)

	if a.Signature == b.Signature {
		t.Error("expected different session ids to produce different signatures")
	}
}
