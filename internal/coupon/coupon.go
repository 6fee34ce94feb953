package coupon

import (
	"molbhav/internal/product"
	"molbhav/internal/session"
)

// Service applies at most one invisible coupon per session, folding its
// discount into an already-computed counter price rather than surfacing it
// as a separate line item (spec.md §4.7).
type Service struct {
	catalog *Catalog
}

// NewService constructs a Service over a loaded Catalog.
func NewService(catalog *Catalog) *Service {
	return &Service{catalog: catalog}
}

// Result describes the outcome of attempting to apply a coupon.
type Result struct {
	Applied       bool
	CouponID      string
	AdjustedPrice int64
}

// Apply tries to fold one matching coupon into counterPrice. It never
// lowers the price below the product floor, and it is a no-op once a
// session already has any coupon recorded (at most one per session).
func (s *Service) Apply(p *product.Product, sess *session.Session, tactic session.Tactic, round, counterPrice int64) Result {
	if s == nil || s.catalog == nil || len(sess.CouponsApplied) > 0 {
		return Result{AdjustedPrice: counterPrice}
	}

	for _, c := range s.catalog.Coupons {
		if c.Category != "" && c.Category != p.Category {
			continue
		}
		if int64(c.MinRound) > round {
			continue
		}
		if !c.AllowsTactic(tactic) {
			continue
		}

		discounted := counterPrice - int64(float64(counterPrice)*c.DiscountPercent)
		if discounted < p.Floor() {
			discounted = p.Floor()
		}
		if discounted >= counterPrice {
			continue
		}

		AppliedTotal.WithLabelValues(c.ID).Inc()
		return Result{Applied: true, CouponID: c.ID, AdjustedPrice: discounted}
	}

	return Result{AdjustedPrice: counterPrice}
}
