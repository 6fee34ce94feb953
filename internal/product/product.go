// Package product holds the read-only product model the negotiation core
// consumes. Catalog CRUD lives in an external collaborator (spec.md §1); this
// package only defines the shape and the interface the core reads it through.
package product

import (
	"context"
	"fmt"
	"math"
	"regexp"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,100}$`)

// Product is the read-only catalog entry a negotiation session is opened
// against. Prices are integer currency units (rupees) throughout the core.
type Product struct {
	ID           string
	Name         string
	Category     string
	AnchorPrice  int64
	CostPrice    int64
	MinMargin    float64
	TargetMargin float64
	Metadata     map[string]string
}

// Validate checks the invariants in spec.md §3:
// floor = cost*(1+min) <= target = cost*(1+target) <= anchor.
func (p *Product) Validate() error {
	if !idPattern.MatchString(p.ID) {
		return fmt.Errorf("product: invalid id %q", p.ID)
	}
	if p.AnchorPrice <= 0 {
		return fmt.Errorf("product %s: anchor_price must be positive", p.ID)
	}
	if p.CostPrice <= 0 {
		return fmt.Errorf("product %s: cost_price must be positive", p.ID)
	}
	if p.CostPrice >= p.AnchorPrice {
		return fmt.Errorf("product %s: cost_price must be < anchor_price", p.ID)
	}
	if p.MinMargin < 0 || p.MinMargin >= 1 {
		return fmt.Errorf("product %s: min_margin must be in [0,1)", p.ID)
	}
	if p.TargetMargin < p.MinMargin || p.TargetMargin >= 1 {
		return fmt.Errorf("product %s: target_margin must be in [min_margin,1)", p.ID)
	}

	floor := p.Floor()
	target := p.Target()
	if floor > target {
		return fmt.Errorf("product %s: floor (%d) exceeds target (%d)", p.ID, floor, target)
	}
	if target > p.AnchorPrice {
		return fmt.Errorf("product %s: target (%d) exceeds anchor (%d)", p.ID, target, p.AnchorPrice)
	}
	return nil
}

// Floor returns the minimum acceptable seller price, rounded up to the
// nearest integer currency unit. It is never revealed externally.
func (p *Product) Floor() int64 {
	return int64(math.Ceil(float64(p.CostPrice) * (1 + p.MinMargin)))
}

// Target returns the seller's target price, rounded up to the nearest
// integer currency unit.
func (p *Product) Target() int64 {
	return int64(math.Ceil(float64(p.CostPrice) * (1 + p.TargetMargin)))
}

// Catalog is the read-only interface the negotiation core consumes from the
// external product-catalog collaborator.
type Catalog interface {
	GetProduct(ctx context.Context, productID string) (*Product, error)
}

// ErrNotFound is returned by a Catalog when the product does not exist.
var ErrNotFound = fmt.Errorf("product not found")
