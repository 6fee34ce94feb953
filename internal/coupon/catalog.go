// Package coupon implements the invisible coupon catalog and application
// rules (spec.md §4.7): a seller-side discount layer the buyer never sees
// as a line item, applied at most once per session and only under tactics
// that are already conceding. Catalog loading follows the viper/mapstructure
// pattern the retrieval pack uses for YAML-backed bot configuration.
package coupon

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"molbhav/internal/session"
)

// Coupon is one catalog entry: a conditional discount the seller may fold
// invisibly into a counter-offer.
type Coupon struct {
	ID              string   `mapstructure:"id"`
	Category        string   `mapstructure:"category"`
	DiscountPercent float64  `mapstructure:"discount_percent"`
	AllowedTactics  []string `mapstructure:"allowed_tactics"`
	MinRound        int      `mapstructure:"min_round"`
}

// Catalog is the ordered list of coupons evaluated in file order; the first
// match wins.
type Catalog struct {
	Coupons []Coupon `mapstructure:"coupons"`
}

// LoadCatalog reads a YAML coupon catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read coupon catalog: %w", err)
	}

	var cat Catalog
	if err := v.Unmarshal(&cat); err != nil {
		return nil, fmt.Errorf("unmarshal coupon catalog: %w", err)
	}
	for i, c := range cat.Coupons {
		if c.ID == "" {
			return nil, fmt.Errorf("coupon catalog entry %d: id is required", i)
		}
		if c.DiscountPercent <= 0 || c.DiscountPercent >= 1 {
			return nil, fmt.Errorf("coupon %s: discount_percent must be in (0, 1)", c.ID)
		}
	}
	return &cat, nil
}

// AllowsTactic reports whether this coupon applies to the given tactic.
// Invisible coupons only ever fire inside an already-conceding tactic
// (spec.md §4.6); that restriction is enforced here rather than trusted
// from catalog data, so a catalog entry cannot widen it to e.g.
// quantity_pivot. AllowedTactics, when set, narrows further within that
// pair.
func (c Coupon) AllowsTactic(t session.Tactic) bool {
	if t != session.TacticConcession && t != session.TacticWalkAwaySave {
		return false
	}
	if len(c.AllowedTactics) == 0 {
		return true
	}
	for _, allowed := range c.AllowedTactics {
		if strings.EqualFold(allowed, string(t)) {
			return true
		}
	}
	return false
}
