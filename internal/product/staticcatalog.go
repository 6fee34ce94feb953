package product

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

// entry mirrors Product with mapstructure tags for YAML loading.
type entry struct {
	ID           string            `mapstructure:"id"`
	Name         string            `mapstructure:"name"`
	Category     string            `mapstructure:"category"`
	AnchorPrice  int64             `mapstructure:"anchor_price"`
	CostPrice    int64             `mapstructure:"cost_price"`
	MinMargin    float64           `mapstructure:"min_margin"`
	TargetMargin float64           `mapstructure:"target_margin"`
	Metadata     map[string]string `mapstructure:"metadata"`
}

type catalogFile struct {
	Products []entry `mapstructure:"products"`
}

// StaticCatalog is a read-only, in-memory Catalog loaded once from a YAML
// file at startup. Full catalog CRUD is an external collaborator (spec.md
// §1 Non-goals); this satisfies the Catalog interface for the `serve`
// command without standing up a separate service.
type StaticCatalog struct {
	mu       sync.RWMutex
	products map[string]*Product
}

// LoadStaticCatalog reads a YAML product catalog from path and validates
// every entry against Product.Validate.
func LoadStaticCatalog(path string) (*StaticCatalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read product catalog: %w", err)
	}

	var file catalogFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("unmarshal product catalog: %w", err)
	}

	products := make(map[string]*Product, len(file.Products))
	for _, e := range file.Products {
		p := &Product{
			ID:           e.ID,
			Name:         e.Name,
			Category:     e.Category,
			AnchorPrice:  e.AnchorPrice,
			CostPrice:    e.CostPrice,
			MinMargin:    e.MinMargin,
			TargetMargin: e.TargetMargin,
			Metadata:     e.Metadata,
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("product catalog entry %q: %w", e.ID, err)
		}
		products[p.ID] = p
	}

	return &StaticCatalog{products: products}, nil
}

// GetProduct implements Catalog.
func (c *StaticCatalog) GetProduct(_ context.Context, productID string) (*Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[productID]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *p
	return &clone, nil
}
