package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"molbhav/internal/negotiation"
	"molbhav/internal/product"
	"molbhav/internal/store"
	"molbhav/pkg/config"
	"molbhav/pkg/healthprobe"
	"molbhav/pkg/httpserver"
)

// App is the main application orchestrator: it owns the negotiation
// service's collaborators and the ambient ops HTTP surface, and sequences
// their startup and shutdown.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	catalog       product.Catalog
	durable       store.DurableStore
	negotiation   *negotiation.Service
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Options holds application options.
type Options struct {
	ProductCatalogPath string // overrides cfg's default static catalog location
}

// Negotiation exposes the constructed NegotiationService so the external
// HTTP/JSON shell (spec.md §6, out of scope here) can embed it directly.
func (a *App) Negotiation() *negotiation.Service {
	return a.negotiation
}
