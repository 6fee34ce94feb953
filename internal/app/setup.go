package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"molbhav/internal/botdetect"
	"molbhav/internal/coupon"
	"molbhav/internal/dialogue"
	"molbhav/internal/negotiation"
	"molbhav/internal/product"
	"molbhav/internal/store"
	"molbhav/pkg/cache"
	"molbhav/pkg/config"
	"molbhav/pkg/healthprobe"
	"molbhav/pkg/httpserver"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := setupHealthChecker()
	httpServer := setupHTTPServer(cfg, logger, healthChecker)

	catalog, err := setupCatalog(cfg, opts)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup catalog: %w", err)
	}

	hotCache, err := setupHotCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup hot cache: %w", err)
	}
	hotStore := store.NewHotStore(hotCache, logger)

	durable, err := setupDurableStore(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup durable store: %w", err)
	}

	detector := botdetect.New(botdetect.DefaultWeights)

	couponCatalog, err := coupon.LoadCatalog(cfg.CouponCatalogPath)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("load coupon catalog: %w", err)
	}
	couponService := coupon.NewService(couponCatalog)

	dialogueGen, err := setupDialogueGenerator(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup dialogue generator: %w", err)
	}

	quoteBuilder := negotiation.NewQuoteBuilder([]byte(cfg.APIAdminKey))

	negotiationSvc := negotiation.NewService(
		catalog,
		hotStore,
		durable,
		detector,
		couponService,
		dialogueGen,
		quoteBuilder,
		negotiation.Config{
			DefaultBeta:     cfg.DefaultBeta,
			DefaultAlpha:    cfg.DefaultAlpha,
			MaxRounds:       cfg.DefaultMaxRounds,
			SessionTTL:      cfg.DefaultSessionTTL,
			QuoteTTL:        cfg.DefaultQuoteTTL,
			LockTTL:         cfg.SessionLockTTL,
			CooldownTTL:     cfg.MinResponseDelay,
			StartRateLimit:  cfg.StartRateLimit,
			StartRateWindow: cfg.StartRateWindow,
		},
		logger,
	)

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		catalog:       catalog,
		durable:       durable,
		negotiation:   negotiationSvc,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupHealthChecker() *healthprobe.HealthChecker {
	return healthprobe.New()
}

func setupHTTPServer(cfg *config.Config, logger *zap.Logger, healthChecker *healthprobe.HealthChecker) *httpserver.Server {
	return httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
	})
}

func setupCatalog(cfg *config.Config, opts *Options) (product.Catalog, error) {
	path := cfg.ProductCatalogPath
	if opts.ProductCatalogPath != "" {
		path = opts.ProductCatalogPath
	}
	return product.LoadStaticCatalog(path)
}

func setupHotCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 100000, // 10x expected max concurrent sessions
		MaxCost:     10000,  // maximum 10000 entries: sessions, locks, cooldowns, rate counters
		BufferItems: 64,
		Logger:      logger,
	})
}

func setupDurableStore(cfg *config.Config, logger *zap.Logger) (store.DurableStore, error) {
	if cfg.StorageMode == "postgres" {
		pgStore, err := store.NewPostgresStore(&store.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres store: %w", err)
		}
		return pgStore, nil
	}

	return store.NewConsoleStore(logger), nil
}

func setupDialogueGenerator(cfg *config.Config, logger *zap.Logger) (*dialogue.Generator, error) {
	templates, err := dialogue.LoadTemplates(cfg.DialogueTemplatesPath)
	if err != nil {
		return nil, fmt.Errorf("load dialogue templates: %w", err)
	}

	var provider dialogue.Provider
	if cfg.LLMEndpoint != "" {
		provider = dialogue.NewHTTPProvider(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMRequestTimeout)
	} else {
		logger.Warn("dialogue-provider-unconfigured",
			zap.String("note", "LLM_ENDPOINT not set, every round falls back to the deterministic template"))
		provider = noProvider{}
	}

	broker := dialogue.NewBroker(provider, dialogue.BrokerConfig{
		QueueMaxWait:   cfg.LLMQueueMaxWait,
		RequestTimeout: cfg.LLMRequestTimeout,
	})

	return dialogue.NewGenerator(broker, templates, logger, cfg.Env), nil
}

// noProvider always errors, forcing the generator down its deterministic
// fallback path when no LLM endpoint is configured.
type noProvider struct{}

func (noProvider) Generate(_ context.Context, _ dialogue.Request) (dialogue.Response, error) {
	return dialogue.Response{}, fmt.Errorf("dialogue: no LLM provider configured")
}
