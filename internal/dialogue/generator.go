package dialogue

import (
	"context"

	"go.uber.org/zap"
)

// MaxRegenerations is how many times the generator asks the provider for a
// fresh line before giving up on it for this round and falling back to a
// deterministic template.
const MaxRegenerations = 2

// Generator produces the buyer-facing message for a round. The
// authoritative price has already been decided by the state machine and
// Validator; Generator's only job is to dress it in a vernacular line and
// guard against the model contradicting that price or echoing something it
// shouldn't.
type Generator struct {
	broker    *Broker
	templates *TemplateSet
	logger    *zap.Logger
	env       string
}

// NewGenerator builds a Generator. env controls whether stripped
// chain-of-thought is retained in the returned metadata ("production"
// retains it for audit; anything else discards it immediately).
func NewGenerator(broker *Broker, templates *TemplateSet, logger *zap.Logger, env string) *Generator {
	return &Generator{broker: broker, templates: templates, logger: logger, env: env}
}

// Outcome is what the negotiation service persists alongside the offer.
type Outcome struct {
	Message   string
	Fallback  bool
	Reasoning string
}

// Generate calls the provider up to 1+MaxRegenerations times, discarding
// any response whose embedded price contradicts authoritativePrice, and
// falls back to the deterministic template set if none of the attempts
// produce a trustworthy line.
func (g *Generator) Generate(ctx context.Context, req Request, authoritativePrice int64) Outcome {
	for attempt := 0; attempt <= MaxRegenerations; attempt++ {
		resp, err := g.broker.Generate(ctx, req)
		if err != nil {
			g.logger.Warn("dialogue-provider-error", zap.Error(err), zap.Int("attempt", attempt))
			DialogueErrorsTotal.Inc()
			continue
		}

		if resp.HasPrice && resp.Price != authoritativePrice {
			g.logger.Debug("dialogue-price-contradiction",
				zap.Int64("model_price", resp.Price),
				zap.Int64("authoritative_price", authoritativePrice),
				zap.Int("attempt", attempt))
			RegenerationsTotal.Inc()
			continue
		}

		sanitized := Sanitize(resp.Message)
		if sanitized.Message == "" {
			continue
		}

		reasoning := sanitized.Reasoning
		if g.env != "production" {
			reasoning = ""
		}

		FallbacksTotal.WithLabelValues("false").Inc()
		return Outcome{Message: sanitized.Message, Reasoning: reasoning}
	}

	FallbacksTotal.WithLabelValues("true").Inc()
	fallback := g.templates.Render(req.Language, req.Tactic, authoritativePrice)
	return Outcome{Message: fallback, Fallback: true}
}
