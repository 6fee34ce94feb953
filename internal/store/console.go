package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ConsoleStore implements DurableStore by pretty-printing to stdout — the
// default for local development without a database.
type ConsoleStore struct {
	logger *zap.Logger
}

// NewConsoleStore creates a console-backed DurableStore.
func NewConsoleStore(logger *zap.Logger) *ConsoleStore {
	logger.Info("console-store-initialized")
	return &ConsoleStore{logger: logger}
}

// AppendOfferEvent prints one offer event.
func (c *ConsoleStore) AppendOfferEvent(ctx context.Context, event OfferEvent) error {
	fmt.Printf("[offer] session=%s round=%d actor=%s price=%d tactic=%s overridden=%v\n",
		event.SessionID, event.Round, event.Actor, event.Price, event.Tactic, event.Overridden)
	return nil
}

// UpsertSessionSummary prints a session summary snapshot.
func (c *ConsoleStore) UpsertSessionSummary(ctx context.Context, summary SessionSummary) error {
	agreed := "none"
	if summary.AgreedPrice != nil {
		agreed = fmt.Sprintf("%d", *summary.AgreedPrice)
	}
	fmt.Printf("[summary] session=%s round=%d state=%s agreed=%s\n",
		summary.SessionID, summary.Round, summary.State, agreed)
	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStore) Close() error {
	c.logger.Info("closing-console-store")
	return nil
}
