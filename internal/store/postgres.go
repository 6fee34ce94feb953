package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresStore implements DurableStore against PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL connection configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStore opens and pings a PostgreSQL connection.
func NewPostgresStore(cfg *PostgresConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-store-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStore{db: db, logger: cfg.Logger}, nil
}

// AppendOfferEvent inserts one immutable offer row.
func (p *PostgresStore) AppendOfferEvent(ctx context.Context, event OfferEvent) error {
	query := `
		INSERT INTO offer_events (
			session_id, round, actor, price, tactic, message, overridden, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := p.db.ExecContext(ctx, query,
		event.SessionID, event.Round, event.Actor, event.Price,
		event.Tactic, event.Message, event.Overridden, event.Timestamp,
	)
	if err != nil {
		DurableWritesTotal.WithLabelValues("offer_event", "error").Inc()
		return fmt.Errorf("insert offer event: %w", err)
	}
	DurableWritesTotal.WithLabelValues("offer_event", "ok").Inc()

	p.logger.Debug("offer-event-stored",
		zap.String("session-id", event.SessionID),
		zap.Int("round", event.Round),
		zap.String("actor", event.Actor))
	return nil
}

// UpsertSessionSummary writes the session summary, idempotent on
// (session_id, round): a retried write for the same round is a no-op update
// rather than a duplicate insert.
func (p *PostgresStore) UpsertSessionSummary(ctx context.Context, summary SessionSummary) error {
	query := `
		INSERT INTO session_summaries (
			session_id, product_id, buyer_ref, round, state, agreed_price, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id, round) DO UPDATE SET
			state = EXCLUDED.state,
			agreed_price = EXCLUDED.agreed_price,
			updated_at = EXCLUDED.updated_at
	`
	_, err := p.db.ExecContext(ctx, query,
		summary.SessionID, summary.ProductID, summary.BuyerRef,
		summary.Round, summary.State, summary.AgreedPrice, summary.UpdatedAt,
	)
	if err != nil {
		DurableWritesTotal.WithLabelValues("session_summary", "error").Inc()
		return fmt.Errorf("upsert session summary: %w", err)
	}
	DurableWritesTotal.WithLabelValues("session_summary", "ok").Inc()

	p.logger.Debug("session-summary-upserted",
		zap.String("session-id", summary.SessionID),
		zap.Int("round", summary.Round),
		zap.String("state", summary.State))
	return nil
}

// Close closes the database connection.
func (p *PostgresStore) Close() error {
	p.logger.Info("closing-postgres-store")
	return p.db.Close()
}
