package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"auction-shop/internal/shoperrors"
)

// Storage is the pgx-backed implementation of the repository interfaces.
type Storage struct {
	db *pgxpool.Pool
}

const (
	queryTimeout = 5 * time.Second
	retryBackoff = 100 * time.Millisecond
)

// NewConnPool opens and pings a pgx connection pool
func NewConnPool(config *Config) (*pgxpool.Pool, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(config.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	pgxPoolConfig.MaxConns = int32(config.MaxConns)

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return pool, nil
}

// New creates the storage and ensures the schema exists
func New(pool *pgxpool.Pool) (*Storage, error) {
	s := &Storage{db: pool}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return s, nil
}

// migrate creates the four relations if they are missing
func (s *Storage) migrate() error {
	ctx, cancel := opCtx()
	defer cancel()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			tg_id BIGINT PRIMARY KEY,
			lang TEXT NOT NULL,
			theme TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price BIGINT NOT NULL,
			category TEXT NOT NULL,
			float_value DOUBLE PRECISION,
			link TEXT,
			sold BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS auctions (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			start_price BIGINT NOT NULL,
			step BIGINT NOT NULL,
			current_price BIGINT NOT NULL,
			end_timestamp TIMESTAMPTZ NOT NULL,
			finished BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS bids (
			id TEXT PRIMARY KEY,
			auction_id TEXT NOT NULL REFERENCES auctions(id),
			bidder_identifier TEXT NOT NULL,
			amount BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bids_auction ON bids(auction_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// opCtx bounds a single storage attempt
func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), queryTimeout)
}

// withRetry runs op with a fresh deadline per attempt, retrying once after a
// short backoff when pgx reports the failure safe to retry. Row-level
// outcomes pass through untouched; any other persistent failure surfaces as
// ErrStoreUnavailable.
func withRetry(op func(ctx context.Context) error) error {
	err := attempt(op)
	if err == nil {
		return nil
	}

	if pgconn.SafeToRetry(err) {
		time.Sleep(retryBackoff)
		if err = attempt(op); err == nil {
			return nil
		}
	}

	if errors.Is(err, pgx.ErrNoRows) ||
		errors.Is(err, shoperrors.ErrAuctionNotFound) ||
		errors.Is(err, shoperrors.ErrProductNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", shoperrors.ErrStoreUnavailable, err)
}

func attempt(op func(ctx context.Context) error) error {
	ctx, cancel := opCtx()
	defer cancel()
	return op(ctx)
}
