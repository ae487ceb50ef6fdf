// Package postgres implements the store interfaces on PostgreSQL using
// a pgx connection pool. Atomic maps to a database transaction.
package postgres

import (
	"context"
	_ "embed"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradedesk/internal/store"
)

//go:embed schema.sql
var schema string

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so
// the per-entity stores run unchanged inside and outside transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements store.Store on a PostgreSQL pool.
type Store struct {
	pool *pgxpool.Pool
	q    querier
	inTx bool
}

// forUpdate appends a row lock to single-row lookups inside a
// transaction. Settlement and transfers read, modify, and re-save
// account and holding rows; without the lock two transactions touching
// the same row both read the old value and the later commit silently
// drops the earlier write.
func forUpdate(query string, inTx bool) string {
	if inTx {
		return query + " FOR UPDATE"
	}
	return query
}

// New connects to PostgreSQL and registers the decimal codec so NUMERIC
// columns scan directly into decimal.Decimal.
func New(ctx context.Context, connString string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	cfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	return &Store{pool: pool, q: pool}, nil
}

// Migrate applies the embedded schema. Statements are idempotent
// (CREATE TABLE IF NOT EXISTS), so Migrate is safe to run at startup.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Accounts returns the account store.
func (s *Store) Accounts() store.AccountStore { return &AccountStore{q: s.q, inTx: s.inTx} }

// Stocks returns the stock store.
func (s *Store) Stocks() store.StockStore { return &StockStore{q: s.q} }

// Orders returns the order store.
func (s *Store) Orders() store.OrderStore { return &OrderStore{q: s.q} }

// Trades returns the trade store.
func (s *Store) Trades() store.TradeStore { return &TradeStore{q: s.q} }

// Holdings returns the holding store.
func (s *Store) Holdings() store.HoldingStore { return &HoldingStore{q: s.q, inTx: s.inTx} }

// Atomic runs fn inside a transaction, rolling back if fn returns an
// error. Atomic sections must not nest.
func (s *Store) Atomic(ctx context.Context, fn func(store.Store) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Store{pool: s.pool, q: tx, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
