package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"airsolutions/internal/core/tx"
	"airsolutions/pkg/logger"
)

var tracer = otel.Tracer("airsolutions/tx")

var _ tx.Manager = (*TxManager)(nil)

// DefaultStatementTimeout bounds every statement run inside a transaction.
const DefaultStatementTimeout = 30 * time.Second

// Querier is satisfied by both pgx.Tx and *pgxpool.Pool, so repositories
// work inside and outside transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QuerierProvider resolves the querier for a context. *TxManager is the
// production implementation.
type QuerierProvider interface {
	GetQuerier(ctx context.Context) Querier
}

// StaticQuerier always returns the wrapped querier. Repository tests pass a
// pgxmock pool through it.
type StaticQuerier struct {
	Q Querier
}

// GetQuerier implements QuerierProvider.
func (s StaticQuerier) GetQuerier(context.Context) Querier { return s.Q }

// Beginner is a querier that can open transactions: *pgxpool.Pool or a mock.
type Beginner interface {
	Querier
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// TxManager runs units of work in read-committed transactions. The active
// transaction travels in the context; nested calls join it.
type TxManager struct {
	db               Beginner
	statementTimeout time.Duration
}

// NewTxManager creates a transaction manager over the pool.
func NewTxManager(pool *Pool) *TxManager {
	return NewTxManagerFor(pool.Pool, DefaultStatementTimeout)
}

// NewTxManagerFor creates a transaction manager over any Beginner.
// A zero statementTimeout leaves the server default in place.
func NewTxManagerFor(db Beginner, statementTimeout time.Duration) *TxManager {
	return &TxManager{db: db, statementTimeout: statementTimeout}
}

type txKey struct{}

// RunInTransaction executes fn within a transaction, joining the one already
// in ctx if any. Any error from fn, or a ctx cancelled before commit, rolls
// the whole unit back.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.inTx(ctx) != nil {
		return fn(ctx)
	}

	ctx, span := tracer.Start(ctx, "transaction")
	defer span.End()

	if err := m.run(ctx, fn); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transaction failed")
		return err
	}
	return nil
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	t, err := m.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if m.statementTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", m.statementTimeout.Milliseconds())
		if _, err := t.Exec(ctx, stmt); err != nil {
			rollback(ctx, t, err)
			return fmt.Errorf("set statement_timeout: %w", err)
		}
	}

	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		rollback(ctx, t, err)
		return err
	}

	if err := ctx.Err(); err != nil {
		rollback(ctx, t, err)
		return fmt.Errorf("transaction aborted: %w", err)
	}

	if err := t.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// rollback uses a fresh context so a cancelled caller still releases the
// connection cleanly.
func rollback(ctx context.Context, t pgx.Tx, cause error) {
	if err := t.Rollback(context.WithoutCancel(ctx)); err != nil {
		logger.Error(ctx, "rollback failed", "error", err, "cause", cause)
	}
}

func (m *TxManager) inTx(ctx context.Context) pgx.Tx {
	t, _ := ctx.Value(txKey{}).(pgx.Tx)
	return t
}

// GetQuerier returns the transaction in ctx, or the pool outside one.
func (m *TxManager) GetQuerier(ctx context.Context) Querier {
	if t := m.inTx(ctx); t != nil {
		return t
	}
	return m.db
}
