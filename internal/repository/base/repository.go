// Package base holds the shared pieces of the pgx repositories.
package base

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the common backbone of every concrete repository.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Pool returns the connection pool.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func (r *Repository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LockCounsellor takes the per-counsellor advisory lock for the duration
// of the transaction. Every mutation that consults the conflict space must
// hold this lock, so two racing writes for one counsellor serialize while
// different counsellors proceed in parallel.
func LockCounsellor(ctx context.Context, tx pgx.Tx, counsellorID int64) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended('booking:' || $1::text, 0))`, counsellorID)
	if err != nil {
		return fmt.Errorf("lock counsellor %d: %w", counsellorID, err)
	}
	return nil
}

// IsNotFound reports whether err is the pgx no-rows error.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
