// Package repository provides data access layer implementations for the sync service.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/benx421/bank-sync/internal/db"
	"github.com/benx421/bank-sync/internal/models"
)

// pqUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pqUniqueViolation = "23505"

// LedgerRepository stores bank-transaction records keyed by remote source id.
type LedgerRepository interface {
	ExistsByRemoteID(ctx context.Context, remoteID string) (bool, error)
	Create(ctx context.Context, tx *models.LedgerTransaction) error
	FindByRemoteID(ctx context.Context, remoteID string) (*models.LedgerTransaction, error)
	CountByDateRange(ctx context.Context, from, to time.Time) (int, error)
}

// ledgerRepository implements LedgerRepository
type ledgerRepository struct {
	db db.Querier
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(q db.Querier) LedgerRepository {
	return &ledgerRepository{db: q}
}

// ExistsByRemoteID reports whether a ledger row already carries this remote id.
func (r *ledgerRepository) ExistsByRemoteID(ctx context.Context, remoteID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM ledger_transactions WHERE remote_source_id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, remoteID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check ledger transaction: %w", err)
	}
	return exists, nil
}

// Create inserts a ledger row. A row with the same remote id that committed
// first yields models.ErrDuplicateTransaction.
func (r *ledgerRepository) Create(ctx context.Context, tx *models.LedgerTransaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO ledger_transactions (
			id, remote_source_id, date, status, bank_account, currency,
			deposit, withdrawal, description, reference_number,
			transaction_type, batch_id, source_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (remote_source_id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.RemoteSourceID,
		tx.Date,
		tx.Status,
		tx.BankAccount,
		tx.Currency,
		tx.Deposit,
		tx.Withdrawal,
		tx.Description,
		tx.ReferenceNumber,
		tx.TransactionType,
		tx.BatchID,
		tx.SourceID,
		tx.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return models.ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to create ledger transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrDuplicateTransaction
	}

	return nil
}

// FindByRemoteID retrieves the ledger row for a remote transaction
func (r *ledgerRepository) FindByRemoteID(ctx context.Context, remoteID string) (*models.LedgerTransaction, error) {
	query := `
		SELECT id, remote_source_id, date, status, bank_account, currency,
		       deposit::text, withdrawal::text, description, reference_number,
		       transaction_type, batch_id, source_id, created_at
		FROM ledger_transactions
		WHERE remote_source_id = $1
	`

	var tx models.LedgerTransaction
	err := r.db.QueryRowContext(ctx, query, remoteID).Scan(
		&tx.ID,
		&tx.RemoteSourceID,
		&tx.Date,
		&tx.Status,
		&tx.BankAccount,
		&tx.Currency,
		&tx.Deposit,
		&tx.Withdrawal,
		&tx.Description,
		&tx.ReferenceNumber,
		&tx.TransactionType,
		&tx.BatchID,
		&tx.SourceID,
		&tx.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ledger transaction not found: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger transaction: %w", err)
	}

	return &tx, nil
}

// CountByDateRange counts ledger rows dated within [from, to].
func (r *ledgerRepository) CountByDateRange(ctx context.Context, from, to time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM ledger_transactions WHERE date BETWEEN $1 AND $2`

	var n int
	if err := r.db.QueryRowContext(ctx, query, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count ledger transactions: %w", err)
	}
	return n, nil
}
