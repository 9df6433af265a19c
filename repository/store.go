// file: repository/store.go

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go-bank-ledger/logger"
)

// SQLStore is the Postgres-backed Store.
type SQLStore struct {
	db           *sql.DB
	accounts     *AccountRepository
	transactions *TransactionRepository
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		db:           db,
		accounts:     NewAccountRepository(db),
		transactions: NewTransactionRepository(db),
	}
}

func (s *SQLStore) Accounts() IAccountRepository         { return s.accounts }
func (s *SQLStore) Transactions() ITransactionRepository { return s.transactions }

// WithinTx runs fn inside a database transaction. The deferred Rollback is a
// no-op after a successful Commit and undoes everything on errors and panics.
func (s *SQLStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Log.WithError(err).Error("Failed to commit transaction")
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) Accounts() IAccountRepository         { return NewAccountRepository(t.tx) }
func (t *sqlTx) Transactions() ITransactionRepository { return NewTransactionRepository(t.tx) }

// LockOwner takes a transaction-scoped advisory lock keyed by owner id; it is
// released automatically on commit or rollback.
func (t *sqlTx) LockOwner(ctx context.Context, ownerID int64) error {
	_, err := t.tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, ownerID)
	return err
}
