package repository

import (
	"context"

	"go-bank-ledger/logger"
	"go-bank-ledger/model"

	"github.com/sirupsen/logrus"
)

const transactionColumns = `id, account_number, transaction_type, amount, created_at, description, status`

// TransactionRepository implements ITransactionRepository.
type TransactionRepository struct {
	DB DBTX
}

func NewTransactionRepository(db DBTX) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

// AppendTransaction inserts a ledger entry. The id comes from the sequence and
// the timestamp from now(), which is fixed for the whole database transaction,
// so both legs of a transfer share it.
func (r *TransactionRepository) AppendTransaction(ctx context.Context, transaction *model.Transaction) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_number":   transaction.AccountNumber,
		"transaction_type": transaction.TransactionType,
		"amount":           transaction.Amount.StringFixed(2),
	})
	log.Info("Executing query to append a transaction")

	if transaction.Status == "" {
		transaction.Status = model.TransactionStatusSuccess
	}

	query := `INSERT INTO transactions (account_number, transaction_type, amount, description, status)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query,
		transaction.AccountNumber, transaction.TransactionType, transaction.Amount, transaction.Description, transaction.Status,
	).Scan(&transaction.ID, &transaction.Timestamp)
	if err != nil {
		log.WithError(err).Error("Failed to execute append transaction query")
		return err
	}
	return nil
}

// ListTransactionsByAccount retrieves the history of one account, newest first.
func (r *TransactionRepository) ListTransactionsByAccount(ctx context.Context, accountNumber string) ([]*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE account_number = $1
		ORDER BY created_at DESC, id DESC`
	return r.listTransactions(ctx, logger.Log.WithField("account_number", accountNumber), query, accountNumber)
}

func (r *TransactionRepository) ListTransactionsByAccountAndType(ctx context.Context, accountNumber, transactionType string) ([]*model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_number":   accountNumber,
		"transaction_type": transactionType,
	})
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE account_number = $1 AND transaction_type = $2
		ORDER BY created_at DESC, id DESC`
	return r.listTransactions(ctx, log, query, accountNumber, transactionType)
}

func (r *TransactionRepository) ListTransactions(ctx context.Context) ([]*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY id`
	return r.listTransactions(ctx, logger.Log.WithContext(ctx), query)
}

func (r *TransactionRepository) listTransactions(ctx context.Context, log *logrus.Entry, query string, args ...any) ([]*model.Transaction, error) {
	log.Debug("Executing query to list transactions")

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute list transactions query")
		return nil, err
	}
	defer rows.Close()

	transactions := []*model.Transaction{}
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.AccountNumber, &t.TransactionType, &t.Amount, &t.Timestamp, &t.Description, &t.Status); err != nil {
			log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}
