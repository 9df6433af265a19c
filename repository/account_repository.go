package repository

import (
	"context"
	"database/sql"
	"errors"

	"go-bank-ledger/logger"
	"go-bank-ledger/model"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const uniqueViolation = "23505"

const accountColumns = `account_number, owner_id, account_type, balance, currency, status, opened_at`

type AccountRepository struct {
	DB DBTX
}

func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{DB: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var acc model.Account
	err := row.Scan(&acc.AccountNumber, &acc.OwnerID, &acc.AccountType, &acc.Balance, &acc.Currency, &acc.Status, &acc.OpenedAt)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// CreateAccount inserts a new account. OpenedAt is assigned by the database.
func (r *AccountRepository) CreateAccount(ctx context.Context, account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"owner_id":       account.OwnerID,
		"account_number": account.AccountNumber,
		"account_type":   account.AccountType,
	})
	log.Info("Executing query to create a new account")

	query := `INSERT INTO accounts (account_number, owner_id, account_type, balance, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING opened_at`
	err := r.DB.QueryRowContext(ctx, query,
		account.AccountNumber, account.OwnerID, account.AccountType, account.Balance, account.Currency, account.Status,
	).Scan(&account.OpenedAt)
	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("Account insert rejected by unique constraint")
			return ErrDuplicateKey
		}
		log.WithError(err).Error("Failed to execute create account query")
		return err
	}
	return nil
}

func (r *AccountRepository) getAccount(ctx context.Context, query, accountNumber string) (*model.Account, error) {
	acc, err := scanAccount(r.DB.QueryRowContext(ctx, query, accountNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Log.WithError(err).WithField("account_number", accountNumber).Error("Failed to execute get account query")
		return nil, err
	}
	return acc, nil
}

// GetAccount retrieves an account by its number.
func (r *AccountRepository) GetAccount(ctx context.Context, accountNumber string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	return r.getAccount(ctx, query, accountNumber)
}

// GetAccountForUpdate retrieves an account and holds its row lock until the
// surrounding transaction ends. Only meaningful when DB is a *sql.Tx.
func (r *AccountRepository) GetAccountForUpdate(ctx context.Context, accountNumber string) (*model.Account, error) {
	logger.Log.WithField("account_number", accountNumber).Debug("Executing query to get account for update")

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1 FOR UPDATE`
	return r.getAccount(ctx, query, accountNumber)
}

// UpdateAccount overwrites the mutable fields of an existing account.
func (r *AccountRepository) UpdateAccount(ctx context.Context, account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_number": account.AccountNumber,
		"balance":        account.Balance.StringFixed(2),
		"status":         account.Status,
	})
	log.Info("Executing query to update account")

	query := `UPDATE accounts SET balance = $1, currency = $2, status = $3 WHERE account_number = $4`
	res, err := r.DB.ExecContext(ctx, query, account.Balance, account.Currency, account.Status, account.AccountNumber)
	if err != nil {
		log.WithError(err).Error("Failed to execute update account query")
		return err
	}
	return expectOneRow(res)
}

func (r *AccountRepository) DeleteAccount(ctx context.Context, accountNumber string) error {
	log := logger.Log.WithField("account_number", accountNumber)
	log.Info("Executing query to delete account")

	res, err := r.DB.ExecContext(ctx, `DELETE FROM accounts WHERE account_number = $1`, accountNumber)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete account query")
		return err
	}
	return expectOneRow(res)
}

func (r *AccountRepository) AccountExists(ctx context.Context, accountNumber string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE account_number = $1)`
	if err := r.DB.QueryRowContext(ctx, query, accountNumber).Scan(&exists); err != nil {
		logger.Log.WithError(err).WithField("account_number", accountNumber).Error("Failed to execute account exists query")
		return false, err
	}
	return exists, nil
}

// ListAccountsByOwner retrieves all accounts for a specific owner.
func (r *AccountRepository) ListAccountsByOwner(ctx context.Context, ownerID int64) ([]*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 ORDER BY opened_at`
	return r.listAccounts(ctx, logger.Log.WithField("owner_id", ownerID), query, ownerID)
}

func (r *AccountRepository) ListAccountsByStatus(ctx context.Context, status string) ([]*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE status = $1 ORDER BY opened_at`
	return r.listAccounts(ctx, logger.Log.WithField("status", status), query, status)
}

func (r *AccountRepository) ListAccountsByType(ctx context.Context, accountType string) ([]*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_type = $1 ORDER BY opened_at`
	return r.listAccounts(ctx, logger.Log.WithField("account_type", accountType), query, accountType)
}

// ListAccounts retrieves all accounts. For admin use only.
func (r *AccountRepository) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY opened_at`
	return r.listAccounts(ctx, logger.Log.WithContext(ctx), query)
}

func (r *AccountRepository) listAccounts(ctx context.Context, log *logrus.Entry, query string, args ...any) ([]*model.Account, error) {
	log.Debug("Executing query to list accounts")

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute list accounts query")
		return nil, err
	}
	defer rows.Close()

	accounts := []*model.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan account row")
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
