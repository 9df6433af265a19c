// file: repository/repository.go

package repository

import (
	"context"
	"database/sql"
	"errors"

	"go-bank-ledger/model"
)

var (
	// ErrNotFound is returned when a keyed lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when an insert violates a uniqueness constraint.
	ErrDuplicateKey = errors.New("duplicate key")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so the same repository code
// runs inside and outside a unit of work.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// IAccountRepository defines the contract for account storage keyed by account number.
type IAccountRepository interface {
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, accountNumber string) (*model.Account, error)
	GetAccountForUpdate(ctx context.Context, accountNumber string) (*model.Account, error)
	UpdateAccount(ctx context.Context, account *model.Account) error
	DeleteAccount(ctx context.Context, accountNumber string) error
	AccountExists(ctx context.Context, accountNumber string) (bool, error)
	ListAccountsByOwner(ctx context.Context, ownerID int64) ([]*model.Account, error)
	ListAccountsByStatus(ctx context.Context, status string) ([]*model.Account, error)
	ListAccountsByType(ctx context.Context, accountType string) ([]*model.Account, error)
	ListAccounts(ctx context.Context) ([]*model.Account, error)
}

// ITransactionRepository defines the contract for the append-only ledger.
// List methods that take an account return newest entries first.
type ITransactionRepository interface {
	AppendTransaction(ctx context.Context, transaction *model.Transaction) error
	ListTransactionsByAccount(ctx context.Context, accountNumber string) ([]*model.Transaction, error)
	ListTransactionsByAccountAndType(ctx context.Context, accountNumber, transactionType string) ([]*model.Transaction, error)
	ListTransactions(ctx context.Context) ([]*model.Transaction, error)
}

// IUserRepository defines the contract for the user directory.
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	ListUsersByRole(ctx context.Context, role string) ([]*model.User, error)
	UpdateUserProfile(ctx context.Context, user *model.User) error
	UpdateUserStatus(ctx context.Context, id int64, status string) error
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
	DeleteUser(ctx context.Context, id int64) error
}

// Tx is the view of the store inside one unit of work. Everything done
// through it commits together or not at all.
type Tx interface {
	Accounts() IAccountRepository
	Transactions() ITransactionRepository
	// LockOwner serializes account creation for one owner until the unit of work ends.
	LockOwner(ctx context.Context, ownerID int64) error
}

// Store gives non-transactional reads and scoped units of work.
// WithinTx commits when fn returns nil and rolls back on every other exit path.
type Store interface {
	Accounts() IAccountRepository
	Transactions() ITransactionRepository
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}
