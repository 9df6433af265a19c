package memory

import (
	"context"

	"go-bank-ledger/model"
	"go-bank-ledger/repository"
)

// autoAccounts runs every call in a unit of work of its own, the same way a
// statement outside BEGIN/COMMIT behaves in Postgres.
type autoAccounts struct{ s *Store }

func (a autoAccounts) CreateAccount(ctx context.Context, account *model.Account) error {
	return a.s.WithinTx(ctx, func(tx repository.Tx) error {
		return tx.Accounts().CreateAccount(ctx, account)
	})
}

func (a autoAccounts) GetAccount(ctx context.Context, accountNumber string) (acc *model.Account, err error) {
	err = a.s.WithinTx(ctx, func(tx repository.Tx) error {
		acc, err = tx.Accounts().GetAccount(ctx, accountNumber)
		return err
	})
	return acc, err
}

func (a autoAccounts) GetAccountForUpdate(ctx context.Context, accountNumber string) (*model.Account, error) {
	return a.GetAccount(ctx, accountNumber)
}

func (a autoAccounts) UpdateAccount(ctx context.Context, account *model.Account) error {
	return a.s.WithinTx(ctx, func(tx repository.Tx) error {
		return tx.Accounts().UpdateAccount(ctx, account)
	})
}

func (a autoAccounts) DeleteAccount(ctx context.Context, accountNumber string) error {
	return a.s.WithinTx(ctx, func(tx repository.Tx) error {
		return tx.Accounts().DeleteAccount(ctx, accountNumber)
	})
}

func (a autoAccounts) AccountExists(ctx context.Context, accountNumber string) (ok bool, err error) {
	err = a.s.WithinTx(ctx, func(tx repository.Tx) error {
		ok, err = tx.Accounts().AccountExists(ctx, accountNumber)
		return err
	})
	return ok, err
}

func (a autoAccounts) list(ctx context.Context, fn func(repository.IAccountRepository) ([]*model.Account, error)) (out []*model.Account, err error) {
	err = a.s.WithinTx(ctx, func(tx repository.Tx) error {
		out, err = fn(tx.Accounts())
		return err
	})
	return out, err
}

func (a autoAccounts) ListAccountsByOwner(ctx context.Context, ownerID int64) ([]*model.Account, error) {
	return a.list(ctx, func(r repository.IAccountRepository) ([]*model.Account, error) {
		return r.ListAccountsByOwner(ctx, ownerID)
	})
}

func (a autoAccounts) ListAccountsByStatus(ctx context.Context, status string) ([]*model.Account, error) {
	return a.list(ctx, func(r repository.IAccountRepository) ([]*model.Account, error) {
		return r.ListAccountsByStatus(ctx, status)
	})
}

func (a autoAccounts) ListAccountsByType(ctx context.Context, accountType string) ([]*model.Account, error) {
	return a.list(ctx, func(r repository.IAccountRepository) ([]*model.Account, error) {
		return r.ListAccountsByType(ctx, accountType)
	})
}

func (a autoAccounts) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	return a.list(ctx, func(r repository.IAccountRepository) ([]*model.Account, error) {
		return r.ListAccounts(ctx)
	})
}

type autoTransactions struct{ s *Store }

func (a autoTransactions) AppendTransaction(ctx context.Context, transaction *model.Transaction) error {
	return a.s.WithinTx(ctx, func(tx repository.Tx) error {
		return tx.Transactions().AppendTransaction(ctx, transaction)
	})
}

func (a autoTransactions) list(ctx context.Context, fn func(repository.ITransactionRepository) ([]*model.Transaction, error)) (out []*model.Transaction, err error) {
	err = a.s.WithinTx(ctx, func(tx repository.Tx) error {
		out, err = fn(tx.Transactions())
		return err
	})
	return out, err
}

func (a autoTransactions) ListTransactionsByAccount(ctx context.Context, accountNumber string) ([]*model.Transaction, error) {
	return a.list(ctx, func(r repository.ITransactionRepository) ([]*model.Transaction, error) {
		return r.ListTransactionsByAccount(ctx, accountNumber)
	})
}

func (a autoTransactions) ListTransactionsByAccountAndType(ctx context.Context, accountNumber, transactionType string) ([]*model.Transaction, error) {
	return a.list(ctx, func(r repository.ITransactionRepository) ([]*model.Transaction, error) {
		return r.ListTransactionsByAccountAndType(ctx, accountNumber, transactionType)
	})
}

func (a autoTransactions) ListTransactions(ctx context.Context) ([]*model.Transaction, error) {
	return a.list(ctx, func(r repository.ITransactionRepository) ([]*model.Transaction, error) {
		return r.ListTransactions(ctx)
	})
}
