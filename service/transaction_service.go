package service

import (
	"context"
	"errors"
	"time"

	"go-bank-ledger/logger"
	"go-bank-ledger/metrics"
	"go-bank-ledger/model"
	"go-bank-ledger/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// TransactionService is the ledger engine: it moves money between two
// accounts and answers read-only questions about the ledger.
type TransactionService struct {
	store repository.Store
	cache *accountCache
}

// NewTransactionService wires the engine. cache may be nil; when set, cached
// owner account lists are dropped after every committed transfer.
func NewTransactionService(store repository.Store, cache ICacheClient) *TransactionService {
	return &TransactionService{
		store: store,
		cache: &accountCache{client: cache},
	}
}

// Transfer debits from and credits to by amount in one unit of work and
// records the TRANSFER_OUT / TRANSFER_IN pair. On any failure nothing changes.
func (s *TransactionService) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) (*model.Transaction, *model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"from_account": from,
		"to_account":   to,
		"amount":       amount.String(),
	})
	log.Info("Starting money transfer process")

	start := time.Now()
	debit, credit, owners, err := s.transfer(ctx, from, to, amount)
	metrics.RecordTransfer(Outcome(err), time.Since(start))
	if err != nil {
		log.WithError(err).Warn("Transfer rejected")
		return nil, nil, err
	}

	s.cache.invalidate(ctx, owners...)
	log.WithFields(logrus.Fields{
		"debit_id":  debit.ID,
		"credit_id": credit.ID,
	}).Info("Transaction completed successfully")
	return debit, credit, nil
}

func (s *TransactionService) transfer(ctx context.Context, from, to string, amount decimal.Decimal) (debit, credit *model.Transaction, owners []int64, err error) {
	if !amount.IsPositive() || !hasMoneyScale(amount) || amount.GreaterThan(MaxMoney) {
		return nil, nil, nil, ErrInvalidAmount
	}
	if from == to {
		return nil, nil, nil, ErrSelfTransferNotAllowed
	}

	err = s.store.WithinTx(ctx, func(tx repository.Tx) error {
		locked, err := lockPair(ctx, tx.Accounts(), from, to)
		if err != nil {
			return err
		}
		source, ok := locked[from]
		if !ok {
			return ErrSourceAccountNotFound
		}
		dest, ok := locked[to]
		if !ok {
			return ErrDestinationAccountNotFound
		}
		if !source.IsActive() {
			return ErrSourceAccountInactive
		}
		if !dest.IsActive() {
			return ErrDestinationAccountInactive
		}
		if source.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}
		if source.Currency != dest.Currency {
			return ErrCurrencyMismatch
		}
		if dest.Balance.Add(amount).GreaterThan(MaxMoney) {
			return ErrBalanceLimitExceeded
		}

		source.Balance = source.Balance.Sub(amount)
		dest.Balance = dest.Balance.Add(amount)
		if err := tx.Accounts().UpdateAccount(ctx, source); err != nil {
			return storageErr("debit source", err)
		}
		if err := tx.Accounts().UpdateAccount(ctx, dest); err != nil {
			return storageErr("credit destination", err)
		}

		out := &model.Transaction{
			AccountNumber:   from,
			TransactionType: model.TransactionTypeTransferOut,
			Amount:          amount,
			Description:     "Transferred to " + to,
			Status:          model.TransactionStatusSuccess,
		}
		in := &model.Transaction{
			AccountNumber:   to,
			TransactionType: model.TransactionTypeTransferIn,
			Amount:          amount,
			Description:     "Received from " + from,
			Status:          model.TransactionStatusSuccess,
		}
		if err := tx.Transactions().AppendTransaction(ctx, out); err != nil {
			return storageErr("record debit", err)
		}
		if err := tx.Transactions().AppendTransaction(ctx, in); err != nil {
			return storageErr("record credit", err)
		}

		debit, credit = out, in
		owners = []int64{source.OwnerID, dest.OwnerID}
		return nil
	})
	if err != nil {
		return nil, nil, nil, settle("transfer", err)
	}
	return debit, credit, owners, nil
}

// lockPair takes the row locks of both accounts in lexical order, so two
// transfers over the same pair in opposite directions cannot deadlock.
// Missing accounts are absent from the result.
func lockPair(ctx context.Context, accounts repository.IAccountRepository, a, b string) (map[string]*model.Account, error) {
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	locked := make(map[string]*model.Account, 2)
	for _, number := range [2]string{first, second} {
		acc, err := accounts.GetAccountForUpdate(ctx, number)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, storageErr("lock account", err)
		}
		locked[number] = acc
	}
	return locked, nil
}

// TransactionsFor lists every entry for the account, newest first.
func (s *TransactionService) TransactionsFor(ctx context.Context, accountNumber string) ([]*model.Transaction, error) {
	list, err := s.store.Transactions().ListTransactionsByAccount(ctx, accountNumber)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}
	return list, nil
}

// ReceivedFor lists the TRANSFER_IN entries for the account, newest first.
func (s *TransactionService) ReceivedFor(ctx context.Context, accountNumber string) ([]*model.Transaction, error) {
	list, err := s.store.Transactions().ListTransactionsByAccountAndType(ctx, accountNumber, model.TransactionTypeTransferIn)
	if err != nil {
		return nil, storageErr("list received transactions", err)
	}
	return list, nil
}

func (s *TransactionService) AllTransactions(ctx context.Context) ([]*model.Transaction, error) {
	list, err := s.store.Transactions().ListTransactions(ctx)
	if err != nil {
		return nil, storageErr("list all transactions", err)
	}
	return list, nil
}
