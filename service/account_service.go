// file: service/account_service.go

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-bank-ledger/logger"
	"go-bank-ledger/metrics"
	"go-bank-ledger/model"
	"go-bank-ledger/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// maxNumberDraws bounds the in-transaction search for an unused account number.
const maxNumberDraws = 32

// UserDirectory answers whether an owner id refers to a known user.
type UserDirectory interface {
	UserExists(ctx context.Context, id int64) (bool, error)
}

// AccountOptions carries the creation policy.
type AccountOptions struct {
	DefaultCurrency     string
	MaxAccountsPerOwner int
	// NumberAttempts bounds how many times Open is retried after an
	// account-number collision on insert.
	NumberAttempts int
	CacheTTL       time.Duration
}

func DefaultAccountOptions() AccountOptions {
	return AccountOptions{
		DefaultCurrency:     "INR",
		MaxAccountsPerOwner: 2,
		NumberAttempts:      5,
		CacheTTL:            10 * time.Minute,
	}
}

// AccountService owns account creation and status transitions.
// Balances are never changed here.
type AccountService struct {
	store     repository.Store
	users     UserDirectory
	cache     *accountCache
	opts      AccountOptions
	newSource func() NumberSource
}

// NewAccountService wires the service. cache may be nil.
func NewAccountService(store repository.Store, users UserDirectory, cache ICacheClient, opts AccountOptions) *AccountService {
	defaults := DefaultAccountOptions()
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = defaults.DefaultCurrency
	}
	if opts.MaxAccountsPerOwner <= 0 {
		opts.MaxAccountsPerOwner = defaults.MaxAccountsPerOwner
	}
	if opts.NumberAttempts <= 0 {
		opts.NumberAttempts = defaults.NumberAttempts
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaults.CacheTTL
	}
	return &AccountService{
		store:     store,
		users:     users,
		cache:     &accountCache{client: cache, ttl: opts.CacheTTL},
		opts:      opts,
		newSource: newNumberSource,
	}
}

// Open creates an ACTIVE account for ownerID. initialBalance may be nil.
func (s *AccountService) Open(ctx context.Context, ownerID int64, accountType string, initialBalance *decimal.Decimal, currency string) (*model.Account, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"owner_id":     ownerID,
		"account_type": accountType,
	})

	account, err := s.open(ctx, log, ownerID, accountType, initialBalance, currency)
	metrics.RecordAccountEvent("open", Outcome(err))
	if err != nil {
		log.WithError(err).Warn("Account opening rejected")
		return nil, err
	}

	s.cache.invalidate(ctx, ownerID)
	log.WithField("account_number", account.AccountNumber).Info("Account opened")
	return account, nil
}

func (s *AccountService) open(ctx context.Context, log *logrus.Entry, ownerID int64, accountType string, initialBalance *decimal.Decimal, currency string) (*model.Account, error) {
	balance := decimal.Zero
	if initialBalance != nil {
		balance = *initialBalance
	}
	if currency == "" {
		currency = s.opts.DefaultCurrency
	}
	currency = strings.ToUpper(currency)

	exists, err := s.users.UserExists(ctx, ownerID)
	if err != nil {
		return nil, storageErr("check owner", err)
	}
	if !exists {
		return nil, ErrOwnerNotFound
	}

	next := s.newSource()
	for attempt := 1; attempt <= s.opts.NumberAttempts; attempt++ {
		account := &model.Account{
			OwnerID:     ownerID,
			AccountType: accountType,
			Balance:     balance,
			Currency:    currency,
			Status:      model.AccountStatusActive,
		}
		err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
			return s.openInTx(ctx, tx, account, next)
		})
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, repository.ErrDuplicateKey) {
			return nil, settle("open account", err)
		}
		log.WithField("attempt", attempt).Warn("Account number collided on insert, retrying")
	}
	return nil, storageErr("open account", errors.New("could not allocate a unique account number"))
}

func (s *AccountService) openInTx(ctx context.Context, tx repository.Tx, account *model.Account, next NumberSource) error {
	if err := tx.LockOwner(ctx, account.OwnerID); err != nil {
		return storageErr("lock owner", err)
	}

	accounts := tx.Accounts()
	existing, err := accounts.ListAccountsByOwner(ctx, account.OwnerID)
	if err != nil {
		return storageErr("list owner accounts", err)
	}
	if len(existing) >= s.opts.MaxAccountsPerOwner {
		return ErrAccountLimitExceeded
	}
	for _, acc := range existing {
		if strings.EqualFold(acc.AccountType, account.AccountType) {
			return ErrDuplicateAccountType
		}
	}
	if account.Balance.IsNegative() || !hasMoneyScale(account.Balance) || account.Balance.GreaterThan(MaxMoney) {
		return ErrInvalidBalance
	}
	account.Balance = account.Balance.Round(2)

	number, err := s.unusedNumber(ctx, accounts, next)
	if err != nil {
		return err
	}
	account.AccountNumber = number

	if err := accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return err
		}
		return storageErr("create account", err)
	}
	return nil
}

func (s *AccountService) unusedNumber(ctx context.Context, accounts repository.IAccountRepository, next NumberSource) (string, error) {
	for i := 0; i < maxNumberDraws; i++ {
		number := next()
		exists, err := accounts.AccountExists(ctx, number)
		if err != nil {
			return "", storageErr("check account number", err)
		}
		if !exists {
			return number, nil
		}
	}
	return "", repository.ErrDuplicateKey
}

// UpdateStatus overwrites the account status. The value is stored upper-cased.
func (s *AccountService) UpdateStatus(ctx context.Context, accountNumber, status string) (*model.Account, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status == "" {
		return nil, ErrInvalidStatus
	}
	account, err := s.mutate(ctx, "update_status", accountNumber, func(acc *model.Account) error {
		acc.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Log.WithFields(logrus.Fields{"account_number": accountNumber, "status": status}).Info("Account status updated")
	return account, nil
}

// Close marks the account CLOSED. Only an empty account can be closed.
func (s *AccountService) Close(ctx context.Context, accountNumber string) (*model.Account, error) {
	account, err := s.mutate(ctx, "close", accountNumber, func(acc *model.Account) error {
		if !acc.Balance.IsZero() {
			return ErrNonZeroBalance
		}
		acc.Status = model.AccountStatusClosed
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Log.WithField("account_number", accountNumber).Info("Account closed")
	return account, nil
}

func (s *AccountService) mutate(ctx context.Context, op, accountNumber string, change func(*model.Account) error) (*model.Account, error) {
	var account *model.Account
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		acc, err := s.lockAccount(ctx, tx, accountNumber)
		if err != nil {
			return err
		}
		if err := change(acc); err != nil {
			return err
		}
		if err := tx.Accounts().UpdateAccount(ctx, acc); err != nil {
			return storageErr("update account", err)
		}
		account = acc
		return nil
	})
	err = settle(op, err)
	metrics.RecordAccountEvent(op, Outcome(err))
	if err != nil {
		return nil, err
	}
	s.cache.invalidate(ctx, account.OwnerID)
	return account, nil
}

// Remove deletes the account. Accounts holding funds are never removed.
func (s *AccountService) Remove(ctx context.Context, accountNumber string) error {
	var ownerID int64
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		acc, err := s.lockAccount(ctx, tx, accountNumber)
		if err != nil {
			return err
		}
		if !acc.Balance.IsZero() {
			return ErrNonZeroBalance
		}
		if err := tx.Accounts().DeleteAccount(ctx, accountNumber); err != nil {
			return storageErr("delete account", err)
		}
		ownerID = acc.OwnerID
		return nil
	})
	err = settle("remove", err)
	metrics.RecordAccountEvent("remove", Outcome(err))
	if err != nil {
		return err
	}
	s.cache.invalidate(ctx, ownerID)
	logger.Log.WithField("account_number", accountNumber).Info("Account removed")
	return nil
}

func (s *AccountService) lockAccount(ctx context.Context, tx repository.Tx, accountNumber string) (*model.Account, error) {
	acc, err := tx.Accounts().GetAccountForUpdate(ctx, accountNumber)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, storageErr("lock account", err)
	}
	return acc, nil
}

func (s *AccountService) Get(ctx context.Context, accountNumber string) (*model.Account, error) {
	acc, err := s.store.Accounts().GetAccount(ctx, accountNumber)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, storageErr("get account", err)
	}
	return acc, nil
}

// ListForOwner lists an owner's accounts, utilizing a cache-aside strategy.
func (s *AccountService) ListForOwner(ctx context.Context, ownerID int64) ([]*model.Account, error) {
	accounts, version, ok := s.cache.get(ctx, ownerID)
	if ok {
		return accounts, nil
	}

	accounts, err := s.store.Accounts().ListAccountsByOwner(ctx, ownerID)
	if err != nil {
		return nil, storageErr("list owner accounts", err)
	}

	s.cache.put(ctx, ownerID, version, accounts)
	return accounts, nil
}

func (s *AccountService) ListAll(ctx context.Context) ([]*model.Account, error) {
	accounts, err := s.store.Accounts().ListAccounts(ctx)
	if err != nil {
		return nil, storageErr("list accounts", err)
	}
	return accounts, nil
}

func (s *AccountService) ListByStatus(ctx context.Context, status string) ([]*model.Account, error) {
	accounts, err := s.store.Accounts().ListAccountsByStatus(ctx, strings.ToUpper(status))
	if err != nil {
		return nil, storageErr("list accounts by status", err)
	}
	return accounts, nil
}

func (s *AccountService) ListByType(ctx context.Context, accountType string) ([]*model.Account, error) {
	accounts, err := s.store.Accounts().ListAccountsByType(ctx, accountType)
	if err != nil {
		return nil, storageErr("list accounts by type", err)
	}
	return accounts, nil
}
