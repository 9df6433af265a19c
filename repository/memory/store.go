// Package memory provides an in-process implementation of the repository
// interfaces. It is safe for concurrent use and backs the "memory" storage
// driver used for local development and tests.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"go-bank-ledger/model"
	"go-bank-ledger/repository"
)

// Store keeps committed accounts and ledger entries. Units of work stage
// their writes and publish them under one lock at commit, so a rolled back
// unit leaves no trace.
type Store struct {
	mu           sync.RWMutex
	nextTxnID    int64
	accounts     map[string]model.Account
	transactions []model.Transaction

	rows *keyedMutex
	now  func() time.Time
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		accounts: make(map[string]model.Account),
		rows:     newKeyedMutex(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Accounts returns a repository whose calls each run in their own unit of work.
func (s *Store) Accounts() repository.IAccountRepository { return autoAccounts{s} }

func (s *Store) Transactions() repository.ITransactionRepository { return autoTransactions{s} }

func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx := &memTx{
		store:   s,
		now:     s.now(),
		held:    make(map[string]bool),
		staged:  make(map[string]*model.Account),
		created: make(map[string]bool),
	}
	defer tx.releaseLocks()

	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return tx.commit()
}

type memTx struct {
	store   *Store
	now     time.Time
	held    map[string]bool
	unlocks []func()

	// staged holds written accounts; a nil value marks a deletion.
	staged   map[string]*model.Account
	created  map[string]bool
	appended []model.Transaction
}

func (t *memTx) Accounts() repository.IAccountRepository         { return txAccounts{t} }
func (t *memTx) Transactions() repository.ITransactionRepository { return txTransactions{t} }

func (t *memTx) LockOwner(ctx context.Context, ownerID int64) error {
	return t.lock(ctx, "owner:"+strconv.FormatInt(ownerID, 10))
}

func (t *memTx) lock(ctx context.Context, key string) error {
	if t.held[key] {
		return nil
	}
	unlock, err := t.store.rows.lock(ctx, key)
	if err != nil {
		return err
	}
	t.held[key] = true
	t.unlocks = append(t.unlocks, unlock)
	return nil
}

func (t *memTx) releaseLocks() {
	for i := len(t.unlocks) - 1; i >= 0; i-- {
		t.unlocks[i]()
	}
	t.unlocks = nil
}

func (t *memTx) commit() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for number := range t.created {
		if _, exists := s.accounts[number]; exists {
			return repository.ErrDuplicateKey
		}
	}
	for number, acc := range t.staged {
		if acc == nil {
			delete(s.accounts, number)
			continue
		}
		s.accounts[number] = *acc
	}
	s.transactions = append(s.transactions, t.appended...)
	return nil
}

// lookup returns the account as this unit of work sees it.
func (t *memTx) lookup(number string) (model.Account, bool) {
	if acc, ok := t.staged[number]; ok {
		if acc == nil {
			return model.Account{}, false
		}
		return *acc, true
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	acc, ok := t.store.accounts[number]
	return acc, ok
}

func (t *memTx) view(match func(*model.Account) bool) []*model.Account {
	t.store.mu.RLock()
	merged := make(map[string]model.Account, len(t.store.accounts))
	for k, v := range t.store.accounts {
		merged[k] = v
	}
	t.store.mu.RUnlock()

	for k, v := range t.staged {
		if v == nil {
			delete(merged, k)
			continue
		}
		merged[k] = *v
	}

	out := []*model.Account{}
	for _, acc := range merged {
		acc := acc
		if match(&acc) {
			out = append(out, &acc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OpenedAt.Equal(out[j].OpenedAt) {
			return out[i].AccountNumber < out[j].AccountNumber
		}
		return out[i].OpenedAt.Before(out[j].OpenedAt)
	})
	return out
}

type txAccounts struct{ t *memTx }

func (r txAccounts) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := r.t.lock(ctx, account.AccountNumber); err != nil {
		return err
	}
	if _, exists := r.t.lookup(account.AccountNumber); exists {
		return repository.ErrDuplicateKey
	}
	account.OpenedAt = r.t.now
	cp := *account
	r.t.staged[account.AccountNumber] = &cp
	r.t.created[account.AccountNumber] = true
	return nil
}

func (r txAccounts) GetAccount(_ context.Context, accountNumber string) (*model.Account, error) {
	acc, ok := r.t.lookup(accountNumber)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &acc, nil
}

// GetAccountForUpdate holds the account's row lock until the unit of work ends.
func (r txAccounts) GetAccountForUpdate(ctx context.Context, accountNumber string) (*model.Account, error) {
	if err := r.t.lock(ctx, accountNumber); err != nil {
		return nil, err
	}
	return r.GetAccount(ctx, accountNumber)
}

func (r txAccounts) UpdateAccount(ctx context.Context, account *model.Account) error {
	if err := r.t.lock(ctx, account.AccountNumber); err != nil {
		return err
	}
	current, ok := r.t.lookup(account.AccountNumber)
	if !ok {
		return repository.ErrNotFound
	}
	current.Balance = account.Balance
	current.Currency = account.Currency
	current.Status = account.Status
	r.t.staged[account.AccountNumber] = &current
	return nil
}

func (r txAccounts) DeleteAccount(ctx context.Context, accountNumber string) error {
	if err := r.t.lock(ctx, accountNumber); err != nil {
		return err
	}
	if _, ok := r.t.lookup(accountNumber); !ok {
		return repository.ErrNotFound
	}
	r.t.staged[accountNumber] = nil
	delete(r.t.created, accountNumber)
	return nil
}

func (r txAccounts) AccountExists(_ context.Context, accountNumber string) (bool, error) {
	_, ok := r.t.lookup(accountNumber)
	return ok, nil
}

func (r txAccounts) ListAccountsByOwner(_ context.Context, ownerID int64) ([]*model.Account, error) {
	return r.t.view(func(a *model.Account) bool { return a.OwnerID == ownerID }), nil
}

func (r txAccounts) ListAccountsByStatus(_ context.Context, status string) ([]*model.Account, error) {
	return r.t.view(func(a *model.Account) bool { return a.Status == status }), nil
}

func (r txAccounts) ListAccountsByType(_ context.Context, accountType string) ([]*model.Account, error) {
	return r.t.view(func(a *model.Account) bool { return a.AccountType == accountType }), nil
}

func (r txAccounts) ListAccounts(_ context.Context) ([]*model.Account, error) {
	return r.t.view(func(*model.Account) bool { return true }), nil
}

type txTransactions struct{ t *memTx }

func (r txTransactions) AppendTransaction(_ context.Context, transaction *model.Transaction) error {
	s := r.t.store
	s.mu.Lock()
	s.nextTxnID++
	transaction.ID = s.nextTxnID
	s.mu.Unlock()

	transaction.Timestamp = r.t.now
	if transaction.Status == "" {
		transaction.Status = model.TransactionStatusSuccess
	}
	r.t.appended = append(r.t.appended, *transaction)
	return nil
}

func (r txTransactions) filter(match func(*model.Transaction) bool, newestFirst bool) []*model.Transaction {
	s := r.t.store
	s.mu.RLock()
	all := make([]model.Transaction, 0, len(s.transactions)+len(r.t.appended))
	all = append(all, s.transactions...)
	s.mu.RUnlock()
	all = append(all, r.t.appended...)

	out := []*model.Transaction{}
	for i := range all {
		if match(&all[i]) {
			out = append(out, &all[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if newestFirst {
			if !out[i].Timestamp.Equal(out[j].Timestamp) {
				return out[i].Timestamp.After(out[j].Timestamp)
			}
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r txTransactions) ListTransactionsByAccount(_ context.Context, accountNumber string) ([]*model.Transaction, error) {
	return r.filter(func(t *model.Transaction) bool { return t.AccountNumber == accountNumber }, true), nil
}

func (r txTransactions) ListTransactionsByAccountAndType(_ context.Context, accountNumber, transactionType string) ([]*model.Transaction, error) {
	return r.filter(func(t *model.Transaction) bool {
		return t.AccountNumber == accountNumber && t.TransactionType == transactionType
	}, true), nil
}

func (r txTransactions) ListTransactions(_ context.Context) ([]*model.Transaction, error) {
	return r.filter(func(*model.Transaction) bool { return true }, false), nil
}
