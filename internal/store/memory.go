package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ruralpay/ledger/internal/models"
	"github.com/shopspring/decimal"
)

// Memory is an in-process Store. Each account has its own mutex, taken in ascending
// id order by WithinTx; writes are staged on the transaction and published only when
// the callback succeeds.
type Memory struct {
	mu       sync.RWMutex
	nextID   int64
	users    map[int64]*models.User
	accounts map[int64]*models.Account
	ledger   []models.TransactionRecord

	lockMu sync.Mutex
	locks  map[int64]*sync.Mutex

	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		users:    make(map[int64]*models.User),
		accounts: make(map[int64]*models.Account),
		locks:    make(map[int64]*sync.Mutex),
		now:      time.Now,
	}
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) newID() int64 {
	m.nextID++
	return m.nextID
}

func (m *Memory) accountLock(id int64) *sync.Mutex {
	m.lockMu.Lock()
	defer m.lockMu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

// withOwner returns a copy of a with Owner filled in. Caller holds m.mu.
func (m *Memory) withOwner(a *models.Account) *models.Account {
	cp := *a
	if u, ok := m.users[a.OwnerID]; ok {
		owner := *u
		cp.Owner = &owner
	}
	return &cp
}

func (m *Memory) GetAccountByID(_ context.Context, id int64) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.withOwner(a), nil
}

func (m *Memory) GetAccountByIBAN(_ context.Context, iban string) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.accounts {
		if a.IBAN == iban {
			return m.withOwner(a), nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListAccountsByOwner(_ context.Context, ownerID int64) ([]models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Account{}
	for _, a := range m.accounts {
		if a.OwnerID == ownerID {
			out = append(out, *m.withOwner(a))
		}
	}
	sortNewestFirst(out, func(a models.Account) (time.Time, int64) { return a.CreatedAt, a.ID })
	return out, nil
}

func (m *Memory) CreateAccount(_ context.Context, account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[account.OwnerID]; !ok {
		return fmt.Errorf("owner %d: %w", account.OwnerID, ErrNotFound)
	}
	for _, a := range m.accounts {
		if a.IBAN == account.IBAN || a.AccountNumber == account.AccountNumber {
			return ErrDuplicate
		}
	}
	now := m.now()
	account.ID = m.newID()
	account.CreatedAt = now
	account.UpdatedAt = now
	cp := *account
	cp.Owner = nil
	m.accounts[cp.ID] = &cp
	return nil
}

func (m *Memory) DeleteAccount(_ context.Context, id int64) error {
	l := m.accountLock(id)
	l.Lock()
	defer l.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return ErrNotFound
	}
	if !a.Balance.IsZero() {
		return ErrAccountNotEmpty
	}
	delete(m.accounts, id)
	return nil
}

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicate
		}
	}
	user.ID = m.newID()
	user.CreatedAt = m.now()
	cp := *user
	m.users[cp.ID] = &cp
	return nil
}

func (m *Memory) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListTransactionsByAccount(_ context.Context, accountID int64) ([]models.TransactionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.TransactionRecord{}
	for _, rec := range m.ledger {
		if rec.AccountID != accountID {
			continue
		}
		if rec.RelatedAccountID != nil {
			if related, ok := m.accounts[*rec.RelatedAccountID]; ok {
				rec.RelatedIBAN = related.IBAN
				if u, ok := m.users[related.OwnerID]; ok {
					rec.RelatedName = u.FullName()
				}
			}
		}
		out = append(out, rec)
	}
	sortNewestFirst(out, func(r models.TransactionRecord) (time.Time, int64) { return r.CreatedAt, r.ID })
	return out, nil
}

func (m *Memory) WithinTx(ctx context.Context, accountIDs []int64, fn func(ctx context.Context, tx Tx) error) error {
	order := lockOrder(accountIDs)
	for _, id := range order {
		l := m.accountLock(id)
		l.Lock()
		defer l.Unlock()
	}

	tx := &memTx{now: m.now, locked: make(map[int64]*models.Account, len(order))}
	m.mu.RLock()
	for _, id := range order {
		a, ok := m.accounts[id]
		if !ok {
			m.mu.RUnlock()
			return fmt.Errorf("lock account %d: %w", id, ErrNotFound)
		}
		cp := *a
		tx.locked[id] = &cp
	}
	m.mu.RUnlock()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, staged := range tx.locked {
		if !tx.dirty[id] {
			continue
		}
		a := m.accounts[id]
		a.Balance = staged.Balance
		a.UpdatedAt = staged.UpdatedAt
	}
	for _, staged := range tx.appended {
		staged.ID = m.newID()
		*staged.target = staged.TransactionRecord
		m.ledger = append(m.ledger, staged.TransactionRecord)
	}
	return nil
}

type stagedRecord struct {
	models.TransactionRecord
	target *models.TransactionRecord
}

type memTx struct {
	now      func() time.Time
	locked   map[int64]*models.Account
	dirty    map[int64]bool
	appended []*stagedRecord
}

func (t *memTx) LockedAccount(_ context.Context, id int64) (*models.Account, error) {
	a, ok := t.locked[id]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, ErrNotLocked)
	}
	cp := *a
	return &cp, nil
}

func (t *memTx) ApplyDelta(_ context.Context, id int64, delta decimal.Decimal) (*models.Account, error) {
	a, ok := t.locked[id]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, ErrNotLocked)
	}
	next := a.Balance.Add(delta)
	if next.IsNegative() {
		return nil, fmt.Errorf("account %d: %w", id, ErrConflict)
	}
	a.Balance = next
	a.UpdatedAt = t.now()
	if t.dirty == nil {
		t.dirty = make(map[int64]bool)
	}
	t.dirty[id] = true
	cp := *a
	return &cp, nil
}

// AppendTransaction stages rec; its ID is assigned on commit.
func (t *memTx) AppendTransaction(_ context.Context, rec *models.TransactionRecord) error {
	if _, ok := t.locked[rec.AccountID]; !ok {
		return fmt.Errorf("account %d: %w", rec.AccountID, ErrNotLocked)
	}
	t.appended = append(t.appended, &stagedRecord{TransactionRecord: *rec, target: rec})
	return nil
}

func sortNewestFirst[T any](items []T, key func(T) (time.Time, int64)) {
	slices.SortStableFunc(items, func(a, b T) int {
		at, aid := key(a)
		bt, bid := key(b)
		if c := bt.Compare(at); c != 0 {
			return c
		}
		return cmp.Compare(bid, aid)
	})
}
