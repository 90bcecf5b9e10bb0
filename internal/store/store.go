// Package store holds the persistence boundary of the ledger: account, user and
// transaction storage plus the transactional unit the executor runs in.
package store

import (
	"context"
	"errors"
	"slices"

	"github.com/ruralpay/ledger/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("balance conflict")
	ErrAccountNotEmpty = errors.New("account balance is not zero")
	ErrDuplicate       = errors.New("duplicate key")
	ErrNotLocked       = errors.New("account not locked in this transaction")
)

// Accounts is the account lookup and management surface. Lookups populate Account.Owner.
type Accounts interface {
	GetAccountByID(ctx context.Context, id int64) (*models.Account, error)
	GetAccountByIBAN(ctx context.Context, iban string) (*models.Account, error)
	ListAccountsByOwner(ctx context.Context, ownerID int64) ([]models.Account, error)
	CreateAccount(ctx context.Context, account *models.Account) error
	DeleteAccount(ctx context.Context, id int64) error
}

type Users interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Transactions reads the append-only ledger. Results are most recent first.
type Transactions interface {
	ListTransactionsByAccount(ctx context.Context, accountID int64) ([]models.TransactionRecord, error)
}

// Tx is the write surface available inside WithinTx. Only accounts named in the
// WithinTx call may be read or mutated.
type Tx interface {
	// LockedAccount returns the current state of a locked account, reflecting
	// deltas already applied in this transaction.
	LockedAccount(ctx context.Context, id int64) (*models.Account, error)
	// ApplyDelta adds delta to the balance. ErrConflict if the result would be negative.
	ApplyDelta(ctx context.Context, id int64, delta decimal.Decimal) (*models.Account, error)
	// AppendTransaction stores rec, assigning its ID.
	AppendTransaction(ctx context.Context, rec *models.TransactionRecord) error
}

type Store interface {
	Accounts
	Users
	Transactions

	// WithinTx locks accountIDs in ascending order and runs fn. All writes made through
	// the Tx commit together when fn returns nil and are discarded otherwise.
	WithinTx(ctx context.Context, accountIDs []int64, fn func(ctx context.Context, tx Tx) error) error
	Ping(ctx context.Context) error
}

// lockOrder returns the distinct ids in ascending order.
func lockOrder(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
