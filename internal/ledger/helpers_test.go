package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ruralpay/ledger/internal/audit"
	"github.com/ruralpay/ledger/internal/logger"
	"github.com/ruralpay/ledger/internal/models"
	"github.com/ruralpay/ledger/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, st *store.Memory, first, last, iban string, balance int64) *models.Account {
	t.Helper()
	ctx := context.Background()

	user := &models.User{Email: strings.ToLower(first+"."+last) + "@example.com", FirstName: first, LastName: last}
	require.NoError(t, st.CreateUser(ctx, user))

	account := &models.Account{OwnerID: user.ID, Name: "Main", AccountNumber: iban[len(iban)-10:], IBAN: iban}
	require.NoError(t, st.CreateAccount(ctx, account))

	if balance > 0 {
		err := st.WithinTx(ctx, []int64{account.ID}, func(ctx context.Context, tx store.Tx) error {
			_, err := tx.ApplyDelta(ctx, account.ID, decimal.NewFromInt(balance))
			return err
		})
		require.NoError(t, err)
	}

	loaded, err := st.GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	return loaded
}

func assertBalance(t *testing.T, st store.Store, accountID int64, want string) {
	t.Helper()
	account, err := st.GetAccountByID(context.Background(), accountID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString(want).Equal(account.Balance), "balance of %d: want %s, got %s", accountID, want, account.Balance)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestService(st store.Store, publisher Publisher) *Service {
	log := logger.Nop()
	return NewService(st, 2, publisher, audit.NewLogger(log), log)
}

var errStoreDown = errors.New("connection reset by peer")

// faultyStore wraps a Memory store and fails the n-th ApplyDelta or AppendTransaction
// issued inside a transaction.
type faultyStore struct {
	*store.Memory
	failDelta  int
	failAppend int
}

func (f *faultyStore) WithinTx(ctx context.Context, ids []int64, fn func(ctx context.Context, tx store.Tx) error) error {
	return f.Memory.WithinTx(ctx, ids, func(ctx context.Context, tx store.Tx) error {
		return fn(ctx, &faultyTx{Tx: tx, store: f})
	})
}

type faultyTx struct {
	store.Tx
	store   *faultyStore
	deltas  int
	appends int
}

func (t *faultyTx) ApplyDelta(ctx context.Context, id int64, delta decimal.Decimal) (*models.Account, error) {
	t.deltas++
	if t.deltas == t.store.failDelta {
		return nil, errStoreDown
	}
	return t.Tx.ApplyDelta(ctx, id, delta)
}

func (t *faultyTx) AppendTransaction(ctx context.Context, rec *models.TransactionRecord) error {
	t.appends++
	if t.appends == t.store.failAppend {
		return errStoreDown
	}
	return t.Tx.AppendTransaction(ctx, rec)
}
