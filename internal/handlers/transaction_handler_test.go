package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/ruralpay/ledger/internal/audit"
	"github.com/ruralpay/ledger/internal/ledger"
	"github.com/ruralpay/ledger/internal/logger"
	"github.com/ruralpay/ledger/internal/middleware"
	"github.com/ruralpay/ledger/internal/models"
	"github.com/ruralpay/ledger/internal/services"
	"github.com/ruralpay/ledger/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *store.Memory
	handler *TransactionHandler
	alice   *models.Account
	bob     *models.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemory()

	open := func(first, last, number string, balance int64) *models.Account {
		user := &models.User{Email: first + "@example.com", FirstName: first, LastName: last}
		require.NoError(t, st.CreateUser(ctx, user))
		account := &models.Account{OwnerID: user.ID, Name: "Main", AccountNumber: number, IBAN: "TR0001" + number}
		require.NoError(t, st.CreateAccount(ctx, account))
		if balance > 0 {
			require.NoError(t, st.WithinTx(ctx, []int64{account.ID}, func(ctx context.Context, tx store.Tx) error {
				_, err := tx.ApplyDelta(ctx, account.ID, decimal.NewFromInt(balance))
				return err
			}))
		}
		return account
	}

	log := logger.Nop()
	return &fixture{
		store:   st,
		handler: NewTransactionHandler(ledger.NewService(st, 2, nil, audit.NewLogger(log), log), log),
		alice:   open("Alice", "Smith", "1111111111", 100),
		bob:     open("Bob", "Jones", "2222222222", 0),
	}
}

func (f *fixture) router(userID int64) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUserID(req.Context(), userID)))
		})
	})
	r.Post("/transactions", f.handler.CreateTransaction)
	r.Get("/accounts/{accountId}/transactions", f.handler.ListTransactions)
	return r
}

func (f *fixture) submit(t *testing.T, userID int64, body string) (*httptest.ResponseRecorder, services.ErrorResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	f.router(userID).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString(body)))
	var errResp services.ErrorResponse
	if w.Code >= 400 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	}
	return w, errResp
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("transfer", func(t *testing.T) {
		f := newFixture(t)
		body := `{"accountId":` + strconv.FormatInt(f.alice.ID, 10) + `,"type":"TRANSFER_OUT","amount":"40.00","relatedIban":"TR00012222222222","relatedFirstName":"Bob","relatedLastName":"Jones"}`

		w, _ := f.submit(t, f.alice.OwnerID, body)

		require.Equal(t, http.StatusCreated, w.Code)
		var response TransactionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Transactions, 2)
		assert.NotEmpty(t, response.Reference)
		assert.Equal(t, "Money sent to Bob Jones", response.Transactions[0].Description)
		assert.Equal(t, "Money received from Alice Smith", response.Transactions[1].Description)
	})

	t.Run("numeric amount is accepted", func(t *testing.T) {
		f := newFixture(t)
		body := `{"accountId":` + strconv.FormatInt(f.alice.ID, 10) + `,"type":"DEPOSIT","amount":12.5}`

		w, _ := f.submit(t, f.alice.OwnerID, body)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	tests := []struct {
		name   string
		body   func(f *fixture) string
		caller func(f *fixture) int64
		status int
		code   ledger.Kind
	}{
		{
			name:   "zero deposit",
			body:   func(f *fixture) string { return `{"accountId":` + strconv.FormatInt(f.alice.ID, 10) + `,"type":"DEPOSIT","amount":"0"}` },
			caller: func(f *fixture) int64 { return f.alice.OwnerID },
			status: http.StatusBadRequest,
			code:   ledger.KindInvalidRequest,
		},
		{
			name:   "unknown account",
			body:   func(f *fixture) string { return `{"accountId":999,"type":"DEPOSIT","amount":"5"}` },
			caller: func(f *fixture) int64 { return f.alice.OwnerID },
			status: http.StatusNotFound,
			code:   ledger.KindAccountNotFound,
		},
		{
			name:   "not the owner",
			body:   func(f *fixture) string { return `{"accountId":` + strconv.FormatInt(f.alice.ID, 10) + `,"type":"WITHDRAW","amount":"5"}` },
			caller: func(f *fixture) int64 { return f.bob.OwnerID },
			status: http.StatusForbidden,
			code:   ledger.KindForbidden,
		},
		{
			name:   "insufficient funds",
			body:   func(f *fixture) string { return `{"accountId":` + strconv.FormatInt(f.alice.ID, 10) + `,"type":"WITHDRAW","amount":"150"}` },
			caller: func(f *fixture) int64 { return f.alice.OwnerID },
			status: http.StatusUnprocessableEntity,
			code:   ledger.KindInsufficientFunds,
		},
		{
			name: "name mismatch",
			body: func(f *fixture) string {
				return `{"accountId":` + strconv.FormatInt(f.alice.ID, 10) + `,"type":"TRANSFER_OUT","amount":"5","relatedIban":"TR00012222222222","relatedFirstName":"Bob","relatedLastName":"Jonas"}`
			},
			caller: func(f *fixture) int64 { return f.alice.OwnerID },
			status: http.StatusUnprocessableEntity,
			code:   ledger.KindNameMismatch,
		},
		{
			name: "unknown counterparty",
			body: func(f *fixture) string {
				return `{"accountId":` + strconv.FormatInt(f.alice.ID, 10) + `,"type":"TRANSFER_OUT","amount":"5","relatedIban":"TR00019999999999","relatedFirstName":"Bob","relatedLastName":"Jones"}`
			},
			caller: func(f *fixture) int64 { return f.alice.OwnerID },
			status: http.StatusNotFound,
			code:   ledger.KindCounterpartyNotFound,
		},
		{
			name:   "unknown field",
			body:   func(f *fixture) string { return `{"accountId":1,"type":"DEPOSIT","amount":"5","currency":"TRY"}` },
			caller: func(f *fixture) int64 { return f.alice.OwnerID },
			status: http.StatusBadRequest,
			code:   ledger.KindInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			w, resp := f.submit(t, tt.caller(f), tt.body(f))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, string(tt.code), resp.Code)
			assert.NotEmpty(t, resp.Error)

			account, err := f.store.GetAccountByID(context.Background(), f.alice.ID)
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(100).Equal(account.Balance))
		})
	}
}

func TestTransactionHandler_ListTransactions(t *testing.T) {
	f := newFixture(t)
	deposit := `{"accountId":` + strconv.FormatInt(f.alice.ID, 10) + `,"type":"DEPOSIT","amount":"1"}`
	withdraw := `{"accountId":` + strconv.FormatInt(f.alice.ID, 10) + `,"type":"WITHDRAW","amount":"2"}`
	for _, body := range []string{deposit, withdraw} {
		w, _ := f.submit(t, f.alice.OwnerID, body)
		require.Equal(t, http.StatusCreated, w.Code)
	}
	path := "/accounts/" + strconv.FormatInt(f.alice.ID, 10) + "/transactions"

	t.Run("owner sees history newest first", func(t *testing.T) {
		w := httptest.NewRecorder()
		f.router(f.alice.OwnerID).ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		require.Equal(t, http.StatusOK, w.Code)
		var records []models.TransactionRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
		require.Len(t, records, 2)
		assert.Equal(t, models.TransactionWithdraw, records[0].Type)
		assert.Equal(t, models.TransactionDeposit, records[1].Type)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		f.router(f.bob.OwnerID).ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := httptest.NewRecorder()
		f.router(f.alice.OwnerID).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/accounts/x/transactions", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(ledger.KindInvalidRequest))
	assert.Equal(t, http.StatusNotFound, StatusFor(ledger.KindAccountNotFound))
	assert.Equal(t, http.StatusNotFound, StatusFor(ledger.KindCounterpartyNotFound))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(ledger.KindNameMismatch))
	assert.Equal(t, http.StatusForbidden, StatusFor(ledger.KindForbidden))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(ledger.KindInsufficientFunds))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(ledger.KindExecutionFailed))
}
