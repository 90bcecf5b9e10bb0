package services

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
	"github.com/ruralpay/ledger/internal/logger"
	"github.com/ruralpay/ledger/internal/middleware"
	"github.com/ruralpay/ledger/internal/models"
	"github.com/ruralpay/ledger/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountRouter(service *AccountService, userID int64) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUserID(req.Context(), userID)))
		})
	})
	r.Post("/accounts", service.CreateAccount)
	r.Get("/accounts", service.ListAccounts)
	r.Get("/accounts/{accountId}", service.GetAccount)
	r.Delete("/accounts/{accountId}", service.DeleteAccount)
	return r
}

func createUser(t *testing.T, st *store.Memory, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, FirstName: "Alice", LastName: "Smith"}
	require.NoError(t, st.CreateUser(context.Background(), user))
	return user
}

func TestAccountService_CreateAccount(t *testing.T) {
	st := store.NewMemory()
	alice := createUser(t, st, "alice@example.com")
	log := logger.Nop()
	service := NewAccountService(st, "TR0001", audit.NewLogger(log), log)

	numbers := []string{"1234567890", "1234567890", "0987654321"}
	service.accountNumber = func() string {
		n := numbers[0]
		numbers = numbers[1:]
		return n
	}
	router := newAccountRouter(service, alice.ID)

	t.Run("creates account with prefixed IBAN", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString(`{"name":"Main"}`)))

		require.Equal(t, http.StatusCreated, w.Code)
		var account models.Account
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &account))
		assert.Equal(t, "1234567890", account.AccountNumber)
		assert.Equal(t, "TR00011234567890", account.IBAN)
		assert.True(t, account.Balance.IsZero())
		assert.Equal(t, alice.ID, account.OwnerID)
	})

	t.Run("retries on account number collision", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString(`{"name":"Savings"}`)))

		require.Equal(t, http.StatusCreated, w.Code)
		var account models.Account
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &account))
		assert.Equal(t, "TR00010987654321", account.IBAN)
	})

	t.Run("name is required", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString(`{"name":""}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAccountService_ReadAndDelete(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	alice := createUser(t, st, "alice@example.com")
	bob := createUser(t, st, "bob@example.com")
	log := logger.Nop()
	service := NewAccountService(st, "TR0001", audit.NewLogger(log), log)

	empty := &models.Account{OwnerID: alice.ID, Name: "Main", AccountNumber: "1111111111", IBAN: "TR00011111111111"}
	funded := &models.Account{OwnerID: alice.ID, Name: "Savings", AccountNumber: "2222222222", IBAN: "TR00012222222222"}
	require.NoError(t, st.CreateAccount(ctx, empty))
	require.NoError(t, st.CreateAccount(ctx, funded))
	require.NoError(t, st.WithinTx(ctx, []int64{funded.ID}, func(ctx context.Context, tx store.Tx) error {
		_, err := tx.ApplyDelta(ctx, funded.ID, decimal.NewFromInt(10))
		return err
	}))

	path := func(id int64) string { return "/accounts/" + strconv.FormatInt(id, 10) }
	aliceRouter := newAccountRouter(service, alice.ID)
	bobRouter := newAccountRouter(service, bob.ID)

	t.Run("list newest first", func(t *testing.T) {
		w := httptest.NewRecorder()
		aliceRouter.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/accounts", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var accounts []models.Account
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accounts))
		require.Len(t, accounts, 2)
		assert.Equal(t, funded.ID, accounts[0].ID)
	})

	t.Run("get own account", func(t *testing.T) {
		w := httptest.NewRecorder()
		aliceRouter.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path(funded.ID), nil))

		require.Equal(t, http.StatusOK, w.Code)
		var account models.Account
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &account))
		assert.True(t, decimal.NewFromInt(10).Equal(account.Balance))
	})

	t.Run("get someone else's account", func(t *testing.T) {
		w := httptest.NewRecorder()
		bobRouter.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path(funded.ID), nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("get unknown account", func(t *testing.T) {
		w := httptest.NewRecorder()
		aliceRouter.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path(999), nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		w := httptest.NewRecorder()
		aliceRouter.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/accounts/abc", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete with balance", func(t *testing.T) {
		w := httptest.NewRecorder()
		aliceRouter.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, path(funded.ID), nil))

		assert.Equal(t, http.StatusConflict, w.Code)
		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "ACCOUNT_NOT_EMPTY", response.Code)
	})

	t.Run("delete by non owner", func(t *testing.T) {
		w := httptest.NewRecorder()
		bobRouter.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, path(empty.ID), nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("delete empty account", func(t *testing.T) {
		w := httptest.NewRecorder()
		aliceRouter.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, path(empty.ID), nil))
		assert.Equal(t, http.StatusOK, w.Code)

		_, err := st.GetAccountByID(ctx, empty.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestGenerateAccountNumber(t *testing.T) {
	for range 20 {
		n := generateAccountNumber()
		assert.Len(t, n, 10)
		_, err := strconv.ParseUint(n, 10, 64)
		assert.NoError(t, err)
	}
}
