package services

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ruralpay/ledger/internal/audit"
	"github.com/ruralpay/ledger/internal/logger"
	"github.com/ruralpay/ledger/internal/middleware"
	"github.com/ruralpay/ledger/internal/models"
	"github.com/ruralpay/ledger/internal/store"
)

const accountNumberAttempts = 5

// CreateAccountRequest represents the account creation payload
// @Description Account creation request structure
type CreateAccountRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100" example:"Savings"` // Account label
}

// AccountService manages the caller's accounts. Balances only change through the ledger.
type AccountService struct {
	accounts      store.Accounts
	validation    *ValidationHelper
	audit         *audit.Logger
	log           *logger.Logger
	ibanPrefix    string
	accountNumber func() string
}

func NewAccountService(accounts store.Accounts, ibanPrefix string, auditLogger *audit.Logger, log *logger.Logger) *AccountService {
	return &AccountService{
		accounts:      accounts,
		validation:    NewValidationHelper(),
		audit:         auditLogger,
		log:           log,
		ibanPrefix:    ibanPrefix,
		accountNumber: generateAccountNumber,
	}
}

// CreateAccount opens a new zero-balance account for the caller
// @Summary Create account
// @Description Open a new account with a generated account number and IBAN
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAccountRequest true "Account request"
// @Success 201 {object} models.Account "Account created"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /accounts [post]
func (s *AccountService) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var req CreateAccountRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return
	}
	if err := s.validation.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	var account *models.Account
	var err error
	for range accountNumberAttempts {
		number := s.accountNumber()
		account = &models.Account{OwnerID: userID, Name: req.Name, AccountNumber: number, IBAN: s.ibanPrefix + number}
		if err = s.accounts.CreateAccount(r.Context(), account); !errors.Is(err, store.ErrDuplicate) {
			break
		}
		s.log.Debug("[ACCOUNT] account number collision, retrying", "accountNumber", number)
	}
	if err != nil {
		s.log.Error("[ACCOUNT] account creation failed", "userId", userID, "error", err)
		SendErrorResponse(w, "Failed to create account", http.StatusInternalServerError, nil)
		return
	}

	s.audit.LogOperation(account.ID, "ACCOUNT_OPENED", fmt.Sprintf("iban=%s owner=%d", account.IBAN, userID))
	s.log.Info("[ACCOUNT] account created", "accountId", account.ID, "userId", userID)
	WriteJSON(w, http.StatusCreated, account)
}

// ListAccounts returns the caller's accounts
// @Summary List accounts
// @Description List the authenticated user's accounts, newest first
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Account "Accounts"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /accounts [get]
func (s *AccountService) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	accounts, err := s.accounts.ListAccountsByOwner(r.Context(), userID)
	if err != nil {
		s.log.Error("[ACCOUNT] list failed", "userId", userID, "error", err)
		SendErrorResponse(w, "Failed to fetch accounts", http.StatusInternalServerError, nil)
		return
	}
	WriteJSON(w, http.StatusOK, accounts)
}

// GetAccount returns one of the caller's accounts
// @Summary Get account
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param accountId path int true "Account ID"
// @Success 200 {object} models.Account "Account"
// @Failure 403 {object} ErrorResponse "Not the account owner"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Router /accounts/{accountId} [get]
func (s *AccountService) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, ok := s.ownedAccount(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, account)
}

// DeleteAccount closes an empty account
// @Summary Delete account
// @Description Delete one of the caller's accounts. Only zero-balance accounts can be deleted.
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param accountId path int true "Account ID"
// @Success 200 {object} map[string]string "Account deleted"
// @Failure 403 {object} ErrorResponse "Not the account owner"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 409 {object} ErrorResponse "Account balance is not zero"
// @Router /accounts/{accountId} [delete]
func (s *AccountService) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	account, ok := s.ownedAccount(w, r)
	if !ok {
		return
	}

	switch err := s.accounts.DeleteAccount(r.Context(), account.ID); {
	case err == nil:
	case errors.Is(err, store.ErrAccountNotEmpty):
		SendCodedError(w, http.StatusConflict, "ACCOUNT_NOT_EMPTY", "Account balance must be zero before deletion", nil)
		return
	case errors.Is(err, store.ErrNotFound):
		SendCodedError(w, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found", nil)
		return
	default:
		s.log.Error("[ACCOUNT] delete failed", "accountId", account.ID, "error", err)
		SendErrorResponse(w, "Failed to delete account", http.StatusInternalServerError, nil)
		return
	}

	s.audit.LogOperation(account.ID, "ACCOUNT_CLOSED", fmt.Sprintf("iban=%s owner=%d", account.IBAN, account.OwnerID))
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}

// ownedAccount resolves {accountId} and checks the caller owns it, writing the error
// response itself when it does not.
func (s *AccountService) ownedAccount(w http.ResponseWriter, r *http.Request) (*models.Account, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return nil, false
	}

	accountID, err := strconv.ParseInt(chi.URLParam(r, "accountId"), 10, 64)
	if err != nil || accountID <= 0 {
		SendCodedError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid account id", nil)
		return nil, false
	}

	account, err := s.accounts.GetAccountByID(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			SendCodedError(w, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found", nil)
			return nil, false
		}
		s.log.Error("[ACCOUNT] lookup failed", "accountId", accountID, "error", err)
		SendErrorResponse(w, "Failed to fetch account", http.StatusInternalServerError, nil)
		return nil, false
	}
	if account.OwnerID != userID {
		SendCodedError(w, http.StatusForbidden, "FORBIDDEN", "You cannot access this account", nil)
		return nil, false
	}
	return account, true
}

func generateAccountNumber() string {
	return fmt.Sprintf("%010d", rand.Int64N(10_000_000_000))
}
