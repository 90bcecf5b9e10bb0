package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ruralpay/ledger/internal/ledger"
	"github.com/ruralpay/ledger/internal/logger"
	"github.com/ruralpay/ledger/internal/middleware"
	"github.com/ruralpay/ledger/internal/models"
	"github.com/ruralpay/ledger/internal/services"
)

// TransactionResponse is returned for a committed operation.
// @Description Committed ledger entries of one operation
type TransactionResponse struct {
	Reference    string                     `json:"reference" example:"6f1c2a8e-2b1d-4c8e-9d6a-3f0e5b7c9a10"`
	Transactions []models.TransactionRecord `json:"transactions"`
}

type TransactionHandler struct {
	ledger *ledger.Service
	log    *logger.Logger
}

func NewTransactionHandler(service *ledger.Service, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{ledger: service, log: log}
}

// CreateTransaction submits a deposit, withdrawal or transfer
// @Summary Submit transaction
// @Description Validate and atomically execute a money movement on one of the caller's accounts.
// @Description Transfers are submitted by the payer as TRANSFER_OUT with the recipient's IBAN and name.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ledger.Request true "Transaction request"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} services.ErrorResponse "INVALID_REQUEST"
// @Failure 401 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse "FORBIDDEN"
// @Failure 404 {object} services.ErrorResponse "ACCOUNT_NOT_FOUND or COUNTERPARTY_NOT_FOUND"
// @Failure 422 {object} services.ErrorResponse "NAME_MISMATCH or INSUFFICIENT_FUNDS"
// @Failure 500 {object} services.ErrorResponse "EXECUTION_FAILED"
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var req ledger.Request
	if err := services.DecodeJSON(w, r, &req); err != nil {
		h.log.Debug("[TRANSACTION] undecodable request", "userId", userID, "error", err)
		services.SendCodedError(w, http.StatusBadRequest, string(ledger.KindInvalidRequest), "Invalid request body", nil)
		return
	}

	records, err := h.ledger.Submit(r.Context(), userID, req)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	services.WriteJSON(w, http.StatusCreated, TransactionResponse{Reference: records[0].Reference, Transactions: records})
}

// ListTransactions returns the history of one of the caller's accounts
// @Summary List account transactions
// @Description Ledger entries of the account, most recent first
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param accountId path int true "Account ID"
// @Success 200 {array} models.TransactionRecord
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /accounts/{accountId}/transactions [get]
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	accountID, err := strconv.ParseInt(chi.URLParam(r, "accountId"), 10, 64)
	if err != nil || accountID <= 0 {
		services.SendCodedError(w, http.StatusBadRequest, string(ledger.KindInvalidRequest), "Invalid account id", nil)
		return
	}

	records, err := h.ledger.AccountHistory(r.Context(), userID, accountID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, records)
}

// StatusFor maps a ledger error kind to its HTTP status.
func StatusFor(kind ledger.Kind) int {
	switch kind {
	case ledger.KindInvalidRequest:
		return http.StatusBadRequest
	case ledger.KindAccountNotFound, ledger.KindCounterpartyNotFound:
		return http.StatusNotFound
	case ledger.KindForbidden:
		return http.StatusForbidden
	case ledger.KindNameMismatch, ledger.KindInsufficientFunds:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeLedgerError(w http.ResponseWriter, err error) {
	kind := ledger.KindOf(err)
	if kind == "" {
		kind = ledger.KindExecutionFailed
	}

	message := "Transaction could not be completed"
	var details map[string]string
	var le *ledger.Error
	if errors.As(err, &le) {
		if kind != ledger.KindExecutionFailed {
			message = le.Message
		}
		if le.Field != "" {
			details = map[string]string{le.Field: le.Message}
		}
	}
	services.SendCodedError(w, StatusFor(kind), string(kind), message, details)
}
