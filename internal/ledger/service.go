// Package ledger is the transaction processing core: it validates money movements,
// applies them atomically and reads back the per-account history.
package ledger

import (
	"context"
	"errors"

	"github.com/ruralpay/ledger/internal/audit"
	"github.com/ruralpay/ledger/internal/logger"
	"github.com/ruralpay/ledger/internal/models"
	"github.com/ruralpay/ledger/internal/store"
)

// Publisher receives records after they are committed. Failures never undo a commit.
type Publisher interface {
	Publish(ctx context.Context, records []models.TransactionRecord) error
}

type Service struct {
	store     store.Store
	validator *Validator
	executor  *Executor
	publisher Publisher
	audit     *audit.Logger
	log       *logger.Logger
}

// NewService wires the core against st. publisher may be nil.
func NewService(st store.Store, amountScale int32, publisher Publisher, auditLogger *audit.Logger, log *logger.Logger) *Service {
	return &Service{
		store:     st,
		validator: NewValidator(st, amountScale),
		executor:  NewExecutor(st),
		publisher: publisher,
		audit:     auditLogger,
		log:       log,
	}
}

func (s *Service) Validate(ctx context.Context, callerID int64, req Request) (Approved, error) {
	return s.validator.Validate(ctx, callerID, req)
}

func (s *Service) Execute(ctx context.Context, op Approved) ([]models.TransactionRecord, error) {
	return s.executor.Execute(ctx, op)
}

// Submit validates req for callerID and, when approved, executes it.
func (s *Service) Submit(ctx context.Context, callerID int64, req Request) ([]models.TransactionRecord, error) {
	op, err := s.validator.Validate(ctx, callerID, req)
	if err != nil {
		s.reject(req, err)
		return nil, err
	}

	records, err := s.executor.Execute(ctx, op)
	if err != nil {
		s.reject(req, err)
		return nil, err
	}

	for _, rec := range records {
		s.audit.LogRecord(rec)
	}
	s.log.Info("[TRANSACTION] committed",
		"reference", records[0].Reference,
		"accountId", req.AccountID,
		"type", req.Type,
		"amount", req.Amount.String(),
		"entries", len(records))

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, records); err != nil {
			s.log.Warn("[TRANSACTION] failed to publish ledger event", "reference", records[0].Reference, "error", err)
		}
	}
	return records, nil
}

func (s *Service) reject(req Request, err error) {
	kind := KindOf(err)
	if kind == KindExecutionFailed {
		s.log.Error("[TRANSACTION] execution failed", "accountId", req.AccountID, "type", req.Type, "error", err)
	} else {
		s.log.Info("[TRANSACTION] rejected", "accountId", req.AccountID, "type", req.Type, "kind", kind)
	}
	s.audit.LogRejection(req.AccountID, req.Type, req.Amount, string(kind), err)
}

// ListTransactions returns the ledger entries of accountID, most recent first.
func (s *Service) ListTransactions(ctx context.Context, accountID int64) ([]models.TransactionRecord, error) {
	records, err := s.store.ListTransactionsByAccount(ctx, accountID)
	if err != nil {
		return nil, &Error{Kind: KindExecutionFailed, Message: "could not read ledger", Err: err}
	}
	return records, nil
}

// AccountHistory is ListTransactions restricted to the account's owner.
func (s *Service) AccountHistory(ctx context.Context, callerID, accountID int64) ([]models.TransactionRecord, error) {
	account, err := s.store.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(KindAccountNotFound, "accountId", "account not found")
		}
		return nil, &Error{Kind: KindExecutionFailed, Message: "could not read account", Err: err}
	}
	if account.OwnerID != callerID {
		return nil, newError(KindForbidden, "accountId", "you cannot view this account")
	}
	return s.ListTransactions(ctx, accountID)
}
