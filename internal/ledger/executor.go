package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ruralpay/ledger/internal/models"
	"github.com/ruralpay/ledger/internal/store"
)

// Executor applies Approved operations. Every balance change and ledger append of one
// operation happens inside a single store transaction.
type Executor struct {
	store        store.Store
	now          func() time.Time
	newReference func() string
}

func NewExecutor(s store.Store) *Executor {
	return &Executor{
		store:        s,
		now:          time.Now,
		newReference: uuid.NewString,
	}
}

// Execute commits the operation and returns the created records: one for deposits and
// withdrawals, TRANSFER_OUT followed by TRANSFER_IN for transfers.
func (e *Executor) Execute(ctx context.Context, op Approved) ([]models.TransactionRecord, error) {
	if op.account.ID == 0 || !op.txType.Valid() {
		return nil, newError(KindInvalidRequest, "", "operation was not approved")
	}

	lockIDs := []int64{op.account.ID}
	if op.related != nil {
		lockIDs = append(lockIDs, op.related.ID)
	}

	ref := e.newReference()
	createdAt := e.now().UTC()
	var records []*models.TransactionRecord

	err := e.store.WithinTx(ctx, lockIDs, func(ctx context.Context, tx store.Tx) error {
		records = records[:0]
		record := func(accountID int64, txType models.TransactionType, related *int64, counterparty *models.User) *models.TransactionRecord {
			rec := &models.TransactionRecord{
				Reference:        ref,
				AccountID:        accountID,
				Type:             txType,
				Amount:           op.amount,
				RelatedAccountID: related,
				Description:      Describe(txType, counterparty),
				CreatedAt:        createdAt,
			}
			records = append(records, rec)
			return rec
		}

		switch op.txType {
		case models.TransactionDeposit:
			if _, err := tx.ApplyDelta(ctx, op.account.ID, op.amount); err != nil {
				return err
			}
			return tx.AppendTransaction(ctx, record(op.account.ID, models.TransactionDeposit, nil, nil))

		case models.TransactionWithdraw:
			if err := e.ensureFunds(ctx, tx, op); err != nil {
				return err
			}
			if _, err := tx.ApplyDelta(ctx, op.account.ID, op.amount.Neg()); err != nil {
				return err
			}
			return tx.AppendTransaction(ctx, record(op.account.ID, models.TransactionWithdraw, nil, nil))

		case models.TransactionTransferOut:
			if op.related == nil {
				return newError(KindInvalidRequest, "relatedIban", "transfer has no counterparty")
			}
			payer, payee := op.account, *op.related
			if err := e.ensureFunds(ctx, tx, op); err != nil {
				return err
			}
			if _, err := tx.ApplyDelta(ctx, payer.ID, op.amount.Neg()); err != nil {
				return err
			}
			if _, err := tx.ApplyDelta(ctx, payee.ID, op.amount); err != nil {
				return err
			}
			if err := tx.AppendTransaction(ctx, record(payer.ID, models.TransactionTransferOut, &payee.ID, payee.Owner)); err != nil {
				return err
			}
			return tx.AppendTransaction(ctx, record(payee.ID, models.TransactionTransferIn, &payer.ID, payer.Owner))

		default:
			return newError(KindInvalidRequest, "type", "unsupported transaction type")
		}
	})
	if err != nil {
		var le *Error
		switch {
		case errors.As(err, &le):
			return nil, le
		case errors.Is(err, store.ErrNotFound):
			return nil, &Error{Kind: KindAccountNotFound, Message: "account no longer exists", Err: err}
		default:
			return nil, executionFailed(err)
		}
	}

	out := make([]models.TransactionRecord, len(records))
	for i, rec := range records {
		out[i] = *rec
	}
	return out, nil
}

// ensureFunds re-checks sufficiency against the locked balance; the Validator's read
// may be stale by the time the lock is held.
func (e *Executor) ensureFunds(ctx context.Context, tx store.Tx, op Approved) error {
	locked, err := tx.LockedAccount(ctx, op.account.ID)
	if err != nil {
		return err
	}
	if locked.Balance.LessThan(op.amount) {
		return newError(KindInsufficientFunds, "amount", "insufficient balance")
	}
	return nil
}
