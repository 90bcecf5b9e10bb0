package ledger

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ruralpay/ledger/internal/models"
	"github.com/ruralpay/ledger/internal/store"
	"github.com/shopspring/decimal"
)

// Request is a money movement submitted by the owner of AccountID. Transfers are
// always submitted by the payer as TRANSFER_OUT.
type Request struct {
	AccountID        int64                  `json:"accountId" validate:"required,gt=0"`
	Type             models.TransactionType `json:"type" validate:"required,oneof=DEPOSIT WITHDRAW TRANSFER_OUT"`
	Amount           decimal.Decimal        `json:"amount" swaggertype:"string" example:"40.00"`
	RelatedIBAN      string                 `json:"relatedIban,omitempty" validate:"omitempty,max=34"`
	RelatedFirstName string                 `json:"relatedFirstName,omitempty" validate:"omitempty,max=100"`
	RelatedLastName  string                 `json:"relatedLastName,omitempty" validate:"omitempty,max=100"`
}

// Approved is the Validator's verdict for an accepted request. It can only be built by
// Validate and is consumed by Executor.Execute.
type Approved struct {
	txType  models.TransactionType
	amount  decimal.Decimal
	account models.Account
	related *models.Account
}

func (a Approved) Type() models.TransactionType { return a.txType }
func (a Approved) Amount() decimal.Decimal      { return a.amount }
func (a Approved) Account() models.Account      { return a.account }

// Related returns the counterparty account of a transfer.
func (a Approved) Related() (models.Account, bool) {
	if a.related == nil {
		return models.Account{}, false
	}
	return *a.related, true
}

type Validator struct {
	accounts store.Accounts
	validate *validator.Validate
	scale    int32
}

// NewValidator builds a Validator reading from accounts. scale is the number of
// fractional digits an amount may carry.
func NewValidator(accounts store.Accounts, scale int32) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{accounts: accounts, validate: v, scale: scale}
}

// Validate checks req on behalf of callerID. It only reads; calling it twice against
// unchanged state yields the same result.
func (v *Validator) Validate(ctx context.Context, callerID int64, req Request) (Approved, error) {
	if err := v.checkShape(req); err != nil {
		return Approved{}, err
	}

	account, err := v.accounts.GetAccountByID(ctx, req.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Approved{}, newError(KindAccountNotFound, "accountId", "account not found")
		}
		return Approved{}, executionFailed(err)
	}

	if account.OwnerID != callerID {
		return Approved{}, newError(KindForbidden, "accountId", "you cannot make transactions on this account")
	}

	approved := Approved{txType: req.Type, amount: req.Amount, account: *account}

	if req.Type == models.TransactionTransferOut {
		related, err := v.resolveCounterparty(ctx, account, req)
		if err != nil {
			return Approved{}, err
		}
		approved.related = related
	}

	if req.Type.Debits() && account.Balance.LessThan(req.Amount) {
		return Approved{}, newError(KindInsufficientFunds, "amount", "insufficient balance")
	}

	return approved, nil
}

func (v *Validator) checkShape(req Request) error {
	if err := v.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return newError(KindInvalidRequest, verrs[0].Field(), "failed on the '"+verrs[0].Tag()+"' rule")
		}
		return &Error{Kind: KindInvalidRequest, Message: "invalid request", Err: err}
	}
	if !req.Amount.IsPositive() {
		return newError(KindInvalidRequest, "amount", "amount must be greater than zero")
	}
	if !req.Amount.Equal(req.Amount.Truncate(v.scale)) {
		return newError(KindInvalidRequest, "amount", "amount has too many decimal places")
	}
	return nil
}

func (v *Validator) resolveCounterparty(ctx context.Context, account *models.Account, req Request) (*models.Account, error) {
	switch {
	case req.RelatedIBAN == "":
		return nil, newError(KindInvalidRequest, "relatedIban", "recipient IBAN is required for transfers")
	case req.RelatedFirstName == "":
		return nil, newError(KindInvalidRequest, "relatedFirstName", "recipient first name is required for transfers")
	case req.RelatedLastName == "":
		return nil, newError(KindInvalidRequest, "relatedLastName", "recipient last name is required for transfers")
	}

	related, err := v.accounts.GetAccountByIBAN(ctx, req.RelatedIBAN)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(KindCounterpartyNotFound, "relatedIban", "no account found for this IBAN")
		}
		return nil, executionFailed(err)
	}

	if related.ID == account.ID {
		return nil, newError(KindInvalidRequest, "relatedIban", "cannot transfer to the same account")
	}

	switch {
	case related.Owner == nil, related.Owner.FirstName != req.RelatedFirstName:
		return nil, newError(KindNameMismatch, "relatedFirstName", "recipient name does not match the account holder")
	case related.Owner.LastName != req.RelatedLastName:
		return nil, newError(KindNameMismatch, "relatedLastName", "recipient name does not match the account holder")
	}

	return related, nil
}
