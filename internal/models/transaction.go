package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionDeposit     TransactionType = "DEPOSIT"
	TransactionWithdraw    TransactionType = "WITHDRAW"
	TransactionTransferOut TransactionType = "TRANSFER_OUT"
	TransactionTransferIn  TransactionType = "TRANSFER_IN"
)

// Valid reports whether t is one of the known ledger entry types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionDeposit, TransactionWithdraw, TransactionTransferOut, TransactionTransferIn:
		return true
	}
	return false
}

// Debits reports whether an entry of this type reduces the account balance.
func (t TransactionType) Debits() bool {
	return t == TransactionWithdraw || t == TransactionTransferOut
}

// TransactionRecord is one immutable ledger entry posted against a single account.
// Both legs of a transfer share the same Reference.
type TransactionRecord struct {
	ID               int64           `json:"id" db:"id"`
	Reference        string          `json:"reference" db:"reference"`
	AccountID        int64           `json:"accountId" db:"account_id"`
	Type             TransactionType `json:"type" db:"type"`
	Amount           decimal.Decimal `json:"amount" db:"amount"`
	RelatedAccountID *int64          `json:"relatedAccountId" db:"related_account_id"`
	Description      string          `json:"description" db:"description"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`

	// Counterparty of a transfer leg, filled on read while the related account exists.
	RelatedIBAN string `json:"relatedIban,omitempty" db:"-"`
	RelatedName string `json:"relatedName,omitempty" db:"-"`
}
