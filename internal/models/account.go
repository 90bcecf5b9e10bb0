package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a balance-holding bank account. Balance never goes below zero.
type Account struct {
	ID            int64           `json:"id" db:"id"`
	OwnerID       int64           `json:"ownerId" db:"user_id"`
	Name          string          `json:"name" db:"name"`
	AccountNumber string          `json:"accountNumber" db:"account_number"`
	IBAN          string          `json:"iban" db:"iban"`
	Balance       decimal.Decimal `json:"balance" db:"balance"`
	Owner         *User           `json:"owner,omitempty"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}
