package ledger

import "github.com/ruralpay/ledger/internal/models"

// Describe renders the narrative stored on a ledger entry. counterparty is the owner of
// the other account for transfer entries and may be nil otherwise.
func Describe(txType models.TransactionType, counterparty *models.User) string {
	switch txType {
	case models.TransactionDeposit:
		return "Money deposited"
	case models.TransactionWithdraw:
		return "Money withdrawn"
	case models.TransactionTransferOut:
		if counterparty == nil {
			return "Money sent"
		}
		return "Money sent to " + counterparty.FullName()
	case models.TransactionTransferIn:
		if counterparty == nil {
			return "Money received"
		}
		return "Money received from " + counterparty.FullName()
	default:
		return "Transaction"
	}
}
