package audit

import (
	"encoding/json"
	"time"

	"github.com/ruralpay/ledger/internal/logger"
	"github.com/ruralpay/ledger/internal/models"
	"github.com/shopspring/decimal"
)

type Event struct {
	Timestamp time.Time       `json:"timestamp"`
	EventType string          `json:"event_type"`
	Reference string          `json:"reference,omitempty"`
	AccountID int64           `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	Details   any             `json:"details,omitempty"`
}

// Logger writes one JSON audit line per ledger event on the "audit" logger.
type Logger struct {
	log *logger.Logger
	now func() time.Time
}

func NewLogger(log *logger.Logger) *Logger {
	return &Logger{log: log.With("channel", "audit"), now: time.Now}
}

// LogRecord audits a committed ledger entry.
func (a *Logger) LogRecord(rec models.TransactionRecord) {
	details := map[string]any{"record_id": rec.ID}
	if rec.RelatedAccountID != nil {
		details["related_account_id"] = *rec.RelatedAccountID
	}
	a.write(Event{
		Timestamp: a.now(),
		EventType: string(rec.Type),
		Reference: rec.Reference,
		AccountID: rec.AccountID,
		Amount:    rec.Amount,
		Status:    "COMMITTED",
		Details:   details,
	})
}

// LogRejection audits a request that never reached the ledger.
func (a *Logger) LogRejection(accountID int64, txType models.TransactionType, amount decimal.Decimal, kind string, err error) {
	a.write(Event{
		Timestamp: a.now(),
		EventType: string(txType),
		AccountID: accountID,
		Amount:    amount,
		Status:    kind,
		Details:   map[string]string{"error": err.Error()},
	})
}

// LogOperation audits account lifecycle operations (create, delete).
func (a *Logger) LogOperation(accountID int64, operation, details string) {
	a.write(Event{
		Timestamp: a.now(),
		EventType: operation,
		AccountID: accountID,
		Status:    "SUCCESS",
		Details:   map[string]string{"details": details},
	})
}

func (a *Logger) write(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		a.log.Error("[AUDIT] failed to encode event", "error", err)
		return
	}
	a.log.Info("AUDIT", "event", string(data))
}
