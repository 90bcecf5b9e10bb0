package audit

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ruralpay/ledger/internal/logger"
	"github.com/ruralpay/ledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	l := NewLogger(logger.FromZap(zap.New(core)))
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l, logs
}

func decodeEvent(t *testing.T, logs *observer.ObservedLogs) Event {
	t.Helper()
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "audit", entry.ContextMap()["channel"])

	var event Event
	require.NoError(t, json.Unmarshal([]byte(entry.ContextMap()["event"].(string)), &event))
	return event
}

func TestLogger_LogRecord(t *testing.T) {
	l, logs := newObservedLogger()
	related := int64(9)

	l.LogRecord(models.TransactionRecord{
		ID:               3,
		Reference:        "ref-1",
		AccountID:        4,
		Type:             models.TransactionTransferOut,
		Amount:           decimal.NewFromInt(40),
		RelatedAccountID: &related,
	})

	event := decodeEvent(t, logs)
	assert.Equal(t, "TRANSFER_OUT", event.EventType)
	assert.Equal(t, "ref-1", event.Reference)
	assert.Equal(t, int64(4), event.AccountID)
	assert.True(t, decimal.NewFromInt(40).Equal(event.Amount))
	assert.Equal(t, "COMMITTED", event.Status)
}

func TestLogger_LogRejection(t *testing.T) {
	l, logs := newObservedLogger()

	l.LogRejection(4, models.TransactionWithdraw, decimal.NewFromInt(150), "INSUFFICIENT_FUNDS", errors.New("balance too low"))

	event := decodeEvent(t, logs)
	assert.Equal(t, "WITHDRAW", event.EventType)
	assert.Equal(t, "INSUFFICIENT_FUNDS", event.Status)
	assert.Equal(t, map[string]any{"error": "balance too low"}, event.Details)
}
