// Package events publishes committed ledger records to Redis for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/ruralpay/ledger/internal/models"
)

// Event is the message pushed for every committed record.
type Event struct {
	Reference        string `json:"reference"`
	RecordID         int64  `json:"recordId"`
	AccountID        int64  `json:"accountId"`
	Type             string `json:"type"`
	Amount           string `json:"amount"`
	RelatedAccountID *int64 `json:"relatedAccountId,omitempty"`
	Description      string `json:"description"`
	CreatedAt        string `json:"createdAt"`
}

// RedisPublisher appends events to a Redis list with RPUSH. A nil client turns it into a no-op
// so the server keeps running when Redis is unavailable.
type RedisPublisher struct {
	client *redis.Client
	key    string
}

func NewRedisPublisher(client *redis.Client, key string) *RedisPublisher {
	return &RedisPublisher{client: client, key: key}
}

func (p *RedisPublisher) Publish(ctx context.Context, records []models.TransactionRecord) error {
	if p.client == nil || len(records) == 0 {
		return nil
	}

	values := make([]any, 0, len(records))
	for _, rec := range records {
		payload, err := json.Marshal(newEvent(rec))
		if err != nil {
			return fmt.Errorf("encode event for record %d: %w", rec.ID, err)
		}
		values = append(values, string(payload))
	}

	if err := p.client.RPush(ctx, p.key, values...).Err(); err != nil {
		return fmt.Errorf("push %d events to %s: %w", len(values), p.key, err)
	}
	return nil
}

func newEvent(rec models.TransactionRecord) Event {
	return Event{
		Reference:        rec.Reference,
		RecordID:         rec.ID,
		AccountID:        rec.AccountID,
		Type:             string(rec.Type),
		Amount:           rec.Amount.String(),
		RelatedAccountID: rec.RelatedAccountID,
		Description:      rec.Description,
		CreatedAt:        rec.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}
