package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// SettlementChangedChannel is the Redis pub/sub channel the dashboard badge
// counters subscribe to.
const SettlementChangedChannel = "vesting:settlement_changed"

// Notifier is the outbound port fired after every successful status
// transition. Fire-and-forget: implementations must never fail the calling
// workflow.
type Notifier interface {
	SettlementChanged(ctx context.Context, companyID uuid.UUID, eventID uuid.UUID, action string)
}

// RedisNotifier publishes settlement-changed messages on Redis pub/sub.
type RedisNotifier struct {
	Rdb *redis.Client
}

type changedMessage struct {
	CompanyID uuid.UUID `json:"company_id"`
	EventID   uuid.UUID `json:"event_id"`
	Action    string    `json:"action"`
	At        time.Time `json:"at"`
}

func (n *RedisNotifier) SettlementChanged(ctx context.Context, companyID uuid.UUID, eventID uuid.UUID, action string) {
	b, _ := json.Marshal(changedMessage{
		CompanyID: companyID,
		EventID:   eventID,
		Action:    action,
		At:        time.Now(),
	})
	if err := n.Rdb.Publish(ctx, SettlementChangedChannel, b).Err(); err != nil {
		log.Warn().Err(err).Str("company_id", companyID.String()).Str("event_id", eventID.String()).Msg("settlement-changed publish failed")
	}
}

// NopNotifier discards notifications (tests, one-off tooling).
type NopNotifier struct{}

func (NopNotifier) SettlementChanged(ctx context.Context, companyID uuid.UUID, eventID uuid.UUID, action string) {
}
