package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisNotifierPublishes(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, SettlementChangedChannel)
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	n := &RedisNotifier{Rdb: rdb}
	companyID := uuid.New()
	eventID := uuid.New()
	n.SettlementChanged(ctx, companyID, eventID, "transferred")

	recvCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(recvCtx)
	require.NoError(t, err)

	var decoded changedMessage
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &decoded))
	assert.Equal(t, companyID, decoded.CompanyID)
	assert.Equal(t, eventID, decoded.EventID)
	assert.Equal(t, "transferred", decoded.Action)
	assert.False(t, decoded.At.IsZero())
}

func TestRedisNotifierSurvivesDeadServer(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close()

	// Fire-and-forget: a publish failure must not panic or block.
	n := &RedisNotifier{Rdb: rdb}
	n.SettlementChanged(context.Background(), uuid.New(), uuid.New(), "vested")
}
