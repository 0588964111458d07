// Package cache hands match action records to an external historian
// through a Redis queue. The client is optional: when InitRedis is never
// called (or fails), Rdb stays nil and callers skip publishing.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// actionQueueKey is the list an external historian consumes with BLPOP.
const actionQueueKey = "uttt:match_actions"

// Rdb is the shared Redis client. Nil until InitRedis succeeds.
var Rdb *redis.Client

// MatchActionRecord is one entry on the match action queue.
type MatchActionRecord struct {
	MatchID       uuid.UUID              `json:"match_id"`
	ActionIndex   int                    `json:"action_index"`
	Seat          string                 `json:"seat,omitempty"`
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload"`
	Timestamp     int64                  `json:"timestamp"`
}

// InitRedis connects to the Redis instance at addr and installs the
// shared client. The connection is verified with a ping before use.
func InitRedis(addr string) error {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	Rdb = client
	return nil
}

// PublishMatchAction appends rec to the action queue.
func PublishMatchAction(ctx context.Context, rec MatchActionRecord) error {
	if Rdb == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}
	if err := Rdb.RPush(ctx, actionQueueKey, data).Err(); err != nil {
		return fmt.Errorf("rpush action record: %w", err)
	}
	return nil
}

// Close releases the shared client. Safe to call when Redis was never
// initialized.
func Close() error {
	if Rdb == nil {
		return nil
	}
	err := Rdb.Close()
	Rdb = nil
	return err
}
