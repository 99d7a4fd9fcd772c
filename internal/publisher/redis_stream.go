package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultStream receives BreakingPoint sync events
const DefaultStream = "stats.sync.breakingpoint"

// RedisStreamPublisher publishes sync events to a Redis stream
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
	now    func() time.Time
}

// NewRedisStreamPublisher creates a publisher from an existing client
func NewRedisStreamPublisher(client *redis.Client, stream string) *RedisStreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisStreamPublisher{
		client: client,
		stream: stream,
		maxLen: 10000,
		now:    time.Now,
	}
}

// Publish appends one event to the stream. The payload is JSON encoded into
// the "data" field.
func (p *RedisStreamPublisher) Publish(ctx context.Context, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", event, err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"event":     event,
			"data":      string(data),
			"timestamp": p.now().Unix(),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("publishing %s event: %w", event, err)
	}
	return nil
}
