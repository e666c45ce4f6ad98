package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/abakymuk/DriverOS/internal/logger"
	"github.com/abakymuk/DriverOS/internal/metrics"
)

const DefaultPrefix = "driveros:events:"

// RedisPublisher publishes JSON encoded events on "<prefix><channel>".
type RedisPublisher struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewRedisPublisher(rdb redis.UniversalClient, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisPublisher{rdb: rdb, prefix: prefix}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.rdb.Publish(ctx, p.prefix+ev.Channel, data).Err(); err != nil {
		metrics.RecordEvent(string(ev.Type), "redis", "error")
		return fmt.Errorf("redis publish: %w", err)
	}

	metrics.RecordEvent(string(ev.Type), "redis", "ok")
	return nil
}

// Subscribe streams events from the given channels, or from all channels
// when none are named. The returned channel closes when ctx is done.
func (p *RedisPublisher) Subscribe(ctx context.Context, channels ...string) (<-chan Event, error) {
	var sub *redis.PubSub
	if len(channels) == 0 {
		sub = p.rdb.PSubscribe(ctx, p.prefix+"*")
	} else {
		names := make([]string, len(channels))
		for i, ch := range channels {
			names[i] = p.prefix + ch
		}
		sub = p.rdb.Subscribe(ctx, names...)
	}

	// Receive blocks until the subscription is confirmed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					logger.Warn("dropping malformed event", "channel", msg.Channel, "error", err.Error())
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
