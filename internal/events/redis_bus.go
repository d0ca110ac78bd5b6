package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisBus struct {
	rdb *redis.Client
}

func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{rdb: rdb}
}

func (b *RedisBus) Publish(ctx context.Context, clerkID string, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, Channel(clerkID), payload).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, clerkID string) (Subscription, error) {
	ps := b.rdb.Subscribe(ctx, Channel(clerkID))
	// wait for the subscription confirmation so no event published afterwards is missed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	out := make(chan string, 16)
	go func() {
		defer close(out)
		for m := range ps.Channel() {
			select {
			case out <- m.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()
	return &redisSubscription{ps: ps, out: out}, nil
}

type redisSubscription struct {
	ps  *redis.PubSub
	out chan string
}

func (s *redisSubscription) Messages() <-chan string { return s.out }

func (s *redisSubscription) Close() error { return s.ps.Close() }
