package stream

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisSource subscribes to a redis pub/sub channel. The channel name is
// used as the event name, so publishing status payloads on a channel named
// after the status event type feeds the panel directly.
type RedisSource struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// Describe returns a redis URL for the channel.
func (s *RedisSource) Describe() string {
	return fmt.Sprintf("redis://%s/%d#%s", s.addr(), s.DB, s.Channel)
}

func (s *RedisSource) addr() string {
	if s.Addr == "" {
		return "localhost:6379"
	}
	return s.Addr
}

func (s *RedisSource) client() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     s.addr(),
		Password: s.Password,
		DB:       s.DB,
	})
}

// Ping checks that the server is reachable.
func (s *RedisSource) Ping(ctx context.Context) error {
	client := s.client()
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis %s: %w", s.addr(), err)
	}
	return nil
}

// Stream forwards channel messages until ctx is cancelled.
func (s *RedisSource) Stream(ctx context.Context, emit func(Event)) error {
	if s.Channel == "" {
		return fmt.Errorf("redis source: channel is required")
	}

	client := s.client()
	defer client.Close()

	sub := client.Subscribe(ctx, s.Channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return finish(ctx, fmt.Errorf("subscribe %s: %w", s.Channel, err))
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			emit(Event{Name: msg.Channel, Data: []byte(msg.Payload)})
		}
	}
}
