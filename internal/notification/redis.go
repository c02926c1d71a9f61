package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"project-tracker-api/internal/client"
)

// Channel returns the redis pub/sub channel carrying a user's notifications
func Channel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// Subscriber streams a user's live notifications until ctx is cancelled
type Subscriber interface {
	Subscribe(ctx context.Context, userID uint) (<-chan []byte, error)
}

// RedisBroker publishes and subscribes over redis pub/sub
type RedisBroker struct {
	client   *redis.Client
	recorder client.CallRecorder
}

// NewRedisBroker creates a broker on client. recorder may be nil.
func NewRedisBroker(rdb *redis.Client, recorder client.CallRecorder) *RedisBroker {
	return &RedisBroker{client: rdb, recorder: recorder}
}

// Publish sends message on the user's channel
func (b *RedisBroker) Publish(ctx context.Context, userID uint, message []byte) error {
	start := time.Now()
	err := b.client.Publish(ctx, Channel(userID), message).Err()
	b.record("redis:publish", "PUBLISH", start, err)
	return err
}

// Subscribe returns a channel of raw messages. It is closed when ctx is done
// or the redis subscription ends.
func (b *RedisBroker) Subscribe(ctx context.Context, userID uint) (<-chan []byte, error) {
	start := time.Now()
	sub := b.client.Subscribe(ctx, Channel(userID))
	_, err := sub.Receive(ctx)
	b.record("redis:subscribe", "SUBSCRIBE", start, err)
	if err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (b *RedisBroker) record(endpoint, method string, start time.Time, err error) {
	if b.recorder == nil {
		return
	}
	status := 200
	if err != nil {
		status = 500
	}
	b.recorder.RecordExternalAPICall(endpoint, method, status, time.Since(start), err)
}
