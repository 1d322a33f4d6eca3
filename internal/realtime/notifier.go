package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "reviews:events:" // Pub/Sub channel per topic: reviews:events:{topic}

// confirmTimeout bounds the wait for Redis to acknowledge a subscription.
const confirmTimeout = 5 * time.Second

// Topics published on every write to the corresponding collection.
const (
	TopicDirectory = "directory"
	TopicReviews   = "reviews"
)

// Notifier announces that a collection changed. Messages carry no payload:
// subscribers reload a full snapshot on every notification.
type Notifier interface {
	Publish(ctx context.Context, topic string) error
	Listen(ctx context.Context, topic string) (Listener, error)
}

// Listener yields one signal per (coalesced) notification until closed.
type Listener interface {
	C() <-chan struct{}
	Close() error
}

// RedisNotifier implements Notifier over Redis Pub/Sub.
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) Publish(ctx context.Context, topic string) error {
	if err := n.client.Publish(ctx, channel(topic), "changed").Err(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Listen subscribes and waits for Redis to confirm the subscription, so a
// publish issued after Listen returns is never missed.
func (n *RedisNotifier) Listen(ctx context.Context, topic string) (Listener, error) {
	return n.listen(ctx, topic, confirmTimeout)
}

func (n *RedisNotifier) listen(ctx context.Context, topic string, timeout time.Duration) (Listener, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ps := n.client.Subscribe(ctx, channel(topic))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	l := &redisListener{ps: ps, c: make(chan struct{}, 1)}
	go l.pump()
	return l, nil
}

type redisListener struct {
	ps *redis.PubSub
	c  chan struct{}
}

func (l *redisListener) pump() {
	defer close(l.c)
	for range l.ps.Channel() {
		select {
		case l.c <- struct{}{}:
		default:
			// a reload is already pending
		}
	}
}

func (l *redisListener) C() <-chan struct{} { return l.c }

func (l *redisListener) Close() error { return l.ps.Close() }

func channel(topic string) string {
	return channelPrefix + topic
}
