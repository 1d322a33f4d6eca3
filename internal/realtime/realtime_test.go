package realtime

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, client.Ping(context.Background()).Err())

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client
}

type recorder struct {
	mu        sync.Mutex
	snapshots [][]string
}

func (r *recorder) deliver(items []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, items)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

func (r *recorder) last() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshots[len(r.snapshots)-1]
}

func TestSubscribe_DeliversInitialAndOnNotify(t *testing.T) {
	client := setupTestRedis(t)
	n := NewRedisNotifier(client)
	ctx := context.Background()

	var mu sync.Mutex
	data := []string{"a"}
	load := func(context.Context) ([]string, error) {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), data...), nil
	}

	rec := &recorder{}
	sub, err := Subscribe(ctx, n, TopicReviews, load, rec.deliver, nil)
	require.NoError(t, err)
	defer sub.Close()

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"a"}, rec.last())

	mu.Lock()
	data = append(data, "b")
	mu.Unlock()
	require.NoError(t, n.Publish(ctx, TopicReviews))

	require.Eventually(t, func() bool {
		return rec.count() >= 2 && len(rec.last()) == 2
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, rec.last())
}

func TestSubscribe_IgnoresOtherTopics(t *testing.T) {
	client := setupTestRedis(t)
	n := NewRedisNotifier(client)
	ctx := context.Background()

	var loads atomic.Int32
	load := func(context.Context) ([]string, error) {
		loads.Add(1)
		return nil, nil
	}

	sub, err := Subscribe(ctx, n, TopicDirectory, load, func([]string) {}, nil)
	require.NoError(t, err)
	defer sub.Close()

	require.Eventually(t, func() bool { return loads.Load() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, n.Publish(ctx, TopicReviews))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), loads.Load())
}

func TestSubscribe_CloseStopsDeliveries(t *testing.T) {
	client := setupTestRedis(t)
	n := NewRedisNotifier(client)
	ctx := context.Background()

	rec := &recorder{}
	load := func(context.Context) ([]string, error) { return []string{"x"}, nil }

	sub, err := Subscribe(ctx, n, TopicReviews, load, rec.deliver, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 10*time.Millisecond)

	sub.Close()
	sub.Close()

	require.NoError(t, n.Publish(ctx, TopicReviews))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
}

func TestSubscribe_ReportsLoadErrors(t *testing.T) {
	client := setupTestRedis(t)
	n := NewRedisNotifier(client)

	errs := make(chan error, 1)
	load := func(context.Context) ([]string, error) { return nil, errors.New("store down") }

	sub, err := Subscribe(context.Background(), n, TopicReviews, load, func([]string) {
		t.Error("unexpected delivery")
	}, func(err error) { errs <- err })
	require.NoError(t, err)
	defer sub.Close()

	select {
	case err := <-errs:
		assert.EqualError(t, err, "store down")
	case <-time.After(time.Second):
		t.Fatal("expected load error")
	}
}

func TestSubscription_CloseNil(t *testing.T) {
	var s *Subscription
	assert.NotPanics(t, s.Close)
}

func TestListen_GivesUpOnSilentServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	t.Cleanup(func() {
		ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			c.Close()
		}
	})
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()

	client := redis.NewClient(&redis.Options{Addr: ln.Addr().String(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	n := NewRedisNotifier(client)

	start := time.Now()
	_, err = n.listen(context.Background(), TopicDirectory, 100*time.Millisecond)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
