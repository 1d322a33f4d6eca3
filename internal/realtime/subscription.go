package realtime

import (
	"context"
	"sync"
)

// Loader reads a full snapshot of a collection.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Subscription delivers snapshots until Close is called or its parent
// context ends.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Subscribe keeps a snapshot of topic's collection flowing to deliver: one
// load right away and one after every notification. Each delivered slice
// is a fresh value owned by the receiver. Load failures go to onError and
// the subscription stays active.
func Subscribe[T any](
	ctx context.Context,
	n Notifier,
	topic string,
	load Loader[T],
	deliver func([]T),
	onError func(error),
) (*Subscription, error) {
	l, err := n.Listen(ctx, topic)
	if err != nil {
		return nil, err
	}

	sctx, cancel := context.WithCancel(ctx)
	s := &Subscription{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(s.done)
		defer l.Close()

		reload := func() {
			items, err := load(sctx)
			if sctx.Err() != nil {
				return
			}
			if err != nil {
				if onError != nil {
					onError(err)
				}
				return
			}
			deliver(items)
		}

		reload()
		for {
			select {
			case <-sctx.Done():
				return
			case _, ok := <-l.C():
				if !ok {
					return
				}
				reload()
			}
		}
	}()

	return s, nil
}

// Close stops deliveries and waits for the subscription goroutine to exit.
// It is safe to call more than once and on a nil Subscription.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
	<-s.done
}
