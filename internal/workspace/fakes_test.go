package workspace

import (
	"context"
	"sync"

	dirdomain "github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/domain"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/realtime"
	revdomain "github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/domain"
)

// memNotifier is an in-process realtime.Notifier.
type memNotifier struct {
	mu        sync.Mutex
	listeners map[string]map[*memListener]struct{}
}

func newMemNotifier() *memNotifier {
	return &memNotifier{listeners: make(map[string]map[*memListener]struct{})}
}

type memListener struct {
	n     *memNotifier
	topic string
	c     chan struct{}
}

func (l *memListener) C() <-chan struct{} { return l.c }

func (l *memListener) Close() error {
	l.n.mu.Lock()
	defer l.n.mu.Unlock()
	delete(l.n.listeners[l.topic], l)
	return nil
}

func (n *memNotifier) Publish(_ context.Context, topic string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for l := range n.listeners[topic] {
		select {
		case l.c <- struct{}{}:
		default:
		}
	}
	return nil
}

func (n *memNotifier) Listen(_ context.Context, topic string) (realtime.Listener, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	l := &memListener{n: n, topic: topic, c: make(chan struct{}, 1)}
	if n.listeners[topic] == nil {
		n.listeners[topic] = make(map[*memListener]struct{})
	}
	n.listeners[topic][l] = struct{}{}
	return l, nil
}

func (n *memNotifier) count(topic string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners[topic])
}

type fakeDirectory struct {
	n     *memNotifier
	mu    sync.Mutex
	users []dirdomain.User
	stall chan struct{}
}

func (d *fakeDirectory) list(context.Context) ([]dirdomain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]dirdomain.User(nil), d.users...), nil
}

func (d *fakeDirectory) Subscribe(ctx context.Context, deliver func([]dirdomain.User), onError func(error)) (*realtime.Subscription, error) {
	if d.stall != nil {
		<-d.stall
	}
	return realtime.Subscribe(ctx, d.n, realtime.TopicDirectory, d.list, deliver, onError)
}

func (d *fakeDirectory) set(users ...dirdomain.User) {
	d.mu.Lock()
	d.users = users
	d.mu.Unlock()
	_ = d.n.Publish(context.Background(), realtime.TopicDirectory)
}

// fakeReviews mirrors the whole collection on every subscription, so the
// workspace's own recipient filter is what scopes the view.
type fakeReviews struct {
	n         *memNotifier
	mu        sync.Mutex
	reviews   []revdomain.Review
	submits   int
	deletes   int
	submitErr error
	deleteErr error
	block     chan struct{}
}

func (r *fakeReviews) list(context.Context) ([]revdomain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]revdomain.Review(nil), r.reviews...), nil
}

func (r *fakeReviews) Subscribe(ctx context.Context, _ string, deliver func([]revdomain.Review), onError func(error)) (*realtime.Subscription, error) {
	return realtime.Subscribe(ctx, r.n, realtime.TopicReviews, r.list, deliver, onError)
}

func (r *fakeReviews) Submit(_ context.Context, sub revdomain.Submission) (*revdomain.Review, error) {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	r.submits++
	if r.submitErr != nil {
		r.mu.Unlock()
		return nil, r.submitErr
	}
	rv := revdomain.Review{
		ID:           string(rune('a' + len(r.reviews))),
		FromUser:     sub.Author.UID,
		FromUserName: sub.Author.DisplayName,
		ToUser:       sub.ToUser,
		Text:         sub.Text,
		Rating:       sub.Rating,
	}
	r.reviews = append(r.reviews, rv)
	r.mu.Unlock()
	_ = r.n.Publish(context.Background(), realtime.TopicReviews)
	return &rv, nil
}

func (r *fakeReviews) Delete(_ context.Context, _ string, id string) error {
	r.mu.Lock()
	r.deletes++
	if r.deleteErr != nil {
		r.mu.Unlock()
		return r.deleteErr
	}
	for i, rv := range r.reviews {
		if rv.ID == id {
			r.reviews = append(r.reviews[:i:i], r.reviews[i+1:]...)
			break
		}
	}
	r.mu.Unlock()
	_ = r.n.Publish(context.Background(), realtime.TopicReviews)
	return nil
}

func (r *fakeReviews) counts() (submits, deletes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.submits, r.deletes
}
