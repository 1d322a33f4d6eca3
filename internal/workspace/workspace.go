package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	authdomain "github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/domain"
	dirdomain "github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/domain"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/realtime"
	revdomain "github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/domain"
)

// Directory feeds the user mirror.
type Directory interface {
	Subscribe(ctx context.Context, deliver func([]dirdomain.User), onError func(error)) (*realtime.Subscription, error)
}

// Reviews feeds the review mirror and performs writes.
type Reviews interface {
	Subscribe(ctx context.Context, toUser string, deliver func([]revdomain.Review), onError func(error)) (*realtime.Subscription, error)
	Submit(ctx context.Context, sub revdomain.Submission) (*revdomain.Review, error)
	Delete(ctx context.Context, actorUID, reviewID string) error
}

// Workspace is the live view of one signed-in session. A single goroutine
// owns the state: mirrors, user actions and write outcomes all arrive as
// events on one channel and each produces a new State.
type Workspace struct {
	sessionID string
	identity  authdomain.Identity
	directory Directory
	reviews   Reviews

	events chan envelope
	state  atomic.Pointer[State]
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	listenersMu sync.Mutex
	listeners   map[uint64]chan State
	nextID      uint64

	subMu      sync.Mutex
	usersSub   *realtime.Subscription
	reviewsSub *realtime.Subscription

	submitting atomic.Bool
	lastActive atomic.Int64
	closeOnce  sync.Once
}

// Open starts a workspace for sess and activates the directory mirror.
func Open(sess *authdomain.Session, directory Directory, reviews Reviews) (*Workspace, error) {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Workspace{
		sessionID: sess.ID,
		identity:  sess.Identity(),
		directory: directory,
		reviews:   reviews,
		events:    make(chan envelope, 16),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		listeners: make(map[uint64]chan State),
	}
	initial := initialState(w.identity, sess.Role)
	w.state.Store(&initial)
	w.touch()

	go w.loop()

	sub, err := directory.Subscribe(ctx,
		func(users []dirdomain.User) { w.post(usersLoaded{users: users}) },
		func(err error) {
			slog.Warn("directory load failed", "session", w.sessionID, "error", err)
			w.post(readFailed{source: sourceDirectory, err: err})
		},
	)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("subscribe to directory: %w", err)
	}

	w.subMu.Lock()
	w.usersSub = sub
	w.subMu.Unlock()
	return w, nil
}

func (w *Workspace) SessionID() string { return w.sessionID }

// State returns the latest snapshot.
func (w *Workspace) State() State {
	return *w.state.Load()
}

// Watch streams snapshots, starting with the current one. A slow reader
// only ever sees the newest State. The channel closes with the workspace.
func (w *Workspace) Watch() (<-chan State, func()) {
	ch := make(chan State, 1)
	w.listenersMu.Lock()
	id := w.nextID
	w.nextID++
	select {
	case <-w.done:
		close(ch)
		w.listenersMu.Unlock()
		return ch, func() {}
	default:
	}
	ch <- w.State()
	w.listeners[id] = ch
	w.listenersMu.Unlock()

	w.touch()
	return ch, func() {
		w.listenersMu.Lock()
		defer w.listenersMu.Unlock()
		if _, ok := w.listeners[id]; ok {
			delete(w.listeners, id)
			close(ch)
		}
		w.touch()
	}
}

// Watchers is the number of open Watch streams.
func (w *Workspace) Watchers() int {
	w.listenersMu.Lock()
	defer w.listenersMu.Unlock()
	return len(w.listeners)
}

// LastActive is when the workspace last served its user.
func (w *Workspace) LastActive() time.Time {
	return time.Unix(0, w.lastActive.Load())
}

// Select makes toUser the recipient and replaces the review mirror with
// one scoped to it. An empty toUser clears the selection.
func (w *Workspace) Select(toUser string) error {
	w.touch()
	w.subMu.Lock()
	defer w.subMu.Unlock()

	if w.ctx.Err() != nil {
		return ErrClosed
	}
	if toUser == w.State().Selected && (toUser == "" || w.reviewsSub != nil) {
		return nil
	}

	// Closing first guarantees the old mirror has delivered its last
	// snapshot before the selection changes.
	w.reviewsSub.Close()
	w.reviewsSub = nil
	w.apply(selected{toUser: toUser})

	if toUser == "" {
		return nil
	}

	sub, err := w.reviews.Subscribe(w.ctx, toUser,
		func(reviews []revdomain.Review) { w.post(reviewsLoaded{toUser: toUser, reviews: reviews}) },
		func(err error) {
			slog.Warn("review load failed", "session", w.sessionID, "to_user", toUser, "error", err)
			w.post(readFailed{source: sourceReviews, err: err})
		},
	)
	if err != nil {
		w.apply(readFailed{source: sourceReviews, err: err})
		return fmt.Errorf("subscribe to reviews: %w", err)
	}
	w.reviewsSub = sub
	return nil
}

// Submit checks the form against the current snapshot and, if it passes,
// writes the review. On success the form resets; on failure it is kept.
func (w *Workspace) Submit(ctx context.Context, text string, rating int) error {
	w.touch()
	s := w.State()

	sub := revdomain.Submission{
		Author: w.author(),
		ToUser: s.Selected,
		Text:   text,
		Rating: rating,
	}
	err := sub.Validate()
	if err == nil {
		if _, ok := s.SelectedUser(); !ok {
			err = revdomain.ErrUnknownRecipient
		}
	}
	if err == nil && !w.submitting.CompareAndSwap(false, true) {
		err = ErrSubmitInProgress
	}
	if err != nil {
		if !errors.Is(err, ErrSubmitInProgress) {
			w.apply(formEdited{text: text, rating: rating})
		}
		w.apply(rejected{err: err})
		return err
	}
	defer w.submitting.Store(false)

	w.apply(submitStarted{text: text, rating: rating})
	_, err = w.reviews.Submit(ctx, sub)
	w.apply(submitFinished{err: err})
	return err
}

// Delete removes a review. Only an admin view offers deletion; the review
// service checks the stored role again before writing.
func (w *Workspace) Delete(ctx context.Context, reviewID string) error {
	w.touch()
	if !w.State().IsAdmin() {
		w.apply(rejected{err: revdomain.ErrPermissionDenied})
		return revdomain.ErrPermissionDenied
	}

	err := w.reviews.Delete(ctx, w.identity.UID, reviewID)
	w.apply(deleteFinished{err: err})
	return err
}

// Close releases both mirrors, stops the loop and ends every Watch stream.
func (w *Workspace) Close() {
	w.closeOnce.Do(func() {
		w.subMu.Lock()
		w.reviewsSub.Close()
		w.usersSub.Close()
		w.reviewsSub, w.usersSub = nil, nil
		w.cancel()
		w.subMu.Unlock()
		<-w.done
	})
}

func (w *Workspace) author() *revdomain.Author {
	if w.identity.UID == "" {
		return nil
	}
	return &revdomain.Author{UID: w.identity.UID, DisplayName: w.identity.DisplayName}
}

// envelope carries an event to the loop. applied, when set, is closed
// once the resulting State is published.
type envelope struct {
	ev      event
	applied chan struct{}
}

// post queues ev without waiting for it to be applied.
func (w *Workspace) post(ev event) {
	select {
	case w.events <- envelope{ev: ev}:
	case <-w.done:
	}
}

// apply queues ev and waits until the loop has published its result.
func (w *Workspace) apply(ev event) {
	env := envelope{ev: ev, applied: make(chan struct{})}
	select {
	case w.events <- env:
	case <-w.done:
		return
	}
	select {
	case <-env.applied:
	case <-w.done:
	}
}

func (w *Workspace) touch() {
	w.lastActive.Store(time.Now().UnixNano())
}

func (w *Workspace) loop() {
	defer func() {
		w.listenersMu.Lock()
		for id, ch := range w.listeners {
			close(ch)
			delete(w.listeners, id)
		}
		close(w.done)
		w.listenersMu.Unlock()
	}()

	for {
		select {
		case <-w.ctx.Done():
			return
		case env := <-w.events:
			next := env.ev.apply(w.State())
			next.Version++
			w.state.Store(&next)
			w.broadcast(next)
			if env.applied != nil {
				close(env.applied)
			}
		}
	}
}

// broadcast never blocks: a listener holding an unread State has it
// replaced by the newer one.
func (w *Workspace) broadcast(s State) {
	w.listenersMu.Lock()
	defer w.listenersMu.Unlock()
	for _, ch := range w.listeners {
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
}

// IsClosed reports whether Close has been called.
func (w *Workspace) IsClosed() bool {
	return errors.Is(w.ctx.Err(), context.Canceled)
}
