package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	authdomain "github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/domain"
)

// SessionChecker reports whether a session is still live.
type SessionChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Registry holds one workspace per browser session.
type Registry struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
	directory  Directory
	reviews    Reviews
	idle       time.Duration
}

// NewRegistry creates a registry whose workspaces are swept once unwatched
// for longer than idle.
func NewRegistry(directory Directory, reviews Reviews, idle time.Duration) *Registry {
	return &Registry{
		workspaces: make(map[string]*Workspace),
		directory:  directory,
		reviews:    reviews,
		idle:       idle,
	}
}

// Open returns the session's workspace, starting one if needed. The
// workspace is built outside the lock since subscribing reaches the stores.
func (r *Registry) Open(sess *authdomain.Session) (*Workspace, error) {
	if w, ok := r.live(sess.ID); ok {
		return w, nil
	}

	w, err := Open(sess, r.directory, r.reviews)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if existing, ok := r.workspaces[sess.ID]; ok && !existing.IsClosed() {
		r.mu.Unlock()
		w.Close()
		return existing, nil
	}
	r.workspaces[sess.ID] = w
	r.mu.Unlock()

	slog.Debug("workspace opened", "session", sess.ID, "uid", sess.UID)
	return w, nil
}

func (r *Registry) live(sessionID string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workspaces[sessionID]
	if !ok || w.IsClosed() {
		return nil, false
	}
	return w, true
}

// Get returns an open workspace.
func (r *Registry) Get(sessionID string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workspaces[sessionID]
	return w, ok
}

// Close ends the session's workspace, if any.
func (r *Registry) Close(sessionID string) {
	r.mu.Lock()
	w, ok := r.workspaces[sessionID]
	delete(r.workspaces, sessionID)
	r.mu.Unlock()

	if ok {
		w.Close()
		slog.Debug("workspace closed", "session", sessionID)
	}
}

// Len is the number of open workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Sweep closes workspaces whose session has ended, and unwatched ones idle
// for longer than the registry's idle limit. It returns how many closed.
// A failed session lookup skips that workspace and is reported once the
// rest have been checked.
func (r *Registry) Sweep(ctx context.Context, sessions SessionChecker) (int, error) {
	r.mu.Lock()
	candidates := make(map[string]*Workspace, len(r.workspaces))
	for id, w := range r.workspaces {
		candidates[id] = w
	}
	r.mu.Unlock()

	cutoff := time.Now().Add(-r.idle)
	closed := 0
	var errs []error
	for id, w := range candidates {
		expire := w.Watchers() == 0 && w.LastActive().Before(cutoff)
		if !expire && sessions != nil {
			live, err := sessions.Exists(ctx, id)
			if err != nil {
				slog.Warn("session lookup failed", "session", id, "error", err)
				errs = append(errs, fmt.Errorf("session %s: %w", id, err))
				continue
			}
			expire = !live
		}
		if expire {
			r.Close(id)
			closed++
		}
	}
	if closed > 0 {
		slog.Info("workspaces swept", "closed", closed, "open", r.Len())
	}
	return closed, errors.Join(errs...)
}

// CloseAll ends every workspace.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.workspaces))
	for id := range r.workspaces {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		r.Close(id)
	}
}
