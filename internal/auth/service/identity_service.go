package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/domain"
	dirdomain "github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/domain"
)

// Directory creates the user record on first sign-in.
type Directory interface {
	ReadOrCreate(ctx context.Context, uid, displayName, email string) (*dirdomain.User, error)
}

// SessionStore persists signed-in sessions.
type SessionStore interface {
	Create(ctx context.Context, id domain.Identity, role string) (*domain.Session, error)
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// IdentityService signs users in and out. The identity provider decides
// who the user is; the directory decides their role.
type IdentityService struct {
	provider  auth.Provider
	directory Directory
	sessions  SessionStore
}

func NewIdentityService(provider auth.Provider, directory Directory, sessions SessionStore) *IdentityService {
	return &IdentityService{provider: provider, directory: directory, sessions: sessions}
}

// Authenticate verifies an ID token and makes sure the user exists in the
// directory, returning the stored record.
func (s *IdentityService) Authenticate(ctx context.Context, idToken string) (*dirdomain.User, error) {
	_, user, err := s.authenticate(ctx, idToken)
	return user, err
}

// SignIn authenticates the token and opens a session. Name and email come
// from the provider as of this sign-in; only the role comes from the directory.
func (s *IdentityService) SignIn(ctx context.Context, idToken string) (*domain.Session, error) {
	id, user, err := s.authenticate(ctx, idToken)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create(ctx, *id, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSignInFailed, err)
	}

	slog.Info("signed in", "uid", id.UID, "role", user.Role)
	return sess, nil
}

func (s *IdentityService) authenticate(ctx context.Context, idToken string) (*domain.Identity, *dirdomain.User, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, nil, domain.ErrMissingToken
	}

	id, err := s.provider.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrSignInFailed, err)
	}

	user, err := s.directory.ReadOrCreate(ctx, id.UID, id.DisplayName, id.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrSignInFailed, err)
	}
	return id, user, nil
}

// SignOut ends the provider session and then the local one. When the
// provider call fails the local session is left untouched.
func (s *IdentityService) SignOut(ctx context.Context, sess *domain.Session) error {
	if sess == nil {
		return domain.ErrInvalidSession
	}

	if err := s.provider.RevokeSession(ctx, sess.UID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSignOutFailed, err)
	}

	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSignOutFailed, err)
	}

	slog.Info("signed out", "uid", sess.UID)
	return nil
}

// Session resolves a live session by ID.
func (s *IdentityService) Session(ctx context.Context, id string) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSession) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	return sess, nil
}
