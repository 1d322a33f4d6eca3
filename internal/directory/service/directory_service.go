package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/domain"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/realtime"
)

// Repository is the directory store.
type Repository interface {
	ReadOrCreate(ctx context.Context, defaults domain.User) (*domain.User, bool, error)
	Get(ctx context.Context, uid string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	SetRole(ctx context.Context, uid, role string) error
}

type DirectoryService struct {
	repo     Repository
	notifier realtime.Notifier
}

func NewDirectoryService(repo Repository, notifier realtime.Notifier) *DirectoryService {
	return &DirectoryService{repo: repo, notifier: notifier}
}

// ReadOrCreate returns the stored user, creating it with role "user" when
// absent. An existing record, including its role, is never overwritten.
func (s *DirectoryService) ReadOrCreate(ctx context.Context, uid, displayName, email string) (*domain.User, error) {
	u, created, err := s.repo.ReadOrCreate(ctx, domain.NewUser(uid, displayName, email))
	if err != nil {
		return nil, fmt.Errorf("read or create user %s: %w", uid, err)
	}

	if created {
		slog.Info("user registered", "uid", uid)
		if err := s.notifier.Publish(ctx, realtime.TopicDirectory); err != nil {
			slog.Warn("directory change not published", "error", err)
		}
	}
	return u, nil
}

// SetRole grants or revokes admin rights. The app never calls it from a
// request path; operators run it through the admin command.
func (s *DirectoryService) SetRole(ctx context.Context, uid, role string) error {
	if !domain.ValidRole(role) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidRole, role)
	}
	if err := s.repo.SetRole(ctx, uid, role); err != nil {
		return fmt.Errorf("set role for %s: %w", uid, err)
	}

	slog.Info("role changed", "uid", uid, "role", role)
	if err := s.notifier.Publish(ctx, realtime.TopicDirectory); err != nil {
		slog.Warn("directory change not published", "error", err)
	}
	return nil
}

func (s *DirectoryService) Get(ctx context.Context, uid string) (*domain.User, error) {
	return s.repo.Get(ctx, uid)
}

// List returns every user ordered by display name, then uid.
func (s *DirectoryService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	domain.SortUsers(users)
	return users, nil
}

// Subscribe delivers the full ordered user list now and after every
// directory change until the subscription is closed.
func (s *DirectoryService) Subscribe(ctx context.Context, deliver func([]domain.User), onError func(error)) (*realtime.Subscription, error) {
	return realtime.Subscribe(ctx, s.notifier, realtime.TopicDirectory, s.List, deliver, onError)
}
