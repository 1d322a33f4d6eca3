package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	dirdomain "github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/domain"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/realtime"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/domain"
)

// Repository is the review store.
type Repository interface {
	Create(ctx context.Context, review domain.Review) (string, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Review, error)
	ListByRecipient(ctx context.Context, toUser string) ([]domain.Review, error)
}

// Directory looks up stored users for recipient checks and roles.
type Directory interface {
	Get(ctx context.Context, uid string) (*dirdomain.User, error)
}

type ReviewService struct {
	repo     Repository
	users    Directory
	notifier realtime.Notifier
	limiter  *Limiter
}

func NewReviewService(repo Repository, users Directory, notifier realtime.Notifier, limiter *Limiter) *ReviewService {
	return &ReviewService{repo: repo, users: users, notifier: notifier, limiter: limiter}
}

// Submit validates and writes a review. The recipient's display name is
// copied from the directory at write time.
func (s *ReviewService) Submit(ctx context.Context, sub domain.Submission) (*domain.Review, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	if s.limiter != nil && !s.limiter.Allow(sub.Author.UID) {
		return nil, domain.ErrRateLimited
	}

	recipient, err := s.users.Get(ctx, sub.ToUser)
	if err != nil {
		if errors.Is(err, dirdomain.ErrUserNotFound) {
			return nil, domain.ErrUnknownRecipient
		}
		return nil, fmt.Errorf("%w: look up recipient: %v", domain.ErrWriteFailed, err)
	}

	review := domain.Review{
		FromUser:     sub.Author.UID,
		FromUserName: sub.Author.DisplayName,
		ToUser:       recipient.UID,
		ToUserName:   recipient.DisplayName,
		Text:         sub.Text,
		Rating:       sub.Rating,
	}

	id, err := s.repo.Create(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}
	review.ID = id

	slog.Info("review submitted", "id", id, "from", review.FromUser, "to", review.ToUser, "rating", review.Rating)
	s.publish(ctx)
	return &review, nil
}

// Delete removes a review. The actor's role is read from the directory;
// only admins may delete.
func (s *ReviewService) Delete(ctx context.Context, actorUID, reviewID string) error {
	if strings.TrimSpace(actorUID) == "" {
		return domain.ErrNotSignedIn
	}

	actor, err := s.users.Get(ctx, actorUID)
	if err != nil {
		if errors.Is(err, dirdomain.ErrUserNotFound) {
			return domain.ErrPermissionDenied
		}
		return fmt.Errorf("%w: look up actor: %v", domain.ErrWriteFailed, err)
	}
	if !actor.IsAdmin() {
		return domain.ErrPermissionDenied
	}

	if err := s.repo.DeleteByID(ctx, reviewID); err != nil {
		if errors.Is(err, domain.ErrReviewNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}

	slog.Info("review deleted", "id", reviewID, "by", actorUID)
	s.publish(ctx)
	return nil
}

// List returns every review in insertion order.
func (s *ReviewService) List(ctx context.Context) ([]domain.Review, error) {
	return s.repo.List(ctx)
}

// SummaryFor returns the reviews about toUser with their count and average.
func (s *ReviewService) SummaryFor(ctx context.Context, toUser string) (domain.Summary, error) {
	reviews, err := s.repo.ListByRecipient(ctx, toUser)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("list reviews for %s: %w", toUser, err)
	}
	return domain.Summarize(reviews, toUser), nil
}

// Subscribe delivers the reviews about toUser now and after every review
// change until the subscription is closed.
func (s *ReviewService) Subscribe(ctx context.Context, toUser string, deliver func([]domain.Review), onError func(error)) (*realtime.Subscription, error) {
	load := func(ctx context.Context) ([]domain.Review, error) {
		return s.repo.ListByRecipient(ctx, toUser)
	}
	return realtime.Subscribe(ctx, s.notifier, realtime.TopicReviews, load, deliver, onError)
}

func (s *ReviewService) publish(ctx context.Context) {
	if err := s.notifier.Publish(ctx, realtime.TopicReviews); err != nil {
		slog.Warn("review change not published", "error", err)
	}
}
