package repository

import (
	"context"
	"fmt"
	"sort"

	"firebase.google.com/go/v4/db"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/domain"
)

const reviewsPath = "reviews"

// rtdbReview is the record shape under reviews/{pushKey}.
type rtdbReview struct {
	FromUser     string `json:"fromUser"`
	FromUserName string `json:"fromUserName"`
	ToUser       string `json:"toUser"`
	ToUserName   string `json:"toUserName"`
	Text         string `json:"text"`
	Rating       int    `json:"rating"`
}

// RTDBRepository keeps reviews in Firebase Realtime Database. Push keys are
// chronological, so key order is insertion order.
type RTDBRepository struct {
	client *db.Client
}

func NewRTDBRepository(client *db.Client) *RTDBRepository {
	return &RTDBRepository{client: client}
}

func (r *RTDBRepository) Create(ctx context.Context, review domain.Review) (string, error) {
	ref, err := r.client.NewRef(reviewsPath).Push(ctx, rtdbReview{
		FromUser:     review.FromUser,
		FromUserName: review.FromUserName,
		ToUser:       review.ToUser,
		ToUserName:   review.ToUserName,
		Text:         review.Text,
		Rating:       review.Rating,
	})
	if err != nil {
		return "", fmt.Errorf("push review: %w", err)
	}
	return ref.Key, nil
}

func (r *RTDBRepository) DeleteByID(ctx context.Context, id string) error {
	ref := r.client.NewRef(reviewsPath + "/" + id)

	var existing *rtdbReview
	if err := ref.Get(ctx, &existing); err != nil {
		return fmt.Errorf("get review: %w", err)
	}
	if existing == nil {
		return domain.ErrReviewNotFound
	}

	if err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

func (r *RTDBRepository) List(ctx context.Context) ([]domain.Review, error) {
	var recs map[string]rtdbReview
	if err := r.client.NewRef(reviewsPath).Get(ctx, &recs); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviewsFromRecords(recs), nil
}

// ListByRecipient queries on toUser; the database rules need ".indexOn": ["toUser"].
func (r *RTDBRepository) ListByRecipient(ctx context.Context, toUser string) ([]domain.Review, error) {
	var recs map[string]rtdbReview
	q := r.client.NewRef(reviewsPath).OrderByChild("toUser").EqualTo(toUser)
	if err := q.Get(ctx, &recs); err != nil {
		return nil, fmt.Errorf("list reviews for recipient: %w", err)
	}
	return reviewsFromRecords(recs), nil
}

func reviewsFromRecords(recs map[string]rtdbReview) []domain.Review {
	keys := make([]string, 0, len(recs))
	for k := range recs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	reviews := make([]domain.Review, 0, len(keys))
	for _, k := range keys {
		rec := recs[k]
		reviews = append(reviews, domain.Review{
			ID:           k,
			FromUser:     rec.FromUser,
			FromUserName: rec.FromUserName,
			ToUser:       rec.ToUser,
			ToUserName:   rec.ToUserName,
			Text:         rec.Text,
			Rating:       rec.Rating,
		})
	}
	return reviews
}
