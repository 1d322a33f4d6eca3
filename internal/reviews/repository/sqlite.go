package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/domain"
)

// SQLiteRepository is the local-development review backend.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, review domain.Review) (string, error) {
	id, err := newReviewID()
	if err != nil {
		return "", err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO reviews (id, from_user, from_user_name, to_user, to_user_name, text, rating, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, review.FromUser, review.FromUserName, review.ToUser, review.ToUserName,
		review.Text, review.Rating, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert review: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]domain.Review, error) {
	return r.query(ctx, `SELECT id, from_user, from_user_name, to_user, to_user_name, text, rating, created_at
		FROM reviews ORDER BY id`)
}

func (r *SQLiteRepository) ListByRecipient(ctx context.Context, toUser string) ([]domain.Review, error) {
	return r.query(ctx, `SELECT id, from_user, from_user_name, to_user, to_user_name, text, rating, created_at
		FROM reviews WHERE to_user = ? ORDER BY id`, toUser)
}

func (r *SQLiteRepository) query(ctx context.Context, q string, args ...any) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.FromUser, &rv.FromUserName, &rv.ToUser,
			&rv.ToUserName, &rv.Text, &rv.Rating, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
