package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/domain"
)

const reviewColumns = `id::text, from_user, from_user_name, to_user, to_user_name, text, rating, created_at`

// PostgresRepository stores reviews in the reviews table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, review domain.Review) (string, error) {
	id, err := newReviewID()
	if err != nil {
		return "", err
	}

	const q = `
insert into reviews (id, from_user, from_user_name, to_user, to_user_name, text, rating)
values ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.db.Exec(ctx, q, id, review.FromUser, review.FromUserName,
		review.ToUser, review.ToUserName, review.Text, review.Rating)
	if err != nil {
		return "", fmt.Errorf("insert review: %w", err)
	}
	return id, nil
}

// DeleteByID removes a review by primary key. Ids that are not UUIDs match
// nothing.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) error {
	key, ok := parseReviewID(id)
	if !ok {
		return domain.ErrReviewNotFound
	}

	tag, err := r.db.Exec(ctx, `delete from reviews where id = $1::uuid`, key)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.db.Query(ctx, `select `+reviewColumns+` from reviews order by id`)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return collectReviews(rows)
}

func (r *PostgresRepository) ListByRecipient(ctx context.Context, toUser string) ([]domain.Review, error) {
	rows, err := r.db.Query(ctx, `select `+reviewColumns+` from reviews where to_user = $1 order by id`, toUser)
	if err != nil {
		return nil, fmt.Errorf("list reviews for recipient: %w", err)
	}
	return collectReviews(rows)
}

func collectReviews(rows pgx.Rows) ([]domain.Review, error) {
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}
