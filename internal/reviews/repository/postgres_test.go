package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/domain"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/storage/postgres/pgtest"
)

func setupPostgres(t *testing.T) *PostgresRepository {
	t.Helper()
	pool := pgtest.Pool(t)
	seedUsers(t, pool, "a", "b", "c")
	return NewPostgresRepository(pool)
}

func seedUsers(t *testing.T, pool *pgxpool.Pool, uids ...string) {
	t.Helper()
	for _, uid := range uids {
		_, err := pool.Exec(context.Background(), `insert into users (uid, display_name) values ($1, $1)`, uid)
		require.NoError(t, err)
	}
}

func TestPostgresRepository_CreateAndList(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, domain.Review{FromUser: "a", FromUserName: "A", ToUser: "b", ToUserName: "B", Text: "one", Rating: 5})
	require.NoError(t, err)
	second, err := repo.Create(ctx, domain.Review{FromUser: "c", FromUserName: "C", ToUser: "b", ToUserName: "B", Text: "two", Rating: 3})
	require.NoError(t, err)
	_, err = repo.Create(ctx, domain.Review{FromUser: "b", FromUserName: "B", ToUser: "a", ToUserName: "A", Text: "other", Rating: 1})
	require.NoError(t, err)

	got, err := repo.ListByRecipient(ctx, "b")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{first, second}, []string{got[0].ID, got[1].ID}, "ids order by insertion")
	assert.Equal(t, "one", got[0].Text)
	assert.Equal(t, 5, got[0].Rating)
	assert.False(t, got[0].CreatedAt.IsZero())

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := repo.ListByRecipient(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestPostgresRepository_DeleteByID(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, domain.Review{FromUser: "a", ToUser: "b", Text: "x", Rating: 4})
	require.NoError(t, err)

	assert.ErrorIs(t, repo.DeleteByID(ctx, "not-a-uuid"), domain.ErrReviewNotFound)
	require.NoError(t, repo.DeleteByID(ctx, id))
	assert.ErrorIs(t, repo.DeleteByID(ctx, id), domain.ErrReviewNotFound)

	left, err := repo.ListByRecipient(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestPostgresRepository_RejectsOutOfRangeRating(t *testing.T) {
	repo := setupPostgres(t)

	_, err := repo.Create(context.Background(), domain.Review{FromUser: "a", ToUser: "b", Text: "x", Rating: 6})
	assert.Error(t, err)
}
