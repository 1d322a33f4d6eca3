package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/domain"
)

// PostgresRepository stores the directory in the users table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ReadOrCreate inserts defaults when no record exists for defaults.UID and
// otherwise returns the stored record untouched.
func (r *PostgresRepository) ReadOrCreate(ctx context.Context, defaults domain.User) (*domain.User, bool, error) {
	if defaults.UID == "" {
		return nil, false, domain.ErrInvalidUser
	}

	const q = `
insert into users (uid, display_name, email, role)
values ($1, $2, $3, $4)
on conflict (uid) do nothing
returning uid, display_name, email, role, created_at;
`
	var u domain.User
	err := r.db.QueryRow(ctx, q, defaults.UID, defaults.DisplayName, defaults.Email, defaults.Role).
		Scan(&u.UID, &u.DisplayName, &u.Email, &u.Role, &u.CreatedAt)
	if err == nil {
		return &u, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("insert user: %w", err)
	}

	existing, err := r.Get(ctx, defaults.UID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *PostgresRepository) Get(ctx context.Context, uid string) (*domain.User, error) {
	const q = `select uid, display_name, email, role, created_at from users where uid = $1`

	var u domain.User
	err := r.db.QueryRow(ctx, q, uid).Scan(&u.UID, &u.DisplayName, &u.Email, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]domain.User, error) {
	const q = `select uid, display_name, email, role, created_at from users order by lower(display_name), uid`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.UID, &u.DisplayName, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// SetRole changes a stored role.
func (r *PostgresRepository) SetRole(ctx context.Context, uid, role string) error {
	tag, err := r.db.Exec(ctx, `update users set role = $1 where uid = $2`, role, uid)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
