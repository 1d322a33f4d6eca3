package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/domain"
)

// SQLiteRepository is the local-development directory backend.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ReadOrCreate(ctx context.Context, defaults domain.User) (*domain.User, bool, error) {
	if defaults.UID == "" {
		return nil, false, domain.ErrInvalidUser
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (uid, display_name, email, role, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (uid) DO NOTHING`,
		defaults.UID, defaults.DisplayName, defaults.Email, defaults.Role, now,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}

	u, err := r.Get(ctx, defaults.UID)
	if err != nil {
		return nil, false, err
	}
	return u, n == 1, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, uid string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx,
		`SELECT uid, display_name, email, role, created_at FROM users WHERE uid = ?`, uid,
	).Scan(&u.UID, &u.DisplayName, &u.Email, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT uid, display_name, email, role, created_at FROM users ORDER BY lower(display_name), uid`)
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
	return users, rows.Err()
}

// SetRole changes a stored role.
func (r *SQLiteRepository) SetRole(ctx context.Context, uid, role string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE uid = ?`, role, uid)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
