package repository

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/db"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/domain"
)

const usersPath = "users"

// rtdbUser is the record shape under users/{uid}.
type rtdbUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u rtdbUser) toDomain(uid string) domain.User {
	role := u.Role
	if role == "" {
		role = domain.RoleUser
	}
	return domain.User{UID: uid, DisplayName: u.Name, Email: u.Email, Role: role}
}

// RTDBRepository keeps the directory in Firebase Realtime Database.
type RTDBRepository struct {
	client *db.Client
}

func NewRTDBRepository(client *db.Client) *RTDBRepository {
	return &RTDBRepository{client: client}
}

// ReadOrCreate runs a transaction on users/{uid} so that concurrent first
// sign-ins cannot overwrite a role written in between.
func (r *RTDBRepository) ReadOrCreate(ctx context.Context, defaults domain.User) (*domain.User, bool, error) {
	if defaults.UID == "" {
		return nil, false, domain.ErrInvalidUser
	}

	var (
		stored  rtdbUser
		created bool
	)
	ref := r.client.NewRef(usersPath + "/" + defaults.UID)
	err := ref.Transaction(ctx, func(node db.TransactionNode) (interface{}, error) {
		var current *rtdbUser
		if err := node.Unmarshal(&current); err != nil {
			return nil, err
		}
		if current != nil {
			stored, created = *current, false
			return current, nil
		}
		stored = rtdbUser{Name: defaults.DisplayName, Email: defaults.Email, Role: defaults.Role}
		created = true
		return stored, nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("read or create user: %w", err)
	}

	u := stored.toDomain(defaults.UID)
	return &u, created, nil
}

func (r *RTDBRepository) Get(ctx context.Context, uid string) (*domain.User, error) {
	var rec *rtdbUser
	if err := r.client.NewRef(usersPath+"/"+uid).Get(ctx, &rec); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if rec == nil {
		return nil, domain.ErrUserNotFound
	}
	u := rec.toDomain(uid)
	return &u, nil
}

func (r *RTDBRepository) List(ctx context.Context) ([]domain.User, error) {
	var recs map[string]rtdbUser
	if err := r.client.NewRef(usersPath).Get(ctx, &recs); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return usersFromRecords(recs), nil
}

func usersFromRecords(recs map[string]rtdbUser) []domain.User {
	users := make([]domain.User, 0, len(recs))
	for uid, rec := range recs {
		users = append(users, rec.toDomain(uid))
	}
	domain.SortUsers(users)
	return users
}

// SetRole rewrites users/{uid}/role inside a transaction so a record that
// does not exist is never created by a role change.
func (r *RTDBRepository) SetRole(ctx context.Context, uid, role string) error {
	if uid == "" {
		return domain.ErrInvalidUser
	}

	found := false
	ref := r.client.NewRef(usersPath + "/" + uid)
	err := ref.Transaction(ctx, func(node db.TransactionNode) (interface{}, error) {
		var current *rtdbUser
		if err := node.Unmarshal(&current); err != nil {
			return nil, err
		}
		if current == nil {
			found = false
			return nil, nil
		}
		found = true
		current.Role = role
		return current, nil
	})
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if !found {
		return domain.ErrUserNotFound
	}
	return nil
}
