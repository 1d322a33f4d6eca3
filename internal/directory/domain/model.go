package domain

import (
	"sort"
	"strings"
	"time"
)

// Role values stored on a directory record.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account in the directory.
// UID is the identity provider's user id and the primary key.
type User struct {
	UID         string    `json:"uid"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// IsAdmin reports whether the stored role grants review deletion.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is one the directory stores.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// NewUser builds the record written on first sign-in.
func NewUser(uid, displayName, email string) User {
	return User{
		UID:         uid,
		DisplayName: displayName,
		Email:       email,
		Role:        RoleUser,
	}
}

// SortUsers orders users by display name (case-insensitive), then uid.
func SortUsers(users []User) {
	sort.SliceStable(users, func(i, j int) bool {
		a, b := strings.ToLower(users[i].DisplayName), strings.ToLower(users[j].DisplayName)
		if a != b {
			return a < b
		}
		return users[i].UID < users[j].UID
	})
}

// FindUser returns the user with uid from users.
func FindUser(users []User, uid string) (User, bool) {
	for _, u := range users {
		if u.UID == uid {
			return u, true
		}
	}
	return User{}, false
}
