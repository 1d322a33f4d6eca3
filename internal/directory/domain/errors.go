package domain

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidUser  = errors.New("invalid user record")
	ErrInvalidRole  = errors.New("invalid role")
)
