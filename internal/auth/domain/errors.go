package domain

import "errors"

var (
	ErrSignInFailed   = errors.New("sign-in failed")
	ErrSignOutFailed  = errors.New("sign-out failed")
	ErrInvalidSession = errors.New("invalid or expired session")
	ErrMissingToken   = errors.New("missing authorization token")
)
