package domain

import "errors"

var (
	ErrNotSignedIn      = errors.New("sign in to leave a review")
	ErrNoRecipient      = errors.New("select a user to review")
	ErrUnknownRecipient = errors.New("selected user is not registered")
	ErrEmptyText        = errors.New("review text cannot be empty")
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5 stars")
	ErrRateLimited      = errors.New("too many reviews, try again shortly")
	ErrPermissionDenied = errors.New("only administrators can delete reviews")
	ErrReviewNotFound   = errors.New("review not found")
	ErrWriteFailed      = errors.New("review write failed")
)

// IsValidation reports whether err is a guard rejection raised before any write.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNotSignedIn) ||
		errors.Is(err, ErrNoRecipient) ||
		errors.Is(err, ErrUnknownRecipient) ||
		errors.Is(err, ErrEmptyText) ||
		errors.Is(err, ErrRatingOutOfRange) ||
		errors.Is(err, ErrRateLimited)
}
