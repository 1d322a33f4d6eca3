package domain

import (
	"strconv"
	"strings"
)

// Validate checks a submission in guard order: identity, recipient, text, rating.
// It performs no I/O.
func (s Submission) Validate() error {
	if s.Author == nil || strings.TrimSpace(s.Author.UID) == "" {
		return ErrNotSignedIn
	}
	if strings.TrimSpace(s.ToUser) == "" {
		return ErrNoRecipient
	}
	if strings.TrimSpace(s.Text) == "" {
		return ErrEmptyText
	}
	if !ValidRating(s.Rating) {
		return ErrRatingOutOfRange
	}
	return nil
}

// ValidRating reports whether r is within [MinRating, MaxRating].
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// StarLabel renders a rating as "1 Star", "2 Stars", ...
func StarLabel(r int) string {
	if r == 1 {
		return "1 Star"
	}
	return strconv.Itoa(r) + " Stars"
}
