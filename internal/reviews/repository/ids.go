package repository

import (
	"fmt"

	"github.com/google/uuid"
)

// newReviewID returns a time-ordered id so that ordering by id is insertion order.
func newReviewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate review id: %w", err)
	}
	return id.String(), nil
}

// parseReviewID returns the canonical form of a stored review id. ok is false
// for anything that cannot name a review.
func parseReviewID(id string) (canonical string, ok bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
