package domain

import "time"

// Rating bounds accepted for a review.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a star-rated text review from one user about another.
// FromUserName and ToUserName are copies of the display names at the
// time the review was written and are not refreshed afterwards.
type Review struct {
	ID           string    `json:"id"`
	FromUser     string    `json:"from_user"`
	FromUserName string    `json:"from_user_name"`
	ToUser       string    `json:"to_user"`
	ToUserName   string    `json:"to_user_name"`
	Text         string    `json:"text"`
	Rating       int       `json:"rating"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// Author is the signed-in identity submitting a review.
type Author struct {
	UID         string
	DisplayName string
}

// Submission is an unvalidated review request.
type Submission struct {
	Author *Author
	ToUser string
	Text   string
	Rating int
}

// Summary is the per-recipient view derived from a set of reviews.
type Summary struct {
	ToUser  string   `json:"to_user"`
	Reviews []Review `json:"reviews"`
	Count   int      `json:"count"`
	Average float64  `json:"average"`
}
