package domain

import "math"

// ForRecipient returns the reviews addressed to toUser, keeping their order.
func ForRecipient(reviews []Review, toUser string) []Review {
	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if r.ToUser == toUser {
			out = append(out, r)
		}
	}
	return out
}

// Average returns the mean rating rounded to one decimal place, or 0 for no reviews.
func Average(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return math.Round(float64(total)/float64(len(reviews))*10) / 10
}

// Summarize filters reviews by recipient and computes the average.
func Summarize(reviews []Review, toUser string) Summary {
	if toUser == "" {
		return Summary{Reviews: []Review{}}
	}
	filtered := ForRecipient(reviews, toUser)
	return Summary{
		ToUser:  toUser,
		Reviews: filtered,
		Count:   len(filtered),
		Average: Average(filtered),
	}
}
