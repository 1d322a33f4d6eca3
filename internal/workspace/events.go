package workspace

import (
	"errors"
	"log/slog"

	dirdomain "github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/domain"
	revdomain "github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/domain"
)

// event is a transition applied by the workspace loop.
type event interface {
	apply(State) State
}

type usersLoaded struct {
	users []dirdomain.User
}

// The role is reflected from the directory; the workspace never decides it.
func (e usersLoaded) apply(s State) State {
	s.Users = e.users
	if u, ok := dirdomain.FindUser(e.users, s.Identity.UID); ok {
		s.Role = u.Role
	}
	s.directoryFailing = false
	return s
}

type reviewsLoaded struct {
	toUser  string
	reviews []revdomain.Review
}

func (e reviewsLoaded) apply(s State) State {
	if e.toUser != s.Selected {
		return s
	}
	s.Reviews = e.reviews
	s.reviewsFailing = false
	return s.summarize()
}

type selected struct {
	toUser string
}

func (e selected) apply(s State) State {
	if e.toUser != s.Selected {
		s.Reviews = []revdomain.Review{}
		s.reviewsFailing = false
	}
	s.Selected = e.toUser
	return s.summarize()
}

type formEdited struct {
	text   string
	rating int
}

func (e formEdited) apply(s State) State {
	s.Form.Text = e.text
	s.Form.Rating = e.rating
	return s
}

type submitStarted struct {
	text   string
	rating int
}

func (e submitStarted) apply(s State) State {
	s.Form = Form{Text: e.text, Rating: e.rating, Submitting: true}
	return s
}

type submitFinished struct {
	err error
}

func (e submitFinished) apply(s State) State {
	s.Form.Submitting = false
	if e.err != nil {
		return s.withNotice(NoticeError, message(e.err))
	}
	s.Form = blankForm()
	return s.withNotice(NoticeSuccess, "Review submitted")
}

type deleteFinished struct {
	err error
}

func (e deleteFinished) apply(s State) State {
	if e.err != nil {
		return s.withNotice(NoticeError, message(e.err))
	}
	return s.withNotice(NoticeSuccess, "Review deleted")
}

type rejected struct {
	err error
}

func (e rejected) apply(s State) State {
	return s.withNotice(NoticeError, message(e.err))
}

type readSource int

const (
	sourceDirectory readSource = iota
	sourceReviews
)

// readFailed surfaces a subscription load failure once per failure streak.
type readFailed struct {
	source readSource
	err    error
}

func (e readFailed) apply(s State) State {
	switch e.source {
	case sourceDirectory:
		if s.directoryFailing {
			return s
		}
		s.directoryFailing = true
		return s.withNotice(NoticeError, "Could not load users")
	default:
		if s.reviewsFailing {
			return s
		}
		s.reviewsFailing = true
		return s.withNotice(NoticeError, "Could not load reviews")
	}
}

// message turns an error into the text shown to the user. Guard errors
// carry their own wording; anything else is summarized.
func message(err error) string {
	switch {
	case revdomain.IsValidation(err),
		errors.Is(err, revdomain.ErrPermissionDenied),
		errors.Is(err, revdomain.ErrReviewNotFound),
		errors.Is(err, ErrSubmitInProgress):
		return err.Error()
	case errors.Is(err, revdomain.ErrWriteFailed):
		return "Could not save your change, please try again"
	default:
		slog.Error("workspace operation", "error", err)
		return "Something went wrong, please try again"
	}
}
