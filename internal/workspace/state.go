package workspace

import (
	"time"

	authdomain "github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/domain"
	dirdomain "github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/domain"
	revdomain "github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/domain"
)

// maxNotices bounds the notices kept on a State.
const maxNotices = 5

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient message for the user. IDs increase monotonically
// within a workspace so renderers can tell which ones they already showed.
type Notice struct {
	ID      uint64
	Kind    NoticeKind
	Message string
	At      time.Time
}

// Form is the review form as last seen by the workspace.
type Form struct {
	Text       string
	Rating     int
	Submitting bool
}

func blankForm() Form {
	return Form{Rating: revdomain.MinRating}
}

// State is one immutable snapshot of a signed-in user's view. Every
// change produces a new State; slices are never mutated after publication.
type State struct {
	Version  uint64
	Identity authdomain.Identity
	Role     string

	Users    []dirdomain.User
	Selected string
	Reviews  []revdomain.Review
	Summary  revdomain.Summary
	Form     Form

	Notices    []Notice
	nextNotice uint64

	directoryFailing bool
	reviewsFailing   bool
}

func initialState(id authdomain.Identity, role string) State {
	if role == "" {
		role = dirdomain.RoleUser
	}
	return State{
		Identity: id,
		Role:     role,
		Users:    []dirdomain.User{},
		Reviews:  []revdomain.Review{},
		Summary:  revdomain.Summarize(nil, ""),
		Form:     blankForm(),
	}
}

func (s State) IsAdmin() bool {
	return s.Role == dirdomain.RoleAdmin
}

// SelectedUser returns the selected recipient as cached in the directory.
func (s State) SelectedUser() (dirdomain.User, bool) {
	if s.Selected == "" {
		return dirdomain.User{}, false
	}
	return dirdomain.FindUser(s.Users, s.Selected)
}

// NoticesAfter returns the notices with an ID greater than id.
func (s State) NoticesAfter(id uint64) []Notice {
	var out []Notice
	for _, n := range s.Notices {
		if n.ID > id {
			out = append(out, n)
		}
	}
	return out
}

// LastNoticeID is the ID of the newest notice, or 0.
func (s State) LastNoticeID() uint64 {
	if len(s.Notices) == 0 {
		return 0
	}
	return s.Notices[len(s.Notices)-1].ID
}

func (s State) withNotice(kind NoticeKind, msg string) State {
	s.nextNotice++
	notices := make([]Notice, 0, maxNotices)
	if len(s.Notices) >= maxNotices {
		notices = append(notices, s.Notices[len(s.Notices)-maxNotices+1:]...)
	} else {
		notices = append(notices, s.Notices...)
	}
	s.Notices = append(notices, Notice{ID: s.nextNotice, Kind: kind, Message: msg, At: time.Now()})
	return s
}

func (s State) summarize() State {
	s.Summary = revdomain.Summarize(s.Reviews, s.Selected)
	return s
}
