package http

import (
	"context"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/service"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/session"
	dirdomain "github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/domain"
)

// Directory creates the user record for API callers.
type Directory interface {
	ReadOrCreate(ctx context.Context, uid, displayName, email string) (*dirdomain.User, error)
}

type Handler struct {
	identity     *service.IdentityService
	directory    Directory
	tokens       *session.Tokens
	cookieSecure bool
	onSignOut    func(sessionID string)
}

func New(identity *service.IdentityService, directory Directory, tokens *session.Tokens, cookieSecure bool) *Handler {
	return &Handler{
		identity:     identity,
		directory:    directory,
		tokens:       tokens,
		cookieSecure: cookieSecure,
	}
}

// OnSignOut registers a hook run after a session has ended.
func (h *Handler) OnSignOut(fn func(sessionID string)) {
	h.onSignOut = fn
}

type signInRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

type sessionResponse struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}
