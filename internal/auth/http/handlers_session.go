package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/domain"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/session"
)

// CreateSession exchanges a Firebase ID token for a session cookie.
func (h *Handler) CreateSession(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_token is required"})
		return
	}

	sess, err := h.identity.SignIn(c.Request.Context(), req.IDToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrSignInFailed):
			middleware.Logger(c.Request.Context()).Warn("sign-in rejected", "error", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrSignInFailed.Error()})
		default:
			middleware.Logger(c.Request.Context()).Error("sign-in", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign in"})
		}
		return
	}

	token, err := h.tokens.Issue(sess)
	if err != nil {
		middleware.Logger(c.Request.Context()).Error("issue session token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign in"})
		return
	}

	session.SetCookie(c, token, sess.ExpiresAt, h.cookieSecure)
	c.JSON(http.StatusOK, gin.H{"user": sessionResponse{
		UID:         sess.UID,
		DisplayName: sess.Name,
		Email:       sess.Email,
		Role:        sess.Role,
	}})
}

// DeleteSession signs out. On provider failure the cookie and session stay.
func (h *Handler) DeleteSession(c *gin.Context) {
	sess := auth.SessionFromContext(c)
	if sess == nil {
		session.ClearCookie(c, h.cookieSecure)
		c.Status(http.StatusNoContent)
		return
	}

	if err := h.identity.SignOut(c.Request.Context(), sess); err != nil {
		middleware.Logger(c.Request.Context()).Error("sign-out", "uid", sess.UID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": domain.ErrSignOutFailed.Error()})
		return
	}

	if h.onSignOut != nil {
		h.onSignOut(sess.ID)
	}
	session.ClearCookie(c, h.cookieSecure)
	c.Status(http.StatusNoContent)
}

// Me returns the caller's directory record, creating it on first use.
func (h *Handler) Me(c *gin.Context) {
	id := auth.UserIdentity(c)
	if id.UID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	user, err := h.directory.ReadOrCreate(c.Request.Context(), id.UID, id.DisplayName, id.Email)
	if err != nil {
		middleware.Logger(c.Request.Context()).Error("read or create user", "uid", id.UID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
