package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/domain"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/session"
)

// SessionResolver loads a live session by ID.
type SessionResolver interface {
	Session(ctx context.Context, id string) (*domain.Session, error)
}

// SessionMiddleware attaches the browser session named by the session
// cookie, if any. Requests without a valid session continue signed out.
// Resolving a session extends it, so the cookie is reissued once the
// token nears its own expiry.
func SessionMiddleware(tokens *session.Tokens, resolver SessionResolver, cookieSecure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(session.CookieName)
		if err != nil || cookie == "" {
			c.Next()
			return
		}

		claims, err := tokens.Parse(cookie)
		if err != nil {
			c.Next()
			return
		}

		sess, err := resolver.Session(c.Request.Context(), claims.SessionID)
		if err != nil {
			if !errors.Is(err, domain.ErrInvalidSession) {
				slog.Error("resolve session", "error", err)
			}
			c.Next()
			return
		}
		if sess.UID != claims.UID {
			c.Next()
			return
		}

		if session.NeedsRefresh(claims.ExpiresAt, sess.ExpiresAt) {
			if token, err := tokens.Issue(sess); err != nil {
				slog.Warn("refresh session token", "error", err)
			} else {
				session.SetCookie(c, token, sess.ExpiresAt, cookieSecure)
			}
		}

		c.Set(auth.CtxSession, sess)
		c.Set(auth.CtxFirebaseUID, sess.UID)
		c.Next()
	}
}

// RequireSession rejects requests that carry no live session.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.SessionFromContext(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}
		c.Next()
	}
}
