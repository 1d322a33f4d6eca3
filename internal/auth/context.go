package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/domain"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxEmail       = "email"
	CtxDisplayName = "display_name"
	CtxSession     = "session"
)

// UserFirebaseUID extracts the Firebase UID from the Gin context.
// This is set by FirebaseAuthMiddleware.
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// UserIdentity returns the verified identity set by FirebaseAuthMiddleware.
func UserIdentity(c *gin.Context) domain.Identity {
	return domain.Identity{
		UID:         UserFirebaseUID(c),
		DisplayName: c.GetString(CtxDisplayName),
		Email:       c.GetString(CtxEmail),
	}
}

// SessionFromContext returns the browser session set by SessionMiddleware,
// or nil when signed out.
func SessionFromContext(c *gin.Context) *domain.Session {
	v, ok := c.Get(CtxSession)
	if !ok {
		return nil
	}
	sess, _ := v.(*domain.Session)
	return sess
}
