package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SetCookie writes the session cookie, expiring at expiresAt.
func SetCookie(c *gin.Context, token string, expiresAt time.Time, secure bool) {
	writeCookie(c, token, int(time.Until(expiresAt).Seconds()), secure)
}

// ClearCookie removes the session cookie.
func ClearCookie(c *gin.Context, secure bool) {
	writeCookie(c, "", -1, secure)
}

func writeCookie(c *gin.Context, value string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, maxAge, "/", "", secure, true)
}
