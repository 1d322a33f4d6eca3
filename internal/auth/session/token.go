package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/domain"
)

// CookieName is the browser cookie carrying the signed session token.
const CookieName = "reviews_session"

// Tokens signs and verifies session cookies. The token only names the
// session; its state lives in the Store.
type Tokens struct {
	secret []byte
}

func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret)}
}

// Issue signs a token for sess, expiring with it.
func (t *Tokens) Issue(sess *domain.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   sess.UID,
		IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Claims is what a verified session token names.
type Claims struct {
	SessionID string
	UID       string
	ExpiresAt time.Time
}

// Parse validates a token and returns the session it names.
func (t *Tokens) Parse(tokenString string) (Claims, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithLeeway(5*time.Second))
	if err != nil || !token.Valid {
		return Claims{}, domain.ErrInvalidSession
	}
	if claims.ID == "" || claims.Subject == "" || claims.ExpiresAt == nil {
		return Claims{}, domain.ErrInvalidSession
	}
	return Claims{SessionID: claims.ID, UID: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// NeedsRefresh reports whether a token expiring at tokenExp should be
// reissued for a session now live until sessionExp. Tokens are refreshed
// once less than half of the session's remaining lifetime is left on them.
func NeedsRefresh(tokenExp, sessionExp time.Time) bool {
	return time.Until(tokenExp) < time.Until(sessionExp)/2
}
