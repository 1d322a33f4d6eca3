package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/domain"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/middleware"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/service"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/session"
	dirrepo "github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/repository"
	dirservice "github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/service"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/realtime"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/storage/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeProvider struct {
	revokeErr error
}

func (p *fakeProvider) VerifyIDToken(_ context.Context, token string) (*domain.Identity, error) {
	if token != "token-a" {
		return nil, errors.New("rejected")
	}
	return &domain.Identity{UID: "A", DisplayName: "Alice", Email: "alice@example.com"}, nil
}

func (p *fakeProvider) RevokeSession(context.Context, string) error { return p.revokeErr }

func setupRouter(t *testing.T) (*gin.Engine, *fakeProvider, *[]string) {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(ctx, db))
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
		db.Close()
	})

	provider := &fakeProvider{}
	directory := dirservice.NewDirectoryService(dirrepo.NewSQLiteRepository(db), realtime.NewRedisNotifier(client))
	identity := service.NewIdentityService(provider, directory, session.NewStore(client, time.Hour))
	tokens := session.NewTokens("0123456789abcdef0123456789abcdef")

	closed := &[]string{}
	h := New(identity, directory, tokens, false)
	h.OnSignOut(func(id string) { *closed = append(*closed, id) })

	r := gin.New()
	r.Use(middleware.SessionMiddleware(tokens, identity, false))
	h.RegisterSession(r)
	api := r.Group("/api/v1", middleware.FirebaseAuthMiddleware(provider))
	h.Register(api)
	return r, provider, closed
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestSessionEndpoints(t *testing.T) {
	r, provider, closed := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(`{"id_token":"token-a"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"user"`)

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	signOut := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/session", nil)
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	provider.revokeErr = errors.New("provider down")
	w = signOut()
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Nil(t, sessionCookie(w))
	assert.Empty(t, *closed)

	provider.revokeErr = nil
	w = signOut()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, *closed, 1)
	require.NotNil(t, sessionCookie(w))
	assert.Empty(t, sessionCookie(w).Value)
}

func TestCreateSession_Rejects(t *testing.T) {
	r, _, _ := setupRouter(t)

	for body, want := range map[string]int{
		`{}`:                    http.StatusBadRequest,
		`{"id_token":"forged"}`: http.StatusUnauthorized,
	} {
		req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, body)
	}
}

func TestMe(t *testing.T) {
	r, _, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer token-a")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":"A"`)
	assert.Contains(t, w.Body.String(), `"role":"user"`)
}
