package web

import (
	"context"
	"encoding/json"
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

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth"
	authdomain "github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/domain"
	dirdomain "github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/domain"
	dirrepo "github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/repository"
	dirservice "github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/service"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/realtime"
	revrepo "github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/repository"
	revservice "github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/service"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/storage/sqlite"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/workspace"
)

type env struct {
	handler  *Handler
	registry *workspace.Registry
	reviews  *revservice.ReviewService
	users    *dirrepo.SQLiteRepository
	notifier *realtime.RedisNotifier
}

func setup(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(ctx, db))
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	notifier := realtime.NewRedisNotifier(client)
	users := dirrepo.NewSQLiteRepository(db)
	for _, u := range []dirdomain.User{dirdomain.NewUser("1", "Alice", ""), dirdomain.NewUser("2", "Bob", "")} {
		_, _, err := users.ReadOrCreate(ctx, u)
		require.NoError(t, err)
	}

	directory := dirservice.NewDirectoryService(users, notifier)
	reviews := revservice.NewReviewService(revrepo.NewSQLiteRepository(db), users, notifier, nil)
	registry := workspace.NewRegistry(directory, reviews, time.Hour)

	renderer, err := NewRenderer()
	require.NoError(t, err)

	t.Cleanup(func() {
		registry.CloseAll()
		client.Close()
		mr.Close()
		db.Close()
	})

	return &env{
		handler:  New(registry, renderer, FirebaseWebConfig{APIKey: "key", AuthDomain: "demo.firebaseapp.com", ProjectID: "demo"}),
		registry: registry,
		reviews:  reviews,
		users:    users,
		notifier: notifier,
	}
}

func (e *env) router(sess *authdomain.Session) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if sess != nil {
			c.Set(auth.CtxSession, sess)
		}
		c.Next()
	})
	e.handler.Register(r)
	return r
}

func alice() *authdomain.Session {
	return &authdomain.Session{ID: "s1", UID: "1", Name: "Alice", Role: dirdomain.RoleUser}
}

func post(r http.Handler, path string, signals any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(signals)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func waitForUsers(t *testing.T, e *env, sess *authdomain.Session) *workspace.Workspace {
	t.Helper()
	ws, err := e.registry.Open(sess)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(ws.State().Users) == 2 }, 2*time.Second, 10*time.Millisecond)
	return ws
}

func TestPage(t *testing.T) {
	e := setup(t)

	t.Run("signed out", func(t *testing.T) {
		w := httptest.NewRecorder()
		e.router(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Sign in with Google")
		assert.NotContains(t, w.Body.String(), "/ui/stream")
		assert.Zero(t, e.registry.Len())
	})

	t.Run("signed in", func(t *testing.T) {
		waitForUsers(t, e, alice())

		w := httptest.NewRecorder()
		e.router(alice()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Hello, Alice")
		assert.Contains(t, body, "/ui/stream")
		assert.Contains(t, body, `<option value="2">Bob</option>`)
		assert.Contains(t, body, "5 Stars")
		assert.Contains(t, body, "1 Star<")
		assert.NotContains(t, body, "Sign in with Google")
	})
}

func TestUIRequiresSession(t *testing.T) {
	e := setup(t)
	w := post(e.router(nil), "/ui/reviews", map[string]any{"text": "x", "rating": 3})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitFlow(t *testing.T) {
	e := setup(t)
	r := e.router(alice())
	ws := waitForUsers(t, e, alice())

	w := post(r, "/ui/select", map[string]any{"selected": "2"})
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "2", ws.State().Selected)

	w = post(r, "/ui/reviews", map[string]any{"selected": "2", "text": "   ", "rating": 3})
	assert.Equal(t, http.StatusNoContent, w.Code)
	sum, err := e.reviews.SummaryFor(context.Background(), "2")
	require.NoError(t, err)
	assert.Zero(t, sum.Count)

	w = post(r, "/ui/reviews", map[string]any{"selected": "2", "text": "Great teammate", "rating": "4"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "datastar-patch-signals")
	assert.Contains(t, w.Body.String(), `"text":""`)

	sum, err = e.reviews.SummaryFor(context.Background(), "2")
	require.NoError(t, err)
	require.Equal(t, 1, sum.Count)
	assert.Equal(t, "Alice", sum.Reviews[0].FromUserName)
	assert.Equal(t, "Bob", sum.Reviews[0].ToUserName)
	assert.Equal(t, 4.0, sum.Average)

	require.Eventually(t, func() bool { return ws.State().Summary.Count == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, workspace.Form{Text: "", Rating: 1}, ws.State().Form)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, w.Body.String(), "Average rating: 4.0 for Bob (1 reviews)")
}

func TestDeleteRequiresAdmin(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	ws := waitForUsers(t, e, alice())
	require.NoError(t, ws.Select("2"))
	require.NoError(t, ws.Submit(ctx, "Solid", 5))

	sum, err := e.reviews.SummaryFor(ctx, "2")
	require.NoError(t, err)
	id := sum.Reviews[0].ID

	r := e.router(alice())
	req := httptest.NewRequest(http.MethodDelete, "/ui/reviews/"+id, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	sum, err = e.reviews.SummaryFor(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Count)

	// Roles change out-of-band; the workspace reflects it on the next
	// directory delivery.
	require.NoError(t, e.users.SetRole(ctx, "1", dirdomain.RoleAdmin))
	require.NoError(t, e.notifier.Publish(ctx, realtime.TopicDirectory))
	require.Eventually(t, func() bool { return ws.State().IsAdmin() }, 2*time.Second, 10*time.Millisecond)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/ui/reviews/"+id, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	sum, err = e.reviews.SummaryFor(ctx, "2")
	require.NoError(t, err)
	assert.Zero(t, sum.Count)
	require.Eventually(t, func() bool { return ws.State().Summary.Count == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestStream(t *testing.T) {
	e := setup(t)
	ws := waitForUsers(t, e, alice())
	require.NoError(t, ws.Select("2"))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/ui/stream", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	e.router(alice()).ServeHTTP(w, req)

	body := w.Body.String()
	assert.Contains(t, body, "event: datastar-patch-elements")
	assert.Contains(t, body, "selector #summary")
	assert.Contains(t, body, "Average rating: 0 for Bob (0 reviews)")
	assert.NotContains(t, body, "Average rating: 0.0")
}

func TestFlexInt(t *testing.T) {
	var s actionSignals
	require.NoError(t, json.Unmarshal([]byte(`{"rating":"5"}`), &s))
	assert.Equal(t, flexInt(5), s.Rating)
	require.NoError(t, json.Unmarshal([]byte(`{"rating":2}`), &s))
	assert.Equal(t, flexInt(2), s.Rating)
	require.NoError(t, json.Unmarshal([]byte(`{"rating":""}`), &s))
	assert.Equal(t, flexInt(0), s.Rating)
	assert.Error(t, json.Unmarshal([]byte(`{"rating":"five"}`), &s))
}
