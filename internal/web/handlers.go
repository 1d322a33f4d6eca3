package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/middleware"
	revdomain "github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/domain"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/workspace"
)

// Handler serves the page and the datastar endpoints that drive a
// session's workspace.
type Handler struct {
	registry  *workspace.Registry
	renderer  *Renderer
	firebase  FirebaseWebConfig
	keepAlive time.Duration
}

func New(registry *workspace.Registry, renderer *Renderer, firebase FirebaseWebConfig) *Handler {
	return &Handler{
		registry:  registry,
		renderer:  renderer,
		firebase:  firebase,
		keepAlive: 15 * time.Second,
	}
}

// Register mounts the page and UI routes. r must run SessionMiddleware.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", h.Page)

	ui := r.Group("/ui", middleware.RequireSession())
	ui.GET("/stream", h.Stream)
	ui.POST("/select", h.Select)
	ui.POST("/reviews", h.Submit)
	ui.DELETE("/reviews/:id", h.Delete)
}

// Page renders the full page, signed in or out.
func (h *Handler) Page(c *gin.Context) {
	data := pageData{Ratings: ratings(), Firebase: h.firebase}

	if sess := auth.SessionFromContext(c); sess != nil {
		ws, err := h.registry.Open(sess)
		if err != nil {
			slog.Error("open workspace", "session", sess.ID, "error", err)
			c.String(http.StatusBadGateway, "Could not load your workspace, please retry.")
			return
		}
		data.SignedIn = true
		data.State = ws.State()
		if data.Signals, err = initialSignals(data.State); err != nil {
			slog.Error("encode signals", "error", err)
			c.Status(http.StatusInternalServerError)
			return
		}
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.renderer.Page(c.Writer, data); err != nil {
		slog.Error("render page", "error", err)
	}
}

// Select changes the selected recipient.
func (h *Handler) Select(c *gin.Context) {
	ws, signals, ok := h.action(c)
	if !ok {
		return
	}

	if err := ws.Select(signals.Selected); err != nil {
		slog.Warn("select recipient", "session", ws.SessionID(), "error", err)
	}
	c.Status(http.StatusNoContent)
}

// Submit posts the form. On success the form signals are reset; on
// failure they are left for the user to retry. Outcomes reach the page as
// notices on the stream.
func (h *Handler) Submit(c *gin.Context) {
	ws, signals, ok := h.action(c)
	if !ok {
		return
	}

	err := ws.Submit(c.Request.Context(), signals.Text, int(signals.Rating))
	if err != nil {
		if !revdomain.IsValidation(err) && !errors.Is(err, workspace.ErrSubmitInProgress) {
			slog.Error("submit review", "session", ws.SessionID(), "error", err)
		}
		c.Status(http.StatusNoContent)
		return
	}

	sse := datastar.NewSSE(c.Writer, c.Request)
	if err := sse.MarshalAndPatchSignals(map[string]any{"text": "", "rating": revdomain.MinRating}); err != nil {
		slog.Warn("reset form signals", "error", err)
	}
}

// Delete removes a review. There is no optimistic removal: the list
// changes when the mirror reflects the delete.
func (h *Handler) Delete(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	if err := ws.Delete(c.Request.Context(), c.Param("id")); err != nil {
		slog.Warn("delete review", "session", ws.SessionID(), "id", c.Param("id"), "error", err)
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) action(c *gin.Context) (*workspace.Workspace, actionSignals, bool) {
	var signals actionSignals
	ws, ok := h.workspace(c)
	if !ok {
		return nil, signals, false
	}
	if err := datastar.ReadSignals(c.Request, &signals); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signals"})
		return nil, signals, false
	}
	return ws, signals, true
}

func (h *Handler) workspace(c *gin.Context) (*workspace.Workspace, bool) {
	sess := auth.SessionFromContext(c)
	if sess == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return nil, false
	}
	ws, err := h.registry.Open(sess)
	if err != nil {
		slog.Error("open workspace", "session", sess.ID, "error", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "workspace unavailable"})
		return nil, false
	}
	return ws, true
}
