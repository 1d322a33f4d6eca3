package web

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/workspace"
)

// Stream keeps the page in sync with the workspace: every new State
// re-renders the live regions and appends unseen notices.
func (h *Handler) Stream(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	states, stop := ws.Watch()
	defer stop()

	sse := datastar.NewSSE(c.Writer, c.Request)
	ctx := c.Request.Context()

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	var lastNotice uint64
	first := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-keepAlive.C:
			if err := sse.PatchSignals([]byte("{}")); err != nil {
				return
			}
		case s, ok := <-states:
			if !ok {
				_ = sse.Redirect("/")
				return
			}
			if first {
				// Notices raised before this stream opened were for an
				// earlier page.
				lastNotice = s.LastNoticeID()
				first = false
			}
			if err := h.patch(sse, s, lastNotice); err != nil {
				slog.Debug("stream closed", "session", ws.SessionID(), "error", err)
				return
			}
			lastNotice = s.LastNoticeID()
		}
	}
}

func (h *Handler) patch(sse *datastar.ServerSentEventGenerator, s workspace.State, lastNotice uint64) error {
	regions := []struct{ id, tmpl string }{
		{"greeting", "greeting"},
		{"recipient", "recipients"},
		{"summary", "summary"},
	}
	for _, r := range regions {
		html, err := h.renderer.Fragment(r.tmpl, s)
		if err != nil {
			return err
		}
		if err := sse.PatchElements(html, datastar.WithSelectorID(r.id), datastar.WithModeInner()); err != nil {
			return err
		}
	}

	for _, n := range s.NoticesAfter(lastNotice) {
		html, err := h.renderer.Fragment("notice", n)
		if err != nil {
			return err
		}
		if err := sse.PatchElements(html, datastar.WithSelectorID("notices"), datastar.WithModeAppend()); err != nil {
			return err
		}
	}

	return sse.MarshalAndPatchSignals(map[string]any{"submitting": s.Form.Submitting})
}
