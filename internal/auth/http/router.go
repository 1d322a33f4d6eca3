package http

import "github.com/gin-gonic/gin"

// RegisterSession mounts the browser sign-in endpoints.
func (h *Handler) RegisterSession(r gin.IRoutes) {
	r.POST("/session", h.CreateSession)
	r.DELETE("/session", h.DeleteSession)
}

// Register mounts the API endpoints. rg must run FirebaseAuthMiddleware.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
}
