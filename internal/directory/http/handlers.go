package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/domain"
)

// Lister returns the directory.
type Lister interface {
	List(ctx context.Context) ([]domain.User, error)
}

type Handler struct {
	users Lister
}

func New(users Lister) *Handler {
	return &Handler{users: users}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/users", h.ListUsers)
}

// ListUsers returns every registered user ordered by display name.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		middleware.Logger(c.Request.Context()).Error("list users", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}
