package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/domain"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/service"
)

type Handler struct {
	reviews *service.ReviewService
}

func New(reviews *service.ReviewService) *Handler {
	return &Handler{reviews: reviews}
}

// Register mounts the review API. rg must run FirebaseAuthMiddleware.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/users/:uid/reviews", h.ListForUser)
	rg.POST("/reviews", h.Create)
	rg.DELETE("/reviews/:id", h.Delete)
}

type createReviewRequest struct {
	ToUser string `json:"to_user"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// ListForUser returns the reviews about a user with their average.
func (h *Handler) ListForUser(c *gin.Context) {
	summary, err := h.reviews.SummaryFor(c.Request.Context(), c.Param("uid"))
	if err != nil {
		writeError(c, "list reviews", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) Create(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var author *domain.Author
	if id := auth.UserIdentity(c); id.UID != "" {
		author = &domain.Author{UID: id.UID, DisplayName: id.DisplayName}
	}

	review, err := h.reviews.Submit(c.Request.Context(), domain.Submission{
		Author: author,
		ToUser: req.ToUser,
		Text:   req.Text,
		Rating: req.Rating,
	})
	if err != nil {
		writeError(c, "submit review", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.reviews.Delete(c.Request.Context(), auth.UserFirebaseUID(c), c.Param("id")); err != nil {
		writeError(c, "delete review", err)
		return
	}
	c.Status(http.StatusNoContent)
}
