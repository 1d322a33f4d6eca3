package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/rid", func(c *gin.Context) {
		assert.Equal(t, c.GetString("request_id"), GetRequestID(c.Request.Context()))
		assert.NotNil(t, Logger(c.Request.Context()))
		c.String(http.StatusOK, GetRequestID(c.Request.Context()))
	})

	t.Run("echoes incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/rid", nil)
		req.Header.Set("X-Request-Id", "abc-123")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, "abc-123", rr.Header().Get("X-Request-Id"))
		assert.Equal(t, "abc-123", rr.Body.String())
	})

	t.Run("generates when missing or oversized", func(t *testing.T) {
		for _, incoming := range []string{"", strings.Repeat("x", 200)} {
			req := httptest.NewRequest(http.MethodGet, "/rid", nil)
			if incoming != "" {
				req.Header.Set("X-Request-Id", incoming)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			rid := rr.Header().Get("X-Request-Id")
			_, err := uuid.Parse(rid)
			require.NoError(t, err)
			assert.Equal(t, rid, rr.Body.String())
		}
	})
}
