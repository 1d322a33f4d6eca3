package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/GoSim-25-26J-441/go-reviews-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth"
	authhttp "github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/http"
	authmw "github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/middleware"
	authservice "github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/service"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/session"
	dirhttp "github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/http"
	dirservice "github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/service"
	revhttp "github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/http"
	revservice "github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/service"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/web"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/workspace"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	Store          string
	Checks         map[string]httpapi.Pinger
	AllowedOrigins []string
	CookieSecure   bool

	Provider  auth.Provider
	Identity  *authservice.IdentityService
	Tokens    *session.Tokens
	Directory *dirservice.DirectoryService
	Reviews   *revservice.ReviewService
	Registry  *workspace.Registry
	Renderer  *web.Renderer
	Firebase  web.FirebaseWebConfig
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Store)
	for name, p := range dep.Checks {
		healthHandler.AddCheck(name, p)
	}
	healthHandler.RegisterRoutes(r)

	// Browser surface: session cookie.
	r.Use(authmw.SessionMiddleware(dep.Tokens, dep.Identity, dep.CookieSecure))

	authHandler := authhttp.New(dep.Identity, dep.Directory, dep.Tokens, dep.CookieSecure)
	authHandler.OnSignOut(dep.Registry.Close)
	authHandler.RegisterSession(r)

	web.New(dep.Registry, dep.Renderer, dep.Firebase).Register(r)

	// API surface: Firebase bearer token.
	api := r.Group("/api/v1")
	api.Use(authmw.FirebaseAuthMiddleware(dep.Provider))

	authHandler.Register(api)
	dirhttp.New(dep.Directory).Register(api)
	revhttp.New(dep.Reviews).Register(api)

	return r
}
