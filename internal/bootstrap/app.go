package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/go-reviews-backend/config"
	httpapi "github.com/GoSim-25-26J-441/go-reviews-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth"
	authservice "github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/service"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/auth/session"
	dirservice "github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/service"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/realtime"
	revservice "github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/service"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/scheduler"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/web"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/workspace"
)

const (
	ServiceName = "go-reviews-backend"

	workspaceSweepSchedule = "@every 1m"
	limiterSweepSchedule   = "@every 10m"
	limiterIdle            = 10 * time.Minute
)

// App is the wired service: stores, Redis, sessions and the HTTP router.
type App struct {
	Router   *gin.Engine
	Registry *workspace.Registry

	cfg      *config.Config
	stores   *Stores
	redis    *redis.Client
	notifier *realtime.RedisNotifier
	sessions *session.Store
	limiter  *revservice.Limiter
}

// Deps are the external connections an App is built on.
type Deps struct {
	Provider auth.Provider
	Stores   *Stores
	Redis    *redis.Client
}

// Connect opens every external dependency named by cfg.
func Connect(ctx context.Context, cfg *config.Config) (*Deps, error) {
	app, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
	if err != nil {
		return nil, err
	}

	provider, err := auth.NewFirebaseProvider(ctx, app)
	if err != nil {
		return nil, err
	}

	rdb, err := OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		return nil, err
	}

	stores, err := OpenStores(ctx, cfg, app)
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("dependencies connected", "store", stores.Backend, "redis", cfg.Redis.Addr)
	return &Deps{Provider: provider, Stores: stores, Redis: rdb}, nil
}

// NewApp wires services and routes over deps. The App owns deps from here on.
func NewApp(cfg *config.Config, deps *Deps) (*App, error) {
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	notifier := realtime.NewRedisNotifier(deps.Redis)
	sessions := session.NewStore(deps.Redis, cfg.Session.TTL)
	tokens := session.NewTokens(cfg.Session.Secret)
	limiter := revservice.NewLimiter(cfg.RateLimit.ReviewsPerMinute, cfg.RateLimit.Burst)

	directory := dirservice.NewDirectoryService(deps.Stores.Directory, notifier)
	reviews := revservice.NewReviewService(deps.Stores.Reviews, directory, notifier, limiter)
	identity := authservice.NewIdentityService(deps.Provider, directory, sessions)
	registry := workspace.NewRegistry(directory, reviews, cfg.Session.TTL)

	checks := map[string]httpapi.Pinger{
		"redis": httpapi.PingFunc(func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() }),
	}
	if deps.Stores.Ping != nil {
		checks["db"] = deps.Stores.Ping
	}

	router := BuildRouter(RouterDeps{
		ServiceName:    ServiceName,
		Version:        cfg.App.Version,
		Store:          deps.Stores.Backend,
		Checks:         checks,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		CookieSecure:   cfg.Server.CookieSecure,
		Provider:       deps.Provider,
		Identity:       identity,
		Tokens:         tokens,
		Directory:      directory,
		Reviews:        reviews,
		Registry:       registry,
		Renderer:       renderer,
		Firebase: web.FirebaseWebConfig{
			APIKey:     cfg.Firebase.WebAPIKey,
			AuthDomain: cfg.Firebase.AuthDomain,
			ProjectID:  cfg.Firebase.ProjectID,
		},
	})

	return &App{
		Router:   router,
		Registry: registry,
		cfg:      cfg,
		stores:   deps.Stores,
		redis:    deps.Redis,
		notifier: notifier,
		sessions: sessions,
		limiter:  limiter,
	}, nil
}

// Schedule registers the background jobs on s.
func (a *App) Schedule(s *scheduler.Scheduler) error {
	if err := s.Add(a.cfg.Sync.ResyncSchedule, "resync",
		scheduler.ResyncJob(a.notifier, realtime.TopicDirectory, realtime.TopicReviews)); err != nil {
		return err
	}
	if err := s.Add(workspaceSweepSchedule, "workspace-sweep",
		scheduler.WorkspaceSweepJob(a.Registry, a.sessions)); err != nil {
		return err
	}
	return s.Add(limiterSweepSchedule, "limiter-sweep",
		scheduler.LimiterSweepJob(a.limiter, limiterIdle))
}

// Close ends every workspace and releases the connections.
func (a *App) Close() {
	a.Registry.CloseAll()
	a.stores.Close()
	if err := a.redis.Close(); err != nil {
		slog.Warn("close redis", "error", err)
	}
}
