package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GoSim-25-26J-441/go-reviews-backend/config"
	httpapi "github.com/GoSim-25-26J-441/go-reviews-backend/internal/api/http"
	dirrepo "github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/repository"
	dirservice "github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/service"
	revrepo "github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/repository"
	revservice "github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/service"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/storage/postgres"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/storage/sqlite"
)

// Stores holds the directory and review repositories of the configured
// backend.
type Stores struct {
	Backend   string
	Directory dirservice.Repository
	Reviews   revservice.Repository
	// Ping is nil for backends without a connection to check.
	Ping  httpapi.Pinger
	close func()
}

func (s *Stores) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// OpenStores migrates and opens the backend named by cfg.Store.Backend.
// app is only used by the rtdb backend.
func OpenStores(ctx context.Context, cfg *config.Config, app *firebase.App) (*Stores, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		if err := postgres.Migrate(ctx, &cfg.Database); err != nil {
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		pool, err := OpenDB(ctx, DBOptions{DSN: postgres.DSN(&cfg.Database), MaxConns: cfg.Database.MaxConns})
		if err != nil {
			return nil, err
		}
		return PostgresStores(pool), nil

	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return SQLiteStores(db), nil

	case config.BackendRTDB:
		if app == nil {
			return nil, fmt.Errorf("rtdb backend needs a firebase app")
		}
		client, err := app.Database(ctx)
		if err != nil {
			return nil, fmt.Errorf("firebase database client: %w", err)
		}
		slog.Info("using firebase realtime database", "url", cfg.Firebase.DatabaseURL)
		return &Stores{
			Backend:   config.BackendRTDB,
			Directory: dirrepo.NewRTDBRepository(client),
			Reviews:   revrepo.NewRTDBRepository(client),
		}, nil
	}

	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func PostgresStores(pool *pgxpool.Pool) *Stores {
	return &Stores{
		Backend:   config.BackendPostgres,
		Directory: dirrepo.NewPostgresRepository(pool),
		Reviews:   revrepo.NewPostgresRepository(pool),
		Ping:      httpapi.PingFunc(pool.Ping),
		close:     pool.Close,
	}
}

func SQLiteStores(db *sql.DB) *Stores {
	return &Stores{
		Backend:   config.BackendSQLite,
		Directory: dirrepo.NewSQLiteRepository(db),
		Reviews:   revrepo.NewSQLiteRepository(db),
		Ping:      httpapi.PingFunc(db.PingContext),
		close:     func() { _ = db.Close() },
	}
}
