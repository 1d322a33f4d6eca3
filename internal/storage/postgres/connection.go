package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/GoSim-25-26J-441/go-reviews-backend/config"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/storage/migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func NewConnection(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)

	return db, nil
}

// Migrate opens a short-lived connection and applies the embedded schema.
func Migrate(ctx context.Context, cfg *config.DatabaseConfig) error {
	db, err := NewConnection(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return RunMigrations(ctx, db)
}

// RunMigrations applies the embedded schema on an open connection.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate.Run(ctx, db, MigrationFS(), migrate.Postgres)
}
