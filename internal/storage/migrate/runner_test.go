package migrate_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/storage/migrate"
)

var testFiles = fstest.MapFS{
	"001_users.sql":   {Data: []byte("CREATE TABLE users (uid TEXT PRIMARY KEY);")},
	"002_reviews.sql": {Data: []byte("CREATE TABLE reviews (id TEXT PRIMARY KEY);")},
	"README.md":       {Data: []byte("ignored")},
}

func TestRun_Postgres(t *testing.T) {
	t.Run("applies pending migrations in order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT filename FROM schema_migrations`).
			WillReturnRows(sqlmock.NewRows([]string{"filename"}).AddRow("001_users.sql"))
		mock.ExpectBegin()
		mock.ExpectExec(`CREATE TABLE reviews`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO schema_migrations \(filename\) VALUES \(\$1\)`).
			WithArgs("002_reviews.sql").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = migrate.Run(context.Background(), db, testFiles, migrate.Postgres)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back a failing migration", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT filename FROM schema_migrations`).
			WillReturnRows(sqlmock.NewRows([]string{"filename"}))
		mock.ExpectBegin()
		mock.ExpectExec(`CREATE TABLE users`).
			WillReturnError(errors.New("syntax error"))
		mock.ExpectRollback()

		err = migrate.Run(context.Background(), db, testFiles, migrate.Postgres)
		assert.ErrorContains(t, err, "001_users.sql")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
