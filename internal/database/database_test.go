package database

import (
	"context"
	"errors"
	"testing"

	"bloghub/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	dbStruct := &DB{sqlx.NewDb(db, "sqlmock")}

	t.Run("Migrations applied", func(t *testing.T) {
		mock.ExpectExec(migrationSQL).WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, dbStruct.RunMigrations(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Migration error", func(t *testing.T) {
		mock.ExpectExec(migrationSQL).WillReturnError(errors.New("syntax error"))

		err := dbStruct.RunMigrations(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "error applying migrations")
	})
}

func TestMigrationSchema(t *testing.T) {
	assert.Contains(t, migrationSQL, "CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email)")
	assert.Contains(t, migrationSQL, "is_admin      BOOLEAN NOT NULL DEFAULT FALSE")
}

func TestHealthCheck(t *testing.T) {
	var nilDB *DB
	assert.Error(t, nilDB.HealthCheck(context.Background()))

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	dbStruct := &DB{sqlx.NewDb(db, "sqlmock")}

	assert.NoError(t, dbStruct.HealthCheck(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectRedis(t *testing.T) {
	client, err := ConnectRedis(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, client)

	mr := miniredis.RunT(t)
	client, err = ConnectRedis(context.Background(), &config.Config{Redis: config.Redis{Addr: mr.Addr()}})
	require.NoError(t, err)
	require.NotNil(t, client)
	client.Close()
}
