package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("database.host", "db.internal")

	cfg := GetConfig()
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, "ledger", cfg.Name)
	assert.Equal(t, "host=db.internal port=5432 user=postgres password=password dbname=ledger sslmode=disable", cfg.DSN())
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t.Run("applies schema", func(t *testing.T) {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, Migrate(context.Background(), db))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports failure", func(t *testing.T) {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").
			WillReturnError(errors.New("permission denied"))

		err := Migrate(context.Background(), db)
		assert.ErrorContains(t, err, "apply schema")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSchemaDefinesLedgerTables(t *testing.T) {
	for _, table := range []string{"users", "accounts", "transactions"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, schema, "CHECK (balance >= 0)")
}
